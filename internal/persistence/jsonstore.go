package persistence

import (
	"encoding/json"
	"os"
	"sync"

	"go.uber.org/zap"
)

// Store persists a single JSON document on disk. Reads fully parse the
// document; writes fully rewrite it. A process-local mutex serializes access
// within one process; no cross-process safety is provided.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

// NewStore creates a store backed by the given file path.
func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Load parses the document into v. When the file does not exist and seed is
// non-nil, the seed document is written first and then parsed into v.
func (s *Store) Load(v any, seed func() any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) || seed == nil {
			return err
		}
		doc := seed()
		if err := s.write(doc); err != nil {
			return err
		}
		s.logger.Info("seeded json store", zap.String("path", s.path))
		if data, err = os.ReadFile(s.path); err != nil {
			return err
		}
	}
	return json.Unmarshal(data, v)
}

// Save rewrites the whole document.
func (s *Store) Save(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(v)
}

func (s *Store) write(v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
