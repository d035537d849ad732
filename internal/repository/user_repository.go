package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/edge-fabric/api-gateway/internal/auth"
	"github.com/edge-fabric/api-gateway/internal/domain"
	"github.com/edge-fabric/api-gateway/internal/persistence"
)

// ErrNotFound signals a missing record in a JSON-file repository.
var ErrNotFound = errors.New("record not found")

// UserRepository defines persistence access for users.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int) error
}

type usersDocument struct {
	Users []domain.User `json:"users"`
}

type userRepository struct {
	store      *persistence.Store
	bcryptCost int
	logger     *zap.Logger
}

// NewUserRepository returns a JSON-file backed implementation. The document
// is seeded with an admin and a regular user on first access.
func NewUserRepository(store *persistence.Store, bcryptCost int, logger *zap.Logger) UserRepository {
	return &userRepository{store: store, bcryptCost: bcryptCost, logger: logger}
}

func (r *userRepository) load() (*usersDocument, error) {
	var doc usersDocument
	if err := r.store.Load(&doc, r.seed); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *userRepository) seed() any {
	now := time.Now()
	adminHash, err := auth.HashPassword("admin123", r.bcryptCost)
	if err != nil {
		r.logger.Error("failed to hash seed password", zap.Error(err))
	}
	userHash, err := auth.HashPassword("user123", r.bcryptCost)
	if err != nil {
		r.logger.Error("failed to hash seed password", zap.Error(err))
	}
	return usersDocument{Users: []domain.User{
		{
			ID:           1,
			Username:     "admin",
			Email:        "admin@example.com",
			PasswordHash: adminHash,
			FullName:     "Administrator",
			Role:         domain.RoleAdmin,
			IsActive:     true,
			CreatedAt:    now,
		},
		{
			ID:           2,
			Username:     "user",
			Email:        "user@example.com",
			PasswordHash: userHash,
			FullName:     "Regular User",
			Role:         domain.RoleUser,
			IsActive:     true,
			CreatedAt:    now,
		},
	}}
}

func (r *userRepository) List(_ context.Context) ([]domain.User, error) {
	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	return doc.Users, nil
}

func (r *userRepository) GetByID(_ context.Context, id int) (*domain.User, error) {
	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range doc.Users {
		if doc.Users[i].ID == id {
			user := doc.Users[i]
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (r *userRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range doc.Users {
		if doc.Users[i].Username == username {
			user := doc.Users[i]
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	doc, err := r.load()
	if err != nil {
		return err
	}
	user.ID = nextUserID(doc.Users)
	user.CreatedAt = time.Now()
	doc.Users = append(doc.Users, *user)
	return r.store.Save(doc)
}

func (r *userRepository) Update(_ context.Context, user *domain.User) error {
	doc, err := r.load()
	if err != nil {
		return err
	}
	for i := range doc.Users {
		if doc.Users[i].ID == user.ID {
			doc.Users[i] = *user
			return r.store.Save(doc)
		}
	}
	return ErrNotFound
}

func (r *userRepository) Delete(_ context.Context, id int) error {
	doc, err := r.load()
	if err != nil {
		return err
	}
	for i := range doc.Users {
		if doc.Users[i].ID == id {
			doc.Users = append(doc.Users[:i], doc.Users[i+1:]...)
			return r.store.Save(doc)
		}
	}
	return ErrNotFound
}

func nextUserID(users []domain.User) int {
	next := 1
	for _, u := range users {
		if u.ID >= next {
			next = u.ID + 1
		}
	}
	return next
}
