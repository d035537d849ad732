package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the gateway and both backends.
type Config struct {
	App     AppConfig
	Auth    AuthConfig
	Gateway GatewayConfig
	Store   StoreConfig
	Logger  LoggerConfig
}

// AppConfig controls server level behavior for the three processes.
type AppConfig struct {
	Name              string
	Env               string
	Host              string
	GatewayPort       string
	UsersServicePort  string
	OrdersServicePort string
	Version           string
}

// AuthConfig defines token issuance and password hashing parameters.
type AuthConfig struct {
	JWTSecret       string
	TokenTTLMinutes int
	BcryptCost      int
}

// GatewayConfig holds downstream service locations.
type GatewayConfig struct {
	UsersServiceURL  string
	OrdersServiceURL string
	// DownstreamTimeoutSeconds of zero disables the outbound timeout,
	// matching the historical behavior of the gateway.
	DownstreamTimeoutSeconds int
}

// StoreConfig locates the JSON documents backing each service.
type StoreConfig struct {
	UsersFile  string
	OrdersFile string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:              getEnv("APP_NAME", "api-gateway"),
			Env:               getEnv("APP_ENV", "development"),
			Host:              getEnv("APP_HOST", "0.0.0.0"),
			GatewayPort:       getEnv("GATEWAY_PORT", "8000"),
			UsersServicePort:  getEnv("USERS_SERVICE_PORT", "8001"),
			OrdersServicePort: getEnv("ORDERS_SERVICE_PORT", "8002"),
			Version:           getEnv("APP_VERSION", "dev"),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("AUTH_JWT_SECRET", "dev-secret"),
			TokenTTLMinutes: getEnvAsInt("AUTH_TOKEN_TTL_MINUTES", 30),
			BcryptCost:      getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Gateway: GatewayConfig{
			UsersServiceURL:          getEnv("USERS_SERVICE_URL", "http://127.0.0.1:8001/api"),
			OrdersServiceURL:         getEnv("ORDERS_SERVICE_URL", "http://127.0.0.1:8002/api"),
			DownstreamTimeoutSeconds: getEnvAsInt("GATEWAY_DOWNSTREAM_TIMEOUT_SECONDS", 0),
		},
		Store: StoreConfig{
			UsersFile:  getEnv("USERS_DB_FILE", "users_db.json"),
			OrdersFile: getEnv("ORDERS_DB_FILE", "orders_db.json"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if cfg.Auth.TokenTTLMinutes <= 0 {
		return nil, fmt.Errorf("AUTH_TOKEN_TTL_MINUTES must be positive")
	}

	return cfg, nil
}

// GatewayAddr returns the gateway bind address.
func (a AppConfig) GatewayAddr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.GatewayPort)
}

// UsersServiceAddr returns the users service bind address.
func (a AppConfig) UsersServiceAddr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.UsersServicePort)
}

// OrdersServiceAddr returns the orders service bind address.
func (a AppConfig) OrdersServiceAddr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.OrdersServicePort)
}

// DownstreamTimeout returns the configured outbound call timeout, zero meaning none.
func (g GatewayConfig) DownstreamTimeout() time.Duration {
	if g.DownstreamTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(g.DownstreamTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
