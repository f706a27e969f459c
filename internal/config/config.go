package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the client and the mock backend.
type Config struct {
	App      AppConfig
	API      APIConfig
	Storage  StorageConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Mock     MockConfig
}

// AppConfig carries process level metadata.
type AppConfig struct {
	Name    string
	Env     string
	Version string
}

// APIConfig points the client at the backend REST surface.
type APIConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// StorageDriver selects the persistent key-value backend.
type StorageDriver string

const (
	StorageDriverMemory   StorageDriver = "memory"
	StorageDriverFile     StorageDriver = "file"
	StorageDriverRedis    StorageDriver = "redis"
	StorageDriverPostgres StorageDriver = "postgres"
)

// StorageConfig configures where tokens and profile records live.
type StorageConfig struct {
	Driver   StorageDriver
	FilePath string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level    string
	Encoding string
}

// MockConfig configures the stub backend served by cmd/mockapi.
type MockConfig struct {
	Host                  string
	Port                  string
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	SeedPassword          string
	OTPCode               string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	driver := StorageDriver(strings.ToLower(getEnv("STORAGE_DRIVER", string(StorageDriverFile))))
	switch driver {
	case StorageDriverMemory, StorageDriverFile, StorageDriverRedis, StorageDriverPostgres:
	default:
		return nil, fmt.Errorf("invalid STORAGE_DRIVER: %q", driver)
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "crmctl"),
			Env:     getEnv("APP_ENV", "development"),
			Version: getEnv("APP_VERSION", "dev"),
		},
		API: APIConfig{
			BaseURL:        getEnv("API_BASE_URL", "http://localhost:5000/api"),
			TimeoutSeconds: getEnvAsInt("API_TIMEOUT_SECONDS", 0),
		},
		Storage: StorageConfig{
			Driver:   driver,
			FilePath: getEnv("STORAGE_FILE", defaultStorageFile()),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 4)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 0)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "crm:storage:"),
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_FORMAT", "json"),
		},
		Mock: MockConfig{
			Host:                  getEnv("MOCK_HOST", "127.0.0.1"),
			Port:                  getEnv("MOCK_PORT", "5000"),
			JWTSecret:             getEnv("MOCK_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("MOCK_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("MOCK_BCRYPT_COST", 10),
			SeedPassword:          getEnv("MOCK_SEED_PASSWORD", "password123"),
			OTPCode:               getEnv("MOCK_OTP_CODE", "123456"),
		},
	}

	if cfg.Storage.Driver == StorageDriverPostgres && cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required when STORAGE_DRIVER=postgres")
	}

	return cfg, nil
}

// Timeout returns the per-request http.Client timeout, zero meaning none.
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Addr returns the mock backend bind address.
func (m MockConfig) Addr() string {
	return fmt.Sprintf("%s:%s", m.Host, m.Port)
}

func defaultStorageFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(".", ".crmctl", "storage.json")
	}
	return filepath.Join(dir, "crmctl", "storage.json")
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

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
