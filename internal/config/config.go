package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	BackendLocal    = "local"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// DevJWTSecret só é aceito no backend local, que não serve produção.
const DevJWTSecret = "dev-secret"

type Config struct {
	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:":8080"`
	MetricsPort    string        `env:"METRICS_PORT" envDefault:"9090"`
	StorageBackend string        `env:"STORAGE_BACKEND" envDefault:"local"`
	LocalStorePath string        `env:"LOCAL_STORE_PATH" envDefault:"data/store.json"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	MongoURL       string        `env:"MONGO_URL"`
	MongoDatabase  string        `env:"MONGO_DATABASE" envDefault:"souq"`
	RedisURL       string        `env:"REDIS_URL"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	JWTSecret      string        `env:"JWT_SECRET"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	UploadURL      string        `env:"UPLOAD_URL"`
	UploadAPIKey   string        `env:"UPLOAD_API_KEY"`
	StockAPIURL    string        `env:"STOCK_API_URL"`
	StockAPIKey    string        `env:"STOCK_API_KEY"`
	WorkerCount    int           `env:"WORKER_COUNT" envDefault:"5"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	DefaultLang    string        `env:"DEFAULT_LANG" envDefault:"ar"`
}

func Load() (*Config, error) {
	// Carrega .env da raiz do projeto
	_ = godotenv.Load("../../.env")
	// Se não encontrar, tenta no diretório atual
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate confere se o backend escolhido tem o que precisa para conectar.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendLocal:
		if c.LocalStorePath == "" {
			return fmt.Errorf("config: LOCAL_STORE_PATH is required for the local backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for the postgres backend")
		}
	case BackendMongo:
		if c.MongoURL == "" {
			return fmt.Errorf("config: MONGO_URL is required for the mongo backend")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.JWTSecret == "" {
		if c.StorageBackend != BackendLocal {
			return fmt.Errorf("config: JWT_SECRET is required for the %s backend", c.StorageBackend)
		}
		c.JWTSecret = DevJWTSecret
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = 5
	}
	if c.DefaultLang != "ar" && c.DefaultLang != "en" {
		c.DefaultLang = "ar"
	}
	return nil
}
