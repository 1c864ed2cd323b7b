package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Links    LinksConfig
	Email    EmailConfig
	Storage  StorageConfig
	Payments PaymentsConfig
	Worker   WorkerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name           string        `env:"APP_NAME" envDefault:"marketplace-service"`
	Env            string        `env:"APP_ENV" envDefault:"development"`
	Host           string        `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port           string        `env:"APP_PORT" envDefault:"8080"`
	Version        string        `env:"APP_VERSION" envDefault:"dev"`
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	BodyLimitMB    int           `env:"HTTP_BODY_LIMIT_MB" envDefault:"10"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN             string        `env:"POSTGRES_DSN"`
	MaxConns        int32         `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns        int32         `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	RunMigrations   bool          `env:"POSTGRES_RUN_MIGRATIONS" envDefault:"true"`
	ConnMaxIdleTime time.Duration `env:"POSTGRES_CONN_MAX_IDLE" envDefault:"30s"`
	ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFE" envDefault:"5m"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret            string        `env:"AUTH_JWT_SECRET" envDefault:"dev-secret"`
	AccessTokenTTL       time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" envDefault:"24h"`
	VerificationTokenTTL time.Duration `env:"AUTH_VERIFICATION_TOKEN_TTL" envDefault:"1h"`
	PasswordResetTTL     time.Duration `env:"AUTH_PASSWORD_RESET_TTL" envDefault:"30m"`
	BcryptCost           int           `env:"AUTH_BCRYPT_COST" envDefault:"12"`
	CredentialsKey       string        `env:"AUTH_CREDENTIALS_KEY" envDefault:"dev-credentials-key"`
}

// LinksConfig holds the public URLs embedded in outgoing emails.
type LinksConfig struct {
	BuyerFrontendURL  string `env:"BUYER_FRONTEND_URL" envDefault:"http://localhost:3000"`
	SellerFrontendURL string `env:"SELLER_FRONTEND_URL" envDefault:"http://localhost:3001"`
}

// EmailConfig configures the Postmark sender.
type EmailConfig struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	From                 string `env:"EMAIL_FROM" envDefault:"noreply@example.com"`
	ReplyTo              string `env:"EMAIL_REPLY_TO"`
}

// StorageConfig configures S3-compatible object storage for uploaded images.
type StorageConfig struct {
	Bucket         string `env:"S3_BUCKET"`
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_ACCESS_KEY"`
	Endpoint       string `env:"S3_ENDPOINT"`
	PublicBaseURL  string `env:"S3_PUBLIC_BASE_URL"`
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`
}

// PaymentsConfig selects the payment provider environment.
type PaymentsConfig struct {
	PaddleEnvironment string `env:"PADDLE_ENVIRONMENT" envDefault:"sandbox"`
}

// WorkerConfig controls the background job worker.
type WorkerConfig struct {
	Enabled     bool          `env:"WORKER_ENABLED" envDefault:"true"`
	Queue       string        `env:"WORKER_QUEUE" envDefault:"marketplace:jobs"`
	PollTimeout time.Duration `env:"WORKER_POLL_TIMEOUT" envDefault:"5s"`
	MaxAttempts int           `env:"WORKER_MAX_ATTEMPTS" envDefault:"3"`
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations that cannot run safely.
func (c *Config) Validate() error {
	if c.App.IsProduction() {
		if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == "dev-secret" {
			return errors.New("AUTH_JWT_SECRET must be set in production")
		}
		if c.Auth.CredentialsKey == "" || c.Auth.CredentialsKey == "dev-credentials-key" {
			return errors.New("AUTH_CREDENTIALS_KEY must be set in production")
		}
	}
	if c.Auth.AccessTokenTTL <= 0 || c.Auth.VerificationTokenTTL <= 0 || c.Auth.PasswordResetTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if c.Worker.MaxAttempts < 1 {
		return fmt.Errorf("invalid WORKER_MAX_ATTEMPTS: %d", c.Worker.MaxAttempts)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// IsProduction reports whether APP_ENV names a production deployment.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

// BodyLimit returns the maximum accepted request body in bytes.
func (a AppConfig) BodyLimit() int {
	if a.BodyLimitMB <= 0 {
		return 4 * 1024 * 1024
	}
	return a.BodyLimitMB * 1024 * 1024
}
