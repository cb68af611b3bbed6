package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	HTTPPort        int           `envconfig:"HTTP_PORT" default:"8000"`
	APIPrefix       string        `envconfig:"API_PREFIX" default:"/api"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding     string        `envconfig:"LOG_ENCODING" default:"json"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS"`

	DBDriver      string        `envconfig:"DB_DRIVER" default:"postgres"`
	DatabaseURL   string        `envconfig:"DATABASE_URL"`
	DBHost        string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort        string        `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER" default:"postgres"`
	DBPassword    string        `envconfig:"DB_PASSWORD"`
	DBName        string        `envconfig:"DB_NAME" default:"adventure"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int32         `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_MAX_IDLE_TIME" default:"5m"`
	DBAutoMigrate bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	SQLitePath    string        `envconfig:"SQLITE_PATH" default:"adventure.db"`

	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	StoryCacheTTL time.Duration `envconfig:"STORY_CACHE_TTL" default:"1h"`

	AIProvider    string        `envconfig:"AI_PROVIDER" default:"openai"`
	AIBaseURL     string        `envconfig:"AI_BASE_URL" default:"https://api.groq.com/openai/v1"`
	AIModel       string        `envconfig:"AI_MODEL" default:"llama-3.1-8b-instant"`
	AIAPIKey      string        `envconfig:"AI_API_KEY"`
	GroqAPIKey    string        `envconfig:"GROQ_API_KEY"`
	AITemperature float32       `envconfig:"AI_TEMPERATURE" default:"0.8"`
	AIMaxTokens   int           `envconfig:"AI_MAX_TOKENS" default:"2000"`
	AITimeout     time.Duration `envconfig:"AI_TIMEOUT" default:"45s"`

	Workers       int `envconfig:"WORKERS" default:"4"`
	JobQueueSize  int `envconfig:"JOB_QUEUE_SIZE" default:"64"`
	StoryMaxNodes int `envconfig:"STORY_MAX_NODES" default:"15"`
	StoryMaxDepth int `envconfig:"STORY_MAX_DEPTH" default:"15"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.AIAPIKey == "" {
		cfg.AIAPIKey = cfg.GroqAPIKey
	}
	cfg.APIPrefix = "/" + strings.Trim(cfg.APIPrefix, "/")
	if cfg.APIPrefix == "/" {
		cfg.APIPrefix = ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DBDriver))
	}
	if c.AIProvider != "ollama" && c.AIAPIKey == "" {
		errs = append(errs, errors.New("AI_API_KEY (or GROQ_API_KEY) is required"))
	}
	if c.Workers <= 0 {
		errs = append(errs, errors.New("WORKERS must be positive"))
	}
	if c.JobQueueSize <= 0 {
		errs = append(errs, errors.New("JOB_QUEUE_SIZE must be positive"))
	}
	if c.StoryMaxNodes <= 0 || c.StoryMaxDepth <= 0 {
		errs = append(errs, errors.New("STORY_MAX_NODES and STORY_MAX_DEPTH must be positive"))
	}
	if c.AITimeout <= 0 {
		errs = append(errs, errors.New("AI_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// GetDSN returns the PostgreSQL connection string. DATABASE_URL wins over
// the individual DB_* settings.
func (c *Config) GetDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

var dsnPassword = regexp.MustCompile(`://([^:/?#]+):([^@/]+)@`)

// MaskedDSN hides the password part of the DSN: user:pass@ -> user:****@
func (c *Config) MaskedDSN() string {
	return dsnPassword.ReplaceAllString(c.GetDSN(), `://$1:****@`)
}

// LogFields returns the non-secret settings for the startup log line.
func (c *Config) LogFields() []zap.Field {
	fields := []zap.Field{
		zap.Int("http_port", c.HTTPPort),
		zap.String("api_prefix", c.APIPrefix),
		zap.String("db_driver", c.DBDriver),
		zap.String("ai_provider", c.AIProvider),
		zap.String("ai_base_url", c.AIBaseURL),
		zap.String("ai_model", c.AIModel),
		zap.Duration("ai_timeout", c.AITimeout),
		zap.Int("workers", c.Workers),
		zap.Int("story_max_nodes", c.StoryMaxNodes),
		zap.Int("story_max_depth", c.StoryMaxDepth),
		zap.Bool("cache_enabled", c.RedisAddr != ""),
	}
	if c.DBDriver == DriverSQLite {
		return append(fields, zap.String("sqlite_path", c.SQLitePath))
	}
	return append(fields, zap.String("db_dsn", c.MaskedDSN()))
}
