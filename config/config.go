package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	"github.com/Temutjin2k/studylens-dashboard/pkg/configparser"
)

var (
	ErrModeNotProvided = errors.New("mode not provided")
	ErrInvalidMode     = errors.New("invalid mode")
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Mode types.ServiceMode

		Database  DatabaseConfig
		RabbitMQ  RabbitMQConfig
		Server    ServerConfig
		Remote    RemoteConfig
		Auth      Auth
		Log       LogConfig
		Dashboard DashboardConfig
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"studylens"`
		Password string `env:"DATABASE_PASSWORD" default:"studylens"`
		Database string `env:"DATABASE_DATABASE" default:"studylens"`
		SSLMode  string `env:"DATABASE_SSLMODE" default:"disable"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`

		AutoMigrate bool `env:"DATABASE_AUTO_MIGRATE" default:"true"`
	}

	RabbitMQConfig struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED" default:"false"`
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	ServerConfig struct {
		Port            string        `env:"SERVER_PORT" default:"8080"`
		ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"10s"`
		WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"15s"`
		IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
		ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
		CORSOrigins     []string      `env:"SERVER_CORS_ORIGINS" default:"*"`
		LoginRateLimit  int           `env:"SERVER_LOGIN_RATE_LIMIT" default:"10"`
		LoginRateWindow time.Duration `env:"SERVER_LOGIN_RATE_WINDOW" default:"1m"`
	}

	// RemoteConfig points at the tracker backend that owns the canonical
	// session listing. An empty URL disables the remote read path.
	RemoteConfig struct {
		SessionsURL string        `env:"REMOTE_SESSIONS_URL"`
		Timeout     time.Duration `env:"REMOTE_TIMEOUT" default:"5s"`
		MaxRetries  int           `env:"REMOTE_MAX_RETRIES" default:"2"`
		InitialWait time.Duration `env:"REMOTE_INITIAL_WAIT" default:"200ms"`
	}

	Auth struct {
		AccessTokenTTL  time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" default:"15m"`
		RefreshTokenTTL time.Duration `env:"AUTH_REFRESH_TOKEN_TTL" default:"168h"`
		JWTSecret       string        `env:"AUTH_JWT_SECRET" default:"supersecretkey"`
	}

	LogConfig struct {
		Level      string `env:"LOG_LEVEL" default:"INFO"`
		File       string `env:"LOG_FILE"`
		MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" default:"50"`
		MaxBackups int    `env:"LOG_MAX_BACKUPS" default:"3"`
	}

	DashboardConfig struct {
		PageSize   int `env:"DASHBOARD_PAGE_SIZE" default:"15"`
		TrendSize  int `env:"DASHBOARD_TREND_SIZE" default:"10"`
		RecentSize int `env:"DASHBOARD_RECENT_SIZE" default:"5"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     c.Database,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

func (c RabbitMQConfig) GetDSN() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.User, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   "/",
	}
	return u.String()
}

// NewConfig loads the YAML file into the environment and parses it into Config.
// mode comes from the command line.
func NewConfig(filepath, mode string) (*Config, error) {
	cfg := &Config{}

	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	if err := cfg.setMode(mode); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) setMode(mode string) error {
	if mode == "" {
		return ErrModeNotProvided
	}

	switch m := types.ServiceMode(mode); m {
	case types.APIService, types.IngestWorker:
		c.Mode = m
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	return nil
}
