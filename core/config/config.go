package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/m3rciful/quizbot/core/boterr"
)

// TelegramConfig holds Bot API client settings.
type TelegramConfig struct {
	Token  string `yaml:"token" envconfig:"BOT_TOKEN"`
	APIURL string `yaml:"api_url" envconfig:"TELEGRAM_API_URL"`
	// SendRetries bounds extra attempts on transient transport errors; 0 keeps single-attempt delivery.
	SendRetries    int    `yaml:"send_retries" envconfig:"TELEGRAM_SEND_RETRIES"`
	TimeoutSeconds int    `yaml:"timeout_seconds" envconfig:"TELEGRAM_TIMEOUT_SECONDS"`
	WebhookURL     string `yaml:"webhook_url" envconfig:"WEBHOOK_URL"`
}

// StoreConfig selects and configures the conversation store backend.
type StoreConfig struct {
	Backend string `yaml:"backend" envconfig:"FSM_BACKEND"`
	// Table is the namespace all conversation states live under.
	Table string `yaml:"table" envconfig:"FSM_TABLE_NAME"`

	SQLitePath string      `yaml:"sqlite_path" envconfig:"FSM_SQLITE_PATH"`
	Redis      RedisConfig `yaml:"redis"`
}

// RedisConfig describes the Redis connection used by the redis backend.
type RedisConfig struct {
	Addr      string `yaml:"addr" envconfig:"REDIS_ADDR"`
	Password  string `yaml:"password" envconfig:"REDIS_PASSWORD"`
	DB        int    `yaml:"db" envconfig:"REDIS_DB"`
	KeyPrefix string `yaml:"key_prefix" envconfig:"REDIS_KEY_PREFIX"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// ServerConfig specifies the HTTP listener receiving webhook calls.
type ServerConfig struct {
	Listen string `yaml:"listen" envconfig:"SERVER_LISTEN"`
	Port   int    `yaml:"port" envconfig:"SERVER_PORT"`
	Path   string `yaml:"path" envconfig:"WEBHOOK_PATH"`
}

// RepliesConfig sets formatting defaults for outbound replies.
type RepliesConfig struct {
	ParseMode             string `yaml:"parse_mode" envconfig:"REPLY_PARSE_MODE"`
	DisableWebPagePreview bool   `yaml:"disable_web_page_preview" envconfig:"REPLY_DISABLE_WEB_PAGE_PREVIEW"`
	DisableNotification   bool   `yaml:"disable_notification" envconfig:"REPLY_DISABLE_NOTIFICATION"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format      string `yaml:"format" envconfig:"LOG_FORMAT"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	File        string `yaml:"file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile" envconfig:"LOG_PROFILE"`
}

const (
	// BackendMemory keeps states in process memory.
	BackendMemory = "memory"
	// BackendPostgres stores states in PostgreSQL.
	BackendPostgres = "postgres"
	// BackendSQLite stores states in a SQLite file.
	BackendSQLite = "sqlite"
	// BackendRedis stores states in Redis.
	BackendRedis = "redis"
)

const (
	// ParseModeMarkdown selects Telegram legacy Markdown.
	ParseModeMarkdown = "markdown"
	// ParseModeHTML selects Telegram HTML.
	ParseModeHTML = "html"
)

// Config aggregates everything the service reads at start-up.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Store    StoreConfig    `yaml:"store"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Replies  RepliesConfig  `yaml:"replies"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Load reads the optional YAML file at path and overlays environment variables.
// An empty path means environment only.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize fills defaults and validates optional settings. The token and the
// table are not checked here: their absence is reported per request by Require.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}

	if strings.TrimSpace(cfg.Telegram.APIURL) == "" {
		cfg.Telegram.APIURL = "https://api.telegram.org"
	}
	if cfg.Telegram.SendRetries < 0 {
		return fmt.Errorf("telegram.send_retries must be >= 0")
	}
	if cfg.Telegram.TimeoutSeconds < 0 {
		return fmt.Errorf("telegram.timeout_seconds must be >= 0")
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	if backend == "" {
		backend = BackendMemory
	}
	if backend == "postgresql" || backend == "pg" { // accept aliases
		backend = BackendPostgres
	}
	switch backend {
	case BackendMemory:
	case BackendPostgres:
		if strings.TrimSpace(cfg.Database.Host) == "" {
			return fmt.Errorf("database.host is required when store.backend is 'postgres'")
		}
		if cfg.Database.Port == "" {
			cfg.Database.Port = "5432"
		}
		if cfg.Database.SSLMode == "" {
			cfg.Database.SSLMode = "disable"
		}
		if cfg.Database.MaxConnections <= 0 {
			cfg.Database.MaxConnections = 4
		}
	case BackendSQLite:
		if strings.TrimSpace(cfg.Store.SQLitePath) == "" {
			return fmt.Errorf("store.sqlite_path is required when store.backend is 'sqlite'")
		}
	case BackendRedis:
		if strings.TrimSpace(cfg.Store.Redis.Addr) == "" {
			return fmt.Errorf("store.redis.addr is required when store.backend is 'redis'")
		}
		if cfg.Store.Redis.KeyPrefix == "" {
			cfg.Store.Redis.KeyPrefix = "quizbot:fsm:"
		}
	default:
		return fmt.Errorf("invalid store.backend %q; allowed: memory, postgres, sqlite, redis", cfg.Store.Backend)
	}
	cfg.Store.Backend = backend

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Port < 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if cfg.Server.Path == "" {
		cfg.Server.Path = "/webhook"
	}
	if !strings.HasPrefix(cfg.Server.Path, "/") {
		cfg.Server.Path = "/" + cfg.Server.Path
	}

	mode := strings.ToLower(strings.TrimSpace(cfg.Replies.ParseMode))
	switch mode {
	case "", ParseModeMarkdown:
		mode = ParseModeMarkdown
	case ParseModeHTML:
	default:
		return fmt.Errorf("invalid replies.parse_mode %q; allowed: markdown, html", cfg.Replies.ParseMode)
	}
	cfg.Replies.ParseMode = mode

	return nil
}

// Require checks the two values every update needs. It returns an environment
// error so callers can report it to the webhook client instead of exiting.
func (c *Config) Require() error {
	if c == nil || strings.TrimSpace(c.Telegram.Token) == "" {
		return boterr.Environment("Bot token is not set in environment variables")
	}
	if strings.TrimSpace(c.Store.Table) == "" {
		return boterr.Environment("FSM table name is not set in environment variables")
	}
	return nil
}

// ListenAddr joins the listen host and port.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Listen, c.Server.Port)
}
