package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service and its CLI client.
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	Indexer   IndexerConfig   `mapstructure:"indexer"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Session   SessionConfig   `mapstructure:"session"`
	QA        QAConfig        `mapstructure:"qa"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Client    ClientConfig    `mapstructure:"client"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// IndexerConfig controls how pages are fetched and turned into indexed text.
type IndexerConfig struct {
	Fetcher      string           `mapstructure:"fetcher"`   // http, chromedp
	Extractor    string           `mapstructure:"extractor"` // paragraphs, readability
	MaxSentences int              `mapstructure:"max_sentences"`
	Timeout      time.Duration    `mapstructure:"timeout"`
	UserAgent    string           `mapstructure:"user_agent"`
	MaxBodyBytes int64            `mapstructure:"max_body_bytes"`
	HostPolicy   HostPolicyConfig `mapstructure:"host_policy"`
}

func (c IndexerConfig) Validate() error {
	switch c.Fetcher {
	case "http", "chromedp":
	default:
		return fmt.Errorf("indexer.fetcher must be http or chromedp, got %q", c.Fetcher)
	}
	switch c.Extractor {
	case "paragraphs", "readability":
	default:
		return fmt.Errorf("indexer.extractor must be paragraphs or readability, got %q", c.Extractor)
	}
	if c.MaxSentences <= 0 {
		return fmt.Errorf("indexer.max_sentences must be > 0")
	}
	return c.HostPolicy.Validate()
}

// StorageConfig groups the backends the index store can be placed on.
type StorageConfig struct {
	Index    IndexStorageConfig `mapstructure:"index"`
	Redis    RedisConfig        `mapstructure:"redis"`
	Postgres PostgresConfig     `mapstructure:"postgres"`
	SQLite   SQLiteConfig       `mapstructure:"sqlite"`
}

// IndexStorageConfig selects the index backend.
type IndexStorageConfig struct {
	Backend string `mapstructure:"backend"` // file, redis, postgres, sqlite
	Path    string `mapstructure:"path"`
}

func (c StorageConfig) Validate() error {
	switch c.Index.Backend {
	case "file":
		if strings.TrimSpace(c.Index.Path) == "" {
			return fmt.Errorf("storage.index.path required for file backend")
		}
	case "redis":
		return c.Redis.Validate()
	case "postgres":
		return c.Postgres.Validate()
	case "sqlite":
		if strings.TrimSpace(c.SQLite.Path) == "" {
			return fmt.Errorf("storage.sqlite.path required for sqlite backend")
		}
	default:
		return fmt.Errorf("storage.index.backend must be file, redis, postgres or sqlite, got %q", c.Index.Backend)
	}
	return nil
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string { return fmt.Sprintf("%s:%s", r.Host, r.Port) }

func (r RedisConfig) Validate() error {
	if strings.TrimSpace(r.Host) == "" {
		return fmt.Errorf("storage.redis.host required")
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("storage.redis.port required")
	}
	return nil
}

// PostgresConfig contains Postgres connection settings
type PostgresConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (p PostgresConfig) Validate() error {
	if strings.TrimSpace(p.URL) != "" {
		return nil
	}
	if strings.TrimSpace(p.Host) == "" {
		return fmt.Errorf("storage.postgres.host required when url is not provided")
	}
	if strings.TrimSpace(p.DBName) == "" {
		return fmt.Errorf("storage.postgres.dbname required when url is not provided")
	}
	return nil
}

// DSN builds a connection string, preferring an explicit URL.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	port := p.Port
	if port == "" {
		port = "5432"
	}
	ssl := p.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", p.User, p.Password, p.Host, port, p.DBName, ssl)
}

// SQLiteConfig contains the on-disk database path.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// SessionConfig controls chat session storage and context size.
type SessionConfig struct {
	Backend       string        `mapstructure:"backend"` // inmemory, redis
	ContextWindow int           `mapstructure:"context_window"`
	MaxHistory    int           `mapstructure:"max_history"`
	TTL           time.Duration `mapstructure:"ttl"`
}

func (s SessionConfig) Validate() error {
	switch s.Backend {
	case "inmemory", "redis":
	default:
		return fmt.Errorf("session.backend must be inmemory or redis, got %q", s.Backend)
	}
	if s.ContextWindow < 0 {
		return fmt.Errorf("session.context_window cannot be negative")
	}
	if s.MaxHistory < 0 {
		return fmt.Errorf("session.max_history cannot be negative")
	}
	return nil
}

// QAConfig selects and configures the question-answering model.
type QAConfig struct {
	Provider   string        `mapstructure:"provider"` // huggingface, ollama
	Model      string        `mapstructure:"model"`
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	OllamaHost string        `mapstructure:"ollama_host"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

func (q QAConfig) Validate() error {
	switch q.Provider {
	case "huggingface", "ollama":
	default:
		return fmt.Errorf("qa.provider must be huggingface or ollama, got %q", q.Provider)
	}
	if strings.TrimSpace(q.Model) == "" {
		return fmt.Errorf("qa.model required")
	}
	return nil
}

// TelemetryConfig contains monitoring settings
type TelemetryConfig struct {
	MetricsEnabled bool `mapstructure:"metrics_enabled"`
}

// ClientConfig is used by the CLI client subcommands.
type ClientConfig struct {
	BackendURL string        `mapstructure:"backend_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// DefaultQAModel is the extractive model the service asks for when none is configured.
const DefaultQAModel = "bert-large-uncased-whole-word-masking-finetuned-squad"

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.log_level", "info")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("indexer.fetcher", "http")
	v.SetDefault("indexer.extractor", "paragraphs")
	v.SetDefault("indexer.max_sentences", 100)
	v.SetDefault("indexer.timeout", 30*time.Second)
	v.SetDefault("indexer.user_agent", "webqa/1.0")
	v.SetDefault("indexer.max_body_bytes", int64(10<<20))
	v.SetDefault("storage.index.backend", "file")
	v.SetDefault("storage.index.path", "indexed_content.json")
	v.SetDefault("storage.redis.host", "localhost")
	v.SetDefault("storage.redis.port", "6379")
	v.SetDefault("storage.sqlite.path", "webqa.db")
	v.SetDefault("session.backend", "inmemory")
	v.SetDefault("session.context_window", 5)
	v.SetDefault("qa.provider", "huggingface")
	v.SetDefault("qa.model", DefaultQAModel)
	v.SetDefault("qa.base_url", "https://api-inference.huggingface.co")
	v.SetDefault("qa.ollama_host", "http://localhost:11434")
	v.SetDefault("qa.timeout", 60*time.Second)
	v.SetDefault("telemetry.metrics_enabled", true)
	v.SetDefault("client.backend_url", "http://localhost:8000")
	v.SetDefault("client.timeout", 2*time.Minute)

	// Keys without a real default still need registering, otherwise
	// AutomaticEnv never consults WEBQA_* for them during Unmarshal.
	for _, key := range []string{
		"storage.redis.password",
		"storage.postgres.url",
		"storage.postgres.host",
		"storage.postgres.port",
		"storage.postgres.user",
		"storage.postgres.password",
		"storage.postgres.dbname",
		"storage.postgres.sslmode",
		"qa.api_key",
	} {
		v.SetDefault(key, "")
	}
	v.SetDefault("general.debug", false)
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.timeout", 5*time.Second)
	v.SetDefault("session.max_history", 0)
	v.SetDefault("session.ttl", time.Duration(0))
}

// LoadConfig loads config from file and WEBQA_* environment variables.
// A missing config file is not an error; defaults and env apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	setDefaults(v)

	if path == "" {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		if exe, err := os.Executable(); err == nil {
			exeDir := filepath.Dir(exe)
			v.AddConfigPath(exeDir)
			v.AddConfigPath(filepath.Join(exeDir, "..", "config"))
		}
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("WEBQA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Indexer.HostPolicy = cfg.Indexer.HostPolicy.Normalize()

	for _, validate := range []func() error{
		cfg.Indexer.Validate,
		cfg.Storage.Validate,
		cfg.Session.Validate,
		cfg.QA.Validate,
	} {
		if err := validate(); err != nil {
			return nil, err
		}
	}
	if cfg.Session.Backend == "redis" {
		if err := cfg.Storage.Redis.Validate(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}
