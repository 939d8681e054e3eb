package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	LLM       LLMConfig       `yaml:"llm"`
	Lookup    LookupConfig    `yaml:"lookup"`
	Import    ImportConfig    `yaml:"import"`
	Notebook  NotebookConfig  `yaml:"notebook"`
	Database  DatabaseConfig  `yaml:"database"`
	SQLite    SQLiteConfig    `yaml:"sqlite"`
	Session   SessionConfig   `yaml:"session"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	MCP       MCPConfig       `yaml:"mcp"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"120s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// LLMConfig holds settings for the AI collaborator.
// An empty APIKey is allowed: lookups then fail with ConfigMissing and callers fall back.
type LLMConfig struct {
	APIKey         string        `yaml:"api_key"         env:"LLM_API_KEY"`
	BaseURL        string        `yaml:"base_url"        env:"LLM_BASE_URL"`
	Model          string        `yaml:"model"           env:"LLM_MODEL"           env-default:"claude-sonnet-4-5"`
	MaxTokens      int           `yaml:"max_tokens"      env:"LLM_MAX_TOKENS"      env-default:"4096"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"LLM_REQUEST_TIMEOUT" env-default:"60s"`
}

// Configured reports whether credentials for the collaborator are present.
func (c LLMConfig) Configured() bool {
	return c.APIKey != ""
}

// LookupConfig holds single-word lookup settings.
type LookupConfig struct {
	LanguagesRaw    string `yaml:"languages"        env:"LOOKUP_LANGUAGES"        env-default:"en,zh-TW,zh-CN,ja,ko,es,fr,de"`
	DefaultLanguage string `yaml:"default_language" env:"LOOKUP_DEFAULT_LANGUAGE" env-default:"en"`
	MaxQueryLength  int    `yaml:"max_query_length" env:"LOOKUP_MAX_QUERY_LENGTH" env-default:"100"`

	// Languages is parsed from LanguagesRaw during validation.
	Languages []string `yaml:"-" env:"-"`
}

// ImportConfig holds batch importer settings.
type ImportConfig struct {
	Concurrency int    `yaml:"concurrency"  env:"IMPORT_CONCURRENCY"  env-default:"10"`
	MaxWords    int    `yaml:"max_words"    env:"IMPORT_MAX_WORDS"    env-default:"200"`
	DefaultTag  string `yaml:"default_tag"  env:"IMPORT_DEFAULT_TAG"  env-default:"Imported"`
	MaxImageMB  int    `yaml:"max_image_mb" env:"IMPORT_MAX_IMAGE_MB" env-default:"5"`
}

// Storage drivers for the notebook.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// NotebookConfig holds notebook settings.
type NotebookConfig struct {
	Storage        string `yaml:"storage"          env:"NOTEBOOK_STORAGE"          env-default:"memory"`
	DefaultTagsRaw string `yaml:"default_tags"     env:"NOTEBOOK_DEFAULT_TAGS"     env-default:"Daily,Work,Travel,Academic,Imported"`
	MaxEntries     int    `yaml:"max_entries"      env:"NOTEBOOK_MAX_ENTRIES"      env-default:"5000"`

	// DefaultTags is parsed from DefaultTagsRaw during validation.
	DefaultTags []string `yaml:"-" env:"-"`
}

// DatabaseConfig holds PostgreSQL connection settings. Only used when notebook.storage is "postgres".
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// SQLiteConfig holds the local SQLite settings. Only used when notebook.storage is "sqlite".
type SQLiteConfig struct {
	Path string `yaml:"path" env:"SQLITE_PATH" env-default:"./vibevocab.db"`
}

// SessionConfig holds anonymous session settings.
type SessionConfig struct {
	Secret        string        `yaml:"secret"         env:"SESSION_SECRET"         env-required:"true"`
	Issuer        string        `yaml:"issuer"         env:"SESSION_ISSUER"         env-default:"vibevocab"`
	TokenTTL      time.Duration `yaml:"token_ttl"      env:"SESSION_TOKEN_TTL"      env-default:"720h"`
	IdleTimeout   time.Duration `yaml:"idle_timeout"   env:"SESSION_IDLE_TIMEOUT"   env-default:"2h"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"SESSION_SWEEP_INTERVAL" env-default:"5m"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// RateLimitConfig limits the endpoints that call the AI collaborator, per client IP.
type RateLimitConfig struct {
	LookupPerMinute int           `yaml:"lookup_per_minute" env:"RATE_LIMIT_LOOKUP_PER_MINUTE" env-default:"60"`
	ImportPerMinute int           `yaml:"import_per_minute" env:"RATE_LIMIT_IMPORT_PER_MINUTE" env-default:"6"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"  env:"RATE_LIMIT_CLEANUP_INTERVAL"  env-default:"1m"`
}

// MCPConfig holds settings for the stdio MCP server.
type MCPConfig struct {
	// SessionID pins the notebook the MCP tools operate on. Empty means a fresh notebook per run.
	SessionID string `yaml:"session_id" env:"MCP_SESSION_ID"`
	Language  string `yaml:"language"   env:"MCP_LANGUAGE"   env-default:"en"`
}
