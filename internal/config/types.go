package config

import "time"

// Config represents the main configuration structure
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Privacy   PrivacyConfig   `yaml:"privacy" mapstructure:"privacy"`
	NER       NERConfig       `yaml:"ner" mapstructure:"ner"`
	Emergency EmergencyConfig `yaml:"emergency" mapstructure:"emergency"`
	Sessions  SessionConfig   `yaml:"sessions" mapstructure:"sessions"`
	Archive   ArchiveConfig   `yaml:"archive" mapstructure:"archive"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
	WebSocket WebSocketConfig `yaml:"websocket" mapstructure:"websocket"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// PrivacyConfig contains the anonymization engine configuration
type PrivacyConfig struct {
	Enabled       bool    `yaml:"enabled" mapstructure:"enabled"`
	MinConfidence float64 `yaml:"min_confidence" mapstructure:"min_confidence"`
	Strategy      string  `yaml:"strategy" mapstructure:"strategy"` // placeholder, mask, or hash
	Language      string  `yaml:"language" mapstructure:"language"`
	Audit         struct {
		Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	} `yaml:"audit" mapstructure:"audit"`
	// Supplementary controls how text is handed to the optional NER
	// collaborator: payloads above MaxBytes are split into ChunkSize-byte
	// chunks with ChunkOverlap bytes of overlap.
	Supplementary struct {
		MaxBytes     int           `yaml:"max_bytes" mapstructure:"max_bytes"`
		ChunkSize    int           `yaml:"chunk_size" mapstructure:"chunk_size"`
		ChunkOverlap int           `yaml:"chunk_overlap" mapstructure:"chunk_overlap"`
		Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	} `yaml:"supplementary" mapstructure:"supplementary"`
}

// NERConfig selects the supplementary NER collaborator
type NERConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // none, comprehend, or local
	Region    string `yaml:"region" mapstructure:"region"`
	ModelPath string `yaml:"model_path" mapstructure:"model_path"`
	VocabPath string `yaml:"vocab_path" mapstructure:"vocab_path"`
}

// EmergencyConfig contains critical-value detection configuration
type EmergencyConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// SessionConfig contains mapping persistence configuration
type SessionConfig struct {
	Backend        string        `yaml:"backend" mapstructure:"backend"` // memory or redis
	RedisURL       string        `yaml:"redis_url" mapstructure:"redis_url"`
	KeyPrefix      string        `yaml:"key_prefix" mapstructure:"key_prefix"`
	TTL            time.Duration `yaml:"ttl" mapstructure:"ttl"`
	MaxConnections int           `yaml:"max_connections" mapstructure:"max_connections"`
	MinIdleConns   int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
}

// ArchiveConfig contains the Postgres audit archive configuration
type ArchiveConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	DatabaseURL     string        `yaml:"database_url" mapstructure:"database_url"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" mapstructure:"conn_max_idle_time"`
}

// RateLimitConfig contains per-client request rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerMin int  `yaml:"requests_per_min" mapstructure:"requests_per_min"`
	Burst          int  `yaml:"burst" mapstructure:"burst"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
	File   struct {
		Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
		Path     string `yaml:"path" mapstructure:"path"`
		MaxSize  int    `yaml:"max_size" mapstructure:"max_size"`
		MaxAge   int    `yaml:"max_age" mapstructure:"max_age"`
		Compress bool   `yaml:"compress" mapstructure:"compress"`
	} `yaml:"file" mapstructure:"file"`
}

// WebSocketConfig contains WebSocket event feed configuration
type WebSocketConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	Path            string        `yaml:"path" mapstructure:"path"`
	MaxConnections  int           `yaml:"max_connections" mapstructure:"max_connections"`
	ReadBufferSize  int           `yaml:"read_buffer_size" mapstructure:"read_buffer_size"`
	WriteBufferSize int           `yaml:"write_buffer_size" mapstructure:"write_buffer_size"`
	PingInterval    time.Duration `yaml:"ping_interval" mapstructure:"ping_interval"`
	PongTimeout     time.Duration `yaml:"pong_timeout" mapstructure:"pong_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Privacy: PrivacyConfig{
			Enabled:       true,
			MinConfidence: 0.55,
			Strategy:      "placeholder",
			Language:      "en",
		},
		NER: NERConfig{
			Provider: "none",
			Region:   "ap-south-1",
		},
		Emergency: EmergencyConfig{
			Enabled: true,
		},
		Sessions: SessionConfig{
			Backend:        "memory",
			RedisURL:       "redis://localhost:6379/0",
			KeyPrefix:      "nidaan:session:",
			TTL:            30 * time.Minute,
			MaxConnections: 10,
			MinIdleConns:   2,
		},
		Archive: ArchiveConfig{
			Enabled:         false,
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: 10 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Enabled:        true,
			RequestsPerMin: 120,
			Burst:          20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		WebSocket: WebSocketConfig{
			Enabled:         true,
			Path:            "/ws",
			MaxConnections:  100,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingInterval:    54 * time.Second,
			PongTimeout:     60 * time.Second,
			WriteTimeout:    10 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
	}

	cfg.Privacy.Audit.Enabled = true
	cfg.Privacy.Supplementary.MaxBytes = 99000
	cfg.Privacy.Supplementary.ChunkSize = 24000
	cfg.Privacy.Supplementary.ChunkOverlap = 200
	cfg.Privacy.Supplementary.Timeout = 10 * time.Second

	cfg.Logging.File.Path = "logs/nidaan.log"
	cfg.Logging.File.MaxSize = 100 // MB
	cfg.Logging.File.MaxAge = 30   // days
	cfg.Logging.File.Compress = true

	return cfg
}
