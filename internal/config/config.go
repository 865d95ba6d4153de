package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/eternalApril/moonresp/internal/resp"
)

// Config represents the root configuration structure for the application
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	RESP    RESPConfig    `mapstructure:"resp"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ServerConfig holds the network settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"` // how long open connections may drain on shutdown
}

// LogConfig defines logging verbosity and output style
type LogConfig struct {
	Level  string   `mapstructure:"level"`  // debug, info, warn, error
	Format string   `mapstructure:"format"` // json, console
	Output []string `mapstructure:"output"` // stdout, stderr or file paths
}

// RESPConfig bounds what a client may send in a single frame. Zero disables a limit
type RESPConfig struct {
	MaxBulkLength  int64 `mapstructure:"max_bulk_length"`
	MaxArrayLength int64 `mapstructure:"max_array_length"`
	MaxDepth       int   `mapstructure:"max_depth"`
	MaxLineLength  int   `mapstructure:"max_line_length"`
	ReadBufferSize int   `mapstructure:"read_buffer_size"` // initial per-connection read buffer
}

// MetricsConfig defines the prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// Parser returns the decoding limits described by the config
func (c RESPConfig) Parser() resp.Parser {
	return resp.Parser{
		MaxBulkLength:  c.MaxBulkLength,
		MaxArrayLength: c.MaxArrayLength,
		MaxDepth:       c.MaxDepth,
		MaxLineLength:  c.MaxLineLength,
	}
}

// Load reads the configuration from a file and overrides it with environment variables
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")

	v.SetEnvPrefix("MOONRESP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port == "" {
		return errors.New("config: server.port is empty")
	}
	if c.RESP.MaxBulkLength < 0 || c.RESP.MaxArrayLength < 0 || c.RESP.MaxDepth < 0 || c.RESP.MaxLineLength < 0 {
		return errors.New("config: resp limits must not be negative")
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return errors.New("config: metrics.addr is required when metrics are enabled")
	}
	return nil
}

// setDefaults populates viper with fallback values if they are not provided via file or ENV
func setDefaults(v *viper.Viper) {
	defaults := resp.DefaultParser()

	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "6380")
	v.SetDefault("server.shutdown_timeout", "5s")

	// Logger
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", []string{"stdout"})

	// Protocol limits
	v.SetDefault("resp.max_bulk_length", defaults.MaxBulkLength)
	v.SetDefault("resp.max_array_length", defaults.MaxArrayLength)
	v.SetDefault("resp.max_depth", defaults.MaxDepth)
	v.SetDefault("resp.max_line_length", defaults.MaxLineLength)
	v.SetDefault("resp.read_buffer_size", 4096)

	// Metrics
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", "127.0.0.1:9121")
}
