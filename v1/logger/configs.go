package logger

import (
	"fmt"
	"os"
	"strconv"
)

// Accepted values for Config.Level.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config controls the zap logger built by NewLoggerClient.
type Config struct {
	// Level is one of debug, info, warning or error. Anything else logs at info.
	Level string `yaml:"level" env:"LOGGER_LEVEL"`

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string `yaml:"service_name" env:"LOGGER_SERVICE_NAME"`

	// EnableTracing adds trace_id and span_id to entries logged through
	// WithContext when the context carries a sampled span.
	EnableTracing bool `yaml:"enable_tracing" env:"LOGGER_ENABLE_TRACING"`
}

// DefaultConfig logs at info for the "pinecone" service.
func DefaultConfig() Config {
	return Config{
		Level:       Info,
		ServiceName: "pinecone",
	}
}

// NewConfig returns DefaultConfig overridden by LOGGER_* variables.
func NewConfig() (Config, error) {
	cfg := DefaultConfig()
	if v := os.Getenv("LOGGER_LEVEL"); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv("LOGGER_SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}
	if v := os.Getenv("LOGGER_ENABLE_TRACING"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("[Logger] invalid LOGGER_ENABLE_TRACING %q: %w", v, err)
		}
		cfg.EnableTracing = enabled
	}
	return cfg, nil
}

// WithLevel sets the minimum level.
func (c Config) WithLevel(level string) Config {
	c.Level = level
	return c
}

// WithServiceName sets the service field.
func (c Config) WithServiceName(name string) Config {
	c.ServiceName = name
	return c
}

// WithTracing toggles trace id enrichment.
func (c Config) WithTracing(enabled bool) Config {
	c.EnableTracing = enabled
	return c
}
