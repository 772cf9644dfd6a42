package qdrant

import (
	"errors"
	"time"
)

// Config holds connection settings for the Qdrant backend.
//
// Example (builder style):
//
//	cfg := qdrant.FromEndpoint("localhost").
//	    WithApiKey(os.Getenv("QDRANT_API_KEY")).
//	    WithTimeout(10 * time.Second)
type Config struct {
	// Hostname of the Qdrant server, e.g. "localhost".
	Endpoint string `yaml:"endpoint" env:"QDRANT_ENDPOINT"`

	// gRPC port of the Qdrant server. Defaults to 6334.
	Port int `yaml:"port" env:"QDRANT_PORT"`

	// Optional authentication token for secured deployments.
	ApiKey string `yaml:"api_key" env:"QDRANT_API_KEY"`

	// Connect over TLS.
	UseTLS bool `yaml:"use_tls" env:"QDRANT_USE_TLS"`

	// Bounds the startup health check.
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"QDRANT_CONNECT_TIMEOUT"`

	// Whether to perform version compatibility checks between client and server.
	CheckCompatibility bool `yaml:"check_compatibility" env:"QDRANT_CHECK_COMPATIBILITY"`

	// Project reported by whoami. Index URLs are derived from it but unused
	// by this backend.
	Project string `yaml:"project" env:"QDRANT_PROJECT"`
}

// DefaultConfig targets a local Qdrant on the default gRPC port.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:           "localhost",
		Port:               6334,
		ConnectTimeout:     5 * time.Second,
		CheckCompatibility: true,
		Project:            "local",
	}
}

// FromEndpoint returns a default config pre-filled with a specific endpoint.
func FromEndpoint(host string) *Config {
	cfg := DefaultConfig()
	cfg.Endpoint = host
	return cfg
}

// Validate checks the fields a connection needs.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("[Qdrant] endpoint must not be empty")
	}
	if c.Port < 0 || c.Port > 65535 {
		return errors.New("[Qdrant] port out of range")
	}
	return nil
}

func (c *Config) WithPort(port int) *Config {
	c.Port = port
	return c
}

func (c *Config) WithApiKey(key string) *Config {
	c.ApiKey = key
	return c
}

func (c *Config) WithTLS(enabled bool) *Config {
	c.UseTLS = enabled
	return c
}

func (c *Config) WithConnectTimeout(d time.Duration) *Config {
	c.ConnectTimeout = d
	return c
}

func (c *Config) WithCompatibilityCheck(enabled bool) *Config {
	c.CheckCompatibility = enabled
	return c
}

func (c *Config) WithProject(project string) *Config {
	c.Project = project
	return c
}
