package metrics

import (
	"fmt"
	"os"
	"strconv"
)

// DefaultMetricsAddress is used when Config.Address is empty.
const DefaultMetricsAddress = ":9090"

// Config controls the metrics registry and the HTTP server exposing it.
type Config struct {
	// Address is where the /metrics endpoint listens, e.g. ":9090" or
	// "127.0.0.1:9100".
	Address string `yaml:"address" env:"METRICS_ADDRESS"`

	// EnableDefaultCollectors registers the Go runtime, process and build
	// info collectors alongside the client metrics.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" env:"METRICS_ENABLE_DEFAULT_COLLECTORS"`

	// Namespace prefixes every client metric. With the default "pinecone"
	// the poll counter is exported as pinecone_poll_cycles_total.
	Namespace string `yaml:"namespace" env:"METRICS_NAMESPACE"`

	// ServiceName is added to every metric as the constant "service" label.
	ServiceName string `yaml:"service_name" env:"METRICS_SERVICE_NAME"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Address:                 DefaultMetricsAddress,
		EnableDefaultCollectors: true,
		Namespace:               "pinecone",
		ServiceName:             "pinecone",
	}
}

// NewConfig returns DefaultConfig overridden by METRICS_* variables.
func NewConfig() (Config, error) {
	cfg := DefaultConfig()
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Address = v
	}
	if v := os.Getenv("METRICS_ENABLE_DEFAULT_COLLECTORS"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("[Metrics] invalid METRICS_ENABLE_DEFAULT_COLLECTORS %q: %w", v, err)
		}
		cfg.EnableDefaultCollectors = enabled
	}
	if v := os.Getenv("METRICS_NAMESPACE"); v != "" {
		cfg.Namespace = v
	}
	if v := os.Getenv("METRICS_SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}
	return cfg, nil
}

// WithAddress sets the listen address.
func (c Config) WithAddress(addr string) Config {
	c.Address = addr
	return c
}

// WithServiceName sets the service label.
func (c Config) WithServiceName(name string) Config {
	c.ServiceName = name
	return c
}

// WithDefaultCollectors toggles the runtime collectors.
func (c Config) WithDefaultCollectors(enabled bool) Config {
	c.EnableDefaultCollectors = enabled
	return c
}
