package tracer

import (
	"fmt"
	"os"
	"strconv"
)

// Config controls the OpenTelemetry tracer provider.
type Config struct {
	// ServiceName becomes the service.name resource attribute.
	ServiceName string `yaml:"service_name" env:"TRACER_SERVICE_NAME"`

	// AppEnv is recorded as deployment.environment, e.g. "production".
	AppEnv string `yaml:"app_env" env:"TRACER_APP_ENV"`

	// EnableExport ships spans over OTLP/HTTP. Without it spans are created
	// and propagated but never leave the process.
	EnableExport bool `yaml:"enable_export" env:"TRACER_ENABLE_EXPORT"`

	// Endpoint is the collector host:port. Empty falls back to the
	// OTEL_EXPORTER_OTLP_* variables read by the exporter itself.
	Endpoint string `yaml:"endpoint" env:"TRACER_ENDPOINT"`

	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure" env:"TRACER_INSECURE"`
}

// DefaultConfig traces without exporting.
func DefaultConfig() Config {
	return Config{
		ServiceName: "pinecone",
		AppEnv:      "development",
	}
}

// NewConfig returns DefaultConfig overridden by TRACER_* variables.
func NewConfig() (Config, error) {
	cfg := DefaultConfig()
	if v := os.Getenv("TRACER_SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}
	if v := os.Getenv("TRACER_APP_ENV"); v != "" {
		cfg.AppEnv = v
	}
	if v := os.Getenv("TRACER_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	for name, dst := range map[string]*bool{
		"TRACER_ENABLE_EXPORT": &cfg.EnableExport,
		"TRACER_INSECURE":      &cfg.Insecure,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("[Tracer] invalid %s %q: %w", name, v, err)
		}
		*dst = b
	}
	return cfg, nil
}

// WithExport enables OTLP export to endpoint.
func (c Config) WithExport(endpoint string, insecure bool) Config {
	c.EnableExport = true
	c.Endpoint = endpoint
	c.Insecure = insecure
	return c
}

// WithServiceName sets service.name.
func (c Config) WithServiceName(name string) Config {
	c.ServiceName = name
	return c
}
