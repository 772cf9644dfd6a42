package pinecone

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/pinecone-io/pinecone-client/v1/poller"
)

const (
	// DefaultRegion is used when neither the config file nor the environment sets one.
	DefaultRegion = "us-west1-gcp"

	// DefaultUpsertBatchSize is the number of vectors sent per data-plane upsert call.
	DefaultUpsertBatchSize = 100

	// Environment variables read by NewConfig and LoadConfig.
	EnvAPIKey           = "PINECONE_API_KEY"
	EnvRegion           = "PINECONE_REGION"
	EnvProjectID        = "PINECONE_PROJECT_ID"
	EnvControllerURL    = "PINECONE_CONTROLLER_URL"
	EnvDefaultTimeout   = "PINECONE_DEFAULT_TIMEOUT"
	EnvNormalizeWorkers = "PINECONE_NORMALIZE_WORKERS"
	EnvUpsertBatchSize  = "PINECONE_UPSERT_BATCH_SIZE"
)

// Config holds client settings.
//
// Example (builder style):
//
//	cfg := pinecone.DefaultConfig().
//	    WithAPIKey(os.Getenv("PINECONE_API_KEY")).
//	    WithRegion("us-east1-gcp")
type Config struct {
	// APIKey authenticates every request. Required.
	APIKey string `yaml:"api_key" env:"PINECONE_API_KEY"`

	// Region selects the controller and index hosts, e.g. "us-west1-gcp".
	Region string `yaml:"region" env:"PINECONE_REGION"`

	// ProjectID is resolved through whoami when left empty.
	ProjectID string `yaml:"project_id" env:"PINECONE_PROJECT_ID"`

	// ControllerURL overrides the controller derived from Region.
	ControllerURL string `yaml:"controller_url" env:"PINECONE_CONTROLLER_URL"`

	// DefaultTimeout is the lifecycle wait in seconds when a call sets none.
	// poller.NoWait (-1) disables waiting.
	DefaultTimeout int `yaml:"default_timeout" env:"PINECONE_DEFAULT_TIMEOUT"`

	// NormalizeWorkers > 1 validates upsert batches concurrently.
	NormalizeWorkers int `yaml:"normalize_workers" env:"PINECONE_NORMALIZE_WORKERS"`

	// UpsertBatchSize caps the vectors sent in one data-plane call.
	UpsertBatchSize int `yaml:"upsert_batch_size" env:"PINECONE_UPSERT_BATCH_SIZE"`
}

// DefaultConfig returns a config with every optional field set.
func DefaultConfig() *Config {
	return &Config{
		Region:          DefaultRegion,
		DefaultTimeout:  poller.DefaultTimeout,
		UpsertBatchSize: DefaultUpsertBatchSize,
	}
}

// NewConfig returns DefaultConfig overridden by the environment.
func NewConfig() *Config {
	cfg := DefaultConfig()
	cfg.applyEnv()
	return cfg
}

// LoadConfig reads a YAML file on top of DefaultConfig, then applies the
// environment. The result is validated.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("[Pinecone] failed to read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("[Pinecone] failed to parse config %s: %w", path, err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvAPIKey); ok {
		c.APIKey = v
	}
	if v, ok := os.LookupEnv(EnvRegion); ok {
		c.Region = v
	}
	if v, ok := os.LookupEnv(EnvProjectID); ok {
		c.ProjectID = v
	}
	if v := os.Getenv(EnvControllerURL); v != "" {
		c.ControllerURL = v
	}
	if n, ok := envInt(EnvDefaultTimeout); ok {
		c.DefaultTimeout = n
	}
	if n, ok := envInt(EnvNormalizeWorkers); ok {
		c.NormalizeWorkers = n
	}
	if n, ok := envInt(EnvUpsertBatchSize); ok {
		c.UpsertBatchSize = n
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Validate checks the fields the client cannot work without.
func (c *Config) Validate() error {
	var errs []error
	if c.APIKey == "" {
		errs = append(errs, fmt.Errorf("api key is required (set %s)", EnvAPIKey))
	}
	if c.Region == "" {
		errs = append(errs, errors.New("region must not be empty"))
	}
	if err := poller.ValidateTimeout(c.DefaultTimeout); err != nil {
		errs = append(errs, fmt.Errorf("default_timeout: %w", err))
	}
	if c.UpsertBatchSize < 1 {
		errs = append(errs, errors.New("upsert_batch_size must be at least 1"))
	}
	if c.NormalizeWorkers < 0 {
		errs = append(errs, errors.New("normalize_workers must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("[Pinecone] invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Controller returns the control-plane base URL.
func (c *Config) Controller() string {
	if c.ControllerURL != "" {
		return c.ControllerURL
	}
	return fmt.Sprintf("https://controller.%s.pinecone.io", c.Region)
}

// IndexURL returns the data-plane endpoint of the named index.
func (c *Config) IndexURL(name string) string {
	return fmt.Sprintf("https://%s-%s.svc.%s.pinecone.io:443", name, c.ProjectID, c.Region)
}

func (c *Config) WithAPIKey(key string) *Config {
	c.APIKey = key
	return c
}

func (c *Config) WithRegion(region string) *Config {
	c.Region = region
	return c
}

func (c *Config) WithProjectID(id string) *Config {
	c.ProjectID = id
	return c
}

func (c *Config) WithControllerURL(url string) *Config {
	c.ControllerURL = url
	return c
}

func (c *Config) WithDefaultTimeout(seconds int) *Config {
	c.DefaultTimeout = seconds
	return c
}

func (c *Config) WithNormalizeWorkers(n int) *Config {
	c.NormalizeWorkers = n
	return c
}

func (c *Config) WithUpsertBatchSize(n int) *Config {
	c.UpsertBatchSize = n
	return c
}
