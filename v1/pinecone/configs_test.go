package pinecone

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultRegion, cfg.Region)
	assert.Equal(t, 300, cfg.DefaultTimeout)
	assert.Equal(t, DefaultUpsertBatchSize, cfg.UpsertBatchSize)
	assert.Equal(t, "https://controller.us-west1-gcp.pinecone.io", cfg.Controller())
}

func TestNewConfig_ReadsEnvironment(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvRegion, "eu-west1-gcp")
	t.Setenv(EnvDefaultTimeout, "-1")
	t.Setenv(EnvNormalizeWorkers, "not-a-number")

	cfg := NewConfig()

	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "eu-west1-gcp", cfg.Region)
	assert.Equal(t, -1, cfg.DefaultTimeout)
	assert.Zero(t, cfg.NormalizeWorkers)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pinecone.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_key: file-key
region: us-east1-gcp
controller_url: http://localhost:8080
upsert_batch_size: 50
`), 0o600))

	t.Setenv(EnvUpsertBatchSize, "25")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, "us-east1-gcp", cfg.Region)
	assert.Equal(t, "http://localhost:8080", cfg.Controller())
	assert.Equal(t, 25, cfg.UpsertBatchSize)
	assert.Equal(t, 300, cfg.DefaultTimeout)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: [unterminated"), 0o600))
	_, err = LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	cfg := &Config{Region: "", DefaultTimeout: -3, UpsertBatchSize: 0, NormalizeWorkers: -1}

	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "api key is required")
	assert.Contains(t, msg, "region must not be empty")
	assert.Contains(t, msg, "Timeout must be -1 or a positive integer")
	assert.Contains(t, msg, "upsert_batch_size must be at least 1")
	assert.Contains(t, msg, "normalize_workers must not be negative")
}

func TestFXModule(t *testing.T) {
	ctrl := gomock.NewController(t)
	control := NewMockControlPlane(ctrl)
	dialer := NewMockDialer(ctrl)
	data := NewMockDataPlane(ctrl)

	dialer.EXPECT().Dial(gomock.Any(), "docs", gomock.Any()).Return(data, nil)
	data.EXPECT().Close().Return(nil)

	var client *Client
	app := fxtest.New(t,
		fx.Provide(
			testConfig,
			func() ControlPlane { return control },
			func() Dialer { return dialer },
		),
		FXModule,
		fx.Populate(&client),
	)
	app.RequireStart()

	_, err := client.Index(t.Context(), "docs")
	require.NoError(t, err)

	app.RequireStop()
}
