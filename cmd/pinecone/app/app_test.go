package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"controller", Options{Backend: BackendController}, false},
		{"qdrant", Options{Backend: BackendQdrant, QdrantEndpoint: "localhost:6334"}, false},
		{"qdrant without port", Options{Backend: BackendQdrant, QdrantEndpoint: "localhost"}, true},
		{"qdrant with bad port", Options{Backend: BackendQdrant, QdrantEndpoint: "localhost:grpc"}, true},
		{"unknown", Options{Backend: "milvus"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestModulesFormValidGraphs(t *testing.T) {
	for _, opts := range []Options{
		{Backend: BackendController},
		{Backend: BackendController, MetricsAddress: "127.0.0.1:0", Debug: true},
		{Backend: BackendQdrant, QdrantEndpoint: "localhost:6334"},
	} {
		t.Run(opts.Backend, func(t *testing.T) {
			assert.NoError(t, fx.ValidateApp(append(Modules(opts), fx.NopLogger)...))
		})
	}
}

func TestClientConfig(t *testing.T) {
	// applyEnv treats a set-but-empty variable as an override.
	t.Setenv("PINECONE_API_KEY", "")
	require.NoError(t, os.Unsetenv("PINECONE_API_KEY"))
	t.Setenv("PINECONE_REGION", "")
	require.NoError(t, os.Unsetenv("PINECONE_REGION"))

	t.Run("qdrant fills a placeholder key", func(t *testing.T) {
		cfg, err := clientConfig(Options{Backend: BackendQdrant})
		require.NoError(t, err)
		assert.Equal(t, "local", cfg.APIKey)
	})

	t.Run("controller requires a key", func(t *testing.T) {
		_, err := clientConfig(Options{Backend: BackendController})
		assert.Error(t, err)
	})

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pinecone.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api_key: from-file\nregion: eu-west1-gcp\n"), 0o600))

		cfg, err := clientConfig(Options{Backend: BackendController, ConfigPath: path})
		require.NoError(t, err)
		assert.Equal(t, "from-file", cfg.APIKey)
		assert.Equal(t, "eu-west1-gcp", cfg.Region)
	})
}

func TestQdrantConfig(t *testing.T) {
	cfg, err := qdrantConfig(Options{QdrantEndpoint: "qdrant.internal:7334"})
	require.NoError(t, err)
	assert.Equal(t, "qdrant.internal", cfg.Endpoint)
	assert.Equal(t, 7334, cfg.Port)
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, map[string]int{"count": 2}))
	assert.Equal(t, "{\n  \"count\": 2\n}\n", buf.String())
}
