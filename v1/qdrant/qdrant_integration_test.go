package qdrant

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/pinecone-io/pinecone-client/v1/filter"
	"github.com/pinecone-io/pinecone-client/v1/metadata"
	"github.com/pinecone-io/pinecone-client/v1/pinecone"
	"github.com/pinecone-io/pinecone-client/v1/records"
)

// QdrantContainer represents a Qdrant container for testing
type QdrantContainer struct {
	testcontainers.Container
	Host string
	Port string
}

// setupQdrantContainer sets up a Qdrant container for testing
func setupQdrantContainer(ctx context.Context) (*QdrantContainer, error) {
	// Get a random free port
	port, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("could not get free port: %w", err)
	}

	portStr := fmt.Sprintf("%d", port)
	portBindings := nat.PortMap{
		"6334/tcp": []nat.PortBinding{{HostPort: portStr}},
	}

	// Collection metadata needs 1.16.
	req := testcontainers.ContainerRequest{
		Image: "qdrant/qdrant:v1.16.0",
		Env: map[string]string{
			"QDRANT__SERVICE__GRPC_PORT": "6334",
		},
		ExposedPorts: []string{"6334/tcp"},
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.PortBindings = portBindings
		},
		WaitingFor: wait.ForListeningPort("6334/tcp").WithStartupTimeout(60 * time.Second),
	}

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start qdrant container: %w", err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("failed to get host: %w", err)
	}

	mappedPort, err := ctr.MappedPort(ctx, "6334")
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}
	portStr = mappedPort.Port()

	if err := waitForQdrantReady(host, portStr, 30*time.Second); err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("qdrant container not ready: %w", err)
	}

	return &QdrantContainer{
		Container: ctr,
		Host:      host,
		Port:      portStr,
	}, nil
}

// getFreePort gets a free port from the OS
func getFreePort() (int, error) {
	addr, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer func() { _ = addr.Close() }()

	return addr.Addr().(*net.TCPAddr).Port, nil
}

// waitForQdrantReady attempts to connect to Qdrant until it's ready or times out
func waitForQdrantReady(host, port string, timeout time.Duration) error {
	startTime := time.Now()
	for {
		if time.Since(startTime) > timeout {
			return fmt.Errorf("timed out waiting for Qdrant to be ready after %s", timeout)
		}

		conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, port), 2*time.Second)
		if err == nil {
			_ = conn.Close()
			// The gRPC service comes up shortly after the port opens.
			time.Sleep(2 * time.Second)
			return nil
		}

		time.Sleep(500 * time.Millisecond)
	}
}

// TestMain sets up the testing environment
func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

func containerConfig(t *testing.T, c *QdrantContainer) *Config {
	t.Helper()

	port, err := strconv.Atoi(c.Port)
	require.NoError(t, err)

	return FromEndpoint(c.Host).
		WithPort(port).
		WithCompatibilityCheck(false).
		WithConnectTimeout(10 * time.Second)
}

// TestIndexLifecycleWithFXModule drives the full client against a real
// server through the fx modules.
func TestIndexLifecycleWithFXModule(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	containerInstance, err := setupQdrantContainer(ctx)
	require.NoError(t, err)
	defer func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}()

	var client *pinecone.Client
	app := fxtest.New(t,
		fx.Provide(
			func() *Config { return containerConfig(t, containerInstance) },
			func() *pinecone.Config {
				return pinecone.DefaultConfig().WithAPIKey("local").WithProjectID("local").WithUpsertBatchSize(2)
			},
		),
		FXModule,
		pinecone.FXModule,
		fx.Populate(&client),
	)
	app.RequireStart()
	defer app.RequireStop()

	replicas := int32(1)
	require.NoError(t, client.CreateIndex(ctx, pinecone.IndexSpec{
		Name:           "docs",
		Dimension:      4,
		Metric:         pinecone.MetricDotProduct,
		Replicas:       &replicas,
		PodType:        "p1.x1",
		MetadataConfig: map[string][]string{"indexed": {"genre"}},
	}, pinecone.WithTimeout(30)))

	t.Run("DescribeIndex", func(t *testing.T) {
		desc, err := client.DescribeIndex(ctx, "docs")
		require.NoError(t, err)

		assert.Equal(t, int32(4), desc.Dimension)
		assert.Equal(t, pinecone.MetricDotProduct, desc.Metric)
		assert.Equal(t, pinecone.StatusReady, desc.Status)
		assert.Equal(t, "p1.x1", desc.PodType)
		assert.Equal(t, []string{"genre"}, desc.MetadataConfig["indexed"])

		names, err := client.ListIndexes(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, "docs")
	})

	idx, err := client.Index(ctx, "docs")
	require.NoError(t, err)

	n, err := idx.Upsert(ctx, "ns", []records.UpsertRecord{
		records.Pair{ID: "a", Values: []float32{1, 0, 0, 0}},
		records.Triple{ID: "b", Values: []float32{0, 1, 0, 0}, Metadata: metadata.Map{"genre": metadata.String("drama"), "year": metadata.Number(2020)}},
		records.Mapping{"id": "c", "values": []any{0.0, 0.0, 1.0, 0.0}, "metadata": map[string]any{"genre": "comedy", "year": 1999}},
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(3), n)

	_, err = idx.Upsert(ctx, "other", []records.UpsertRecord{
		records.Pair{ID: "a", Values: []float32{1, 1, 0, 0}},
	})
	require.NoError(t, err)

	t.Run("Query", func(t *testing.T) {
		matches, err := idx.Query(ctx, pinecone.QueryRequest{
			Namespace:       "ns",
			TopK:            3,
			Values:          []float32{0, 1, 0, 0},
			IncludeMetadata: true,
		})
		require.NoError(t, err)
		require.NotEmpty(t, matches)
		assert.Equal(t, "b", matches[0].ID)
		assert.Equal(t, metadata.String("drama"), matches[0].Metadata["genre"])
	})

	t.Run("QueryWithFilter", func(t *testing.T) {
		matches, err := idx.Query(ctx, pinecone.QueryRequest{
			Namespace: "ns",
			TopK:      3,
			Values:    []float32{1, 1, 1, 1},
			Filter: filter.And(
				filter.In("genre", metadata.String("drama"), metadata.String("comedy")),
				filter.Lt("year", 2000),
			),
		})
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "c", matches[0].ID)
	})

	t.Run("Fetch", func(t *testing.T) {
		got, err := idx.Fetch(ctx, "ns", []string{"a", "missing"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, []float32{1, 0, 0, 0}, got["a"].Values)

		other, err := idx.Fetch(ctx, "other", []string{"a"})
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 1, 0, 0}, other["a"].Values)
	})

	t.Run("UpdateMetadataMerges", func(t *testing.T) {
		require.NoError(t, idx.UpdateMetadata(ctx, "ns", "b", map[string]any{"year": 2021}))

		got, err := idx.Fetch(ctx, "ns", []string{"b"})
		require.NoError(t, err)
		assert.Equal(t, metadata.Map{
			"genre": metadata.String("drama"),
			"year":  metadata.Number(2021),
		}, got["b"].Metadata)
	})

	t.Run("DescribeIndexStats", func(t *testing.T) {
		stats, err := idx.DescribeIndexStats(ctx, nil)
		require.NoError(t, err)

		assert.Equal(t, uint32(4), stats.TotalVectorCount)
		assert.Equal(t, uint32(4), stats.Dimension)
		assert.Equal(t, pinecone.NamespaceStats{VectorCount: 3}, stats.Namespaces["ns"])
		assert.Equal(t, pinecone.NamespaceStats{VectorCount: 1}, stats.Namespaces["other"])
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, idx.DeleteByMetadata(ctx, "ns", filter.Eq("genre", metadata.String("comedy"))))
		require.NoError(t, idx.Delete(ctx, "ns", []string{"a"}))

		got, err := idx.Fetch(ctx, "ns", []string{"a", "b", "c"})
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Contains(t, got, "b")

		require.NoError(t, idx.DeleteAll(ctx, "ns"))
		stats, err := idx.DescribeIndexStats(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, uint32(1), stats.TotalVectorCount)
	})

	t.Run("ConfigureIndex", func(t *testing.T) {
		podType := "p1.x2"
		require.NoError(t, client.ConfigureIndex(ctx, "docs", pinecone.ConfigureRequest{PodType: &podType}))

		desc, err := client.DescribeIndex(ctx, "docs")
		require.NoError(t, err)
		assert.Equal(t, "p1.x2", desc.PodType)
	})

	require.NoError(t, idx.Close())
	require.NoError(t, client.DeleteIndex(ctx, "docs", pinecone.WithTimeout(30)))

	names, err := client.ListIndexes(ctx)
	require.NoError(t, err)
	assert.NotContains(t, names, "docs")
}

// TestBackendErrorHandling tests error scenarios
func TestBackendErrorHandling(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	containerInstance, err := setupQdrantContainer(ctx)
	require.NoError(t, err)
	defer func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}()

	backend, err := NewBackend(Params{Config: containerConfig(t, containerInstance)})
	require.NoError(t, err)
	defer backend.Close()

	t.Run("DialMissingCollection", func(t *testing.T) {
		_, err := backend.Dial(ctx, "missing", "")
		require.Error(t, err)
		assert.True(t, pinecone.IsConnectionError(err))
	})

	t.Run("DescribeMissingCollection", func(t *testing.T) {
		_, err := backend.DescribeIndex(ctx, "missing")
		assert.Error(t, err)
	})

	t.Run("CreateTwice", func(t *testing.T) {
		spec := pinecone.IndexSpec{Name: "twice", Dimension: 2}
		require.NoError(t, backend.CreateIndex(ctx, spec))
		assert.Error(t, backend.CreateIndex(ctx, spec))
		require.NoError(t, backend.DeleteIndex(ctx, "twice"))
	})
}
