package qdrant

import (
	"errors"
	"testing"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinecone-io/pinecone-client/v1/pinecone"
)

func TestToStatus(t *testing.T) {
	assert.Equal(t, pinecone.StatusReady, toStatus(qdrant.CollectionStatus_Green))
	assert.Equal(t, StatusInitializing, toStatus(qdrant.CollectionStatus_Yellow))
	assert.Equal(t, StatusInitializing, toStatus(qdrant.CollectionStatus_Grey))
	assert.Equal(t, StatusFailed, toStatus(qdrant.CollectionStatus_Red))
}

func TestDistanceMapping(t *testing.T) {
	for _, metric := range []string{pinecone.MetricCosine, pinecone.MetricEuclidean, pinecone.MetricDotProduct} {
		d, ok := toDistance(metric)
		require.True(t, ok, metric)
		assert.Equal(t, metric, fromDistance(d))
	}

	d, ok := toDistance("")
	assert.True(t, ok)
	assert.Equal(t, qdrant.Distance_Cosine, d)

	_, ok = toDistance("manhattan")
	assert.False(t, ok)
}

func TestExtractVectorDetails(t *testing.T) {
	named := &qdrant.CollectionInfo{Config: &qdrant.CollectionConfig{Params: &qdrant.CollectionParams{
		VectorsConfig: qdrant.NewVectorsConfigMap(map[string]*qdrant.VectorParams{
			denseVectorName: {Size: 8, Distance: qdrant.Distance_Dot},
		}),
	}}}
	size, distance := extractVectorDetails(named)
	assert.Equal(t, 8, size)
	assert.Equal(t, qdrant.Distance_Dot, distance)

	single := &qdrant.CollectionInfo{Config: &qdrant.CollectionConfig{Params: &qdrant.CollectionParams{
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{Size: 3, Distance: qdrant.Distance_Euclid}),
	}}}
	size, _ = extractVectorDetails(single)
	assert.Equal(t, 3, size)

	size, distance = extractVectorDetails(nil)
	assert.Zero(t, size)
	assert.Equal(t, qdrant.Distance_UnknownDistance, distance)
}

func TestPointerConversions(t *testing.T) {
	assert.Nil(t, uint32Ptr(nil))
	neg := int32(-1)
	assert.Nil(t, uint32Ptr(&neg))
	two := int32(2)
	assert.Equal(t, uint32(2), *uint32Ptr(&two))

	assert.Nil(t, int32Ptr(nil))
	three := uint32(3)
	assert.Equal(t, int32(3), *int32Ptr(&three))
}

func TestConfig(t *testing.T) {
	cfg := FromEndpoint("qdrant.internal").
		WithPort(7000).
		WithApiKey("secret").
		WithTLS(true).
		WithConnectTimeout(time.Second).
		WithCompatibilityCheck(false).
		WithProject("proj")

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "qdrant.internal", cfg.Endpoint)
	assert.Equal(t, 7000, cfg.Port)
	assert.True(t, cfg.UseTLS)
	assert.False(t, cfg.CheckCompatibility)
	assert.Equal(t, "proj", cfg.Project)

	assert.Error(t, (&Config{}).Validate())
	assert.Error(t, DefaultConfig().WithPort(70000).Validate())
}

func TestNewBackend_RequiresConfig(t *testing.T) {
	_, err := NewBackend(Params{})
	require.Error(t, err)

	_, err = NewBackend(Params{Config: &Config{}})
	require.Error(t, err)
}

func TestNewBackend_UnreachableServerIsConnectionError(t *testing.T) {
	cfg := FromEndpoint("127.0.0.1").
		WithPort(1).
		WithCompatibilityCheck(false).
		WithConnectTimeout(2 * time.Second)

	_, err := NewBackend(Params{Config: cfg})
	require.Error(t, err)
	assert.True(t, pinecone.IsConnectionError(err), err.Error())
	assert.Contains(t, err.Error(), "Qdrant at 127.0.0.1:1")
}

func TestUnsupportedCollectionCalls(t *testing.T) {
	b := &Backend{cfg: DefaultConfig(), logger: nopLogger{}}

	err := b.CreateCollection(t.Context(), "snap", "docs")
	assert.True(t, errors.Is(err, pinecone.ErrUnsupported))

	_, err = b.ListCollections(t.Context())
	assert.True(t, errors.Is(err, pinecone.ErrUnsupported))

	who, err := b.Whoami(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "local", who.ProjectName)

	err = b.CreateIndex(t.Context(), pinecone.IndexSpec{Name: "docs", Dimension: 4, SourceCollection: "snap"})
	assert.True(t, errors.Is(err, pinecone.ErrUnsupported))

	err = b.CreateIndex(t.Context(), pinecone.IndexSpec{Name: "docs", Dimension: 4, Metric: "hamming"})
	assert.True(t, pinecone.IsArgumentError(err))
}

func TestClosedDataPlaneRefusesCalls(t *testing.T) {
	d := &DataPlane{collection: "docs", logger: nopLogger{}}
	require.NoError(t, d.Close())

	_, err := d.Fetch(t.Context(), "", []string{"a"})
	require.Error(t, err)
	assert.True(t, pinecone.IsConnectionError(err))
	assert.Contains(t, err.Error(), "index 'docs'")
}
