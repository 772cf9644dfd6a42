package indexcmder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinecone-io/pinecone-client/v1/pinecone"
)

func TestSpecFromFlags(t *testing.T) {
	cmd := newCreateCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"-n", "8", "--metric", "dotproduct", "--replicas", "2", "--pod-type", "p1.x1", "--indexed", "genre,year",
	}))

	spec, err := specFromFlags(cmd, "docs")
	require.NoError(t, err)

	replicas := int32(2)
	assert.Equal(t, pinecone.IndexSpec{
		Name:           "docs",
		Dimension:      8,
		Metric:         pinecone.MetricDotProduct,
		Replicas:       &replicas,
		PodType:        "p1.x1",
		MetadataConfig: map[string][]string{"indexed": {"genre", "year"}},
	}, spec)
}

func TestSpecFromFlags_RejectsNonPositiveDimension(t *testing.T) {
	cmd := newCreateCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--dimension", "0"}))

	_, err := specFromFlags(cmd, "docs")
	assert.Error(t, err)
}

func TestWaitOptions(t *testing.T) {
	unset := newDeleteCmd()
	opts, err := waitOptions(unset)
	require.NoError(t, err)
	assert.Empty(t, opts)

	timeout := newDeleteCmd()
	require.NoError(t, timeout.ParseFlags([]string{"--timeout", "30"}))
	opts, err = waitOptions(timeout)
	require.NoError(t, err)
	assert.Len(t, opts, 1)

	noWait := newDeleteCmd()
	require.NoError(t, noWait.ParseFlags([]string{"--no-wait"}))
	opts, err = waitOptions(noWait)
	require.NoError(t, err)
	assert.Len(t, opts, 1)
}

func TestConfigureFromFlags(t *testing.T) {
	cmd := newConfigureCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--pod-type", "p1.x2"}))

	req, err := configureFromFlags(cmd)
	require.NoError(t, err)
	assert.Nil(t, req.Replicas)
	require.NotNil(t, req.PodType)
	assert.Equal(t, "p1.x2", *req.PodType)

	_, err = configureFromFlags(newConfigureCmd())
	assert.Error(t, err)
}
