package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinecone-io/pinecone-client/v1/pinecone"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   map[string]any
}

// fakeServer answers every request with status and body and records what
// it received.
func fakeServer(t *testing.T, status int, body string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()

	var got []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
		}
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			assert.NoError(t, json.Unmarshal(raw, &rec.Body))
		}
		got = append(got, rec)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func controlFor(srv *httptest.Server) *Client {
	cfg := pinecone.DefaultConfig().WithAPIKey("secret").WithControllerURL(srv.URL + "/")
	return New(cfg, WithHTTPClient(srv.Client()))
}

func TestCreateIndex_SendsSpec(t *testing.T) {
	srv, got := fakeServer(t, http.StatusCreated, "")
	c := controlFor(srv)

	replicas := int32(2)
	err := c.CreateIndex(context.Background(), pinecone.IndexSpec{
		Name:           "docs",
		Dimension:      768,
		Metric:         pinecone.MetricDotProduct,
		Replicas:       &replicas,
		MetadataConfig: map[string][]string{"indexed": {"genre"}},
	})
	require.NoError(t, err)

	require.Len(t, *got, 1)
	req := (*got)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/databases", req.Path)
	assert.Equal(t, "secret", req.Header.Get("Api-Key"))
	assert.Equal(t, UserAgent, req.Header.Get("User-Agent"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, map[string]any{
		"name":            "docs",
		"dimension":       float64(768),
		"metric":          "dotproduct",
		"replicas":        float64(2),
		"metadata_config": map[string]any{"indexed": []any{"genre"}},
	}, req.Body)
}

func TestDescribeIndex(t *testing.T) {
	srv, got := fakeServer(t, http.StatusOK, `{
		"database": {"name": "docs", "dimension": 8, "metric": "cosine", "replicas": 1, "pod_type": "p1.x1"},
		"status": {"ready": true, "state": "Ready"}
	}`)
	c := controlFor(srv)

	desc, err := c.DescribeIndex(context.Background(), "docs")
	require.NoError(t, err)

	assert.Equal(t, "/databases/docs", (*got)[0].Path)
	assert.Equal(t, "docs", desc.Name)
	assert.Equal(t, int32(8), desc.Dimension)
	assert.Equal(t, "p1.x1", desc.PodType)
	assert.Equal(t, pinecone.StatusReady, desc.Status)
	require.NotNil(t, desc.Replicas)
	assert.Equal(t, int32(1), *desc.Replicas)
}

func TestDescribeIndex_MissingFieldsIsParseError(t *testing.T) {
	srv, _ := fakeServer(t, http.StatusOK, `{"database": {"metric": "cosine"}}`)

	_, err := controlFor(srv).DescribeIndex(context.Background(), "docs")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestDescribeIndex_EscapesPath(t *testing.T) {
	srv, got := fakeServer(t, http.StatusOK, `{"database": {"name": "a b", "dimension": 1}}`)

	_, err := controlFor(srv).DescribeIndex(context.Background(), "a b")
	require.NoError(t, err)
	assert.Equal(t, "/databases/a%20b", (*got)[0].Path)
}

func TestListAndDelete(t *testing.T) {
	srv, got := fakeServer(t, http.StatusOK, `["docs","other"]`)
	c := controlFor(srv)
	ctx := context.Background()

	names, err := c.ListIndexes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs", "other"}, names)

	names, err = c.ListCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"docs", "other"}, names)

	require.NoError(t, c.DeleteIndex(ctx, "docs"))
	require.NoError(t, c.DeleteCollection(ctx, "snap"))

	paths := make([]string, len(*got))
	for i, r := range *got {
		paths[i] = r.Method + " " + r.Path
	}
	assert.Equal(t, []string{
		"GET /databases",
		"GET /collections",
		"DELETE /databases/docs",
		"DELETE /collections/snap",
	}, paths)
}

func TestConfigureIndex_OmitsUnsetFields(t *testing.T) {
	srv, got := fakeServer(t, http.StatusAccepted, "")

	podType := "p1.x2"
	require.NoError(t, controlFor(srv).ConfigureIndex(context.Background(), "docs", pinecone.ConfigureRequest{PodType: &podType}))

	req := (*got)[0]
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Equal(t, map[string]any{"pod_type": "p1.x2"}, req.Body)
}

func TestCollections(t *testing.T) {
	srv, got := fakeServer(t, http.StatusOK, `{"name":"snap","source":"docs","vector_count":12,"status":"Ready"}`)
	c := controlFor(srv)

	require.NoError(t, c.CreateCollection(context.Background(), "snap", "docs"))
	assert.Equal(t, map[string]any{"name": "snap", "source": "docs"}, (*got)[0].Body)

	desc, err := c.DescribeCollection(context.Background(), "snap")
	require.NoError(t, err)
	assert.Equal(t, "docs", desc.Source)
	require.NotNil(t, desc.VectorCount)
	assert.Equal(t, int64(12), *desc.VectorCount)
	assert.Nil(t, desc.Size)
}

func TestWhoami(t *testing.T) {
	srv, got := fakeServer(t, http.StatusOK, `{"project_name":"abc123","user_label":"default","user_name":"me"}`)

	who, err := controlFor(srv).Whoami(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/actions/whoami", (*got)[0].Path)
	assert.Equal(t, pinecone.Whoami{ProjectName: "abc123", UserLabel: "default", UserName: "me"}, who)
}

func TestWhoami_RequiresAPIKey(t *testing.T) {
	c := New(pinecone.DefaultConfig().WithControllerURL("http://127.0.0.1:1"))

	_, err := c.Whoami(context.Background())
	require.Error(t, err)
	assert.True(t, pinecone.IsArgumentError(err))
}

func TestNon2xxIsOperationError(t *testing.T) {
	srv, _ := fakeServer(t, http.StatusNotFound, "index not found\n")

	_, err := controlFor(srv).DescribeIndex(context.Background(), "nope")
	require.Error(t, err)

	var op *OperationError
	require.True(t, errors.As(err, &op))
	assert.Equal(t, http.StatusNotFound, op.StatusCode)
	assert.Equal(t, "Operation failed with error code 404. \nUnderlying Error: index not found", err.Error())
	assert.True(t, IsNotFound(err))
}

func TestUndecodableBodyIsParseError(t *testing.T) {
	srv, _ := fakeServer(t, http.StatusOK, `not json`)

	_, err := controlFor(srv).ListIndexes(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestUnreachableControllerIsConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(pinecone.DefaultConfig().WithAPIKey("k").WithRegion("eu-west1-gcp").WithControllerURL(url))

	_, err := c.ListIndexes(context.Background())
	require.Error(t, err)
	assert.True(t, pinecone.IsConnectionError(err))
	assert.Contains(t, err.Error(), "controller on region eu-west1-gcp")
}

func TestCancelledContextIsNotConnectionError(t *testing.T) {
	srv, _ := fakeServer(t, http.StatusOK, `[]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := controlFor(srv).ListIndexes(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, pinecone.IsConnectionError(err))
}
