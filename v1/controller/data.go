package controller

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/pinecone-io/pinecone-client/v1/filter"
	"github.com/pinecone-io/pinecone-client/v1/pinecone"
	"github.com/pinecone-io/pinecone-client/v1/records"
)

// Dialer opens REST data-plane connections. All connections share one
// *http.Client.
type Dialer struct {
	apiKey string
	opts   options
}

var _ pinecone.Dialer = (*Dialer)(nil)

// NewDialer returns a Dialer authenticating with cfg.APIKey.
func NewDialer(cfg *pinecone.Config, opts ...Option) *Dialer {
	o := buildOptions(opts)
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &Dialer{apiKey: cfg.APIKey, opts: o}
}

// Dial returns a DataPlane for url. No request is made until the first call.
func (d *Dialer) Dial(_ context.Context, indexName, url string) (pinecone.DataPlane, error) {
	if url == "" {
		return nil, errors.New("empty index url")
	}
	return &DataPlane{
		transport: newTransport(url, d.apiKey, d.opts),
		index:     indexName,
		logger:    d.opts.logger,
	}, nil
}

// DataPlane implements pinecone.DataPlane over the index REST API.
type DataPlane struct {
	transport
	index  string
	logger pinecone.Logger
	closed atomic.Bool
}

var _ pinecone.DataPlane = (*DataPlane)(nil)

func (d *DataPlane) call(ctx context.Context, method, path string, body, out any) error {
	if d.closed.Load() {
		return pinecone.NewIndexConnectionError(d.index, errors.New("connection closed"))
	}
	if d.logger != nil {
		d.logger.Debug("[Controller] index request", nil, map[string]interface{}{
			"index":  d.index,
			"method": method,
			"path":   path,
		})
	}

	err := d.do(ctx, method, path, body, out)

	var de *dialError
	if errors.As(err, &de) {
		return pinecone.NewIndexConnectionError(d.index, de.err)
	}
	return err
}

func (d *DataPlane) Upsert(ctx context.Context, namespace string, vectors []records.Vector) (uint32, error) {
	req := upsertRequest{Namespace: namespace, Vectors: make([]vectorBody, len(vectors))}
	for i, v := range vectors {
		body, err := toVectorBody(v)
		if err != nil {
			return 0, err
		}
		req.Vectors[i] = body
	}

	var resp upsertResponse
	if err := d.call(ctx, http.MethodPost, "/vectors/upsert", req, &resp); err != nil {
		return 0, err
	}
	return resp.UpsertedCount, nil
}

func (d *DataPlane) Query(ctx context.Context, q pinecone.QueryRequest) ([]pinecone.ScoredVector, error) {
	f, err := encodeFilter(q.Filter)
	if err != nil {
		return nil, err
	}

	req := queryRequest{
		Namespace:       q.Namespace,
		TopK:            q.TopK,
		Vector:          q.Values,
		SparseVector:    toSparseBody(q.SparseValues),
		ID:              q.ID,
		Filter:          f,
		IncludeValues:   q.IncludeValues,
		IncludeMetadata: q.IncludeMetadata,
	}

	var resp queryResponse
	if err := d.call(ctx, http.MethodPost, "/query", req, &resp); err != nil {
		return nil, err
	}

	out := make([]pinecone.ScoredVector, len(resp.Matches))
	for i, m := range resp.Matches {
		v, err := m.toVector()
		if err != nil {
			return nil, err
		}
		out[i] = pinecone.ScoredVector{
			ID:           v.ID,
			Score:        m.Score,
			Values:       v.Values,
			SparseValues: v.SparseValues,
			Metadata:     v.Metadata,
		}
	}
	return out, nil
}

func (d *DataPlane) Fetch(ctx context.Context, namespace string, ids []string) (map[string]records.Vector, error) {
	query, err := queryParam("ids", ids)
	if err != nil {
		return nil, err
	}
	if namespace != "" {
		ns, err := queryParam("namespace", namespace)
		if err != nil {
			return nil, err
		}
		query += "&" + ns
	}

	var resp fetchResponse
	if err := d.call(ctx, http.MethodGet, "/vectors/fetch?"+query, nil, &resp); err != nil {
		return nil, err
	}

	out := make(map[string]records.Vector, len(resp.Vectors))
	for id, body := range resp.Vectors {
		v, err := body.toVector()
		if err != nil {
			return nil, err
		}
		out[id] = v
	}
	return out, nil
}

func (d *DataPlane) Update(ctx context.Context, u pinecone.UpdateRequest) error {
	md, err := encodeMap(u.SetMetadata)
	if err != nil {
		return err
	}
	return d.call(ctx, http.MethodPost, "/vectors/update", updateRequest{
		ID:           u.ID,
		Values:       u.Values,
		SparseValues: toSparseBody(u.SparseValues),
		SetMetadata:  md,
		Namespace:    u.Namespace,
	}, nil)
}

func (d *DataPlane) Delete(ctx context.Context, r pinecone.DeleteRequest) error {
	f, err := encodeFilter(r.Filter)
	if err != nil {
		return err
	}
	return d.call(ctx, http.MethodPost, "/vectors/delete", deleteRequest{
		IDs:       r.IDs,
		DeleteAll: r.DeleteAll,
		Namespace: r.Namespace,
		Filter:    f,
	}, nil)
}

func (d *DataPlane) DescribeIndexStats(ctx context.Context, e filter.Expr) (pinecone.IndexStats, error) {
	f, err := encodeFilter(e)
	if err != nil {
		return pinecone.IndexStats{}, err
	}

	var resp statsResponse
	if err := d.call(ctx, http.MethodPost, "/describe_index_stats", statsRequest{Filter: f}, &resp); err != nil {
		return pinecone.IndexStats{}, err
	}

	out := pinecone.IndexStats{
		Namespaces:       make(map[string]pinecone.NamespaceStats, len(resp.Namespaces)),
		Dimension:        resp.Dimension,
		IndexFullness:    resp.IndexFullness,
		TotalVectorCount: resp.TotalVectorCount,
	}
	for ns, s := range resp.Namespaces {
		out.Namespaces[ns] = pinecone.NamespaceStats{VectorCount: s.VectorCount}
	}
	return out, nil
}

// Close marks the connection closed. Idle HTTP connections stay with the
// shared client.
func (d *DataPlane) Close() error {
	d.closed.Store(true)
	return nil
}
