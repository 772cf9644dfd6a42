package qdrant

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pinecone-io/pinecone-client/v1/filter"
	"github.com/pinecone-io/pinecone-client/v1/pinecone"
	"github.com/pinecone-io/pinecone-client/v1/records"
)

const (
	defaultBatchSize = 200 // points per upsert request
	maxNamespaces    = 10_000
)

var errClosed = errors.New("data plane is closed")

// DataPlane implements pinecone.DataPlane on one collection. The gRPC
// connection belongs to the Backend; closing a DataPlane only detaches it.
type DataPlane struct {
	api        *qdrant.Client
	collection string
	logger     pinecone.Logger
	closed     atomic.Bool
}

var _ pinecone.DataPlane = (*DataPlane)(nil)

// Dial opens the collection backing indexName. url is ignored.
func (b *Backend) Dial(ctx context.Context, indexName, _ string) (pinecone.DataPlane, error) {
	exists, err := b.api.CollectionExists(ctx, indexName)
	if err != nil {
		return nil, pinecone.NewIndexConnectionError(indexName, err)
	}
	if !exists {
		return nil, pinecone.NewIndexConnectionError(indexName, fmt.Errorf("collection %s not found", indexName))
	}
	return &DataPlane{api: b.api, collection: indexName, logger: b.logger}, nil
}

// Upsert writes the vectors in requests of defaultBatchSize points and
// waits for each to be applied.
func (d *DataPlane) Upsert(ctx context.Context, namespace string, vectors []records.Vector) (uint32, error) {
	if err := d.check(); err != nil {
		return 0, err
	}

	var upserted uint32
	for start := 0; start < len(vectors); start += defaultBatchSize {
		end := min(start+defaultBatchSize, len(vectors))

		points := make([]*qdrant.PointStruct, 0, end-start)
		for _, v := range vectors[start:end] {
			points = append(points, &qdrant.PointStruct{
				Id:      qdrant.NewID(PointID(namespace, v.ID)),
				Vectors: buildVectors(v.Values, v.SparseValues),
				Payload: BuildPayload(namespace, v.ID, v.Metadata),
			})
		}

		_, err := d.api.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: d.collection,
			Wait:           qdrant.PtrOf(true),
			Points:         points,
		})
		if err != nil {
			return upserted, d.wrap("upsert points", err)
		}
		upserted += uint32(len(points))

		d.logger.Debug("[Qdrant] upserted batch", nil, map[string]interface{}{
			"collection": d.collection,
			"from":       start,
			"to":         end,
		})
	}
	return upserted, nil
}

// Query runs a dense, sparse or id-based search. A request carrying both
// dense and sparse values fuses the two result lists with reciprocal rank
// fusion.
func (d *DataPlane) Query(ctx context.Context, req pinecone.QueryRequest) ([]pinecone.ScoredVector, error) {
	if err := d.check(); err != nil {
		return nil, err
	}

	f, err := Compile(req.Namespace, req.Filter)
	if err != nil {
		return nil, err
	}

	limit := qdrant.PtrOf(uint64(req.TopK))
	q := &qdrant.QueryPoints{
		CollectionName: d.collection,
		Filter:         f,
		Limit:          limit,
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(req.IncludeValues),
	}

	switch {
	case req.ID != "":
		q.Query = qdrant.NewQueryID(qdrant.NewID(PointID(req.Namespace, req.ID)))
		q.Using = qdrant.PtrOf(denseVectorName)
	case len(req.Values) > 0 && req.SparseValues != nil:
		q.Prefetch = []*qdrant.PrefetchQuery{
			{Query: qdrant.NewQueryDense(req.Values), Using: qdrant.PtrOf(denseVectorName), Filter: f, Limit: limit},
			{
				Query:  qdrant.NewQuerySparse(req.SparseValues.Indices, req.SparseValues.Values),
				Using:  qdrant.PtrOf(sparseVectorName),
				Filter: f,
				Limit:  limit,
			},
		}
		q.Query = qdrant.NewQueryFusion(qdrant.Fusion_RRF)
	case len(req.Values) > 0:
		q.Query = qdrant.NewQueryDense(req.Values)
		q.Using = qdrant.PtrOf(denseVectorName)
	case req.SparseValues != nil:
		q.Query = qdrant.NewQuerySparse(req.SparseValues.Indices, req.SparseValues.Values)
		q.Using = qdrant.PtrOf(sparseVectorName)
	default:
		return nil, &pinecone.ArgumentError{Name: "query", Msg: "One of id, values or sparse_values must be provided"}
	}

	points, err := d.api.Query(ctx, q)
	if err != nil {
		return nil, d.wrap("query points", err)
	}

	matches := make([]pinecone.ScoredVector, 0, len(points))
	for _, p := range points {
		rec := toRecord(p.GetPayload(), p.GetVectors())
		match := pinecone.ScoredVector{ID: rec.ID, Score: p.GetScore()}
		if req.IncludeValues {
			match.Values = rec.Values
			match.SparseValues = rec.SparseValues
		}
		if req.IncludeMetadata {
			match.Metadata = rec.Metadata
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// Fetch returns the stored vectors keyed by id. Missing ids are absent from
// the result.
func (d *DataPlane) Fetch(ctx context.Context, namespace string, ids []string) (map[string]records.Vector, error) {
	if err := d.check(); err != nil {
		return nil, err
	}

	points, err := d.api.Get(ctx, &qdrant.GetPoints{
		CollectionName: d.collection,
		Ids:            pointIDs(namespace, ids),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, d.wrap("get points", err)
	}

	out := make(map[string]records.Vector, len(points))
	for _, p := range points {
		rec := toRecord(p.GetPayload(), p.GetVectors())
		out[rec.ID] = rec
	}
	return out, nil
}

// Update replaces the vectors given in req and merges SetMetadata into the
// user payload.
func (d *DataPlane) Update(ctx context.Context, req pinecone.UpdateRequest) error {
	if err := d.check(); err != nil {
		return err
	}

	id := qdrant.NewID(PointID(req.Namespace, req.ID))

	if len(req.Values) > 0 || req.SparseValues != nil {
		_, err := d.api.UpdateVectors(ctx, &qdrant.UpdatePointVectors{
			CollectionName: d.collection,
			Wait:           qdrant.PtrOf(true),
			Points: []*qdrant.PointVectors{
				{Id: id, Vectors: buildVectors(req.Values, req.SparseValues)},
			},
		})
		if err != nil {
			return d.wrap("update vectors", err)
		}
	}

	if len(req.SetMetadata) > 0 {
		_, err := d.api.SetPayload(ctx, &qdrant.SetPayloadPoints{
			CollectionName: d.collection,
			Wait:           qdrant.PtrOf(true),
			Payload:        toFields(req.SetMetadata),
			PointsSelector: qdrant.NewPointsSelector(id),
			Key:            qdrant.PtrOf(UserPayloadPrefix),
		})
		if err != nil {
			return d.wrap("set payload", err)
		}
	}
	return nil
}

func (d *DataPlane) Delete(ctx context.Context, req pinecone.DeleteRequest) error {
	if err := d.check(); err != nil {
		return err
	}

	var selector *qdrant.PointsSelector
	switch {
	case req.DeleteAll:
		f, _ := Compile(req.Namespace, nil)
		selector = qdrant.NewPointsSelectorFilter(f)
	case req.Filter != nil:
		f, err := Compile(req.Namespace, req.Filter)
		if err != nil {
			return err
		}
		selector = qdrant.NewPointsSelectorFilter(f)
	case len(req.IDs) > 0:
		selector = qdrant.NewPointsSelector(pointIDs(req.Namespace, req.IDs)...)
	default:
		return nil
	}

	_, err := d.api.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: d.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         selector,
	})
	if err != nil {
		return d.wrap("delete points", err)
	}
	return nil
}

// DescribeIndexStats counts points per namespace with a facet on the
// namespace field. f applies across all namespaces.
func (d *DataPlane) DescribeIndexStats(ctx context.Context, f filter.Expr) (pinecone.IndexStats, error) {
	if err := d.check(); err != nil {
		return pinecone.IndexStats{}, err
	}

	var qf *qdrant.Filter
	if f != nil {
		compiled, err := compileExpr(f)
		if err != nil {
			return pinecone.IndexStats{}, err
		}
		qf = compiled
	}

	info, err := d.api.GetCollectionInfo(ctx, d.collection)
	if err != nil {
		return pinecone.IndexStats{}, d.wrap("get collection info", err)
	}
	dim, _ := extractVectorDetails(info)

	hits, err := d.api.Facet(ctx, &qdrant.FacetCounts{
		CollectionName: d.collection,
		Key:            namespaceField,
		Filter:         qf,
		Limit:          qdrant.PtrOf(uint64(maxNamespaces)),
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return pinecone.IndexStats{}, d.wrap("facet namespaces", err)
	}

	stats := pinecone.IndexStats{
		Namespaces: make(map[string]pinecone.NamespaceStats, len(hits)),
		Dimension:  uint32(dim),
	}
	for _, hit := range hits {
		ns := hit.GetValue().GetStringValue()
		stats.Namespaces[ns] = pinecone.NamespaceStats{VectorCount: uint32(hit.GetCount())}
	}

	total, err := d.api.Count(ctx, &qdrant.CountPoints{
		CollectionName: d.collection,
		Filter:         qf,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return pinecone.IndexStats{}, d.wrap("count points", err)
	}
	stats.TotalVectorCount = uint32(total)
	return stats, nil
}

// Close detaches the data plane. Later calls fail with a connection error.
func (d *DataPlane) Close() error {
	d.closed.Store(true)
	return nil
}

func (d *DataPlane) check() error {
	if d.closed.Load() {
		return pinecone.NewIndexConnectionError(d.collection, errClosed)
	}
	return nil
}

func (d *DataPlane) wrap(op string, err error) error {
	if status.Code(err) == codes.Unavailable {
		return pinecone.NewIndexConnectionError(d.collection, err)
	}
	return fmt.Errorf("[Qdrant] failed to %s: %w", op, err)
}

func pointIDs(namespace string, ids []string) []*qdrant.PointId {
	out := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		out[i] = qdrant.NewID(PointID(namespace, id))
	}
	return out
}
