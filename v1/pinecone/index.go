package pinecone

import (
	"context"
	"errors"

	"github.com/pinecone-io/pinecone-client/v1/filter"
	"github.com/pinecone-io/pinecone-client/v1/metadata"
	"github.com/pinecone-io/pinecone-client/v1/records"
)

// Index is a data-plane handle for one index. Close releases the underlying
// connection.
type Index struct {
	name   string
	client *Client
	data   DataPlane
}

// Name returns the index name.
func (i *Index) Name() string {
	return i.name
}

// Upsert normalizes recs and writes them in batches of
// Config.UpsertBatchSize. No vector is sent when any record is invalid.
// The returned count is the sum the store reported.
func (i *Index) Upsert(ctx context.Context, namespace string, recs []records.UpsertRecord) (uint32, error) {
	var total uint32

	err := i.client.observe(ctx, "upsert", map[string]interface{}{
		"index":     i.name,
		"namespace": namespace,
		"records":   len(recs),
	}, func(ctx context.Context) error {
		vectors, err := i.normalize(ctx, recs)
		if err != nil {
			return err
		}

		size := i.client.cfg.UpsertBatchSize
		for start := 0; start < len(vectors); start += size {
			end := min(start+size, len(vectors))

			n, err := i.data.Upsert(ctx, namespace, vectors[start:end])
			total += n
			if err != nil {
				return err
			}
		}

		if int(total) != len(vectors) {
			return &UpsertCountError{Upserted: int(total), Expected: len(vectors)}
		}
		return nil
	})
	return total, err
}

// UpsertValues classifies dynamically shaped values, such as decoded JSON
// objects, before upserting them.
func (i *Index) UpsertValues(ctx context.Context, namespace string, values []any) (uint32, error) {
	return i.Upsert(ctx, namespace, records.ClassifyAll(values))
}

func (i *Index) normalize(ctx context.Context, recs []records.UpsertRecord) ([]records.Vector, error) {
	var (
		vectors []records.Vector
		err     error
	)
	if workers := i.client.cfg.NormalizeWorkers; workers > 1 {
		vectors, err = records.NormalizeBatchConcurrent(ctx, recs, workers)
	} else {
		vectors, err = records.NormalizeBatch(recs)
	}
	if err != nil && records.IsValidationError(err) {
		i.client.recorder.IncrementNormalizeFailures(records.Kind(err))
	}
	return vectors, err
}

// Query returns the TopK nearest neighbours of a query vector or stored id.
func (i *Index) Query(ctx context.Context, req QueryRequest) ([]ScoredVector, error) {
	if err := validateQuery(req); err != nil {
		return nil, err
	}

	var out []ScoredVector
	err := i.client.observe(ctx, "query", map[string]interface{}{
		"index":     i.name,
		"namespace": req.Namespace,
		"top_k":     req.TopK,
	}, func(ctx context.Context) error {
		var err error
		out, err = i.data.Query(ctx, req)
		return err
	})
	return out, err
}

// QueryByID searches around the stored vector with the given id.
func (i *Index) QueryByID(ctx context.Context, req QueryByIDRequest) ([]ScoredVector, error) {
	if req.ID == "" {
		return nil, argumentError("id", "id must not be empty")
	}
	return i.Query(ctx, QueryRequest{
		Namespace:       req.Namespace,
		TopK:            req.TopK,
		ID:              req.ID,
		Filter:          req.Filter,
		IncludeValues:   req.IncludeValues,
		IncludeMetadata: req.IncludeMetadata,
	})
}

func validateQuery(req QueryRequest) error {
	if req.TopK < 1 {
		return argumentError("top_k", "top_k must be greater than 0")
	}
	hasVector := len(req.Values) > 0 || req.SparseValues != nil
	if hasVector && req.ID != "" {
		return argumentError("id", "Cannot specify both id and a query vector")
	}
	if !hasVector && req.ID == "" {
		return argumentError("vector", "One of id, values or sparse_values must be provided")
	}
	return nil
}

// Fetch returns the stored vectors for ids. Missing ids are absent from the map.
func (i *Index) Fetch(ctx context.Context, namespace string, ids []string) (map[string]records.Vector, error) {
	if len(ids) == 0 {
		return map[string]records.Vector{}, nil
	}

	var out map[string]records.Vector
	err := i.client.observe(ctx, "fetch", map[string]interface{}{
		"index":     i.name,
		"namespace": namespace,
		"ids":       len(ids),
	}, func(ctx context.Context) error {
		var err error
		out, err = i.data.Fetch(ctx, namespace, ids)
		return err
	})
	return out, err
}

// Update overwrites values and merges metadata of one vector.
func (i *Index) Update(ctx context.Context, req UpdateRequest) error {
	if req.ID == "" {
		return argumentError("id", "id must not be empty")
	}
	if len(req.Values) == 0 && req.SparseValues == nil && len(req.SetMetadata) == 0 {
		return argumentError("update", "At least one of values, sparse_values or set_metadata must be provided")
	}
	return i.client.observe(ctx, "update", map[string]interface{}{
		"index":     i.name,
		"namespace": req.Namespace,
	}, func(ctx context.Context) error {
		return i.data.Update(ctx, req)
	})
}

// UpdateMetadata merges dynamically typed metadata into a stored vector.
func (i *Index) UpdateMetadata(ctx context.Context, namespace, id string, md any) error {
	m, err := metadata.MapFromAny(md)
	if err != nil {
		return err
	}
	return i.Update(ctx, UpdateRequest{Namespace: namespace, ID: id, SetMetadata: m})
}

// Delete removes vectors by id.
func (i *Index) Delete(ctx context.Context, namespace string, ids []string) error {
	if len(ids) == 0 {
		return argumentError("ids", "ids must not be empty")
	}
	return i.delete(ctx, DeleteRequest{Namespace: namespace, IDs: ids})
}

// DeleteByMetadata removes every vector whose metadata matches f.
func (i *Index) DeleteByMetadata(ctx context.Context, namespace string, f filter.Expr) error {
	if f == nil {
		return argumentError("filter", "filter must not be empty")
	}
	return i.delete(ctx, DeleteRequest{Namespace: namespace, Filter: f})
}

// DeleteAll empties a namespace.
func (i *Index) DeleteAll(ctx context.Context, namespace string) error {
	return i.delete(ctx, DeleteRequest{Namespace: namespace, DeleteAll: true})
}

func (i *Index) delete(ctx context.Context, req DeleteRequest) error {
	return i.client.observe(ctx, "delete", map[string]interface{}{
		"index":      i.name,
		"namespace":  req.Namespace,
		"delete_all": req.DeleteAll,
	}, func(ctx context.Context) error {
		return i.data.Delete(ctx, req)
	})
}

// DescribeIndexStats summarises the index, optionally restricted by f.
func (i *Index) DescribeIndexStats(ctx context.Context, f filter.Expr) (IndexStats, error) {
	var out IndexStats
	err := i.client.observe(ctx, "describe_index_stats", map[string]interface{}{"index": i.name}, func(ctx context.Context) error {
		var err error
		out, err = i.data.DescribeIndexStats(ctx, f)
		return err
	})
	return out, err
}

// Close releases the data-plane connection.
func (i *Index) Close() error {
	if i.data == nil {
		return nil
	}
	i.client.untrack(i)
	err := i.data.Close()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
