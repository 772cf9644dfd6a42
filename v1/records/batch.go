package records

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// NormalizeBatch normalizes recs in order and stops at the first invalid
// record.
func NormalizeBatch(recs []UpsertRecord) ([]Vector, error) {
	out := make([]Vector, len(recs))
	for i, rec := range recs {
		v, err := Normalize(rec, i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// NormalizeBatchConcurrent normalizes recs on at most workers goroutines.
// Output order matches input order. When several records are invalid the
// error for the lowest position is returned, same as NormalizeBatch.
func NormalizeBatchConcurrent(ctx context.Context, recs []UpsertRecord, workers int) ([]Vector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if workers <= 1 || len(recs) < 2 {
		return NormalizeBatch(recs)
	}

	out := make([]Vector, len(recs))
	errs := make([]error, len(recs))

	// lowest only ever decreases. Records past it can be skipped.
	var lowest atomic.Int64
	lowest.Store(int64(len(recs)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range recs {
		if int64(i) > lowest.Load() || gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if int64(i) > lowest.Load() {
				return nil
			}
			v, err := Normalize(recs[i], i)
			if err != nil {
				errs[i] = err
				lowerTo(&lowest, int64(i))
				return nil
			}
			out[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p := lowest.Load(); p < int64(len(recs)) {
		return nil, errs[p]
	}
	return out, nil
}

func lowerTo(v *atomic.Int64, n int64) {
	for {
		cur := v.Load()
		if n >= cur || v.CompareAndSwap(cur, n) {
			return
		}
	}
}
