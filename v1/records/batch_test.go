package records

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinecone-io/pinecone-client/v1/metadata"
)

func validBatch(n int) []UpsertRecord {
	recs := make([]UpsertRecord, n)
	for i := range recs {
		recs[i] = Mapping{"id": fmt.Sprintf("id-%d", i), "values": []any{float64(i)}}
	}
	return recs
}

func TestNormalizeBatch_PreservesOrder(t *testing.T) {
	got, err := NormalizeBatch(validBatch(5))
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i, v := range got {
		assert.Equal(t, fmt.Sprintf("id-%d", i), v.ID)
		assert.Equal(t, []float32{float32(i)}, v.Values)
	}
}

func TestNormalizeBatch_FirstFailureWins(t *testing.T) {
	recs := validBatch(10)
	recs[3] = Mapping{"values": []float32{1}}
	recs[7] = Unsupported{Value: 1}

	_, err := NormalizeBatch(recs)
	var mk *MissingKeyError
	require.ErrorAs(t, err, &mk)
	assert.Equal(t, 3, mk.Position)
	assert.Equal(t, "id", mk.Key)
}

func TestNormalizeBatch_TypedMetadataPosition(t *testing.T) {
	recs := validBatch(6)
	recs[2] = Triple{ID: "t", Values: []float32{1}, Metadata: metadata.Map{"k": nil}}

	_, err := NormalizeBatch(recs)
	var me *MetadataError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, 2, me.Position)

	_, err = NormalizeBatchConcurrent(context.Background(), recs, 3)
	require.ErrorAs(t, err, &me)
	assert.Equal(t, 2, me.Position)
}

func TestNormalizeBatch_StopsAtFirstFailure(t *testing.T) {
	// Decoding a self-referencing map never terminates, so reaching
	// position 2 would hang the test.
	cyclic := map[string]any{}
	cyclic["self"] = cyclic

	recs := []UpsertRecord{
		Pair{ID: "ok", Values: []float32{1}},
		Unsupported{Value: 7},
		Mapping{"id": "c", "values": []float32{1}, "metadata": cyclic},
	}

	_, err := NormalizeBatch(recs)
	var ur *UnsupportedRecordError
	require.ErrorAs(t, err, &ur)
	assert.Equal(t, 1, ur.Position)
}

func TestNormalizeBatchConcurrent_MatchesSequential(t *testing.T) {
	recs := validBatch(257)

	seq, err := NormalizeBatch(recs)
	require.NoError(t, err)

	for _, workers := range []int{0, 1, 4, 64} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			got, err := NormalizeBatchConcurrent(context.Background(), recs, workers)
			require.NoError(t, err)
			assert.Equal(t, seq, got)
		})
	}
}

func TestNormalizeBatchConcurrent_LowestPositionWins(t *testing.T) {
	recs := validBatch(200)
	recs[150] = Mapping{"id": 1, "values": []float32{1}}
	recs[42] = Mapping{"id": "x"}
	recs[199] = Unsupported{Value: "nope"}

	for i := 0; i < 20; i++ {
		_, err := NormalizeBatchConcurrent(context.Background(), recs, 8)
		pos, ok := Position(err)
		require.True(t, ok)
		assert.Equal(t, 42, pos)
		assert.Equal(t, "missing_key", Kind(err))
	}
}

func TestNormalizeBatchConcurrent_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NormalizeBatchConcurrent(ctx, validBatch(10), 4)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalizeBatch_Empty(t *testing.T) {
	got, err := NormalizeBatch(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = NormalizeBatchConcurrent(context.Background(), nil, 4)
	require.NoError(t, err)
	assert.Empty(t, got)
}
