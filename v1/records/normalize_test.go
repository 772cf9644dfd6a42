package records

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinecone-io/pinecone-client/v1/metadata"
)

func TestNormalize_TypedShapes(t *testing.T) {
	md := metadata.Map{"genre": metadata.String("drama")}

	tests := []struct {
		name string
		in   UpsertRecord
		want Vector
	}{
		{"vector", Vector{ID: "a", Values: []float32{1}}, Vector{ID: "a", Values: []float32{1}}},
		{"vector pointer", &Vector{ID: "p", Values: []float32{2}}, Vector{ID: "p", Values: []float32{2}}},
		{"pair", Pair{ID: "b", Values: []float32{1, 2}}, Vector{ID: "b", Values: []float32{1, 2}}},
		{"triple", Triple{ID: "c", Values: []float32{3}, Metadata: md}, Vector{ID: "c", Values: []float32{3}, Metadata: md}},
		{"empty id", Pair{ID: "", Values: nil}, Vector{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Mapping(t *testing.T) {
	got, err := Normalize(Mapping{
		"id":     "v1",
		"values": []any{1.0, 2, float32(0.5)},
		"sparse_values": map[string]any{
			"indices": []any{1.0, 5},
			"values":  []float64{0.1, 0.2},
		},
		"metadata": map[string]any{"year": 2020, "tags": []string{"x"}},
	}, 0)
	require.NoError(t, err)

	assert.Equal(t, "v1", got.ID)
	assert.Equal(t, []float32{1, 2, 0.5}, got.Values)
	require.NotNil(t, got.SparseValues)
	assert.Equal(t, []uint32{1, 5}, got.SparseValues.Indices)
	assert.Equal(t, []float32{0.1, 0.2}, got.SparseValues.Values)
	assert.Equal(t, metadata.Map{
		"year": metadata.Number(2020),
		"tags": metadata.List{metadata.String("x")},
	}, got.Metadata)
}

func TestNormalize_MappingFromJSON(t *testing.T) {
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"id":"j","values":[0.5,1],"sparse_values":{"indices":[3],"values":[9]}}`), &doc))

	got, err := Normalize(Mapping(doc), 0)
	require.NoError(t, err)
	assert.Equal(t, Vector{
		ID:           "j",
		Values:       []float32{0.5, 1},
		SparseValues: &SparseValues{Indices: []uint32{3}, Values: []float32{9}},
	}, got)
}

func TestNormalize_SparseLengthMismatchPassesThrough(t *testing.T) {
	got, err := Normalize(Mapping{
		"id":            "s",
		"values":        []float32{1},
		"sparse_values": map[string]any{"indices": []int{1, 2, 3}, "values": []float32{0.1}},
	}, 0)
	require.NoError(t, err)
	assert.Len(t, got.SparseValues.Indices, 3)
	assert.Len(t, got.SparseValues.Values, 1)
}

func TestNormalize_TypedSparseValues(t *testing.T) {
	sv := SparseValues{Indices: []uint32{7}, Values: []float32{1}}

	got, err := Normalize(Mapping{"id": "a", "values": []float32{}, "sparse_values": sv}, 0)
	require.NoError(t, err)
	assert.Equal(t, &sv, got.SparseValues)

	got, err = Normalize(Mapping{"id": "b", "values": []float32{}, "sparse_values": &sv}, 0)
	require.NoError(t, err)
	assert.Same(t, &sv, got.SparseValues)
}

func TestNormalize_MissingKeys(t *testing.T) {
	tests := []struct {
		name string
		in   Mapping
		key  string
	}{
		{"id", Mapping{"values": []float32{1}}, "id"},
		{"values", Mapping{"id": "a"}, "values"},
		{"sparse indices", Mapping{"id": "a", "values": []float32{1}, "sparse_values": map[string]any{"values": []float32{1}}}, "sparse_values: indices"},
		{"sparse values", Mapping{"id": "a", "values": []float32{1}, "sparse_values": map[string]any{"indices": []int{1}}}, "sparse_values: values"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.in, 4)
			var mk *MissingKeyError
			require.ErrorAs(t, err, &mk)
			assert.Equal(t, tt.key, mk.Key)
			assert.Equal(t, 4, mk.Position)
			assert.ErrorIs(t, err, ErrInvalidRecord)
		})
	}
}

func TestNormalize_MissingIDMessage(t *testing.T) {
	_, err := Normalize(Mapping{"values": []float32{1}}, 2)
	require.Error(t, err)
	assert.Equal(t, "Error in vector number 2: Missing key 'id'", err.Error())
}

func TestNormalize_WrongTypes(t *testing.T) {
	tests := []struct {
		name     string
		in       Mapping
		key      string
		expected string
	}{
		{"numeric id", Mapping{"id": 1, "values": []float32{1}}, "id", ExpectString},
		{"nil id", Mapping{"id": nil, "values": []float32{1}}, "id", ExpectString},
		{"string values", Mapping{"id": "a", "values": "1,2"}, "values", ExpectFloatList},
		{"bool in values", Mapping{"id": "a", "values": []any{1.0, true}}, "values", ExpectFloatList},
		{"scalar sparse", Mapping{"id": "a", "values": []float32{1}, "sparse_values": 3}, "sparse_values", ExpectDictionary},
		{"negative index", Mapping{"id": "a", "values": []float32{1}, "sparse_values": map[string]any{"indices": []int{-1}, "values": []float32{1}}}, "sparse_values: indices", ExpectIntList},
		{"fractional index", Mapping{"id": "a", "values": []float32{1}, "sparse_values": map[string]any{"indices": []any{1.5}, "values": []float32{1}}}, "sparse_values: indices", ExpectIntList},
		{"sparse string values", Mapping{"id": "a", "values": []float32{1}, "sparse_values": map[string]any{"indices": []int{1}, "values": []string{"x"}}}, "sparse_values: values", ExpectFloatList},
		{"list metadata", Mapping{"id": "a", "values": []float32{1}, "metadata": []any{"x"}}, "metadata", ExpectDictionary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.in, 1)
			var wt *WrongTypeError
			require.ErrorAs(t, err, &wt)
			assert.Equal(t, tt.key, wt.Key)
			assert.Equal(t, tt.expected, wt.Expected)
			assert.Equal(t, 1, wt.Position)
		})
	}
}

func TestNormalize_WrongTypeMessage(t *testing.T) {
	_, err := Normalize(Mapping{"id": 5, "values": []float32{1}}, 0)
	require.Error(t, err)
	assert.Equal(t, "Error in vector number 0: Found unexpected value for 'id'. Expected a String, found: 5", err.Error())
}

func TestNormalize_ExcessKeys(t *testing.T) {
	// Excess keys are reported alone, even though id and values are missing.
	_, err := Normalize(Mapping{"zeta": 1, "alpha": 2}, 3)
	var ek *ExcessKeysError
	require.ErrorAs(t, err, &ek)
	assert.Equal(t, []string{"alpha", "zeta"}, ek.Keys)
	assert.Equal(t, "Error in vector number 3: Found unexpected keys: ['alpha', 'zeta']", err.Error())

	_, err = Normalize(Mapping{
		"id":            "a",
		"values":        []float32{1},
		"sparse_values": map[string]any{"indices": []int{1}, "values": []float32{1}, "extra": true},
	}, 0)
	require.ErrorAs(t, err, &ek)
	assert.Equal(t, []string{"sparse_values: extra"}, ek.Keys)
}

func TestNormalize_MetadataError(t *testing.T) {
	_, err := Normalize(Mapping{
		"id":       "a",
		"values":   []float32{1},
		"metadata": map[string]any{"bad": nil},
	}, 6)

	var me *MetadataError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, 6, me.Position)
	assert.True(t, metadata.IsUnsupportedTypeError(err))
	assert.ErrorIs(t, err, ErrInvalidRecord)

	var ke *metadata.KeyError
	require.ErrorAs(t, err, &ke)
	assert.Equal(t, "bad", ke.Key)
}

func TestNormalize_TypedMetadataRejectsNil(t *testing.T) {
	tests := []struct {
		name string
		in   UpsertRecord
		key  string
	}{
		{"triple leaf", Triple{ID: "a", Values: []float32{1}, Metadata: metadata.Map{"k": nil}}, "k"},
		{"vector list item", Vector{ID: "a", Metadata: metadata.Map{"tags": metadata.List{metadata.String("x"), nil}}}, "tags"},
		{"vector pointer nested map", &Vector{ID: "a", Metadata: metadata.Map{"m": metadata.Map{"inner": nil}}}, "m: inner"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.in, 4)

			var me *MetadataError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, 4, me.Position)
			assert.ErrorIs(t, err, ErrInvalidRecord)

			var ke *metadata.KeyError
			require.ErrorAs(t, err, &ke)
			assert.Equal(t, tt.key, ke.Key)
		})
	}
}

func TestNormalize_TypedMetadataSurvivesWire(t *testing.T) {
	md := metadata.Map{
		"genre": metadata.String("drama"),
		"tags":  metadata.List{metadata.String("a"), metadata.Number(1)},
	}

	got, err := Normalize(Triple{ID: "a", Values: []float32{1}, Metadata: md}, 0)
	require.NoError(t, err)

	raw, err := metadata.Marshal(got.Metadata)
	require.NoError(t, err)
	back, err := metadata.Unmarshal(raw)
	require.NoError(t, err)
	assert.Equal(t, md, back)
}

func TestNormalize_Unsupported(t *testing.T) {
	_, err := Normalize(Unsupported{Value: 42}, 9)
	var ur *UnsupportedRecordError
	require.ErrorAs(t, err, &ur)
	assert.Equal(t, 9, ur.Position)
	assert.Contains(t, err.Error(), "Found unexpected value: 42.")
	assert.Contains(t, err.Error(), "Allowed types are:")

	_, err = Normalize((*Vector)(nil), 0)
	require.ErrorAs(t, err, &ur)

	_, err = Normalize(nil, 0)
	require.ErrorAs(t, err, &ur)
	assert.Contains(t, err.Error(), "None")
}

func TestClassify(t *testing.T) {
	v := Vector{ID: "a"}

	assert.Equal(t, v, Classify(v))
	assert.Equal(t, v, Classify(&v))
	assert.Equal(t, Pair{ID: "b"}, Classify(Pair{ID: "b"}))
	assert.Equal(t, Mapping{"id": "c"}, Classify(map[string]any{"id": "c"}))
	assert.Equal(t, Unsupported{Value: "x"}, Classify("x"))
	assert.Equal(t, Unsupported{Value: (*Vector)(nil)}, Classify((*Vector)(nil)))

	all := ClassifyAll([]any{v, 3})
	assert.Equal(t, []UpsertRecord{v, Unsupported{Value: 3}}, all)
}

func TestPositionAndKind(t *testing.T) {
	_, err := Normalize(Mapping{"id": "a"}, 11)
	pos, ok := Position(err)
	assert.True(t, ok)
	assert.Equal(t, 11, pos)
	assert.Equal(t, "missing_key", Kind(err))
	assert.True(t, IsValidationError(err))

	_, ok = Position(assert.AnError)
	assert.False(t, ok)
	assert.Equal(t, "other", Kind(assert.AnError))
}
