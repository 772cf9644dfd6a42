package records

import (
	"encoding/json"
	"math"
	"reflect"
	"sort"

	"github.com/pinecone-io/pinecone-client/v1/metadata"
)

const (
	keyID           = "id"
	keyValues       = "values"
	keySparseValues = "sparse_values"
	keyMetadata     = "metadata"
	keyIndices      = "indices"
)

// Expected-type labels used in WrongTypeError.
const (
	ExpectString     = "String"
	ExpectFloatList  = "List[float]"
	ExpectIntList    = "List[int]"
	ExpectDictionary = "dict"
)

var (
	vectorKeys = map[string]struct{}{keyID: {}, keyValues: {}, keySparseValues: {}, keyMetadata: {}}
	sparseKeys = map[string]struct{}{keyIndices: {}, keyValues: {}}
)

// Normalize converts one record into a canonical Vector. position is the
// record's index in its batch and is reported in every error.
func Normalize(rec UpsertRecord, position int) (Vector, error) {
	switch r := rec.(type) {
	case Vector:
		return withMetadata(r, r.Metadata, position)
	case *Vector:
		if r != nil {
			return withMetadata(*r, r.Metadata, position)
		}
		return Vector{}, &UnsupportedRecordError{Position: position}
	case Pair:
		return Vector{ID: r.ID, Values: r.Values}, nil
	case Triple:
		return withMetadata(Vector{ID: r.ID, Values: r.Values}, r.Metadata, position)
	case Mapping:
		return normalizeMapping(r, position)
	case Unsupported:
		return Vector{}, &UnsupportedRecordError{Position: position, Value: r.Value}
	default:
		return Vector{}, &UnsupportedRecordError{Position: position, Value: rec}
	}
}

// withMetadata sets md on vec after running it through the codec, which
// rejects nil leaves the wire cannot carry back.
func withMetadata(vec Vector, md metadata.Map, position int) (Vector, error) {
	if len(md) == 0 {
		vec.Metadata = md
		return vec, nil
	}
	checked, err := metadata.MapFromAny(md)
	if err != nil {
		return Vector{}, &MetadataError{Position: position, Err: err}
	}
	vec.Metadata = checked
	return vec, nil
}

func normalizeMapping(m Mapping, position int) (Vector, error) {
	if excess := excessKeys(m, vectorKeys); len(excess) > 0 {
		return Vector{}, &ExcessKeysError{Keys: excess, Position: position}
	}

	rawID, ok := m[keyID]
	if !ok {
		return Vector{}, &MissingKeyError{Key: keyID, Position: position}
	}
	id, ok := rawID.(string)
	if !ok {
		return Vector{}, wrongType(keyID, position, ExpectString, rawID)
	}

	rawValues, ok := m[keyValues]
	if !ok {
		return Vector{}, &MissingKeyError{Key: keyValues, Position: position}
	}
	values, ok := toFloat32s(rawValues)
	if !ok {
		return Vector{}, wrongType(keyValues, position, ExpectFloatList, rawValues)
	}

	vec := Vector{ID: id, Values: values}

	if raw, ok := m[keySparseValues]; ok {
		sparse, err := sparseFromAny(raw, position)
		if err != nil {
			return Vector{}, err
		}
		vec.SparseValues = sparse
	}

	if raw, ok := m[keyMetadata]; ok {
		if !metadata.IsMap(raw) {
			return Vector{}, wrongType(keyMetadata, position, ExpectDictionary, raw)
		}
		md, err := metadata.MapFromAny(raw)
		if err != nil {
			return Vector{}, &MetadataError{Position: position, Err: err}
		}
		vec.Metadata = md
	}

	return vec, nil
}

// sparseFromAny accepts SparseValues directly or a mapping restricted to
// indices and values. Length parity is not checked.
func sparseFromAny(raw any, position int) (*SparseValues, error) {
	switch sv := raw.(type) {
	case SparseValues:
		return &sv, nil
	case *SparseValues:
		if sv != nil {
			return sv, nil
		}
	case map[string]any:
		out, err := sparseFromMapping(sv, position)
		if err != nil {
			return nil, underField(keySparseValues, err)
		}
		return out, nil
	case Mapping:
		out, err := sparseFromMapping(sv, position)
		if err != nil {
			return nil, underField(keySparseValues, err)
		}
		return out, nil
	}
	return nil, wrongType(keySparseValues, position, ExpectDictionary, raw)
}

func sparseFromMapping(m map[string]any, position int) (*SparseValues, error) {
	if excess := excessKeys(m, sparseKeys); len(excess) > 0 {
		return nil, &ExcessKeysError{Keys: excess, Position: position}
	}

	rawIndices, ok := m[keyIndices]
	if !ok {
		return nil, &MissingKeyError{Key: keyIndices, Position: position}
	}
	indices, ok := toUint32s(rawIndices)
	if !ok {
		return nil, wrongType(keyIndices, position, ExpectIntList, rawIndices)
	}

	rawValues, ok := m[keyValues]
	if !ok {
		return nil, &MissingKeyError{Key: keyValues, Position: position}
	}
	values, ok := toFloat32s(rawValues)
	if !ok {
		return nil, wrongType(keyValues, position, ExpectFloatList, rawValues)
	}

	return &SparseValues{Indices: indices, Values: values}, nil
}

func wrongType(key string, position int, expected string, actual any) error {
	return &WrongTypeError{Key: key, Position: position, Expected: expected, Actual: render(actual)}
}

func excessKeys(m map[string]any, allowed map[string]struct{}) []string {
	var excess []string
	for k := range m {
		if _, ok := allowed[k]; !ok {
			excess = append(excess, k)
		}
	}
	sort.Strings(excess)
	return excess
}

// toFloat32s accepts any slice or array of numbers. Booleans, strings and
// scalars are rejected.
func toFloat32s(raw any) ([]float32, bool) {
	switch v := raw.(type) {
	case []float32:
		return v, true
	case []float64:
		out := make([]float32, len(v))
		for i, f := range v {
			out[i] = float32(f)
		}
		return out, true
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]float32, rv.Len())
	for i := range out {
		f, ok := asFloat(rv.Index(i).Interface())
		if !ok {
			return nil, false
		}
		out[i] = float32(f)
	}
	return out, true
}

// toUint32s accepts slices of non-negative integers that fit in 32 bits.
// Integral floats are allowed so decoded JSON arrays work; fractions are not.
func toUint32s(raw any) ([]uint32, bool) {
	if v, ok := raw.([]uint32); ok {
		return v, true
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]uint32, rv.Len())
	for i := range out {
		f, ok := asFloat(rv.Index(i).Interface())
		if !ok || f < 0 || f > math.MaxUint32 || f != math.Trunc(f) {
			return nil, false
		}
		out[i] = uint32(f)
	}
	return out, true
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
