package records

import (
	"github.com/pinecone-io/pinecone-client/v1/metadata"
)

// SparseValues holds the non-zero entries of a sparse vector.
type SparseValues struct {
	Indices []uint32 `json:"indices"`
	Values  []float32 `json:"values"`
}

// Vector is the canonical, store-ready record.
type Vector struct {
	ID           string        `json:"id"`
	Values       []float32     `json:"values"`
	SparseValues *SparseValues `json:"sparse_values,omitempty"`
	Metadata     metadata.Map  `json:"metadata,omitempty"`
}

// UpsertRecord is one element of an upsert batch. The implementations are
// Vector, Pair, Triple, Mapping and Unsupported.
type UpsertRecord interface {
	isUpsertRecord()
}

// Pair is an (id, values) tuple.
type Pair struct {
	ID     string
	Values []float32
}

// Triple is an (id, values, metadata) tuple.
type Triple struct {
	ID       string
	Values   []float32
	Metadata metadata.Map
}

// Mapping is a keyed record. Recognized keys are id, values, sparse_values
// and metadata.
type Mapping map[string]any

// Unsupported wraps input of any other shape. It never normalizes.
type Unsupported struct {
	Value any
}

func (Vector) isUpsertRecord()      {}
func (Pair) isUpsertRecord()        {}
func (Triple) isUpsertRecord()      {}
func (Mapping) isUpsertRecord()     {}
func (Unsupported) isUpsertRecord() {}

// Classify assigns a dynamic value to its record shape.
func Classify(v any) UpsertRecord {
	switch rec := v.(type) {
	case *Vector:
		if rec != nil {
			return *rec
		}
	case UpsertRecord:
		return rec
	case map[string]any:
		return Mapping(rec)
	}
	return Unsupported{Value: v}
}

// ClassifyAll applies Classify to every element.
func ClassifyAll(values []any) []UpsertRecord {
	out := make([]UpsertRecord, len(values))
	for i, v := range values {
		out[i] = Classify(v)
	}
	return out
}
