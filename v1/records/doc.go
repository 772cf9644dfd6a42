// Package records turns loosely typed upsert input into canonical vectors.
//
// Callers may hand over any of five shapes, all implementing UpsertRecord:
//
//	records.Vector{ID: "a", Values: []float32{1, 2}}             // canonical
//	records.Pair{ID: "b", Values: []float32{1, 2}}               // (id, values)
//	records.Triple{ID: "c", Values: v, Metadata: m}              // (id, values, metadata)
//	records.Mapping{"id": "d", "values": []any{1.0, 2.0}}         // keyed mapping
//	records.Unsupported{Value: 42}                               // always rejected
//
// Classify sorts dynamic input, such as the result of decoding JSON, into
// these shapes.
//
// Normalize validates a single record at a given batch position. Mappings are
// checked in a fixed order: unexpected keys first (reported alone), then the
// required "id" and "values" fields, then the optional "sparse_values" and
// "metadata" fields. Sparse index/value length parity is left to the store.
//
// NormalizeBatch stops at the first invalid record. NormalizeBatchConcurrent
// spreads the work over a bounded worker pool and still reports the failure
// with the lowest position.
//
// Every validation error matches ErrInvalidRecord with errors.Is and carries
// the record position in its message:
//
//	Error in vector number 3: Missing key 'id'
package records
