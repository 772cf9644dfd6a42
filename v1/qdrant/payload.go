package qdrant

import (
	"sort"

	"github.com/google/uuid"
	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/pinecone-io/pinecone-client/v1/metadata"
	"github.com/pinecone-io/pinecone-client/v1/records"
)

// Named vectors of every collection this backend creates.
const (
	denseVectorName  = "dense"
	sparseVectorName = "sparse"
)

// pointNamespace seeds the deterministic point ids.
var pointNamespace = uuid.MustParse("6f1c1e35-4a5e-4b8e-9d3c-2f64c2f0a7d1")

// PointID maps a record id within a namespace to the Qdrant point id. Qdrant
// only accepts UUIDs and integers, so the id is derived with UUIDv5.
func PointID(namespace, id string) string {
	return uuid.NewSHA1(pointNamespace, []byte(namespace+"\x00"+id)).String()
}

// BuildPayload stores the reserved fields at the top level and user metadata
// under UserPayloadPrefix.
//
// Example:
//
//	BuildPayload("ns", "doc-1", metadata.Map{"genre": metadata.String("drama")})
//	// {"_id": "doc-1", "_namespace": "ns", "custom": {"genre": "drama"}}
func BuildPayload(namespace, id string, md metadata.Map) map[string]*qdrant.Value {
	payload := map[string]*qdrant.Value{
		idField:        qdrant.NewValueString(id),
		namespaceField: qdrant.NewValueString(namespace),
	}
	if len(md) > 0 {
		payload[UserPayloadPrefix] = qdrant.NewValueFromFields(toFields(md))
	}
	return payload
}

// ParsePayload is the inverse of BuildPayload.
func ParsePayload(payload map[string]*qdrant.Value) (id string, md metadata.Map) {
	id = payload[idField].GetStringValue()
	fields := payload[UserPayloadPrefix].GetStructValue().GetFields()
	if len(fields) == 0 {
		return id, nil
	}
	return id, fromFields(fields)
}

func toFields(m metadata.Map) map[string]*qdrant.Value {
	fields := make(map[string]*qdrant.Value, len(m))
	for k, v := range m {
		fields[k] = toValue(v)
	}
	return fields
}

// toValue converts one metadata value. Integral numbers become integers so
// that keyword-style match conditions apply to them.
func toValue(v metadata.Value) *qdrant.Value {
	switch val := v.(type) {
	case metadata.String:
		return qdrant.NewValueString(string(val))
	case metadata.Bool:
		return qdrant.NewValueBool(bool(val))
	case metadata.Number:
		if i, ok := asInt(float64(val)); ok {
			return qdrant.NewValueInt(i)
		}
		return qdrant.NewValueDouble(float64(val))
	case metadata.List:
		items := make([]*qdrant.Value, len(val))
		for i, item := range val {
			items[i] = toValue(item)
		}
		return qdrant.NewValueFromList(items...)
	case metadata.Map:
		return qdrant.NewValueFromFields(toFields(val))
	default:
		return qdrant.NewValueNull()
	}
}

func fromFields(fields map[string]*qdrant.Value) metadata.Map {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := make(metadata.Map, len(fields))
	for _, k := range keys {
		if v, ok := fromValue(fields[k]); ok {
			m[k] = v
		}
	}
	return m
}

// fromValue reports false for nulls, which metadata cannot hold.
func fromValue(v *qdrant.Value) (metadata.Value, bool) {
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return metadata.String(kind.StringValue), true
	case *qdrant.Value_BoolValue:
		return metadata.Bool(kind.BoolValue), true
	case *qdrant.Value_IntegerValue:
		return metadata.Number(kind.IntegerValue), true
	case *qdrant.Value_DoubleValue:
		return metadata.Number(kind.DoubleValue), true
	case *qdrant.Value_ListValue:
		values := kind.ListValue.GetValues()
		list := make(metadata.List, 0, len(values))
		for _, item := range values {
			if val, ok := fromValue(item); ok {
				list = append(list, val)
			}
		}
		return list, true
	case *qdrant.Value_StructValue:
		return fromFields(kind.StructValue.GetFields()), true
	default:
		return nil, false
	}
}

// buildVectors returns the named vectors of a record. Either part may be
// absent.
func buildVectors(values []float32, sparse *records.SparseValues) *qdrant.Vectors {
	named := make(map[string]*qdrant.Vector, 2)
	if len(values) > 0 {
		named[denseVectorName] = qdrant.NewVectorDense(values)
	}
	if sparse != nil {
		named[sparseVectorName] = qdrant.NewVectorSparse(sparse.Indices, sparse.Values)
	}
	return qdrant.NewVectorsMap(named)
}

// readVectors extracts the dense and sparse parts of a stored point.
func readVectors(out *qdrant.VectorsOutput) ([]float32, *records.SparseValues) {
	named := out.GetVectors().GetVectors()
	if len(named) == 0 {
		return nil, nil
	}

	var values []float32
	if dense := named[denseVectorName]; dense != nil {
		if d := dense.GetDense(); d != nil {
			values = d.GetData()
		} else {
			values = dense.GetData()
		}
	}

	var sparse *records.SparseValues
	if sv := named[sparseVectorName]; sv != nil {
		if s := sv.GetSparse(); s != nil {
			sparse = &records.SparseValues{Indices: s.GetIndices(), Values: s.GetValues()}
		} else if idx := sv.GetIndices(); idx != nil {
			// Older servers only fill the deprecated flat fields.
			sparse = &records.SparseValues{Indices: idx.GetData(), Values: sv.GetData()}
		}
	}
	return values, sparse
}

func toRecord(payload map[string]*qdrant.Value, vectors *qdrant.VectorsOutput) records.Vector {
	id, md := ParsePayload(payload)
	values, sparse := readVectors(vectors)
	return records.Vector{ID: id, Values: values, SparseValues: sparse, Metadata: md}
}
