package metadata

import (
	"sort"

	"google.golang.org/protobuf/types/known/structpb"
)

// ToWire encodes v as a protobuf value. List order and map keys are kept.
// A nil Value encodes to the wire null.
func ToWire(v Value) *structpb.Value {
	switch val := v.(type) {
	case String:
		return structpb.NewStringValue(string(val))
	case Bool:
		return structpb.NewBoolValue(bool(val))
	case Number:
		return structpb.NewNumberValue(float64(val))
	case List:
		items := make([]*structpb.Value, len(val))
		for i, item := range val {
			items[i] = ToWire(item)
		}
		return structpb.NewListValue(&structpb.ListValue{Values: items})
	case Map:
		return structpb.NewStructValue(MapToStruct(val))
	default:
		return structpb.NewNullValue()
	}
}

// MapToStruct encodes a top-level metadata map.
func MapToStruct(m Map) *structpb.Struct {
	fields := make(map[string]*structpb.Value, len(m))
	for k, v := range m {
		fields[k] = ToWire(v)
	}
	return &structpb.Struct{Fields: fields}
}

// FromWire decodes a protobuf value. The wire null is rejected with type
// "None" and a value without a kind with type "empty".
func FromWire(v *structpb.Value) (Value, error) {
	if v == nil {
		return nil, &ValueError{ValType: "empty"}
	}

	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return String(kind.StringValue), nil
	case *structpb.Value_BoolValue:
		return Bool(kind.BoolValue), nil
	case *structpb.Value_NumberValue:
		return Number(kind.NumberValue), nil
	case *structpb.Value_NullValue:
		return nil, &ValueError{ValType: "None"}
	case *structpb.Value_ListValue:
		values := kind.ListValue.GetValues()
		list := make(List, len(values))
		for i, item := range values {
			decoded, err := FromWire(item)
			if err != nil {
				return nil, inList(err)
			}
			list[i] = decoded
		}
		return list, nil
	case *structpb.Value_StructValue:
		fields := kind.StructValue.GetFields()
		m := make(Map, len(fields))
		for _, k := range sortedFields(fields) {
			decoded, err := FromWire(fields[k])
			if err != nil {
				return nil, inDict(k, err)
			}
			m[k] = decoded
		}
		return m, nil
	default:
		return nil, &ValueError{ValType: "empty"}
	}
}

// StructToMap decodes a top-level struct. Errors name the offending key.
func StructToMap(s *structpb.Struct) (Map, error) {
	fields := s.GetFields()
	m := make(Map, len(fields))
	for _, k := range sortedFields(fields) {
		decoded, err := FromWire(fields[k])
		if err != nil {
			return nil, atKey(k, err)
		}
		m[k] = decoded
	}
	return m, nil
}

// sortedFields fixes the decode order so the first reported error is stable.
func sortedFields(fields map[string]*structpb.Value) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
