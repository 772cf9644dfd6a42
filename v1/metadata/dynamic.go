package metadata

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"google.golang.org/protobuf/types/known/structpb"
)

// FromAny decodes a dynamic Go value into a metadata tree.
//
// Accepted inputs are strings, bools, every integer and float kind,
// json.Number, slices and arrays of accepted values, maps keyed by string,
// Values themselves and *structpb.Value. nil is rejected with type "None";
// anything else is rejected with its Go type name.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, &ValueError{ValType: "None"}
	case Value:
		return fromValue(val)
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case float64:
		return Number(val), nil
	case float32:
		return Number(val), nil
	case int:
		return Number(val), nil
	case int8:
		return Number(val), nil
	case int16:
		return Number(val), nil
	case int32:
		return Number(val), nil
	case int64:
		return Number(val), nil
	case uint:
		return Number(val), nil
	case uint8:
		return Number(val), nil
	case uint16:
		return Number(val), nil
	case uint32:
		return Number(val), nil
	case uint64:
		return Number(val), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil, &ValueError{ValType: "json.Number(" + val.String() + ")"}
		}
		return Number(f), nil
	case *structpb.Value:
		return FromWire(val)
	case *structpb.Struct:
		return StructToMap(val)
	case []any:
		return listFromAny(len(val), func(i int) any { return val[i] })
	case map[string]any:
		return mapFromAny(val)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return listFromAny(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			m := make(map[string]any, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				m[iter.Key().String()] = iter.Value().Interface()
			}
			return mapFromAny(m)
		}
	}

	return nil, &ValueError{ValType: fmt.Sprintf("%T", v)}
}

// IsMap reports whether v can be decoded by MapFromAny.
func IsMap(v any) bool {
	switch v.(type) {
	case nil:
		return false
	case Map, map[string]any, *structpb.Struct:
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String
}

// MapFromAny decodes a dynamic top-level map. Errors carry the key path.
// A value that is not a map fails with a ValueError naming its type.
func MapFromAny(v any) (Map, error) {
	if !IsMap(v) {
		return nil, &ValueError{ValType: fmt.Sprintf("%T", v)}
	}

	if s, ok := v.(*structpb.Struct); ok {
		return StructToMap(s)
	}

	raw, ok := v.(map[string]any)
	if !ok {
		if m, isMap := v.(Map); isMap {
			raw = make(map[string]any, len(m))
			for k, item := range m {
				raw[k] = item
			}
		} else {
			rv := reflect.ValueOf(v)
			raw = make(map[string]any, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				raw[iter.Key().String()] = iter.Value().Interface()
			}
		}
	}

	out := make(Map, len(raw))
	for _, k := range sortedKeys(raw) {
		decoded, err := FromAny(raw[k])
		if err != nil {
			return nil, atKey(k, err)
		}
		out[k] = decoded
	}
	return out, nil
}

// fromValue walks an already typed tree so nested nils are caught.
func fromValue(v Value) (Value, error) {
	switch val := v.(type) {
	case List:
		return listFromAny(len(val), func(i int) any { return val[i] })
	case Map:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[k] = item
		}
		return mapFromAny(m)
	default:
		return v, nil
	}
}

func listFromAny(n int, at func(int) any) (Value, error) {
	list := make(List, n)
	for i := 0; i < n; i++ {
		decoded, err := FromAny(at(i))
		if err != nil {
			return nil, inList(err)
		}
		list[i] = decoded
	}
	return list, nil
}

func mapFromAny(raw map[string]any) (Value, error) {
	m := make(Map, len(raw))
	for _, k := range sortedKeys(raw) {
		decoded, err := FromAny(raw[k])
		if err != nil {
			return nil, inDict(k, err)
		}
		m[k] = decoded
	}
	return m, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
