package metadata

import "sort"

// Value is a node of a metadata tree. The set of implementations is closed:
// String, Bool, Number, List and Map.
type Value interface {
	isValue()
}

// String is a text leaf.
type String string

// Bool is a boolean leaf.
type Bool bool

// Number is a numeric leaf. All numbers travel as float64 on the wire.
type Number float64

// List is an ordered sequence of values.
type List []Value

// Map is a set of uniquely keyed values. Key order carries no meaning.
type Map map[string]Value

func (String) isValue() {}
func (Bool) isValue()   {}
func (Number) isValue() {}
func (List) isValue()   {}
func (Map) isValue()    {}

// Keys returns the map keys in ascending order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ToAny converts the map into plain Go values.
func (m Map) ToAny() map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = ToAny(v)
	}
	return out
}

// ToAny converts a value into plain Go values: string, bool, float64,
// []any and map[string]any. A nil Value yields nil.
func ToAny(v Value) any {
	switch val := v.(type) {
	case String:
		return string(val)
	case Bool:
		return bool(val)
	case Number:
		return float64(val)
	case List:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = ToAny(item)
		}
		return items
	case Map:
		return val.ToAny()
	default:
		return nil
	}
}
