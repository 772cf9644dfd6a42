package metadata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestFromAny_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"string", "x", String("x")},
		{"bool", true, Bool(true)},
		{"int", 7, Number(7)},
		{"int64", int64(-3), Number(-3)},
		{"uint32", uint32(9), Number(9)},
		{"float32", float32(0.5), Number(0.5)},
		{"float64", 1.25, Number(1.25)},
		{"json number", json.Number("12.5"), Number(12.5)},
		{"typed value", String("y"), String("y")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromAny_Collections(t *testing.T) {
	got, err := FromAny(map[string]any{
		"tags":   []string{"a", "b"},
		"scores": []float64{1, 2},
		"inner":  map[string]string{"k": "v"},
		"mixed":  []any{"x", 1, false},
	})
	require.NoError(t, err)

	assert.Equal(t, Map{
		"tags":   List{String("a"), String("b")},
		"scores": List{Number(1), Number(2)},
		"inner":  Map{"k": String("v")},
		"mixed":  List{String("x"), Number(1), Bool(false)},
	}, got)
}

func TestFromAny_JSONDocument(t *testing.T) {
	var doc any
	require.NoError(t, json.Unmarshal([]byte(`{"genre":"action","year":2020,"tags":["a",{"b":true}]}`), &doc))

	got, err := FromAny(doc)
	require.NoError(t, err)
	assert.Equal(t, Map{
		"genre": String("action"),
		"year":  Number(2020),
		"tags":  List{String("a"), Map{"b": Bool(true)}},
	}, got)
}

func TestFromAny_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		valType string
		key     string
	}{
		{"nil", nil, "None", ""},
		{"struct", struct{}{}, "struct {}", ""},
		{"nil in list", []any{1, nil}, "None value in a list", ""},
		{"nil in dict", map[string]any{"a": nil}, "None value in a dict", "a"},
		{"channel in nested dict", map[string]any{"a": map[string]any{"b": make(chan int)}}, "chan int value in a dict value in a dict", "a: b"},
		{"nil typed value in list", List{String("x"), nil}, "None value in a list", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromAny(tt.in)
			require.Error(t, err)
			assert.True(t, IsUnsupportedTypeError(err))

			if tt.key == "" {
				var ve *ValueError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.valType, ve.ValType)
				return
			}
			var ke *KeyError
			require.ErrorAs(t, err, &ke)
			assert.Equal(t, tt.key, ke.Key)
			assert.Equal(t, tt.valType, ke.ValType)
		})
	}
}

func TestMapFromAny(t *testing.T) {
	got, err := MapFromAny(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, Map{"a": Number(1)}, got)

	got, err = MapFromAny(Map{"b": Bool(true)})
	require.NoError(t, err)
	assert.Equal(t, Map{"b": Bool(true)}, got)

	got, err = MapFromAny(MapToStruct(Map{"c": String("z")}))
	require.NoError(t, err)
	assert.Equal(t, Map{"c": String("z")}, got)
}

func TestMapFromAny_TopLevelErrors(t *testing.T) {
	_, err := MapFromAny([]any{1})
	var ve *ValueError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "[]interface {}", ve.ValType)

	_, err = MapFromAny(map[string]any{"x": []any{nil}})
	var ke *KeyError
	require.ErrorAs(t, err, &ke)
	assert.Equal(t, "x", ke.Key)
	assert.Equal(t, "None value in a list", ke.ValType)
}

func TestIsMap(t *testing.T) {
	assert.True(t, IsMap(map[string]any{}))
	assert.True(t, IsMap(map[string]int{}))
	assert.True(t, IsMap(Map{}))
	assert.True(t, IsMap(&structpb.Struct{}))
	assert.False(t, IsMap(nil))
	assert.False(t, IsMap("x"))
	assert.False(t, IsMap(map[int]string{}))
}

func TestToAny(t *testing.T) {
	m := Map{"a": List{Number(1), String("b")}, "c": Map{"d": Bool(true)}}

	assert.Equal(t, map[string]any{
		"a": []any{1.0, "b"},
		"c": map[string]any{"d": true},
	}, m.ToAny())
	assert.Nil(t, ToAny(nil))
}
