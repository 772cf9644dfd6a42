// Package metadata converts vector metadata between application values and
// the flat protobuf struct used on the wire.
//
// A metadata tree is built from five variants:
//
//	metadata.String("sunny")
//	metadata.Bool(true)
//	metadata.Number(42)
//	metadata.List{metadata.String("a"), metadata.Number(1)}
//	metadata.Map{"genre": metadata.String("drama")}
//
// Every variant implements the sealed Value interface, so a type switch over
// a Value only ever has to handle these five cases.
//
// # Encoding
//
// ToWire is total: every Value has a wire analogue. A nil Value encodes to
// the wire null, which is never accepted on the way back:
//
//	wire := metadata.ToWire(metadata.List{metadata.Number(1), nil})
//	_, err := metadata.FromWire(wire)
//	// err: ... None value in a list
//
// # Decoding
//
// FromWire and StructToMap decode wire values; FromAny and MapFromAny decode
// dynamic Go values such as the output of encoding/json. Errors raised inside
// lists and maps are wrapped once per nesting level so the final message
// names the full path to the offending value:
//
//	_, err := metadata.MapFromAny(map[string]any{
//	    "a": map[string]any{"b": nil},
//	})
//	// err: ... for key "a: b" ... found None value in a dict
//
// Both error types match ErrUnsupportedType with errors.Is.
//
// # Bytes
//
// Marshal and Unmarshal serialize a Map with deterministic protobuf
// marshalling, so equal maps always produce equal bytes.
package metadata
