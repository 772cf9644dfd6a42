package metadata

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

var deterministic = proto.MarshalOptions{Deterministic: true}

// Marshal serializes m as a protobuf Struct. Map entries are written in key
// order, so equal maps produce equal bytes.
func Marshal(m Map) ([]byte, error) {
	b, err := deterministic.Marshal(MapToStruct(m))
	if err != nil {
		return nil, fmt.Errorf("metadata: marshal: %w", err)
	}
	return b, nil
}

// Unmarshal parses bytes produced by Marshal.
func Unmarshal(b []byte) (Map, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("metadata: unmarshal: %w", err)
	}
	return StructToMap(&s)
}
