package controller

import (
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/pinecone-io/pinecone-client/v1/filter"
	"github.com/pinecone-io/pinecone-client/v1/metadata"
	"github.com/pinecone-io/pinecone-client/v1/pinecone"
	"github.com/pinecone-io/pinecone-client/v1/records"
)

// Control plane bodies.

type patchRequest struct {
	Replicas *int32  `json:"replicas,omitempty"`
	PodType  *string `json:"pod_type,omitempty"`
}

type createCollectionRequest struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

type databaseBody struct {
	Name             *string             `json:"name"`
	Dimension        *int32              `json:"dimension"`
	Metric           string              `json:"metric"`
	Replicas         *int32              `json:"replicas"`
	Shards           *int32              `json:"shards"`
	Pods             *int32              `json:"pods"`
	PodType          string              `json:"pod_type"`
	SourceCollection string              `json:"source_collection"`
	MetadataConfig   map[string][]string `json:"metadata_config"`
}

type describeIndexResponse struct {
	Database *databaseBody `json:"database"`
	Status   *struct {
		Ready bool   `json:"ready"`
		State string `json:"state"`
	} `json:"status"`
}

type collectionBody struct {
	Name        string `json:"name"`
	Source      string `json:"source"`
	VectorCount *int64 `json:"vector_count"`
	Size        *int64 `json:"size"`
	Status      string `json:"status"`
}

func (r describeIndexResponse) toDescription() (pinecone.IndexDescription, error) {
	db := r.Database
	if db == nil || db.Name == nil || db.Dimension == nil {
		return pinecone.IndexDescription{}, parseError("describe index", errMissingFields)
	}
	out := pinecone.IndexDescription{
		Name:             *db.Name,
		Dimension:        *db.Dimension,
		Metric:           db.Metric,
		Replicas:         db.Replicas,
		Shards:           db.Shards,
		Pods:             db.Pods,
		PodType:          db.PodType,
		SourceCollection: db.SourceCollection,
		MetadataConfig:   db.MetadataConfig,
	}
	if r.Status != nil {
		out.Status = r.Status.State
	}
	return out, nil
}

// Data plane bodies. Field names follow the index REST API.

type sparseBody struct {
	Indices []uint32  `json:"indices"`
	Values  []float32 `json:"values"`
}

type vectorBody struct {
	ID           string          `json:"id"`
	Values       []float32       `json:"values,omitempty"`
	SparseValues *sparseBody     `json:"sparseValues,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
}

type upsertRequest struct {
	Vectors   []vectorBody `json:"vectors"`
	Namespace string       `json:"namespace,omitempty"`
}

type upsertResponse struct {
	UpsertedCount uint32 `json:"upsertedCount"`
}

type queryRequest struct {
	Namespace       string          `json:"namespace,omitempty"`
	TopK            int             `json:"topK"`
	Vector          []float32       `json:"vector,omitempty"`
	SparseVector    *sparseBody     `json:"sparseVector,omitempty"`
	ID              string          `json:"id,omitempty"`
	Filter          json.RawMessage `json:"filter,omitempty"`
	IncludeValues   bool            `json:"includeValues"`
	IncludeMetadata bool            `json:"includeMetadata"`
}

type matchBody struct {
	vectorBody
	Score float32 `json:"score"`
}

type queryResponse struct {
	Matches []matchBody `json:"matches"`
}

type fetchResponse struct {
	Vectors map[string]vectorBody `json:"vectors"`
}

type updateRequest struct {
	ID           string          `json:"id"`
	Values       []float32       `json:"values,omitempty"`
	SparseValues *sparseBody     `json:"sparseValues,omitempty"`
	SetMetadata  json.RawMessage `json:"setMetadata,omitempty"`
	Namespace    string          `json:"namespace,omitempty"`
}

type deleteRequest struct {
	IDs       []string        `json:"ids,omitempty"`
	DeleteAll bool            `json:"deleteAll,omitempty"`
	Namespace string          `json:"namespace,omitempty"`
	Filter    json.RawMessage `json:"filter,omitempty"`
}

type statsRequest struct {
	Filter json.RawMessage `json:"filter,omitempty"`
}

type statsResponse struct {
	Namespaces map[string]struct {
		VectorCount uint32 `json:"vectorCount"`
	} `json:"namespaces"`
	Dimension        uint32  `json:"dimension"`
	IndexFullness    float32 `json:"indexFullness"`
	TotalVectorCount uint32  `json:"totalVectorCount"`
}

// encodeMap writes a metadata map as a JSON object through its protobuf
// Struct form. A nil map encodes to nothing.
func encodeMap(m metadata.Map) (json.RawMessage, error) {
	if m == nil {
		return nil, nil
	}
	return protojson.Marshal(metadata.MapToStruct(m))
}

func decodeMap(raw json.RawMessage) (metadata.Map, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var s structpb.Struct
	if err := protojson.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return metadata.StructToMap(&s)
}

func encodeFilter(e filter.Expr) (json.RawMessage, error) {
	return encodeMap(filter.Render(e))
}

func toSparseBody(s *records.SparseValues) *sparseBody {
	if s == nil {
		return nil
	}
	return &sparseBody{Indices: s.Indices, Values: s.Values}
}

func fromSparseBody(s *sparseBody) *records.SparseValues {
	if s == nil {
		return nil
	}
	return &records.SparseValues{Indices: s.Indices, Values: s.Values}
}

func toVectorBody(v records.Vector) (vectorBody, error) {
	md, err := encodeMap(v.Metadata)
	if err != nil {
		return vectorBody{}, err
	}
	return vectorBody{
		ID:           v.ID,
		Values:       v.Values,
		SparseValues: toSparseBody(v.SparseValues),
		Metadata:     md,
	}, nil
}

func (b vectorBody) toVector() (records.Vector, error) {
	md, err := decodeMap(b.Metadata)
	if err != nil {
		return records.Vector{}, parseError("metadata of "+b.ID, err)
	}
	return records.Vector{
		ID:           b.ID,
		Values:       b.Values,
		SparseValues: fromSparseBody(b.SparseValues),
		Metadata:     md,
	}, nil
}
