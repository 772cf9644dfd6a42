package pinecone

import (
	"github.com/pinecone-io/pinecone-client/v1/filter"
	"github.com/pinecone-io/pinecone-client/v1/metadata"
	"github.com/pinecone-io/pinecone-client/v1/records"
)

// Metric names accepted by CreateIndex.
const (
	MetricCosine     = "cosine"
	MetricEuclidean  = "euclidean"
	MetricDotProduct = "dotproduct"
)

// StatusReady is the index status that ends a CreateIndex wait.
const StatusReady = "Ready"

// IndexSpec describes an index to create.
type IndexSpec struct {
	Name      string `json:"name"`
	Dimension int32  `json:"dimension"`
	Metric    string `json:"metric,omitempty"`

	Replicas *int32 `json:"replicas,omitempty"`
	Shards   *int32 `json:"shards,omitempty"`
	Pods     *int32 `json:"pods,omitempty"`
	PodType  string `json:"pod_type,omitempty"`

	// MetadataConfig restricts which metadata fields are indexed,
	// e.g. {"indexed": ["genre"]}.
	MetadataConfig map[string][]string `json:"metadata_config,omitempty"`

	SourceCollection string `json:"source_collection,omitempty"`
}

// IndexDescription is the control plane's view of an index.
type IndexDescription struct {
	Name             string
	Dimension        int32
	Metric           string
	Replicas         *int32
	Shards           *int32
	Pods             *int32
	PodType          string
	SourceCollection string
	MetadataConfig   map[string][]string
	Status           string
}

// ConfigureRequest changes a running index. At least one field must be set.
type ConfigureRequest struct {
	Replicas *int32
	PodType  *string
}

// CollectionDescription describes a static copy of an index.
type CollectionDescription struct {
	Name        string
	Source      string
	VectorCount *int64
	Size        *int64
	Status      string
}

// Whoami identifies the project an API key belongs to.
type Whoami struct {
	ProjectName string `json:"project_name"`
	UserLabel   string `json:"user_label"`
	UserName    string `json:"user_name"`
}

// UpsertResponse reports how many vectors were written.
type UpsertResponse struct {
	UpsertedCount uint32
}

// QueryRequest searches a namespace. Exactly one of ID or the query vector
// (Values and/or SparseValues) is used.
type QueryRequest struct {
	Namespace    string
	TopK         int
	Values       []float32
	SparseValues *records.SparseValues
	ID           string
	Filter       filter.Expr

	IncludeValues   bool
	IncludeMetadata bool
}

// QueryByIDRequest searches for neighbours of a stored vector.
type QueryByIDRequest struct {
	Namespace string
	ID        string
	TopK      int
	Filter    filter.Expr

	IncludeValues   bool
	IncludeMetadata bool
}

// ScoredVector is one query match.
type ScoredVector struct {
	ID           string
	Score        float32
	Values       []float32
	SparseValues *records.SparseValues
	Metadata     metadata.Map
}

// UpdateRequest changes the values or metadata of one stored vector.
// SetMetadata is merged into the existing metadata.
type UpdateRequest struct {
	Namespace    string
	ID           string
	Values       []float32
	SparseValues *records.SparseValues
	SetMetadata  metadata.Map
}

// DeleteRequest selects vectors to delete by ids, by filter, or all of a
// namespace.
type DeleteRequest struct {
	Namespace string
	IDs       []string
	Filter    filter.Expr
	DeleteAll bool
}

// NamespaceStats holds per-namespace counts.
type NamespaceStats struct {
	VectorCount uint32
}

// IndexStats summarises index contents.
type IndexStats struct {
	Namespaces       map[string]NamespaceStats
	Dimension        uint32
	IndexFullness    float32
	TotalVectorCount uint32
}
