package qdrant

import (
	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/pinecone-io/pinecone-client/v1/metadata"
	"github.com/pinecone-io/pinecone-client/v1/pinecone"
)

// Index states reported by DescribeIndex besides pinecone.StatusReady.
const (
	StatusInitializing = "Initializing"
	StatusFailed       = "Failed"
)

// extractVectorDetails ──────────────────────────────────────────────────────────────
// extractVectorDetails
// ──────────────────────────────────────────────────────────────
//
// extractVectorDetails returns the dimension and distance of the dense
// vector from a `CollectionInfo`. Collections created by this backend use
// named vectors; unnamed single-vector collections are read as well.
//
// If any nested field is missing the function returns (0, UnknownDistance).
func extractVectorDetails(info *qdrant.CollectionInfo) (int, qdrant.Distance) {
	cfg := info.GetConfig().GetParams().GetVectorsConfig()
	if cfg == nil {
		return 0, qdrant.Distance_UnknownDistance
	}

	if params := cfg.GetParams(); params != nil {
		return int(params.GetSize()), params.GetDistance()
	}
	if params := cfg.GetParamsMap().GetMap()[denseVectorName]; params != nil {
		return int(params.GetSize()), params.GetDistance()
	}
	return 0, qdrant.Distance_UnknownDistance
}

// toDistance maps an index metric to a Qdrant distance. An empty metric
// selects cosine.
func toDistance(metric string) (qdrant.Distance, bool) {
	switch metric {
	case "", pinecone.MetricCosine:
		return qdrant.Distance_Cosine, true
	case pinecone.MetricEuclidean:
		return qdrant.Distance_Euclid, true
	case pinecone.MetricDotProduct:
		return qdrant.Distance_Dot, true
	default:
		return qdrant.Distance_UnknownDistance, false
	}
}

func fromDistance(d qdrant.Distance) string {
	switch d {
	case qdrant.Distance_Cosine:
		return pinecone.MetricCosine
	case qdrant.Distance_Euclid:
		return pinecone.MetricEuclidean
	case qdrant.Distance_Dot:
		return pinecone.MetricDotProduct
	default:
		return ""
	}
}

// toStatus maps collection health onto index states: only green is ready.
func toStatus(s qdrant.CollectionStatus) string {
	switch s {
	case qdrant.CollectionStatus_Green:
		return pinecone.StatusReady
	case qdrant.CollectionStatus_Red:
		return StatusFailed
	default:
		return StatusInitializing
	}
}

func uint32Ptr(v *int32) *uint32 {
	if v == nil || *v < 0 {
		return nil
	}
	u := uint32(*v)
	return &u
}

func int32Ptr(v *uint32) *int32 {
	if v == nil {
		return nil
	}
	i := int32(*v)
	return &i
}

// collectionMetadata reads back string and list fields stored with
// CreateCollection.
func collectionMetadata(md map[string]*qdrant.Value) metadata.Map {
	if len(md) == 0 {
		return nil
	}
	return fromFields(md)
}
