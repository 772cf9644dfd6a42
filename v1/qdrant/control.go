package qdrant

import (
	"context"
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pinecone-io/pinecone-client/v1/metadata"
	"github.com/pinecone-io/pinecone-client/v1/pinecone"
)

// Collection metadata keys that carry index settings Qdrant does not model.
const (
	metaMetric  = "metric"
	metaPodType = "pod_type"
	metaPods    = "pods"
	metaIndexed = "indexed"
)

// CreateIndex creates a collection with a named dense vector and a named
// sparse vector, then indexes the namespace field so every data-plane
// filter can use it.
func (b *Backend) CreateIndex(ctx context.Context, spec pinecone.IndexSpec) error {
	if spec.SourceCollection != "" {
		return fmt.Errorf("[Qdrant] creating an index from a collection: %w", pinecone.ErrUnsupported)
	}
	distance, ok := toDistance(spec.Metric)
	if !ok {
		return &pinecone.ArgumentError{Name: "metric", Msg: fmt.Sprintf("unsupported metric %q", spec.Metric)}
	}
	if spec.Dimension < 1 {
		return &pinecone.ArgumentError{Name: "dimension", Msg: "dimension must be greater than 0"}
	}

	exists, err := b.api.CollectionExists(ctx, spec.Name)
	if err != nil {
		return b.wrap("check collection existence", err)
	}
	if exists {
		return fmt.Errorf("[Qdrant] index %s already exists", spec.Name)
	}

	err = b.api.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: spec.Name,
		VectorsConfig: qdrant.NewVectorsConfigMap(map[string]*qdrant.VectorParams{
			denseVectorName: {Size: uint64(spec.Dimension), Distance: distance},
		}),
		SparseVectorsConfig: qdrant.NewSparseVectorsConfig(map[string]*qdrant.SparseVectorParams{
			sparseVectorName: {},
		}),
		ReplicationFactor: uint32Ptr(spec.Replicas),
		ShardNumber:       uint32Ptr(spec.Shards),
		Metadata:          specMetadata(spec),
	})
	if err != nil {
		return b.wrap("create collection", err)
	}

	_, err = b.api.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: spec.Name,
		Wait:           qdrant.PtrOf(true),
		FieldName:      namespaceField,
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
	})
	if err != nil {
		return b.wrap("index namespace field", err)
	}

	b.logger.Info("[Qdrant] collection created", nil, map[string]interface{}{
		"collection": spec.Name,
		"dimension":  spec.Dimension,
		"distance":   distance.String(),
	})
	return nil
}

func specMetadata(spec pinecone.IndexSpec) map[string]*qdrant.Value {
	md := metadata.Map{}
	if spec.Metric != "" {
		md[metaMetric] = metadata.String(spec.Metric)
	}
	if spec.PodType != "" {
		md[metaPodType] = metadata.String(spec.PodType)
	}
	if spec.Pods != nil {
		md[metaPods] = metadata.Number(*spec.Pods)
	}
	if indexed := spec.MetadataConfig[metaIndexed]; len(indexed) > 0 {
		list := make(metadata.List, len(indexed))
		for i, f := range indexed {
			list[i] = metadata.String(f)
		}
		md[metaIndexed] = list
	}
	if len(md) == 0 {
		return nil
	}
	return toFields(md)
}

func (b *Backend) DeleteIndex(ctx context.Context, name string) error {
	if err := b.api.DeleteCollection(ctx, name); err != nil {
		return b.wrap("delete collection", err)
	}
	return nil
}

// DescribeIndex reads the collection configuration. Settings Qdrant does not
// model come back from the collection metadata written by CreateIndex.
func (b *Backend) DescribeIndex(ctx context.Context, name string) (pinecone.IndexDescription, error) {
	info, err := b.api.GetCollectionInfo(ctx, name)
	if err != nil {
		return pinecone.IndexDescription{}, b.wrap("get collection info", err)
	}

	dim, distance := extractVectorDetails(info)
	params := info.GetConfig().GetParams()
	md := collectionMetadata(info.GetConfig().GetMetadata())

	desc := pinecone.IndexDescription{
		Name:      name,
		Dimension: int32(dim),
		Metric:    fromDistance(distance),
		Status:    toStatus(info.GetStatus()),
	}
	if params != nil {
		shards := int32(params.GetShardNumber())
		desc.Shards = &shards
		desc.Replicas = int32Ptr(params.ReplicationFactor)
	}
	if m, ok := md[metaMetric].(metadata.String); ok {
		desc.Metric = string(m)
	}
	if p, ok := md[metaPodType].(metadata.String); ok {
		desc.PodType = string(p)
	}
	if n, ok := md[metaPods].(metadata.Number); ok {
		pods := int32(n)
		desc.Pods = &pods
	}
	if list, ok := md[metaIndexed].(metadata.List); ok {
		fields := make([]string, 0, len(list))
		for _, v := range list {
			if s, ok := v.(metadata.String); ok {
				fields = append(fields, string(s))
			}
		}
		desc.MetadataConfig = map[string][]string{metaIndexed: fields}
	}
	return desc, nil
}

func (b *Backend) ListIndexes(ctx context.Context) ([]string, error) {
	names, err := b.api.ListCollections(ctx)
	if err != nil {
		return nil, b.wrap("list collections", err)
	}
	return names, nil
}

// ConfigureIndex changes the replication factor. The pod type has no Qdrant
// counterpart and is only recorded in the collection metadata.
func (b *Backend) ConfigureIndex(ctx context.Context, name string, req pinecone.ConfigureRequest) error {
	update := &qdrant.UpdateCollection{CollectionName: name}
	if req.Replicas != nil {
		update.Params = &qdrant.CollectionParamsDiff{ReplicationFactor: uint32Ptr(req.Replicas)}
	}
	if req.PodType != nil {
		update.Metadata = map[string]*qdrant.Value{metaPodType: qdrant.NewValueString(*req.PodType)}
	}

	if err := b.api.UpdateCollection(ctx, update); err != nil {
		return b.wrap("update collection", err)
	}
	return nil
}

// Collections map to Qdrant snapshots, which live outside the gRPC points
// API; they are not modelled.

func (b *Backend) CreateCollection(context.Context, string, string) error {
	return unsupported("create collection")
}

func (b *Backend) DescribeCollection(context.Context, string) (pinecone.CollectionDescription, error) {
	return pinecone.CollectionDescription{}, unsupported("describe collection")
}

func (b *Backend) ListCollections(context.Context) ([]string, error) {
	return nil, unsupported("list collections")
}

func (b *Backend) DeleteCollection(context.Context, string) error {
	return unsupported("delete collection")
}

// Whoami reports the configured project; Qdrant has no notion of one.
func (b *Backend) Whoami(context.Context) (pinecone.Whoami, error) {
	return pinecone.Whoami{ProjectName: b.cfg.Project, UserLabel: "qdrant"}, nil
}

func unsupported(op string) error {
	return fmt.Errorf("[Qdrant] %s: %w", op, pinecone.ErrUnsupported)
}

// wrap turns unavailable-server errors into connection errors and prefixes
// everything else.
func (b *Backend) wrap(op string, err error) error {
	if status.Code(err) == codes.Unavailable {
		return b.connectionError(err)
	}
	return fmt.Errorf("[Qdrant] failed to %s: %w", op, err)
}
