// Package qdrant runs the vector-store client against a self-hosted Qdrant
// server instead of the hosted service.
//
// A [Backend] implements both pinecone.ControlPlane and pinecone.Dialer, so
// it replaces the controller package wholesale. Every index is one Qdrant
// collection.
//
// # Collection Layout
//
// Collections created by this package carry two named vectors:
//
//   - "dense": the record values, sized to the index dimension
//   - "sparse": the optional sparse values
//
// Point ids are UUIDv5 values derived from namespace and record id (see
// [PointID]), so the same record id may live in several namespaces.
//
// # Payload Structure
//
// Internal fields sit at the top level; user metadata is nested under
// [UserPayloadPrefix]:
//
//	{
//	  "_id": "doc-1",
//	  "_namespace": "ns",
//	  "custom": {"genre": "drama", "year": 2020}
//	}
//
// Filters written against metadata fields are rewritten to the nested paths
// by [Compile], and every data-plane call is scoped to its namespace.
// Integral numbers are stored as integers so equality and $in match them
// exactly.
//
// # Basic Usage
//
//	backend, err := qdrant.NewBackend(qdrant.Params{
//	    Config: qdrant.FromEndpoint("localhost").WithPort(6334),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	client, err := pinecone.NewClient(pinecone.ClientParams{
//	    Config:       pinecone.NewConfig(),
//	    ControlPlane: backend,
//	    Dialer:       backend,
//	})
//
// # FX Module Integration
//
//	app := fx.New(
//	    fx.Provide(pinecone.NewConfig, func() *qdrant.Config { return qdrant.DefaultConfig() }),
//	    qdrant.FXModule,
//	    pinecone.FXModule,
//	)
//
// # Limitations
//
// Collections (static index copies) map to Qdrant snapshots and are not
// modelled; those calls return pinecone.ErrUnsupported. Pod type and pod
// count are recorded in the collection metadata only.
package qdrant
