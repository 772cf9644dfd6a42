// Package pinecone is the client facade: index and collection management
// with bounded lifecycle waits, and per-index data-plane access.
//
// A Client sits on two pluggable backends. ControlPlane manages indexes and
// collections; Dialer opens a DataPlane for one index. The controller
// package talks to the hosted REST service, the qdrant package maps the same
// calls onto a self-hosted Qdrant.
//
//	cfg := pinecone.NewConfig()
//	client, err := pinecone.NewClient(pinecone.ClientParams{
//	    Config:       cfg,
//	    ControlPlane: controller.New(cfg),
//	    Dialer:       controller.NewDialer(cfg),
//	})
//
//	err = client.CreateIndex(ctx, pinecone.IndexSpec{Name: "docs", Dimension: 768})
//
// CreateIndex and DeleteIndex block until the index is Ready or gone,
// checking every five seconds. WithTimeout bounds the wait; WithoutWaiting
// returns right after the call. A wait that runs out yields a *TimeoutError,
// a cancelled context an *InterruptedError. Neither undoes the operation.
//
// Index.Upsert accepts every record shape of the records package. The whole
// batch is validated before anything is sent, so an invalid record leaves
// the index untouched.
package pinecone
