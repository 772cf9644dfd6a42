// Package controller talks to the hosted service over REST.
//
// Client implements pinecone.ControlPlane against the regional controller
// (/databases, /collections, /actions/whoami). Dialer and DataPlane
// implement the per-index data plane (/vectors/upsert, /query, ...).
//
// Every request carries the Api-Key and User-Agent headers. A non-2xx
// response is an *OperationError holding the status code and body. A
// request that never reached the server is a *pinecone.ConnectionError. A
// 2xx body that does not decode wraps ErrParse.
//
//	cfg := pinecone.NewConfig()
//	client, err := pinecone.NewClient(pinecone.ClientParams{
//	    Config:       cfg,
//	    ControlPlane: controller.New(cfg),
//	    Dialer:       controller.NewDialer(cfg),
//	})
package controller
