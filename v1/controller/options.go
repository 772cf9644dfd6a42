package controller

import (
	"net/http"

	"github.com/pinecone-io/pinecone-client/v1/pinecone"
)

// Option customizes a Client or Dialer.
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     pinecone.Logger
}

// WithHTTPClient replaces the default client and its DefaultHTTPTimeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithLogger logs every request at debug level.
func WithLogger(l pinecone.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
