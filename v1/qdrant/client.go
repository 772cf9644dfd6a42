package qdrant

import (
	"context"
	"errors"
	"fmt"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"
	"go.uber.org/fx"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pinecone-io/pinecone-client/v1/pinecone"
)

// Backend runs the index and collection lifecycle against a Qdrant server,
// mapping every index onto one collection. It also opens data planes for
// those collections, so a single Backend serves as both pinecone.ControlPlane
// and pinecone.Dialer.
type Backend struct {
	api    *qdrant.Client
	cfg    *Config
	port   int
	logger pinecone.Logger
}

var (
	_ pinecone.ControlPlane = (*Backend)(nil)
	_ pinecone.Dialer       = (*Backend)(nil)
)

// Params are the dependencies of NewBackend.
type Params struct {
	fx.In

	Config *Config
	Logger pinecone.Logger `optional:"true"`
}

// NewBackend ──────────────────────────────────────────────────────────────
// NewBackend
// ──────────────────────────────────────────────────────────────
//
// NewBackend connects to Qdrant and validates connectivity via a health
// check. The SDK connects lazily, so the check is what fails fast on an
// unreachable server.
//
// Example:
//
//	backend, err := qdrant.NewBackend(qdrant.Params{Config: qdrant.FromEndpoint("localhost")})
func NewBackend(p Params) (*Backend, error) {
	if p.Config == nil {
		return nil, errors.New("[Qdrant] config is required")
	}
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}

	logger := p.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	port := p.Config.Port
	if port == 0 {
		port = 6334
	}

	logger.Info("[Qdrant] connecting", nil, map[string]interface{}{
		"endpoint": p.Config.Endpoint,
		"port":     port,
	})

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:                   p.Config.Endpoint,
		Port:                   port,
		APIKey:                 p.Config.ApiKey,
		UseTLS:                 p.Config.UseTLS,
		SkipCompatibilityCheck: !p.Config.CheckCompatibility,
	})
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to initialize client: %w", err)
	}

	b := &Backend{api: client, cfg: p.Config, port: port, logger: logger}
	if err := b.healthCheck(); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("[Qdrant] client connected", nil)
	return b, nil
}

// healthCheck calls the server's health endpoint. An unreachable server is
// reported as a connection error.
func (b *Backend) healthCheck() error {
	timeout := b.cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := b.api.HealthCheck(ctx)
	if err != nil {
		if isUnreachable(err) {
			return b.connectionError(err)
		}
		return fmt.Errorf("[Qdrant] health check failed: %w", err)
	}

	b.logger.Debug("[Qdrant] health check passed", nil, map[string]interface{}{
		"title":    resp.GetTitle(),
		"version":  resp.GetVersion(),
		"endpoint": b.cfg.Endpoint,
	})
	return nil
}

// Client returns the underlying Qdrant SDK client.
func (b *Backend) Client() *qdrant.Client {
	return b.api
}

// Close releases the gRPC connection.
func (b *Backend) Close() error {
	b.logger.Info("[Qdrant] closing client", nil)
	return b.api.Close()
}

func (b *Backend) connectionError(err error) error {
	return &pinecone.ConnectionError{
		Target: fmt.Sprintf("Qdrant at %s:%d", b.cfg.Endpoint, b.port),
		Hint:   "Please verify the endpoint, port and api key.",
		Err:    err,
	}
}

// isUnreachable looks through the SDK's error wrapping for the gRPC status.
func isUnreachable(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return true
	default:
		return false
	}
}

type nopLogger struct{}

func (nopLogger) Info(string, error, ...map[string]interface{})  {}
func (nopLogger) Debug(string, error, ...map[string]interface{}) {}
func (nopLogger) Warn(string, error, ...map[string]interface{})  {}
func (nopLogger) Error(string, error, ...map[string]interface{}) {}
