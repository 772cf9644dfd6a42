package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const (
	// DefaultHTTPTimeout bounds a single request.
	DefaultHTTPTimeout = 30 * time.Second

	// UserAgent is sent with every request.
	UserAgent = "pinecone-go-client/0.1"

	maxErrorBody = 4096
)

// transport holds what the control and data planes share: a base URL, the
// API key and an *http.Client.
type transport struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func newTransport(baseURL, apiKey string, o options) transport {
	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return transport{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: hc,
	}
}

// do sends body as JSON and decodes a 2xx response into out. Network
// failures are returned as *dialError so callers can map them onto the
// connection error of their plane.
func (t transport) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Api-Key", t.apiKey)
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// No-op until a propagator is installed globally (tracer.NewClient does).
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := t.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &dialError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &OperationError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}

	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return parseError(path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return parseError(path, errors.New("empty body"))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return parseError(path, err)
	}
	return nil
}

// dialError marks a request that never got a response.
type dialError struct {
	err error
}

func (e *dialError) Error() string { return e.err.Error() }

func (e *dialError) Unwrap() error { return e.err }

// pathParam renders a path segment in OpenAPI "simple" style.
func pathParam(name string, value any) (string, error) {
	s, err := runtime.StyleParamWithLocation("simple", false, name, runtime.ParamLocationPath, value)
	if err != nil {
		return "", fmt.Errorf("invalid %s: %w", name, err)
	}
	return s, nil
}

// queryParam renders an exploded "form" style query parameter, e.g. ids=a&ids=b.
func queryParam(name string, value any) (string, error) {
	s, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, value)
	if err != nil {
		return "", fmt.Errorf("invalid %s: %w", name, err)
	}
	return s, nil
}
