package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/pinecone-io/pinecone-client/v1/pinecone"
)

// Client implements pinecone.ControlPlane over the controller REST API.
type Client struct {
	transport
	region string
	logger pinecone.Logger
}

var _ pinecone.ControlPlane = (*Client)(nil)

// New returns a control-plane client for cfg.Controller().
func New(cfg *pinecone.Config, opts ...Option) *Client {
	o := buildOptions(opts)
	return &Client{
		transport: newTransport(cfg.Controller(), cfg.APIKey, o),
		region:    cfg.Region,
		logger:    o.logger,
	}
}

// call runs a request and turns transport failures into the control-plane
// connection error.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	if c.logger != nil {
		c.logger.Debug("[Controller] request", nil, map[string]interface{}{
			"method": method,
			"path":   path,
		})
	}

	err := c.do(ctx, method, path, body, out)

	var de *dialError
	if errors.As(err, &de) {
		return pinecone.NewControlPlaneConnectionError(c.region, de.err)
	}
	return err
}

func (c *Client) CreateIndex(ctx context.Context, spec pinecone.IndexSpec) error {
	return c.call(ctx, http.MethodPost, "/databases", spec, nil)
}

func (c *Client) DeleteIndex(ctx context.Context, name string) error {
	p, err := pathParam("indexName", name)
	if err != nil {
		return err
	}
	return c.call(ctx, http.MethodDelete, "/databases/"+p, nil, nil)
}

func (c *Client) DescribeIndex(ctx context.Context, name string) (pinecone.IndexDescription, error) {
	p, err := pathParam("indexName", name)
	if err != nil {
		return pinecone.IndexDescription{}, err
	}

	var resp describeIndexResponse
	if err := c.call(ctx, http.MethodGet, "/databases/"+p, nil, &resp); err != nil {
		return pinecone.IndexDescription{}, err
	}
	return resp.toDescription()
}

func (c *Client) ListIndexes(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.call(ctx, http.MethodGet, "/databases", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *Client) ConfigureIndex(ctx context.Context, name string, req pinecone.ConfigureRequest) error {
	p, err := pathParam("indexName", name)
	if err != nil {
		return err
	}
	return c.call(ctx, http.MethodPatch, "/databases/"+p, patchRequest{Replicas: req.Replicas, PodType: req.PodType}, nil)
}

func (c *Client) CreateCollection(ctx context.Context, name, source string) error {
	return c.call(ctx, http.MethodPost, "/collections", createCollectionRequest{Name: name, Source: source}, nil)
}

func (c *Client) DescribeCollection(ctx context.Context, name string) (pinecone.CollectionDescription, error) {
	p, err := pathParam("collectionName", name)
	if err != nil {
		return pinecone.CollectionDescription{}, err
	}

	var body collectionBody
	if err := c.call(ctx, http.MethodGet, "/collections/"+p, nil, &body); err != nil {
		return pinecone.CollectionDescription{}, err
	}
	return pinecone.CollectionDescription{
		Name:        body.Name,
		Source:      body.Source,
		VectorCount: body.VectorCount,
		Size:        body.Size,
		Status:      body.Status,
	}, nil
}

func (c *Client) ListCollections(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.call(ctx, http.MethodGet, "/collections", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	p, err := pathParam("collectionName", name)
	if err != nil {
		return err
	}
	return c.call(ctx, http.MethodDelete, "/collections/"+p, nil, nil)
}

// Whoami resolves the project of the configured API key.
func (c *Client) Whoami(ctx context.Context) (pinecone.Whoami, error) {
	if c.apiKey == "" {
		return pinecone.Whoami{}, &pinecone.ArgumentError{Name: "api_key", Msg: "Api key empty or not provided"}
	}

	var who pinecone.Whoami
	if err := c.call(ctx, http.MethodGet, "/actions/whoami", nil, &who); err != nil {
		return pinecone.Whoami{}, err
	}
	return who, nil
}
