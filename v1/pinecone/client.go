package pinecone

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/fx"

	"github.com/pinecone-io/pinecone-client/v1/poller"
)

const whoamiTimeout = 10 * time.Second

// Client manages indexes and collections and opens Index handles.
// It is safe for concurrent use.
type Client struct {
	cfg      *Config
	control  ControlPlane
	dialer   Dialer
	poller   *poller.Poller
	logger   Logger
	tracer   Tracer
	recorder Recorder

	mu   sync.Mutex
	open map[*Index]struct{}
}

// ClientParams defines the dependencies of a Client. Logger, Tracer and
// Recorder are optional.
type ClientParams struct {
	fx.In

	Config       *Config
	ControlPlane ControlPlane
	Dialer       Dialer
	Logger       Logger       `optional:"true"`
	Tracer       Tracer       `optional:"true"`
	Recorder     Recorder     `optional:"true"`
	Clock        poller.Clock `optional:"true"`
}

// NewClient validates the config and resolves the project id through whoami
// when the config leaves it empty. A failed whoami is a *ConnectionError.
func NewClient(p ClientParams) (*Client, error) {
	if p.Config == nil {
		return nil, fmt.Errorf("[Pinecone] config is required")
	}
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}
	if p.ControlPlane == nil {
		return nil, fmt.Errorf("[Pinecone] control plane is required")
	}

	// The project id is resolved on a copy; the caller's config may be shared.
	cfg := *p.Config
	c := &Client{
		cfg:      &cfg,
		control:  p.ControlPlane,
		dialer:   p.Dialer,
		logger:   p.Logger,
		tracer:   p.Tracer,
		recorder: p.Recorder,
		open:     make(map[*Index]struct{}),
	}
	if c.logger == nil {
		c.logger = nopLogger{}
	}
	if c.tracer == nil {
		c.tracer = nopTracer{}
	}
	if c.recorder == nil {
		c.recorder = nopRecorder{}
	}

	opts := []poller.Option{poller.WithObserver(c.recorder)}
	if p.Clock != nil {
		opts = append(opts, poller.WithClock(p.Clock))
	}
	c.poller = poller.New(c.logger, opts...)

	if c.cfg.ProjectID == "" {
		ctx, cancel := context.WithTimeout(context.Background(), whoamiTimeout)
		defer cancel()

		who, err := c.control.Whoami(ctx)
		if err != nil {
			return nil, NewControlPlaneConnectionError(c.cfg.Region, err)
		}
		c.cfg.ProjectID = who.ProjectName
	}

	c.logger.Info("[Pinecone] client ready", nil, map[string]interface{}{
		"region":  c.cfg.Region,
		"project": c.cfg.ProjectID,
	})
	return c, nil
}

// Config returns the resolved client configuration.
func (c *Client) Config() *Config {
	return c.cfg
}

// WaitOption tunes a lifecycle wait.
type WaitOption func(*waitOptions)

type waitOptions struct {
	timeout int
}

// WithTimeout sets the wait in seconds. poller.NoWait returns right after
// the control-plane call.
func WithTimeout(seconds int) WaitOption {
	return func(o *waitOptions) {
		o.timeout = seconds
	}
}

// WithoutWaiting is WithTimeout(poller.NoWait).
func WithoutWaiting() WaitOption {
	return WithTimeout(poller.NoWait)
}

func (c *Client) waitOptions(opts []WaitOption) waitOptions {
	o := waitOptions{timeout: c.cfg.DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CreateIndex creates an index and, unless told otherwise, waits until its
// status is Ready.
func (c *Client) CreateIndex(ctx context.Context, spec IndexSpec, opts ...WaitOption) error {
	wait := c.waitOptions(opts)

	return c.observe(ctx, "create_index", map[string]interface{}{"index": spec.Name, "timeout": wait.timeout}, func(ctx context.Context) error {
		_, err := c.poller.Run(ctx, poller.Operation{
			Name:     "create_index",
			Resource: "Index",
			Action:   "creation",
			Hint:     "describe_index()",
			Timeout:  wait.timeout,
			Call: func(ctx context.Context) error {
				return c.control.CreateIndex(ctx, spec)
			},
			Check: func(ctx context.Context) (bool, error) {
				idx, err := c.control.DescribeIndex(ctx, spec.Name)
				if err != nil {
					return false, err
				}
				return idx.Status == StatusReady, nil
			},
		})
		return err
	})
}

// DeleteIndex deletes an index and, unless told otherwise, waits until it
// no longer appears in ListIndexes.
func (c *Client) DeleteIndex(ctx context.Context, name string, opts ...WaitOption) error {
	wait := c.waitOptions(opts)

	return c.observe(ctx, "delete_index", map[string]interface{}{"index": name, "timeout": wait.timeout}, func(ctx context.Context) error {
		_, err := c.poller.Run(ctx, poller.Operation{
			Name:     "delete_index",
			Resource: "Index",
			Action:   "deletion",
			Hint:     "describe_index()",
			Timeout:  wait.timeout,
			Call: func(ctx context.Context) error {
				return c.control.DeleteIndex(ctx, name)
			},
			Check: func(ctx context.Context) (bool, error) {
				names, err := c.control.ListIndexes(ctx)
				if err != nil {
					return false, err
				}
				return !slices.Contains(names, name), nil
			},
		})
		return err
	})
}

func (c *Client) DescribeIndex(ctx context.Context, name string) (IndexDescription, error) {
	var out IndexDescription
	err := c.observe(ctx, "describe_index", map[string]interface{}{"index": name}, func(ctx context.Context) error {
		var err error
		out, err = c.control.DescribeIndex(ctx, name)
		return err
	})
	return out, err
}

func (c *Client) ListIndexes(ctx context.Context) ([]string, error) {
	var out []string
	err := c.observe(ctx, "list_indexes", nil, func(ctx context.Context) error {
		var err error
		out, err = c.control.ListIndexes(ctx)
		return err
	})
	return out, err
}

// ConfigureIndex changes the replica count and/or pod type of an index.
func (c *Client) ConfigureIndex(ctx context.Context, name string, req ConfigureRequest) error {
	if req.Replicas == nil && req.PodType == nil {
		return argumentError("configure", "At least one of replicas or pod_type must be provided")
	}
	return c.observe(ctx, "configure_index", map[string]interface{}{"index": name}, func(ctx context.Context) error {
		return c.control.ConfigureIndex(ctx, name, req)
	})
}

// CreateCollection snapshots the source index into a new collection.
func (c *Client) CreateCollection(ctx context.Context, name, source string) error {
	return c.observe(ctx, "create_collection", map[string]interface{}{"collection": name, "source": source}, func(ctx context.Context) error {
		return c.control.CreateCollection(ctx, name, source)
	})
}

func (c *Client) DescribeCollection(ctx context.Context, name string) (CollectionDescription, error) {
	var out CollectionDescription
	err := c.observe(ctx, "describe_collection", map[string]interface{}{"collection": name}, func(ctx context.Context) error {
		var err error
		out, err = c.control.DescribeCollection(ctx, name)
		return err
	})
	return out, err
}

func (c *Client) ListCollections(ctx context.Context) ([]string, error) {
	var out []string
	err := c.observe(ctx, "list_collections", nil, func(ctx context.Context) error {
		var err error
		out, err = c.control.ListCollections(ctx)
		return err
	})
	return out, err
}

func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	return c.observe(ctx, "delete_collection", map[string]interface{}{"collection": name}, func(ctx context.Context) error {
		return c.control.DeleteCollection(ctx, name)
	})
}

// Index opens a data-plane connection to the named index.
func (c *Client) Index(ctx context.Context, name string) (*Index, error) {
	if c.dialer == nil {
		return nil, NewIndexConnectionError(name, fmt.Errorf("no data plane configured"))
	}

	var idx *Index
	err := c.observe(ctx, "connect_index", map[string]interface{}{"index": name}, func(ctx context.Context) error {
		data, err := c.dialer.Dial(ctx, name, c.cfg.IndexURL(name))
		if err != nil {
			return NewIndexConnectionError(name, err)
		}
		idx = &Index{name: name, client: c, data: data}
		c.track(idx)
		return nil
	})
	return idx, err
}

func (c *Client) track(idx *Index) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open[idx] = struct{}{}
}

func (c *Client) untrack(idx *Index) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.open, idx)
}

// Close closes every Index opened through this client and not yet closed.
func (c *Client) Close() error {
	c.mu.Lock()
	open := make([]*Index, 0, len(c.open))
	for idx := range c.open {
		open = append(open, idx)
	}
	c.mu.Unlock()

	var errs []error
	for _, idx := range open {
		if err := idx.Close(); err != nil {
			errs = append(errs, fmt.Errorf("[Pinecone] failed to close index %s: %w", idx.name, err))
		}
	}
	return errors.Join(errs...)
}
