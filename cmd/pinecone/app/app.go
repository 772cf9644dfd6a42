// Package app builds the fx application shared by every pinecone command.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/pinecone-io/pinecone-client/v1/controller"
	"github.com/pinecone-io/pinecone-client/v1/logger"
	"github.com/pinecone-io/pinecone-client/v1/metrics"
	"github.com/pinecone-io/pinecone-client/v1/pinecone"
	"github.com/pinecone-io/pinecone-client/v1/qdrant"
	"github.com/pinecone-io/pinecone-client/v1/tracer"
)

// Persistent flag names registered by the root command.
const (
	FlagConfig         = "config"
	FlagBackend        = "backend"
	FlagQdrant         = "qdrant"
	FlagMetricsAddress = "metrics-address"
	FlagDebug          = "debug"
)

// Backends selectable with --backend.
const (
	BackendController = "controller"
	BackendQdrant     = "qdrant"
)

// Options are the global flags of a command invocation.
type Options struct {
	ConfigPath     string
	Backend        string
	QdrantEndpoint string
	MetricsAddress string
	Debug          bool
}

// OptionsFromFlags reads the persistent flags of cmd.
func OptionsFromFlags(cmd *cobra.Command) (Options, error) {
	flags := cmd.Flags()

	var (
		opts Options
		err  error
	)
	if opts.ConfigPath, err = flags.GetString(FlagConfig); err != nil {
		return Options{}, err
	}
	if opts.Backend, err = flags.GetString(FlagBackend); err != nil {
		return Options{}, err
	}
	if opts.QdrantEndpoint, err = flags.GetString(FlagQdrant); err != nil {
		return Options{}, err
	}
	if opts.MetricsAddress, err = flags.GetString(FlagMetricsAddress); err != nil {
		return Options{}, err
	}
	if opts.Debug, err = flags.GetBool(FlagDebug); err != nil {
		return Options{}, err
	}
	return opts, opts.Validate()
}

// Validate checks the backend selection.
func (o Options) Validate() error {
	switch o.Backend {
	case BackendController:
		return nil
	case BackendQdrant:
		if _, _, err := splitHostPort(o.QdrantEndpoint); err != nil {
			return fmt.Errorf("invalid --%s %q: %w", FlagQdrant, o.QdrantEndpoint, err)
		}
		return nil
	default:
		return fmt.Errorf("unknown backend %q, want %s or %s", o.Backend, BackendController, BackendQdrant)
	}
}

// Run starts the application described by opts, hands the client to fn and
// stops the application afterwards, closing every connection.
func Run(ctx context.Context, opts Options, fn func(ctx context.Context, client *pinecone.Client) error) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	var client *pinecone.Client
	app := fx.New(append(Modules(opts), fx.NopLogger, fx.Populate(&client))...)

	if err := app.Start(ctx); err != nil {
		return err
	}

	runErr := fn(ctx, client)

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		return err
	}
	return runErr
}

// Modules returns the fx options wiring logger, tracer, optional metrics,
// the selected backend and the client.
func Modules(opts Options) []fx.Option {
	loggerCfg := logger.DefaultConfig().WithServiceName("pinecone-cli").WithLevel(logger.Warning)
	if opts.Debug {
		loggerCfg = loggerCfg.WithLevel(logger.Debug)
	}

	options := []fx.Option{
		fx.Supply(loggerCfg),
		logger.FXModule,
		fx.Provide(tracer.NewConfig),
		tracer.FXModule,
		fx.Provide(
			func(l *logger.Logger) pinecone.Logger { return l },
			func(t *tracer.Tracer) pinecone.Tracer { return t },
			func() (*pinecone.Config, error) { return clientConfig(opts) },
		),
	}

	if opts.MetricsAddress != "" {
		options = append(options,
			fx.Supply(metrics.DefaultConfig().WithAddress(opts.MetricsAddress).WithServiceName("pinecone-cli")),
			metrics.FXModule,
			fx.Provide(func(m *metrics.Metrics) pinecone.Recorder { return m }),
		)
	}

	switch opts.Backend {
	case BackendQdrant:
		options = append(options,
			fx.Provide(func() (*qdrant.Config, error) { return qdrantConfig(opts) }),
			qdrant.FXModule,
		)
	default:
		options = append(options, controller.FXModule)
	}

	return append(options, pinecone.FXModule)
}

func clientConfig(opts Options) (*pinecone.Config, error) {
	var (
		cfg *pinecone.Config
		err error
	)
	if opts.ConfigPath != "" {
		if cfg, err = pinecone.LoadConfig(opts.ConfigPath); err != nil {
			return nil, err
		}
	} else {
		cfg = pinecone.NewConfig()
	}

	// Qdrant does not use the key, but the client still requires one.
	if opts.Backend == BackendQdrant && cfg.APIKey == "" {
		cfg.APIKey = "local"
	}
	return cfg, cfg.Validate()
}

func qdrantConfig(opts Options) (*qdrant.Config, error) {
	host, port, err := splitHostPort(opts.QdrantEndpoint)
	if err != nil {
		return nil, err
	}
	cfg := qdrant.FromEndpoint(host).WithPort(port)
	return cfg, cfg.Validate()
}

func splitHostPort(endpoint string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port %q", portStr)
	}
	return host, port, nil
}

// PrintJSON writes v as indented JSON followed by a newline.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
