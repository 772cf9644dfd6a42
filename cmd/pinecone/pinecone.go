// Package pineconecmder is the root of the pinecone command line tool.
package pineconecmder

import (
	"github.com/spf13/cobra"

	"github.com/pinecone-io/pinecone-client/cmd/pinecone/app"
	indexcmder "github.com/pinecone-io/pinecone-client/cmd/pinecone/index"
	querycmder "github.com/pinecone-io/pinecone-client/cmd/pinecone/query"
	statscmder "github.com/pinecone-io/pinecone-client/cmd/pinecone/stats"
	whoamicmder "github.com/pinecone-io/pinecone-client/cmd/pinecone/whoami"
)

const pineconeLongDesc string = `Manage vector indexes from the command line.

The hosted controller is used by default. Point the tool at a self-hosted
Qdrant server with --backend qdrant.

Configuration is read from --config (YAML) and PINECONE_* variables:
  pinecone index list              List indexes
  pinecone index create docs -n 8  Create an index and wait until ready
  pinecone query docs -v 0.1,0.2   Search an index
  pinecone stats docs              Show vector counts per namespace`

const pineconeShortDesc string = "Pinecone - vector index client"

func NewPineconeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pinecone",
		Short:         pineconeShortDesc,
		Long:          pineconeLongDesc,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.StringP(app.FlagConfig, "c", "", "Path to a YAML client config")
	flags.String(app.FlagBackend, app.BackendController, "Backend to use: controller or qdrant")
	flags.String(app.FlagQdrant, "localhost:6334", "Qdrant gRPC endpoint as host:port")
	flags.String(app.FlagMetricsAddress, "", "Serve Prometheus metrics on this address while running")
	flags.BoolP(app.FlagDebug, "d", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(indexcmder.NewIndexCmd())
	cmd.AddCommand(querycmder.NewQueryCmd())
	cmd.AddCommand(statscmder.NewStatsCmd())
	cmd.AddCommand(whoamicmder.NewWhoamiCmd())

	return cmd
}
