// Package statscmder provides the stats command.
package statscmder

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pinecone-io/pinecone-client/cmd/pinecone/app"
	querycmder "github.com/pinecone-io/pinecone-client/cmd/pinecone/query"
	"github.com/pinecone-io/pinecone-client/v1/pinecone"
)

const statsLongDesc string = `Show vector counts per namespace, the dimension and fullness of an index.

Examples:
  pinecone stats docs
  pinecone stats docs --filter '{"year": {"$gte": 2000}}'`

const statsShortDesc string = "Show index statistics"

func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats INDEX",
		Short: statsShortDesc,
		Long:  statsLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := cmd.Flags().GetString("filter")
			if err != nil {
				return err
			}
			f, err := querycmder.ParseFilter(raw)
			if err != nil {
				return err
			}
			opts, err := app.OptionsFromFlags(cmd)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), opts, func(ctx context.Context, client *pinecone.Client) error {
				idx, err := client.Index(ctx, args[0])
				if err != nil {
					return err
				}
				defer func() { _ = idx.Close() }()

				stats, err := idx.DescribeIndexStats(ctx, f)
				if err != nil {
					return err
				}
				return app.PrintJSON(cmd.OutOrStdout(), stats)
			})
		},
	}
	cmd.Flags().String("filter", "", "Only count vectors matching this JSON filter")

	return cmd
}
