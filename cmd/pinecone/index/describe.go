package indexcmder

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pinecone-io/pinecone-client/cmd/pinecone/app"
	"github.com/pinecone-io/pinecone-client/v1/pinecone"
)

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe NAME",
		Short: "Show the configuration and status of an index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := app.OptionsFromFlags(cmd)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), opts, func(ctx context.Context, client *pinecone.Client) error {
				desc, err := client.DescribeIndex(ctx, args[0])
				if err != nil {
					return err
				}
				return app.PrintJSON(cmd.OutOrStdout(), desc)
			})
		},
	}
}
