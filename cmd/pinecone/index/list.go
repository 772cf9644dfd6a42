package indexcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pinecone-io/pinecone-client/cmd/pinecone/app"
	"github.com/pinecone-io/pinecone-client/v1/pinecone"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List index names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := app.OptionsFromFlags(cmd)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), opts, func(ctx context.Context, client *pinecone.Client) error {
				names, err := client.ListIndexes(ctx)
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			})
		},
	}
}
