package indexcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pinecone-io/pinecone-client/cmd/pinecone/app"
	"github.com/pinecone-io/pinecone-client/v1/pinecone"
)

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete an index and wait until it is gone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wait, err := waitOptions(cmd)
			if err != nil {
				return err
			}
			opts, err := app.OptionsFromFlags(cmd)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), opts, func(ctx context.Context, client *pinecone.Client) error {
				if err := client.DeleteIndex(ctx, args[0], wait...); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted index %s\n", args[0])
				return nil
			})
		},
	}
	addWaitFlags(cmd)

	return cmd
}
