// Package whoamicmder provides the whoami command.
package whoamicmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pinecone-io/pinecone-client/cmd/pinecone/app"
	"github.com/pinecone-io/pinecone-client/v1/pinecone"
)

const whoamiLongDesc string = `Show the project and region the configured API key resolves to.

The project is looked up through the control plane unless the config
already sets one.`

const whoamiShortDesc string = "Show the resolved project"

func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: whoamiShortDesc,
		Long:  whoamiLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := app.OptionsFromFlags(cmd)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), opts, func(_ context.Context, client *pinecone.Client) error {
				cfg := client.Config()
				fmt.Fprintf(cmd.OutOrStdout(), "project: %s\nregion:  %s\n", cfg.ProjectID, cfg.Region)
				return nil
			})
		},
	}
}
