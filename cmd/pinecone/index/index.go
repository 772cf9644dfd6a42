// Package indexcmder provides the index command and its lifecycle
// subcommands.
package indexcmder

import (
	"github.com/spf13/cobra"

	"github.com/pinecone-io/pinecone-client/v1/pinecone"
)

const indexLongDesc string = `Create, inspect, reconfigure and delete indexes.

Create and delete wait until the control plane reports the change, bounded
by --timeout seconds (the config default when unset). --no-wait returns
right after the request is accepted.`

const indexShortDesc string = "Manage indexes"

func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: indexShortDesc,
		Long:  indexLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newDescribeCmd())
	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newConfigureCmd())

	return cmd
}

// addWaitFlags registers --timeout and --no-wait on a lifecycle command.
func addWaitFlags(cmd *cobra.Command) {
	cmd.Flags().Int("timeout", 0, "Seconds to wait for the change to complete")
	cmd.Flags().Bool("no-wait", false, "Return without waiting")
	cmd.MarkFlagsMutuallyExclusive("timeout", "no-wait")
}

// waitOptions turns the wait flags into client options. An unset --timeout
// leaves the config default in place.
func waitOptions(cmd *cobra.Command) ([]pinecone.WaitOption, error) {
	noWait, err := cmd.Flags().GetBool("no-wait")
	if err != nil {
		return nil, err
	}
	if noWait {
		return []pinecone.WaitOption{pinecone.WithoutWaiting()}, nil
	}
	if !cmd.Flags().Changed("timeout") {
		return nil, nil
	}
	timeout, err := cmd.Flags().GetInt("timeout")
	if err != nil {
		return nil, err
	}
	return []pinecone.WaitOption{pinecone.WithTimeout(timeout)}, nil
}
