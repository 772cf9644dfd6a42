package indexcmder

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pinecone-io/pinecone-client/cmd/pinecone/app"
	"github.com/pinecone-io/pinecone-client/v1/pinecone"
)

func newConfigureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configure NAME",
		Short: "Change the replicas or pod type of an index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := configureFromFlags(cmd)
			if err != nil {
				return err
			}
			opts, err := app.OptionsFromFlags(cmd)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), opts, func(ctx context.Context, client *pinecone.Client) error {
				if err := client.ConfigureIndex(ctx, args[0], req); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "configured index %s\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().Int32("replicas", 0, "New number of replicas")
	cmd.Flags().String("pod-type", "", "New pod type")

	return cmd
}

func configureFromFlags(cmd *cobra.Command) (pinecone.ConfigureRequest, error) {
	var req pinecone.ConfigureRequest
	flags := cmd.Flags()

	if flags.Changed("replicas") {
		replicas, err := flags.GetInt32("replicas")
		if err != nil {
			return req, err
		}
		req.Replicas = &replicas
	}
	if flags.Changed("pod-type") {
		podType, err := flags.GetString("pod-type")
		if err != nil {
			return req, err
		}
		req.PodType = &podType
	}
	if req.Replicas == nil && req.PodType == nil {
		return req, errors.New("set --replicas or --pod-type")
	}
	return req, nil
}
