package indexcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pinecone-io/pinecone-client/cmd/pinecone/app"
	"github.com/pinecone-io/pinecone-client/v1/pinecone"
)

const createLongDesc string = `Create an index and wait until it is ready.

Examples:
  pinecone index create docs --dimension 768
  pinecone index create docs -n 768 --metric dotproduct --replicas 2 --indexed genre,year
  pinecone index create restored -n 768 --source-collection nightly`

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an index",
		Long:  createLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := specFromFlags(cmd, args[0])
			if err != nil {
				return err
			}
			wait, err := waitOptions(cmd)
			if err != nil {
				return err
			}
			opts, err := app.OptionsFromFlags(cmd)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), opts, func(ctx context.Context, client *pinecone.Client) error {
				if err := client.CreateIndex(ctx, spec, wait...); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created index %s\n", spec.Name)
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.Int32P("dimension", "n", 0, "Vector dimension")
	flags.String("metric", pinecone.MetricCosine, "Distance metric: cosine, euclidean or dotproduct")
	flags.Int32("replicas", 0, "Number of replicas")
	flags.Int32("shards", 0, "Number of shards")
	flags.Int32("pods", 0, "Number of pods")
	flags.String("pod-type", "", "Pod type, e.g. p1.x1")
	flags.StringSlice("indexed", nil, "Metadata fields to index; all fields when empty")
	flags.String("source-collection", "", "Collection to create the index from")
	_ = cmd.MarkFlagRequired("dimension")
	addWaitFlags(cmd)

	return cmd
}

// specFromFlags builds the IndexSpec; count flags are only sent when set.
func specFromFlags(cmd *cobra.Command, name string) (pinecone.IndexSpec, error) {
	flags := cmd.Flags()

	dimension, err := flags.GetInt32("dimension")
	if err != nil {
		return pinecone.IndexSpec{}, err
	}
	if dimension < 1 {
		return pinecone.IndexSpec{}, fmt.Errorf("--dimension must be positive, got %d", dimension)
	}

	spec := pinecone.IndexSpec{Name: name, Dimension: dimension}
	if spec.Metric, err = flags.GetString("metric"); err != nil {
		return pinecone.IndexSpec{}, err
	}
	if spec.PodType, err = flags.GetString("pod-type"); err != nil {
		return pinecone.IndexSpec{}, err
	}
	if spec.SourceCollection, err = flags.GetString("source-collection"); err != nil {
		return pinecone.IndexSpec{}, err
	}

	for flag, dst := range map[string]**int32{
		"replicas": &spec.Replicas,
		"shards":   &spec.Shards,
		"pods":     &spec.Pods,
	} {
		if !flags.Changed(flag) {
			continue
		}
		v, err := flags.GetInt32(flag)
		if err != nil {
			return pinecone.IndexSpec{}, err
		}
		*dst = &v
	}

	indexed, err := flags.GetStringSlice("indexed")
	if err != nil {
		return pinecone.IndexSpec{}, err
	}
	if len(indexed) > 0 {
		spec.MetadataConfig = map[string][]string{"indexed": indexed}
	}
	return spec, nil
}
