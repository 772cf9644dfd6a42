// Package querycmder provides the query command.
package querycmder

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pinecone-io/pinecone-client/cmd/pinecone/app"
	"github.com/pinecone-io/pinecone-client/v1/filter"
	"github.com/pinecone-io/pinecone-client/v1/pinecone"
)

const queryLongDesc string = `Search an index by vector or by the id of a stored vector.

Filters use the metadata filter language as JSON.

Examples:
  pinecone query docs --vector 0.1,0.2,0.3 --top-k 5
  pinecone query docs --id doc-1 --namespace books --include-metadata
  pinecone query docs -v 0.1,0.2,0.3 --filter '{"genre": {"$in": ["drama"]}}'`

const queryShortDesc string = "Search an index"

func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query INDEX",
		Short: queryShortDesc,
		Long:  queryLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := requestFromFlags(cmd)
			if err != nil {
				return err
			}
			opts, err := app.OptionsFromFlags(cmd)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), opts, func(ctx context.Context, client *pinecone.Client) error {
				return runQuery(ctx, cmd, client, args[0], req)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringP("vector", "v", "", "Comma-separated query vector")
	flags.String("id", "", "Query with the stored vector of this id")
	flags.StringP("namespace", "N", "", "Namespace to search")
	flags.IntP("top-k", "k", 10, "Number of matches to return")
	flags.String("filter", "", "Metadata filter as JSON")
	flags.Bool("include-values", false, "Return vector values")
	flags.Bool("include-metadata", false, "Return metadata")
	cmd.MarkFlagsOneRequired("vector", "id")
	cmd.MarkFlagsMutuallyExclusive("vector", "id")

	return cmd
}

func runQuery(ctx context.Context, cmd *cobra.Command, client *pinecone.Client, name string, req pinecone.QueryRequest) error {
	idx, err := client.Index(ctx, name)
	if err != nil {
		return err
	}
	defer func() { _ = idx.Close() }()

	matches, err := idx.Query(ctx, req)
	if err != nil {
		return err
	}
	return app.PrintJSON(cmd.OutOrStdout(), matches)
}

func requestFromFlags(cmd *cobra.Command) (pinecone.QueryRequest, error) {
	flags := cmd.Flags()

	var req pinecone.QueryRequest
	var err error
	if req.Namespace, err = flags.GetString("namespace"); err != nil {
		return req, err
	}
	if req.TopK, err = flags.GetInt("top-k"); err != nil {
		return req, err
	}
	if req.ID, err = flags.GetString("id"); err != nil {
		return req, err
	}
	if req.IncludeValues, err = flags.GetBool("include-values"); err != nil {
		return req, err
	}
	if req.IncludeMetadata, err = flags.GetBool("include-metadata"); err != nil {
		return req, err
	}

	vector, err := flags.GetString("vector")
	if err != nil {
		return req, err
	}
	if vector != "" {
		if req.Values, err = ParseVector(vector); err != nil {
			return req, err
		}
	}

	raw, err := flags.GetString("filter")
	if err != nil {
		return req, err
	}
	if req.Filter, err = ParseFilter(raw); err != nil {
		return req, err
	}
	return req, nil
}

// ParseVector reads comma-separated floats such as "0.1, 0.2,0.3".
func ParseVector(s string) ([]float32, error) {
	parts := strings.Split(s, ",")
	values := make([]float32, 0, len(parts))
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("vector element %d: %w", i, err)
		}
		values = append(values, float32(f))
	}
	return values, nil
}

// ParseFilter decodes a JSON filter. An empty string is no filter.
func ParseFilter(s string) (filter.Expr, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var raw any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("filter is not valid JSON: %w", err)
	}
	return filter.FromAny(raw)
}
