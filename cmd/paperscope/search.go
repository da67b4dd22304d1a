// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscope/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a hybrid keyword + semantic search over the corpus",
	Long: `Search fans the query out to the lexical and semantic retrievers
concurrently, fuses their rankings, and applies any facet filters. If one
retriever is unavailable the results come from the survivor and the
response is marked degraded.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}

	filters, err := filtersFromFlags(cmd)
	if err != nil {
		return err
	}

	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")

	eng, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}

	resp, err := eng.Search(cmd.Context(), types.SearchRequest{
		Query:    query,
		Filters:  filters,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return writeJSON(resp)
	}
	formatSearchTable(resp, cmd.OutOrStdout())
	return nil
}

// filtersFromFlags assembles the facet filter set. Parse failures on
// individual flags are reported here; semantically malformed facets are
// rejected facet-by-facet inside the engine.
func filtersFromFlags(cmd *cobra.Command) (types.FilterSet, error) {
	var f types.FilterSet

	f.Categories, _ = cmd.Flags().GetStringSlice("category")
	difficulties, _ := cmd.Flags().GetStringSlice("difficulty")
	for _, d := range difficulties {
		f.Difficulties = append(f.Difficulties, types.Difficulty(d))
	}

	if cmd.Flags().Changed("has-code") {
		hasCode, _ := cmd.Flags().GetBool("has-code")
		f.HasCode = &hasCode
	}
	if cmd.Flags().Changed("min-impact") {
		minImpact, _ := cmd.Flags().GetFloat64("min-impact")
		f.MinImpact = &minImpact
	}

	from, _ := cmd.Flags().GetString("from")
	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return f, fmt.Errorf("parsing --from date: %w", err)
		}
		f.DateFrom = t
	}
	to, _ := cmd.Flags().GetString("to")
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return f, fmt.Errorf("parsing --to date: %w", err)
		}
		f.DateTo = t
	}

	return f, nil
}

func init() {
	searchCmd.Flags().String("query", "", "search query text")
	searchCmd.Flags().StringSlice("category", nil, "filter by category (repeatable, OR semantics)")
	searchCmd.Flags().StringSlice("difficulty", nil, "filter by difficulty: beginner, intermediate, advanced, expert")
	searchCmd.Flags().Bool("has-code", false, "filter by code availability")
	searchCmd.Flags().Float64("min-impact", 0, "minimum impact score (0-10, inclusive)")
	searchCmd.Flags().String("from", "", "publication date range start (YYYY-MM-DD)")
	searchCmd.Flags().String("to", "", "publication date range end (YYYY-MM-DD)")
	searchCmd.Flags().Int("page", 1, "result page (1-based)")
	searchCmd.Flags().Int("page-size", 0, "results per page (0 = configured default)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
