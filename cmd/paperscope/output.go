// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/paperscope/pkg/types"
)

// writeJSON prints any response shape as indented JSON to stdout.
func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatSearchTable writes search results as a human-readable table.
func formatSearchTable(resp types.SearchResponse, w io.Writer) {
	if resp.Degraded {
		fmt.Fprintln(w, "warning: one retriever was unavailable; results are partial")
		for _, e := range resp.RetrieverErrors {
			fmt.Fprintf(w, "warning: %s\n", e)
		}
	}
	for _, r := range resp.RejectedFilters {
		fmt.Fprintf(w, "warning: filter rejected: %s\n", r)
	}

	if len(resp.Results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-4s  %-6s  %-5s  %s\n",
		"Rank", "Title", "Year", "Score", "Cites", "Modes")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, r := range resp.Results {
		title := truncate(r.Paper.Title, 60)
		modes := make([]string, len(r.Modes))
		for j, m := range r.Modes {
			modes[j] = string(m)
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-4d  %-6.2f  %-5d  %s\n",
			i+1, title, r.Paper.PublishedAt.Year(), r.Score,
			r.Paper.CitationCount, strings.Join(modes, ","))
	}

	fmt.Fprintf(w, "\n%d of %d results (%d ms)\n",
		len(resp.Results), resp.TotalCount, resp.LatencyMs)
}

// truncate trims on rune boundaries so multibyte title characters are
// never split mid-sequence.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
