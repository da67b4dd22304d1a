// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscope/pkg/types"
)

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show trending topics by velocity bucket",
	Long: `Trending reports topic velocity over rolling windows: hot topics by
absolute recent volume, rising topics by growth over their baseline, and
emerging topics that are small but growing fast.`,
	RunE: runTrending,
}

func runTrending(cmd *cobra.Command, args []string) error {
	bucket, _ := cmd.Flags().GetString("bucket")

	eng, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}

	resp, err := eng.Trending(types.TrendingRequest{Bucket: types.TrendingBucket(bucket)})
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return writeJSON(resp)
	}

	w := cmd.OutOrStdout()
	if len(resp.Topics) == 0 {
		fmt.Fprintf(w, "No %s topics.\n", bucket)
		return nil
	}

	fmt.Fprintf(w, "%-30s  %-7s  %-9s  %s\n", "Topic", "Recent", "Baseline", "Growth")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, t := range resp.Topics {
		fmt.Fprintf(w, "%-30s  %-7d  %-9d  %.1fx\n",
			t.Label, t.RecentMentions, t.BaselineMentions, t.Growth)
	}
	fmt.Fprintf(w, "\ncomputed at %s\n", resp.ComputedAt.Format("2006-01-02 15:04 MST"))
	return nil
}

func init() {
	trendingCmd.Flags().String("bucket", "hot", "velocity bucket: hot, rising, or emerging")
	trendingCmd.Flags().Bool("json", false, "output topics as JSON")

	rootCmd.AddCommand(trendingCmd)
}
