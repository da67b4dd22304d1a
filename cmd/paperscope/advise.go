// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscope/pkg/types"
)

var adviseCmd = &cobra.Command{
	Use:   "advise [question]",
	Short: "Ask the research advisor a freeform question",
	Long: `Advise retrieves papers for a research question and requests a
synthesized briefing from the generation service. When synthesis is
unavailable the response degrades to a quick brief: the retrieved papers
plus suggested follow-up questions.`,
	RunE: runAdvise,
}

func runAdvise(cmd *cobra.Command, args []string) error {
	question, _ := cmd.Flags().GetString("question")
	if question == "" && len(args) > 0 {
		question = strings.Join(args, " ")
	}

	eng, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}

	briefing, err := eng.Advise(cmd.Context(), types.AdvisorRequest{Question: question})
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return writeJSON(briefing)
	}

	w := cmd.OutOrStdout()
	if briefing.Briefing != nil {
		fmt.Fprintln(w, *briefing.Briefing)
		fmt.Fprintln(w)
	} else if briefing.Degraded {
		fmt.Fprintln(w, "Synthesis is unavailable right now; here is a quick brief instead.")
		fmt.Fprintln(w)
	}

	if len(briefing.Papers) == 0 {
		fmt.Fprintln(w, "No papers found for this question.")
	} else {
		fmt.Fprintln(w, "Papers:")
		for i, p := range briefing.Papers {
			fmt.Fprintf(w, "  %2d. [%s] %s (%d, %d citations)\n",
				i+1, p.ID, p.Title, p.PublishedAt.Year(), p.CitationCount)
		}
	}

	if len(briefing.FollowUps) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Follow-ups:")
		for _, f := range briefing.FollowUps {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}
	return nil
}

func init() {
	adviseCmd.Flags().String("question", "", "research question")
	adviseCmd.Flags().Bool("json", false, "output the briefing as JSON")

	rootCmd.AddCommand(adviseCmd)
}
