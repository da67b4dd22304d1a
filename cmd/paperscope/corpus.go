// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperscope/internal/corpus"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect and convert the paper corpus",
	Long: `Corpus works with the read-only paper index produced by the offline
ingestion pipeline. Use subcommands to validate a database, convert a YAML
dump into the SQLite format, or export a database back to YAML.`,
}

var corpusValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the corpus and report validation results",
	RunE:  runCorpusValidate,
}

func runCorpusValidate(cmd *cobra.Command, args []string) error {
	cfg := engineConfig()

	snap, summary, err := corpus.Load(cmd.Context(), cfg.Corpus, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nloaded: %d, excluded: %d\n", summary.Loaded, summary.Excluded)
	if snap.EmbeddingDim() > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "embedding dimensions: %d\n", snap.EmbeddingDim())
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "corpus carries no embeddings; semantic retrieval will be unavailable")
	}

	if summary.Excluded > 0 {
		return fmt.Errorf("%d record(s) failed validation", summary.Excluded)
	}
	return nil
}

var corpusImportCmd = &cobra.Command{
	Use:   "import [dump.yaml]",
	Short: "Convert a YAML corpus dump into the SQLite index format",
	Args:  cobra.ExactArgs(1),
	RunE:  runCorpusImport,
}

func runCorpusImport(cmd *cobra.Command, args []string) error {
	cfg := engineConfig()

	papers, err := corpus.LoadYAML(args[0])
	if err != nil {
		return err
	}
	if err := corpus.Save(cmd.Context(), cfg.Corpus.DBPath, papers); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d papers into %s\n", len(papers), cfg.Corpus.DBPath)
	return nil
}

var corpusExportCmd = &cobra.Command{
	Use:   "export [dump.yaml]",
	Short: "Export the SQLite index to a YAML corpus dump",
	Args:  cobra.ExactArgs(1),
	RunE:  runCorpusExport,
}

func runCorpusExport(cmd *cobra.Command, args []string) error {
	cfg := engineConfig()

	snap, _, err := corpus.Load(cmd.Context(), cfg.Corpus, io.Discard)
	if err != nil {
		return err
	}
	if err := corpus.WriteYAML(args[0], snap.Papers()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d papers to %s\n", snap.Len(), args[0])
	return nil
}

func init() {
	corpusCmd.AddCommand(corpusValidateCmd)
	corpusCmd.AddCommand(corpusImportCmd)
	corpusCmd.AddCommand(corpusExportCmd)
	rootCmd.AddCommand(corpusCmd)
}
