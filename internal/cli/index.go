package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"docintel/internal/service"
)

var indexJSON bool

var indexCmd = &cobra.Command{
	Use:   "index [paths...]",
	Short: "Build the passage index",
	Long: `Loads every supported file under the given paths, splits it into
passages and builds a new TF-IDF index, replacing the saved one.
Paths may be files, directories or glob patterns.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexJSON, "json", false, "output the build summary as JSON")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	svc, err := openService(false)
	if err != nil {
		return err
	}
	summary, err := svc.IngestDocuments(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	if err := svc.SaveIndex(""); err != nil {
		return fmt.Errorf("failed to save index: %w", err)
	}

	if indexJSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}
	printIndexSummary(cmd, summary)
	return nil
}

func printIndexSummary(cmd *cobra.Command, s *service.IngestSummary) {
	cmd.Printf("Indexed %d documents into %d chunks (%d terms)\n",
		len(s.Documents), s.Chunks, s.Stats.VocabularySize)
	for _, d := range s.Documents {
		cmd.Printf("  %s\n", d)
	}
	if len(s.Skipped) > 0 {
		cmd.Printf("Skipped %d unsupported files\n", len(s.Skipped))
	}
	cmd.Printf("Build: %s\n", s.BuildID)
	if s.Summary != "" {
		cmd.Println()
		cmd.Println("Summary:")
		cmd.Println(s.Summary)
	}
}
