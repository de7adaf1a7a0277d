package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docintel/internal/domain"
	"docintel/internal/synthesizer"
)

var (
	searchLimit     int
	searchThreshold float64
	searchDocument  string
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Ranks indexed passages against the query by TF-IDF cosine similarity,
then reranks them with phrase, term coverage and length bonuses.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default from config)")
	searchCmd.Flags().Float64VarP(&searchThreshold, "threshold", "t", 0, "minimum similarity (default from config)")
	searchCmd.Flags().StringVarP(&searchDocument, "document", "d", "", "only return passages from this document")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	svc, err := openIndexedService(false)
	if err != nil {
		return err
	}

	limit := searchLimit
	if !cmd.Flags().Changed("limit") {
		limit = appConfig.Retrieval.MaxResults
	}
	threshold := searchThreshold
	if !cmd.Flags().Changed("threshold") {
		threshold = appConfig.Retrieval.Threshold
	}

	results, err := svc.Query(args[0], limit, threshold, searchDocument)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}
	outputSearchTable(cmd, results)
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.RankedChunk) {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		cmd.Printf("  [%d] %s page %d (%.3f) %s\n", i+1, r.Document, r.PageNumber,
			r.RelevanceScore, synthesizer.RelevanceIndicator(r.RelevanceScore))
		cmd.Printf("      %s\n", snippet(r.Text, 200))
		cmd.Println()
	}
}

// snippet flattens whitespace and cuts text to at most n runes.
func snippet(text string, n int) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= n {
		return flat
	}
	return string(runes[:n]) + "..."
}
