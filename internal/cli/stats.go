package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docintel/internal/domain"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var chunksCmd = &cobra.Command{
	Use:   "chunks [document]",
	Short: "List the chunks of one document",
	Args:  cobra.ExactArgs(1),
	RunE:  runChunks,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(chunksCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	svc, err := openService(false)
	if err != nil {
		return err
	}
	var st domain.IndexStats
	if err := svc.LoadIndex(""); err == nil {
		st = svc.Stats()
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load index: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Index:      %s\n", appConfig.Index.Path)
	if !st.Built {
		cmd.Println("Status:     not built")
		return nil
	}
	cmd.Println("Status:     ready")
	cmd.Printf("Documents:  %d\n", st.DocumentCount)
	cmd.Printf("Chunks:     %d\n", st.TotalChunks)
	cmd.Printf("Vocabulary: %d\n", st.VocabularySize)
	return nil
}

func runChunks(cmd *cobra.Command, args []string) error {
	svc, err := openIndexedService(false)
	if err != nil {
		return err
	}
	chunks := svc.DocumentChunks(args[0])
	if len(chunks) == 0 {
		cmd.Printf("No chunks for %s.\n", args[0])
		return nil
	}
	for _, c := range chunks {
		cmd.Printf("[%d] page %d, %d chars, %d words\n", c.ID, c.PageNumber, c.CharCount, c.WordCount)
		cmd.Printf("    %s\n", snippet(c.Text, 120))
	}
	return nil
}
