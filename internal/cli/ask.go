package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"docintel/internal/agent"
	"docintel/internal/synthesizer"
)

var (
	askMode string
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from indexed documents",
	Long: `Plans the query, retrieves the most relevant passages and answers
from them. Modes: qa, extract, summarize, compare.

Without a configured generator the answer is extracted from the passages.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askMode, "mode", "m", agent.ModeQA, "answer mode (qa, extract, summarize, compare)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the response as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	svc, err := openIndexedService(true)
	if err != nil {
		return err
	}
	resp, err := svc.Ask(cmd.Context(), args[0], askMode)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal response: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(resp.Answer)
	if resp.ChunksUsed == 0 {
		return nil
	}
	cmd.Println()
	cmd.Println("Sources:")
	cmd.Println(synthesizer.FormatSources(resp.Sources))
	cmd.Println()
	cmd.Printf("%s (confidence %.2f, %s)\n", resp.Summary, resp.Confidence, resp.Generator)
	return nil
}
