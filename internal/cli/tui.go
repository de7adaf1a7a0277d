package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"docintel/internal/service"
	"docintel/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [paths...]",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal UI. With paths the documents are
indexed first; otherwise the saved index is used.

Controls:
  Enter    - Search / Ask
  Tab      - Switch between search and ask
  ↑, ↓     - Navigate results
  PgUp/Dn  - Scroll
  Ctrl+C   - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	var (
		svc *service.RAGServiceImpl
		err error
	)
	summary := ""
	if len(args) > 0 {
		svc, err = openService(true)
		if err != nil {
			return err
		}
		s, err := svc.IngestDocuments(cmd.Context(), args)
		if err != nil {
			return fmt.Errorf("indexing failed: %w", err)
		}
		summary = fmt.Sprintf("%d documents, %d chunks", len(s.Documents), s.Chunks)
	} else {
		svc, err = openIndexedService(true)
		if err != nil {
			return err
		}
		st := svc.Stats()
		summary = fmt.Sprintf("%d documents, %d chunks", st.DocumentCount, st.TotalChunks)
	}

	m := tui.New(svc, tui.Settings{
		Limit:     appConfig.Retrieval.MaxResults,
		Threshold: appConfig.Retrieval.Threshold,
	}, summary)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
