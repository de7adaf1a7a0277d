// Package cli implements the docintel command line.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"docintel/internal/config"
	"docintel/internal/domain"
	"docintel/internal/logging"
	"docintel/internal/service"
)

var (
	cfgFile string
	verbose bool

	appConfig *config.AppConfig
	logger    *logrus.Entry
)

var rootCmd = &cobra.Command{
	Use:   "docintel",
	Short: "Search and question your documents",
	Long: `docintel indexes PDF, DOCX, Markdown, HTML and text files into a
TF-IDF passage index, then searches it or answers questions over it.

Answers come from a configured language model, or are extracted from
the best matching passages when no model is configured.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./docintel.yaml or ~/.config/docintel/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	var (
		cfg *config.AppConfig
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, _, err = config.LoadDefault()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	appConfig = cfg
	logger = logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Verbose: verbose,
		Output:  cmd.ErrOrStderr(),
	})
	return nil
}

// openService builds the service. withGenerator also constructs the
// configured answer generator, which may need credentials.
func openService(withGenerator bool) (*service.RAGServiceImpl, error) {
	var gen domain.Generator
	if withGenerator {
		g, err := service.NewGenerator(appConfig.Generator)
		if err != nil {
			return nil, fmt.Errorf("failed to create generator: %w", err)
		}
		gen = g
	}
	return service.NewRAGService(appConfig, gen, logger), nil
}

// openIndexedService builds the service and loads the persisted index.
func openIndexedService(withGenerator bool) (*service.RAGServiceImpl, error) {
	svc, err := openService(withGenerator)
	if err != nil {
		return nil, err
	}
	if err := svc.LoadIndex(""); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no index at %s; run 'docintel index' first", appConfig.Index.Path)
		}
		return nil, fmt.Errorf("failed to load index: %w", err)
	}
	return svc, nil
}
