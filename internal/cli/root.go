package cli

import (
	"fmt"
	"os"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"legalrag/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "legalrag",
	Short: "Retrieval-augmented question answering over legal text corpora",
	Long: `legalrag ingests legal documents into a Chroma vector store and answers
natural-language legal questions by retrieving relevant passages and asking a
language model to synthesize an answer from them.

Example usage:
  legalrag ingest                       # Load ./resources into the vector store
  legalrag serve                        # Ingest, then serve the HTTP API
  legalrag ask -q "Is the lease valid?" # One-shot answer on the command line`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			wd, werr := os.Getwd()
			if werr != nil {
				return fmt.Errorf("failed to get working directory: %w", werr)
			}
			cfg, err = config.LoadFromDir(wd)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		initLogging(cfg.Logging.Level)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./legalrag.yaml)")
}

func initLogging(level string) {
	log.DefaultLogger = log.Logger{
		Level:      log.ParseLevel(level),
		TimeFormat: "15:04:05",
		Writer: &log.ConsoleWriter{
			ColorOutput: true,
		},
	}
}

func GetConfig() *config.Config {
	return cfg
}
