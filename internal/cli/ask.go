package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"legalrag/internal/adapter/llm"
	"legalrag/internal/domain"
	"legalrag/internal/usecase"
)

var (
	askQuestion string
	askLaw      string
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a legal question from the command line",
	Long: `Retrieve the most relevant passages for a question and ask the language
model for an answer, without going through the HTTP API.

Examples:
  legalrag ask -q "Is a verbal lease agreement binding?"
  legalrag ask -q "What is the penalty for defamation?" --law 5237`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "legal question (required)")
	askCmd.Flags().StringVar(&askLaw, "law", "", "restrict retrieval to a law number")
	askCmd.MarkFlagRequired("question")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	answerer := usecase.NewAnswerer(store, llm.NewClient(cfg.LLM), cfg.Chroma.Collection, cfg.Retrieve.TopK)

	var filter *domain.Filter
	if askLaw != "" {
		filter = &domain.Filter{Key: "law_number", Value: askLaw}
	}

	answer, err := answerer.AnswerFiltered(context.Background(), askQuestion, filter)
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}
