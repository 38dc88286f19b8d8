package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"legalrag/internal/adapter/cache"
	"legalrag/internal/adapter/llm"
	"legalrag/internal/server"
	"legalrag/internal/usecase"
)

var serveReingest bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Ingest the corpus and serve the HTTP API",
	Long: `Run startup ingestion over the resources directory, then serve the
question-answering API until interrupted.

Examples:
  legalrag serve
  legalrag serve --reingest   # re-upsert even if the corpus is unchanged`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveReingest, "reingest", false, "re-ingest even if the corpus is unchanged")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ing := newIngestor(cfg, store)
	defer ing.Close()

	if _, err := ing.Ingest(ctx, serveReingest); err != nil {
		if errors.Is(err, usecase.ErrNoDocuments) {
			// Serve whatever the collection already holds.
			log.Warn().Msg(noDocumentsMessage(cfg))
		} else {
			return err
		}
	}

	answerer := usecase.NewAnswerer(store, llm.NewClient(cfg.LLM), cfg.Chroma.Collection, cfg.Retrieve.TopK)
	if err := answerer.Bind(ctx); err != nil {
		return err
	}

	pipeline := cache.NewCachedPipeline(answerer, cache.NewAnswerCache(0, 0))
	srv := server.New(cfg.Server, pipeline)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr()).Msg("serving legal QA API")
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSeconds)*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
