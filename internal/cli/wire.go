package cli

import (
	"fmt"

	"github.com/phuslu/log"

	"legalrag/config"
	"legalrag/internal/adapter/chroma"
	"legalrag/internal/adapter/ledger"
	"legalrag/internal/adapter/loader"
	"legalrag/internal/port"
	"legalrag/internal/usecase"
)

// newStore connects to the configured Chroma server with the configured
// embedding function attached.
func newStore(cfg *config.Config) (port.Store, error) {
	ef, err := chroma.NewEmbeddingFunction(cfg.Embedding)
	if err != nil {
		return nil, err
	}
	store, err := chroma.NewStore(cfg.Chroma.URL, ef)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chroma at %s: %w", cfg.Chroma.URL, err)
	}
	return store, nil
}

// newIngestor wires the loader, store and ingest ledger. A ledger that fails
// to open is dropped with a warning: ingestion then just runs every time.
func newIngestor(cfg *config.Config, store port.Store) *usecase.Ingestor {
	l := loader.New(cfg.Resources.Dir, cfg.Resources.Bundle)
	ing := usecase.NewIngestor(l, store, cfg.Chroma.Collection)
	ing.Dir = cfg.Resources.Dir
	ing.Bundle = cfg.Resources.Bundle

	led, err := ledger.Open(cfg.LedgerPath())
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.LedgerPath()).Msg("ingest ledger unavailable")
	} else {
		ing.Ledger = led
	}
	return ing
}

// noDocumentsMessage is the operator-facing message when the resources
// directory holds nothing to ingest.
func noDocumentsMessage(cfg *config.Config) string {
	return "No files found in " + cfg.Resources.Dir + ". Please put law documents in .txt format in there!"
}
