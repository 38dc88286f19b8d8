package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/phuslu/log"

	"legalrag/internal/adapter/ledger"
	"legalrag/internal/adapter/loader"
	"legalrag/internal/port"
)

// ErrNoDocuments means the resources directory held no ingestion inputs at
// all. Callers decide whether that is fatal: serve warns and keeps the
// existing collection, ingest reports it to the operator.
var ErrNoDocuments = errors.New("no documents found in resources directory")

// upsertSlice is how many chunks go to the gateway per call so progress can
// be reported; the gateway itself caps request size independently.
const upsertSlice = 250

// Ingestor runs startup ingestion: load the corpus, upsert it into the
// configured collection, record the ledger fingerprint.
type Ingestor struct {
	loader     *loader.Loader
	store      port.Store
	collection string

	// Ledger is optional; without it every run re-upserts.
	Ledger   *ledger.Ledger
	Dir      string // resources dir, for fingerprinting
	Bundle   string // bundle filename, for fingerprinting
	Progress func(done, total int)
}

func NewIngestor(l *loader.Loader, store port.Store, collection string) *Ingestor {
	return &Ingestor{loader: l, store: store, collection: collection}
}

// Close releases the ledger, if one is attached.
func (u *Ingestor) Close() error {
	if u.Ledger != nil {
		return u.Ledger.Close()
	}
	return nil
}

// IngestResult reports what an ingest run did.
type IngestResult struct {
	Chunks  int
	Skipped bool // corpus unchanged since last recorded ingest
}

// Ingest loads all inputs and upserts them. Zero input files returns
// ErrNoDocuments without touching the store; input files that yield zero
// chunks is an error, because proceeding would leave a degenerate empty
// collection serving every question the fallback answer.
func (u *Ingestor) Ingest(ctx context.Context, force bool) (*IngestResult, error) {
	fingerprint := ""
	if u.Ledger != nil {
		var err error
		fingerprint, err = ledger.ComputeFingerprint(u.Dir, u.Bundle)
		if err != nil {
			log.Warn().Err(err).Msg("failed to fingerprint resources, ingesting anyway")
		}

		if fingerprint != "" && !force {
			recorded, err := u.Ledger.Fingerprint(u.collection)
			if err == nil && recorded == fingerprint {
				log.Info().Str("collection", u.collection).Msg("corpus unchanged since last ingest, skipping")
				return &IngestResult{Skipped: true}, nil
			}
		}
	}

	result, err := u.loader.Load()
	if err != nil {
		return nil, err
	}

	if result.InputFiles == 0 {
		return nil, ErrNoDocuments
	}
	if len(result.Chunks) == 0 {
		return nil, fmt.Errorf("no content was loaded from %d input file(s)", result.InputFiles)
	}

	log.Info().Int("chunks", len(result.Chunks)).Int("files", result.InputFiles).Msg("loaded corpus, upserting")

	col, err := u.store.GetOrCreateCollection(ctx, u.collection)
	if err != nil {
		return nil, err
	}

	total := len(result.Chunks)
	for start := 0; start < total; start += upsertSlice {
		end := start + upsertSlice
		if end > total {
			end = total
		}
		if err := col.Upsert(ctx, result.Chunks[start:end]); err != nil {
			return nil, fmt.Errorf("ingestion failed: %w", err)
		}
		if u.Progress != nil {
			u.Progress(end, total)
		}
	}

	if u.Ledger != nil && fingerprint != "" {
		if err := u.Ledger.Record(u.collection, fingerprint); err != nil {
			log.Warn().Err(err).Msg("failed to record ingest fingerprint")
		}
	}

	log.Info().Int("chunks", total).Str("collection", u.collection).Msg("ingestion complete")
	return &IngestResult{Chunks: total}, nil
}
