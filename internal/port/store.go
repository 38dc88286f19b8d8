package port

import (
	"context"

	"legalrag/internal/domain"
)

// Store is the gateway to the vector database. Embeddings are computed by the
// store (or its attached embedding function) and are opaque to callers.
type Store interface {
	// GetOrCreateCollection returns the named collection, creating it on
	// first access. Idempotent: repeat calls with the same name return the
	// same underlying collection, across process restarts.
	GetOrCreateCollection(ctx context.Context, name string) (Collection, error)

	// DeleteCollection removes a collection and its contents.
	DeleteCollection(ctx context.Context, name string) error

	// ListCollections returns the names of all collections.
	ListCollections(ctx context.Context) ([]string, error)

	Close() error
}

// Collection is a named, persistent set of chunks and their embeddings.
type Collection interface {
	Name() string

	// Upsert inserts or overwrites chunks by id. Implementations batch
	// internally to bound request size; earlier batches are not rolled back
	// when a later batch fails.
	Upsert(ctx context.Context, chunks []domain.Chunk) error

	// Query returns the k chunks most similar to text, ordered by ascending
	// distance. A non-nil filter restricts candidates by metadata equality
	// before ranking.
	Query(ctx context.Context, text string, k int, filter *domain.Filter) ([]domain.Match, error)

	// Count returns the total number of chunks stored.
	Count(ctx context.Context) (int, error)

	// Peek returns up to limit chunks for diagnostics.
	Peek(ctx context.Context, limit int) ([]domain.Chunk, error)
}
