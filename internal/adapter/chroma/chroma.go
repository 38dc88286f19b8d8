package chroma

import (
	"context"
	"fmt"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/phuslu/log"

	"legalrag/internal/domain"
	"legalrag/internal/port"
)

// upsertBatchSize bounds the per-request payload regardless of corpus size.
const upsertBatchSize = 1000

// Store wraps a Chroma server behind port.Store. Embeddings are computed by
// the embedding function attached at collection creation and never surface
// here.
type Store struct {
	client chroma.Client
	ef     embeddings.EmbeddingFunction
}

// NewStore connects to the Chroma server at baseURL. The embedding function
// is attached to every collection created through this store.
func NewStore(baseURL string, ef embeddings.EmbeddingFunction) (*Store, error) {
	client, err := chroma.NewHTTPClient(chroma.WithBaseURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create chroma client: %w", err)
	}
	return &Store{client: client, ef: ef}, nil
}

// GetOrCreateCollection returns the named collection, creating it on first
// access. Idempotent across calls and process restarts.
func (s *Store) GetOrCreateCollection(ctx context.Context, name string) (port.Collection, error) {
	col, err := s.client.GetOrCreateCollection(ctx, name,
		chroma.WithEmbeddingFunctionCreate(s.ef),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create collection %s: %w", name, err)
	}
	return &Collection{col: col}, nil
}

// DeleteCollection removes a collection. Administrative: the error is logged
// and returned as a value, never treated as fatal by callers.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	if err := s.client.DeleteCollection(ctx, name); err != nil {
		log.Error().Err(err).Str("collection", name).Msg("failed to delete collection")
		return err
	}
	log.Info().Str("collection", name).Msg("deleted collection")
	return nil
}

// ListCollections returns all collection names.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	cols, err := s.client.ListCollections(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list collections")
		return nil, err
	}
	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.Name())
	}
	return names, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// Collection adapts a chroma collection to port.Collection.
type Collection struct {
	col chroma.Collection
}

func (c *Collection) Name() string {
	return c.col.Name()
}

// Upsert inserts or overwrites chunks by id, batching the request at
// upsertBatchSize. Earlier batches are not rolled back when a later batch
// fails; the error names the failing range.
func (c *Collection) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	for start := 0; start < len(chunks); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		ids := make([]chroma.DocumentID, len(batch))
		texts := make([]string, len(batch))
		metas := make([]chroma.DocumentMetadata, len(batch))
		for i, chunk := range batch {
			ids[i] = chroma.DocumentID(chunk.ID)
			texts[i] = chunk.Text
			metas[i] = toDocumentMetadata(chunk.Meta)
		}

		err := c.col.Upsert(ctx,
			chroma.WithIDs(ids...),
			chroma.WithTexts(texts...),
			chroma.WithMetadatas(metas...),
		)
		if err != nil {
			return fmt.Errorf("upsert failed for chunks %d-%d: %w", start, end-1, err)
		}
	}
	return nil
}

// Query returns the k chunks most similar to text, ordered by ascending
// distance. The optional filter is forwarded to the store as a metadata
// equality clause.
func (c *Collection) Query(ctx context.Context, text string, k int, filter *domain.Filter) ([]domain.Match, error) {
	opts := []chroma.CollectionQueryOption{
		chroma.WithQueryTexts(text),
		chroma.WithNResults(k),
		chroma.WithIncludeQuery(chroma.IncludeDocuments, chroma.IncludeMetadatas, chroma.Include("distances")),
	}
	if filter != nil {
		opts = append(opts, chroma.WithWhereQuery(chroma.EqString(filter.Key, filter.Value)))
	}

	res, err := c.col.Query(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	// Single query text, so only the first result group matters.
	idGroups := res.GetIDGroups()
	docGroups := res.GetDocumentsGroups()
	metaGroups := res.GetMetadatasGroups()
	distGroups := res.GetDistancesGroups()
	if len(docGroups) == 0 {
		return nil, nil
	}

	matches := make([]domain.Match, 0, len(docGroups[0]))
	for i, doc := range docGroups[0] {
		m := domain.Match{
			Chunk: domain.Chunk{Text: doc.ContentString()},
		}
		if len(idGroups) > 0 && i < len(idGroups[0]) {
			m.Chunk.ID = string(idGroups[0][i])
		}
		if len(metaGroups) > 0 && i < len(metaGroups[0]) {
			m.Chunk.Meta = fromDocumentMetadata(metaGroups[0][i])
		}
		if len(distGroups) > 0 && i < len(distGroups[0]) {
			m.Distance = float64(distGroups[0][i])
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (c *Collection) Count(ctx context.Context) (int, error) {
	count, err := c.col.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count failed: %w", err)
	}
	return count, nil
}

// Peek returns up to limit chunks for diagnostics.
func (c *Collection) Peek(ctx context.Context, limit int) ([]domain.Chunk, error) {
	res, err := c.col.Get(ctx,
		chroma.WithLimitGet(limit),
		chroma.WithIncludeGet(chroma.IncludeDocuments, chroma.IncludeMetadatas),
	)
	if err != nil {
		return nil, fmt.Errorf("peek failed: %w", err)
	}

	ids := res.GetIDs()
	docs := res.GetDocuments()
	metas := res.GetMetadatas()

	chunks := make([]domain.Chunk, 0, len(docs))
	for i, doc := range docs {
		chunk := domain.Chunk{Text: doc.ContentString()}
		if i < len(ids) {
			chunk.ID = string(ids[i])
		}
		if i < len(metas) {
			chunk.Meta = fromDocumentMetadata(metas[i])
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}
