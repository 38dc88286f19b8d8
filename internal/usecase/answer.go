package usecase

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/phuslu/log"

	"legalrag/internal/domain"
	"legalrag/internal/port"
)

//go:embed templates/*.txt
var promptTemplates embed.FS

// FallbackAnswer is returned when retrieval finds nothing relevant. The model
// is deliberately not called in that case: an empty context invites
// hallucinated answers and wastes a model call.
const FallbackAnswer = "I couldn't find relevant information to answer your question."

// StatsPeekLimit is the fixed sample size for collection stats.
const StatsPeekLimit = 5

var counselTemplate = template.Must(
	template.ParseFS(promptTemplates, "templates/legal_counsel.txt"))

// Answerer is the query-time pipeline: retrieve top-k chunks, build the
// counsel prompt, call the model, clean the output. It holds the single
// lazily-bound collection handle; each query is otherwise stateless.
type Answerer struct {
	store      port.Store
	llm        port.LLM
	collection string
	topK       int

	mu  sync.Mutex
	col port.Collection
}

func NewAnswerer(store port.Store, llm port.LLM, collection string, topK int) *Answerer {
	if topK <= 0 {
		topK = 5
	}
	return &Answerer{
		store:      store,
		llm:        llm,
		collection: collection,
		topK:       topK,
	}
}

// Bind resolves the collection handle eagerly. Answer binds lazily on first
// use, so calling Bind is optional; serve does it at startup to fail fast.
func (a *Answerer) Bind(ctx context.Context) error {
	_, err := a.ensureCollection(ctx)
	return err
}

// ensureCollection binds the collection once. The store's get-or-create is
// idempotent, so a lost race costs only a duplicate lookup.
func (a *Answerer) ensureCollection(ctx context.Context) (port.Collection, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.col != nil {
		return a.col, nil
	}
	col, err := a.store.GetOrCreateCollection(ctx, a.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to bind collection %s: %w", a.collection, err)
	}
	a.col = col
	return col, nil
}

// Answer retrieves context for the question and asks the model.
func (a *Answerer) Answer(ctx context.Context, question string) (string, error) {
	return a.AnswerFiltered(ctx, question, nil)
}

// AnswerFiltered additionally restricts retrieval candidates by a metadata
// equality filter.
func (a *Answerer) AnswerFiltered(ctx context.Context, question string, filter *domain.Filter) (string, error) {
	col, err := a.ensureCollection(ctx)
	if err != nil {
		return "", err
	}

	log.Info().Str("question", truncate(question, 50)).Msg("querying vector store")

	matches, err := col.Query(ctx, question, a.topK, filter)
	if err != nil {
		return "", fmt.Errorf("retrieval failed: %w", err)
	}

	if len(matches) == 0 {
		log.Warn().Msg("no relevant documents found for the query")
		return FallbackAnswer, nil
	}

	prompt, err := buildPrompt(question, domain.ContextText(matches))
	if err != nil {
		return "", err
	}

	log.Info().Int("matches", len(matches)).Str("model", a.llm.ModelName()).Msg("generating answer")

	raw, err := a.llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}

	answer := StripReasoning(raw)
	if citations := domain.Citations(matches); len(citations) > 0 {
		answer += "\n\nSources: " + strings.Join(citations, "; ")
	}
	return answer, nil
}

// Stats returns the bounded-sample diagnostic for the bound collection.
func (a *Answerer) Stats(ctx context.Context) (domain.CollectionStats, error) {
	col, err := a.ensureCollection(ctx)
	if err != nil {
		return domain.CollectionStats{}, err
	}
	return CollectionStats(ctx, col)
}

// CollectionStats builds stats from the collection count and a fixed-size
// peek; it never scans the whole collection.
func CollectionStats(ctx context.Context, col port.Collection) (domain.CollectionStats, error) {
	count, err := col.Count(ctx)
	if err != nil {
		return domain.CollectionStats{}, err
	}
	sample, err := col.Peek(ctx, StatsPeekLimit)
	if err != nil {
		return domain.CollectionStats{}, err
	}
	return domain.BuildStats(count, sample), nil
}

type promptData struct {
	Question string
	Context  string
}

func buildPrompt(question, context string) (string, error) {
	var buf bytes.Buffer
	if err := counselTemplate.Execute(&buf, promptData{Question: question, Context: context}); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return buf.String(), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
