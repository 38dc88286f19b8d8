package usecase

import (
	"context"
	"errors"

	"legalrag/internal/domain"
	"legalrag/internal/port"
)

// fakeStore hands out a single fakeCollection and counts lookups.
type fakeStore struct {
	col        *fakeCollection
	getCalls   int
	getErr     error
	collection string
}

func (s *fakeStore) GetOrCreateCollection(ctx context.Context, name string) (port.Collection, error) {
	s.getCalls++
	s.collection = name
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.col, nil
}

func (s *fakeStore) DeleteCollection(ctx context.Context, name string) error { return nil }
func (s *fakeStore) ListCollections(ctx context.Context) ([]string, error)   { return nil, nil }
func (s *fakeStore) Close() error                                            { return nil }

// fakeCollection records upserts and serves canned query results.
type fakeCollection struct {
	upserted   [][]domain.Chunk
	matches    []domain.Match
	queryErr   error
	lastQuery  string
	lastK      int
	lastFilter *domain.Filter
	peeked     []domain.Chunk
}

func (c *fakeCollection) Name() string { return "fake" }

func (c *fakeCollection) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	cp := make([]domain.Chunk, len(chunks))
	copy(cp, chunks)
	c.upserted = append(c.upserted, cp)
	return nil
}

func (c *fakeCollection) Query(ctx context.Context, text string, k int, filter *domain.Filter) ([]domain.Match, error) {
	c.lastQuery = text
	c.lastK = k
	c.lastFilter = filter
	if c.queryErr != nil {
		return nil, c.queryErr
	}
	return c.matches, nil
}

func (c *fakeCollection) Count(ctx context.Context) (int, error) {
	total := 0
	for _, batch := range c.upserted {
		total += len(batch)
	}
	return total, nil
}

func (c *fakeCollection) Peek(ctx context.Context, limit int) ([]domain.Chunk, error) {
	if limit < len(c.peeked) {
		return c.peeked[:limit], nil
	}
	return c.peeked, nil
}

func (c *fakeCollection) totalUpserted() int {
	total := 0
	for _, batch := range c.upserted {
		total += len(batch)
	}
	return total
}

// fakeLLM records prompts and replies with a fixed response.
type fakeLLM struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (l *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	l.calls++
	l.prompts = append(l.prompts, prompt)
	if l.err != nil {
		return "", l.err
	}
	return l.response, nil
}

func (l *fakeLLM) GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return l.Generate(ctx, systemPrompt+"\n"+userPrompt)
}

func (l *fakeLLM) ModelName() string { return "fake-model" }

var errStoreDown = errors.New("store down")
