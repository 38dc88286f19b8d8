package usecase

import (
	"context"
	"strings"
	"testing"

	"legalrag/internal/domain"
)

func TestAnswer_Fallback(t *testing.T) {
	store := &fakeStore{col: &fakeCollection{}}
	llm := &fakeLLM{response: "should not be called"}
	a := NewAnswerer(store, llm, "legal_documents", 5)

	got, err := a.Answer(context.Background(), "what about nothing?")
	if err != nil {
		t.Fatal(err)
	}
	if got != FallbackAnswer {
		t.Errorf("expected fallback answer, got %q", got)
	}
	if llm.calls != 0 {
		t.Errorf("expected no model call on empty retrieval, got %d", llm.calls)
	}
}

func TestAnswer_PromptContainsContextAndQuestion(t *testing.T) {
	col := &fakeCollection{
		matches: []domain.Match{
			{Chunk: domain.Chunk{ID: "txt_0", Text: "A legal paragraph."}, Distance: 0.1},
			{Chunk: domain.Chunk{ID: "txt_1", Text: "Another paragraph."}, Distance: 0.2},
		},
	}
	store := &fakeStore{col: col}
	llm := &fakeLLM{response: "Based on the statute, yes."}
	a := NewAnswerer(store, llm, "legal_documents", 5)

	question := "Is the contract enforceable?"
	got, err := a.Answer(context.Background(), question)
	if err != nil {
		t.Fatal(err)
	}

	if llm.calls != 1 {
		t.Fatalf("expected exactly one model call, got %d", llm.calls)
	}
	prompt := llm.prompts[0]
	if !strings.Contains(prompt, "A legal paragraph.") || !strings.Contains(prompt, "Another paragraph.") {
		t.Errorf("prompt missing retrieved context:\n%s", prompt)
	}
	if !strings.Contains(prompt, question) {
		t.Errorf("prompt missing question:\n%s", prompt)
	}
	// Context chunks appear in ranking order, blank-line separated.
	if !strings.Contains(prompt, "A legal paragraph.\n\nAnother paragraph.") {
		t.Errorf("context not joined in ranking order:\n%s", prompt)
	}
	if got != "Based on the statute, yes." {
		t.Errorf("model output modified: %q", got)
	}
	if col.lastK != 5 {
		t.Errorf("expected top-k 5, got %d", col.lastK)
	}
}

func TestAnswer_StripsReasoning(t *testing.T) {
	col := &fakeCollection{
		matches: []domain.Match{{Chunk: domain.Chunk{Text: "Some law."}}},
	}
	llm := &fakeLLM{response: "<think>internal deliberation\nmore</think>\nThe answer."}
	a := NewAnswerer(&fakeStore{col: col}, llm, "c", 5)

	got, err := a.Answer(context.Background(), "q")
	if err != nil {
		t.Fatal(err)
	}
	if got != "The answer." {
		t.Errorf("reasoning not stripped: %q", got)
	}
}

func TestAnswer_CitationSuffix(t *testing.T) {
	col := &fakeCollection{
		matches: []domain.Match{
			{Chunk: domain.Chunk{Text: "t1", Meta: domain.Metadata{LawNumber: "5237", Title: "Penal Code"}}},
			{Chunk: domain.Chunk{Text: "t2", Meta: domain.Metadata{LawNumber: "5237", Title: "Penal Code"}}},
			{Chunk: domain.Chunk{Text: "t3", Meta: domain.Metadata{URL: "https://example.org/x"}}},
			{Chunk: domain.Chunk{Text: "t4"}},
		},
	}
	llm := &fakeLLM{response: "Answer."}
	a := NewAnswerer(&fakeStore{col: col}, llm, "c", 5)

	got, err := a.Answer(context.Background(), "q")
	if err != nil {
		t.Fatal(err)
	}
	want := "Answer.\n\nSources: Law 5237 — Penal Code; https://example.org/x"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestAnswer_NoCitationsWithoutMetadata(t *testing.T) {
	col := &fakeCollection{
		matches: []domain.Match{{Chunk: domain.Chunk{Text: "t1", Meta: domain.Metadata{Source: "text_file", Type: "paragraph"}}}},
	}
	llm := &fakeLLM{response: "Answer."}
	a := NewAnswerer(&fakeStore{col: col}, llm, "c", 5)

	got, err := a.Answer(context.Background(), "q")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Answer." {
		t.Errorf("unexpected citation suffix: %q", got)
	}
}

func TestAnswer_QueryError(t *testing.T) {
	col := &fakeCollection{queryErr: errStoreDown}
	a := NewAnswerer(&fakeStore{col: col}, &fakeLLM{}, "c", 5)

	if _, err := a.Answer(context.Background(), "q"); err == nil {
		t.Fatal("expected error when retrieval fails")
	}
}

func TestAnswer_BindOnce(t *testing.T) {
	store := &fakeStore{col: &fakeCollection{matches: []domain.Match{{Chunk: domain.Chunk{Text: "t"}}}}}
	a := NewAnswerer(store, &fakeLLM{response: "x"}, "legal_documents", 5)

	for i := 0; i < 3; i++ {
		if _, err := a.Answer(context.Background(), "q"); err != nil {
			t.Fatal(err)
		}
	}
	if store.getCalls != 1 {
		t.Errorf("expected a single collection bind, got %d", store.getCalls)
	}
	if store.collection != "legal_documents" {
		t.Errorf("bound wrong collection: %s", store.collection)
	}
}

func TestAnswerFiltered_ForwardsFilter(t *testing.T) {
	col := &fakeCollection{matches: []domain.Match{{Chunk: domain.Chunk{Text: "t"}}}}
	a := NewAnswerer(&fakeStore{col: col}, &fakeLLM{response: "x"}, "c", 5)

	filter := &domain.Filter{Key: "law_number", Value: "5237"}
	if _, err := a.AnswerFiltered(context.Background(), "q", filter); err != nil {
		t.Fatal(err)
	}
	if col.lastFilter == nil || *col.lastFilter != *filter {
		t.Errorf("filter not forwarded: %+v", col.lastFilter)
	}
}

func TestStats(t *testing.T) {
	col := &fakeCollection{
		peeked: []domain.Chunk{
			{Meta: domain.Metadata{ChunkType: "statute", LawNumber: "5237"}},
			{Meta: domain.Metadata{Type: "paragraph"}},
			{Meta: domain.Metadata{Type: "statute", LawNumber: "5237"}},
			{Meta: domain.Metadata{LawNumber: "5271"}},
		},
	}
	col.upserted = append(col.upserted, make([]domain.Chunk, 1234))
	a := NewAnswerer(&fakeStore{col: col}, &fakeLLM{}, "c", 5)

	stats, err := a.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalChunks != 1234 {
		t.Errorf("expected total 1234, got %d", stats.TotalChunks)
	}
	if stats.SampleSize != 4 {
		t.Errorf("expected sample size 4, got %d", stats.SampleSize)
	}
	// chunk_type wins over type; missing both buckets as unknown.
	if stats.TypeCounts["statute"] != 2 || stats.TypeCounts["paragraph"] != 1 || stats.TypeCounts["unknown"] != 1 {
		t.Errorf("unexpected type counts: %v", stats.TypeCounts)
	}
	if len(stats.SampleLawNumbers) != 2 {
		t.Errorf("expected 2 distinct sample law numbers, got %v", stats.SampleLawNumbers)
	}
}
