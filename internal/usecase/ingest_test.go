package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"legalrag/internal/adapter/ledger"
	"legalrag/internal/adapter/loader"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestIngest_EmptyDir(t *testing.T) {
	dir := t.TempDir()
	store := &fakeStore{col: &fakeCollection{}}
	u := NewIngestor(loader.New(dir, "legal_dataset.json"), store, "legal_documents")

	_, err := u.Ingest(context.Background(), false)
	if !errors.Is(err, ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
	if store.getCalls != 0 {
		t.Error("store must not be touched when there are no inputs")
	}
}

func TestIngest_FilesButNoContent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.txt", "   \n\n  ")
	store := &fakeStore{col: &fakeCollection{}}
	u := NewIngestor(loader.New(dir, ""), store, "legal_documents")

	_, err := u.Ingest(context.Background(), false)
	if err == nil || errors.Is(err, ErrNoDocuments) {
		t.Fatalf("expected a distinct fatal error for empty content, got %v", err)
	}
	if len(store.col.upserted) != 0 {
		t.Error("nothing should be upserted for empty content")
	}
}

func TestIngest_UpsertsAllChunks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "p1\n\np2")
	writeFile(t, dir, "b.txt", "p3")

	store := &fakeStore{col: &fakeCollection{}}
	u := NewIngestor(loader.New(dir, ""), store, "legal_documents")

	var lastDone, lastTotal int
	u.Progress = func(done, total int) { lastDone, lastTotal = done, total }

	result, err := u.Ingest(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}

	if result.Chunks != 3 || result.Skipped {
		t.Errorf("unexpected result %+v", result)
	}
	if store.col.totalUpserted() != 3 {
		t.Errorf("expected 3 chunks upserted, got %d", store.col.totalUpserted())
	}
	if lastDone != 3 || lastTotal != 3 {
		t.Errorf("progress not reported to completion: %d/%d", lastDone, lastTotal)
	}
	if store.collection != "legal_documents" {
		t.Errorf("wrong collection: %s", store.collection)
	}
}

func TestIngest_SkipsUnchangedCorpus(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "p1")

	led, err := ledger.Open(filepath.Join(t.TempDir(), "ingest.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer led.Close()

	store := &fakeStore{col: &fakeCollection{}}
	u := NewIngestor(loader.New(dir, ""), store, "legal_documents")
	u.Ledger = led
	u.Dir = dir

	first, err := u.Ingest(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if first.Skipped || first.Chunks != 1 {
		t.Fatalf("first ingest should upsert: %+v", first)
	}

	second, err := u.Ingest(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Skipped {
		t.Error("second ingest of unchanged corpus should skip")
	}
	if store.col.totalUpserted() != 1 {
		t.Errorf("unchanged corpus re-upserted: %d chunks", store.col.totalUpserted())
	}

	// Force overrides the ledger.
	forced, err := u.Ingest(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	if forced.Skipped {
		t.Error("forced ingest must not skip")
	}
}

func TestIngest_ReingestsChangedCorpus(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "p1")

	led, err := ledger.Open(filepath.Join(t.TempDir(), "ingest.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer led.Close()

	store := &fakeStore{col: &fakeCollection{}}
	u := NewIngestor(loader.New(dir, ""), store, "legal_documents")
	u.Ledger = led
	u.Dir = dir

	if _, err := u.Ingest(context.Background(), false); err != nil {
		t.Fatal(err)
	}

	writeFile(t, dir, "b.txt", "p2")

	result, err := u.Ingest(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if result.Skipped {
		t.Error("changed corpus must re-ingest")
	}
	if result.Chunks != 2 {
		t.Errorf("expected 2 chunks on re-ingest, got %d", result.Chunks)
	}
}
