package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"legalrag/config"
	"legalrag/internal/adapter/chroma"
)

func main() {
	cfgDir := flag.String("dir", ".", "Directory holding legalrag.yaml")
	query := flag.String("q", "", "Question to test retrieval for")
	topK := flag.Int("k", 5, "Number of results")
	flag.Parse()

	if *query == "" {
		fmt.Println("Usage: go run cmd/benchmark/main.go -q \"question\"")
		fmt.Println("\nTests:")
		fmt.Println("  1. Embedding infrastructure (Ollama connection, Chroma collection)")
		fmt.Println("  2. Semantic similarity (question vs retrieved paragraphs)")
		fmt.Println("  3. Citation coverage (law numbers on retrieved chunks)")
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(*cfgDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	ef, err := chroma.NewEmbeddingFunction(cfg.Embedding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Embedder init failed: %v\n", err)
		os.Exit(1)
	}

	st, err := chroma.NewStore(cfg.Chroma.URL, ef)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to Chroma: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx := context.Background()

	col, err := st.GetOrCreateCollection(ctx, cfg.Chroma.Collection)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening collection: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("RETRIEVAL BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))

	count, _ := col.Count(ctx)
	fmt.Printf("Chunks indexed: %d\n", count)
	fmt.Printf("Model: %s (%s)\n", cfg.Embedding.Model, cfg.Embedding.Provider)
	fmt.Println()

	fmt.Printf("Question: \"%s\"\n", *query)
	fmt.Println(strings.Repeat("-", 70))

	matches, err := col.Query(ctx, *query, *topK, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Query error: %v\n", err)
		os.Exit(1)
	}
	if len(matches) == 0 {
		fmt.Println("No matches. Run 'legalrag ingest' first.")
		os.Exit(1)
	}

	fmt.Printf("Top %d matches:\n\n", len(matches))

	cited := 0
	totalDist := 0.0
	for i, m := range matches {
		preview := m.Chunk.Text
		if len(preview) > 150 {
			preview = preview[:150] + "..."
		}
		preview = strings.ReplaceAll(preview, "\n", " ")

		totalDist += m.Distance

		rating := "FAR"
		if m.Distance < 0.3 {
			rating = "CLOSE"
		} else if m.Distance < 0.6 {
			rating = "GOOD"
		} else if m.Distance < 1.0 {
			rating = "OK"
		}

		citation := m.Chunk.Meta.Citation()
		if citation != "" {
			cited++
		} else {
			citation = "(no citation)"
		}

		fmt.Printf("%d. [%s %.3f] %s — %s\n", i+1, rating, m.Distance, m.Chunk.ID, citation)
		fmt.Printf("   %s\n\n", preview)
	}

	avgDist := totalDist / float64(len(matches))
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("QUALITY METRICS:\n")
	fmt.Printf("  Average distance: %.3f\n", avgDist)
	fmt.Printf("  Top-1 distance:   %.3f\n", matches[0].Distance)
	fmt.Printf("  Chunks with citations: %d/%d\n", cited, len(matches))

	if avgDist < 0.6 {
		fmt.Println("  Status: GOOD - retrieval working well")
	} else if avgDist < 1.0 {
		fmt.Println("  Status: OK - results are somewhat related")
	} else {
		fmt.Println("  Status: POOR - may need better embeddings or re-ingestion")
	}
}
