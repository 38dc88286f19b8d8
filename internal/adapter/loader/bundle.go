package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"legalrag/internal/domain"
)

// bundleFile is the pre-scraped statute dataset: parallel arrays of document
// text, metadata and ids. Arrays may be absent or of unequal length; the
// loaded set is truncated to the shortest array that is present.
type bundleFile struct {
	Documents []string          `json:"documents"`
	Metadatas []domain.Metadata `json:"metadatas"`
	IDs       []string          `json:"ids"`
}

// loadBundle reads the structured bundle verbatim. Bundle ids and metadata
// take precedence over generated values; a missing id falls back to a
// deterministic bundle_<n>.
func loadBundle(path string) ([]domain.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var bundle bundleFile
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("malformed bundle: %w", err)
	}

	n := len(bundle.Documents)
	if len(bundle.IDs) > 0 && len(bundle.IDs) < n {
		n = len(bundle.IDs)
	}
	if len(bundle.Metadatas) > 0 && len(bundle.Metadatas) < n {
		n = len(bundle.Metadatas)
	}

	chunks := make([]domain.Chunk, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("bundle_%d", i)
		if len(bundle.IDs) > 0 {
			id = bundle.IDs[i]
		}

		meta := domain.Metadata{Source: "unknown"}
		if len(bundle.Metadatas) > 0 {
			meta = bundle.Metadatas[i]
		}

		chunks = append(chunks, domain.Chunk{
			ID:   id,
			Text: bundle.Documents[i],
			Meta: meta,
		})
	}

	return chunks, nil
}
