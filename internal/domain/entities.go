package domain

import "strings"

// Chunk is a unit of retrievable text plus its metadata and unique id.
// Ids are unique within a collection; upserting an existing id overwrites.
type Chunk struct {
	ID   string
	Text string
	Meta Metadata
}

// Metadata carries the per-chunk fields the pipeline knows how to cite.
// The bundle may carry more keys; anything beyond these is dropped on load.
type Metadata struct {
	Source    string `json:"source,omitempty"`
	Type      string `json:"type,omitempty"`
	ChunkType string `json:"chunk_type,omitempty"`
	LawNumber string `json:"law_number,omitempty"`
	Title     string `json:"title,omitempty"`
	URL       string `json:"url,omitempty"`
}

// Kind returns the effective chunk type, preferring chunk_type over type.
func (m Metadata) Kind() string {
	if m.ChunkType != "" {
		return m.ChunkType
	}
	if m.Type != "" {
		return m.Type
	}
	return "unknown"
}

// Citation returns a human-readable source reference for the chunk, or ""
// when the metadata carries nothing citable.
func (m Metadata) Citation() string {
	if m.LawNumber != "" {
		if m.Title != "" {
			return "Law " + m.LawNumber + " — " + m.Title
		}
		return "Law " + m.LawNumber
	}
	if m.URL != "" {
		return m.URL
	}
	return ""
}

// Match is one query result: a chunk and its distance to the query.
// Lower distance means more similar.
type Match struct {
	Chunk    Chunk
	Distance float64
}

// Filter restricts query candidates to chunks whose metadata key equals value.
type Filter struct {
	Key   string
	Value string
}

// CollectionStats is a best-effort diagnostic built from the collection count
// and a bounded sample. It is not an exact aggregate: the type breakdown and
// law numbers come from at most SampleSize chunks.
type CollectionStats struct {
	TotalChunks      int            `json:"total_chunks"`
	TypeCounts       map[string]int `json:"type_counts"`
	SampleLawNumbers []string       `json:"sample_law_numbers"`
	SampleSize       int            `json:"sample_size"`
}

// BuildStats derives CollectionStats from a total count and a peeked sample.
func BuildStats(total int, sample []Chunk) CollectionStats {
	stats := CollectionStats{
		TotalChunks: total,
		TypeCounts:  make(map[string]int),
		SampleSize:  len(sample),
	}

	seen := make(map[string]bool)
	for _, c := range sample {
		stats.TypeCounts[c.Meta.Kind()]++
		if n := c.Meta.LawNumber; n != "" && !seen[n] {
			seen[n] = true
			stats.SampleLawNumbers = append(stats.SampleLawNumbers, n)
		}
	}

	return stats
}

// Citations collects the distinct citations of the matches in ranking order.
func Citations(matches []Match) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range matches {
		c := m.Chunk.Meta.Citation()
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// ContextText joins the matched chunk texts in ranking order, separated by a
// blank line, for inclusion in the model prompt.
func ContextText(matches []Match) string {
	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.Chunk.Text
	}
	return strings.Join(texts, "\n\n")
}
