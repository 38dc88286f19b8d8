package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/phuslu/log"

	"legalrag/internal/domain"
)

const textFilePattern = "*.txt"

// maxReaders bounds the parallel file-read fan-out.
const maxReaders = 10

// Loader produces the chunk set for a resources directory: blank-line
// delimited paragraphs from every text file, plus the structured bundle
// when present.
type Loader struct {
	dir    string
	bundle string // bundle filename within dir, "" disables
}

func New(dir, bundle string) *Loader {
	return &Loader{dir: dir, bundle: bundle}
}

// Result is the outcome of a Load. InputFiles counts every input considered
// (text files plus the bundle), so callers can tell "no inputs at all" apart
// from "inputs that produced no content".
type Result struct {
	Chunks     []domain.Chunk
	InputFiles int
}

// Load reads all supported inputs. Text files are read with a bounded worker
// pool, but chunks are reassembled in file-list order before id assignment so
// that txt_<n> ids are stable regardless of completion order. An unreadable
// file is logged and contributes zero chunks.
func (l *Loader) Load() (*Result, error) {
	files, err := l.listTextFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to scan resources dir: %w", err)
	}

	result := &Result{InputFiles: len(files)}

	paragraphs := l.readAll(files)

	n := 0
	for i, file := range files {
		for _, p := range paragraphs[i] {
			result.Chunks = append(result.Chunks, domain.Chunk{
				ID:   fmt.Sprintf("txt_%d", n),
				Text: p,
				Meta: domain.Metadata{Source: "text_file", Type: "paragraph"},
			})
			n++
		}
		log.Debug().Str("file", file).Int("paragraphs", len(paragraphs[i])).Msg("loaded text file")
	}

	if l.bundle != "" {
		path := filepath.Join(l.dir, l.bundle)
		if _, err := os.Stat(path); err == nil {
			result.InputFiles++
			chunks, err := loadBundle(path)
			if err != nil {
				log.Error().Err(err).Str("file", path).Msg("failed to load bundle")
			} else {
				result.Chunks = append(result.Chunks, chunks...)
			}
		}
	}

	return result, nil
}

// listTextFiles returns the *.txt files of the resources dir in name order.
func (l *Loader) listTextFiles() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		matched, err := doublestar.Match(textFilePattern, e.Name())
		if err == nil && matched {
			files = append(files, filepath.Join(l.dir, e.Name()))
		}
	}
	return files, nil
}

// readAll reads the files with at most min(maxReaders, len(files)) workers.
// The returned slice is indexed by file position, not completion order.
func (l *Loader) readAll(files []string) [][]string {
	paragraphs := make([][]string, len(files))
	if len(files) == 0 {
		return paragraphs
	}

	workers := maxReaders
	if len(files) < workers {
		workers = len(files)
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, path := range files {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			data, err := os.ReadFile(path)
			if err != nil {
				log.Error().Err(err).Str("file", path).Msg("failed to read text file")
				return
			}
			paragraphs[i] = SplitParagraphs(string(data))
		}(i, path)
	}
	wg.Wait()

	return paragraphs
}

// SplitParagraphs splits text on blank-line boundaries, trims whitespace and
// drops empty paragraphs.
func SplitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
