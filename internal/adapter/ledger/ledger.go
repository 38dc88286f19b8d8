package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.etcd.io/bbolt"
)

var bucketIngests = []byte("ingests")

// Ledger records the fingerprint of the last successful ingest per
// collection, so an unchanged corpus is not re-upserted on every start.
type Ledger struct {
	db *bbolt.DB
}

// Open opens (or creates) the ledger database, creating parent directories
// as needed.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger dir: %w", err)
	}

	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketIngests)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

// Fingerprint returns the recorded fingerprint for a collection, or "" when
// none was recorded.
func (l *Ledger) Fingerprint(collection string) (string, error) {
	var fp string
	err := l.db.View(func(tx *bbolt.Tx) error {
		fp = string(tx.Bucket(bucketIngests).Get([]byte(collection)))
		return nil
	})
	return fp, err
}

// Record stores the fingerprint of a completed ingest.
func (l *Ledger) Record(collection, fingerprint string) error {
	return l.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketIngests).Put([]byte(collection), []byte(fingerprint))
	})
}

// ComputeFingerprint hashes the identity of every ingestion input (text files
// and the bundle): path, size and mtime. Any added, removed or touched input
// changes the fingerprint.
func ComputeFingerprint(dir, bundle string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	h := sha256.New()
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		matched, merr := doublestar.Match("*.txt", e.Name())
		isBundle := bundle != "" && e.Name() == bundle
		if (merr != nil || !matched) && !isBundle {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		fmt.Fprintf(h, "%s|%d|%d\n", e.Name(), info.Size(), info.ModTime().UnixNano())
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
