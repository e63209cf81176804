// Package bolt provides a persistent RunCache backed by bbolt.
//
// Memoized runs survive restarts, so a later `ask` against an already
// processed document reuses its namespace in the persistent vector store.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure RunCache implements the interface.
var _ driven.RunCache = (*RunCache)(nil)

// DatabaseFile is the file name created inside the data directory.
const DatabaseFile = "runs.db"

var bucketRuns = []byte("runs")

// runRecord is the stored JSON form of a DocumentRun.
type runRecord struct {
	Namespace    string `json:"namespace"`
	DocumentURL  string `json:"document_url"`
	DocumentType string `json:"document_type"`
	Chunks       int    `json:"chunks"`
	Embeddings   int    `json:"embeddings"`
	Stored       int    `json:"stored"`
	Stage        string `json:"stage"`
	CompletedAt  int64  `json:"completed_at"`
}

// RunCache stores document runs in a bbolt database.
type RunCache struct {
	db *bbolt.DB
}

// NewRunCache opens or creates the run cache in dataDir.
// If dataDir is empty, defaults to ~/.docqa/data.
func NewRunCache(dataDir string) (*RunCache, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docqa", "data")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := bbolt.Open(filepath.Join(dataDir, DatabaseFile), 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketRuns); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketRuns, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &RunCache{db: db}, nil
}

// Get returns the run stored under key, or domain.ErrNotFound.
func (c *RunCache) Get(_ context.Context, key string) (*domain.DocumentRun, error) {
	var run *domain.DocumentRun
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketRuns).Get([]byte(key))
		if data == nil {
			return domain.ErrNotFound
		}
		var rec runRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("decoding run %s: %w", key, err)
		}
		run = &domain.DocumentRun{
			Namespace:   rec.Namespace,
			Document:    domain.DocumentRef{URL: rec.DocumentURL, Type: domain.DocumentType(rec.DocumentType)},
			Chunks:      rec.Chunks,
			Embeddings:  rec.Embeddings,
			Stored:      rec.Stored,
			Stage:       domain.RunStage(rec.Stage),
			CompletedAt: time.Unix(0, rec.CompletedAt).UTC(),
		}
		return nil
	})
	return run, err
}

// Put stores run under key, replacing any previous entry.
func (c *RunCache) Put(_ context.Context, key string, run *domain.DocumentRun) error {
	if run == nil {
		return domain.ErrInvalidInput
	}

	data, err := json.Marshal(runRecord{
		Namespace:    run.Namespace,
		DocumentURL:  run.Document.URL,
		DocumentType: string(run.Document.Type),
		Chunks:       run.Chunks,
		Embeddings:   run.Embeddings,
		Stored:       run.Stored,
		Stage:        string(run.Stage),
		CompletedAt:  run.CompletedAt.UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("encoding run %s: %w", key, err)
	}

	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRuns).Put([]byte(key), data)
	})
}

// Delete removes the run stored under key.
func (c *RunCache) Delete(_ context.Context, key string) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRuns).Delete([]byte(key))
	})
}

// Len returns the number of cached runs.
func (c *RunCache) Len() int {
	var n int
	_ = c.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketRuns).Stats().KeyN
		return nil
	})
	return n
}

// Close closes the database.
func (c *RunCache) Close() error {
	return c.db.Close()
}
