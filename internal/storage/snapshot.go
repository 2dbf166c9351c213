package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/course-compass/backend/internal/search"
)

// ErrSnapshotMiss is returned when no usable snapshot exists for the
// requested corpus fingerprint. Callers rebuild from scratch; a stale
// vocabulary must never be applied to a different corpus.
var ErrSnapshotMiss = errors.New("storage: no snapshot for corpus fingerprint")

const snapshotFile = "course_vectors.json"

// Snapshot is the persisted form of a built index: the frozen vocabulary
// statistics plus one sparse vector per document, keyed by the fingerprint
// of the corpus they were built from.
type Snapshot struct {
	Fingerprint string            `json:"fingerprint"`
	CorpusSize  int               `json:"corpus_size"`
	Terms       []string          `json:"terms"`
	DocFreq     []int             `json:"doc_freq"`
	Documents   []search.Document `json:"documents"`
	Vectors     []search.Vector   `json:"vectors"`
}

// SnapshotStore persists index snapshots as JSON files on disk so a
// restart can skip rebuilding vectors for an unchanged corpus.
type SnapshotStore struct {
	baseDir string
	mu      sync.RWMutex
}

// NewSnapshotStore creates a file-based snapshot store.
func NewSnapshotStore(baseDir string) (*SnapshotStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &SnapshotStore{baseDir: baseDir}, nil
}

// Save writes the snapshot, replacing any previous one.
func (ss *SnapshotStore) Save(snap *Snapshot) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(ss.path(), data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot if it matches the given corpus
// fingerprint. An absent file, a decode failure, an internally
// inconsistent snapshot or a fingerprint mismatch all report
// ErrSnapshotMiss rather than handing back vectors from another corpus.
func (ss *SnapshotStore) Load(fingerprint string) (*Snapshot, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	data, err := os.ReadFile(ss.path())
	if err != nil {
		return nil, ErrSnapshotMiss
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, ErrSnapshotMiss
	}
	if snap.Fingerprint != fingerprint {
		return nil, ErrSnapshotMiss
	}
	if len(snap.Documents) != len(snap.Vectors) || len(snap.Terms) != len(snap.DocFreq) {
		return nil, ErrSnapshotMiss
	}
	return &snap, nil
}

// Close is a no-op for file storage.
func (ss *SnapshotStore) Close() error {
	return nil
}

func (ss *SnapshotStore) path() string {
	return filepath.Join(ss.baseDir, snapshotFile)
}

// Fingerprint identifies a corpus by document count and content hash, so a
// snapshot built from one corpus can never be mistaken for another's.
func Fingerprint(docs []search.Document) string {
	h := sha256.New()
	for _, d := range docs {
		for _, field := range []string{d.Code, d.Title, d.Credits, d.Description} {
			h.Write([]byte(field))
			h.Write([]byte{0})
		}
	}
	return fmt.Sprintf("v1:%d:%s", len(docs), hex.EncodeToString(h.Sum(nil)))
}
