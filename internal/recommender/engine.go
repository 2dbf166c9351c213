package recommender

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/course-compass/backend/internal/catalog"
	"github.com/course-compass/backend/internal/config"
	"github.com/course-compass/backend/internal/search"
	"github.com/course-compass/backend/internal/storage"
)

var (
	// ErrNotReady is returned for queries issued before any index has
	// been built.
	ErrNotReady = errors.New("recommender: no index has been built yet")

	// ErrEmptyQuery is returned for blank or whitespace-only search text.
	// An empty query is rejected up front, never treated as a zero-vector
	// match against everything.
	ErrEmptyQuery = errors.New("recommender: query text is empty")
)

// Result is one ranked hit in the shape the front ends consume.
type Result struct {
	Rank        int     `json:"rank"`
	Code        string  `json:"code"`
	Title       string  `json:"title"`
	Credits     string  `json:"credits"`
	Description string  `json:"description"`
	Score       float64 `json:"similarity_score"`
}

// Stats describes the currently served index.
type Stats struct {
	TotalCourses   int  `json:"total_courses"`
	VocabularySize int  `json:"vocabulary_size"`
	Indexed        bool `json:"indexed"`
}

// Engine serves similarity queries over an immutable index snapshot.
// A rebuild assembles the complete new index off to the side and only
// then swaps the pointer, so in-flight queries always see a consistent
// vocabulary/vector pair and a failed rebuild leaves the previous
// snapshot serving.
type Engine struct {
	logger *logrus.Entry
	cache  *storage.SnapshotStore

	params      search.VocabularyParams
	defaultTopK int

	mu  sync.RWMutex
	idx *search.Index
}

// NewEngine creates an engine with no index; call Load or Rebuild before
// querying. cache may be nil to disable snapshot persistence.
func NewEngine(cfg config.IndexConfig, logger *logrus.Entry, cache *storage.SnapshotStore) *Engine {
	return &Engine{
		logger: logger,
		cache:  cache,
		params: search.VocabularyParams{
			MinDocFreq:  cfg.MinDocFreq,
			MaxDocRatio: cfg.MaxDocRatio,
			MaxFeatures: cfg.MaxFeatures,
		},
		defaultTopK: cfg.DefaultTopK,
	}
}

// Load prepares the engine for the given corpus, reusing a cached
// snapshot when its fingerprint matches and rebuilding otherwise.
func (e *Engine) Load(courses []catalog.Course) error {
	docs := toDocuments(courses)
	if len(docs) == 0 {
		return search.ErrEmptyCorpus
	}
	fingerprint := storage.Fingerprint(docs)

	if e.cache != nil {
		if snap, err := e.cache.Load(fingerprint); err == nil {
			idx, err := restoreIndex(snap)
			if err == nil {
				e.publish(idx)
				e.logger.Infof("Restored index for %d courses from snapshot", idx.Len())
				return nil
			}
			e.logger.WithError(err).Warn("Could not restore snapshot, rebuilding")
		}
	}
	return e.rebuild(docs, fingerprint)
}

// Rebuild re-indexes the corpus unconditionally, ignoring any cached
// snapshot, and persists the fresh one on success.
func (e *Engine) Rebuild(courses []catalog.Course) error {
	docs := toDocuments(courses)
	if len(docs) == 0 {
		return search.ErrEmptyCorpus
	}
	return e.rebuild(docs, storage.Fingerprint(docs))
}

func (e *Engine) rebuild(docs []search.Document, fingerprint string) error {
	idx, err := search.BuildIndex(docs, e.params)
	if err != nil {
		return fmt.Errorf("recommender: index build failed: %w", err)
	}
	e.publish(idx)

	if e.cache != nil {
		if err := e.cache.Save(snapshotOf(idx, fingerprint)); err != nil {
			e.logger.WithError(err).Warn("Could not save index snapshot")
		}
	}
	e.logger.Infof("Indexed %d courses (%d features)", idx.Len(), idx.VocabularySize())
	return nil
}

// Search encodes free-text query against the current vocabulary and ranks
// every indexed course by cosine similarity.
func (e *Engine) Search(query string, topK int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	idx := e.current()
	if idx == nil {
		return nil, ErrNotReady
	}
	if topK <= 0 {
		topK = e.defaultTopK
	}
	hits := search.Rank(idx.EncodeText(query), idx, topK, "")
	return toResults(hits), nil
}

// SimilarTo ranks courses against the precomputed vector of an indexed
// course, excluding the course's own self match.
func (e *Engine) SimilarTo(code string, topK int) ([]Result, error) {
	idx := e.current()
	if idx == nil {
		return nil, ErrNotReady
	}
	vector, err := idx.VectorFor(code)
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = e.defaultTopK
	}
	hits := search.Rank(vector, idx, topK, code)
	return toResults(hits), nil
}

// Get returns the indexed course with the given code.
func (e *Engine) Get(code string) (search.Document, error) {
	idx := e.current()
	if idx == nil {
		return search.Document{}, ErrNotReady
	}
	return idx.Get(code)
}

// Stats reports the state of the currently served index.
func (e *Engine) Stats() Stats {
	idx := e.current()
	if idx == nil {
		return Stats{}
	}
	return Stats{
		TotalCourses:   idx.Len(),
		VocabularySize: idx.VocabularySize(),
		Indexed:        true,
	}
}

// Examples returns canned queries the front ends offer as suggestions.
func (e *Engine) Examples() []string {
	return append([]string(nil), exampleQueries...)
}

var exampleQueries = []string{
	"machine learning and artificial intelligence",
	"software development and programming",
	"ethics and social responsibility in technology",
	"data structures and algorithms",
	"computer networks and security",
	"database systems and management",
	"web development and user interface design",
	"computer graphics and visualization",
	"operating systems and system programming",
	"software engineering and project management",
}

func (e *Engine) current() *search.Index {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.idx
}

func (e *Engine) publish(idx *search.Index) {
	e.mu.Lock()
	e.idx = idx
	e.mu.Unlock()
}

func toDocuments(courses []catalog.Course) []search.Document {
	docs := make([]search.Document, len(courses))
	for i, c := range courses {
		docs[i] = search.Document{
			Code:        c.Code,
			Title:       c.Title,
			Credits:     c.Credits,
			Description: c.Description,
		}
	}
	return docs
}

func toResults(hits []search.Hit) []Result {
	results := make([]Result, len(hits))
	for i, hit := range hits {
		results[i] = Result{
			Rank:        i + 1,
			Code:        hit.Document.Code,
			Title:       hit.Document.Title,
			Credits:     hit.Document.Credits,
			Description: hit.Document.Description,
			Score:       hit.Score,
		}
	}
	return results
}

func snapshotOf(idx *search.Index, fingerprint string) *storage.Snapshot {
	vocab := idx.Vocabulary()
	return &storage.Snapshot{
		Fingerprint: fingerprint,
		CorpusSize:  vocab.CorpusSize(),
		Terms:       vocab.Terms(),
		DocFreq:     vocab.DocFreqs(),
		Documents:   idx.Documents(),
		Vectors:     idx.Vectors(),
	}
}

func restoreIndex(snap *storage.Snapshot) (*search.Index, error) {
	vocab := search.NewVocabulary(snap.Terms, snap.DocFreq, snap.CorpusSize)
	return search.RestoreIndex(vocab, snap.Documents, snap.Vectors)
}
