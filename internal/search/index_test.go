package search_test

import (
	"errors"
	"math"
	"testing"

	"github.com/course-compass/backend/internal/search"
)

// csCorpus overlaps enough for terms like "data structures", "algorithms",
// "analysis" and "theory" to clear the min-df bound while every document
// keeps a distinct vector.
func csCorpus() []search.Document {
	return []search.Document{
		{Code: "CSE 214", Title: "Data Structures", Credits: "3 credits",
			Description: "data structures and algorithms analysis"},
		{Code: "CSE 373", Title: "Analysis of Algorithms", Credits: "3 credits",
			Description: "algorithms analysis and complexity theory"},
		{Code: "CSE 303", Title: "Theory of Computation", Credits: "3 credits",
			Description: "automata theory and formal languages"},
		{Code: "CSE 316", Title: "Software Development", Credits: "3 credits",
			Description: "software development and data structures projects"},
	}
}

func buildTestIndex(t *testing.T) *search.Index {
	t.Helper()
	idx, err := search.BuildIndex(csCorpus(), search.DefaultVocabularyParams())
	if err != nil {
		t.Fatalf("BuildIndex failed: %v", err)
	}
	return idx
}

func TestBuildIndex(t *testing.T) {
	idx := buildTestIndex(t)

	if idx.Len() != 4 {
		t.Errorf("Expected 4 documents, got %d", idx.Len())
	}
	if idx.VocabularySize() == 0 {
		t.Error("Expected a non-empty vocabulary")
	}

	// Every document vector is either empty or unit length.
	for _, vec := range idx.Vectors() {
		if len(vec) == 0 {
			continue
		}
		if norm := search.Norm(vec); math.Abs(norm-1.0) > 1e-6 {
			t.Errorf("Expected unit norm, got %f", norm)
		}
	}
}

func TestBuildIndexEmptyCorpus(t *testing.T) {
	_, err := search.BuildIndex(nil, search.DefaultVocabularyParams())
	if !errors.Is(err, search.ErrEmptyCorpus) {
		t.Errorf("Expected ErrEmptyCorpus, got %v", err)
	}
}

func TestIndexGet(t *testing.T) {
	idx := buildTestIndex(t)

	doc, err := idx.Get("CSE 214")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if doc.Title != "Data Structures" {
		t.Errorf("Expected Data Structures, got %q", doc.Title)
	}

	if _, err := idx.Get("NOPE 999"); !errors.Is(err, search.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestIndexVectorFor(t *testing.T) {
	idx := buildTestIndex(t)

	vec, err := idx.VectorFor("CSE 373")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(vec) == 0 {
		t.Error("Expected a non-zero vector")
	}

	if _, err := idx.VectorFor("NOPE 999"); !errors.Is(err, search.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestIndexSelfSimilarity(t *testing.T) {
	idx := buildTestIndex(t)

	for _, doc := range idx.Documents() {
		vec, err := idx.VectorFor(doc.Code)
		if err != nil {
			t.Fatalf("Unexpected error for %s: %v", doc.Code, err)
		}
		hits := search.Rank(vec, idx, idx.Len(), "")
		if len(hits) == 0 {
			t.Fatalf("Expected hits for %s", doc.Code)
		}
		if hits[0].Document.Code != doc.Code {
			t.Errorf("Expected %s to rank itself first, got %s", doc.Code, hits[0].Document.Code)
		}
		if math.Abs(hits[0].Score-1.0) > 1e-6 {
			t.Errorf("Expected self score 1.0 for %s, got %f", doc.Code, hits[0].Score)
		}
	}
}

func TestEncodeTextMatchesDocumentPath(t *testing.T) {
	idx := buildTestIndex(t)

	doc, _ := idx.Get("CSE 303")
	stored, _ := idx.VectorFor("CSE 303")
	reencoded := idx.EncodeText(doc.FullText())

	if math.Abs(search.Dot(stored, reencoded)-1.0) > 1e-6 {
		t.Error("Re-encoding a document's text should reproduce its indexed vector")
	}
}

func TestRestoreIndexLengthMismatch(t *testing.T) {
	idx := buildTestIndex(t)

	_, err := search.RestoreIndex(idx.Vocabulary(), idx.Documents(), idx.Vectors()[:2])
	if err == nil {
		t.Error("Expected an error for mismatched documents and vectors")
	}
}
