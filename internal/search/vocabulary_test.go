package search_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/course-compass/backend/internal/search"
)

// fiveDocStreams has "common" in every document, "gamma" in exactly one,
// "alpha" in three and "beta" in two.
func fiveDocStreams() [][]string {
	return [][]string{
		{"alpha", "common"},
		{"alpha", "beta", "common"},
		{"beta", "common"},
		{"gamma", "common"},
		{"alpha", "common"},
	}
}

func TestBuildVocabularyFiltersRareAndCommonTerms(t *testing.T) {
	vocab, err := search.BuildVocabulary(fiveDocStreams(), search.DefaultVocabularyParams())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, ok := vocab.Column("gamma"); ok {
		t.Error("Term in a single document should be filtered out")
	}
	if _, ok := vocab.Column("common"); ok {
		t.Error("Term in every document should be filtered out")
	}
	if _, ok := vocab.Column("alpha"); !ok {
		t.Error("Expected alpha to be retained")
	}
	if _, ok := vocab.Column("beta"); !ok {
		t.Error("Expected beta to be retained")
	}
	if vocab.Size() != 2 {
		t.Errorf("Expected 2 retained terms, got %d", vocab.Size())
	}

	// alpha has the higher document frequency, so it gets column 0.
	if col, _ := vocab.Column("alpha"); col != 0 {
		t.Errorf("Expected alpha at column 0, got %d", col)
	}
	if col, _ := vocab.Column("beta"); col != 1 {
		t.Errorf("Expected beta at column 1, got %d", col)
	}
}

func TestBuildVocabularyDeterministic(t *testing.T) {
	first, err := search.BuildVocabulary(fiveDocStreams(), search.DefaultVocabularyParams())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := search.BuildVocabulary(fiveDocStreams(), search.DefaultVocabularyParams())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first.Terms(), second.Terms()) {
		t.Errorf("Repeated builds disagree: %v vs %v", first.Terms(), second.Terms())
	}
}

func TestBuildVocabularyFeatureCap(t *testing.T) {
	streams := [][]string{
		{"banana", "cherry", "apple"},
		{"cherry", "apple", "banana"},
	}
	params := search.VocabularyParams{MinDocFreq: 1, MaxDocRatio: 1.0, MaxFeatures: 2}

	vocab, err := search.BuildVocabulary(streams, params)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// All three terms tie on document frequency; the cap keeps the
	// lexicographically smallest two.
	want := []string{"apple", "banana"}
	if !reflect.DeepEqual(vocab.Terms(), want) {
		t.Errorf("Expected %v, got %v", want, vocab.Terms())
	}
}

func TestBuildVocabularyEmptyCorpus(t *testing.T) {
	_, err := search.BuildVocabulary(nil, search.DefaultVocabularyParams())
	if !errors.Is(err, search.ErrEmptyCorpus) {
		t.Errorf("Expected ErrEmptyCorpus, got %v", err)
	}
}

func TestBuildVocabularyNoFeatures(t *testing.T) {
	// A single document cannot satisfy the min-df=2 bound.
	_, err := search.BuildVocabulary([][]string{{"alpha", "beta"}}, search.DefaultVocabularyParams())
	if !errors.Is(err, search.ErrNoFeatures) {
		t.Errorf("Expected ErrNoFeatures, got %v", err)
	}
}

func TestEncodeProducesUnitVector(t *testing.T) {
	vocab, err := search.BuildVocabulary(fiveDocStreams(), search.DefaultVocabularyParams())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	vec := vocab.Encode([]string{"alpha", "beta", "alpha"})
	if len(vec) != 2 {
		t.Fatalf("Expected 2 non-zero dimensions, got %d", len(vec))
	}
	if norm := search.Norm(vec); math.Abs(norm-1.0) > 1e-6 {
		t.Errorf("Expected unit norm, got %f", norm)
	}

	// alpha occurs twice; despite its lower IDF it should outweigh beta
	// here (2 * 1.405 > 1 * 1.693).
	alphaCol, _ := vocab.Column("alpha")
	betaCol, _ := vocab.Column("beta")
	if vec[alphaCol] <= vec[betaCol] {
		t.Errorf("Expected alpha weight > beta weight, got %f vs %f", vec[alphaCol], vec[betaCol])
	}
}

func TestEncodeIgnoresUnknownTerms(t *testing.T) {
	vocab, err := search.BuildVocabulary(fiveDocStreams(), search.DefaultVocabularyParams())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	withUnknown := vocab.Encode([]string{"alpha", "zzz-not-a-term"})
	plain := vocab.Encode([]string{"alpha"})
	if !reflect.DeepEqual(withUnknown, plain) {
		t.Errorf("Unknown terms should contribute nothing: %v vs %v", withUnknown, plain)
	}
}

func TestEncodeZeroVector(t *testing.T) {
	vocab, err := search.BuildVocabulary(fiveDocStreams(), search.DefaultVocabularyParams())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	vec := vocab.Encode([]string{"gamma", "common"})
	if len(vec) != 0 {
		t.Errorf("Expected the zero vector, got %v", vec)
	}
	if norm := search.Norm(vec); norm != 0 {
		t.Errorf("Expected zero norm, got %f", norm)
	}
}
