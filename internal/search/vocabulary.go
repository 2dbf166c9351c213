package search

import (
	"math"
	"sort"
)

// VocabularyParams bound the retained feature set.
type VocabularyParams struct {
	MinDocFreq  int     // drop terms appearing in fewer documents than this
	MaxDocRatio float64 // drop terms appearing in more than this share of documents
	MaxFeatures int     // cap on retained terms; 0 means unlimited
}

// DefaultVocabularyParams returns the bounds used for the course catalog:
// a term must appear in at least two documents, in no more than 95% of
// them, and at most 1000 terms are kept.
func DefaultVocabularyParams() VocabularyParams {
	return VocabularyParams{
		MinDocFreq:  2,
		MaxDocRatio: 0.95,
		MaxFeatures: 1000,
	}
}

// Vocabulary is an immutable term-to-column mapping plus the document
// frequencies frozen at build time. Vectors encoded against one Vocabulary
// are not comparable to vectors from another.
type Vocabulary struct {
	terms      []string
	columns    map[string]int
	docFreq    []int
	corpusSize int
	idf        []float64
}

// BuildVocabulary scans the corpus token streams once and assigns every
// retained term a column index. Terms outside the document-frequency
// bounds are dropped; if more than params.MaxFeatures survive, the most
// frequent ones win. Ordering is descending document frequency with ties
// broken lexicographically, so identical corpora always produce identical
// column assignments.
func BuildVocabulary(streams [][]string, params VocabularyParams) (*Vocabulary, error) {
	if len(streams) == 0 {
		return nil, ErrEmptyCorpus
	}

	df := make(map[string]int)
	for _, stream := range streams {
		seen := make(map[string]struct{}, len(stream))
		for _, term := range stream {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	n := len(streams)
	retained := make([]string, 0, len(df))
	for term, count := range df {
		if count < params.MinDocFreq {
			continue
		}
		if float64(count)/float64(n) > params.MaxDocRatio {
			continue
		}
		retained = append(retained, term)
	}
	if len(retained) == 0 {
		return nil, ErrNoFeatures
	}

	sort.Slice(retained, func(i, j int) bool {
		if df[retained[i]] != df[retained[j]] {
			return df[retained[i]] > df[retained[j]]
		}
		return retained[i] < retained[j]
	})
	if params.MaxFeatures > 0 && len(retained) > params.MaxFeatures {
		retained = retained[:params.MaxFeatures]
	}

	freqs := make([]int, len(retained))
	for i, term := range retained {
		freqs[i] = df[term]
	}
	return NewVocabulary(retained, freqs, n), nil
}

// NewVocabulary assembles a vocabulary from already-frozen terms and
// document frequencies, in column order. Used when restoring a cached
// snapshot; BuildVocabulary is the normal entry point.
func NewVocabulary(terms []string, docFreq []int, corpusSize int) *Vocabulary {
	v := &Vocabulary{
		terms:      terms,
		columns:    make(map[string]int, len(terms)),
		docFreq:    docFreq,
		corpusSize: corpusSize,
		idf:        make([]float64, len(terms)),
	}
	for i, term := range terms {
		v.columns[term] = i
		// Smoothed IDF: strictly positive and finite even for terms
		// present in every retained document.
		v.idf[i] = math.Log(float64(1+corpusSize)/float64(1+docFreq[i])) + 1
	}
	return v
}

// Encode turns a token stream into an L2-normalized TF-IDF vector. Tokens
// outside the vocabulary contribute nothing; a stream with no recognized
// terms encodes to the zero vector. The same path is used for corpus
// documents, free-text queries and similar-course lookups.
func (v *Vocabulary) Encode(tokens []string) Vector {
	vec := make(Vector)
	for _, term := range tokens {
		if col, ok := v.columns[term]; ok {
			vec[col]++
		}
	}
	for col, tf := range vec {
		vec[col] = tf * v.idf[col]
	}
	normalize(vec)
	return vec
}

// Size returns the number of retained terms.
func (v *Vocabulary) Size() int { return len(v.terms) }

// CorpusSize returns the number of documents the vocabulary was built from.
func (v *Vocabulary) CorpusSize() int { return v.corpusSize }

// Column returns the column index for a term, if the term was retained.
func (v *Vocabulary) Column(term string) (int, bool) {
	col, ok := v.columns[term]
	return col, ok
}

// Terms returns the retained terms in column order.
func (v *Vocabulary) Terms() []string {
	return append([]string(nil), v.terms...)
}

// DocFreqs returns the frozen per-column document frequencies.
func (v *Vocabulary) DocFreqs() []int {
	return append([]int(nil), v.docFreq...)
}
