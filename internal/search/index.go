package search

import "fmt"

// Document is one immutable course record.
type Document struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	Credits     string `json:"credits"`
	Description string `json:"description"`
}

// FullText derives the normalized text a document is indexed under:
// code, title and description concatenated, then normalized.
func (d Document) FullText() string {
	return Normalize(d.Code + " " + d.Title + " " + d.Description)
}

// Index pairs every document with the vector produced against a single
// Vocabulary build. All three parts are created together and never
// mutated afterwards; a corpus change means building a whole new Index.
type Index struct {
	vocab   *Vocabulary
	docs    []Document
	vectors []Vector
	byCode  map[string]int
}

// BuildIndex runs the full pipeline over the corpus: tokenize every
// document's derived text, build the vocabulary in one pass, then encode
// each document against it.
func BuildIndex(docs []Document, params VocabularyParams) (*Index, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}

	streams := make([][]string, len(docs))
	for i, d := range docs {
		streams[i] = Tokenize(d.FullText())
	}

	vocab, err := BuildVocabulary(streams, params)
	if err != nil {
		return nil, err
	}

	vectors := make([]Vector, len(docs))
	for i, stream := range streams {
		vectors[i] = vocab.Encode(stream)
	}
	return newIndex(vocab, docs, vectors), nil
}

// RestoreIndex reassembles an index from previously persisted parts,
// typically a cached snapshot. The documents and vectors must come from
// the same build as the vocabulary.
func RestoreIndex(vocab *Vocabulary, docs []Document, vectors []Vector) (*Index, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}
	if len(docs) != len(vectors) {
		return nil, fmt.Errorf("search: %d documents but %d vectors", len(docs), len(vectors))
	}
	if vocab == nil || vocab.Size() == 0 {
		return nil, ErrNoFeatures
	}
	return newIndex(vocab, docs, vectors), nil
}

func newIndex(vocab *Vocabulary, docs []Document, vectors []Vector) *Index {
	byCode := make(map[string]int, len(docs))
	for i, d := range docs {
		if _, ok := byCode[d.Code]; !ok {
			byCode[d.Code] = i
		}
	}
	return &Index{
		vocab:   vocab,
		docs:    docs,
		vectors: vectors,
		byCode:  byCode,
	}
}

// EncodeText runs raw query text through the same normalize, tokenize and
// encode path used for the corpus documents.
func (ix *Index) EncodeText(text string) Vector {
	return ix.vocab.Encode(Tokenize(Normalize(text)))
}

// Get returns the document with the given course code. Matching is exact.
func (ix *Index) Get(code string) (Document, error) {
	i, ok := ix.byCode[code]
	if !ok {
		return Document{}, ErrNotFound
	}
	return ix.docs[i], nil
}

// VectorFor returns the precomputed vector for an indexed course code.
func (ix *Index) VectorFor(code string) (Vector, error) {
	i, ok := ix.byCode[code]
	if !ok {
		return nil, ErrNotFound
	}
	return ix.vectors[i], nil
}

// Documents returns the indexed documents in corpus order.
func (ix *Index) Documents() []Document {
	return append([]Document(nil), ix.docs...)
}

// Vectors returns the document vectors in corpus order.
func (ix *Index) Vectors() []Vector {
	return append([]Vector(nil), ix.vectors...)
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int { return len(ix.docs) }

// Vocabulary returns the vocabulary the index was built with.
func (ix *Index) Vocabulary() *Vocabulary { return ix.vocab }

// VocabularySize returns the number of retained terms.
func (ix *Index) VocabularySize() int { return ix.vocab.Size() }
