package search

import "errors"

var (
	// ErrEmptyCorpus is returned when an index build is attempted with
	// zero documents.
	ErrEmptyCorpus = errors.New("search: corpus contains no documents")

	// ErrNoFeatures is returned when every term is filtered out by the
	// document-frequency bounds, leaving nothing to index.
	ErrNoFeatures = errors.New("search: no terms survived vocabulary filtering")

	// ErrNotFound is returned for lookups of a course code that is not in
	// the index.
	ErrNotFound = errors.New("search: course not found")
)
