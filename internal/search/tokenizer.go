package search

import (
	"strings"
	"unicode"
)

// Normalize lowercases text, strips quote characters and collapses
// whitespace runs into single spaces. Quotes are removed rather than
// treated as separators so contractions like "don't" tokenize as one word.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = strings.ReplaceAll(text, "\"", "")
	text = strings.ReplaceAll(text, "'", "")
	return strings.Join(strings.Fields(text), " ")
}

// Tokenize splits text into word tokens and returns both unigrams and
// bigrams. Stop words are dropped from the unigram stream first, then
// bigrams are formed from consecutive survivors joined with a single
// space, so no bigram ever contains a stop word.
func Tokenize(text string) []string {
	boundary := func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsNumber(c)
	}

	var unigrams []string
	for _, field := range strings.FieldsFunc(text, boundary) {
		word := strings.ToLower(field)
		if stopWords[word] {
			continue
		}
		unigrams = append(unigrams, word)
	}
	if len(unigrams) == 0 {
		return nil
	}

	tokens := make([]string, 0, 2*len(unigrams)-1)
	tokens = append(tokens, unigrams...)
	for i := 0; i+1 < len(unigrams); i++ {
		tokens = append(tokens, unigrams[i]+" "+unigrams[i+1])
	}
	return tokens
}
