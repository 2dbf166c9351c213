package search

import "sort"

// Hit is one ranked result: a document and its cosine similarity to the
// query. With non-negative TF-IDF weights the score is always in [0,1].
type Hit struct {
	Document Document
	Score    float64
}

// Rank scores the query vector against every indexed document and returns
// the top k hits, descending by score. Equal scores keep their original
// corpus order so repeated queries always produce the same ranking.
// A topK of zero or less returns nothing; a topK beyond the candidate
// count returns all candidates. excludeCode omits one document, used by
// similar-course lookups to drop the self match; a code not in the index
// excludes nothing.
func Rank(query Vector, ix *Index, topK int, excludeCode string) []Hit {
	if ix == nil || topK <= 0 {
		return nil
	}

	hits := make([]Hit, 0, len(ix.docs))
	for i, doc := range ix.docs {
		if excludeCode != "" && doc.Code == excludeCode {
			continue
		}
		hits = append(hits, Hit{Document: doc, Score: Dot(query, ix.vectors[i])})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}
