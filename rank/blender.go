package rank

import "sort"

// Blend mixes raw similarity with lexical query coverage:
//
//	score = alpha*similarity + (1-alpha)*overlap
//
// Pure embedding similarity misses exact keyword hits (proper nouns,
// chemical names); pure lexical overlap misses paraphrases. The offline
// recall metric tunes alpha between the two.
//
// Candidates must arrive in similarity order; the stable resort keeps that
// order for blended-score ties.
func Blend(candidates []Candidate, queryTokens map[string]bool, alpha float64) {
	for i := range candidates {
		c := &candidates[i]
		c.Overlap = Overlap(queryTokens, Tokenize(c.Text))
		c.Final = alpha*c.Similarity + (1-alpha)*c.Overlap
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Final > candidates[j].Final
	})
}
