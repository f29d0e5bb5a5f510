package rank

import "strings"

// Suffixes stripped during tokenization, tried longest-ish first. This is a
// deliberately light approximation of stemming: "fertilizers" and
// "fertilizer" collapse, "growing" and "grow" do not fully, and that is the
// behavior the tuned alpha values were measured against.
var tokenSuffixes = [...]string{"es", "ing", "ed", "s"}

const minTokenLen = 3

// Tokenize lowercases text, maps non-alphanumerics to spaces, splits, drops
// tokens shorter than three characters, applies light suffix stripping and
// collapses duplicates into a set.
func Tokenize(text string) map[string]bool {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return ' '
		}
	}, text)

	tokens := make(map[string]bool)
	for _, word := range strings.Fields(cleaned) {
		if len(word) < minTokenLen {
			continue
		}
		tokens[stripSuffix(word)] = true
	}
	return tokens
}

// stripSuffix removes the first matching suffix, keeping at least
// minTokenLen characters of stem.
func stripSuffix(word string) string {
	for _, suffix := range tokenSuffixes {
		if strings.HasSuffix(word, suffix) && len(word)-len(suffix) >= minTokenLen {
			return word[:len(word)-len(suffix)]
		}
	}
	return word
}

// Overlap measures how much of the query the candidate covers:
// |intersection| / max(1, |query|). Intentionally asymmetric; a long
// candidate that contains every query term scores 1.0.
func Overlap(query, candidate map[string]bool) float64 {
	if len(query) == 0 {
		return 0
	}

	shared := 0
	for token := range query {
		if candidate[token] {
			shared++
		}
	}
	return float64(shared) / float64(len(query))
}

// Jaccard measures symmetric token-set similarity:
// |intersection| / |union|. Used as a learned-reranker feature.
func Jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	shared := 0
	for token := range a {
		if b[token] {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	return float64(shared) / float64(union)
}
