package rank

// LowConfidencePrefix is prepended to the top answer when its raw
// similarity falls below the tuned threshold. Advisory only.
const LowConfidencePrefix = "[low confidence] "

// AnnotateConfidence flags the top candidate's answer when the index never
// produced a convincing match. The raw similarity is used, not the blended
// score: lexical overlap can inflate a blend even when the embedding space
// saw nothing close.
func AnnotateConfidence(candidates []Candidate, minCosine float64) {
	if len(candidates) == 0 {
		return
	}
	if candidates[0].Similarity < minCosine {
		candidates[0].Answer = LowConfidencePrefix + candidates[0].Answer
	}
}
