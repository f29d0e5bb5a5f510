package core

// TuningParams control the blend between embedding similarity and lexical
// overlap, and the similarity floor below which the top answer is flagged
// as low confidence.
type TuningParams struct {
	// Alpha is the blend weight in [0,1]: 1 means pure embedding
	// similarity, 0 means pure lexical overlap.
	Alpha float64

	// MinCosine is the raw-similarity threshold in [0,1] below which the
	// top result is annotated as low confidence.
	MinCosine float64
}

// DeriveTuning maps an offline recall@1 metric to tuning parameters.
// A sharper index (higher recall) earns more trust in the embedding signal
// and a lower confidence floor.
func DeriveTuning(recallAt1 float64) TuningParams {
	switch {
	case recallAt1 >= 0.65:
		return TuningParams{Alpha: 0.8, MinCosine: 0.25}
	case recallAt1 >= 0.5:
		return TuningParams{Alpha: 0.7, MinCosine: 0.27}
	default:
		return TuningParams{Alpha: 0.55, MinCosine: 0.30}
	}
}

// Clamp returns a copy with both parameters forced into [0,1].
func (t TuningParams) Clamp() TuningParams {
	return TuningParams{
		Alpha:     clamp01(t.Alpha),
		MinCosine: clamp01(t.MinCosine),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
