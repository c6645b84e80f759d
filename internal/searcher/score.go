package searcher

import "math"

const (
	// MinRelevanceScore is the relevance floor: combined scores below
	// it mark a result as low relevance.
	MinRelevanceScore = 0.15

	// Combined-score weighting between the normalized retrieval score
	// and the keyword-overlap score. An earlier revision weighted these
	// 0.7/0.3; the 50/50 split is the active policy.
	baseScoreWeight    = 0.5
	keywordScoreWeight = 0.5

	// ftsScoreFloor/ftsScoreCeil bound the normalized full-text score
	// range; a lone rank value lands in the middle.
	ftsScoreFloor = 0.5
	ftsScoreCeil  = 0.9
	ftsScoreFlat  = 0.7

	// substringScore is the flat score assigned to substring matches.
	substringScore = 0.5
)

// distanceToScore maps a cosine distance in [0,2] onto [0,1].
func distanceToScore(d float64) float64 {
	return math.Max(0, 1-d/2)
}

// normalizeFTSRanks maps native signed full-text ranks (more negative
// is better) onto [ftsScoreFloor, ftsScoreCeil] across one candidate
// set. Equal ranks all map to ftsScoreFlat.
func normalizeFTSRanks(ranks []float64) []float64 {
	scores := make([]float64, len(ranks))
	if len(ranks) == 0 {
		return scores
	}

	abs := make([]float64, len(ranks))
	minAbs, maxAbs := math.Inf(1), math.Inf(-1)
	for i, r := range ranks {
		abs[i] = math.Abs(r)
		minAbs = math.Min(minAbs, abs[i])
		maxAbs = math.Max(maxAbs, abs[i])
	}

	if maxAbs == minAbs {
		for i := range scores {
			scores[i] = ftsScoreFlat
		}
		return scores
	}

	span := maxAbs - minAbs
	for i := range scores {
		// Larger magnitude means a better bm25 match.
		scores[i] = ftsScoreFloor + (ftsScoreCeil-ftsScoreFloor)*(abs[i]-minAbs)/span
	}
	return scores
}

// clamp01 clamps a score to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
