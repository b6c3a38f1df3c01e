package analytics

import (
	"fmt"

	"github.com/gridironlabs/mockdraft/internal/models"
)

const suggestValueDimMax = 35.0

// SuggestPick recommends the single best candidate for the slot at the given
// overall position. It reuses the pick-grading dimensions with advisory
// weights: value counts for more than it does in post-hoc grading, since the
// advisor's job is mostly "don't reach". Fails with an invalid-input error
// on an empty pool.
func SuggestPick(pool []models.Candidate, overall int, needs []models.Position, positionalValue map[models.Position]float64) (*Suggestion, error) {
	if len(pool) == 0 {
		return nil, fmt.Errorf("suggest pick: empty candidate pool: %w", models.ErrInvalidInput)
	}

	t := reachThreshold(overall)
	var best *Suggestion
	var bestDims [3]float64

	for _, c := range pool {
		valueDelta := float64(overall - c.ConsensusRank)
		valueDim := clamp(valueDelta/(3*t)*suggestValueDimMax, -suggestValueDimMax, suggestValueDimMax)

		posMult := 1.0
		if m, ok := positionalValue[c.Position]; ok && m > 0 {
			posMult = m
		}
		posDim := clamp((posMult-1.0)*slotWeight(overall)*posDimMax, -posDimMax, posDimMax)

		needDim := needReward(needIndexOf(needs, c.Position))

		score := neutralScore + valueDim + posDim + needDim
		if best == nil || score > best.Score {
			best = &Suggestion{Candidate: c, Score: score}
			bestDims = [3]float64{valueDim, posDim, needDim}
		}
	}

	best.Justification = justify(best.Candidate, bestDims)
	return best, nil
}

// justify names the dimension that contributed most to the winning score.
func justify(c models.Candidate, dims [3]float64) string {
	maxIdx := 0
	for i := 1; i < len(dims); i++ {
		if dims[i] > dims[maxIdx] {
			maxIdx = i
		}
	}
	switch maxIdx {
	case 1:
		return fmt.Sprintf("%s is a premium position worth targeting here", c.Position)
	case 2:
		return fmt.Sprintf("fills a pressing need at %s", c.Position)
	default:
		if dims[0] >= 0 {
			return fmt.Sprintf("best value on the board (consensus rank %d)", c.ConsensusRank)
		}
		return fmt.Sprintf("closest to slot value (consensus rank %d)", c.ConsensusRank)
	}
}
