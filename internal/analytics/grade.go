// Package analytics implements post-hoc draft grading: per-pick scores, team
// grades, trade win/loss summaries, the best-player-available baseline, and
// live pick suggestions.
package analytics

import (
	"math"

	"github.com/google/uuid"
	"github.com/gridironlabs/mockdraft/internal/models"
)

// needRewards is the additive score bonus per need priority slot. Need
// indexes past the table floor at the lowest tier.
var needRewards = [...]float64{15, 12, 9, 6, 3}

const (
	neutralScore    = 50.0
	valueDimMax     = 20.0
	posDimMax       = 15.0
	slotWeightFloor = 128 // pick at which the positional slot weight reaches 0
)

// PickInput carries everything needed to grade one pick.
type PickInput struct {
	Overall   int
	Candidate models.Candidate
	// Needs is the team's effective need list at the time of the pick.
	Needs []models.Position
	// PositionalValue maps positions to value multipliers (>1 = premium).
	PositionalValue map[models.Position]float64
	// Board, when non-empty, supplies a custom ranking for the board delta.
	Board []uuid.UUID
	// BestAvailableRank is the consensus rank of the best candidate still on
	// the board when this pick was made; 0 when unknown.
	BestAvailableRank int
}

// reachThreshold is the value-delta tolerance for a pick position. Early
// picks are held to a tight absolute band; later picks scale with position.
func reachThreshold(overall int) float64 {
	t := float64(overall) * 0.08
	if t < 3 {
		return 3
	}
	return t
}

// slotWeight linearly decays from 1.0 at pick 1 to 0 at pick 128 and beyond.
// Positional premiums matter most at the top of the draft.
func slotWeight(overall int) float64 {
	if overall >= slotWeightFloor {
		return 0
	}
	return float64(slotWeightFloor-overall) / float64(slotWeightFloor-1)
}

// classify buckets a value delta against multiples of the position's reach
// threshold. The good-value boundary is inclusive; great value requires
// strictly more than twice the threshold.
func classify(valueDelta, overall int) Label {
	t := reachThreshold(overall)
	d := float64(valueDelta)
	switch {
	case d > 2*t:
		return LabelGreatValue
	case d >= t:
		return LabelGoodValue
	case d >= -t:
		return LabelFair
	case d >= -2*t:
		return LabelSlightReach
	case d >= -3*t:
		return LabelReach
	default:
		return LabelBigReach
	}
}

// surplusCurve models on-field value minus rookie-contract cost by pick
// position. Rookie pay drops faster than talent through the top of round 1,
// so surplus rises to a peak at pick 12 before power-law decaying.
func surplusCurve(overall int) float64 {
	const peak = 20.0
	const peakPick = 12
	if overall < 1 {
		return 0
	}
	if overall <= peakPick {
		return 12.0 + (peak-12.0)*float64(overall-1)/float64(peakPick-1)
	}
	return peak * math.Pow(float64(peakPick)/float64(overall), 0.75)
}

// SurplusValue is the surplus curve scaled by the candidate's positional
// value multiplier.
func SurplusValue(overall int, positionalMultiplier float64) float64 {
	if positionalMultiplier <= 0 {
		positionalMultiplier = 1.0
	}
	return surplusCurve(overall) * positionalMultiplier
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// needReward returns the additive score for filling the given need priority.
func needReward(needIdx int) float64 {
	if needIdx < 0 {
		return 0
	}
	if needIdx >= len(needRewards) {
		needIdx = len(needRewards) - 1
	}
	return needRewards[needIdx]
}

// GradePick scores a single pick: a neutral base of 50 plus a value dimension
// (±20), a positional dimension (±15, decaying with pick position), and a
// need reward (0 to +15), clamped to [0, 100].
func GradePick(in PickInput) PickGrade {
	valueDelta := in.Overall - in.Candidate.ConsensusRank
	t := reachThreshold(in.Overall)

	valueDim := clamp(float64(valueDelta)/(3*t)*valueDimMax, -valueDimMax, valueDimMax)

	posMult := 1.0
	if m, ok := in.PositionalValue[in.Candidate.Position]; ok && m > 0 {
		posMult = m
	}
	posDim := clamp((posMult-1.0)*slotWeight(in.Overall)*posDimMax, -posDimMax, posDimMax)

	needIdx := needIndexOf(in.Needs, in.Candidate.Position)
	score := clamp(neutralScore+valueDim+posDim+needReward(needIdx), 0, 100)

	grade := PickGrade{
		Overall:              in.Overall,
		CandidateID:          in.Candidate.ID,
		Position:             in.Candidate.Position,
		ConsensusRank:        in.Candidate.ConsensusRank,
		ValueDelta:           valueDelta,
		Score:                score,
		Label:                classify(valueDelta, in.Overall),
		NeedIndex:            needIdx,
		SurplusValue:         SurplusValue(in.Overall, posMult),
		PositionalMultiplier: posMult,
	}

	if in.BestAvailableRank > 0 {
		grade.BetterAvailable = float64(in.Candidate.ConsensusRank-in.BestAvailableRank) > t
	}

	for i, id := range in.Board {
		if id == in.Candidate.ID {
			delta := in.Overall - (i + 1)
			grade.BoardDelta = &delta
			break
		}
	}

	return grade
}

func needIndexOf(needs []models.Position, pos models.Position) int {
	for i, n := range needs {
		if n == pos {
			return i
		}
	}
	return -1
}
