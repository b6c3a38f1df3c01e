// Package cpupick implements the computer-opponent selection algorithm: a
// blended score over candidate rank, team need priority, and positional
// premium, with controlled randomness among the top-scored candidates.
package cpupick

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/google/uuid"
	"github.com/gridironlabs/mockdraft/internal/models"
)

// Options tune a single selection. Randomness and NeedsWeight are in [0, 1].
type Options struct {
	Randomness  float64
	NeedsWeight float64
	// Board, when non-empty, overrides consensus rank: a candidate's
	// effective rank is its position on the board. Candidates absent from
	// the board fall back to consensus rank.
	Board []uuid.UUID
	// PositionalValue maps positions to value multipliers (>1 = premium).
	PositionalValue map[models.Position]float64
}

// minNeedMultipliers are the per-priority-slot multipliers applied at full
// needs weight. Calibrated so that NeedsWeight 0.5 yields the baseline table
// (0.85 for the top need). Need indexes past the end floor at the last entry.
var minNeedMultipliers = [...]float64{0.70, 0.76, 0.82, 0.88, 0.94}

// selectionLadder is the cumulative probability ladder used to pick among the
// top five scored candidates at full randomness.
var selectionLadder = [...]float64{0.40, 0.65, 0.83, 0.93, 1.00}

const jitterScale = 0.2

type scored struct {
	candidate models.Candidate
	score     float64
}

// NeedIndex returns the priority index of a position in the needs list, or -1.
func NeedIndex(needs []models.Position, pos models.Position) int {
	for i, n := range needs {
		if n == pos {
			return i
		}
	}
	return -1
}

// needMultiplier interpolates between 1.0 (needs ignored) and the calibrated
// minimum multiplier for the priority slot, scaled by needsWeight.
func needMultiplier(needIdx int, needsWeight float64) float64 {
	if needIdx < 0 {
		return 1.0
	}
	if needIdx >= len(minNeedMultipliers) {
		needIdx = len(minNeedMultipliers) - 1
	}
	return 1.0 - (1.0-minNeedMultipliers[needIdx])*needsWeight
}

// positionalFactor gives premium positions a small, sub-linear score boost:
// the inverse fourth root of the positional value multiplier.
func positionalFactor(mult float64) float64 {
	if mult <= 0 {
		return 1.0
	}
	return 1.0 / math.Pow(mult, 0.25)
}

// SelectPick chooses one candidate from the pool for a team with the given
// ordered needs. Lower blended score wins; randomness perturbs scores and
// allows non-top selections via the probability ladder. Fails with an
// invalid-input error on an empty pool.
func SelectPick(pool []models.Candidate, needs []models.Position, opts Options, rng *rand.Rand) (models.Candidate, error) {
	if len(pool) == 0 {
		return models.Candidate{}, fmt.Errorf("select pick: empty candidate pool: %w", models.ErrInvalidInput)
	}

	boardRank := make(map[uuid.UUID]int, len(opts.Board))
	for i, id := range opts.Board {
		boardRank[id] = i + 1
	}

	scoredPool := make([]scored, 0, len(pool))
	for _, c := range pool {
		effRank := float64(c.ConsensusRank)
		if r, ok := boardRank[c.ID]; ok {
			effRank = float64(r)
		}

		mult := needMultiplier(NeedIndex(needs, c.Position), opts.NeedsWeight)

		posFactor := 1.0
		if pv, ok := opts.PositionalValue[c.Position]; ok {
			posFactor = positionalFactor(pv)
		}

		score := effRank * mult * posFactor
		if opts.Randomness > 0 {
			jitter := (rng.Float64()*2 - 1) * effRank * opts.Randomness * jitterScale
			score += jitter
		}
		scoredPool = append(scoredPool, scored{candidate: c, score: score})
	}

	sort.SliceStable(scoredPool, func(i, j int) bool {
		return scoredPool[i].score < scoredPool[j].score
	})

	if len(scoredPool) < len(selectionLadder) {
		return scoredPool[0].candidate, nil
	}

	// When the top choice dominates, shrink the effective randomness so a
	// clearly-best candidate is not skipped by the ladder.
	damped := opts.Randomness * (1.0 - dominanceDamping(scoredPool))
	draw := rng.Float64() * damped
	for i, threshold := range selectionLadder {
		if draw < threshold {
			return scoredPool[i].candidate, nil
		}
	}
	return scoredPool[0].candidate, nil
}

// dominanceDamping returns the fraction of randomness to strip based on the
// relative score gap between the best and second-best candidates. The gap is
// capped at 2.0 and halved, so a top score twice as good as the runner-up
// removes randomness entirely.
func dominanceDamping(scoredPool []scored) float64 {
	top := scoredPool[0].score
	if top <= 0 {
		return 0
	}
	gap := (scoredPool[1].score - top) / top
	if gap > 2.0 {
		gap = 2.0
	}
	if gap < 0 {
		gap = 0
	}
	return gap / 2.0
}

// EffectiveNeeds returns a team's static needs minus positions already filled
// by its prior picks, removing one occurrence per drafted position.
func EffectiveNeeds(static []models.Position, drafted []models.Position) []models.Position {
	remaining := make([]models.Position, len(static))
	copy(remaining, static)

	for _, pos := range drafted {
		for i, need := range remaining {
			if need == pos {
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
	}
	return remaining
}

// SelectForTeam resolves the team's effective needs from its prior picks in
// this draft, then delegates to SelectPick.
func SelectForTeam(pool []models.Candidate, staticNeeds []models.Position, drafted []models.Position, opts Options, rng *rand.Rand) (models.Candidate, error) {
	return SelectPick(pool, EffectiveNeeds(staticNeeds, drafted), opts, rng)
}
