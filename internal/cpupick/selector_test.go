package cpupick

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/gridironlabs/mockdraft/internal/models"
)

func makeCandidate(rank int, pos models.Position) models.Candidate {
	return models.Candidate{
		ID:            uuid.New(),
		FullName:      "Candidate " + string(pos),
		Position:      pos,
		ConsensusRank: rank,
	}
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestSelectPickEmptyPool(t *testing.T) {
	_, err := SelectPick(nil, nil, Options{}, testRNG())
	if err == nil {
		t.Fatal("SelectPick with empty pool returned nil error")
	}
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestSelectPickZeroRandomnessPicksBestRank(t *testing.T) {
	pool := []models.Candidate{
		makeCandidate(3, models.PositionWR),
		makeCandidate(1, models.PositionQB),
		makeCandidate(2, models.PositionCB),
		makeCandidate(4, models.PositionRB),
		makeCandidate(5, models.PositionTE),
	}
	got, err := SelectPick(pool, nil, Options{}, testRNG())
	if err != nil {
		t.Fatalf("SelectPick error: %v", err)
	}
	if got.ConsensusRank != 1 {
		t.Errorf("selected rank %d, want 1", got.ConsensusRank)
	}
}

func TestSelectPickNeedsWeightZeroIgnoresNeeds(t *testing.T) {
	wr := makeCandidate(10, models.PositionWR)
	cb := makeCandidate(11, models.PositionCB)
	pool := []models.Candidate{wr, cb}
	needs := []models.Position{models.PositionCB}

	got, err := SelectPick(pool, needs, Options{NeedsWeight: 0}, testRNG())
	if err != nil {
		t.Fatalf("SelectPick error: %v", err)
	}
	if got.ID != wr.ID {
		t.Errorf("selected %s rank %d, want the rank-10 WR", got.Position, got.ConsensusRank)
	}
}

func TestSelectPickNeedsWeightBoostsNeedPosition(t *testing.T) {
	// With the baseline table at weight 0.5, the top need multiplier is
	// 0.85: rank 11 * 0.85 = 9.35 beats rank 10.
	wr := makeCandidate(10, models.PositionWR)
	cb := makeCandidate(11, models.PositionCB)
	pool := []models.Candidate{wr, cb}
	needs := []models.Position{models.PositionCB}

	got, err := SelectPick(pool, needs, Options{NeedsWeight: 0.5}, testRNG())
	if err != nil {
		t.Fatalf("SelectPick error: %v", err)
	}
	if got.ID != cb.ID {
		t.Errorf("selected %s rank %d, want the needed CB", got.Position, got.ConsensusRank)
	}
}

func TestSelectPickCustomBoardOverridesConsensus(t *testing.T) {
	a := makeCandidate(1, models.PositionQB)
	b := makeCandidate(2, models.PositionRB)
	pool := []models.Candidate{a, b}

	// Board ranks b first, inverting consensus.
	got, err := SelectPick(pool, nil, Options{Board: []uuid.UUID{b.ID, a.ID}}, testRNG())
	if err != nil {
		t.Fatalf("SelectPick error: %v", err)
	}
	if got.ID != b.ID {
		t.Errorf("selected consensus-rank %d, want board-first candidate", got.ConsensusRank)
	}
}

func TestSelectPickPositionalPremium(t *testing.T) {
	// QB premium 1.5 gives factor 1/1.5^0.25 ~ 0.904: rank 11 QB scores
	// ~9.95 and edges the rank 10 RB.
	rb := makeCandidate(10, models.PositionRB)
	qb := makeCandidate(11, models.PositionQB)
	pool := []models.Candidate{rb, qb}

	got, err := SelectPick(pool, nil, Options{
		PositionalValue: map[models.Position]float64{models.PositionQB: 1.5},
	}, testRNG())
	if err != nil {
		t.Fatalf("SelectPick error: %v", err)
	}
	if got.ID != qb.ID {
		t.Errorf("selected %s, want premium QB", got.Position)
	}
}

func TestSelectPickDominanceDampsRandomness(t *testing.T) {
	// Rank 1 vs ranks 50+: the top score dominates, so even at full
	// randomness the ladder must not skip the clear best candidate.
	pool := []models.Candidate{
		makeCandidate(1, models.PositionQB),
		makeCandidate(50, models.PositionRB),
		makeCandidate(51, models.PositionWR),
		makeCandidate(52, models.PositionTE),
		makeCandidate(53, models.PositionCB),
	}
	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		got, err := SelectPick(pool, nil, Options{Randomness: 1.0}, rng)
		if err != nil {
			t.Fatalf("SelectPick error: %v", err)
		}
		if got.ConsensusRank != 1 {
			t.Fatalf("seed %d: selected rank %d, want dominant rank 1", seed, got.ConsensusRank)
		}
	}
}

func TestSelectPickSmallPoolDefaultsToTop(t *testing.T) {
	pool := []models.Candidate{
		makeCandidate(2, models.PositionQB),
		makeCandidate(1, models.PositionRB),
	}
	got, err := SelectPick(pool, nil, Options{Randomness: 1.0}, testRNG())
	if err != nil {
		t.Fatalf("SelectPick error: %v", err)
	}
	if got.ConsensusRank != 1 {
		t.Errorf("selected rank %d, want 1 (pools under ladder size take the top score)", got.ConsensusRank)
	}
}

func TestEffectiveNeeds(t *testing.T) {
	tests := []struct {
		name    string
		static  []models.Position
		drafted []models.Position
		want    []models.Position
	}{
		{
			name:    "removes one occurrence per drafted position",
			static:  []models.Position{models.PositionCB, models.PositionCB, models.PositionWR},
			drafted: []models.Position{models.PositionCB},
			want:    []models.Position{models.PositionCB, models.PositionWR},
		},
		{
			name:    "no drafted positions",
			static:  []models.Position{models.PositionQB, models.PositionOT},
			drafted: nil,
			want:    []models.Position{models.PositionQB, models.PositionOT},
		},
		{
			name:    "drafted position not in needs",
			static:  []models.Position{models.PositionQB},
			drafted: []models.Position{models.PositionK},
			want:    []models.Position{models.PositionQB},
		},
		{
			name:    "all needs filled",
			static:  []models.Position{models.PositionQB, models.PositionRB},
			drafted: []models.Position{models.PositionRB, models.PositionQB},
			want:    []models.Position{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveNeeds(tt.static, tt.drafted)
			if len(got) != len(tt.want) {
				t.Fatalf("EffectiveNeeds = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("EffectiveNeeds = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestNeedMultiplierBaseline(t *testing.T) {
	// NeedsWeight 0.5 reproduces the baseline multiplier table.
	baseline := []float64{0.85, 0.88, 0.91, 0.94, 0.97}
	for i, want := range baseline {
		if got := needMultiplier(i, 0.5); !almostEqual(got, want) {
			t.Errorf("needMultiplier(%d, 0.5) = %.4f, want %.2f", i, got, want)
		}
	}
	// Indexes past the table floor at the lowest tier.
	if got := needMultiplier(9, 0.5); !almostEqual(got, 0.97) {
		t.Errorf("needMultiplier(9, 0.5) = %.4f, want 0.97", got)
	}
	if got := needMultiplier(-1, 1.0); got != 1.0 {
		t.Errorf("needMultiplier(-1, 1.0) = %.4f, want 1.0", got)
	}
}

func almostEqual(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
