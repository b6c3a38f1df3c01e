package board

import (
	"testing"

	"github.com/google/uuid"
	"github.com/gridironlabs/mockdraft/internal/models"
)

func strPtr(s string) *string { return &s }

func qb(rank int, conference string, passYards float64) models.Candidate {
	return models.Candidate{
		ID:            uuid.New(),
		Position:      models.PositionQB,
		ConsensusRank: rank,
		Conference:    strPtr(conference),
		Stats:         map[string]float64{"pass_yards": passYards},
	}
}

func TestGenerateConsensusOnly(t *testing.T) {
	a := qb(1, "SEC", 3000)
	b := qb(2, "SEC", 4000)
	c := qb(3, "SEC", 5000)

	got := Generate([]models.Candidate{b, c, a}, Config{
		Weights: Weights{Consensus: 1},
	})

	want := []uuid.UUID{a.ID, b.ID, c.ID}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("board[%d] = %s, want consensus order", i, got[i])
		}
	}
}

func TestGenerateProductionOnly(t *testing.T) {
	a := qb(1, "SEC", 3000)
	b := qb(2, "SEC", 5000)

	got := Generate([]models.Candidate{a, b}, Config{
		Weights: Weights{Production: 1},
	})
	if got[0] != b.ID {
		t.Errorf("board leader = %s, want the higher-production QB", got[0])
	}
}

func TestGenerateAllZeroWeights(t *testing.T) {
	a := qb(1, "SEC", 3000)
	b := qb(2, "FCS", 1000)

	entries := GenerateEntries([]models.Candidate{a, b}, Config{})
	for _, e := range entries {
		if e.Composite != 0 {
			t.Errorf("composite = %.3f with zero weights, want 0", e.Composite)
		}
	}
}

func TestGeneratePositionFilter(t *testing.T) {
	q := qb(1, "SEC", 3000)
	rb := models.Candidate{ID: uuid.New(), Position: models.PositionRB, ConsensusRank: 2}

	got := Generate([]models.Candidate{q, rb}, Config{
		PositionFilter: models.PositionRB,
		Weights:        Weights{Consensus: 1},
	})
	if len(got) != 1 || got[0] != rb.ID {
		t.Errorf("filtered board = %v, want only the RB", got)
	}
}

func TestGenerateStatOverrides(t *testing.T) {
	// Override away from QB headline stats: only rush_yards counts.
	a := qb(1, "SEC", 5000)
	a.Stats["rush_yards"] = 100
	b := qb(2, "SEC", 1000)
	b.Stats["rush_yards"] = 900

	got := Generate([]models.Candidate{a, b}, Config{
		Weights:       Weights{Production: 1},
		StatOverrides: []string{"rush_yards"},
	})
	if got[0] != b.ID {
		t.Errorf("board leader = %s, want the rushing QB under overridden stats", got[0])
	}
}

func TestAthleticismInvertsTimedDrills(t *testing.T) {
	fast := models.Candidate{
		ID: uuid.New(), Position: models.PositionWR, ConsensusRank: 2,
		Combine: map[string]float64{models.CombineFortyYard: 4.30},
	}
	slow := models.Candidate{
		ID: uuid.New(), Position: models.PositionWR, ConsensusRank: 1,
		Combine: map[string]float64{models.CombineFortyYard: 4.70},
	}

	got := Generate([]models.Candidate{slow, fast}, Config{
		Weights: Weights{Athleticism: 1},
	})
	if got[0] != fast.ID {
		t.Errorf("board leader = %s, want the faster forty", got[0])
	}
}

func TestConferenceScores(t *testing.T) {
	tests := []struct {
		name string
		conf *string
		want float64
	}{
		{"elite", strPtr("SEC"), 1.0},
		{"fcs", strPtr("FCS"), 0.6},
		{"unknown conference", strPtr("Ivy"), 0.7},
		{"missing", nil, 0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := models.Candidate{Conference: tt.conf}
			if got := conferenceScore(c); got != tt.want {
				t.Errorf("conferenceScore = %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestPercentileTiesCountHalf(t *testing.T) {
	pool := []models.Candidate{
		{Stats: map[string]float64{"tackles": 50}},
		{Stats: map[string]float64{"tackles": 50}},
	}
	got := percentile(50, "tackles", pool, statValue, false)
	if got != 0.5 {
		t.Errorf("percentile of all-tied pool = %.3f, want 0.5", got)
	}
}

func TestConsensusScoreFloor(t *testing.T) {
	c := models.Candidate{ConsensusRank: 500}
	if got := consensusScore(c, 10); got != 0 {
		t.Errorf("consensusScore for deep rank = %.3f, want floored 0", got)
	}
}
