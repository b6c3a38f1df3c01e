package analytics

import (
	"fmt"
	"math"

	"github.com/gridironlabs/mockdraft/internal/models"
)

// Overall grade weights over the five sub-scores.
const (
	weightValue      = 0.30
	weightPositional = 0.20
	weightSurplus    = 0.15
	weightNeeds      = 0.20
	weightBPA        = 0.15
)

// tierThresholds map descending overall-grade floors to tiers.
var tierThresholds = []struct {
	floor int
	tier  Tier
}{
	{90, TierElite},
	{80, TierGreat},
	{70, TierGood},
	{60, TierSolid},
	{50, TierAverage},
	{40, TierBelowAverage},
	{30, TierPoor},
}

// TierFor returns the tier label for an overall grade.
func TierFor(overall int) Tier {
	for _, t := range tierThresholds {
		if overall >= t.floor {
			return t.tier
		}
	}
	return TierUndrafted
}

// TeamInput carries one team's grading inputs.
type TeamInput struct {
	Team string
	// Picks are the team's pick grades in pick order.
	Picks []PickGrade
	// StaticNeeds is the team's full pre-draft need list.
	StaticNeeds []models.Position
	// ClassMeanSurplus is the mean per-team surplus total across the class.
	ClassMeanSurplus float64
	// NetTradeValue is the team's summed net value over accepted trades.
	NetTradeValue float64
}

// GradeTeamDraft aggregates a team's pick grades into five 0-100 sub-scores
// and a weighted overall grade.
func GradeTeamDraft(in TeamInput) TeamDraftGrade {
	grade := TeamDraftGrade{
		Team:          in.Team,
		NetTradeValue: in.NetTradeValue,
		Picks:         in.Picks,
	}
	if len(in.Picks) == 0 {
		grade.SubScores = SubScores{Value: neutralScore, Positional: neutralScore, Surplus: neutralScore, NeedsFilled: 0, BPAAdherence: 100}
		grade.Overall = overallGrade(grade.SubScores)
		grade.Tier = TierFor(grade.Overall)
		return grade
	}

	grade.SubScores = SubScores{
		Value:        meanPickScore(in.Picks),
		Positional:   positionalUtilization(in.Picks),
		Surplus:      surplusScore(in.Picks, in.ClassMeanSurplus),
		NeedsFilled:  needsFilledScore(in.StaticNeeds, in.Picks),
		BPAAdherence: bpaAdherenceScore(in.Picks),
	}
	grade.Overall = overallGrade(grade.SubScores)
	grade.Tier = TierFor(grade.Overall)
	grade.Highlights = highlights(in.Picks)
	return grade
}

func overallGrade(s SubScores) int {
	weighted := s.Value*weightValue +
		s.Positional*weightPositional +
		s.Surplus*weightSurplus +
		s.NeedsFilled*weightNeeds +
		s.BPAAdherence*weightBPA
	return int(math.Round(weighted))
}

func meanPickScore(picks []PickGrade) float64 {
	var total float64
	for _, p := range picks {
		total += p.Score
	}
	return total / float64(len(picks))
}

// positionalUtilization rescales the average positional premium captured,
// weighted by slot, around a neutral 50.
func positionalUtilization(picks []PickGrade) float64 {
	var total float64
	for _, p := range picks {
		total += (p.PositionalMultiplier - 1.0) * slotWeight(p.Overall)
	}
	avg := total / float64(len(picks))
	return clamp(neutralScore+avg*100, 0, 100)
}

// surplusScore compares the team's surplus total to the class-wide mean: a
// team at the mean scores 50, twice the mean scores 100.
func surplusScore(picks []PickGrade, classMean float64) float64 {
	if classMean <= 0 {
		return neutralScore
	}
	var total float64
	for _, p := range picks {
		total += p.SurplusValue
	}
	return clamp(neutralScore*total/classMean, 0, 100)
}

// needsFilledScore is the fraction of static needs whose positions appear
// among the team's picks, removing one need per matching pick.
func needsFilledScore(staticNeeds []models.Position, picks []PickGrade) float64 {
	if len(staticNeeds) == 0 {
		return 100
	}
	remaining := make([]models.Position, len(staticNeeds))
	copy(remaining, staticNeeds)
	filled := 0
	for _, p := range picks {
		for i, need := range remaining {
			if need == p.Position {
				remaining = append(remaining[:i], remaining[i+1:]...)
				filled++
				break
			}
		}
	}
	return float64(filled) / float64(len(staticNeeds)) * 100
}

// bpaAdherenceScore starts at 100 and penalizes each reach proportional to
// how far below the pick's reach threshold its value delta fell.
func bpaAdherenceScore(picks []PickGrade) float64 {
	score := 100.0
	for _, p := range picks {
		t := reachThreshold(p.Overall)
		d := float64(p.ValueDelta)
		if d >= -t {
			continue
		}
		overshoot := (-d - t) / t
		score -= clamp(overshoot, 0, 2) * posDimMax
	}
	return clamp(score, 0, 100)
}

// highlights picks out the narrative-worthy extremes of a team's draft.
func highlights(picks []PickGrade) []string {
	var out []string
	best := picks[0]
	worst := picks[0]
	for _, p := range picks[1:] {
		if p.ValueDelta > best.ValueDelta {
			best = p
		}
		if p.ValueDelta < worst.ValueDelta {
			worst = p
		}
	}
	if best.ValueDelta >= int(reachThreshold(best.Overall)) {
		out = append(out, fmt.Sprintf("best value: %s (rank %d) at pick %d", best.Position, best.ConsensusRank, best.Overall))
	}
	if worst.ValueDelta < -int(reachThreshold(worst.Overall)) {
		out = append(out, fmt.Sprintf("biggest reach: %s (rank %d) at pick %d", worst.Position, worst.ConsensusRank, worst.Overall))
	}
	return out
}
