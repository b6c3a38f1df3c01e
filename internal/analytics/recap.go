package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/gridironlabs/mockdraft/internal/draftvalue"
	"github.com/gridironlabs/mockdraft/internal/models"
)

// tradeEvenBand is the fraction of the larger side's total within which a
// trade's net value grades as even.
const tradeEvenBand = 0.05

// RecapInput carries everything needed to grade a completed draft.
type RecapInput struct {
	Draft *models.Draft
	// Catalog maps candidate id to candidate for the draft year.
	Catalog map[uuid.UUID]models.Candidate
	// TeamNeeds maps team abbreviation to its static ordered need list.
	TeamNeeds map[string][]models.Position
	// PositionalValue maps positions to value multipliers.
	PositionalValue map[models.Position]float64
	// Board optionally supplies a custom ranking for board deltas.
	Board []uuid.UUID
	// Trades are the draft's trades; only accepted ones are analyzed.
	Trades []models.Trade
}

// AnalyzeAllTrades grades every accepted trade by summed piece value. A
// trade whose net value is within 5% of the larger side's total is even;
// otherwise the side that acquired more value wins.
func AnalyzeAllTrades(trades []models.Trade, draft *models.Draft) []TradeAnalysis {
	var out []TradeAnalysis
	for _, t := range trades {
		if t.Status != models.TradeStatusAccepted {
			continue
		}
		proposerGot := piecesCapital(t.Receives, draft)
		recipientGot := piecesCapital(t.Gives, draft)

		a := TradeAnalysis{
			TradeID:        t.ID,
			ProposerTeam:   t.ProposerTeam,
			RecipientTeam:  t.RecipientTeam,
			ProposerValue:  proposerGot,
			RecipientValue: recipientGot,
			NetValue:       proposerGot - recipientGot,
		}
		larger := proposerGot
		if recipientGot > larger {
			larger = recipientGot
		}
		if math.Abs(a.NetValue) <= larger*tradeEvenBand {
			a.Even = true
		} else if a.NetValue > 0 {
			a.Winner = t.ProposerTeam
		} else {
			a.Winner = t.RecipientTeam
		}
		out = append(out, a)
	}
	return out
}

func piecesCapital(pieces []models.TradePiece, draft *models.Draft) float64 {
	var total float64
	for _, p := range pieces {
		switch p.Kind {
		case models.TradePieceCurrent:
			total += draftvalue.ValueOf(p.Overall)
		case models.TradePieceFuture:
			yearsOut := p.Year - draft.Settings.Year
			if yearsOut < 1 {
				yearsOut = 1
			}
			total += draftvalue.FuturePickValue(p.Round, yearsOut)
		}
	}
	return total
}

// ComputeOptimalBaseline walks the actual picks in overall order and records
// the best-remaining-rank candidate not yet consumed by any actual pick —
// the strict best-player-available counterfactual.
func ComputeOptimalBaseline(draft *models.Draft, catalog map[uuid.UUID]models.Candidate) []BaselineEntry {
	consumed := make(map[uuid.UUID]bool, len(draft.PickedIDs))
	var entries []BaselineEntry

	for i, slot := range draft.PickOrder {
		if i >= len(draft.PickedIDs) {
			break
		}
		actualID := draft.PickedIDs[i]
		actual := catalog[actualID]

		optimal, ok := bestRemaining(catalog, consumed)
		if !ok {
			break
		}

		entries = append(entries, BaselineEntry{
			Overall:     slot.Overall,
			ActualID:    actualID,
			ActualRank:  actual.ConsensusRank,
			OptimalID:   optimal.ID,
			OptimalRank: optimal.ConsensusRank,
			FollowedBPA: optimal.ID == actualID,
		})
		consumed[actualID] = true
	}
	return entries
}

func bestRemaining(catalog map[uuid.UUID]models.Candidate, consumed map[uuid.UUID]bool) (models.Candidate, bool) {
	var best models.Candidate
	found := false
	for id, c := range catalog {
		if consumed[id] {
			continue
		}
		if !found || c.ConsensusRank < best.ConsensusRank {
			best = c
			found = true
		}
	}
	return best, found
}

// GenerateDraftRecap grades every pick and team of a completed draft. Each
// team's needs shrink as its own picks are graded, so later picks are graded
// against remaining need, not the static list.
func GenerateDraftRecap(in RecapInput) (*DraftRecap, error) {
	draft := in.Draft
	if draft == nil {
		return nil, fmt.Errorf("generate recap: nil draft: %w", models.ErrInvalidInput)
	}
	if len(draft.PickedIDs) == 0 {
		return nil, fmt.Errorf("generate recap: draft has no picks: %w", models.ErrInvalidState)
	}

	consumed := make(map[uuid.UUID]bool, len(draft.PickedIDs))
	// effectiveNeeds is the per-team fold accumulator: needs remaining
	// after each of that team's graded picks.
	effectiveNeeds := make(map[string][]models.Position, len(in.TeamNeeds))
	teamPicks := make(map[string][]PickGrade)
	var teamOrder []string

	for i, slot := range draft.PickOrder {
		if i >= len(draft.PickedIDs) {
			break
		}
		candID := draft.PickedIDs[i]
		cand, ok := in.Catalog[candID]
		if !ok {
			return nil, fmt.Errorf("generate recap: picked candidate %s not in catalog: %w", candID, models.ErrNotFound)
		}

		team := slot.ControllingTeam()
		needs, seen := effectiveNeeds[team]
		if !seen {
			needs = append([]models.Position(nil), in.TeamNeeds[team]...)
		}

		bestRank := 0
		if best, ok := bestRemaining(in.Catalog, consumed); ok {
			bestRank = best.ConsensusRank
		}

		grade := GradePick(PickInput{
			Overall:           slot.Overall,
			Candidate:         cand,
			Needs:             needs,
			PositionalValue:   in.PositionalValue,
			Board:             in.Board,
			BestAvailableRank: bestRank,
		})

		if grade.NeedIndex >= 0 {
			needs = append(needs[:grade.NeedIndex], needs[grade.NeedIndex+1:]...)
		}
		effectiveNeeds[team] = needs

		if _, ok := teamPicks[team]; !ok {
			teamOrder = append(teamOrder, team)
		}
		teamPicks[team] = append(teamPicks[team], grade)
		consumed[candID] = true
	}

	tradeAnalysis := AnalyzeAllTrades(in.Trades, draft)
	netByTeam := make(map[string]float64)
	for _, ta := range tradeAnalysis {
		netByTeam[ta.ProposerTeam] += ta.NetValue
		netByTeam[ta.RecipientTeam] -= ta.NetValue
	}

	classMeanSurplus := meanTeamSurplus(teamPicks)

	recap := &DraftRecap{
		TradeAnalysis: tradeAnalysis,
		Baseline:      ComputeOptimalBaseline(draft, in.Catalog),
	}
	for _, team := range teamOrder {
		recap.TeamGrades = append(recap.TeamGrades, GradeTeamDraft(TeamInput{
			Team:             team,
			Picks:            teamPicks[team],
			StaticNeeds:      in.TeamNeeds[team],
			ClassMeanSurplus: classMeanSurplus,
			NetTradeValue:    netByTeam[team],
		}))
	}
	sort.SliceStable(recap.TeamGrades, func(i, j int) bool {
		return recap.TeamGrades[i].Overall > recap.TeamGrades[j].Overall
	})

	var gradeSum float64
	for _, g := range recap.TeamGrades {
		gradeSum += float64(g.Overall)
	}
	recap.OverallClassGrade = int(math.Round(gradeSum / float64(len(recap.TeamGrades))))

	return recap, nil
}

func meanTeamSurplus(teamPicks map[string][]PickGrade) float64 {
	if len(teamPicks) == 0 {
		return 0
	}
	var total float64
	for _, picks := range teamPicks {
		for _, p := range picks {
			total += p.SurplusValue
		}
	}
	return total / float64(len(teamPicks))
}
