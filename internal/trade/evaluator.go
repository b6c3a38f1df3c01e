package trade

import (
	"fmt"

	"github.com/gridironlabs/mockdraft/internal/draftstate"
	"github.com/gridironlabs/mockdraft/internal/draftvalue"
	"github.com/gridironlabs/mockdraft/internal/models"
)

// acceptTolerance is the fraction of the giving total a CPU team will accept
// back: a trade within 5% of even is taken.
const acceptTolerance = 0.95

// Evaluation is the CPU trade evaluator's verdict on a proposal, from the
// evaluated (recipient) team's perspective.
type Evaluation struct {
	Accepted       bool    `json:"accepted"`
	GivingValue    float64 `json:"giving_value"`
	ReceivingValue float64 `json:"receiving_value"`
	NetValue       float64 `json:"net_value"`
	Reason         string  `json:"reason"`
}

// EvaluateTrade scores a proposed trade from the CPU counterpart's
// perspective. "Giving" is what the proposer receives; "receiving" is what
// the proposer gives. When the proposer is acquiring a first-round slot they
// did not already control, the round-1 entry premium is credited to the
// receiving side, lowering the evaluator's willingness threshold by the same
// amount.
func EvaluateTrade(t *models.Trade, draft *models.Draft) Evaluation {
	giving := piecesValue(t.Receives, draft)
	receiving := piecesValue(t.Gives, draft)

	if proposerAcquiresRound1(t, draft) {
		receiving += draftvalue.Round1Premium
	}

	net := receiving - giving
	ev := Evaluation{
		Accepted:       receiving >= giving*acceptTolerance,
		GivingValue:    giving,
		ReceivingValue: receiving,
		NetValue:       net,
	}
	if ev.Accepted {
		ev.Reason = fmt.Sprintf("accepted: receiving %.1f for %.1f (net %+.1f)", receiving, giving, net)
	} else {
		ev.Reason = fmt.Sprintf("rejected: receiving %.1f falls short of %.1f asked (net %+.1f)", receiving, giving, net)
	}
	return ev
}

// piecesValue sums draft capital over both piece kinds.
func piecesValue(pieces []models.TradePiece, draft *models.Draft) float64 {
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

// proposerAcquiresRound1 reports whether the trade hands the proposer a
// first-round slot they did not control before the trade. A same-side
// reacquisition (the proposer already controls the slot) does not trigger
// the premium.
func proposerAcquiresRound1(t *models.Trade, draft *models.Draft) bool {
	for _, p := range t.Receives {
		if p.Kind != models.TradePieceCurrent {
			continue
		}
		slot := draft.SlotAt(p.Overall)
		if slot == nil || slot.Round != 1 {
			continue
		}
		controller := draftstate.ControllerOf(draft, *slot)
		if controller == nil || *controller != t.ProposerID {
			return true
		}
	}
	return false
}
