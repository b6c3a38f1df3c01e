package trade

import (
	"github.com/gridironlabs/mockdraft/internal/models"
)

// Execution is the computed result of an accepted trade: the full pick order
// and future-pick ledger with ownership reassigned. Entries not referenced by
// the trade compare equal to their input.
type Execution struct {
	PickOrder   []models.PickSlot
	FuturePicks []models.FuturePick
}

// ComputeExecution produces the new ownership assignments resulting from an
// accepted trade. Slots the proposer gives go to the recipient (explicit CPU
// control when the recipient is the computer); slots the proposer receives go
// symmetrically to the proposer. Future picks matched by year, round, and
// originating team swap owning teams the same way, but only when the offering
// side owns the pick going in.
func ComputeExecution(t *models.Trade, draft *models.Draft) Execution {
	recipientOverride := models.OverrideToComputer()
	if t.RecipientID != nil {
		recipientOverride = models.OverrideToParticipant(*t.RecipientID)
	}
	proposerOverride := models.OverrideToParticipant(t.ProposerID)

	order := make([]models.PickSlot, len(draft.PickOrder))
	copy(order, draft.PickOrder)
	for i := range order {
		for _, piece := range t.Gives {
			if piece.Kind == models.TradePieceCurrent && piece.Overall == order[i].Overall {
				order[i].OwnerOverride = recipientOverride
				order[i].TeamOverride = t.RecipientTeam
			}
		}
		for _, piece := range t.Receives {
			if piece.Kind == models.TradePieceCurrent && piece.Overall == order[i].Overall {
				order[i].OwnerOverride = proposerOverride
				order[i].TeamOverride = t.ProposerTeam
			}
		}
	}

	futures := make([]models.FuturePick, len(draft.FuturePicks))
	copy(futures, draft.FuturePicks)
	for i := range futures {
		// Match against the pre-trade owner so a piece can only move picks
		// the offering side actually holds, never a third party's.
		owner := futures[i].OwningTeam
		for _, piece := range t.Gives {
			if owner == t.ProposerTeam && piece.Matches(futures[i]) {
				futures[i].OwningTeam = t.RecipientTeam
			}
		}
		for _, piece := range t.Receives {
			if owner == t.RecipientTeam && piece.Matches(futures[i]) {
				futures[i].OwningTeam = t.ProposerTeam
			}
		}
	}

	return Execution{PickOrder: order, FuturePicks: futures}
}
