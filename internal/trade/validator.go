// Package trade implements trade validation, CPU trade evaluation, and the
// ownership-transfer computation for accepted trades.
package trade

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/gridironlabs/mockdraft/internal/draftstate"
	"github.com/gridironlabs/mockdraft/internal/models"
)

// ValidatePicksAvailable fails if any current-pick piece on either side of
// the trade references a pick that has already been made. Future-pick pieces
// are always available regardless of draft progress.
//
// Must be re-run against a fresh snapshot immediately before committing a
// trade, not only at proposal time: a referenced pick can be made between
// validation and execution.
func ValidatePicksAvailable(t *models.Trade, draft *models.Draft) error {
	for _, piece := range append(append([]models.TradePiece{}, t.Gives...), t.Receives...) {
		switch piece.Kind {
		case models.TradePieceCurrent:
			if piece.Overall < draft.CurrentPick {
				return fmt.Errorf("pick %d has already been made: %w", piece.Overall, models.ErrInvalidState)
			}
		case models.TradePieceFuture:
			// Future picks have no overall number and never go stale.
		default:
			return fmt.Errorf("unknown trade piece kind %q: %w", piece.Kind, models.ErrInvalidInput)
		}
	}
	return nil
}

// ValidateOwnership checks that the given participant controls every
// current-pick piece in the list. A nil participant means the CPU side.
// Future-pick pieces are not checked here; their ownership is encoded on the
// FuturePick record and checked by ValidateFutureOwnership against the
// owning team.
func ValidateOwnership(participantID *uuid.UUID, pieces []models.TradePiece, draft *models.Draft) error {
	for _, piece := range pieces {
		switch piece.Kind {
		case models.TradePieceCurrent:
			slot := draft.SlotAt(piece.Overall)
			if slot == nil {
				return fmt.Errorf("pick %d is not in this draft: %w", piece.Overall, models.ErrNotFound)
			}
			controller := draftstate.ControllerOf(draft, *slot)
			if !sameController(controller, participantID) {
				return fmt.Errorf("pick %d is not controlled by the offering side: %w", piece.Overall, models.ErrNotAuthorized)
			}
		case models.TradePieceFuture:
			// Ownership lives on the FuturePick record.
		default:
			return fmt.Errorf("unknown trade piece kind %q: %w", piece.Kind, models.ErrInvalidInput)
		}
	}
	return nil
}

// ValidateFutureOwnership checks that every future-pick piece in the list
// matches a future pick currently owned by the given team. An unqualified
// piece (empty originating team) still has to land on a pick the team holds;
// it cannot reach into another team's ledger.
func ValidateFutureOwnership(pieces []models.TradePiece, futures []models.FuturePick, team string) error {
	owned := draftstate.AvailableFuturePicks(futures, team)
	for _, piece := range pieces {
		if piece.Kind != models.TradePieceFuture {
			continue
		}
		matched := false
		for _, fp := range owned {
			if piece.Matches(fp) {
				matched = true
				break
			}
		}
		if !matched {
			return fmt.Errorf("%s holds no %d round-%d future pick matching the offer: %w", team, piece.Year, piece.Round, models.ErrNotAuthorized)
		}
	}
	return nil
}

func sameController(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
