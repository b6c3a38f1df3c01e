// Package draftstate implements pure turn-resolution logic over a draft
// snapshot: who controls a slot, what the next state after a pick is, and
// how a season's pick order and future-pick ledger are built.
package draftstate

import (
	"sort"

	"github.com/google/uuid"
	"github.com/gridironlabs/mockdraft/internal/models"
)

// Advancement is the next state after the current pick is made.
type Advancement struct {
	NextPick   int
	NextRound  int
	IsComplete bool
}

// ControllerOf resolves which participant controls a pick slot. A nil result
// means the slot is CPU-controlled. Trade overrides take precedence over the
// draft's team claims.
func ControllerOf(draft *models.Draft, slot models.PickSlot) *uuid.UUID {
	switch slot.OwnerOverride.Kind {
	case models.OwnerParticipant:
		id := slot.OwnerOverride.ParticipantID
		return &id
	case models.OwnerComputer:
		return nil
	}
	if claim, ok := draft.TeamClaims[slot.TeamAbbr]; ok && claim != nil {
		id := *claim
		return &id
	}
	return nil
}

// Advance computes the draft state after the current pick is made. It does
// not mutate the draft; the caller applies the result atomically.
func Advance(draft *models.Draft) Advancement {
	next := draft.CurrentPick + 1
	adv := Advancement{
		NextPick:   next,
		NextRound:  draft.CurrentRound,
		IsComplete: next > len(draft.PickOrder),
	}
	if !adv.IsComplete {
		adv.NextRound = draft.PickOrder[next-1].Round
	}
	return adv
}

// FilterSlots restricts a full season's pick order to slots within the given
// round count, sorted ascending by overall number.
func FilterSlots(slots []models.PickSlot, rounds int) []models.PickSlot {
	filtered := make([]models.PickSlot, 0, len(slots))
	for _, s := range slots {
		if s.Round <= rounds {
			filtered = append(filtered, s)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Overall < filtered[j].Overall
	})
	return filtered
}

// futureRounds is how many rounds ahead future-pick ownership is tracked.
const futureRounds = 3

// BuildFuturePicks builds the future-pick ledger for a draft year. Seeds
// override ownership for year+1; unseeded team/round combinations default to
// self-ownership. Year+2 is always self-owned.
func BuildFuturePicks(draftYear int, teamIDs []string, seeds []models.FuturePick) []models.FuturePick {
	seeded := make(map[string]models.FuturePick, len(seeds))
	for _, s := range seeds {
		if s.Year != draftYear+1 || s.Round > futureRounds {
			continue
		}
		seeded[futureKey(s.OriginatingTeam, s.Round)] = s
	}

	var picks []models.FuturePick
	for _, team := range teamIDs {
		for round := 1; round <= futureRounds; round++ {
			if s, ok := seeded[futureKey(team, round)]; ok {
				picks = append(picks, s)
				continue
			}
			picks = append(picks, models.FuturePick{
				Year:            draftYear + 1,
				Round:           round,
				OriginatingTeam: team,
				OwningTeam:      team,
			})
		}
	}
	for _, team := range teamIDs {
		for round := 1; round <= futureRounds; round++ {
			picks = append(picks, models.FuturePick{
				Year:            draftYear + 2,
				Round:           round,
				OriginatingTeam: team,
				OwningTeam:      team,
			})
		}
	}
	return picks
}

func futureKey(team string, round int) string {
	return team + "#" + string(rune('0'+round))
}

// AvailableFuturePicks returns the future picks currently owned by a team.
func AvailableFuturePicks(picks []models.FuturePick, team string) []models.FuturePick {
	var owned []models.FuturePick
	for _, p := range picks {
		if p.OwningTeam == team {
			owned = append(owned, p)
		}
	}
	return owned
}
