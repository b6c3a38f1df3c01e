package models

import (
	"github.com/google/uuid"
)

// OwnerKind discriminates the tri-state owner override on a pick slot.
type OwnerKind string

const (
	// OwnerUnset means no trade has touched this slot; control falls through
	// to the draft's team claims.
	OwnerUnset OwnerKind = "UNSET"
	// OwnerParticipant means a trade assigned the slot to a participant.
	OwnerParticipant OwnerKind = "PARTICIPANT"
	// OwnerComputer means a trade assigned the slot to a CPU-controlled team.
	OwnerComputer OwnerKind = "COMPUTER"
)

// OwnerOverride records who a trade assigned a pick slot to. The zero value
// is the unset state.
type OwnerOverride struct {
	Kind          OwnerKind `json:"kind,omitempty"`
	ParticipantID uuid.UUID `json:"participant_id,omitempty"` // valid only when Kind == PARTICIPANT
}

// IsSet reports whether a trade has explicitly assigned this slot.
func (o OwnerOverride) IsSet() bool {
	return o.Kind == OwnerParticipant || o.Kind == OwnerComputer
}

// OverrideToParticipant builds an override assigning the slot to a participant.
func OverrideToParticipant(id uuid.UUID) OwnerOverride {
	return OwnerOverride{Kind: OwnerParticipant, ParticipantID: id}
}

// OverrideToComputer builds an override assigning the slot to CPU control.
func OverrideToComputer() OwnerOverride {
	return OwnerOverride{Kind: OwnerComputer}
}

// PickSlot represents one selection slot in a draft's pick order.
type PickSlot struct {
	Overall       int           `json:"overall"` // 1-based, globally unique within a draft
	Round         int           `json:"round"`
	PickInRound   int           `json:"pick_in_round"`
	TeamAbbr      string        `json:"team_abbr"` // team that originally owns the slot
	TeamOverride  string        `json:"team_override,omitempty"`
	OwnerOverride OwnerOverride `json:"owner_override,omitempty"`
}

// ControllingTeam returns the team on the clock for this slot, honoring any
// trade override.
func (p PickSlot) ControllingTeam() string {
	if p.TeamOverride != "" {
		return p.TeamOverride
	}
	return p.TeamAbbr
}

// FuturePick represents a pick in a future draft year. It has no overall
// number; it is valued by projection, not by chart lookup.
type FuturePick struct {
	Year            int    `json:"year"`
	Round           int    `json:"round"`
	OriginatingTeam string `json:"originating_team"`
	OwningTeam      string `json:"owning_team"`
}
