package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftStatus defines the status of a draft.
type DraftStatus string

const (
	DraftStatusLobby    DraftStatus = "LOBBY"
	DraftStatusActive   DraftStatus = "ACTIVE"
	DraftStatusPaused   DraftStatus = "PAUSED"
	DraftStatusComplete DraftStatus = "COMPLETE"
)

// DraftFormat defines the draft format.
type DraftFormat string

const (
	DraftFormatStandard DraftFormat = "STANDARD"
)

// AssignmentMode defines how participants are assigned to teams.
type AssignmentMode string

const (
	AssignmentModeChoose AssignmentMode = "CHOOSE"
	AssignmentModeRandom AssignmentMode = "RANDOM"
)

// CPUSpeed controls pacing of CPU pick cascades. Presentation policy only;
// the engine never sleeps.
type CPUSpeed string

const (
	CPUSpeedInstant CPUSpeed = "INSTANT"
	CPUSpeedSlow    CPUSpeed = "SLOW"
)

// DraftSettings holds JSONB configuration for drafts.
type DraftSettings struct {
	Rounds         int            `json:"rounds"`
	TimePerPickSec int            `json:"time_per_pick_sec"`
	Format         DraftFormat    `json:"format"`
	Year           int            `json:"year"`
	AssignmentMode AssignmentMode `json:"assignment_mode"`
	CPUSpeed       CPUSpeed       `json:"cpu_speed"`
	TradesEnabled  bool           `json:"trades_enabled"`
}

// Draft represents a mock draft instance.
//
// TeamClaims maps team abbreviation to the controlling participant; a nil
// value means the team is CPU-controlled. ParticipantIdentity maps a
// participant to their external (chat platform) identity.
type Draft struct {
	ID                  uuid.UUID                 `json:"id"`
	Status              DraftStatus               `json:"status"`
	Settings            DraftSettings             `json:"settings"`
	CurrentPick         int                       `json:"current_pick"` // 1-based index into PickOrder
	CurrentRound        int                       `json:"current_round"`
	TeamClaims          map[string]*uuid.UUID     `json:"team_claims"`
	ParticipantIdentity map[uuid.UUID]string      `json:"participant_identity"`
	PickOrder           []PickSlot                `json:"pick_order"`
	PickedIDs           []uuid.UUID               `json:"picked_ids"` // candidate ids in pick order
	FuturePicks         []FuturePick              `json:"future_picks,omitempty"`
	StartedAt           *time.Time                `json:"started_at,omitempty"`
	CompletedAt         *time.Time                `json:"completed_at,omitempty"`
	CreatedAt           time.Time                 `json:"created_at"`
	UpdatedAt           time.Time                 `json:"updated_at"`
}

// SlotAt returns the pick slot with the given overall number, or nil.
func (d *Draft) SlotAt(overall int) *PickSlot {
	for i := range d.PickOrder {
		if d.PickOrder[i].Overall == overall {
			return &d.PickOrder[i]
		}
	}
	return nil
}

// IsComplete reports whether every slot in the pick order has been used.
func (d *Draft) IsComplete() bool {
	return d.CurrentPick > len(d.PickOrder)
}
