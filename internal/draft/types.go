package draft

import (
	"time"

	"github.com/google/uuid"
	"github.com/gridironlabs/mockdraft/internal/models"
)

// CreateDraftRequest represents a request to create a new draft
type CreateDraftRequest struct {
	ID        uuid.UUID            `json:"id"`
	Settings  models.DraftSettings `json:"settings"`
	PickOrder []models.PickSlot    `json:"pick_order"`
	// TeamClaims maps team abbreviation to the claiming participant; a nil
	// value marks the team CPU-controlled.
	TeamClaims map[string]*uuid.UUID `json:"team_claims"`
	// FutureSeeds are known future-pick trades to seed alongside the
	// generated self-owned future inventory.
	FutureSeeds []models.FuturePick `json:"future_seeds"`
}

// ClaimTeamRequest represents a request to claim or release a team. A release
// names the participant giving the team up; only the current claimant may
// release it back to CPU control.
type ClaimTeamRequest struct {
	Team          string     `json:"team"`
	ParticipantID *uuid.UUID `json:"participant_id"`
	Identity      string     `json:"identity"`
	Release       bool       `json:"release"`
}

// MakePickRequest represents a request to record a pick. A nil ParticipantID
// is a system pick (CPU turn or clock expiry) and bypasses the controller
// check.
type MakePickRequest struct {
	DraftID       uuid.UUID  `json:"draft_id"`
	ParticipantID *uuid.UUID `json:"participant_id"`
	CandidateID   uuid.UUID  `json:"candidate_id"`
	OverallPick   int        `json:"overall_pick"`
	AutoPick      bool       `json:"auto_pick"`
}

// NextDeadline represents the next pick deadline across active drafts
type NextDeadline struct {
	DraftID  uuid.UUID  `json:"draft_id"`
	Deadline *time.Time `json:"deadline"`
}
