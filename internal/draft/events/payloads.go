package events

import (
	"time"
)

// Event payload types shared between the draft app, orchestrator, and outbox
// relay. All payloads marshal to JSON for the outbox table.

// DraftStartedPayload is the payload for a DraftStarted event
type DraftStartedPayload struct {
	DraftID     string    `json:"draft_id"`
	Format      string    `json:"format"`
	StartedAt   time.Time `json:"started_at"`
	TotalRounds int       `json:"total_rounds"`
	TotalPicks  int       `json:"total_picks"`
}

// DraftPausedPayload is the payload for a DraftPaused event
type DraftPausedPayload struct {
	DraftID  string    `json:"draft_id"`
	PausedAt time.Time `json:"paused_at"`
	Reason   string    `json:"reason"`
}

// DraftResumedPayload is the payload for a DraftResumed event
type DraftResumedPayload struct {
	DraftID   string    `json:"draft_id"`
	ResumedAt time.Time `json:"resumed_at"`
}

// DraftCompletedPayload is the payload for a DraftCompleted event
type DraftCompletedPayload struct {
	DraftID     string    `json:"draft_id"`
	CompletedAt time.Time `json:"completed_at"`
	Duration    string    `json:"duration"`
	TotalPicks  int       `json:"total_picks"`
}

// PickStartedPayload is the payload for a PickStarted event
type PickStartedPayload struct {
	DraftID        string    `json:"draft_id"`
	Team           string    `json:"team"`
	Round          int       `json:"round"`
	PickInRound    int       `json:"pick_in_round"`
	OverallPick    int       `json:"overall_pick"`
	OnTheClock     string    `json:"on_the_clock"` // participant id or "CPU"
	StartedAt      time.Time `json:"started_at"`
	TimeoutAt      time.Time `json:"timeout_at"`
	TimePerPickSec int       `json:"time_per_pick_sec"`
}

// PickMadePayload is the payload for a PickMade event
type PickMadePayload struct {
	DraftID       string    `json:"draft_id"`
	Team          string    `json:"team"`
	CandidateID   string    `json:"candidate_id"`
	CandidateName string    `json:"candidate_name"`
	Position      string    `json:"position"`
	Round         int       `json:"round"`
	PickInRound   int       `json:"pick_in_round"`
	OverallPick   int       `json:"overall_pick"`
	AutoPick      bool      `json:"auto_pick"`
	MadeAt        time.Time `json:"made_at"`
}

// TradeAcceptedPayload is the payload for a TradeAccepted event
type TradeAcceptedPayload struct {
	TradeID       string    `json:"trade_id"`
	DraftID       string    `json:"draft_id"`
	ProposerTeam  string    `json:"proposer_team"`
	RecipientTeam string    `json:"recipient_team"`
	ByCPU         bool      `json:"by_cpu"`
	AcceptedAt    time.Time `json:"accepted_at"`
}

// TradeExecutedPayload is the payload for a TradeExecuted event
type TradeExecutedPayload struct {
	TradeID       string    `json:"trade_id"`
	DraftID       string    `json:"draft_id"`
	ProposerTeam  string    `json:"proposer_team"`
	RecipientTeam string    `json:"recipient_team"`
	PicksMoved    []int     `json:"picks_moved"`
	ExecutedAt    time.Time `json:"executed_at"`
}
