package models

import (
	"github.com/google/uuid"
)

// Position defines an NFL position for a draft-eligible candidate.
type Position string

const (
	PositionQB Position = "QB"
	PositionRB Position = "RB"
	PositionFB Position = "FB"
	PositionWR Position = "WR"
	PositionTE Position = "TE"
	PositionOT Position = "OT"
	PositionOG Position = "OG"
	PositionC  Position = "C"
	PositionDE Position = "DE"
	PositionDT Position = "DT"
	PositionLB Position = "LB"
	PositionCB Position = "CB"
	PositionS  Position = "S"
	PositionK  Position = "K"
	PositionP  Position = "P"
)

// Combine measurement keys stored in Candidate.Combine.
const (
	CombineFortyYard = "forty_yard"
	CombineVertical  = "vertical"
	CombineBroadJump = "broad_jump"
	CombineBenchReps = "bench_reps"
	CombineThreeCone = "three_cone"
	CombineShuttle   = "shuttle"
)

// Candidate represents a draft-eligible player. Immutable once loaded for a
// draft year.
type Candidate struct {
	ID            uuid.UUID          `json:"id"`
	DraftYear     int                `json:"draft_year"`
	FullName      string             `json:"full_name"`
	Position      Position           `json:"position"`
	ConsensusRank int                `json:"consensus_rank"` // 1 = best
	College       *string            `json:"college,omitempty"`
	Conference    *string            `json:"conference,omitempty"`
	Combine       map[string]float64 `json:"combine,omitempty"` // keyed by Combine* constants
	Stats         map[string]float64 `json:"stats,omitempty"`   // production stats keyed by stat name
}
