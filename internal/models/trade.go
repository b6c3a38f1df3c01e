package models

import (
	"time"

	"github.com/google/uuid"
)

// TradeStatus defines the status of a trade proposal.
type TradeStatus string

const (
	TradeStatusPending   TradeStatus = "PENDING"
	TradeStatusAccepted  TradeStatus = "ACCEPTED"
	TradeStatusRejected  TradeStatus = "REJECTED"
	TradeStatusCancelled TradeStatus = "CANCELLED"
	TradeStatusExpired   TradeStatus = "EXPIRED"
)

// TradePieceKind discriminates the trade piece union. Every consumer must
// handle both kinds; there is no default case that silently drops one.
type TradePieceKind string

const (
	TradePieceCurrent TradePieceKind = "CURRENT_PICK"
	TradePieceFuture  TradePieceKind = "FUTURE_PICK"
)

// TradePiece is one asset in a trade: either a current-draft pick slot
// (identified by overall number) or a future-year pick (identified by
// year, round, and optionally the originating team).
type TradePiece struct {
	Kind            TradePieceKind `json:"kind"`
	Overall         int            `json:"overall,omitempty"`          // CURRENT_PICK
	Year            int            `json:"year,omitempty"`             // FUTURE_PICK
	Round           int            `json:"round,omitempty"`            // FUTURE_PICK
	OriginatingTeam string         `json:"originating_team,omitempty"` // FUTURE_PICK, optional
}

// CurrentPickPiece builds a current-pick trade piece.
func CurrentPickPiece(overall int) TradePiece {
	return TradePiece{Kind: TradePieceCurrent, Overall: overall}
}

// FuturePickPiece builds a future-pick trade piece.
func FuturePickPiece(year, round int, originatingTeam string) TradePiece {
	return TradePiece{Kind: TradePieceFuture, Year: year, Round: round, OriginatingTeam: originatingTeam}
}

// Matches reports whether a future pick record is the one this piece names.
// An empty OriginatingTeam matches any originating team for the year+round.
func (p TradePiece) Matches(fp FuturePick) bool {
	if p.Kind != TradePieceFuture {
		return false
	}
	if p.Year != fp.Year || p.Round != fp.Round {
		return false
	}
	return p.OriginatingTeam == "" || p.OriginatingTeam == fp.OriginatingTeam
}

// Trade represents a pick trade proposal between two participants. A nil
// RecipientID means the counterpart team is CPU-controlled and the trade is
// evaluated by the CPU trade evaluator rather than a human response.
type Trade struct {
	ID            uuid.UUID    `json:"id"`
	DraftID       uuid.UUID    `json:"draft_id"`
	Status        TradeStatus  `json:"status"`
	ProposerID    uuid.UUID    `json:"proposer_id"`
	RecipientID   *uuid.UUID   `json:"recipient_id,omitempty"`
	ProposerTeam  string       `json:"proposer_team"`
	RecipientTeam string       `json:"recipient_team"`
	Gives         []TradePiece `json:"gives"`    // what the proposer gives up
	Receives      []TradePiece `json:"receives"` // what the proposer gets back
	ProposedAt    time.Time    `json:"proposed_at"`
	Force         bool         `json:"force"` // bypasses counterpart consent
}
