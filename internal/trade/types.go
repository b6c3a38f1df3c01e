package trade

import (
	"github.com/google/uuid"
	"github.com/gridironlabs/mockdraft/internal/models"
)

// ProposeTradeRequest represents a request to propose a pick trade. A nil
// RecipientID targets a CPU-controlled team and gets an immediate CPU
// evaluation. Force skips counterpart consent entirely.
type ProposeTradeRequest struct {
	DraftID       uuid.UUID           `json:"draft_id"`
	ProposerID    uuid.UUID           `json:"proposer_id"`
	RecipientID   *uuid.UUID          `json:"recipient_id,omitempty"`
	ProposerTeam  string              `json:"proposer_team"`
	RecipientTeam string              `json:"recipient_team"`
	Gives         []models.TradePiece `json:"gives"`
	Receives      []models.TradePiece `json:"receives"`
	Force         bool                `json:"force"`
}

// ProposeTradeResult carries the stored trade plus the CPU evaluation when
// the counterpart was CPU-controlled.
type ProposeTradeResult struct {
	Trade      *models.Trade `json:"trade"`
	Evaluation *Evaluation   `json:"evaluation,omitempty"`
}
