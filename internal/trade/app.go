package trade

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/gridironlabs/mockdraft/internal/draft/events"
	"github.com/gridironlabs/mockdraft/internal/models"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Repository defines what the trade app layer needs from the trade store.
type Repository interface {
	CreateTrade(ctx context.Context, trade *models.Trade) (*models.Trade, error)
	GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error)
	UpdateTradeStatus(ctx context.Context, id uuid.UUID, status models.TradeStatus) (*models.Trade, error)
	ListTradesForDraft(ctx context.Context, draftID uuid.UUID) ([]models.Trade, error)
}

// DraftStore defines what the trade app needs from the draft store.
type DraftStore interface {
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	ApplyTradeExecution(ctx context.Context, draftID uuid.UUID, expectedPick int, pickOrder []models.PickSlot, futures []models.FuturePick) error
}

// OutboxApp defines what the trade app needs from the outbox app.
type OutboxApp interface {
	InsertEvent(ctx context.Context, draftID uuid.UUID, eventType string, payload []byte) error
}

// App handles trade proposal, response, and execution business logic
type App struct {
	repo   Repository
	drafts DraftStore
	outbox OutboxApp
	clock  clockwork.Clock
}

// NewApp creates a new trade App
func NewApp(repo Repository, drafts DraftStore, outbox OutboxApp, clock clockwork.Clock) *App {
	return &App{
		repo:   repo,
		drafts: drafts,
		outbox: outbox,
		clock:  clock,
	}
}

// ProposeTrade validates and stores a trade proposal. Trades against a CPU
// team are answered immediately by the CPU evaluator; forced trades execute
// without consent.
func (a *App) ProposeTrade(ctx context.Context, req ProposeTradeRequest) (*ProposeTradeResult, error) {
	if err := validateProposeRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	draft, err := a.drafts.GetDraft(ctx, req.DraftID)
	if err != nil {
		return nil, fmt.Errorf("draft not found: %w", err)
	}
	if draft.Status != models.DraftStatusActive {
		return nil, fmt.Errorf("draft is %s, trades require an active draft: %w", draft.Status, models.ErrInvalidState)
	}
	if !draft.Settings.TradesEnabled {
		return nil, fmt.Errorf("trades disabled for this draft: %w", models.ErrInvalidState)
	}

	trade := &models.Trade{
		ID:            uuid.New(),
		DraftID:       req.DraftID,
		Status:        models.TradeStatusPending,
		ProposerID:    req.ProposerID,
		RecipientID:   req.RecipientID,
		ProposerTeam:  req.ProposerTeam,
		RecipientTeam: req.RecipientTeam,
		Gives:         req.Gives,
		Receives:      req.Receives,
		ProposedAt:    a.clock.Now(),
		Force:         req.Force,
	}

	if err := a.validateAgainstDraft(trade, draft); err != nil {
		return nil, err
	}

	stored, err := a.repo.CreateTrade(ctx, trade)
	if err != nil {
		return nil, fmt.Errorf("failed to create trade: %w", err)
	}

	result := &ProposeTradeResult{Trade: stored}

	if stored.Force {
		executed, err := a.executeTrade(ctx, stored, true)
		if err != nil {
			return nil, err
		}
		result.Trade = executed
		return result, nil
	}

	if stored.RecipientID == nil {
		eval := EvaluateTrade(stored, draft)
		result.Evaluation = &eval

		log.Info().
			Str("trade_id", stored.ID.String()).
			Bool("accepted", eval.Accepted).
			Float64("net_value", eval.NetValue).
			Str("reason", eval.Reason).
			Msg("CPU evaluated trade")

		if !eval.Accepted {
			rejected, err := a.repo.UpdateTradeStatus(ctx, stored.ID, models.TradeStatusRejected)
			if err != nil {
				return nil, fmt.Errorf("failed to reject trade: %w", err)
			}
			result.Trade = rejected
			return result, nil
		}
		executed, err := a.executeTrade(ctx, stored, true)
		if err != nil {
			return nil, err
		}
		result.Trade = executed
	}

	return result, nil
}

// AcceptTrade accepts a pending trade on behalf of its recipient and
// executes it. The trade is re-validated against a fresh draft snapshot;
// a proposal gone stale since it was made expires instead of executing.
func (a *App) AcceptTrade(ctx context.Context, tradeID uuid.UUID, participantID uuid.UUID) (*models.Trade, error) {
	trade, err := a.repo.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, fmt.Errorf("trade not found: %w", err)
	}
	if trade.Status != models.TradeStatusPending {
		return nil, fmt.Errorf("trade is %s, not pending: %w", trade.Status, models.ErrInvalidState)
	}
	if trade.RecipientID == nil || *trade.RecipientID != participantID {
		return nil, fmt.Errorf("only the recipient can accept: %w", models.ErrNotAuthorized)
	}
	return a.executeTrade(ctx, trade, false)
}

// RejectTrade rejects a pending trade on behalf of its recipient
func (a *App) RejectTrade(ctx context.Context, tradeID uuid.UUID, participantID uuid.UUID) (*models.Trade, error) {
	trade, err := a.repo.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, fmt.Errorf("trade not found: %w", err)
	}
	if trade.Status != models.TradeStatusPending {
		return nil, fmt.Errorf("trade is %s, not pending: %w", trade.Status, models.ErrInvalidState)
	}
	if trade.RecipientID == nil || *trade.RecipientID != participantID {
		return nil, fmt.Errorf("only the recipient can reject: %w", models.ErrNotAuthorized)
	}

	updated, err := a.repo.UpdateTradeStatus(ctx, tradeID, models.TradeStatusRejected)
	if err != nil {
		return nil, fmt.Errorf("failed to reject trade: %w", err)
	}
	return updated, nil
}

// CancelTrade withdraws a pending trade on behalf of its proposer
func (a *App) CancelTrade(ctx context.Context, tradeID uuid.UUID, participantID uuid.UUID) (*models.Trade, error) {
	trade, err := a.repo.GetTrade(ctx, tradeID)
	if err != nil {
		return nil, fmt.Errorf("trade not found: %w", err)
	}
	if trade.Status != models.TradeStatusPending {
		return nil, fmt.Errorf("trade is %s, not pending: %w", trade.Status, models.ErrInvalidState)
	}
	if trade.ProposerID != participantID {
		return nil, fmt.Errorf("only the proposer can cancel: %w", models.ErrNotAuthorized)
	}

	updated, err := a.repo.UpdateTradeStatus(ctx, tradeID, models.TradeStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel trade: %w", err)
	}
	return updated, nil
}

// ListTradesForDraft returns every trade recorded for a draft
func (a *App) ListTradesForDraft(ctx context.Context, draftID uuid.UUID) ([]models.Trade, error) {
	trades, err := a.repo.ListTradesForDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return trades, nil
}

// executeTrade re-validates against a fresh snapshot, applies the pick swap
// conditionally on the draft cursor, and marks the trade accepted. A stale
// trade is marked expired and reported as invalid state.
func (a *App) executeTrade(ctx context.Context, trade *models.Trade, byCPU bool) (*models.Trade, error) {
	draft, err := a.drafts.GetDraft(ctx, trade.DraftID)
	if err != nil {
		return nil, fmt.Errorf("draft not found: %w", err)
	}

	if err := a.validateAgainstDraft(trade, draft); err != nil {
		if _, expireErr := a.repo.UpdateTradeStatus(ctx, trade.ID, models.TradeStatusExpired); expireErr != nil {
			log.Error().Err(expireErr).Str("trade_id", trade.ID.String()).Msg("failed to expire stale trade")
		}
		return nil, fmt.Errorf("trade no longer valid: %w", err)
	}

	exec := ComputeExecution(trade, draft)
	if err := a.drafts.ApplyTradeExecution(ctx, trade.DraftID, draft.CurrentPick, exec.PickOrder, exec.FuturePicks); err != nil {
		return nil, fmt.Errorf("failed to apply trade: %w", err)
	}

	updated, err := a.repo.UpdateTradeStatus(ctx, trade.ID, models.TradeStatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("failed to mark trade accepted: %w", err)
	}

	now := a.clock.Now()
	a.emit(ctx, trade.DraftID, "TradeAccepted", events.TradeAcceptedPayload{
		TradeID:       trade.ID.String(),
		DraftID:       trade.DraftID.String(),
		ProposerTeam:  trade.ProposerTeam,
		RecipientTeam: trade.RecipientTeam,
		ByCPU:         byCPU,
		AcceptedAt:    now,
	})
	a.emit(ctx, trade.DraftID, "TradeExecuted", events.TradeExecutedPayload{
		TradeID:       trade.ID.String(),
		DraftID:       trade.DraftID.String(),
		ProposerTeam:  trade.ProposerTeam,
		RecipientTeam: trade.RecipientTeam,
		PicksMoved:    currentPickOveralls(trade),
		ExecutedAt:    now,
	})

	log.Info().
		Str("trade_id", trade.ID.String()).
		Str("proposer_team", trade.ProposerTeam).
		Str("recipient_team", trade.RecipientTeam).
		Msg("trade executed")
	return updated, nil
}

// validateAgainstDraft checks ownership on both sides and piece availability
// against the given snapshot.
func (a *App) validateAgainstDraft(trade *models.Trade, draft *models.Draft) error {
	if err := ValidatePicksAvailable(trade, draft); err != nil {
		return err
	}
	proposerID := trade.ProposerID
	if err := ValidateOwnership(&proposerID, trade.Gives, draft); err != nil {
		return fmt.Errorf("proposer side: %w", err)
	}
	if err := ValidateOwnership(trade.RecipientID, trade.Receives, draft); err != nil {
		return fmt.Errorf("recipient side: %w", err)
	}
	if err := ValidateFutureOwnership(trade.Gives, draft.FuturePicks, trade.ProposerTeam); err != nil {
		return fmt.Errorf("proposer side: %w", err)
	}
	if err := ValidateFutureOwnership(trade.Receives, draft.FuturePicks, trade.RecipientTeam); err != nil {
		return fmt.Errorf("recipient side: %w", err)
	}
	return nil
}

func (a *App) emit(ctx context.Context, draftID uuid.UUID, eventType string, payload any) {
	if a.outbox == nil {
		return
	}
	bytes, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal event payload")
		return
	}
	if err := a.outbox.InsertEvent(ctx, draftID, eventType, bytes); err != nil {
		log.Error().Err(err).Str("event_type", eventType).Str("draft_id", draftID.String()).Msg("failed to insert outbox event")
	}
}

func validateProposeRequest(req ProposeTradeRequest) error {
	if req.DraftID == uuid.Nil {
		return fmt.Errorf("draft_id is required: %w", models.ErrInvalidInput)
	}
	if req.ProposerID == uuid.Nil {
		return fmt.Errorf("proposer_id is required: %w", models.ErrInvalidInput)
	}
	if req.ProposerTeam == "" || req.RecipientTeam == "" {
		return fmt.Errorf("both team abbreviations are required: %w", models.ErrInvalidInput)
	}
	if req.ProposerTeam == req.RecipientTeam {
		return fmt.Errorf("cannot trade with own team: %w", models.ErrInvalidInput)
	}
	if len(req.Gives) == 0 && len(req.Receives) == 0 {
		return fmt.Errorf("trade has no pieces: %w", models.ErrInvalidInput)
	}
	for _, p := range append(append([]models.TradePiece{}, req.Gives...), req.Receives...) {
		switch p.Kind {
		case models.TradePieceCurrent, models.TradePieceFuture:
		default:
			return fmt.Errorf("unknown trade piece kind %q: %w", p.Kind, models.ErrInvalidInput)
		}
	}
	return nil
}

func currentPickOveralls(trade *models.Trade) []int {
	var overalls []int
	for _, p := range trade.Gives {
		if p.Kind == models.TradePieceCurrent {
			overalls = append(overalls, p.Overall)
		}
	}
	for _, p := range trade.Receives {
		if p.Kind == models.TradePieceCurrent {
			overalls = append(overalls, p.Overall)
		}
	}
	return overalls
}
