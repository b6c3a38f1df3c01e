// Package gateway serves the draft and trade application operations over NATS
// request-reply, the command counterpart of the outbox event stream. Requests
// and replies are JSON; errors are mapped to stable codes so callers can
// branch without parsing messages.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gridironlabs/mockdraft/internal/board"
	"github.com/gridironlabs/mockdraft/internal/cpupick"
	"github.com/gridironlabs/mockdraft/internal/draft"
	"github.com/gridironlabs/mockdraft/internal/models"
	"github.com/gridironlabs/mockdraft/internal/trade"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// DraftApp defines the draft operations the gateway serves.
type DraftApp interface {
	CreateDraft(ctx context.Context, req draft.CreateDraftRequest) (*models.Draft, error)
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	ClaimTeam(ctx context.Context, draftID uuid.UUID, req draft.ClaimTeamRequest) error
	StartDraft(ctx context.Context, draftID uuid.UUID) (*models.Draft, error)
	PauseDraft(ctx context.Context, draftID uuid.UUID, reason string) (*models.Draft, error)
	ResumeDraft(ctx context.Context, draftID uuid.UUID) (*models.Draft, error)
	DeleteDraft(ctx context.Context, id uuid.UUID) error
	MakePick(ctx context.Context, req draft.MakePickRequest) (*models.Draft, error)
	RunCPUPicks(ctx context.Context, draftID uuid.UUID, opts cpupick.Options) (int, error)
}

// TradeApp defines the trade operations the gateway serves.
type TradeApp interface {
	ProposeTrade(ctx context.Context, req trade.ProposeTradeRequest) (*trade.ProposeTradeResult, error)
	AcceptTrade(ctx context.Context, tradeID, participantID uuid.UUID) (*models.Trade, error)
	RejectTrade(ctx context.Context, tradeID, participantID uuid.UUID) (*models.Trade, error)
	CancelTrade(ctx context.Context, tradeID, participantID uuid.UUID) (*models.Trade, error)
	ListTradesForDraft(ctx context.Context, draftID uuid.UUID) ([]models.Trade, error)
}

// CandidateSource defines what the gateway needs from the candidate store for
// suggestions, boards, and recaps.
type CandidateSource interface {
	ListCandidates(ctx context.Context, year int) ([]models.Candidate, error)
	ListAvailableCandidates(ctx context.Context, draftID uuid.UUID) ([]models.Candidate, error)
	TeamNeeds(ctx context.Context, team string) ([]models.Position, error)
}

// Gateway subscribes to command subjects and dispatches to the app layers.
type Gateway struct {
	nc         *nats.Conn
	prefix     string
	drafts     DraftApp
	trades     TradeApp
	candidates CandidateSource
	cpuOpts    cpupick.Options
	boardCfg   *board.Config
	subs       []*nats.Subscription
}

// New creates a gateway. boardCfg may be nil; it is only used for recap board
// deltas and the board.generate command defaults.
func New(nc *nats.Conn, prefix string, drafts DraftApp, trades TradeApp, candidates CandidateSource, cpuOpts cpupick.Options, boardCfg *board.Config) *Gateway {
	return &Gateway{
		nc:         nc,
		prefix:     prefix,
		drafts:     drafts,
		trades:     trades,
		candidates: candidates,
		cpuOpts:    cpuOpts,
		boardCfg:   boardCfg,
	}
}

type handlerFunc func(ctx context.Context, data []byte) (any, error)

// Start subscribes every command subject on a shared queue group so multiple
// instances split the load.
func (g *Gateway) Start(ctx context.Context) error {
	handlers := map[string]handlerFunc{
		"cmd.draft.create":  g.handleCreateDraft,
		"cmd.draft.get":     g.handleGetDraft,
		"cmd.draft.claim":   g.handleClaimTeam,
		"cmd.draft.start":   g.handleStartDraft,
		"cmd.draft.pause":   g.handlePauseDraft,
		"cmd.draft.resume":  g.handleResumeDraft,
		"cmd.draft.delete":  g.handleDeleteDraft,
		"cmd.draft.pick":    g.handleMakePick,
		"cmd.draft.suggest": g.handleSuggestPick,
		"cmd.draft.recap":   g.handleRecap,
		"cmd.board.create":  g.handleGenerateBoard,
		"cmd.trade.propose": g.handleProposeTrade,
		"cmd.trade.accept":  g.handleAcceptTrade,
		"cmd.trade.reject":  g.handleRejectTrade,
		"cmd.trade.cancel":  g.handleCancelTrade,
		"cmd.trade.list":    g.handleListTrades,
	}

	for name, fn := range handlers {
		subject := fmt.Sprintf("%s.%s", g.prefix, name)
		fn := fn
		sub, err := g.nc.QueueSubscribe(subject, "gateway", func(msg *nats.Msg) {
			g.serve(ctx, msg, fn)
		})
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
		g.subs = append(g.subs, sub)
	}

	log.Info().Str("prefix", g.prefix).Int("subjects", len(handlers)).Msg("gateway listening")
	return nil
}

// Stop drains every subscription.
func (g *Gateway) Stop() {
	for _, sub := range g.subs {
		if err := sub.Drain(); err != nil {
			log.Error().Err(err).Str("subject", sub.Subject).Msg("failed to drain subscription")
		}
	}
	g.subs = nil
}

// response is the reply envelope for every command subject.
type response struct {
	OK    bool   `json:"ok"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func (g *Gateway) serve(ctx context.Context, msg *nats.Msg, fn handlerFunc) {
	data, err := fn(ctx, msg.Data)

	resp := response{OK: err == nil, Data: data}
	if err != nil {
		resp.Code = errorCode(err)
		resp.Error = err.Error()
		log.Debug().Err(err).Str("subject", msg.Subject).Str("code", resp.Code).Msg("command failed")
	}

	bytes, err := json.Marshal(resp)
	if err != nil {
		log.Error().Err(err).Str("subject", msg.Subject).Msg("failed to marshal reply")
		return
	}
	if err := msg.Respond(bytes); err != nil {
		log.Error().Err(err).Str("subject", msg.Subject).Msg("failed to respond")
	}
}

// errorCode maps the model sentinels onto stable reply codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return "INVALID_INPUT"
	case errors.Is(err, models.ErrInvalidState):
		return "INVALID_STATE"
	case errors.Is(err, models.ErrNotAuthorized):
		return "NOT_AUTHORIZED"
	case errors.Is(err, models.ErrNotFound):
		return "NOT_FOUND"
	default:
		return "INTERNAL"
	}
}

// draftRef is the request shape for commands addressing one draft.
type draftRef struct {
	DraftID uuid.UUID `json:"draft_id"`
}

func (g *Gateway) handleCreateDraft(ctx context.Context, data []byte) (any, error) {
	var req draft.CreateDraftRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("bad request: %w", models.ErrInvalidInput)
	}
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	return g.drafts.CreateDraft(ctx, req)
}

func (g *Gateway) handleGetDraft(ctx context.Context, data []byte) (any, error) {
	var req draftRef
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("bad request: %w", models.ErrInvalidInput)
	}
	return g.drafts.GetDraft(ctx, req.DraftID)
}

func (g *Gateway) handleClaimTeam(ctx context.Context, data []byte) (any, error) {
	var req struct {
		DraftID       uuid.UUID  `json:"draft_id"`
		Team          string     `json:"team"`
		ParticipantID *uuid.UUID `json:"participant_id"`
		Identity      string     `json:"identity"`
		Release       bool       `json:"release"`
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("bad request: %w", models.ErrInvalidInput)
	}
	err := g.drafts.ClaimTeam(ctx, req.DraftID, draft.ClaimTeamRequest{
		Team:          req.Team,
		ParticipantID: req.ParticipantID,
		Identity:      req.Identity,
		Release:       req.Release,
	})
	if err != nil {
		return nil, err
	}
	return g.drafts.GetDraft(ctx, req.DraftID)
}

func (g *Gateway) handleStartDraft(ctx context.Context, data []byte) (any, error) {
	var req draftRef
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("bad request: %w", models.ErrInvalidInput)
	}
	started, err := g.drafts.StartDraft(ctx, req.DraftID)
	if err != nil {
		return nil, err
	}
	// Leading CPU slots pick immediately rather than waiting out their clocks.
	g.runCPUTurns(ctx, req.DraftID)
	return started, nil
}

func (g *Gateway) handlePauseDraft(ctx context.Context, data []byte) (any, error) {
	var req struct {
		DraftID uuid.UUID `json:"draft_id"`
		Reason  string    `json:"reason"`
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("bad request: %w", models.ErrInvalidInput)
	}
	return g.drafts.PauseDraft(ctx, req.DraftID, req.Reason)
}

func (g *Gateway) handleResumeDraft(ctx context.Context, data []byte) (any, error) {
	var req draftRef
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("bad request: %w", models.ErrInvalidInput)
	}
	resumed, err := g.drafts.ResumeDraft(ctx, req.DraftID)
	if err != nil {
		return nil, err
	}
	g.runCPUTurns(ctx, req.DraftID)
	return resumed, nil
}

func (g *Gateway) handleDeleteDraft(ctx context.Context, data []byte) (any, error) {
	var req draftRef
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("bad request: %w", models.ErrInvalidInput)
	}
	if err := g.drafts.DeleteDraft(ctx, req.DraftID); err != nil {
		return nil, err
	}
	return map[string]bool{"deleted": true}, nil
}

// pickResult is the reply for cmd.draft.pick: the draft after the pick and
// any CPU cascade that followed it.
type pickResult struct {
	Draft        *models.Draft `json:"draft"`
	CPUPicksMade int           `json:"cpu_picks_made"`
}

func (g *Gateway) handleMakePick(ctx context.Context, data []byte) (any, error) {
	var req draft.MakePickRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("bad request: %w", models.ErrInvalidInput)
	}
	if _, err := g.drafts.MakePick(ctx, req); err != nil {
		return nil, err
	}

	made := g.runCPUTurns(ctx, req.DraftID)

	updated, err := g.drafts.GetDraft(ctx, req.DraftID)
	if err != nil {
		return nil, err
	}
	return pickResult{Draft: updated, CPUPicksMade: made}, nil
}

// runCPUTurns drains consecutive CPU slots after a lifecycle change. Failures
// are logged, not surfaced; the orchestrator picks up anything left behind
// when the clock runs out.
func (g *Gateway) runCPUTurns(ctx context.Context, draftID uuid.UUID) int {
	made, err := g.drafts.RunCPUPicks(ctx, draftID, g.cpuOpts)
	if err != nil {
		log.Error().Err(err).Str("draft_id", draftID.String()).Msg("CPU cascade failed")
	}
	return made
}

func (g *Gateway) handleProposeTrade(ctx context.Context, data []byte) (any, error) {
	var req trade.ProposeTradeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("bad request: %w", models.ErrInvalidInput)
	}
	return g.trades.ProposeTrade(ctx, req)
}

// tradeActionRequest addresses a pending trade on behalf of a participant.
type tradeActionRequest struct {
	TradeID       uuid.UUID `json:"trade_id"`
	ParticipantID uuid.UUID `json:"participant_id"`
}

func (g *Gateway) handleAcceptTrade(ctx context.Context, data []byte) (any, error) {
	var req tradeActionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("bad request: %w", models.ErrInvalidInput)
	}
	return g.trades.AcceptTrade(ctx, req.TradeID, req.ParticipantID)
}

func (g *Gateway) handleRejectTrade(ctx context.Context, data []byte) (any, error) {
	var req tradeActionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("bad request: %w", models.ErrInvalidInput)
	}
	return g.trades.RejectTrade(ctx, req.TradeID, req.ParticipantID)
}

func (g *Gateway) handleCancelTrade(ctx context.Context, data []byte) (any, error) {
	var req tradeActionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("bad request: %w", models.ErrInvalidInput)
	}
	return g.trades.CancelTrade(ctx, req.TradeID, req.ParticipantID)
}

func (g *Gateway) handleListTrades(ctx context.Context, data []byte) (any, error) {
	var req draftRef
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("bad request: %w", models.ErrInvalidInput)
	}
	return g.trades.ListTradesForDraft(ctx, req.DraftID)
}
