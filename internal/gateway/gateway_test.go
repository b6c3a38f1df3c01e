package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/gridironlabs/mockdraft/internal/analytics"
	"github.com/gridironlabs/mockdraft/internal/board"
	"github.com/gridironlabs/mockdraft/internal/cpupick"
	"github.com/gridironlabs/mockdraft/internal/draft"
	"github.com/gridironlabs/mockdraft/internal/models"
	"github.com/gridironlabs/mockdraft/internal/trade"
)

type fakeDraftApp struct {
	draft    *models.Draft
	picks    []draft.MakePickRequest
	cpuRuns  int
	cpuPicks int
	pickErr  error
	claimed  []draft.ClaimTeamRequest
	started  int
	deleted  []uuid.UUID
}

func (f *fakeDraftApp) CreateDraft(_ context.Context, req draft.CreateDraftRequest) (*models.Draft, error) {
	f.draft = &models.Draft{ID: req.ID, Status: models.DraftStatusLobby, Settings: req.Settings, PickOrder: req.PickOrder}
	return f.draft, nil
}

func (f *fakeDraftApp) GetDraft(_ context.Context, id uuid.UUID) (*models.Draft, error) {
	if f.draft == nil || f.draft.ID != id {
		return nil, fmt.Errorf("draft %s: %w", id, models.ErrNotFound)
	}
	return f.draft, nil
}

func (f *fakeDraftApp) ClaimTeam(_ context.Context, _ uuid.UUID, req draft.ClaimTeamRequest) error {
	f.claimed = append(f.claimed, req)
	return nil
}

func (f *fakeDraftApp) StartDraft(_ context.Context, id uuid.UUID) (*models.Draft, error) {
	f.started++
	f.draft.Status = models.DraftStatusActive
	return f.draft, nil
}

func (f *fakeDraftApp) PauseDraft(_ context.Context, id uuid.UUID, _ string) (*models.Draft, error) {
	f.draft.Status = models.DraftStatusPaused
	return f.draft, nil
}

func (f *fakeDraftApp) ResumeDraft(_ context.Context, id uuid.UUID) (*models.Draft, error) {
	f.draft.Status = models.DraftStatusActive
	return f.draft, nil
}

func (f *fakeDraftApp) DeleteDraft(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDraftApp) MakePick(_ context.Context, req draft.MakePickRequest) (*models.Draft, error) {
	if f.pickErr != nil {
		return nil, f.pickErr
	}
	f.picks = append(f.picks, req)
	f.draft.PickedIDs = append(f.draft.PickedIDs, req.CandidateID)
	f.draft.CurrentPick++
	return f.draft, nil
}

func (f *fakeDraftApp) RunCPUPicks(_ context.Context, _ uuid.UUID, _ cpupick.Options) (int, error) {
	f.cpuRuns++
	return f.cpuPicks, nil
}

type fakeTradeApp struct {
	trades   []models.Trade
	proposed *trade.ProposeTradeRequest
	err      error
}

func (f *fakeTradeApp) ProposeTrade(_ context.Context, req trade.ProposeTradeRequest) (*trade.ProposeTradeResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.proposed = &req
	return &trade.ProposeTradeResult{Trade: &models.Trade{ID: uuid.New(), DraftID: req.DraftID, Status: models.TradeStatusPending}}, nil
}

func (f *fakeTradeApp) AcceptTrade(_ context.Context, tradeID, participantID uuid.UUID) (*models.Trade, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Trade{ID: tradeID, Status: models.TradeStatusAccepted}, nil
}

func (f *fakeTradeApp) RejectTrade(_ context.Context, tradeID, _ uuid.UUID) (*models.Trade, error) {
	return &models.Trade{ID: tradeID, Status: models.TradeStatusRejected}, nil
}

func (f *fakeTradeApp) CancelTrade(_ context.Context, tradeID, _ uuid.UUID) (*models.Trade, error) {
	return &models.Trade{ID: tradeID, Status: models.TradeStatusCancelled}, nil
}

func (f *fakeTradeApp) ListTradesForDraft(_ context.Context, _ uuid.UUID) ([]models.Trade, error) {
	return f.trades, nil
}

type fakeCandidates struct {
	class map[int][]models.Candidate
	needs map[string][]models.Position
}

func (f *fakeCandidates) ListCandidates(_ context.Context, year int) ([]models.Candidate, error) {
	return f.class[year], nil
}

func (f *fakeCandidates) ListAvailableCandidates(_ context.Context, _ uuid.UUID) ([]models.Candidate, error) {
	var all []models.Candidate
	for _, cs := range f.class {
		all = append(all, cs...)
	}
	return all, nil
}

func (f *fakeCandidates) TeamNeeds(_ context.Context, team string) ([]models.Position, error) {
	return f.needs[team], nil
}

func candidate(rank int, pos models.Position) models.Candidate {
	return models.Candidate{
		ID:            uuid.New(),
		FullName:      fmt.Sprintf("Candidate %d", rank),
		Position:      pos,
		ConsensusRank: rank,
	}
}

func newTestGateway(drafts *fakeDraftApp, trades *fakeTradeApp, cands *fakeCandidates) *Gateway {
	return New(nil, "test", drafts, trades, cands, cpupick.Options{NeedsWeight: 0.5}, nil)
}

func TestHandleCreateDraftAssignsID(t *testing.T) {
	drafts := &fakeDraftApp{}
	g := newTestGateway(drafts, &fakeTradeApp{}, &fakeCandidates{})

	body, _ := json.Marshal(map[string]any{
		"settings":   map[string]any{"rounds": 1, "year": 2026},
		"pick_order": []map[string]any{{"overall": 1, "round": 1, "pick_in_round": 1, "team_abbr": "DAL"}},
	})
	out, err := g.handleCreateDraft(context.Background(), body)
	if err != nil {
		t.Fatalf("handleCreateDraft: %v", err)
	}
	created := out.(*models.Draft)
	if created.ID == uuid.Nil {
		t.Error("expected a generated draft id")
	}
}

func TestHandleMakePickRunsCPUCascade(t *testing.T) {
	draftID := uuid.New()
	drafts := &fakeDraftApp{
		draft:    &models.Draft{ID: draftID, Status: models.DraftStatusActive, CurrentPick: 1},
		cpuPicks: 3,
	}
	g := newTestGateway(drafts, &fakeTradeApp{}, &fakeCandidates{})

	body, _ := json.Marshal(draft.MakePickRequest{DraftID: draftID, CandidateID: uuid.New(), OverallPick: 1})
	out, err := g.handleMakePick(context.Background(), body)
	if err != nil {
		t.Fatalf("handleMakePick: %v", err)
	}
	res := out.(pickResult)
	if res.CPUPicksMade != 3 {
		t.Errorf("CPUPicksMade = %d, want 3", res.CPUPicksMade)
	}
	if drafts.cpuRuns != 1 {
		t.Errorf("cpu cascade ran %d times, want 1", drafts.cpuRuns)
	}
	if len(drafts.picks) != 1 {
		t.Fatalf("picks recorded = %d, want 1", len(drafts.picks))
	}
}

func TestHandleMakePickSurfacesAppError(t *testing.T) {
	draftID := uuid.New()
	drafts := &fakeDraftApp{
		draft:   &models.Draft{ID: draftID, Status: models.DraftStatusActive, CurrentPick: 1},
		pickErr: fmt.Errorf("not your pick: %w", models.ErrNotAuthorized),
	}
	g := newTestGateway(drafts, &fakeTradeApp{}, &fakeCandidates{})

	body, _ := json.Marshal(draft.MakePickRequest{DraftID: draftID, CandidateID: uuid.New(), OverallPick: 1})
	_, err := g.handleMakePick(context.Background(), body)
	if !errors.Is(err, models.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	if drafts.cpuRuns != 0 {
		t.Error("cpu cascade should not run after a failed pick")
	}
}

func TestHandleSuggestPick(t *testing.T) {
	draftID := uuid.New()
	qb := candidate(1, models.PositionQB)
	cb := candidate(2, models.PositionCB)
	drafts := &fakeDraftApp{
		draft: &models.Draft{
			ID:          draftID,
			Status:      models.DraftStatusActive,
			CurrentPick: 1,
			PickOrder: []models.PickSlot{
				{Overall: 1, Round: 1, PickInRound: 1, TeamAbbr: "DAL"},
			},
		},
	}
	cands := &fakeCandidates{
		class: map[int][]models.Candidate{2026: {qb, cb}},
		needs: map[string][]models.Position{"DAL": {models.PositionQB}},
	}
	g := newTestGateway(drafts, &fakeTradeApp{}, cands)

	body, _ := json.Marshal(draftRef{DraftID: draftID})
	out, err := g.handleSuggestPick(context.Background(), body)
	if err != nil {
		t.Fatalf("handleSuggestPick: %v", err)
	}
	suggestion := out.(*analytics.Suggestion)
	if suggestion.Candidate.ID != qb.ID {
		t.Errorf("suggested %s, want the rank-1 QB", suggestion.Candidate.FullName)
	}
}

func TestHandleSuggestPickInactiveDraft(t *testing.T) {
	draftID := uuid.New()
	drafts := &fakeDraftApp{
		draft: &models.Draft{ID: draftID, Status: models.DraftStatusLobby},
	}
	g := newTestGateway(drafts, &fakeTradeApp{}, &fakeCandidates{})

	body, _ := json.Marshal(draftRef{DraftID: draftID})
	if _, err := g.handleSuggestPick(context.Background(), body); !errors.Is(err, models.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestHandleRecapRequiresCompleteDraft(t *testing.T) {
	draftID := uuid.New()
	drafts := &fakeDraftApp{
		draft: &models.Draft{ID: draftID, Status: models.DraftStatusActive},
	}
	g := newTestGateway(drafts, &fakeTradeApp{}, &fakeCandidates{})

	body, _ := json.Marshal(draftRef{DraftID: draftID})
	if _, err := g.handleRecap(context.Background(), body); !errors.Is(err, models.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestHandleRecapGradesCompletedDraft(t *testing.T) {
	draftID := uuid.New()
	qb := candidate(1, models.PositionQB)
	cb := candidate(2, models.PositionCB)
	drafts := &fakeDraftApp{
		draft: &models.Draft{
			ID:          draftID,
			Status:      models.DraftStatusComplete,
			Settings:    models.DraftSettings{Rounds: 1, Year: 2026},
			CurrentPick: 3,
			PickOrder: []models.PickSlot{
				{Overall: 1, Round: 1, PickInRound: 1, TeamAbbr: "DAL"},
				{Overall: 2, Round: 1, PickInRound: 2, TeamAbbr: "NYG"},
			},
			PickedIDs: []uuid.UUID{qb.ID, cb.ID},
		},
	}
	cands := &fakeCandidates{
		class: map[int][]models.Candidate{2026: {qb, cb}},
		needs: map[string][]models.Position{
			"DAL": {models.PositionQB},
			"NYG": {models.PositionCB},
		},
	}
	g := newTestGateway(drafts, &fakeTradeApp{}, cands)

	body, _ := json.Marshal(draftRef{DraftID: draftID})
	out, err := g.handleRecap(context.Background(), body)
	if err != nil {
		t.Fatalf("handleRecap: %v", err)
	}
	recap := out.(*analytics.DraftRecap)
	if len(recap.TeamGrades) != 2 {
		t.Fatalf("team grades = %d, want 2", len(recap.TeamGrades))
	}
}

func TestHandleGenerateBoardDefaultsToConsensus(t *testing.T) {
	qb := candidate(1, models.PositionQB)
	cb := candidate(2, models.PositionCB)
	cands := &fakeCandidates{class: map[int][]models.Candidate{2026: {cb, qb}}}
	g := newTestGateway(&fakeDraftApp{}, &fakeTradeApp{}, cands)

	body, _ := json.Marshal(map[string]any{"year": 2026})
	out, err := g.handleGenerateBoard(context.Background(), body)
	if err != nil {
		t.Fatalf("handleGenerateBoard: %v", err)
	}
	entries := out.([]board.Entry)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].CandidateID != qb.ID {
		t.Error("consensus-only board should rank the consensus #1 first")
	}
}

func TestHandleGenerateBoardUnknownYear(t *testing.T) {
	g := newTestGateway(&fakeDraftApp{}, &fakeTradeApp{}, &fakeCandidates{})

	body, _ := json.Marshal(map[string]any{"year": 1999})
	if _, err := g.handleGenerateBoard(context.Background(), body); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHandleTradeActions(t *testing.T) {
	draftID := uuid.New()
	trades := &fakeTradeApp{}
	g := newTestGateway(&fakeDraftApp{}, trades, &fakeCandidates{})

	propose, _ := json.Marshal(trade.ProposeTradeRequest{
		DraftID:       draftID,
		ProposerID:    uuid.New(),
		ProposerTeam:  "DAL",
		RecipientTeam: "NYG",
		Gives:         []models.TradePiece{models.CurrentPickPiece(1)},
		Receives:      []models.TradePiece{models.CurrentPickPiece(2)},
	})
	out, err := g.handleProposeTrade(context.Background(), propose)
	if err != nil {
		t.Fatalf("handleProposeTrade: %v", err)
	}
	if out.(*trade.ProposeTradeResult).Trade.Status != models.TradeStatusPending {
		t.Error("expected a pending trade")
	}
	if trades.proposed == nil || trades.proposed.ProposerTeam != "DAL" {
		t.Error("propose request not forwarded")
	}

	accept, _ := json.Marshal(tradeActionRequest{TradeID: uuid.New(), ParticipantID: uuid.New()})
	out, err = g.handleAcceptTrade(context.Background(), accept)
	if err != nil {
		t.Fatalf("handleAcceptTrade: %v", err)
	}
	if out.(*models.Trade).Status != models.TradeStatusAccepted {
		t.Error("expected an accepted trade")
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid input", fmt.Errorf("x: %w", models.ErrInvalidInput), "INVALID_INPUT"},
		{"invalid state", fmt.Errorf("x: %w", models.ErrInvalidState), "INVALID_STATE"},
		{"not authorized", fmt.Errorf("x: %w", models.ErrNotAuthorized), "NOT_AUTHORIZED"},
		{"not found", fmt.Errorf("x: %w", models.ErrNotFound), "NOT_FOUND"},
		{"unknown", errors.New("boom"), "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorCode(tt.err); got != tt.want {
				t.Errorf("errorCode() = %s, want %s", got, tt.want)
			}
		})
	}
}
