package trade

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/gridironlabs/mockdraft/internal/models"
	"github.com/jonboulle/clockwork"
)

// fakeTradeRepo is an in-memory trade Repository.
type fakeTradeRepo struct {
	trades map[uuid.UUID]*models.Trade
}

func newFakeTradeRepo() *fakeTradeRepo {
	return &fakeTradeRepo{trades: make(map[uuid.UUID]*models.Trade)}
}

func (r *fakeTradeRepo) CreateTrade(_ context.Context, trade *models.Trade) (*models.Trade, error) {
	stored := *trade
	r.trades[trade.ID] = &stored
	out := stored
	return &out, nil
}

func (r *fakeTradeRepo) GetTrade(_ context.Context, id uuid.UUID) (*models.Trade, error) {
	tr, ok := r.trades[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *tr
	return &out, nil
}

func (r *fakeTradeRepo) UpdateTradeStatus(_ context.Context, id uuid.UUID, status models.TradeStatus) (*models.Trade, error) {
	tr, ok := r.trades[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	tr.Status = status
	out := *tr
	return &out, nil
}

func (r *fakeTradeRepo) ListTradesForDraft(_ context.Context, draftID uuid.UUID) ([]models.Trade, error) {
	var out []models.Trade
	for _, tr := range r.trades {
		if tr.DraftID == draftID {
			out = append(out, *tr)
		}
	}
	return out, nil
}

// fakeDraftStore wraps a single draft and applies executions in memory.
type fakeDraftStore struct {
	draft *models.Draft
}

func (s *fakeDraftStore) GetDraft(_ context.Context, id uuid.UUID) (*models.Draft, error) {
	if s.draft == nil || s.draft.ID != id {
		return nil, models.ErrNotFound
	}
	out := *s.draft
	return &out, nil
}

func (s *fakeDraftStore) ApplyTradeExecution(_ context.Context, draftID uuid.UUID, expectedPick int, pickOrder []models.PickSlot, futures []models.FuturePick) error {
	if s.draft == nil || s.draft.ID != draftID {
		return models.ErrNotFound
	}
	if s.draft.CurrentPick != expectedPick {
		return models.ErrInvalidState
	}
	s.draft.PickOrder = pickOrder
	s.draft.FuturePicks = futures
	return nil
}

type appFixture struct {
	app   *App
	repo  *fakeTradeRepo
	store *fakeDraftStore
	alice uuid.UUID
	bob   uuid.UUID
}

// newAppFixture builds an active two-team draft with trades enabled. DAL is
// alice's team; NYG is bob's.
func newAppFixture(t *testing.T) *appFixture {
	t.Helper()

	alice := uuid.New()
	bob := uuid.New()
	draft := &models.Draft{
		ID:           uuid.New(),
		Status:       models.DraftStatusActive,
		Settings:     models.DraftSettings{Rounds: 2, Year: 2026, TradesEnabled: true},
		CurrentPick:  1,
		CurrentRound: 1,
		TeamClaims:   map[string]*uuid.UUID{"DAL": &alice, "NYG": &bob},
		PickOrder: []models.PickSlot{
			{Overall: 1, Round: 1, PickInRound: 1, TeamAbbr: "DAL"},
			{Overall: 2, Round: 1, PickInRound: 2, TeamAbbr: "NYG"},
			{Overall: 3, Round: 2, PickInRound: 1, TeamAbbr: "DAL"},
			{Overall: 4, Round: 2, PickInRound: 2, TeamAbbr: "NYG"},
		},
		FuturePicks: []models.FuturePick{
			{Year: 2027, Round: 1, OriginatingTeam: "DAL", OwningTeam: "DAL"},
			{Year: 2027, Round: 1, OriginatingTeam: "NYG", OwningTeam: "NYG"},
			{Year: 2027, Round: 2, OriginatingTeam: "DAL", OwningTeam: "DAL"},
			{Year: 2027, Round: 2, OriginatingTeam: "NYG", OwningTeam: "NYG"},
		},
	}

	repo := newFakeTradeRepo()
	store := &fakeDraftStore{draft: draft}
	app := NewApp(repo, store, nil, clockwork.NewFakeClock())
	return &appFixture{app: app, repo: repo, store: store, alice: alice, bob: bob}
}

func (f *appFixture) proposal() ProposeTradeRequest {
	return ProposeTradeRequest{
		DraftID:       f.store.draft.ID,
		ProposerID:    f.alice,
		RecipientID:   &f.bob,
		ProposerTeam:  "DAL",
		RecipientTeam: "NYG",
		Gives:         []models.TradePiece{models.CurrentPickPiece(1)},
		Receives:      []models.TradePiece{models.CurrentPickPiece(2)},
	}
}

func TestProposeTradeValidation(t *testing.T) {
	f := newAppFixture(t)
	ctx := context.Background()

	t.Run("missing teams", func(t *testing.T) {
		req := f.proposal()
		req.ProposerTeam = ""
		if _, err := f.app.ProposeTrade(ctx, req); !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("self trade", func(t *testing.T) {
		req := f.proposal()
		req.RecipientTeam = "DAL"
		if _, err := f.app.ProposeTrade(ctx, req); !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("no pieces", func(t *testing.T) {
		req := f.proposal()
		req.Gives = nil
		req.Receives = nil
		if _, err := f.app.ProposeTrade(ctx, req); !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("err = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("trades disabled", func(t *testing.T) {
		f := newAppFixture(t)
		f.store.draft.Settings.TradesEnabled = false
		if _, err := f.app.ProposeTrade(ctx, f.proposal()); !errors.Is(err, models.ErrInvalidState) {
			t.Errorf("err = %v, want ErrInvalidState", err)
		}
	})

	t.Run("proposer does not own given pick", func(t *testing.T) {
		f := newAppFixture(t)
		req := f.proposal()
		req.Gives = []models.TradePiece{models.CurrentPickPiece(2)} // NYG's pick
		if _, err := f.app.ProposeTrade(ctx, req); !errors.Is(err, models.ErrNotAuthorized) {
			t.Errorf("err = %v, want ErrNotAuthorized", err)
		}
	})

	t.Run("proposer does not own given future pick", func(t *testing.T) {
		f := newAppFixture(t)
		req := f.proposal()
		req.Gives = []models.TradePiece{models.FuturePickPiece(2027, 1, "NYG")} // NYG's future
		if _, err := f.app.ProposeTrade(ctx, req); !errors.Is(err, models.ErrNotAuthorized) {
			t.Errorf("err = %v, want ErrNotAuthorized", err)
		}
	})

	t.Run("recipient does not own requested future pick", func(t *testing.T) {
		f := newAppFixture(t)
		f.store.draft.FuturePicks[1].OwningTeam = "PHI" // NYG traded its 2027 first away
		req := f.proposal()
		req.Receives = []models.TradePiece{models.FuturePickPiece(2027, 1, "NYG")}
		if _, err := f.app.ProposeTrade(ctx, req); !errors.Is(err, models.ErrNotAuthorized) {
			t.Errorf("err = %v, want ErrNotAuthorized", err)
		}
	})
}

func TestProposeTradePendingForHuman(t *testing.T) {
	f := newAppFixture(t)

	result, err := f.app.ProposeTrade(context.Background(), f.proposal())
	if err != nil {
		t.Fatalf("ProposeTrade error: %v", err)
	}
	if result.Trade.Status != models.TradeStatusPending {
		t.Errorf("status = %s, want PENDING", result.Trade.Status)
	}
	if result.Evaluation != nil {
		t.Error("human counterpart should not get a CPU evaluation")
	}
}

func TestProposeTradeCPUCounterpart(t *testing.T) {
	ctx := context.Background()

	t.Run("even trade accepted and executed", func(t *testing.T) {
		f := newAppFixture(t)
		f.store.draft.TeamClaims["NYG"] = nil // NYG is CPU

		req := f.proposal()
		req.RecipientID = nil
		// Give picks 1, receive pick 2: CPU gains value, accepts.
		result, err := f.app.ProposeTrade(ctx, req)
		if err != nil {
			t.Fatalf("ProposeTrade error: %v", err)
		}
		if result.Evaluation == nil || !result.Evaluation.Accepted {
			t.Fatalf("evaluation = %+v, want accepted", result.Evaluation)
		}
		if result.Trade.Status != models.TradeStatusAccepted {
			t.Errorf("status = %s, want ACCEPTED", result.Trade.Status)
		}
		// Pick 2 now belongs to alice.
		slot := f.store.draft.SlotAt(2)
		if slot.OwnerOverride.Kind != models.OwnerParticipant || slot.OwnerOverride.ParticipantID != f.alice {
			t.Errorf("pick 2 override = %+v, want alice", slot.OwnerOverride)
		}
	})

	t.Run("lopsided trade rejected", func(t *testing.T) {
		f := newAppFixture(t)
		f.store.draft.TeamClaims["NYG"] = nil

		req := f.proposal()
		req.RecipientID = nil
		// A distant future first for the second overall pick is nowhere
		// near enough, premium or not.
		req.Gives = []models.TradePiece{models.FuturePickPiece(2027, 1, "DAL")}
		req.Receives = []models.TradePiece{models.CurrentPickPiece(2)}
		result, err := f.app.ProposeTrade(ctx, req)
		if err != nil {
			t.Fatalf("ProposeTrade error: %v", err)
		}
		if result.Evaluation == nil || result.Evaluation.Accepted {
			t.Fatalf("evaluation = %+v, want rejected", result.Evaluation)
		}
		if result.Trade.Status != models.TradeStatusRejected {
			t.Errorf("status = %s, want REJECTED", result.Trade.Status)
		}
	})
}

func TestProposeTradeForce(t *testing.T) {
	f := newAppFixture(t)

	req := f.proposal()
	req.Force = true
	req.Gives = []models.TradePiece{models.CurrentPickPiece(1)}
	req.Receives = []models.TradePiece{models.CurrentPickPiece(4)}

	result, err := f.app.ProposeTrade(context.Background(), req)
	if err != nil {
		t.Fatalf("ProposeTrade error: %v", err)
	}
	if result.Trade.Status != models.TradeStatusAccepted {
		t.Errorf("forced trade status = %s, want ACCEPTED", result.Trade.Status)
	}
}

func TestAcceptTrade(t *testing.T) {
	ctx := context.Background()

	t.Run("recipient accepts and picks swap", func(t *testing.T) {
		f := newAppFixture(t)
		result, err := f.app.ProposeTrade(ctx, f.proposal())
		if err != nil {
			t.Fatalf("ProposeTrade error: %v", err)
		}

		accepted, err := f.app.AcceptTrade(ctx, result.Trade.ID, f.bob)
		if err != nil {
			t.Fatalf("AcceptTrade error: %v", err)
		}
		if accepted.Status != models.TradeStatusAccepted {
			t.Errorf("status = %s, want ACCEPTED", accepted.Status)
		}
		slot1 := f.store.draft.SlotAt(1)
		if slot1.OwnerOverride.Kind != models.OwnerParticipant || slot1.OwnerOverride.ParticipantID != f.bob {
			t.Errorf("pick 1 override = %+v, want bob", slot1.OwnerOverride)
		}
	})

	t.Run("non-recipient cannot accept", func(t *testing.T) {
		f := newAppFixture(t)
		result, _ := f.app.ProposeTrade(ctx, f.proposal())

		if _, err := f.app.AcceptTrade(ctx, result.Trade.ID, f.alice); !errors.Is(err, models.ErrNotAuthorized) {
			t.Errorf("err = %v, want ErrNotAuthorized", err)
		}
	})

	t.Run("stale trade expires instead of executing", func(t *testing.T) {
		f := newAppFixture(t)
		result, _ := f.app.ProposeTrade(ctx, f.proposal())

		// Pick 1 is made before the recipient responds.
		f.store.draft.CurrentPick = 2

		_, err := f.app.AcceptTrade(ctx, result.Trade.ID, f.bob)
		if !errors.Is(err, models.ErrInvalidState) {
			t.Fatalf("err = %v, want ErrInvalidState", err)
		}
		stored, _ := f.repo.GetTrade(ctx, result.Trade.ID)
		if stored.Status != models.TradeStatusExpired {
			t.Errorf("status = %s, want EXPIRED", stored.Status)
		}
	})

	t.Run("cannot accept twice", func(t *testing.T) {
		f := newAppFixture(t)
		result, _ := f.app.ProposeTrade(ctx, f.proposal())
		if _, err := f.app.AcceptTrade(ctx, result.Trade.ID, f.bob); err != nil {
			t.Fatalf("first accept error: %v", err)
		}
		if _, err := f.app.AcceptTrade(ctx, result.Trade.ID, f.bob); !errors.Is(err, models.ErrInvalidState) {
			t.Errorf("err = %v, want ErrInvalidState", err)
		}
	})
}

func TestRejectAndCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("recipient rejects", func(t *testing.T) {
		f := newAppFixture(t)
		result, _ := f.app.ProposeTrade(ctx, f.proposal())

		rejected, err := f.app.RejectTrade(ctx, result.Trade.ID, f.bob)
		if err != nil {
			t.Fatalf("RejectTrade error: %v", err)
		}
		if rejected.Status != models.TradeStatusRejected {
			t.Errorf("status = %s, want REJECTED", rejected.Status)
		}
	})

	t.Run("proposer cancels", func(t *testing.T) {
		f := newAppFixture(t)
		result, _ := f.app.ProposeTrade(ctx, f.proposal())

		cancelled, err := f.app.CancelTrade(ctx, result.Trade.ID, f.alice)
		if err != nil {
			t.Fatalf("CancelTrade error: %v", err)
		}
		if cancelled.Status != models.TradeStatusCancelled {
			t.Errorf("status = %s, want CANCELLED", cancelled.Status)
		}
	})

	t.Run("recipient cannot cancel", func(t *testing.T) {
		f := newAppFixture(t)
		result, _ := f.app.ProposeTrade(ctx, f.proposal())

		if _, err := f.app.CancelTrade(ctx, result.Trade.ID, f.bob); !errors.Is(err, models.ErrNotAuthorized) {
			t.Errorf("err = %v, want ErrNotAuthorized", err)
		}
	})
}
