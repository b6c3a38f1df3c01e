package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/gridironlabs/mockdraft/internal/board"
	"github.com/gridironlabs/mockdraft/internal/cpupick"
	"github.com/gridironlabs/mockdraft/internal/draft/events"
	"github.com/gridironlabs/mockdraft/internal/draftstate"
	"github.com/gridironlabs/mockdraft/internal/models"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Repository defines what the draft app layer needs from the draft store.
type Repository interface {
	CreateDraft(ctx context.Context, draft *models.Draft) (*models.Draft, error)
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	UpdateDraftStatus(ctx context.Context, id uuid.UUID, status models.DraftStatus, startedAt, completedAt *time.Time) (*models.Draft, error)
	UpdateTeamClaim(ctx context.Context, draftID uuid.UUID, team string, participantID *uuid.UUID, identity string) error
	// RecordPick appends the candidate and advances the pick cursor. The
	// update is conditional on the slot still being the current pick;
	// a stale request reports models.ErrInvalidState.
	RecordPick(ctx context.Context, draftID uuid.UUID, expectedPick int, candidateID uuid.UUID, nextPick, nextRound int) error
	DeleteDraft(ctx context.Context, id uuid.UUID) error
	FetchNextDeadline(ctx context.Context) (*NextDeadline, error)
	FetchDraftsDueForPick(ctx context.Context, limit int32) ([]uuid.UUID, error)
	UpdateNextDeadline(ctx context.Context, draftID uuid.UUID, deadline *time.Time) error
	ClearNextDeadline(ctx context.Context, draftID uuid.UUID) error
}

// CandidateSource defines what the app needs from the candidate store.
type CandidateSource interface {
	ListAvailableCandidates(ctx context.Context, draftID uuid.UUID) ([]models.Candidate, error)
	GetCandidate(ctx context.Context, id uuid.UUID) (*models.Candidate, error)
	TeamNeeds(ctx context.Context, team string) ([]models.Position, error)
}

// OutboxApp defines what the draft app needs from the outbox app.
type OutboxApp interface {
	InsertEvent(ctx context.Context, draftID uuid.UUID, eventType string, payload []byte) error
}

// App handles draft lifecycle and pick business logic
type App struct {
	repo       Repository
	candidates CandidateSource
	outbox     OutboxApp
	clock      clockwork.Clock
	rng        *rand.Rand
	// boardCfg, when set, re-ranks the available pool for CPU selections
	// instead of using raw consensus rank.
	boardCfg *board.Config
}

// NewApp creates a new draft App. A nil boardCfg leaves CPU selections on
// consensus rank.
func NewApp(repo Repository, candidates CandidateSource, outbox OutboxApp, clock clockwork.Clock, rng *rand.Rand, boardCfg *board.Config) *App {
	return &App{
		repo:       repo,
		candidates: candidates,
		outbox:     outbox,
		clock:      clock,
		rng:        rng,
		boardCfg:   boardCfg,
	}
}

// CreateDraft creates a new draft in the lobby with validation
func (a *App) CreateDraft(ctx context.Context, req CreateDraftRequest) (*models.Draft, error) {
	if err := a.validateCreateDraftRequest(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	slots := draftstate.FilterSlots(req.PickOrder, req.Settings.Rounds)
	teams := teamAbbrs(slots)

	now := a.clock.Now()
	draft := &models.Draft{
		ID:                  req.ID,
		Status:              models.DraftStatusLobby,
		Settings:            req.Settings,
		CurrentPick:         1,
		CurrentRound:        1,
		TeamClaims:          req.TeamClaims,
		ParticipantIdentity: make(map[uuid.UUID]string),
		PickOrder:           slots,
		FuturePicks:         draftstate.BuildFuturePicks(req.Settings.Year, teams, req.FutureSeeds),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if draft.TeamClaims == nil {
		draft.TeamClaims = make(map[string]*uuid.UUID)
	}

	created, err := a.repo.CreateDraft(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	log.Info().
		Str("draft_id", created.ID.String()).
		Int("rounds", created.Settings.Rounds).
		Int("slots", len(created.PickOrder)).
		Msg("created draft")
	return created, nil
}

// GetDraft retrieves a draft by ID
func (a *App) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	draft, err := a.repo.GetDraft(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return draft, nil
}

// ClaimTeam claims a team for a participant, or releases it back to CPU
// control when Release is set. Claims are only editable in the lobby, and
// only the current claimant may release a team.
func (a *App) ClaimTeam(ctx context.Context, draftID uuid.UUID, req ClaimTeamRequest) error {
	draft, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return fmt.Errorf("draft not found: %w", err)
	}
	if draft.Status != models.DraftStatusLobby {
		return fmt.Errorf("claims locked once draft leaves lobby, status is %s: %w", draft.Status, models.ErrInvalidState)
	}
	if req.Team == "" {
		return fmt.Errorf("team is required: %w", models.ErrInvalidInput)
	}
	if req.ParticipantID == nil {
		return fmt.Errorf("participant_id is required: %w", models.ErrInvalidInput)
	}
	if !hasTeam(draft.PickOrder, req.Team) {
		return fmt.Errorf("team %s not in draft: %w", req.Team, models.ErrNotFound)
	}
	existing := draft.TeamClaims[req.Team]

	if req.Release {
		if existing == nil || *existing != *req.ParticipantID {
			return fmt.Errorf("team %s is not claimed by this participant: %w", req.Team, models.ErrNotAuthorized)
		}
		if err := a.repo.UpdateTeamClaim(ctx, draftID, req.Team, nil, ""); err != nil {
			return fmt.Errorf("failed to release team claim: %w", err)
		}
		return nil
	}

	if existing != nil && *existing != *req.ParticipantID {
		return fmt.Errorf("team %s already claimed: %w", req.Team, models.ErrInvalidState)
	}
	if err := a.repo.UpdateTeamClaim(ctx, draftID, req.Team, req.ParticipantID, req.Identity); err != nil {
		return fmt.Errorf("failed to update team claim: %w", err)
	}
	return nil
}

// StartDraft moves a lobby draft to active, puts the first pick on the clock,
// and emits DraftStarted.
func (a *App) StartDraft(ctx context.Context, draftID uuid.UUID) (*models.Draft, error) {
	draft, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("draft not found: %w", err)
	}
	if err := validateStatusTransition(draft.Status, models.DraftStatusActive); err != nil {
		return nil, fmt.Errorf("invalid status transition: %w", err)
	}
	if len(draft.PickOrder) == 0 {
		return nil, fmt.Errorf("draft has no pick order: %w", models.ErrInvalidState)
	}

	now := a.clock.Now()
	updated, err := a.repo.UpdateDraftStatus(ctx, draftID, models.DraftStatusActive, &now, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start draft: %w", err)
	}

	if err := a.armPickClock(ctx, updated, now); err != nil {
		return nil, err
	}

	a.emit(ctx, draftID, "DraftStarted", events.DraftStartedPayload{
		DraftID:     draftID.String(),
		Format:      string(updated.Settings.Format),
		StartedAt:   now,
		TotalRounds: updated.Settings.Rounds,
		TotalPicks:  len(updated.PickOrder),
	})

	log.Info().Str("draft_id", draftID.String()).Msg("draft started")
	return updated, nil
}

// PauseDraft pauses an active draft and clears its pick clock
func (a *App) PauseDraft(ctx context.Context, draftID uuid.UUID, reason string) (*models.Draft, error) {
	draft, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("draft not found: %w", err)
	}
	if err := validateStatusTransition(draft.Status, models.DraftStatusPaused); err != nil {
		return nil, fmt.Errorf("invalid status transition: %w", err)
	}

	updated, err := a.repo.UpdateDraftStatus(ctx, draftID, models.DraftStatusPaused, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to pause draft: %w", err)
	}
	if err := a.repo.ClearNextDeadline(ctx, draftID); err != nil {
		return nil, fmt.Errorf("failed to clear deadline: %w", err)
	}

	a.emit(ctx, draftID, "DraftPaused", events.DraftPausedPayload{
		DraftID:  draftID.String(),
		PausedAt: a.clock.Now(),
		Reason:   reason,
	})
	return updated, nil
}

// ResumeDraft resumes a paused draft with a fresh pick clock
func (a *App) ResumeDraft(ctx context.Context, draftID uuid.UUID) (*models.Draft, error) {
	draft, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("draft not found: %w", err)
	}
	if err := validateStatusTransition(draft.Status, models.DraftStatusActive); err != nil {
		return nil, fmt.Errorf("invalid status transition: %w", err)
	}

	now := a.clock.Now()
	updated, err := a.repo.UpdateDraftStatus(ctx, draftID, models.DraftStatusActive, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resume draft: %w", err)
	}
	if err := a.armPickClock(ctx, updated, now); err != nil {
		return nil, err
	}

	a.emit(ctx, draftID, "DraftResumed", events.DraftResumedPayload{
		DraftID:   draftID.String(),
		ResumedAt: now,
	})
	return updated, nil
}

// DeleteDraft deletes a draft that never left the lobby
func (a *App) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	draft, err := a.repo.GetDraft(ctx, id)
	if err != nil {
		return fmt.Errorf("draft not found: %w", err)
	}
	if draft.Status != models.DraftStatusLobby {
		return fmt.Errorf("cannot delete draft with status %s: %w", draft.Status, models.ErrInvalidState)
	}
	if err := a.repo.DeleteDraft(ctx, id); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// MakePick records a pick for the current slot. Participant picks require the
// caller to control the slot; system picks (nil ParticipantID) do not. The
// underlying write is conditional, so a pick racing a clock expiry loses
// cleanly instead of double-filling the slot.
func (a *App) MakePick(ctx context.Context, req MakePickRequest) (*models.Draft, error) {
	draft, err := a.repo.GetDraft(ctx, req.DraftID)
	if err != nil {
		return nil, fmt.Errorf("draft not found: %w", err)
	}
	if draft.Status != models.DraftStatusActive {
		return nil, fmt.Errorf("draft is %s, not active: %w", draft.Status, models.ErrInvalidState)
	}
	if draft.IsComplete() {
		return nil, fmt.Errorf("draft already complete: %w", models.ErrInvalidState)
	}
	if req.OverallPick != draft.CurrentPick {
		return nil, fmt.Errorf("pick %d is not on the clock (current %d): %w", req.OverallPick, draft.CurrentPick, models.ErrInvalidState)
	}

	slot := draft.SlotAt(req.OverallPick)
	if slot == nil {
		return nil, fmt.Errorf("no slot at overall %d: %w", req.OverallPick, models.ErrNotFound)
	}
	if req.ParticipantID != nil {
		controller := draftstate.ControllerOf(draft, *slot)
		if controller == nil || *controller != *req.ParticipantID {
			return nil, fmt.Errorf("participant does not control pick %d: %w", req.OverallPick, models.ErrNotAuthorized)
		}
	}
	for _, picked := range draft.PickedIDs {
		if picked == req.CandidateID {
			return nil, fmt.Errorf("candidate %s already drafted: %w", req.CandidateID, models.ErrInvalidInput)
		}
	}
	cand, err := a.candidates.GetCandidate(ctx, req.CandidateID)
	if err != nil {
		return nil, fmt.Errorf("candidate lookup: %w", err)
	}
	if cand.DraftYear != draft.Settings.Year {
		return nil, fmt.Errorf("candidate %s is in the %d class, not %d: %w", req.CandidateID, cand.DraftYear, draft.Settings.Year, models.ErrInvalidInput)
	}

	adv := draftstate.Advance(draft)
	if err := a.repo.RecordPick(ctx, req.DraftID, req.OverallPick, req.CandidateID, adv.NextPick, adv.NextRound); err != nil {
		return nil, fmt.Errorf("failed to record pick %d: %w", req.OverallPick, err)
	}

	a.emitPickMade(ctx, draft, *slot, cand, req)

	if adv.IsComplete {
		return a.completeDraft(ctx, req.DraftID)
	}

	updated, err := a.repo.GetDraft(ctx, req.DraftID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload draft: %w", err)
	}
	if err := a.armPickClock(ctx, updated, a.clock.Now()); err != nil {
		return nil, err
	}
	return updated, nil
}

// RunCPUPicks makes picks for consecutive CPU-controlled slots until a
// participant is on the clock, the draft completes, or the status changes
// out from under the cascade.
func (a *App) RunCPUPicks(ctx context.Context, draftID uuid.UUID, opts cpupick.Options) (int, error) {
	made := 0
	for {
		draft, err := a.repo.GetDraft(ctx, draftID)
		if err != nil {
			return made, fmt.Errorf("draft not found: %w", err)
		}
		if draft.Status != models.DraftStatusActive || draft.IsComplete() {
			return made, nil
		}

		slot := draft.SlotAt(draft.CurrentPick)
		if slot == nil {
			return made, fmt.Errorf("no slot at overall %d: %w", draft.CurrentPick, models.ErrNotFound)
		}
		if draftstate.ControllerOf(draft, *slot) != nil {
			// Participant on the clock; cascade stops here.
			return made, nil
		}

		candidateID, err := a.selectForSlot(ctx, draft, *slot, opts)
		if err != nil {
			return made, err
		}

		if _, err := a.MakePick(ctx, MakePickRequest{
			DraftID:     draftID,
			CandidateID: candidateID,
			OverallPick: slot.Overall,
		}); err != nil {
			return made, err
		}
		made++
	}
}

// AutoPick makes a pick for whichever team is on the clock, used when the
// pick clock expires. Returns the updated draft.
func (a *App) AutoPick(ctx context.Context, draftID uuid.UUID, opts cpupick.Options) (*models.Draft, error) {
	draft, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("draft not found: %w", err)
	}
	if draft.Status != models.DraftStatusActive || draft.IsComplete() {
		return draft, nil
	}
	slot := draft.SlotAt(draft.CurrentPick)
	if slot == nil {
		return nil, fmt.Errorf("no slot at overall %d: %w", draft.CurrentPick, models.ErrNotFound)
	}

	candidateID, err := a.selectForSlot(ctx, draft, *slot, opts)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("draft_id", draftID.String()).
		Int("overall", slot.Overall).
		Str("team", slot.ControllingTeam()).
		Msg("auto-pick firing")

	return a.MakePick(ctx, MakePickRequest{
		DraftID:     draftID,
		CandidateID: candidateID,
		OverallPick: slot.Overall,
		AutoPick:    true,
	})
}

// selectForSlot runs the CPU selector for the team controlling a slot.
func (a *App) selectForSlot(ctx context.Context, draft *models.Draft, slot models.PickSlot, opts cpupick.Options) (uuid.UUID, error) {
	team := slot.ControllingTeam()

	pool, err := a.candidates.ListAvailableCandidates(ctx, draft.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("list available candidates: %w", err)
	}
	needs, err := a.candidates.TeamNeeds(ctx, team)
	if err != nil {
		return uuid.Nil, fmt.Errorf("team needs for %s: %w", team, err)
	}

	drafted, err := a.draftedPositions(ctx, draft, team)
	if err != nil {
		return uuid.Nil, err
	}

	if len(opts.Board) == 0 && a.boardCfg != nil {
		opts.Board = board.Generate(pool, *a.boardCfg)
	}

	choice, err := cpupick.SelectForTeam(pool, needs, drafted, opts, a.rng)
	if err != nil {
		return uuid.Nil, fmt.Errorf("select pick for %s: %w", team, err)
	}
	return choice.ID, nil
}

// draftedPositions collects positions a team has already taken this draft.
func (a *App) draftedPositions(ctx context.Context, draft *models.Draft, team string) ([]models.Position, error) {
	var out []models.Position
	for i, slot := range draft.PickOrder {
		if i >= len(draft.PickedIDs) {
			break
		}
		if slot.ControllingTeam() != team {
			continue
		}
		cand, err := a.candidates.GetCandidate(ctx, draft.PickedIDs[i])
		if err != nil {
			return nil, fmt.Errorf("drafted candidate %s: %w", draft.PickedIDs[i], err)
		}
		out = append(out, cand.Position)
	}
	return out, nil
}

func (a *App) completeDraft(ctx context.Context, draftID uuid.UUID) (*models.Draft, error) {
	now := a.clock.Now()
	updated, err := a.repo.UpdateDraftStatus(ctx, draftID, models.DraftStatusComplete, nil, &now)
	if err != nil {
		return nil, fmt.Errorf("failed to complete draft: %w", err)
	}
	if err := a.repo.ClearNextDeadline(ctx, draftID); err != nil {
		return nil, fmt.Errorf("failed to clear deadline: %w", err)
	}

	duration := ""
	if updated.StartedAt != nil {
		duration = now.Sub(*updated.StartedAt).String()
	}
	a.emit(ctx, draftID, "DraftCompleted", events.DraftCompletedPayload{
		DraftID:     draftID.String(),
		CompletedAt: now,
		Duration:    duration,
		TotalPicks:  len(updated.PickedIDs),
	})

	log.Info().Str("draft_id", draftID.String()).Int("picks", len(updated.PickedIDs)).Msg("draft completed")
	return updated, nil
}

// armPickClock sets the deadline for the current pick and emits PickStarted.
// Drafts with no pick clock (TimePerPickSec == 0) run untimed.
func (a *App) armPickClock(ctx context.Context, draft *models.Draft, base time.Time) error {
	if draft.Settings.TimePerPickSec <= 0 {
		return nil
	}
	deadline := base.Add(time.Duration(draft.Settings.TimePerPickSec) * time.Second)
	if err := a.repo.UpdateNextDeadline(ctx, draft.ID, &deadline); err != nil {
		return fmt.Errorf("failed to update next deadline: %w", err)
	}

	slot := draft.SlotAt(draft.CurrentPick)
	if slot == nil {
		return nil
	}
	onClock := "CPU"
	if controller := draftstate.ControllerOf(draft, *slot); controller != nil {
		onClock = controller.String()
	}
	a.emit(ctx, draft.ID, "PickStarted", events.PickStartedPayload{
		DraftID:        draft.ID.String(),
		Team:           slot.ControllingTeam(),
		Round:          slot.Round,
		PickInRound:    slot.PickInRound,
		OverallPick:    slot.Overall,
		OnTheClock:     onClock,
		StartedAt:      base,
		TimeoutAt:      deadline,
		TimePerPickSec: draft.Settings.TimePerPickSec,
	})
	return nil
}

func (a *App) emitPickMade(ctx context.Context, draft *models.Draft, slot models.PickSlot, cand *models.Candidate, req MakePickRequest) {
	a.emit(ctx, draft.ID, "PickMade", events.PickMadePayload{
		DraftID:       draft.ID.String(),
		Team:          slot.ControllingTeam(),
		CandidateID:   req.CandidateID.String(),
		CandidateName: cand.FullName,
		Position:      string(cand.Position),
		Round:         slot.Round,
		PickInRound:   slot.PickInRound,
		OverallPick:   slot.Overall,
		AutoPick:      req.AutoPick,
		MadeAt:        a.clock.Now(),
	})
}

// emit marshals and inserts an outbox event. Event emission never fails the
// triggering operation.
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

// Validation

func (a *App) validateCreateDraftRequest(req CreateDraftRequest) error {
	if req.ID == uuid.Nil {
		return fmt.Errorf("id is required: %w", models.ErrInvalidInput)
	}
	if req.Settings.Rounds <= 0 {
		return fmt.Errorf("rounds must be greater than 0: %w", models.ErrInvalidInput)
	}
	if req.Settings.TimePerPickSec < 0 {
		return fmt.Errorf("time_per_pick_sec cannot be negative: %w", models.ErrInvalidInput)
	}
	if req.Settings.Year <= 0 {
		return fmt.Errorf("year is required: %w", models.ErrInvalidInput)
	}
	if len(req.PickOrder) == 0 {
		return fmt.Errorf("pick_order is required: %w", models.ErrInvalidInput)
	}
	switch req.Settings.AssignmentMode {
	case models.AssignmentModeChoose, models.AssignmentModeRandom, "":
	default:
		return fmt.Errorf("invalid assignment mode %s: %w", req.Settings.AssignmentMode, models.ErrInvalidInput)
	}
	return nil
}

// validateStatusTransition validates if a status transition is allowed
func validateStatusTransition(current, next models.DraftStatus) error {
	if current == next {
		return nil
	}

	allowed := map[models.DraftStatus][]models.DraftStatus{
		models.DraftStatusLobby:    {models.DraftStatusActive},
		models.DraftStatusActive:   {models.DraftStatusPaused, models.DraftStatusComplete},
		models.DraftStatusPaused:   {models.DraftStatusActive},
		models.DraftStatusComplete: {},
	}

	for _, s := range allowed[current] {
		if next == s {
			return nil
		}
	}
	return fmt.Errorf("transition from %s to %s is not allowed: %w", current, next, models.ErrInvalidState)
}

func teamAbbrs(slots []models.PickSlot) []string {
	seen := make(map[string]bool)
	var teams []string
	for _, s := range slots {
		if !seen[s.TeamAbbr] {
			seen[s.TeamAbbr] = true
			teams = append(teams, s.TeamAbbr)
		}
	}
	return teams
}

func hasTeam(slots []models.PickSlot, team string) bool {
	for _, s := range slots {
		if s.TeamAbbr == team || s.TeamOverride == team {
			return true
		}
	}
	return false
}
