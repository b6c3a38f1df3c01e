package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/gridironlabs/mockdraft/internal/analytics"
	"github.com/gridironlabs/mockdraft/internal/board"
	"github.com/gridironlabs/mockdraft/internal/models"
)

// handleSuggestPick advises the team on the clock: the best candidate for the
// current slot given its needs and the positional value table.
func (g *Gateway) handleSuggestPick(ctx context.Context, data []byte) (any, error) {
	var req draftRef
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("bad request: %w", models.ErrInvalidInput)
	}

	d, err := g.drafts.GetDraft(ctx, req.DraftID)
	if err != nil {
		return nil, err
	}
	if d.Status != models.DraftStatusActive || d.IsComplete() {
		return nil, fmt.Errorf("draft is not on the clock: %w", models.ErrInvalidState)
	}
	slot := d.SlotAt(d.CurrentPick)
	if slot == nil {
		return nil, fmt.Errorf("no slot at overall %d: %w", d.CurrentPick, models.ErrNotFound)
	}

	pool, err := g.candidates.ListAvailableCandidates(ctx, req.DraftID)
	if err != nil {
		return nil, fmt.Errorf("list available candidates: %w", err)
	}
	needs, err := g.candidates.TeamNeeds(ctx, slot.ControllingTeam())
	if err != nil {
		return nil, fmt.Errorf("team needs: %w", err)
	}

	return analytics.SuggestPick(pool, slot.Overall, needs, g.cpuOpts.PositionalValue)
}

// handleRecap grades a completed draft: per-team grades, trade ledger, and
// the best-player-available baseline.
func (g *Gateway) handleRecap(ctx context.Context, data []byte) (any, error) {
	var req draftRef
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("bad request: %w", models.ErrInvalidInput)
	}

	d, err := g.drafts.GetDraft(ctx, req.DraftID)
	if err != nil {
		return nil, err
	}
	if d.Status != models.DraftStatusComplete {
		return nil, fmt.Errorf("draft is %s, recap requires a completed draft: %w", d.Status, models.ErrInvalidState)
	}

	class, err := g.candidates.ListCandidates(ctx, d.Settings.Year)
	if err != nil {
		return nil, fmt.Errorf("list candidates for %d: %w", d.Settings.Year, err)
	}
	catalog := make(map[uuid.UUID]models.Candidate, len(class))
	for _, c := range class {
		catalog[c.ID] = c
	}

	teamNeeds := make(map[string][]models.Position)
	for _, team := range draftTeams(d) {
		needs, err := g.candidates.TeamNeeds(ctx, team)
		if err != nil {
			return nil, fmt.Errorf("team needs for %s: %w", team, err)
		}
		teamNeeds[team] = needs
	}

	trades, err := g.trades.ListTradesForDraft(ctx, req.DraftID)
	if err != nil {
		return nil, err
	}

	var customBoard []uuid.UUID
	if g.boardCfg != nil {
		customBoard = board.Generate(class, *g.boardCfg)
	}

	return analytics.GenerateDraftRecap(analytics.RecapInput{
		Draft:           d,
		Catalog:         catalog,
		TeamNeeds:       teamNeeds,
		PositionalValue: g.cpuOpts.PositionalValue,
		Board:           customBoard,
		Trades:          trades,
	})
}

// handleGenerateBoard ranks a draft class by a caller-supplied weighted blend.
// Zero weights fall back to the configured defaults, or consensus-only when
// none are configured.
func (g *Gateway) handleGenerateBoard(ctx context.Context, data []byte) (any, error) {
	var req struct {
		Year   int          `json:"year"`
		Config board.Config `json:"config"`
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("bad request: %w", models.ErrInvalidInput)
	}
	if req.Year <= 0 {
		return nil, fmt.Errorf("year is required: %w", models.ErrInvalidInput)
	}

	cfg := req.Config
	if cfg.Weights == (board.Weights{}) {
		if g.boardCfg != nil {
			cfg.Weights = g.boardCfg.Weights
		} else {
			cfg.Weights = board.Weights{Consensus: 1}
		}
	}

	class, err := g.candidates.ListCandidates(ctx, req.Year)
	if err != nil {
		return nil, fmt.Errorf("list candidates for %d: %w", req.Year, err)
	}
	entries := board.GenerateEntries(class, cfg)
	if len(entries) == 0 {
		return nil, fmt.Errorf("no candidates for year %d: %w", req.Year, models.ErrNotFound)
	}
	return entries, nil
}

// draftTeams collects the distinct controlling teams across the pick order.
func draftTeams(d *models.Draft) []string {
	seen := make(map[string]bool)
	var teams []string
	for _, s := range d.PickOrder {
		team := s.ControllingTeam()
		if !seen[team] {
			seen[team] = true
			teams = append(teams, team)
		}
	}
	return teams
}
