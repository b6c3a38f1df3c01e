package draft

import (
	"context"

	"github.com/google/uuid"
	"github.com/gridironlabs/mockdraft/internal/cpupick"
	"github.com/gridironlabs/mockdraft/internal/models"
)

// AutoPickStrategy decides what happens when a pick clock expires.
type AutoPickStrategy interface {
	PickExpired(ctx context.Context, draftID uuid.UUID) (*models.Draft, error)
}

// SelectorStrategy answers clock expiry with the CPU pick selector: the team
// on the clock gets the pick the CPU would have made for it, then any
// following CPU slots cascade.
type SelectorStrategy struct {
	app  *App
	opts cpupick.Options
}

// NewSelectorStrategy constructs a SelectorStrategy.
func NewSelectorStrategy(app *App, opts cpupick.Options) *SelectorStrategy {
	return &SelectorStrategy{app: app, opts: opts}
}

// PickExpired implements AutoPickStrategy.
func (s *SelectorStrategy) PickExpired(ctx context.Context, draftID uuid.UUID) (*models.Draft, error) {
	draft, err := s.app.AutoPick(ctx, draftID, s.opts)
	if err != nil {
		return nil, err
	}
	if draft.Status != models.DraftStatusActive {
		return draft, nil
	}
	if _, err := s.app.RunCPUPicks(ctx, draftID, s.opts); err != nil {
		return nil, err
	}
	return s.app.GetDraft(ctx, draftID)
}
