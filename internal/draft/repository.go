package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gridironlabs/mockdraft/internal/models"
	"github.com/gridironlabs/mockdraft/internal/sqlutil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxRepository persists drafts in Postgres. Slot order, picked candidates,
// claims, and future picks ride in jsonb columns; the cursor and deadline are
// plain columns so conditional updates and deadline scans stay cheap.
type PgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) *PgxRepository {
	return &PgxRepository{pool: pool}
}

const draftColumns = `id, status, settings, current_pick, current_round,
	team_claims, participant_identity, pick_order, picked_ids, future_picks,
	started_at, completed_at, created_at, updated_at`

func (r *PgxRepository) CreateDraft(ctx context.Context, draft *models.Draft) (*models.Draft, error) {
	settings, err := sqlutil.ToJSONB(draft.Settings)
	if err != nil {
		return nil, err
	}
	claims, err := sqlutil.ToJSONB(draft.TeamClaims)
	if err != nil {
		return nil, err
	}
	identity, err := sqlutil.ToJSONB(draft.ParticipantIdentity)
	if err != nil {
		return nil, err
	}
	pickOrder, err := sqlutil.ToJSONB(draft.PickOrder)
	if err != nil {
		return nil, err
	}
	futures, err := sqlutil.ToJSONB(draft.FuturePicks)
	if err != nil {
		return nil, err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO drafts (id, status, settings, current_pick, current_round,
			team_claims, participant_identity, pick_order, picked_ids, future_picks,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, '[]'::jsonb, $9, $10, $10)`,
		draft.ID, draft.Status, settings, draft.CurrentPick, draft.CurrentRound,
		claims, identity, pickOrder, futures, draft.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert draft: %w", err)
	}
	return r.GetDraft(ctx, draft.ID)
}

func (r *PgxRepository) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+draftColumns+` FROM drafts WHERE id = $1`, id)
	draft, err := scanDraft(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("draft %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return draft, nil
}

func (r *PgxRepository) UpdateDraftStatus(ctx context.Context, id uuid.UUID, status models.DraftStatus, startedAt, completedAt *time.Time) (*models.Draft, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE drafts
		SET status = $2,
			started_at = COALESCE($3, started_at),
			completed_at = COALESCE($4, completed_at),
			updated_at = now()
		WHERE id = $1`,
		id, status, startedAt, completedAt)
	if err != nil {
		return nil, fmt.Errorf("update draft status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("draft %s: %w", id, models.ErrNotFound)
	}
	return r.GetDraft(ctx, id)
}

// UpdateTeamClaim rewrites the claim maps inside a transaction so concurrent
// claims on different teams cannot clobber each other.
func (r *PgxRepository) UpdateTeamClaim(ctx context.Context, draftID uuid.UUID, team string, participantID *uuid.UUID, identity string) error {
	return sqlutil.Run(ctx, r.pool, func(tx pgx.Tx) error {
		var claimsRaw, identityRaw []byte
		err := tx.QueryRow(ctx,
			`SELECT team_claims, participant_identity FROM drafts WHERE id = $1 FOR UPDATE`,
			draftID).Scan(&claimsRaw, &identityRaw)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("draft %s: %w", draftID, models.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock draft claims: %w", err)
		}

		claims := make(map[string]*uuid.UUID)
		identities := make(map[uuid.UUID]string)
		if err := sqlutil.FromJSONB(claimsRaw, &claims); err != nil {
			return err
		}
		if err := sqlutil.FromJSONB(identityRaw, &identities); err != nil {
			return err
		}

		if prev := claims[team]; prev != nil {
			delete(identities, *prev)
		}
		claims[team] = participantID
		if participantID != nil && identity != "" {
			identities[*participantID] = identity
		}

		claimsOut, err := sqlutil.ToJSONB(claims)
		if err != nil {
			return err
		}
		identityOut, err := sqlutil.ToJSONB(identities)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			UPDATE drafts
			SET team_claims = $2, participant_identity = $3, updated_at = now()
			WHERE id = $1`,
			draftID, claimsOut, identityOut)
		if err != nil {
			return fmt.Errorf("update team claims: %w", err)
		}
		return nil
	})
}

func (r *PgxRepository) RecordPick(ctx context.Context, draftID uuid.UUID, expectedPick int, candidateID uuid.UUID, nextPick, nextRound int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE drafts
		SET picked_ids = picked_ids || to_jsonb($3::text),
			current_pick = $4,
			current_round = $5,
			updated_at = now()
		WHERE id = $1 AND current_pick = $2 AND status = $6`,
		draftID, expectedPick, candidateID.String(), nextPick, nextRound, models.DraftStatusActive)
	if err != nil {
		return fmt.Errorf("record pick: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pick %d no longer current: %w", expectedPick, models.ErrInvalidState)
	}
	return nil
}

// ApplyTradeExecution replaces the pick order and future picks, conditioned
// on the draft still sitting at the pick it was validated against.
func (r *PgxRepository) ApplyTradeExecution(ctx context.Context, draftID uuid.UUID, expectedPick int, pickOrder []models.PickSlot, futures []models.FuturePick) error {
	pickOrderOut, err := sqlutil.ToJSONB(pickOrder)
	if err != nil {
		return err
	}
	futuresOut, err := sqlutil.ToJSONB(futures)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE drafts
		SET pick_order = $3, future_picks = $4, updated_at = now()
		WHERE id = $1 AND current_pick = $2`,
		draftID, expectedPick, pickOrderOut, futuresOut)
	if err != nil {
		return fmt.Errorf("apply trade execution: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("draft advanced past validated pick %d: %w", expectedPick, models.ErrInvalidState)
	}
	return nil
}

func (r *PgxRepository) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM drafts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("draft %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *PgxRepository) FetchNextDeadline(ctx context.Context) (*NextDeadline, error) {
	var nd NextDeadline
	err := r.pool.QueryRow(ctx, `
		SELECT id, next_deadline FROM drafts
		WHERE status = $1 AND next_deadline IS NOT NULL
		ORDER BY next_deadline ASC
		LIMIT 1`,
		models.DraftStatusActive).Scan(&nd.DraftID, &nd.Deadline)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch next deadline: %w", err)
	}
	return &nd, nil
}

func (r *PgxRepository) FetchDraftsDueForPick(ctx context.Context, limit int32) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id FROM drafts
		WHERE status = $1 AND next_deadline IS NOT NULL AND next_deadline <= now()
		ORDER BY next_deadline ASC
		LIMIT $2`,
		models.DraftStatusActive, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch due drafts: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan due draft id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PgxRepository) UpdateNextDeadline(ctx context.Context, draftID uuid.UUID, deadline *time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE drafts SET next_deadline = $2, updated_at = now() WHERE id = $1`,
		draftID, deadline)
	if err != nil {
		return fmt.Errorf("update next deadline: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("draft %s: %w", draftID, models.ErrNotFound)
	}
	return nil
}

func (r *PgxRepository) ClearNextDeadline(ctx context.Context, draftID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE drafts SET next_deadline = NULL, updated_at = now() WHERE id = $1`,
		draftID)
	if err != nil {
		return fmt.Errorf("clear next deadline: %w", err)
	}
	return nil
}

func scanDraft(row pgx.Row) (*models.Draft, error) {
	var (
		draft       models.Draft
		settings    []byte
		claims      []byte
		identity    []byte
		pickOrder   []byte
		pickedIDs   []byte
		futurePicks []byte
	)
	err := row.Scan(&draft.ID, &draft.Status, &settings, &draft.CurrentPick, &draft.CurrentRound,
		&claims, &identity, &pickOrder, &pickedIDs, &futurePicks,
		&draft.StartedAt, &draft.CompletedAt, &draft.CreatedAt, &draft.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := sqlutil.FromJSONB(settings, &draft.Settings); err != nil {
		return nil, err
	}
	if err := sqlutil.FromJSONB(claims, &draft.TeamClaims); err != nil {
		return nil, err
	}
	if err := sqlutil.FromJSONB(identity, &draft.ParticipantIdentity); err != nil {
		return nil, err
	}
	if err := sqlutil.FromJSONB(pickOrder, &draft.PickOrder); err != nil {
		return nil, err
	}
	if err := sqlutil.FromJSONB(pickedIDs, &draft.PickedIDs); err != nil {
		return nil, err
	}
	if err := sqlutil.FromJSONB(futurePicks, &draft.FuturePicks); err != nil {
		return nil, err
	}
	if draft.TeamClaims == nil {
		draft.TeamClaims = make(map[string]*uuid.UUID)
	}
	if draft.ParticipantIdentity == nil {
		draft.ParticipantIdentity = make(map[uuid.UUID]string)
	}
	return &draft, nil
}
