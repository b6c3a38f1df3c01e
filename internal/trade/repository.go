package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gridironlabs/mockdraft/internal/models"
	"github.com/gridironlabs/mockdraft/internal/sqlutil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxRepository persists trades in Postgres. Trade pieces ride in jsonb.
type PgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) *PgxRepository {
	return &PgxRepository{pool: pool}
}

const tradeColumns = `id, draft_id, status, proposer_id, recipient_id,
	proposer_team, recipient_team, gives, receives, proposed_at, force_trade`

func (r *PgxRepository) CreateTrade(ctx context.Context, trade *models.Trade) (*models.Trade, error) {
	gives, err := sqlutil.ToJSONB(trade.Gives)
	if err != nil {
		return nil, err
	}
	receives, err := sqlutil.ToJSONB(trade.Receives)
	if err != nil {
		return nil, err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO trades (id, draft_id, status, proposer_id, recipient_id,
			proposer_team, recipient_team, gives, receives, proposed_at, force_trade)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		trade.ID, trade.DraftID, trade.Status, trade.ProposerID, trade.RecipientID,
		trade.ProposerTeam, trade.RecipientTeam, gives, receives, trade.ProposedAt, trade.Force)
	if err != nil {
		return nil, fmt.Errorf("insert trade: %w", err)
	}
	return r.GetTrade(ctx, trade.ID)
}

func (r *PgxRepository) GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+tradeColumns+` FROM trades WHERE id = $1`, id)
	trade, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("trade %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get trade: %w", err)
	}
	return trade, nil
}

func (r *PgxRepository) UpdateTradeStatus(ctx context.Context, id uuid.UUID, status models.TradeStatus) (*models.Trade, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE trades SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return nil, fmt.Errorf("update trade status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("trade %s: %w", id, models.ErrNotFound)
	}
	return r.GetTrade(ctx, id)
}

func (r *PgxRepository) ListTradesForDraft(ctx context.Context, draftID uuid.UUID) ([]models.Trade, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+tradeColumns+` FROM trades WHERE draft_id = $1 ORDER BY proposed_at ASC`,
		draftID)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	defer rows.Close()

	var out []models.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		out = append(out, *trade)
	}
	return out, rows.Err()
}

func scanTrade(row pgx.Row) (*models.Trade, error) {
	var (
		trade    models.Trade
		gives    []byte
		receives []byte
	)
	err := row.Scan(&trade.ID, &trade.DraftID, &trade.Status, &trade.ProposerID, &trade.RecipientID,
		&trade.ProposerTeam, &trade.RecipientTeam, &gives, &receives, &trade.ProposedAt, &trade.Force)
	if err != nil {
		return nil, err
	}
	if err := sqlutil.FromJSONB(gives, &trade.Gives); err != nil {
		return nil, err
	}
	if err := sqlutil.FromJSONB(receives, &trade.Receives); err != nil {
		return nil, err
	}
	return &trade, nil
}
