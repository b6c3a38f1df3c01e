package outbox

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxRepository stages and drains the draft_outbox table.
type PgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) *PgxRepository {
	return &PgxRepository{pool: pool}
}

// InsertEvent stages a domain event for relay.
func (r *PgxRepository) InsertEvent(ctx context.Context, draftID uuid.UUID, eventType string, payload []byte) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO draft_outbox (id, draft_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, now())`,
		uuid.New(), draftID, eventType, payload)
	if err != nil {
		return fmt.Errorf("insert %s outbox event: %w", eventType, err)
	}
	return nil
}

// FetchUnsentTx claims a batch of unsent events inside the worker's
// transaction. Row locks are skipped so concurrent relay instances drain
// disjoint batches.
func (r *PgxRepository) FetchUnsentTx(ctx context.Context, tx pgx.Tx, limit int32) ([]OutboxEvent, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, draft_id, event_type, payload, created_at
		FROM draft_outbox
		WHERE sent_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("fetch unsent outbox events: %w", err)
	}
	defer rows.Close()

	var out []OutboxEvent
	for rows.Next() {
		var ev OutboxEvent
		if err := rows.Scan(&ev.ID, &ev.DraftID, &ev.EventType, &ev.Payload, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// MarkSentTx stamps the delivered events inside the worker's transaction.
func (r *PgxRepository) MarkSentTx(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE draft_outbox SET sent_at = now() WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("mark outbox events sent: %w", err)
	}
	return nil
}
