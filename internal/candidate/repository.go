package candidate

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

// PgxRepository reads the candidate catalog and team need lists. Candidates
// are loaded once per draft year and treated as immutable.
type PgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) *PgxRepository {
	return &PgxRepository{pool: pool}
}

const candidateColumns = `id, draft_year, full_name, position, consensus_rank, college, conference, combine, stats`

func (r *PgxRepository) GetCandidate(ctx context.Context, id uuid.UUID) (*models.Candidate, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id)
	cand, err := scanCandidate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("candidate %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get candidate: %w", err)
	}
	return cand, nil
}

// ListCandidates returns the full catalog for a draft year ordered by
// consensus rank.
func (r *PgxRepository) ListCandidates(ctx context.Context, year int) ([]models.Candidate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE draft_year = $1 ORDER BY consensus_rank ASC`,
		year)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()
	return collectCandidates(rows)
}

// ListAvailableCandidates returns candidates for the draft's year that have
// not yet been picked in the draft, ordered by consensus rank.
func (r *PgxRepository) ListAvailableCandidates(ctx context.Context, draftID uuid.UUID) ([]models.Candidate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+candidateColumns+` FROM candidates c
		JOIN drafts d ON d.id = $1
		WHERE c.draft_year = (d.settings->>'year')::int
		AND NOT d.picked_ids @> to_jsonb(c.id::text)
		ORDER BY c.consensus_rank ASC`,
		draftID)
	if err != nil {
		return nil, fmt.Errorf("list available candidates: %w", err)
	}
	defer rows.Close()
	return collectCandidates(rows)
}

// TeamNeeds returns a team's ordered positional need list. Teams without a
// stored list have no needs.
func (r *PgxRepository) TeamNeeds(ctx context.Context, team string) ([]models.Position, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT needs FROM team_needs WHERE team = $1`, team).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("team needs: %w", err)
	}
	var needs []models.Position
	if err := sqlutil.FromJSONB(raw, &needs); err != nil {
		return nil, err
	}
	return needs, nil
}

func scanCandidate(row pgx.Row) (*models.Candidate, error) {
	var (
		cand    models.Candidate
		combine []byte
		stats   []byte
	)
	err := row.Scan(&cand.ID, &cand.DraftYear, &cand.FullName, &cand.Position, &cand.ConsensusRank,
		&cand.College, &cand.Conference, &combine, &stats)
	if err != nil {
		return nil, err
	}
	if err := sqlutil.FromJSONB(combine, &cand.Combine); err != nil {
		return nil, err
	}
	if err := sqlutil.FromJSONB(stats, &cand.Stats); err != nil {
		return nil, err
	}
	return &cand, nil
}

func collectCandidates(rows pgx.Rows) ([]models.Candidate, error) {
	var out []models.Candidate
	for rows.Next() {
		cand, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, *cand)
	}
	return out, rows.Err()
}
