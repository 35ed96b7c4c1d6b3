package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"roadassist/internal/quote/domain"
	"roadassist/internal/shared/apperrors"
)

const quoteColumns = `
	id, breakdown_id, mechanic_id, items, total, status,
	accepted_at, rejected_at, rejection_reason, created_at`

type QuoteRepo struct {
	db *pgxpool.Pool
}

func NewQuoteRepo(db *pgxpool.Pool) *QuoteRepo {
	return &QuoteRepo{db: db}
}

func (r *QuoteRepo) Create(ctx context.Context, q *domain.Quote) error {
	items, err := json.Marshal(q.Items)
	if err != nil {
		return fmt.Errorf("marshal quote items failed: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO quotes (id, breakdown_id, mechanic_id, items, total, status, created_at)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7)
	`, q.ID, q.BreakdownID, q.MechanicID, items, q.Total, q.Status, q.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert quote failed: %w", err)
	}
	return nil
}

func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*domain.Quote, error) {
	row := r.db.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id)
	q, err := scanQuote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("quote %s", id)
		}
		return nil, err
	}
	return q, nil
}

func (r *QuoteRepo) ListByBreakdown(ctx context.Context, breakdownID string) ([]domain.Quote, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+quoteColumns+`
		FROM quotes
		WHERE breakdown_id = $1
		ORDER BY created_at DESC
	`, breakdownID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

// SetAccepted marks the quote accepted, guarded on it still being sent.
func (r *QuoteRepo) SetAccepted(ctx context.Context, id string) (*domain.Quote, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE quotes
		SET status = 'accepted', accepted_at = NOW()
		WHERE id = $1 AND status = 'sent'
		RETURNING `+quoteColumns,
		id,
	)
	q, err := scanQuote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Conflictf("quote %s is no longer awaiting a decision", id)
		}
		return nil, err
	}
	return q, nil
}

// SetRejected marks the quote rejected, guarded on it still being sent.
func (r *QuoteRepo) SetRejected(ctx context.Context, id, reason string) (*domain.Quote, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE quotes
		SET status = 'rejected', rejected_at = NOW(), rejection_reason = $2
		WHERE id = $1 AND status = 'sent'
		RETURNING `+quoteColumns,
		id, reason,
	)
	q, err := scanQuote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Conflictf("quote %s is no longer awaiting a decision", id)
		}
		return nil, err
	}
	return q, nil
}

func scanQuote(row pgx.Row) (*domain.Quote, error) {
	var q domain.Quote
	var items []byte
	err := row.Scan(
		&q.ID, &q.BreakdownID, &q.MechanicID, &items, &q.Total, &q.Status,
		&q.AcceptedAt, &q.RejectedAt, &q.RejectionReason, &q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &q.Items); err != nil {
			return nil, fmt.Errorf("unmarshal quote items failed: %w", err)
		}
	}
	return &q, nil
}
