package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"roadassist/internal/breakdown/domain"
	"roadassist/internal/shared/apperrors"
)

const breakdownColumns = `
	id, reference, motorist_id, vehicle_id, garage_id, mechanic_id,
	title, description, breakdown_type, latitude, longitude, address, photos,
	status, diagnostic_fee, travel_fee, distance_km,
	accepted_at, mechanic_assigned_at, mechanic_departed_at, mechanic_arrived_at,
	diagnosis_started_at, quote_sent_at, quote_accepted_at, repair_started_at,
	completed_at, cancelled_at, cancellation_reason, cancelled_by,
	created_at, updated_at`

// milestoneColumns maps each forward status to the timestamp column stamped
// when the breakdown enters it.
var milestoneColumns = map[domain.Status]string{
	domain.StatusAccepted:         "accepted_at",
	domain.StatusMechanicAssigned: "mechanic_assigned_at",
	domain.StatusMechanicOnWay:    "mechanic_departed_at",
	domain.StatusMechanicArrived:  "mechanic_arrived_at",
	domain.StatusDiagnosing:       "diagnosis_started_at",
	domain.StatusQuoteSent:        "quote_sent_at",
	domain.StatusQuoteAccepted:    "quote_accepted_at",
	domain.StatusRepairing:        "repair_started_at",
	domain.StatusCompleted:        "completed_at",
}

type BreakdownRepo struct {
	db *pgxpool.Pool
}

func NewBreakdownRepo(db *pgxpool.Pool) *BreakdownRepo {
	return &BreakdownRepo{db: db}
}

func (r *BreakdownRepo) Create(ctx context.Context, b *domain.Breakdown) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO breakdowns (
			id, reference, motorist_id, vehicle_id, garage_id,
			title, description, breakdown_type, latitude, longitude, address, photos,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		b.ID, b.Reference, b.MotoristID, b.VehicleID, b.GarageID,
		b.Title, b.Description, b.BreakdownType, b.Latitude, b.Longitude, b.Address, b.Photos,
		b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert breakdown failed: %w", err)
	}
	return nil
}

func (r *BreakdownRepo) GetByID(ctx context.Context, id string) (*domain.Breakdown, error) {
	row := r.db.QueryRow(ctx, `SELECT `+breakdownColumns+` FROM breakdowns WHERE id = $1`, id)
	b, err := scanBreakdown(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("breakdown %s", id)
		}
		return nil, err
	}
	return b, nil
}

// AcceptPending performs the pending check and the acceptance as one
// conditional update. Zero affected rows means somebody else already took
// the breakdown (or it never existed).
func (r *BreakdownRepo) AcceptPending(ctx context.Context, id, garageID string, diagnosticFee, travelFee float64, distanceKm *float64) (*domain.Breakdown, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE breakdowns
		SET garage_id = $2,
		    status = 'accepted',
		    accepted_at = NOW(),
		    diagnostic_fee = $3,
		    travel_fee = $4,
		    distance_km = $5,
		    updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+breakdownColumns,
		id, garageID, diagnosticFee, travelFee, distanceKm,
	)

	b, err := scanBreakdown(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.conflictOrNotFound(ctx, id, "breakdown has already been taken")
		}
		return nil, fmt.Errorf("accept breakdown failed: %w", err)
	}
	return b, nil
}

// AssignMechanic updates the breakdown and flips the mechanic to on_mission
// inside one transaction so a failure on either side leaves no half-applied
// assignment.
func (r *BreakdownRepo) AssignMechanic(ctx context.Context, id, garageID, mechanicID string) (*domain.Breakdown, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE breakdowns
		SET mechanic_id = $3,
		    status = 'mechanic_assigned',
		    mechanic_assigned_at = NOW(),
		    updated_at = NOW()
		WHERE id = $1 AND garage_id = $2 AND status = 'accepted'
		RETURNING `+breakdownColumns,
		id, garageID, mechanicID,
	)

	b, err := scanBreakdown(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.conflictOrNotFound(ctx, id, "breakdown is not awaiting assignment")
		}
		return nil, fmt.Errorf("assign mechanic failed: %w", err)
	}

	cmd, err := tx.Exec(ctx, `
		UPDATE mechanics
		SET status = 'on_mission', updated_at = NOW()
		WHERE id = $1 AND garage_id = $2
	`, mechanicID, garageID)
	if err != nil {
		return nil, fmt.Errorf("update mechanic status failed: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return nil, apperrors.Forbiddenf("mechanic %s does not belong to garage %s", mechanicID, garageID)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit failed: %w", err)
	}
	return b, nil
}

// AdvanceStatus moves from -> to guarded on the current status, stamping the
// milestone timestamp. Completion releases the assigned mechanic in the same
// transaction.
func (r *BreakdownRepo) AdvanceStatus(ctx context.Context, id string, from, to domain.Status) (*domain.Breakdown, error) {
	column, ok := milestoneColumns[to]
	if !ok {
		return nil, apperrors.InvalidTransitionf("no milestone for status %s", to)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// column names come from milestoneColumns, never from callers
	query := fmt.Sprintf(`
		UPDATE breakdowns
		SET status = $3, %s = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING `+breakdownColumns, column)

	row := tx.QueryRow(ctx, query, id, from, to)
	b, err := scanBreakdown(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.conflictOrNotFound(ctx, id, "breakdown status changed concurrently")
		}
		return nil, fmt.Errorf("advance status failed: %w", err)
	}

	if to == domain.StatusCompleted && b.MechanicID != nil {
		_, err = tx.Exec(ctx, `
			UPDATE mechanics
			SET status = 'available', updated_at = NOW()
			WHERE id = $1
		`, *b.MechanicID)
		if err != nil {
			return nil, fmt.Errorf("release mechanic failed: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit failed: %w", err)
	}
	return b, nil
}

// Cancel aborts the breakdown from any non-terminal status and releases an
// assigned mechanic.
func (r *BreakdownRepo) Cancel(ctx context.Context, id, cancelledBy, reason string) (*domain.Breakdown, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE breakdowns
		SET status = 'cancelled',
		    cancelled_at = NOW(),
		    cancellation_reason = $2,
		    cancelled_by = $3,
		    updated_at = NOW()
		WHERE id = $1 AND status NOT IN ('completed', 'cancelled')
		RETURNING `+breakdownColumns,
		id, reason, cancelledBy,
	)

	b, err := scanBreakdown(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.conflictOrNotFound(ctx, id, "breakdown can no longer be cancelled")
		}
		return nil, fmt.Errorf("cancel breakdown failed: %w", err)
	}

	if b.MechanicID != nil {
		_, err = tx.Exec(ctx, `
			UPDATE mechanics
			SET status = 'available', updated_at = NOW()
			WHERE id = $1 AND status = 'on_mission'
		`, *b.MechanicID)
		if err != nil {
			return nil, fmt.Errorf("release mechanic failed: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit failed: %w", err)
	}
	return b, nil
}

func (r *BreakdownRepo) ListByMotorist(ctx context.Context, motoristID string) ([]domain.Breakdown, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+breakdownColumns+`
		FROM breakdowns
		WHERE motorist_id = $1
		ORDER BY created_at DESC
	`, motoristID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBreakdowns(rows)
}

// ListForGarage returns the garage's own breakdowns plus the still-pending
// marketplace pool.
func (r *BreakdownRepo) ListForGarage(ctx context.Context, garageID string) ([]domain.Breakdown, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+breakdownColumns+`
		FROM breakdowns
		WHERE garage_id = $1 OR status = 'pending'
		ORDER BY created_at DESC
	`, garageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBreakdowns(rows)
}

func (r *BreakdownRepo) ListByMechanic(ctx context.Context, mechanicID string) ([]domain.Breakdown, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+breakdownColumns+`
		FROM breakdowns
		WHERE mechanic_id = $1
		ORDER BY created_at DESC
	`, mechanicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBreakdowns(rows)
}

// conflictOrNotFound distinguishes a failed conditional update on an existing
// row (conflict) from a missing row (not found).
func (r *BreakdownRepo) conflictOrNotFound(ctx context.Context, id, conflictMsg string) error {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM breakdowns WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NotFoundf("breakdown %s", id)
	}
	return apperrors.Conflictf("%s", conflictMsg)
}

func scanBreakdown(row pgx.Row) (*domain.Breakdown, error) {
	var b domain.Breakdown
	err := row.Scan(
		&b.ID, &b.Reference, &b.MotoristID, &b.VehicleID, &b.GarageID, &b.MechanicID,
		&b.Title, &b.Description, &b.BreakdownType, &b.Latitude, &b.Longitude, &b.Address, &b.Photos,
		&b.Status, &b.DiagnosticFee, &b.TravelFee, &b.DistanceKm,
		&b.AcceptedAt, &b.MechanicAssignedAt, &b.MechanicDepartedAt, &b.MechanicArrivedAt,
		&b.DiagnosisStartedAt, &b.QuoteSentAt, &b.QuoteAcceptedAt, &b.RepairStartedAt,
		&b.CompletedAt, &b.CancelledAt, &b.CancellationReason, &b.CancelledBy,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBreakdowns(rows pgx.Rows) ([]domain.Breakdown, error) {
	var out []domain.Breakdown
	for rows.Next() {
		b, err := scanBreakdown(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}
