package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	breakdowndomain "roadassist/internal/breakdown/domain"
	"roadassist/internal/mechanic/domain"
	"roadassist/internal/shared/apperrors"
)

const mechanicColumns = `
	id, user_id, garage_id, full_name, phone, specialty, status,
	current_latitude, current_longitude, last_location_update,
	created_at, updated_at`

type MechanicRepo struct {
	db *pgxpool.Pool
}

func NewMechanicRepo(db *pgxpool.Pool) *MechanicRepo {
	return &MechanicRepo{db: db}
}

func (r *MechanicRepo) GetByID(ctx context.Context, id string) (*domain.Mechanic, error) {
	row := r.db.QueryRow(ctx, `SELECT `+mechanicColumns+` FROM mechanics WHERE id = $1`, id)
	return scanMechanic(row, id)
}

func (r *MechanicRepo) GetByUser(ctx context.Context, userID string) (*domain.Mechanic, error) {
	row := r.db.QueryRow(ctx, `SELECT `+mechanicColumns+` FROM mechanics WHERE user_id = $1`, userID)
	return scanMechanic(row, userID)
}

func (r *MechanicRepo) ListByGarage(ctx context.Context, garageID string) ([]domain.Mechanic, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+mechanicColumns+`
		FROM mechanics
		WHERE garage_id = $1
		ORDER BY full_name
	`, garageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Mechanic
	for rows.Next() {
		m, err := scanMechanic(rows, garageID)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *MechanicRepo) UpdateStatus(ctx context.Context, userID string, status domain.Availability) (*domain.Mechanic, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE mechanics
		SET status = $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING `+mechanicColumns,
		userID, status,
	)
	return scanMechanic(row, userID)
}

func (r *MechanicRepo) UpdateLocation(ctx context.Context, userID string, lat, lng float64) (*domain.Mechanic, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE mechanics
		SET current_latitude = $2,
		    current_longitude = $3,
		    last_location_update = NOW(),
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING `+mechanicColumns,
		userID, lat, lng,
	)
	return scanMechanic(row, userID)
}

// GetRefByID implements the breakdown lifecycle's MechanicDirectory.
func (r *MechanicRepo) GetRefByID(ctx context.Context, id string) (*breakdowndomain.MechanicRef, error) {
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &breakdowndomain.MechanicRef{ID: m.ID, UserID: m.UserID, GarageID: m.GarageID}, nil
}

// GetRefByUser implements the breakdown lifecycle's MechanicDirectory.
func (r *MechanicRepo) GetRefByUser(ctx context.Context, userID string) (*breakdowndomain.MechanicRef, error) {
	m, err := r.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &breakdowndomain.MechanicRef{ID: m.ID, UserID: m.UserID, GarageID: m.GarageID}, nil
}

func scanMechanic(row pgx.Row, key string) (*domain.Mechanic, error) {
	var m domain.Mechanic
	err := row.Scan(
		&m.ID, &m.UserID, &m.GarageID, &m.FullName, &m.Phone, &m.Specialty, &m.Status,
		&m.CurrentLatitude, &m.CurrentLongitude, &m.LastLocationUpdate,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("mechanic %s", key)
		}
		return nil, fmt.Errorf("scan mechanic failed: %w", err)
	}
	return &m, nil
}
