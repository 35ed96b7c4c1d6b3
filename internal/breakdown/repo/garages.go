package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"roadassist/internal/breakdown/domain"
	"roadassist/internal/shared/apperrors"
)

// GarageRepo resolves garages for authorization checks and rate snapshots.
// Garage CRUD itself lives outside this service.
type GarageRepo struct {
	db *pgxpool.Pool
}

func NewGarageRepo(db *pgxpool.Pool) *GarageRepo {
	return &GarageRepo{db: db}
}

const garageColumns = `id, owner_id, name, latitude, longitude, diagnostic_fee, travel_fee`

func (r *GarageRepo) GetByID(ctx context.Context, id string) (*domain.Garage, error) {
	row := r.db.QueryRow(ctx, `SELECT `+garageColumns+` FROM garages WHERE id = $1`, id)
	return scanGarage(row, id)
}

func (r *GarageRepo) GetByOwner(ctx context.Context, ownerID string) (*domain.Garage, error) {
	row := r.db.QueryRow(ctx, `SELECT `+garageColumns+` FROM garages WHERE owner_id = $1`, ownerID)
	return scanGarage(row, ownerID)
}

func scanGarage(row pgx.Row, key string) (*domain.Garage, error) {
	var g domain.Garage
	err := row.Scan(&g.ID, &g.OwnerID, &g.Name, &g.Latitude, &g.Longitude, &g.DiagnosticFee, &g.TravelFee)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("garage %s", key)
		}
		return nil, err
	}
	return &g, nil
}
