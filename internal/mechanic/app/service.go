package app

import (
	"context"
	"fmt"

	breakdowndomain "roadassist/internal/breakdown/domain"
	"roadassist/internal/mechanic/domain"
	"roadassist/internal/shared/apperrors"
	"roadassist/internal/shared/util"
	"roadassist/internal/shared/validation"
)

// MechanicRepository is the persistence surface for the mechanic roster.
type MechanicRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Mechanic, error)
	GetByUser(ctx context.Context, userID string) (*domain.Mechanic, error)
	ListByGarage(ctx context.Context, garageID string) ([]domain.Mechanic, error)
	UpdateStatus(ctx context.Context, userID string, status domain.Availability) (*domain.Mechanic, error)
	UpdateLocation(ctx context.Context, userID string, lat, lng float64) (*domain.Mechanic, error)
}

type MechanicService struct {
	mechanics MechanicRepository
	garages   breakdowndomain.GarageRepository
	logger    *util.Logger
}

func NewMechanicService(mechanics MechanicRepository, garages breakdowndomain.GarageRepository, logger *util.Logger) *MechanicService {
	return &MechanicService{mechanics: mechanics, garages: garages, logger: logger}
}

// ListRoster returns the mechanics of the garage owned by the acting user.
func (s *MechanicService) ListRoster(ctx context.Context, ownerID string) ([]domain.Mechanic, error) {
	garage, err := s.garages.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Forbiddenf("you must own a garage to list mechanics")
	}
	return s.mechanics.ListByGarage(ctx, garage.ID)
}

// GetOwn returns the mechanic record of the acting user.
func (s *MechanicService) GetOwn(ctx context.Context, userID string) (*domain.Mechanic, error) {
	return s.mechanics.GetByUser(ctx, userID)
}

// UpdateOwnStatus lets a mechanic go on or off shift. on_mission is reserved
// for the breakdown lifecycle, which owns that flip.
func (s *MechanicService) UpdateOwnStatus(ctx context.Context, userID string, status domain.Availability) (*domain.Mechanic, error) {
	instance := "MechanicService.UpdateOwnStatus"

	if err := validation.ValidateMechanicStatus(string(status)); err != nil {
		return nil, err
	}
	if status == domain.StatusOnMission {
		return nil, apperrors.Validationf("on_mission is set by breakdown assignment, not directly")
	}

	m, err := s.mechanics.UpdateStatus(ctx, userID, status)
	if err != nil {
		return nil, err
	}

	s.logger.OK(instance, fmt.Sprintf("mechanic %s is now %s", m.ID, status))
	return m, nil
}

// UpdateOwnLocation records the mechanic's last reported position.
func (s *MechanicService) UpdateOwnLocation(ctx context.Context, userID string, lat, lng float64) (*domain.Mechanic, error) {
	if err := validation.ValidateCoordinates(lat, lng); err != nil {
		return nil, err
	}
	return s.mechanics.UpdateLocation(ctx, userID, lat, lng)
}
