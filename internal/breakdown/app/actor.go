package app

import (
	"context"
	"errors"

	"roadassist/internal/breakdown/domain"
	"roadassist/internal/shared/apperrors"
)

// ActorResolver builds the resolved Actor context handed to every lifecycle
// operation. The garage/mechanic lookups happen here, once per request,
// keeping the lifecycle manager's persistence surface narrow.
type ActorResolver struct {
	garages   domain.GarageRepository
	mechanics domain.MechanicDirectory
}

func NewActorResolver(garages domain.GarageRepository, mechanics domain.MechanicDirectory) *ActorResolver {
	return &ActorResolver{garages: garages, mechanics: mechanics}
}

func (r *ActorResolver) Resolve(ctx context.Context, userID, role string) (domain.Actor, error) {
	actor := domain.Actor{UserID: userID, Role: role}

	switch role {
	case domain.RoleGarage:
		garage, err := r.garages.GetByOwner(ctx, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return actor, nil
			}
			return domain.Actor{}, err
		}
		actor.GarageID = garage.ID
	case domain.RoleMechanic:
		mech, err := r.mechanics.GetRefByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return actor, nil
			}
			return domain.Actor{}, err
		}
		actor.MechanicID = mech.ID
	}

	return actor, nil
}
