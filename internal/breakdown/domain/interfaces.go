package domain

import "context"

// BreakdownRepository is the persistence gateway for breakdowns. The guarded
// mutations (AcceptPending, AssignMechanic, AdvanceStatus, Cancel) perform
// their status precondition and the write as one atomic conditional update
// and return apperrors.ErrConflict when the guard no longer holds.
type BreakdownRepository interface {
	Create(ctx context.Context, b *Breakdown) error
	GetByID(ctx context.Context, id string) (*Breakdown, error)

	AcceptPending(ctx context.Context, id, garageID string, diagnosticFee, travelFee float64, distanceKm *float64) (*Breakdown, error)
	AssignMechanic(ctx context.Context, id, garageID, mechanicID string) (*Breakdown, error)
	AdvanceStatus(ctx context.Context, id string, from, to Status) (*Breakdown, error)
	Cancel(ctx context.Context, id, cancelledBy, reason string) (*Breakdown, error)

	ListByMotorist(ctx context.Context, motoristID string) ([]Breakdown, error)
	ListForGarage(ctx context.Context, garageID string) ([]Breakdown, error)
	ListByMechanic(ctx context.Context, mechanicID string) ([]Breakdown, error)
}

// GarageRepository resolves garages for authorization and rate snapshots.
type GarageRepository interface {
	GetByID(ctx context.Context, id string) (*Garage, error)
	GetByOwner(ctx context.Context, ownerID string) (*Garage, error)
}

// MechanicRef is the slice of a mechanic record the lifecycle manager needs:
// garage membership for authorization and the user id for notifications.
type MechanicRef struct {
	ID       string
	UserID   string
	GarageID string
}

// MechanicDirectory resolves mechanic references.
type MechanicDirectory interface {
	GetRefByID(ctx context.Context, id string) (*MechanicRef, error)
	GetRefByUser(ctx context.Context, userID string) (*MechanicRef, error)
}

// Notifier is the fire-and-forget notification dispatcher. Implementations
// must never block or fail the calling transition.
type Notifier interface {
	Notify(userID, eventType string, payload map[string]interface{})
}
