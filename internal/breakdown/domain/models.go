package domain

import "time"

// Default fees applied when the accepting garage has not configured rates.
const (
	DefaultDiagnosticFee = 5000
	DefaultTravelFee     = 2000
)

// Breakdown is the central entity. Fee fields are frozen copies taken from
// the garage at acceptance time, never live references.
type Breakdown struct {
	ID        string
	Reference string

	MotoristID string
	VehicleID  *string
	GarageID   *string
	MechanicID *string

	Title         string
	Description   string
	BreakdownType string
	Latitude      float64
	Longitude     float64
	Address       string
	Photos        []string

	Status Status

	DiagnosticFee *float64
	TravelFee     *float64
	DistanceKm    *float64

	AcceptedAt         *time.Time
	MechanicAssignedAt *time.Time
	MechanicDepartedAt *time.Time
	MechanicArrivedAt  *time.Time
	DiagnosisStartedAt *time.Time
	QuoteSentAt        *time.Time
	QuoteAcceptedAt    *time.Time
	RepairStartedAt    *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason *string
	CancelledBy        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateBreakdownInput is the closed, validated input for Create.
type CreateBreakdownInput struct {
	Title         string
	Description   string
	BreakdownType string
	Latitude      float64
	Longitude     float64
	Address       string
	VehicleID     string
	GarageID      string
	Photos        []string
}

// Garage carries the subset of garage data the lifecycle manager reads:
// ownership for authorization and current rates for the copy-on-accept.
type Garage struct {
	ID            string
	OwnerID       string
	Name          string
	Latitude      float64
	Longitude     float64
	DiagnosticFee *float64
	TravelFee     *float64
}

// Actor is the resolved caller context passed into every lifecycle
// operation: identity plus the garage/mechanic records the user maps to,
// looked up once per request instead of ad hoc inside each operation.
type Actor struct {
	UserID     string
	Role       string
	GarageID   string
	MechanicID string
}

const (
	RoleMotorist = "motorist"
	RoleGarage   = "garage"
	RoleMechanic = "mechanic"
	RoleAdmin    = "admin"
)
