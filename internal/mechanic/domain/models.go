package domain

import "time"

// Availability is the canonical mechanic status set.
type Availability string

const (
	StatusAvailable Availability = "available"
	StatusOnMission Availability = "on_mission"
	StatusOffline   Availability = "offline"
)

// Mechanic belongs to exactly one garage. Its availability is flipped by the
// breakdown lifecycle on assignment, completion and cancellation, and by the
// mechanic directly when going on/off shift.
type Mechanic struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	GarageID  string       `json:"garage_id"`
	FullName  string       `json:"full_name"`
	Phone     string       `json:"phone,omitempty"`
	Specialty string       `json:"specialty,omitempty"`
	Status    Availability `json:"status"`

	CurrentLatitude    *float64   `json:"current_latitude,omitempty"`
	CurrentLongitude   *float64   `json:"current_longitude,omitempty"`
	LastLocationUpdate *time.Time `json:"last_location_update,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
