package api

import (
	"time"

	"roadassist/internal/breakdown/domain"
)

type CreateBreakdownRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	BreakdownType string   `json:"breakdown_type,omitempty"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	Address       string   `json:"address,omitempty"`
	VehicleID     string   `json:"vehicle_id,omitempty"`
	GarageID      string   `json:"garage_id,omitempty"`
	Photos        []string `json:"photos,omitempty"`
}

type AssignMechanicRequest struct {
	MechanicID string `json:"mechanic_id"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type BreakdownResponse struct {
	ID            string   `json:"id"`
	Reference     string   `json:"reference"`
	MotoristID    string   `json:"motorist_id"`
	VehicleID     *string  `json:"vehicle_id,omitempty"`
	GarageID      *string  `json:"garage_id,omitempty"`
	MechanicID    *string  `json:"mechanic_id,omitempty"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	BreakdownType string   `json:"breakdown_type"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	Address       string   `json:"address,omitempty"`
	Photos        []string `json:"photos,omitempty"`
	Status        string   `json:"status"`

	DiagnosticFee *float64 `json:"diagnostic_fee,omitempty"`
	TravelFee     *float64 `json:"travel_fee,omitempty"`
	DistanceKm    *float64 `json:"distance_km,omitempty"`

	AcceptedAt         *time.Time `json:"accepted_at,omitempty"`
	MechanicAssignedAt *time.Time `json:"mechanic_assigned_at,omitempty"`
	MechanicDepartedAt *time.Time `json:"mechanic_departed_at,omitempty"`
	MechanicArrivedAt  *time.Time `json:"mechanic_arrived_at,omitempty"`
	DiagnosisStartedAt *time.Time `json:"diagnosis_started_at,omitempty"`
	QuoteSentAt        *time.Time `json:"quote_sent_at,omitempty"`
	QuoteAcceptedAt    *time.Time `json:"quote_accepted_at,omitempty"`
	RepairStartedAt    *time.Time `json:"repair_started_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(b *domain.Breakdown) BreakdownResponse {
	return BreakdownResponse{
		ID:                 b.ID,
		Reference:          b.Reference,
		MotoristID:         b.MotoristID,
		VehicleID:          b.VehicleID,
		GarageID:           b.GarageID,
		MechanicID:         b.MechanicID,
		Title:              b.Title,
		Description:        b.Description,
		BreakdownType:      b.BreakdownType,
		Latitude:           b.Latitude,
		Longitude:          b.Longitude,
		Address:            b.Address,
		Photos:             b.Photos,
		Status:             string(b.Status),
		DiagnosticFee:      b.DiagnosticFee,
		TravelFee:          b.TravelFee,
		DistanceKm:         b.DistanceKm,
		AcceptedAt:         b.AcceptedAt,
		MechanicAssignedAt: b.MechanicAssignedAt,
		MechanicDepartedAt: b.MechanicDepartedAt,
		MechanicArrivedAt:  b.MechanicArrivedAt,
		DiagnosisStartedAt: b.DiagnosisStartedAt,
		QuoteSentAt:        b.QuoteSentAt,
		QuoteAcceptedAt:    b.QuoteAcceptedAt,
		RepairStartedAt:    b.RepairStartedAt,
		CompletedAt:        b.CompletedAt,
		CancelledAt:        b.CancelledAt,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func toResponses(list []domain.Breakdown) []BreakdownResponse {
	out := make([]BreakdownResponse, 0, len(list))
	for i := range list {
		out = append(out, toResponse(&list[i]))
	}
	return out
}
