package domain

import "time"

// Event types mirrored by the dashboards; one constant per lifecycle
// milestone a user can be told about.
const (
	EventBreakdownCreated   = "breakdown_created"
	EventBreakdownAccepted  = "breakdown_accepted"
	EventBreakdownCancelled = "breakdown_cancelled"
	EventMechanicAssigned   = "mechanic_assigned"
	EventMechanicOnWay      = "mechanic_on_way"
	EventMechanicArrived    = "mechanic_arrived"
	EventDiagnosisComplete  = "diagnosis_complete"
	EventQuoteReceived      = "quote_received"
	EventQuoteAccepted      = "quote_accepted"
	EventRepairStarted      = "repair_started"
	EventRepairCompleted    = "repair_completed"
	EventSystem             = "system"
)

// Notification is a persisted, per-user message with a read marker.
type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Envelope is the wire format published on the notification exchange and
// consumed by the worker.
type Envelope struct {
	UserID  string                 `json:"user_id"`
	Type    string                 `json:"type"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}
