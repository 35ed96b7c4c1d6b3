package domain

import "roadassist/internal/shared/apperrors"

// Status is the closed set of breakdown lifecycle states. The happy path is
// a total order; cancelled is reachable from every state except completed.
type Status string

const (
	StatusPending          Status = "pending"
	StatusAccepted         Status = "accepted"
	StatusMechanicAssigned Status = "mechanic_assigned"
	StatusMechanicOnWay    Status = "mechanic_on_way"
	StatusMechanicArrived  Status = "mechanic_arrived"
	StatusDiagnosing       Status = "diagnosing"
	StatusQuoteSent        Status = "quote_sent"
	StatusQuoteAccepted    Status = "quote_accepted"
	StatusRepairing        Status = "repairing"
	StatusCompleted        Status = "completed"
	StatusCancelled        Status = "cancelled"
)

// statusOrder is the authoritative forward progression.
var statusOrder = []Status{
	StatusPending,
	StatusAccepted,
	StatusMechanicAssigned,
	StatusMechanicOnWay,
	StatusMechanicArrived,
	StatusDiagnosing,
	StatusQuoteSent,
	StatusQuoteAccepted,
	StatusRepairing,
	StatusCompleted,
}

var statusIndex = func() map[Status]int {
	m := make(map[Status]int, len(statusOrder))
	for i, s := range statusOrder {
		m[s] = i
	}
	return m
}()

// ParseStatus converts a raw string into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := statusIndex[s]; ok {
		return s, nil
	}
	if s == StatusCancelled {
		return s, nil
	}
	return "", apperrors.Validationf("unknown status %q", raw)
}

// Successor returns the next status on the happy path, or false when the
// status is terminal or off the forward order.
func (s Status) Successor() (Status, bool) {
	i, ok := statusIndex[s]
	if !ok || i == len(statusOrder)-1 {
		return "", false
	}
	return statusOrder[i+1], true
}

// IsTerminal reports whether no further transition may leave this status.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanCancel reports whether cancellation is legal from this status.
func (s Status) CanCancel() bool {
	return !s.IsTerminal()
}

// CanAdvanceTo reports whether target is the immediate successor of s.
// quote_accepted is excluded here: accepting a quote is the only way in.
// The quote stage itself is optional, so a diagnosing breakdown may move
// straight to repairing when the repair goes ahead without a quote.
func (s Status) CanAdvanceTo(target Status) bool {
	if target == StatusQuoteAccepted {
		return false
	}
	if s == StatusDiagnosing && target == StatusRepairing {
		return true
	}
	next, ok := s.Successor()
	return ok && next == target
}
