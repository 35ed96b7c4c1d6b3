package domain

import "time"

type QuoteStatus string

const (
	StatusSent     QuoteStatus = "sent"
	StatusAccepted QuoteStatus = "accepted"
	StatusRejected QuoteStatus = "rejected"
)

// QuoteItem is one itemized line; the quote total is the plain sum.
type QuoteItem struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Quote is an itemized repair offer a mechanic sends on a diagnosing
// breakdown. Accepting it is the only path into the breakdown's
// quote_accepted status; rejecting it leaves the breakdown at quote_sent so
// the mechanic can send a revised one.
type Quote struct {
	ID          string      `json:"id"`
	BreakdownID string      `json:"breakdown_id"`
	MechanicID  string      `json:"mechanic_id"`
	Items       []QuoteItem `json:"items"`
	Total       float64     `json:"total"`
	Status      QuoteStatus `json:"status"`

	AcceptedAt      *time.Time `json:"accepted_at,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (q *Quote) SumItems() float64 {
	var total float64
	for _, item := range q.Items {
		total += item.Amount
	}
	return total
}
