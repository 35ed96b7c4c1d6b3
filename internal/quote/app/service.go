package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	breakdowndomain "roadassist/internal/breakdown/domain"
	"roadassist/internal/quote/domain"
	"roadassist/internal/shared/apperrors"
	"roadassist/internal/shared/util"
)

// QuoteRepository is the persistence surface for quotes.
type QuoteRepository interface {
	Create(ctx context.Context, q *domain.Quote) error
	GetByID(ctx context.Context, id string) (*domain.Quote, error)
	ListByBreakdown(ctx context.Context, breakdownID string) ([]domain.Quote, error)
	SetAccepted(ctx context.Context, id string) (*domain.Quote, error)
	SetRejected(ctx context.Context, id, reason string) (*domain.Quote, error)
}

// BreakdownLifecycle is the slice of the lifecycle manager the quote flow
// drives. Accepting a quote is the only way a breakdown reaches
// quote_accepted.
type BreakdownLifecycle interface {
	GetByID(ctx context.Context, breakdownID string) (*breakdowndomain.Breakdown, error)
	AdvanceStatus(ctx context.Context, breakdownID string, target breakdowndomain.Status, actor breakdowndomain.Actor) (*breakdowndomain.Breakdown, error)
	ApplyQuoteAccepted(ctx context.Context, breakdownID string, actor breakdowndomain.Actor) (*breakdowndomain.Breakdown, error)
}

type QuoteService struct {
	quotes    QuoteRepository
	lifecycle BreakdownLifecycle
	logger    *util.Logger
}

func NewQuoteService(quotes QuoteRepository, lifecycle BreakdownLifecycle, logger *util.Logger) *QuoteService {
	return &QuoteService{quotes: quotes, lifecycle: lifecycle, logger: logger}
}

// Send creates a quote on a diagnosing breakdown and moves the breakdown to
// quote_sent. Only the assigned mechanic may send one. The quote row is
// inserted before the transition so a quote_sent breakdown always has a
// quote; when the transition then loses a concurrent status change, the row
// is marked rejected so it never dangles as sent.
func (s *QuoteService) Send(ctx context.Context, breakdownID string, items []domain.QuoteItem, actor breakdowndomain.Actor) (*domain.Quote, error) {
	instance := "QuoteService.Send"
	start := time.Now()

	if actor.MechanicID == "" {
		return nil, apperrors.Forbiddenf("only mechanics can send quotes")
	}
	if len(items) == 0 {
		return nil, apperrors.Validationf("a quote needs at least one item")
	}
	for _, item := range items {
		if strings.TrimSpace(item.Label) == "" {
			return nil, apperrors.Validationf("quote item label cannot be empty")
		}
		if item.Amount < 0 {
			return nil, apperrors.Validationf("quote item amount must be non-negative")
		}
	}

	b, err := s.lifecycle.GetByID(ctx, breakdownID)
	if err != nil {
		return nil, err
	}
	if b.MechanicID == nil || *b.MechanicID != actor.MechanicID {
		return nil, apperrors.Forbiddenf("you are not assigned to this breakdown")
	}
	if b.Status != breakdowndomain.StatusDiagnosing {
		return nil, apperrors.Conflictf("breakdown is not being diagnosed")
	}

	q := &domain.Quote{
		ID:          util.NewID(),
		BreakdownID: breakdownID,
		MechanicID:  actor.MechanicID,
		Items:       items,
		Status:      domain.StatusSent,
		CreatedAt:   time.Now().UTC(),
	}
	q.Total = q.SumItems()

	if err := s.quotes.Create(ctx, q); err != nil {
		s.logger.Error(instance, err)
		return nil, err
	}

	if _, err := s.lifecycle.AdvanceStatus(ctx, breakdownID, breakdowndomain.StatusQuoteSent, actor); err != nil {
		s.logger.Warn(instance, fmt.Sprintf("quote %s created but breakdown transition failed: %v", q.ID, err))
		if _, rerr := s.quotes.SetRejected(ctx, q.ID, "breakdown state changed before the quote went out"); rerr != nil {
			s.logger.Error(instance, fmt.Errorf("reject orphaned quote %s failed: %w", q.ID, rerr))
		}
		return nil, err
	}

	s.logger.OK(instance, fmt.Sprintf("quote %s sent on breakdown %s (total=%.0f, duration=%dms)",
		q.ID, breakdownID, q.Total, time.Since(start).Milliseconds()))
	return q, nil
}

// Accept records the motorist's acceptance and drives the breakdown to
// quote_accepted. The lifecycle transition runs first because it carries the
// authoritative guards (motorist identity, quote_sent status).
func (s *QuoteService) Accept(ctx context.Context, quoteID string, actor breakdowndomain.Actor) (*domain.Quote, error) {
	instance := "QuoteService.Accept"

	q, err := s.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if q.Status != domain.StatusSent {
		return nil, apperrors.Conflictf("quote is already %s", q.Status)
	}

	if _, err := s.lifecycle.ApplyQuoteAccepted(ctx, q.BreakdownID, actor); err != nil {
		return nil, err
	}

	accepted, err := s.quotes.SetAccepted(ctx, quoteID)
	if err != nil {
		s.logger.Error(instance, err)
		return nil, err
	}

	s.logger.OK(instance, fmt.Sprintf("quote %s accepted", quoteID))
	return accepted, nil
}

// Reject records the motorist's rejection. The breakdown stays at quote_sent
// so the mechanic can send a revised quote.
func (s *QuoteService) Reject(ctx context.Context, quoteID, reason string, actor breakdowndomain.Actor) (*domain.Quote, error) {
	instance := "QuoteService.Reject"

	q, err := s.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	b, err := s.lifecycle.GetByID(ctx, q.BreakdownID)
	if err != nil {
		return nil, err
	}
	if b.MotoristID != actor.UserID {
		return nil, apperrors.Forbiddenf("only the motorist may reject a quote")
	}

	if strings.TrimSpace(reason) == "" {
		reason = "Rejected by motorist"
	}

	rejected, err := s.quotes.SetRejected(ctx, quoteID, reason)
	if err != nil {
		return nil, err
	}

	s.logger.OK(instance, fmt.Sprintf("quote %s rejected", quoteID))
	return rejected, nil
}

// ListByBreakdown returns the quotes attached to a breakdown, restricted to
// the parties involved in it.
func (s *QuoteService) ListByBreakdown(ctx context.Context, breakdownID string, actor breakdowndomain.Actor) ([]domain.Quote, error) {
	b, err := s.lifecycle.GetByID(ctx, breakdownID)
	if err != nil {
		return nil, err
	}

	involved := b.MotoristID == actor.UserID ||
		(actor.GarageID != "" && b.GarageID != nil && *b.GarageID == actor.GarageID) ||
		(actor.MechanicID != "" && b.MechanicID != nil && *b.MechanicID == actor.MechanicID)
	if !involved {
		return nil, apperrors.Forbiddenf("you are not involved in this breakdown")
	}

	return s.quotes.ListByBreakdown(ctx, breakdownID)
}
