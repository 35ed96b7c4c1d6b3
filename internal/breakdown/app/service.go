package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"roadassist/internal/breakdown/domain"
	notifdomain "roadassist/internal/notification/domain"
	"roadassist/internal/shared/apperrors"
	"roadassist/internal/shared/util"
	"roadassist/internal/shared/validation"
)

// LifecycleService is the sole authority over a breakdown's status field and
// its correlated assignment, fee and timestamp fields. Every call is a single
// logical read-modify-write through the repository; races are decided by the
// repository's conditional updates, never by retries here.
type LifecycleService struct {
	breakdowns domain.BreakdownRepository
	garages    domain.GarageRepository
	mechanics  domain.MechanicDirectory
	notifier   domain.Notifier
	logger     *util.Logger
}

func NewLifecycleService(
	breakdowns domain.BreakdownRepository,
	garages domain.GarageRepository,
	mechanics domain.MechanicDirectory,
	notifier domain.Notifier,
	logger *util.Logger,
) *LifecycleService {
	return &LifecycleService{
		breakdowns: breakdowns,
		garages:    garages,
		mechanics:  mechanics,
		notifier:   notifier,
		logger:     logger,
	}
}

func (s *LifecycleService) Create(ctx context.Context, motoristID string, input domain.CreateBreakdownInput) (*domain.Breakdown, error) {
	instance := "LifecycleService.Create"
	start := time.Now()

	if err := validation.ValidateCoordinates(input.Latitude, input.Longitude); err != nil {
		s.logger.Warn(instance, fmt.Sprintf("invalid coordinates: lat=%.4f, lng=%.4f", input.Latitude, input.Longitude))
		return nil, err
	}
	if err := validation.ValidateStringNotEmpty(input.Title, "title"); err != nil {
		s.logger.Warn(instance, "missing title")
		return nil, err
	}

	breakdownType := input.BreakdownType
	if breakdownType == "" {
		breakdownType = "other"
	}
	if err := validation.ValidateBreakdownType(breakdownType); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	b := &domain.Breakdown{
		ID:            util.NewID(),
		Reference:     util.NewReference(now),
		MotoristID:    motoristID,
		Title:         strings.TrimSpace(input.Title),
		Description:   input.Description,
		BreakdownType: breakdownType,
		Latitude:      input.Latitude,
		Longitude:     input.Longitude,
		Address:       input.Address,
		Photos:        input.Photos,
		Status:        domain.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if input.VehicleID != "" {
		b.VehicleID = &input.VehicleID
	}
	if input.GarageID != "" {
		b.GarageID = &input.GarageID
	}

	if err := s.breakdowns.Create(ctx, b); err != nil {
		s.logger.Error(instance, err)
		return nil, err
	}

	s.logger.OK(instance, fmt.Sprintf("breakdown created [id=%s, ref=%s, duration_ms=%d]",
		b.ID, b.Reference, time.Since(start).Milliseconds()))
	return b, nil
}

// Accept attaches the acting user's garage to a pending breakdown. The
// pending check and the update run as one conditional write, so of two
// concurrent accepts exactly one wins and the loser gets ErrConflict. The
// garage's current rates are copied onto the breakdown so later rate changes
// never touch a committed job.
func (s *LifecycleService) Accept(ctx context.Context, breakdownID string, actor domain.Actor) (*domain.Breakdown, error) {
	instance := "LifecycleService.Accept"
	start := time.Now()

	if actor.GarageID == "" {
		s.logger.Warn(instance, fmt.Sprintf("user %s owns no garage", actor.UserID))
		return nil, apperrors.Forbiddenf("you must own a garage to accept a breakdown")
	}

	garage, err := s.garages.GetByID(ctx, actor.GarageID)
	if err != nil {
		return nil, err
	}

	diagnosticFee := float64(domain.DefaultDiagnosticFee)
	if garage.DiagnosticFee != nil {
		diagnosticFee = *garage.DiagnosticFee
	}
	travelFee := float64(domain.DefaultTravelFee)
	if garage.TravelFee != nil {
		travelFee = *garage.TravelFee
	}

	current, err := s.breakdowns.GetByID(ctx, breakdownID)
	if err != nil {
		return nil, err
	}
	distanceKm := util.Haversine(garage.Latitude, garage.Longitude, current.Latitude, current.Longitude)

	b, err := s.breakdowns.AcceptPending(ctx, breakdownID, garage.ID, diagnosticFee, travelFee, &distanceKm)
	if err != nil {
		s.logger.Warn(instance, fmt.Sprintf("accept failed for breakdown %s: %v", breakdownID, err))
		return nil, err
	}

	s.notifier.Notify(b.MotoristID, notifdomain.EventBreakdownAccepted, map[string]interface{}{
		"breakdown_id": b.ID,
		"reference":    b.Reference,
		"garage_name":  garage.Name,
	})

	s.logger.OK(instance, fmt.Sprintf("breakdown %s accepted by garage %s (duration=%dms)",
		breakdownID, garage.ID, time.Since(start).Milliseconds()))
	return b, nil
}

// AssignMechanic links a mechanic of the attached garage to the breakdown
// and flips the mechanic to on_mission. Both writes happen in one repository
// transaction.
func (s *LifecycleService) AssignMechanic(ctx context.Context, breakdownID, mechanicID string, actor domain.Actor) (*domain.Breakdown, error) {
	instance := "LifecycleService.AssignMechanic"
	start := time.Now()

	if actor.GarageID == "" {
		return nil, apperrors.Forbiddenf("you must own a garage to assign a mechanic")
	}

	mech, err := s.mechanics.GetRefByID(ctx, mechanicID)
	if err != nil {
		return nil, err
	}
	if mech.GarageID != actor.GarageID {
		s.logger.Warn(instance, fmt.Sprintf("mechanic %s does not belong to garage %s", mechanicID, actor.GarageID))
		return nil, apperrors.Forbiddenf("this mechanic does not belong to your garage")
	}

	current, err := s.breakdowns.GetByID(ctx, breakdownID)
	if err != nil {
		return nil, err
	}
	if current.GarageID == nil || *current.GarageID != actor.GarageID {
		s.logger.Warn(instance, fmt.Sprintf("breakdown %s is not attached to garage %s", breakdownID, actor.GarageID))
		return nil, apperrors.Forbiddenf("this breakdown is not assigned to your garage")
	}

	b, err := s.breakdowns.AssignMechanic(ctx, breakdownID, actor.GarageID, mechanicID)
	if err != nil {
		s.logger.Warn(instance, fmt.Sprintf("assignment failed for breakdown %s: %v", breakdownID, err))
		return nil, err
	}

	s.notifier.Notify(b.MotoristID, notifdomain.EventMechanicAssigned, map[string]interface{}{
		"breakdown_id": b.ID,
		"mechanic_id":  mechanicID,
	})
	s.notifier.Notify(mech.UserID, notifdomain.EventMechanicAssigned, map[string]interface{}{
		"breakdown_id": b.ID,
	})

	s.logger.OK(instance, fmt.Sprintf("mechanic %s assigned to breakdown %s (duration=%dms)",
		mechanicID, breakdownID, time.Since(start).Milliseconds()))
	return b, nil
}

// AdvanceStatus moves the breakdown to the immediate successor of its
// current status. Skips and backward moves are rejected; quote_accepted is
// only reachable through ApplyQuoteAccepted.
func (s *LifecycleService) AdvanceStatus(ctx context.Context, breakdownID string, target domain.Status, actor domain.Actor) (*domain.Breakdown, error) {
	instance := "LifecycleService.AdvanceStatus"

	current, err := s.breakdowns.GetByID(ctx, breakdownID)
	if err != nil {
		return nil, err
	}

	if !s.actorOperates(current, actor) {
		s.logger.Warn(instance, fmt.Sprintf("user %s may not operate breakdown %s", actor.UserID, breakdownID))
		return nil, apperrors.Forbiddenf("you are not involved in this breakdown")
	}

	if !current.Status.CanAdvanceTo(target) {
		s.logger.Warn(instance, fmt.Sprintf("illegal transition %s -> %s for breakdown %s", current.Status, target, breakdownID))
		return nil, apperrors.InvalidTransitionf("cannot move from %s to %s", current.Status, target)
	}

	b, err := s.breakdowns.AdvanceStatus(ctx, breakdownID, current.Status, target)
	if err != nil {
		return nil, err
	}

	if event, ok := statusEvents[target]; ok {
		s.notifier.Notify(b.MotoristID, event, map[string]interface{}{
			"breakdown_id": b.ID,
			"status":       string(target),
		})
	}

	s.logger.OK(instance, fmt.Sprintf("breakdown %s advanced %s -> %s", breakdownID, current.Status, target))
	return b, nil
}

// ApplyQuoteAccepted is the single path into quote_accepted, driven by the
// quote sub-flow when the motorist accepts a quote.
func (s *LifecycleService) ApplyQuoteAccepted(ctx context.Context, breakdownID string, actor domain.Actor) (*domain.Breakdown, error) {
	instance := "LifecycleService.ApplyQuoteAccepted"

	current, err := s.breakdowns.GetByID(ctx, breakdownID)
	if err != nil {
		return nil, err
	}
	if current.MotoristID != actor.UserID {
		return nil, apperrors.Forbiddenf("only the motorist may accept a quote")
	}
	if current.Status != domain.StatusQuoteSent {
		return nil, apperrors.Conflictf("no quote awaiting acceptance on this breakdown")
	}

	b, err := s.breakdowns.AdvanceStatus(ctx, breakdownID, domain.StatusQuoteSent, domain.StatusQuoteAccepted)
	if err != nil {
		return nil, err
	}

	if b.MechanicID != nil {
		if mech, merr := s.mechanics.GetRefByID(ctx, *b.MechanicID); merr == nil {
			s.notifier.Notify(mech.UserID, notifdomain.EventQuoteAccepted, map[string]interface{}{
				"breakdown_id": b.ID,
			})
		}
	}

	s.logger.OK(instance, fmt.Sprintf("quote accepted on breakdown %s", breakdownID))
	return b, nil
}

// Cancel aborts a breakdown from any non-terminal status and records who
// cancelled and why. A second cancel fails with ErrConflict.
func (s *LifecycleService) Cancel(ctx context.Context, breakdownID string, actor domain.Actor, reason string) (*domain.Breakdown, error) {
	instance := "LifecycleService.Cancel"

	current, err := s.breakdowns.GetByID(ctx, breakdownID)
	if err != nil {
		return nil, err
	}

	if !s.actorCancels(current, actor) {
		s.logger.Warn(instance, fmt.Sprintf("user %s may not cancel breakdown %s", actor.UserID, breakdownID))
		return nil, apperrors.Forbiddenf("you may not cancel this breakdown")
	}

	if !current.Status.CanCancel() {
		s.logger.Warn(instance, fmt.Sprintf("breakdown %s already %s", breakdownID, current.Status))
		return nil, apperrors.Conflictf("breakdown is already %s", current.Status)
	}

	if strings.TrimSpace(reason) == "" {
		reason = "Cancelled by user"
	}

	b, err := s.breakdowns.Cancel(ctx, breakdownID, actor.UserID, reason)
	if err != nil {
		return nil, err
	}

	if b.GarageID != nil {
		if garage, gerr := s.garages.GetByID(ctx, *b.GarageID); gerr == nil {
			s.notifier.Notify(garage.OwnerID, notifdomain.EventBreakdownCancelled, map[string]interface{}{
				"breakdown_id": b.ID,
				"reason":       reason,
			})
		}
	}

	s.logger.OK(instance, fmt.Sprintf("breakdown %s cancelled by %s", breakdownID, actor.UserID))
	return b, nil
}

// FindVisibleTo projects breakdowns through the caller's visibility rules:
// motorists their own, garage owners their garage's plus the pending pool,
// mechanics their assignments.
func (s *LifecycleService) FindVisibleTo(ctx context.Context, actor domain.Actor) ([]domain.Breakdown, error) {
	switch actor.Role {
	case domain.RoleMotorist:
		return s.breakdowns.ListByMotorist(ctx, actor.UserID)
	case domain.RoleGarage:
		if actor.GarageID == "" {
			return nil, apperrors.Forbiddenf("you must own a garage to list breakdowns")
		}
		return s.breakdowns.ListForGarage(ctx, actor.GarageID)
	case domain.RoleMechanic:
		if actor.MechanicID == "" {
			return nil, apperrors.Forbiddenf("no mechanic record for this user")
		}
		return s.breakdowns.ListByMechanic(ctx, actor.MechanicID)
	default:
		return nil, apperrors.Forbiddenf("unknown role %q", actor.Role)
	}
}

func (s *LifecycleService) GetByID(ctx context.Context, breakdownID string) (*domain.Breakdown, error) {
	return s.breakdowns.GetByID(ctx, breakdownID)
}

// actorOperates reports whether the actor runs the operational side of the
// breakdown: the attached garage's owner or the assigned mechanic.
func (s *LifecycleService) actorOperates(b *domain.Breakdown, actor domain.Actor) bool {
	if actor.GarageID != "" && b.GarageID != nil && *b.GarageID == actor.GarageID {
		return true
	}
	if actor.MechanicID != "" && b.MechanicID != nil && *b.MechanicID == actor.MechanicID {
		return true
	}
	return false
}

func (s *LifecycleService) actorCancels(b *domain.Breakdown, actor domain.Actor) bool {
	if b.MotoristID == actor.UserID {
		return true
	}
	return actor.GarageID != "" && b.GarageID != nil && *b.GarageID == actor.GarageID
}

// statusEvents maps forward transitions to the notification sent to the
// motorist. Statuses without an entry fan out nothing.
var statusEvents = map[domain.Status]string{
	domain.StatusMechanicOnWay:   notifdomain.EventMechanicOnWay,
	domain.StatusMechanicArrived: notifdomain.EventMechanicArrived,
	domain.StatusQuoteSent:       notifdomain.EventQuoteReceived,
	domain.StatusRepairing:       notifdomain.EventRepairStarted,
	domain.StatusCompleted:       notifdomain.EventRepairCompleted,
}
