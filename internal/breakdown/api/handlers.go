package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"roadassist/internal/breakdown/domain"
	"roadassist/internal/shared/middleware"
	"roadassist/internal/shared/util"
)

// Lifecycle is the slice of the lifecycle service the handlers call.
type Lifecycle interface {
	Create(ctx context.Context, motoristID string, input domain.CreateBreakdownInput) (*domain.Breakdown, error)
	Accept(ctx context.Context, breakdownID string, actor domain.Actor) (*domain.Breakdown, error)
	AssignMechanic(ctx context.Context, breakdownID, mechanicID string, actor domain.Actor) (*domain.Breakdown, error)
	AdvanceStatus(ctx context.Context, breakdownID string, target domain.Status, actor domain.Actor) (*domain.Breakdown, error)
	Cancel(ctx context.Context, breakdownID string, actor domain.Actor, reason string) (*domain.Breakdown, error)
	FindVisibleTo(ctx context.Context, actor domain.Actor) ([]domain.Breakdown, error)
	GetByID(ctx context.Context, breakdownID string) (*domain.Breakdown, error)
}

// ActorResolver resolves the authenticated user into an Actor context.
type ActorResolver interface {
	Resolve(ctx context.Context, userID, role string) (domain.Actor, error)
}

type Handler struct {
	service  Lifecycle
	resolver ActorResolver
	logger   *util.Logger
}

func NewHandler(service Lifecycle, resolver ActorResolver, logger *util.Logger) *Handler {
	return &Handler{service: service, resolver: resolver, logger: logger}
}

const requestTimeout = 5 * time.Second

func (h *Handler) CreateBreakdown(w http.ResponseWriter, r *http.Request) {
	instance := "Handler.CreateBreakdown"
	start := time.Now()

	userID := middleware.GetUserID(r.Context())
	role := middleware.GetRole(r.Context())
	if role != domain.RoleMotorist {
		h.logger.Warn(instance, "forbidden: only motorists can create breakdowns")
		util.WriteJSONError(w, "only motorists can create breakdowns", http.StatusForbidden)
		return
	}

	var req CreateBreakdownRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.logger.Error(instance, err)
		util.WriteJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	b, err := h.service.Create(ctx, userID, domain.CreateBreakdownInput{
		Title:         req.Title,
		Description:   req.Description,
		BreakdownType: req.BreakdownType,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Address:       req.Address,
		VehicleID:     req.VehicleID,
		GarageID:      req.GarageID,
		Photos:        req.Photos,
	})
	if err != nil {
		h.logger.Warn(instance, err.Error())
		util.ErrResponseInJSON(w, err)
		return
	}

	util.ResponseInJSON(w, http.StatusCreated, toResponse(b))
	h.logger.HTTP(http.StatusCreated, time.Since(start), r.RemoteAddr, r.Method, r.URL.Path)
}

func (h *Handler) ListBreakdowns(w http.ResponseWriter, r *http.Request) {
	instance := "Handler.ListBreakdowns"
	start := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	actor, err := h.resolver.Resolve(ctx, middleware.GetUserID(r.Context()), middleware.GetRole(r.Context()))
	if err != nil {
		h.logger.Error(instance, err)
		util.ErrResponseInJSON(w, err)
		return
	}

	list, err := h.service.FindVisibleTo(ctx, actor)
	if err != nil {
		h.logger.Warn(instance, err.Error())
		util.ErrResponseInJSON(w, err)
		return
	}

	util.ResponseInJSON(w, http.StatusOK, toResponses(list))
	h.logger.HTTP(http.StatusOK, time.Since(start), r.RemoteAddr, r.Method, r.URL.Path)
}

func (h *Handler) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	instance := "Handler.GetBreakdown"

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	b, err := h.service.GetByID(ctx, r.PathValue("id"))
	if err != nil {
		h.logger.Warn(instance, err.Error())
		util.ErrResponseInJSON(w, err)
		return
	}

	util.ResponseInJSON(w, http.StatusOK, toResponse(b))
}

func (h *Handler) AcceptBreakdown(w http.ResponseWriter, r *http.Request) {
	instance := "Handler.AcceptBreakdown"
	start := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	actor, err := h.resolver.Resolve(ctx, middleware.GetUserID(r.Context()), middleware.GetRole(r.Context()))
	if err != nil {
		h.logger.Error(instance, err)
		util.ErrResponseInJSON(w, err)
		return
	}

	b, err := h.service.Accept(ctx, r.PathValue("id"), actor)
	if err != nil {
		h.logger.Warn(instance, err.Error())
		util.ErrResponseInJSON(w, err)
		return
	}

	util.ResponseInJSON(w, http.StatusOK, toResponse(b))
	h.logger.HTTP(http.StatusOK, time.Since(start), r.RemoteAddr, r.Method, r.URL.Path)
}

func (h *Handler) AssignMechanic(w http.ResponseWriter, r *http.Request) {
	instance := "Handler.AssignMechanic"
	start := time.Now()

	var req AssignMechanicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.MechanicID == "" {
		util.WriteJSONError(w, "mechanic_id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	actor, err := h.resolver.Resolve(ctx, middleware.GetUserID(r.Context()), middleware.GetRole(r.Context()))
	if err != nil {
		h.logger.Error(instance, err)
		util.ErrResponseInJSON(w, err)
		return
	}

	b, err := h.service.AssignMechanic(ctx, r.PathValue("id"), req.MechanicID, actor)
	if err != nil {
		h.logger.Warn(instance, err.Error())
		util.ErrResponseInJSON(w, err)
		return
	}

	util.ResponseInJSON(w, http.StatusOK, toResponse(b))
	h.logger.HTTP(http.StatusOK, time.Since(start), r.RemoteAddr, r.Method, r.URL.Path)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	instance := "Handler.UpdateStatus"
	start := time.Now()

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	target, err := domain.ParseStatus(req.Status)
	if err != nil {
		util.ErrResponseInJSON(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	actor, err := h.resolver.Resolve(ctx, middleware.GetUserID(r.Context()), middleware.GetRole(r.Context()))
	if err != nil {
		h.logger.Error(instance, err)
		util.ErrResponseInJSON(w, err)
		return
	}

	b, err := h.service.AdvanceStatus(ctx, r.PathValue("id"), target, actor)
	if err != nil {
		h.logger.Warn(instance, err.Error())
		util.ErrResponseInJSON(w, err)
		return
	}

	util.ResponseInJSON(w, http.StatusOK, toResponse(b))
	h.logger.HTTP(http.StatusOK, time.Since(start), r.RemoteAddr, r.Method, r.URL.Path)
}

func (h *Handler) CancelBreakdown(w http.ResponseWriter, r *http.Request) {
	instance := "Handler.CancelBreakdown"
	start := time.Now()

	var req CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		util.WriteJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	actor, err := h.resolver.Resolve(ctx, middleware.GetUserID(r.Context()), middleware.GetRole(r.Context()))
	if err != nil {
		h.logger.Error(instance, err)
		util.ErrResponseInJSON(w, err)
		return
	}

	b, err := h.service.Cancel(ctx, r.PathValue("id"), actor, req.Reason)
	if err != nil {
		h.logger.Warn(instance, err.Error())
		util.ErrResponseInJSON(w, err)
		return
	}

	util.ResponseInJSON(w, http.StatusOK, toResponse(b))
	h.logger.HTTP(http.StatusOK, time.Since(start), r.RemoteAddr, r.Method, r.URL.Path)
}
