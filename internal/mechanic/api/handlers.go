package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"roadassist/internal/mechanic/app"
	"roadassist/internal/mechanic/domain"
	"roadassist/internal/shared/middleware"
	"roadassist/internal/shared/util"
)

type Handler struct {
	service *app.MechanicService
	logger  *util.Logger
}

func NewHandler(service *app.MechanicService, logger *util.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

const requestTimeout = 5 * time.Second

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /mechanics", h.ListRoster)
	mux.HandleFunc("GET /mechanics/me", h.GetOwn)
	mux.HandleFunc("PATCH /mechanics/me/status", h.UpdateOwnStatus)
	mux.HandleFunc("PATCH /mechanics/me/location", h.UpdateOwnLocation)
}

func (h *Handler) ListRoster(w http.ResponseWriter, r *http.Request) {
	instance := "MechanicHandler.ListRoster"

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	list, err := h.service.ListRoster(ctx, middleware.GetUserID(r.Context()))
	if err != nil {
		h.logger.Warn(instance, err.Error())
		util.ErrResponseInJSON(w, err)
		return
	}

	util.ResponseInJSON(w, http.StatusOK, list)
}

func (h *Handler) GetOwn(w http.ResponseWriter, r *http.Request) {
	instance := "MechanicHandler.GetOwn"

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	m, err := h.service.GetOwn(ctx, middleware.GetUserID(r.Context()))
	if err != nil {
		h.logger.Warn(instance, err.Error())
		util.ErrResponseInJSON(w, err)
		return
	}

	util.ResponseInJSON(w, http.StatusOK, m)
}

func (h *Handler) UpdateOwnStatus(w http.ResponseWriter, r *http.Request) {
	instance := "MechanicHandler.UpdateOwnStatus"

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	m, err := h.service.UpdateOwnStatus(ctx, middleware.GetUserID(r.Context()), domain.Availability(req.Status))
	if err != nil {
		h.logger.Warn(instance, err.Error())
		util.ErrResponseInJSON(w, err)
		return
	}

	util.ResponseInJSON(w, http.StatusOK, m)
}

func (h *Handler) UpdateOwnLocation(w http.ResponseWriter, r *http.Request) {
	instance := "MechanicHandler.UpdateOwnLocation"

	var req struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	m, err := h.service.UpdateOwnLocation(ctx, middleware.GetUserID(r.Context()), req.Latitude, req.Longitude)
	if err != nil {
		h.logger.Warn(instance, err.Error())
		util.ErrResponseInJSON(w, err)
		return
	}

	util.ResponseInJSON(w, http.StatusOK, m)
}
