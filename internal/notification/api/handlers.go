package api

import (
	"context"
	"net/http"
	"time"

	"roadassist/internal/notification/app"
	"roadassist/internal/shared/middleware"
	"roadassist/internal/shared/util"
)

type Handler struct {
	service *app.NotificationService
	logger  *util.Logger
}

func NewHandler(service *app.NotificationService, logger *util.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

const requestTimeout = 5 * time.Second

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /notifications", h.ListNotifications)
	mux.HandleFunc("PATCH /notifications/{id}/read", h.MarkRead)
	mux.HandleFunc("PATCH /notifications/read-all", h.MarkAllRead)
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	instance := "NotificationHandler.ListNotifications"

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	list, err := h.service.List(ctx, middleware.GetUserID(r.Context()))
	if err != nil {
		h.logger.Warn(instance, err.Error())
		util.ErrResponseInJSON(w, err)
		return
	}

	util.ResponseInJSON(w, http.StatusOK, list)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	instance := "NotificationHandler.MarkRead"

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	n, err := h.service.MarkRead(ctx, r.PathValue("id"), middleware.GetUserID(r.Context()))
	if err != nil {
		h.logger.Warn(instance, err.Error())
		util.ErrResponseInJSON(w, err)
		return
	}

	util.ResponseInJSON(w, http.StatusOK, n)
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	instance := "NotificationHandler.MarkAllRead"

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	count, err := h.service.MarkAllRead(ctx, middleware.GetUserID(r.Context()))
	if err != nil {
		h.logger.Warn(instance, err.Error())
		util.ErrResponseInJSON(w, err)
		return
	}

	util.ResponseInJSON(w, http.StatusOK, map[string]int64{"updated": count})
}
