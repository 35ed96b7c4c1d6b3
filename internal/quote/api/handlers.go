package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	breakdowndomain "roadassist/internal/breakdown/domain"
	"roadassist/internal/quote/app"
	"roadassist/internal/quote/domain"
	"roadassist/internal/shared/middleware"
	"roadassist/internal/shared/util"
)

// ActorResolver resolves the authenticated user into an Actor context.
type ActorResolver interface {
	Resolve(ctx context.Context, userID, role string) (breakdowndomain.Actor, error)
}

type Handler struct {
	service  *app.QuoteService
	resolver ActorResolver
	logger   *util.Logger
}

func NewHandler(service *app.QuoteService, resolver ActorResolver, logger *util.Logger) *Handler {
	return &Handler{service: service, resolver: resolver, logger: logger}
}

const requestTimeout = 5 * time.Second

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /breakdowns/{id}/quotes", h.SendQuote)
	mux.HandleFunc("GET /breakdowns/{id}/quotes", h.ListQuotes)
	mux.HandleFunc("PATCH /quotes/{id}/accept", h.AcceptQuote)
	mux.HandleFunc("PATCH /quotes/{id}/reject", h.RejectQuote)
}

func (h *Handler) SendQuote(w http.ResponseWriter, r *http.Request) {
	instance := "QuoteHandler.SendQuote"

	var req struct {
		Items []domain.QuoteItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
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

	q, err := h.service.Send(ctx, r.PathValue("id"), req.Items, actor)
	if err != nil {
		h.logger.Warn(instance, err.Error())
		util.ErrResponseInJSON(w, err)
		return
	}

	util.ResponseInJSON(w, http.StatusCreated, q)
}

func (h *Handler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	instance := "QuoteHandler.ListQuotes"

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	actor, err := h.resolver.Resolve(ctx, middleware.GetUserID(r.Context()), middleware.GetRole(r.Context()))
	if err != nil {
		h.logger.Error(instance, err)
		util.ErrResponseInJSON(w, err)
		return
	}

	list, err := h.service.ListByBreakdown(ctx, r.PathValue("id"), actor)
	if err != nil {
		h.logger.Warn(instance, err.Error())
		util.ErrResponseInJSON(w, err)
		return
	}

	util.ResponseInJSON(w, http.StatusOK, list)
}

func (h *Handler) AcceptQuote(w http.ResponseWriter, r *http.Request) {
	instance := "QuoteHandler.AcceptQuote"

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	actor, err := h.resolver.Resolve(ctx, middleware.GetUserID(r.Context()), middleware.GetRole(r.Context()))
	if err != nil {
		h.logger.Error(instance, err)
		util.ErrResponseInJSON(w, err)
		return
	}

	q, err := h.service.Accept(ctx, r.PathValue("id"), actor)
	if err != nil {
		h.logger.Warn(instance, err.Error())
		util.ErrResponseInJSON(w, err)
		return
	}

	util.ResponseInJSON(w, http.StatusOK, q)
}

func (h *Handler) RejectQuote(w http.ResponseWriter, r *http.Request) {
	instance := "QuoteHandler.RejectQuote"

	var req struct {
		Reason string `json:"reason"`
	}
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

	q, err := h.service.Reject(ctx, r.PathValue("id"), req.Reason, actor)
	if err != nil {
		h.logger.Warn(instance, err.Error())
		util.ErrResponseInJSON(w, err)
		return
	}

	util.ResponseInJSON(w, http.StatusOK, q)
}
