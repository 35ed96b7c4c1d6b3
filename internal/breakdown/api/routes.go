package api

import "net/http"

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /breakdowns", h.CreateBreakdown)
	mux.HandleFunc("GET /breakdowns", h.ListBreakdowns)
	mux.HandleFunc("GET /breakdowns/{id}", h.GetBreakdown)
	mux.HandleFunc("PATCH /breakdowns/{id}/accept", h.AcceptBreakdown)
	mux.HandleFunc("PATCH /breakdowns/{id}/assign-mechanic", h.AssignMechanic)
	mux.HandleFunc("PATCH /breakdowns/{id}/status", h.UpdateStatus)
	mux.HandleFunc("PATCH /breakdowns/{id}/cancel", h.CancelBreakdown)
}
