package handlers

import (
	"net/http"

	"moodring/internal/store"
)

type HealthHandler struct {
	store store.Store
}

func NewHealthHandler(s store.Store) *HealthHandler {
	return &HealthHandler{store: s}
}

func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		writeErr(w, http.StatusInternalServerError, kindError, "database unreachable")
		return
	}
	writeOK(w)
}
