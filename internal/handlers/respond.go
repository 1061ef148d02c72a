package handlers

import (
	"encoding/json"
	"net/http"
)

// Error kinds carried in the "status" discriminator of every error body.
const (
	kindInvalid      = "invalid"
	kindUnauthorized = "unauthorized"
	kindDenied       = "denied"
	kindConflict     = "conflict"
	kindNotFound     = "not_found"
	kindError        = "error"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, map[string]string{"status": kind, "message": msg})
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound handles unmatched routes.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeErr(w, http.StatusNotFound, kindNotFound, "no such route")
}
