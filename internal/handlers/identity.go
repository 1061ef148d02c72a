package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"moodring/internal/models"
	"moodring/internal/store"
)

// selfUser resolves the bearer token to a user. On failure it writes the
// error response and returns nil.
func selfUser(w http.ResponseWriter, r *http.Request, s store.Store) *models.User {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		writeErr(w, http.StatusUnauthorized, kindUnauthorized, "missing token")
		return nil
	}
	u, err := s.UserByToken(r.Context(), strings.TrimPrefix(authz, "Bearer "))
	if err != nil {
		writeErr(w, http.StatusUnauthorized, kindUnauthorized, "invalid token")
		return nil
	}
	return u
}

// subjectUser resolves the acting subject for subject-or-self routes. A
// path username performs a privacy-gated lookup: only users with both
// privacy flags off are reachable, and a malformed username fails closed.
// Without a username it falls back to bearer-token self lookup.
func subjectUser(w http.ResponseWriter, r *http.Request, s store.Store) *models.User {
	name := chi.URLParam(r, "user")
	if name == "" {
		return selfUser(w, r, s)
	}
	if !validUsername(name) {
		writeErr(w, http.StatusUnauthorized, kindDenied, "user not found")
		return nil
	}
	u, err := s.UserByUsername(r.Context(), name)
	if err != nil || !u.Public() {
		writeErr(w, http.StatusUnauthorized, kindDenied, "user not found")
		return nil
	}
	return u
}
