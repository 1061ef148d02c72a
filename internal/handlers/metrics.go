package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"moodring/internal/store"
)

const maxMetricsUsers = 16

type MetricsHandler struct {
	store store.Store
}

func NewMetricsHandler(s store.Store) *MetricsHandler {
	return &MetricsHandler{store: s}
}

// Get emits a text exposition of current mood gauges and the lifetime
// sample counter for the requested users. Only fully public users are
// included; the rest are dropped without an error.
func (h *MetricsHandler) Get(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("users")
	if raw == "" {
		writeErr(w, http.StatusBadRequest, kindInvalid, "users parameter required")
		return
	}
	names := strings.Split(raw, ",")
	if len(names) > maxMetricsUsers {
		writeErr(w, http.StatusBadRequest, kindInvalid, fmt.Sprintf("at most %d users per scrape", maxMetricsUsers))
		return
	}

	users, err := h.store.PublicUsersByNames(r.Context(), names)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, kindError, "could not resolve users")
		return
	}

	type row struct {
		name     string
		moodSets int64
		p, e     float64
	}
	rows := make([]row, 0, len(users))
	for _, u := range users {
		latest, err := h.store.LatestMood(r.Context(), u.ID)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, kindError, "could not fetch moods")
			return
		}
		if latest == nil {
			m := syntheticMood(u.ID)
			latest = &m
		}
		rows = append(rows, row{name: u.Username, moodSets: u.StatsMoodSets, p: latest.Pleasantness, e: latest.Energy})
	}

	var b strings.Builder
	b.WriteString("# HELP user_energy Current mood energy per user.\n")
	b.WriteString("# TYPE user_energy gauge\n")
	for _, m := range rows {
		fmt.Fprintf(&b, "user_energy{user=%q} %.2f\n", m.name, truncate2(m.e))
	}
	b.WriteString("\n")
	b.WriteString("# HELP user_pleasantness Current mood pleasantness per user.\n")
	b.WriteString("# TYPE user_pleasantness gauge\n")
	for _, m := range rows {
		fmt.Fprintf(&b, "user_pleasantness{user=%q} %.2f\n", m.name, truncate2(m.p))
	}
	b.WriteString("\n")
	b.WriteString("# HELP user_mood_sets Lifetime count of distinct mood samples per user.\n")
	b.WriteString("# TYPE user_mood_sets counter\n")
	for _, m := range rows {
		fmt.Fprintf(&b, "user_mood_sets{user=%q} %d\n", m.name, m.moodSets)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(b.String()))
}
