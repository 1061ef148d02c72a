package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"moodring/internal/crypto"
	mw "moodring/internal/middleware"
	"moodring/internal/store"
)

const (
	defaultLimit = 25
	maxLimit     = 100
)

type HistoryHandler struct {
	store  store.Store
	hasher *crypto.Hasher
}

func NewHistoryHandler(s store.Store, h *crypto.Hasher) *HistoryHandler {
	return &HistoryHandler{store: s, hasher: h}
}

// All returns the subject's complete history without pagination.
func (h *HistoryHandler) All(w http.ResponseWriter, r *http.Request) {
	subject := subjectUser(w, r, h.store)
	if subject == nil {
		return
	}
	descending, ok := parseSort(r.URL.Query())
	if !ok {
		writeErr(w, http.StatusBadRequest, kindInvalid, "sort must be newest or oldest")
		return
	}
	samples, err := h.store.AllMoods(r.Context(), subject.ID, descending)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, kindError, "could not fetch history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": toEntries(samples)})
}

type historyResponse struct {
	Entries []moodEntry `json:"entries"`
	Total   int64       `json:"total"`
	Pages   int64       `json:"pages"`
}

// Page returns a paginated, time-ranged slice of the subject's history.
// The page count is derived from the lifetime counter, so it is an
// approximation: deletions and the time filter can make it diverge from
// the rows actually available.
func (h *HistoryHandler) Page(w http.ResponseWriter, r *http.Request) {
	subject := subjectUser(w, r, h.store)
	if subject == nil {
		return
	}
	q := r.URL.Query()

	descending, ok := parseSort(q)
	if !ok {
		writeErr(w, http.StatusBadRequest, kindInvalid, "sort must be newest or oldest")
		return
	}
	limit, err := intParam(q.Get("limit"), defaultLimit)
	if err != nil || limit < 1 || limit > maxLimit {
		writeErr(w, http.StatusBadRequest, kindInvalid, "limit must be an integer in [1, 100]")
		return
	}
	page, err := intParam(q.Get("page"), 0)
	if err != nil {
		writeErr(w, http.StatusBadRequest, kindInvalid, "page must be an integer")
		return
	}
	after, err := intParam(q.Get("after"), 0)
	if err != nil || after < 0 || after > maxSafeInt {
		writeErr(w, http.StatusBadRequest, kindInvalid, "after must be an epoch-ms timestamp")
		return
	}
	before, err := intParam(q.Get("before"), time.Now().UnixMilli())
	if err != nil || before < 0 || before > maxSafeInt {
		writeErr(w, http.StatusBadRequest, kindInvalid, "before must be an epoch-ms timestamp")
		return
	}
	if after >= before {
		writeErr(w, http.StatusBadRequest, kindInvalid, "after must be earlier than before")
		return
	}

	total := subject.StatsMoodSets
	pages := total / limit

	// Out-of-range pages short-circuit without touching the samples table.
	if page < 0 || (page != 0 && page >= pages) {
		writeJSON(w, http.StatusOK, historyResponse{Entries: []moodEntry{}, Total: total, Pages: pages})
		return
	}

	samples, err := h.store.MoodPage(r.Context(), subject.ID, after, before, descending, int(limit), int(page*limit))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, kindError, "could not fetch history")
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Entries: toEntries(samples), Total: total, Pages: pages})
}

// DeleteAll wipes the subject's entire history after a password check.
func (h *HistoryHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	user := mw.UserFrom(r.Context())
	if user == nil {
		writeErr(w, http.StatusUnauthorized, kindUnauthorized, "missing token")
		return
	}
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Password == "" {
		writeErr(w, http.StatusBadRequest, kindInvalid, "password required")
		return
	}
	if !h.hasher.Verify(user.PasswordHash, body.Password) {
		writeErr(w, http.StatusUnauthorized, kindUnauthorized, "wrong password")
		return
	}
	if err := h.store.DeleteAllMoods(r.Context(), user.ID); err != nil {
		writeErr(w, http.StatusInternalServerError, kindError, "could not delete history")
		return
	}
	writeOK(w)
}

func intParam(raw string, fallback int64) (int64, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
