package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	mw "moodring/internal/middleware"
	"moodring/internal/store"
)

type MoodHandler struct {
	store store.Store
	nowMS func() int64
}

func NewMoodHandler(s store.Store) *MoodHandler {
	return &MoodHandler{store: s, nowMS: func() int64 { return time.Now().UnixMilli() }}
}

// Get returns the subject's most recent sample. Users that never recorded
// one get the synthetic zero sample.
func (h *MoodHandler) Get(w http.ResponseWriter, r *http.Request) {
	subject := subjectUser(w, r, h.store)
	if subject == nil {
		return
	}
	latest, err := h.store.LatestMood(r.Context(), subject.ID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, kindError, "could not fetch mood")
		return
	}
	if latest == nil {
		m := syntheticMood(subject.ID)
		latest = &m
	}
	writeJSON(w, http.StatusOK, toEntry(*latest))
}

type putMoodRequest struct {
	Pleasantness float64 `json:"pleasantness"`
	Energy       float64 `json:"energy"`
}

// Put records a mood sample. Writes within 10 seconds of the subject's
// latest sample overwrite it in place (the same mood episode); anything
// later inserts a fresh sample and bumps the lifetime counter.
func (h *MoodHandler) Put(w http.ResponseWriter, r *http.Request) {
	user := mw.UserFrom(r.Context())
	if user == nil {
		writeErr(w, http.StatusUnauthorized, kindUnauthorized, "missing token")
		return
	}
	var req putMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, kindInvalid, "invalid body")
		return
	}
	if !validMoodValue(req.Pleasantness) || !validMoodValue(req.Energy) {
		writeErr(w, http.StatusBadRequest, kindInvalid, "pleasantness and energy must be numbers in [-1, 1]")
		return
	}

	latest, err := h.store.LatestMood(r.Context(), user.ID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, kindError, "could not fetch mood")
		return
	}
	if latest == nil {
		m := syntheticMood(user.ID)
		latest = &m
	}

	now := h.nowMS()
	if latest.Timestamp+coalesceWindowMS > now {
		err = h.store.UpdateMood(r.Context(), latest.ID, now, req.Pleasantness, req.Energy)
	} else {
		err = h.store.CreateMood(r.Context(), user.ID, now, req.Pleasantness, req.Energy)
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, kindError, "could not save mood")
		return
	}
	writeOK(w)
}

type deleteMoodRequest struct {
	Timestamps []int64 `json:"timestamps"`
}

// Delete removes the subject's samples matching the given timestamps.
func (h *MoodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := mw.UserFrom(r.Context())
	if user == nil {
		writeErr(w, http.StatusUnauthorized, kindUnauthorized, "missing token")
		return
	}
	var req deleteMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Timestamps) == 0 {
		writeErr(w, http.StatusBadRequest, kindInvalid, "timestamps must be a non-empty integer list")
		return
	}
	for _, ts := range req.Timestamps {
		if ts < 0 || ts > maxSafeInt {
			writeErr(w, http.StatusBadRequest, kindInvalid, "timestamps must be a non-empty integer list")
			return
		}
	}
	deleted, err := h.store.DeleteMoods(r.Context(), user.ID, req.Timestamps)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, kindError, "could not delete")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
