package handlers

import (
	"encoding/json"
	"net/http"

	"moodring/internal/crypto"
	mw "moodring/internal/middleware"
	"moodring/internal/store"
)

type UserHandler struct {
	store  store.Store
	hasher *crypto.Hasher
}

func NewUserHandler(s store.Store, h *crypto.Hasher) *UserHandler {
	return &UserHandler{store: s, hasher: h}
}

// GetMe returns the current user's profile and settings snapshot.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := mw.UserFrom(r.Context())
	if user == nil {
		writeErr(w, http.StatusUnauthorized, kindUnauthorized, "missing token")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type updateMeRequest struct {
	Username         *string `json:"username"`
	NewPassword      *string `json:"new_password"`
	ConfirmPassword  *string `json:"confirm_password"`
	IsProfilePrivate *bool   `json:"is_profile_private"`
	IsHistoryPrivate *bool   `json:"is_history_private"`
}

// UpdateMe applies a partial profile update. Everything is validated first,
// then a single explicit field-set is written. A password change reissues
// the bearer token, which is returned to the caller.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user := mw.UserFrom(r.Context())
	if user == nil {
		writeErr(w, http.StatusUnauthorized, kindUnauthorized, "missing token")
		return
	}
	var req updateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, kindInvalid, "invalid body")
		return
	}

	// Username or password changes must be confirmed with the current password.
	if req.Username != nil || req.NewPassword != nil {
		if req.ConfirmPassword == nil || *req.ConfirmPassword == "" {
			writeErr(w, http.StatusBadRequest, kindInvalid, "confirm_password required")
			return
		}
		if !h.hasher.Verify(user.PasswordHash, *req.ConfirmPassword) {
			writeErr(w, http.StatusUnauthorized, kindUnauthorized, "wrong password")
			return
		}
	}

	var fields store.UserFields
	if req.Username != nil && *req.Username != user.Username {
		if !validUsername(*req.Username) {
			writeErr(w, http.StatusBadRequest, kindInvalid, "username must match [a-z0-9_-]{3,32}")
			return
		}
		taken, err := h.store.UsernameTaken(r.Context(), *req.Username)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, kindError, "could not update")
			return
		}
		if taken {
			writeErr(w, http.StatusConflict, kindConflict, "username already taken")
			return
		}
		fields.Username = req.Username
	}
	var newToken string
	if req.NewPassword != nil {
		if *req.NewPassword == "" {
			writeErr(w, http.StatusBadRequest, kindInvalid, "new_password must not be empty")
			return
		}
		hash, err := h.hasher.Hash(*req.NewPassword)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, kindError, "could not update")
			return
		}
		newToken, err = crypto.NewToken()
		if err != nil {
			writeErr(w, http.StatusInternalServerError, kindError, "could not update")
			return
		}
		fields.PasswordHash = &hash
		fields.Token = &newToken
	}
	fields.IsProfilePrivate = req.IsProfilePrivate
	fields.IsHistoryPrivate = req.IsHistoryPrivate

	if err := h.store.UpdateUser(r.Context(), user.ID, fields); err != nil {
		writeErr(w, http.StatusInternalServerError, kindError, "could not update")
		return
	}
	resp := map[string]string{"status": "ok"}
	if newToken != "" {
		resp["token"] = newToken
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteMe removes the account and, first, every sample it owns.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
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
	if err := h.store.DeleteUser(r.Context(), user.ID); err != nil {
		writeErr(w, http.StatusInternalServerError, kindError, "could not delete account")
		return
	}
	writeOK(w)
}
