package models

import (
	"encoding/json"
	"time"
)

type User struct {
	ID               int             `db:"id" json:"id"`
	Username         string          `db:"username" json:"username"`
	PasswordHash     string          `db:"password_hash" json:"-"`
	Token            string          `db:"token" json:"-"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	Settings         json.RawMessage `db:"settings" json:"settings"` // mood labels + colors, opaque to the server
	IsProfilePrivate bool            `db:"is_profile_private" json:"is_profile_private"`
	IsHistoryPrivate bool            `db:"is_history_private" json:"is_history_private"`
	StatsMoodSets    int64           `db:"stats_mood_sets" json:"stats_mood_sets"`
}

// HistoryPrivate reports effective history privacy: a private profile
// always implies a private history even when the history flag is off.
func (u *User) HistoryPrivate() bool {
	return u.IsProfilePrivate || u.IsHistoryPrivate
}

// Public reports whether both profile and history are visible to others.
func (u *User) Public() bool {
	return !u.IsProfilePrivate && !u.IsHistoryPrivate
}

type MoodSample struct {
	ID           int     `db:"id" json:"-"`
	UserID       int     `db:"user_id" json:"-"`
	Timestamp    int64   `db:"ts" json:"timestamp"` // epoch milliseconds
	Pleasantness float64 `db:"pleasantness" json:"pleasantness"`
	Energy       float64 `db:"energy" json:"energy"`
}
