package store

import (
	"context"
	"errors"

	"moodring/internal/models"
)

// ErrNotFound is returned by user lookups that match no row.
var ErrNotFound = errors.New("store: not found")

// UserFields is an explicit field-set for a single-statement user update.
// Nil fields are left untouched.
type UserFields struct {
	Username         *string
	PasswordHash     *string
	Token            *string
	IsProfilePrivate *bool
	IsHistoryPrivate *bool
}

func (f UserFields) Empty() bool {
	return f.Username == nil && f.PasswordHash == nil && f.Token == nil &&
		f.IsProfilePrivate == nil && f.IsHistoryPrivate == nil
}

// Store is the persistence collaborator. It owns durability and nothing
// else; all domain decisions happen above it.
type Store interface {
	UserByToken(ctx context.Context, token string) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	// PublicUsersByNames returns only users with both privacy flags off,
	// ordered by username descending.
	PublicUsersByNames(ctx context.Context, names []string) ([]models.User, error)
	UpdateUser(ctx context.Context, id int, fields UserFields) error
	DeleteUser(ctx context.Context, id int) error

	// LatestMood returns the sample with the highest id, or nil when the
	// user has none.
	LatestMood(ctx context.Context, userID int) (*models.MoodSample, error)
	// CreateMood inserts a sample and increments the owner's lifetime
	// counter as one transaction.
	CreateMood(ctx context.Context, userID int, ts int64, pleasantness, energy float64) error
	UpdateMood(ctx context.Context, id int, ts int64, pleasantness, energy float64) error
	MoodPage(ctx context.Context, userID int, after, before int64, descending bool, limit, offset int) ([]models.MoodSample, error)
	AllMoods(ctx context.Context, userID int, descending bool) ([]models.MoodSample, error)
	DeleteMoods(ctx context.Context, userID int, timestamps []int64) (int64, error)
	DeleteAllMoods(ctx context.Context, userID int) error

	Ping(ctx context.Context) error
}
