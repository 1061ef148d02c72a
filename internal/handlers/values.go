package handlers

import (
	"math"
	"net/url"
	"regexp"

	"moodring/internal/models"
)

// coalesceWindowMS is the interval during which a new mood write overwrites
// the previous sample instead of creating a new one.
const coalesceWindowMS = 10_000

// maxSafeInt bounds timestamps to values JSON clients can represent exactly.
const maxSafeInt = 1<<53 - 1

var usernameRe = regexp.MustCompile(`^[a-z0-9_-]{3,32}$`)

func validUsername(s string) bool {
	return usernameRe.MatchString(s)
}

// truncate2 cuts toward negative infinity to 2 decimal places, so
// -0.001 becomes -0.01 rather than rounding to zero.
func truncate2(v float64) float64 {
	return math.Floor(v*100) / 100
}

func validMoodValue(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v) <= 1
}

// parseSort maps the sort query parameter to a descending flag. Absent
// means newest-first; any other present value is a validation error.
func parseSort(q url.Values) (descending, ok bool) {
	switch q.Get("sort") {
	case "", "newest":
		return true, true
	case "oldest":
		return false, true
	default:
		return true, false
	}
}

type moodEntry struct {
	Timestamp    int64   `json:"timestamp"`
	Pleasantness float64 `json:"pleasantness"`
	Energy       float64 `json:"energy"`
}

func toEntry(m models.MoodSample) moodEntry {
	return moodEntry{
		Timestamp:    m.Timestamp,
		Pleasantness: truncate2(m.Pleasantness),
		Energy:       truncate2(m.Energy),
	}
}

func toEntries(samples []models.MoodSample) []moodEntry {
	out := make([]moodEntry, 0, len(samples))
	for _, m := range samples {
		out = append(out, toEntry(m))
	}
	return out
}

// syntheticMood stands in for users that have never recorded a sample. Its
// zero timestamp guarantees the coalescing window check fails.
func syntheticMood(userID int) models.MoodSample {
	return models.MoodSample{UserID: userID, Timestamp: 0}
}
