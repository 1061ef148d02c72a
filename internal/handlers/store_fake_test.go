package handlers

import (
	"context"
	"sort"

	"moodring/internal/models"
	"moodring/internal/store"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	users      []*models.User
	moods      []*models.MoodSample
	nextUserID int
	nextMoodID int
	failWith   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextUserID: 1, nextMoodID: 1}
}

func (f *fakeStore) addUser(u models.User) *models.User {
	u.ID = f.nextUserID
	f.nextUserID++
	cp := u
	f.users = append(f.users, &cp)
	return &cp
}

func (f *fakeStore) userByID(id int) *models.User {
	for _, u := range f.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (f *fakeStore) UserByToken(_ context.Context, token string) (*models.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, u := range f.users {
		if u.Token == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) UserByUsername(_ context.Context, username string) (*models.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) UsernameTaken(_ context.Context, username string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) PublicUsersByNames(_ context.Context, names []string) ([]models.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []models.User
	for _, u := range f.users {
		if !u.Public() {
			continue
		}
		for _, n := range names {
			if u.Username == n {
				out = append(out, *u)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username > out[j].Username })
	return out, nil
}

func (f *fakeStore) UpdateUser(_ context.Context, id int, fields store.UserFields) error {
	u := f.userByID(id)
	if u == nil {
		return store.ErrNotFound
	}
	if fields.Username != nil {
		u.Username = *fields.Username
	}
	if fields.PasswordHash != nil {
		u.PasswordHash = *fields.PasswordHash
	}
	if fields.Token != nil {
		u.Token = *fields.Token
	}
	if fields.IsProfilePrivate != nil {
		u.IsProfilePrivate = *fields.IsProfilePrivate
	}
	if fields.IsHistoryPrivate != nil {
		u.IsHistoryPrivate = *fields.IsHistoryPrivate
	}
	return nil
}

func (f *fakeStore) DeleteUser(_ context.Context, id int) error {
	_ = f.DeleteAllMoods(context.Background(), id)
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) LatestMood(_ context.Context, userID int) (*models.MoodSample, error) {
	var latest *models.MoodSample
	for _, m := range f.moods {
		if m.UserID == userID && (latest == nil || m.ID > latest.ID) {
			latest = m
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeStore) CreateMood(_ context.Context, userID int, ts int64, pleasantness, energy float64) error {
	f.moods = append(f.moods, &models.MoodSample{
		ID: f.nextMoodID, UserID: userID, Timestamp: ts, Pleasantness: pleasantness, Energy: energy,
	})
	f.nextMoodID++
	if u := f.userByID(userID); u != nil {
		u.StatsMoodSets++
	}
	return nil
}

func (f *fakeStore) UpdateMood(_ context.Context, id int, ts int64, pleasantness, energy float64) error {
	for _, m := range f.moods {
		if m.ID == id {
			m.Timestamp = ts
			m.Pleasantness = pleasantness
			m.Energy = energy
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) MoodPage(_ context.Context, userID int, after, before int64, descending bool, limit, offset int) ([]models.MoodSample, error) {
	var all []models.MoodSample
	for _, m := range f.moods {
		if m.UserID == userID && m.Timestamp > after && m.Timestamp < before {
			all = append(all, *m)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if descending {
			return all[i].ID > all[j].ID
		}
		return all[i].ID < all[j].ID
	})
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeStore) AllMoods(_ context.Context, userID int, descending bool) ([]models.MoodSample, error) {
	return f.MoodPage(context.Background(), userID, -1, int64(maxSafeInt)+1, descending, len(f.moods)+1, 0)
}

func (f *fakeStore) DeleteMoods(_ context.Context, userID int, timestamps []int64) (int64, error) {
	set := map[int64]bool{}
	for _, ts := range timestamps {
		set[ts] = true
	}
	var kept []*models.MoodSample
	var deleted int64
	for _, m := range f.moods {
		if m.UserID == userID && set[m.Timestamp] {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	f.moods = kept
	return deleted, nil
}

func (f *fakeStore) DeleteAllMoods(_ context.Context, userID int) error {
	var kept []*models.MoodSample
	for _, m := range f.moods {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	f.moods = kept
	return nil
}

func (f *fakeStore) Ping(_ context.Context) error { return f.failWith }
