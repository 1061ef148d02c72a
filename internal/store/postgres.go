package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jmoiron/sqlx"

	"moodring/internal/models"
)

const userColumns = `id, username, password_hash, token, created_at, settings, is_profile_private, is_history_private, stats_mood_sets`

var dialect = goqu.Dialect("postgres")

// Postgres implements Store over a sqlx handle.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) UserByToken(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE token=$1`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Postgres) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE username=$1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Postgres) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var taken bool
	err := s.db.GetContext(ctx, &taken, `SELECT EXISTS (SELECT 1 FROM users WHERE username=$1)`, username)
	return taken, err
}

func (s *Postgres) PublicUsersByNames(ctx context.Context, names []string) ([]models.User, error) {
	if len(names) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT `+userColumns+` FROM users
		WHERE username IN (?) AND is_profile_private=false AND is_history_private=false
		ORDER BY username DESC`, names)
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := s.db.SelectContext(ctx, &users, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Postgres) UpdateUser(ctx context.Context, id int, fields UserFields) error {
	if fields.Empty() {
		return nil
	}
	rec := goqu.Record{}
	if fields.Username != nil {
		rec["username"] = *fields.Username
	}
	if fields.PasswordHash != nil {
		rec["password_hash"] = *fields.PasswordHash
	}
	if fields.Token != nil {
		rec["token"] = *fields.Token
	}
	if fields.IsProfilePrivate != nil {
		rec["is_profile_private"] = *fields.IsProfilePrivate
	}
	if fields.IsHistoryPrivate != nil {
		rec["is_history_private"] = *fields.IsHistoryPrivate
	}
	query, args, err := dialect.Update("users").Set(rec).Where(goqu.C("id").Eq(id)).Prepared(true).ToSQL()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *Postgres) DeleteUser(ctx context.Context, id int) error {
	// Samples go first so the cascade never races a partially removed owner.
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM moods WHERE user_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Postgres) LatestMood(ctx context.Context, userID int) (*models.MoodSample, error) {
	var m models.MoodSample
	err := s.db.GetContext(ctx, &m, `SELECT id, user_id, ts, pleasantness, energy FROM moods
		WHERE user_id=$1 ORDER BY id DESC LIMIT 1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Postgres) CreateMood(ctx context.Context, userID int, ts int64, pleasantness, energy float64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `INSERT INTO moods (user_id, ts, pleasantness, energy) VALUES ($1, $2, $3, $4)`,
		userID, ts, pleasantness, energy); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE users SET stats_mood_sets = stats_mood_sets + 1 WHERE id=$1`, userID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Postgres) UpdateMood(ctx context.Context, id int, ts int64, pleasantness, energy float64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE moods SET ts=$1, pleasantness=$2, energy=$3 WHERE id=$4`,
		ts, pleasantness, energy, id)
	return err
}

func (s *Postgres) MoodPage(ctx context.Context, userID int, after, before int64, descending bool, limit, offset int) ([]models.MoodSample, error) {
	order := goqu.C("id").Asc()
	if descending {
		order = goqu.C("id").Desc()
	}
	query, args, err := dialect.From("moods").
		Select("id", "user_id", "ts", "pleasantness", "energy").
		Where(
			goqu.C("user_id").Eq(userID),
			goqu.C("ts").Gt(after),
			goqu.C("ts").Lt(before),
		).
		Order(order).
		Limit(uint(limit)).
		Offset(uint(offset)).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	var out []models.MoodSample
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Postgres) AllMoods(ctx context.Context, userID int, descending bool) ([]models.MoodSample, error) {
	order := "ASC"
	if descending {
		order = "DESC"
	}
	var out []models.MoodSample
	err := s.db.SelectContext(ctx, &out, `SELECT id, user_id, ts, pleasantness, energy FROM moods
		WHERE user_id=$1 ORDER BY id `+order, userID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Postgres) DeleteMoods(ctx context.Context, userID int, timestamps []int64) (int64, error) {
	if len(timestamps) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM moods WHERE user_id = ? AND ts IN (?)`, userID, timestamps)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Postgres) DeleteAllMoods(ctx context.Context, userID int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM moods WHERE user_id=$1`, userID)
	return err
}

func (s *Postgres) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
