package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/friendlyhq/friendly/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user row. The id and creation timestamp are assigned
// here; GeoData/OnHoliday start as empty maps. Unique-key collisions are
// translated into ErrUsernameExists/ErrEmailExists so callers can report
// them as field errors.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if u.GeoData == nil {
		u.GeoData = model.JSONMap{}
	}
	if u.OnHoliday == nil {
		u.OnHoliday = model.JSONMap{}
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, username, email, password_hash, geo_data, on_holiday, created_at) VALUES (?,?,?,?,?,?,?)",
		u.ID, u.Username, u.Email, u.PasswordHash, u.GeoData, u.OnHoliday, u.CreatedAt)
	if err != nil {
		switch {
		case isDuplicate(err, "uq_users_username"):
			return ErrUsernameExists
		case isDuplicate(err, "uq_users_email"):
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, geo_data, on_holiday, created_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.GeoData, &u.OnHoliday, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByUsername fetches a user by username (login path).
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, geo_data, on_holiday, created_at FROM users WHERE username=? LIMIT 1",
		username).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.GeoData, &u.OnHoliday, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// PostIDsByAuthor returns the ids of all posts authored by the user,
// newest first.
func (r *UserRepo) PostIDsByAuthor(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id FROM posts WHERE author_id=? ORDER BY created_at DESC, id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateEnrichment merges asynchronously fetched metadata into a user row.
// Nil maps are left untouched so a partially failed enrichment only writes
// the fields it managed to fetch.
func (r *UserRepo) UpdateEnrichment(ctx context.Context, userID string, geo, holiday model.JSONMap) error {
	if geo == nil && holiday == nil {
		return nil
	}
	query := "UPDATE users SET "
	args := []any{}
	if geo != nil {
		query += "geo_data=?"
		args = append(args, geo)
	}
	if holiday != nil {
		if geo != nil {
			query += ", "
		}
		query += "on_holiday=?"
		args = append(args, holiday)
	}
	query += " WHERE id=?"
	args = append(args, userID)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
