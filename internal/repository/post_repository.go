package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/friendlyhq/friendly/internal/model"
)

type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

// Create inserts a post row, assigning id and creation timestamp. A
// foreign-key violation on author_id means the author no longer exists and
// is reported as ErrNotFound.
func (r *PostRepo) Create(ctx context.Context, p *model.Post) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO posts (id, author_id, content, created_at) VALUES (?,?,?,?)",
		p.ID, p.AuthorID, p.Content, p.CreatedAt)
	if isFKViolation(err) {
		return ErrNotFound
	}
	return err
}

// GetByID fetches a post together with its like set.
func (r *PostRepo) GetByID(ctx context.Context, id string) (model.Post, error) {
	var p model.Post
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, author_id, content, created_at FROM posts WHERE id=? LIMIT 1",
		id).Scan(&p.ID, &p.AuthorID, &p.Content, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, ErrNotFound
	}
	if err != nil {
		return model.Post{}, err
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT user_id FROM post_likes WHERE post_id=? ORDER BY created_at, user_id", id)
	if err != nil {
		return model.Post{}, err
	}
	defer rows.Close()

	p.LikedBy = []string{}
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return model.Post{}, err
		}
		p.LikedBy = append(p.LikedBy, uid)
	}
	if err := rows.Err(); err != nil {
		return model.Post{}, err
	}
	p.LikeCount = len(p.LikedBy)
	return p, nil
}

// ToggleLike flips the caller's membership in a post's like set and
// reports the resulting state (true = now liked). The (post_id, user_id)
// primary key serializes concurrent toggles: a concurrent duplicate insert
// surfaces as a 1062 error and is treated as already-liked, so repeated
// "add" calls cannot double-count.
func (r *PostRepo) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM post_likes WHERE post_id=? AND user_id=?", postID, userID)
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return false, nil // like removed
	}

	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO post_likes (post_id, user_id, created_at) VALUES (?,?,?)",
		postID, userID, time.Now().UTC())
	switch {
	case err == nil:
		return true, nil
	case isDuplicate(err, ""):
		return true, nil // raced with another toggle; membership already present
	case isFKViolation(err):
		return false, ErrNotFound
	}
	return false, err
}
