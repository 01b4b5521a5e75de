package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRepo persists and validates refresh tokens. The database row
// (revoked_at) is the source of truth; when a Redis client is available a
// denylist entry is kept alongside so repeated exchanges of a revoked
// token are rejected without a database round trip. RDB may be nil.
type TokenRepo struct {
	DB  *sql.DB
	RDB *redis.Client
}

func NewTokenRepo(db *sql.DB, rdb *redis.Client) *TokenRepo {
	return &TokenRepo{DB: db, RDB: rdb}
}

const denyPrefix = "denylist:refresh:"

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// ValidateRefresh returns the owning user id if a non-revoked, non-expired
// token exists for the given hash. Denylisted and unknown tokens both map
// to sql.ErrNoRows so callers cannot distinguish them.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (string, error) {
	if r.denylisted(ctx, tokenHash) {
		return "", sql.ErrNoRows
	}
	var (
		userID    string
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&userID, &expiresAt, &revokedAt)
	if err != nil {
		return "", err
	}
	if revokedAt.Valid {
		return "", sql.ErrNoRows
	}
	if time.Now().UTC().After(expiresAt) {
		return "", sql.ErrNoRows
	}
	return userID, nil
}

// RevokeByHash marks a token as revoked and denylists it for its remaining
// lifetime. Returns sql.ErrNoRows when no active token matched.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	var expiresAt time.Time
	err := r.DB.QueryRowContext(ctx,
		"SELECT expires_at FROM refresh_tokens WHERE token_hash=? AND revoked_at IS NULL LIMIT 1",
		tokenHash).Scan(&expiresAt)
	if err != nil {
		return err
	}
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash); err != nil {
		return err
	}
	r.denylist(ctx, tokenHash, time.Until(expiresAt))
	return nil
}

// RevokeAllForUser revokes all of a user's active tokens in the database.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}

func (r *TokenRepo) denylist(ctx context.Context, tokenHash string, ttl time.Duration) {
	if r.RDB == nil || ttl <= 0 {
		return
	}
	// Best effort: the revoked_at column already blocks the token.
	_ = r.RDB.Set(ctx, denyPrefix+tokenHash, "1", ttl).Err()
}

func (r *TokenRepo) denylisted(ctx context.Context, tokenHash string) bool {
	if r.RDB == nil {
		return false
	}
	n, err := r.RDB.Exists(ctx, denyPrefix+tokenHash).Result()
	return err == nil && n > 0
}
