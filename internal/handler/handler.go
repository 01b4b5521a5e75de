// Package handler implements the HTTP endpoints. Handlers receive their
// storage and job-submission dependencies at construction; the interfaces
// below describe exactly the slices of the repository and queue layers
// each handler needs, which also keeps them mockable in tests.
package handler

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/friendlyhq/friendly/internal/model"
	"github.com/friendlyhq/friendly/internal/queue"
)

// UserStore is the user persistence surface used by handlers.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	PostIDsByAuthor(ctx context.Context, userID string) ([]string, error)
}

// PostStore is the post persistence surface used by handlers.
type PostStore interface {
	Create(ctx context.Context, p *model.Post) error
	GetByID(ctx context.Context, id string) (model.Post, error)
	ToggleLike(ctx context.Context, postID, userID string) (bool, error)
}

// TokenStore persists and revokes refresh tokens.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (string, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
}

// EventPublisher submits a user.created event for background enrichment.
type EventPublisher interface {
	Publish(ctx context.Context, event queue.UserCreatedEvent) error
}

// dbTimeout bounds per-request database work.
const dbTimeout = 5 * time.Second

// getUserID extracts the authenticated user id placed in the context by
// the JWT middleware.
func getUserID(c echo.Context) (string, error) {
	if id, ok := c.Get("user_id").(string); ok && id != "" {
		return id, nil
	}
	return "", errors.New("no user_id in context")
}
