package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/friendlyhq/friendly/internal/config"
	"github.com/friendlyhq/friendly/internal/model"
	"github.com/friendlyhq/friendly/internal/queue"
	"github.com/friendlyhq/friendly/internal/repository"
	"github.com/friendlyhq/friendly/internal/utils"
	"github.com/friendlyhq/friendly/internal/validate"
)

// UserHandler bundles dependencies for user registration and lookup.
type UserHandler struct {
	Cfg       config.Config
	Users     UserStore
	Publisher EventPublisher
}

func NewUserHandler(cfg config.Config, users UserStore, pub EventPublisher) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users, Publisher: pub}
}

type createUserReq struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required"`
}

type userResp struct {
	ID        string        `json:"id"`
	Username  string        `json:"username"`
	Email     string        `json:"email"`
	CreatedAt time.Time     `json:"created_at"`
	GeoData   model.JSONMap `json:"geo_data"`
	OnHoliday model.JSONMap `json:"on_holiday"`
	Posts     []string      `json:"posts"`
}

func newUserResp(u model.User, posts []string) userResp {
	if posts == nil {
		posts = []string{}
	}
	return userResp{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		GeoData:   u.GeoData,
		OnHoliday: u.OnHoliday,
		Posts:     posts,
	}
}

// Create handles POST /user/. All field validation failures are collected
// and returned together; unique-key violations from the insert are folded
// into the same field-error shape. On success a user.created event is
// published for background enrichment; publish failure is logged inside
// the publisher and never fails the response.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if fe := validate.Struct(req); fe != nil {
		return c.JSON(http.StatusBadRequest, fe)
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	user := model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := h.Users.Create(ctx, &user); err != nil {
		fe := validate.FieldErrors{}
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			fe.Add("username", "user with this username already exists.")
		case errors.Is(err, repository.ErrEmailExists):
			fe.Add("email", "user with this email already exists.")
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
		}
		return c.JSON(http.StatusBadRequest, fe)
	}

	// Fire-and-forget: the creating request must not block on the broker.
	ev := queue.UserCreatedEvent{
		UserID:    user.ID,
		IP:        c.RealIP(),
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}
	go func() { _ = h.Publisher.Publish(context.Background(), ev) }()

	return c.JSON(http.StatusCreated, newUserResp(user, nil))
}

// Get handles GET /user/:id/. The representation includes references to
// the user's posts; the password hash is never part of any response.
func (h *UserHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	user, err := h.Users.GetByID(ctx, c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fetch user failed"})
	}

	posts, err := h.Users.PostIDsByAuthor(ctx, user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fetch user failed"})
	}
	return c.JSON(http.StatusOK, newUserResp(user, posts))
}
