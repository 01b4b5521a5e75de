package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/friendlyhq/friendly/internal/model"
	"github.com/friendlyhq/friendly/internal/repository"
	"github.com/friendlyhq/friendly/internal/validate"
)

// PostHandler bundles dependencies for post creation, lookup and the like
// toggle.
type PostHandler struct {
	Posts PostStore
}

func NewPostHandler(posts PostStore) *PostHandler {
	return &PostHandler{Posts: posts}
}

type createPostReq struct {
	Content string `json:"content" validate:"required,notblank"`
}

type postResp struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	LikeCount int       `json:"like_count"`
	LikedBy   []string  `json:"liked_by"`
}

func newPostResp(p model.Post) postResp {
	likedBy := p.LikedBy
	if likedBy == nil {
		likedBy = []string{}
	}
	return postResp{
		ID:        p.ID,
		Author:    p.AuthorID,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		LikeCount: p.LikeCount,
		LikedBy:   likedBy,
	}
}

// Create handles POST /post/. The author is always the authenticated
// caller; an author id supplied in the body is ignored.
func (h *PostHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createPostReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if fe := validate.Struct(req); fe != nil {
		return c.JSON(http.StatusBadRequest, fe)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	post := model.Post{
		AuthorID: userID,
		Content:  req.Content,
	}
	if err := h.Posts.Create(ctx, &post); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "author no longer exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create post failed"})
	}
	return c.JSON(http.StatusCreated, newPostResp(post))
}

// Get handles GET /post/:id/.
func (h *PostHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	post, err := h.Posts.GetByID(ctx, c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fetch post failed"})
	}
	return c.JSON(http.StatusOK, newPostResp(post))
}

// ToggleLike handles PUT /likes/:id/. If the caller already likes the post
// the like is removed, otherwise it is added; repeated calls alternate
// state rather than accumulate. Returns the updated representation.
func (h *PostHandler) ToggleLike(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	postID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Posts.ToggleLike(ctx, postID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "toggle like failed"})
	}

	post, err := h.Posts.GetByID(ctx, postID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fetch post failed"})
	}
	return c.JSON(http.StatusOK, newPostResp(post))
}
