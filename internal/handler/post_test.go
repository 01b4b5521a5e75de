package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/friendlyhq/friendly/internal/model"
	"github.com/friendlyhq/friendly/internal/repository"
)

func TestPostCreateAuthorFromSession(t *testing.T) {
	posts := new(MockPostStore)
	h := NewPostHandler(posts)

	posts.On("Create", mock.Anything, mock.AnythingOfType("*model.Post")).
		Run(func(args mock.Arguments) {
			p := args.Get(1).(*model.Post)
			p.ID = "p-1"
			p.CreatedAt = time.Now().UTC()
		}).Return(nil)

	e := echo.New()
	// The body tries to smuggle a different author; only the session
	// identity may decide authorship.
	req, rec := jsonRequest(http.MethodPost, "/post/", `{"content":"hello world","author":"someone-else"}`)
	c := e.NewContext(req, rec)
	c.Set("user_id", "u-1")
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "u-1", body["author"])
	assert.Equal(t, "hello world", body["content"])
	assert.Equal(t, float64(0), body["like_count"])
	assert.Equal(t, []any{}, body["liked_by"])
}

func TestPostCreateEmptyContent(t *testing.T) {
	h := NewPostHandler(new(MockPostStore))

	for _, body := range []string{`{"content":""}`, `{"content":"   "}`, `{}`} {
		e := echo.New()
		req, rec := jsonRequest(http.MethodPost, "/post/", body)
		c := e.NewContext(req, rec)
		c.Set("user_id", "u-1")
		require.NoError(t, h.Create(c))

		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
		var fe map[string][]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fe))
		assert.NotEmpty(t, fe["content"])
	}
}

func TestPostCreateUnauthenticated(t *testing.T) {
	h := NewPostHandler(new(MockPostStore))

	e := echo.New()
	req, rec := jsonRequest(http.MethodPost, "/post/", `{"content":"hi"}`)
	require.NoError(t, h.Create(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPostGet(t *testing.T) {
	posts := new(MockPostStore)
	h := NewPostHandler(posts)

	posts.On("GetByID", mock.Anything, "p-1").Return(model.Post{
		ID: "p-1", AuthorID: "u-1", Content: "hello",
		CreatedAt: time.Now().UTC(), LikeCount: 2, LikedBy: []string{"u-2", "u-3"},
	}, nil)

	e := echo.New()
	req, rec := jsonRequest(http.MethodGet, "/post/p-1/", "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("p-1")
	require.NoError(t, h.Get(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["like_count"])
	assert.Equal(t, []any{"u-2", "u-3"}, body["liked_by"])
}

func TestPostGetNotFound(t *testing.T) {
	posts := new(MockPostStore)
	h := NewPostHandler(posts)

	posts.On("GetByID", mock.Anything, "missing").Return(model.Post{}, repository.ErrNotFound)

	e := echo.New()
	req, rec := jsonRequest(http.MethodGet, "/post/missing/", "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("missing")
	require.NoError(t, h.Get(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleLikeReturnsUpdatedPost(t *testing.T) {
	posts := new(MockPostStore)
	h := NewPostHandler(posts)

	posts.On("ToggleLike", mock.Anything, "p-1", "u-1").Return(true, nil)
	posts.On("GetByID", mock.Anything, "p-1").Return(model.Post{
		ID: "p-1", AuthorID: "u-2", Content: "hello",
		CreatedAt: time.Now().UTC(), LikeCount: 1, LikedBy: []string{"u-1"},
	}, nil)

	e := echo.New()
	req, rec := jsonRequest(http.MethodPut, "/likes/p-1/", "")
	c := e.NewContext(req, rec)
	c.Set("user_id", "u-1")
	c.SetParamNames("id")
	c.SetParamValues("p-1")
	require.NoError(t, h.ToggleLike(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["like_count"])
	assert.Equal(t, []any{"u-1"}, body["liked_by"])
}

func TestToggleLikeUnknownPost(t *testing.T) {
	posts := new(MockPostStore)
	h := NewPostHandler(posts)

	posts.On("ToggleLike", mock.Anything, "missing", "u-1").Return(false, repository.ErrNotFound)

	e := echo.New()
	req, rec := jsonRequest(http.MethodPut, "/likes/missing/", "")
	c := e.NewContext(req, rec)
	c.Set("user_id", "u-1")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	require.NoError(t, h.ToggleLike(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
