package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/friendlyhq/friendly/internal/model"
	"github.com/friendlyhq/friendly/internal/repository"
	"github.com/friendlyhq/friendly/internal/utils"
)

func hashedUser(t *testing.T, username, password string) model.User {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return model.User{ID: "u-1", Username: username, Email: username + "@example.com", PasswordHash: hash}
}

func TestLoginSuccess(t *testing.T) {
	users := new(MockUserStore)
	tokens := new(MockTokenStore)
	h := NewAuthHandler(testCfg(), users, tokens)

	users.On("GetByUsername", mock.Anything, "@gm").Return(hashedUser(t, "@gm", "secure不"), nil)
	tokens.On("StoreRefresh", mock.Anything, "u-1", mock.Anything, mock.Anything).Return(nil)

	e := echo.New()
	req, rec := jsonRequest(http.MethodPost, "/login/", `{"username":"@gm","password":"secure不"}`)
	require.NoError(t, h.Login(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Access  struct{ Token string }
		Refresh struct{ Token string }
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Access.Token)
	assert.NotEmpty(t, body.Refresh.Token)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	users := new(MockUserStore)
	h := NewAuthHandler(testCfg(), users, new(MockTokenStore))

	users.On("GetByUsername", mock.Anything, "@gm").Return(hashedUser(t, "@gm", "right"), nil)
	users.On("GetByUsername", mock.Anything, "@nobody").Return(model.User{}, repository.ErrNotFound)

	e := echo.New()

	// Wrong password and unknown username produce identical responses so
	// the caller cannot probe which usernames exist.
	req1, rec1 := jsonRequest(http.MethodPost, "/login/", `{"username":"@gm","password":"wrong"}`)
	require.NoError(t, h.Login(e.NewContext(req1, rec1)))
	req2, rec2 := jsonRequest(http.MethodPost, "/login/", `{"username":"@nobody","password":"whatever"}`)
	require.NoError(t, h.Login(e.NewContext(req2, rec2)))

	assert.Equal(t, http.StatusUnauthorized, rec1.Code)
	assert.Equal(t, http.StatusUnauthorized, rec2.Code)
	assert.JSONEq(t, rec1.Body.String(), rec2.Body.String())
}

func TestLogoutRevokesToken(t *testing.T) {
	tokens := new(MockTokenStore)
	h := NewAuthHandler(testCfg(), new(MockUserStore), tokens)

	raw := "some-refresh-token"
	tokens.On("RevokeByHash", mock.Anything, utils.HashRefreshRaw(raw)).Return(nil)

	e := echo.New()
	req, rec := jsonRequest(http.MethodPost, "/logout/", `{"refresh":"`+raw+`"}`)
	require.NoError(t, h.Logout(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	tokens.AssertExpectations(t)
}

func TestLogoutUnknownToken(t *testing.T) {
	tokens := new(MockTokenStore)
	h := NewAuthHandler(testCfg(), new(MockUserStore), tokens)

	tokens.On("RevokeByHash", mock.Anything, mock.Anything).Return(sql.ErrNoRows)

	e := echo.New()
	req, rec := jsonRequest(http.MethodPost, "/logout/", `{"refresh":"bogus"}`)
	require.NoError(t, h.Logout(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutMissingToken(t *testing.T) {
	h := NewAuthHandler(testCfg(), new(MockUserStore), new(MockTokenStore))

	e := echo.New()
	req, rec := jsonRequest(http.MethodPost, "/logout/", `{}`)
	require.NoError(t, h.Logout(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	tokens := new(MockTokenStore)
	h := NewAuthHandler(testCfg(), new(MockUserStore), tokens)

	raw := "old-refresh-token"
	hash := utils.HashRefreshRaw(raw)
	tokens.On("ValidateRefresh", mock.Anything, hash).Return("u-1", nil)
	tokens.On("RevokeByHash", mock.Anything, hash).Return(nil)
	tokens.On("StoreRefresh", mock.Anything, "u-1", mock.Anything, mock.Anything).Return(nil)

	e := echo.New()
	req, rec := jsonRequest(http.MethodPost, "/refresh/", `{"refresh":"`+raw+`"}`)
	require.NoError(t, h.Refresh(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	tokens.AssertExpectations(t)
}

func TestRefreshRevokedToken(t *testing.T) {
	tokens := new(MockTokenStore)
	h := NewAuthHandler(testCfg(), new(MockUserStore), tokens)

	tokens.On("ValidateRefresh", mock.Anything, mock.Anything).Return("", sql.ErrNoRows)

	e := echo.New()
	req, rec := jsonRequest(http.MethodPost, "/refresh/", `{"refresh":"revoked"}`)
	require.NoError(t, h.Refresh(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
