// Package router wires the HTTP surface: path+method to handler, with
// auth and rate-limit middleware applied per route. Echo answers 405 for
// known paths hit with the wrong method and 404 everywhere else.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/friendlyhq/friendly/internal/config"
	"github.com/friendlyhq/friendly/internal/handler"
	"github.com/friendlyhq/friendly/internal/middleware"
)

// Register sets up every route. User creation and login are open; all
// other resource endpoints require a valid bearer token. The auth
// endpoints additionally sit behind the token-bucket limiter.
func Register(e *echo.Echo, cfg config.Config, rdb *redis.Client,
	users *handler.UserHandler, posts *handler.PostHandler, auth *handler.AuthHandler) {

	jwt := middleware.JWTAuth(cfg.JWTSecret)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e.GET("/healthz", handler.Health)

	e.POST("/user/", users.Create, limit)
	e.GET("/user/:id/", users.Get, jwt)

	e.POST("/post/", posts.Create, jwt)
	e.GET("/post/:id/", posts.Get, jwt)

	e.PUT("/likes/:id/", posts.ToggleLike, jwt)

	e.POST("/login/", auth.Login, limit)
	e.POST("/logout/", auth.Logout, jwt)
	e.POST("/refresh/", auth.Refresh, limit)
}
