package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/friendlyhq/friendly/internal/abstract"
	"github.com/friendlyhq/friendly/internal/config"
	"github.com/friendlyhq/friendly/internal/database"
	"github.com/friendlyhq/friendly/internal/enrich"
	"github.com/friendlyhq/friendly/internal/handler"
	"github.com/friendlyhq/friendly/internal/queue"
	"github.com/friendlyhq/friendly/internal/repository"
	"github.com/friendlyhq/friendly/internal/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded, continuing with environment variables")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("database schema: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: rate limiting and token denylist disabled")
	} else {
		defer rdb.Close()
	}

	userRepo := repository.NewUserRepo(db)
	postRepo := repository.NewPostRepo(db)
	tokenRepo := repository.NewTokenRepo(db, rdb)

	publisher := queue.NewPublisher(cfg.AMQPURL)
	api := abstract.NewClient(cfg.GeoAPIURL, cfg.HolidayAPIURL, cfg.GeoAPIKey, cfg.HolidayAPIKey)
	enricher := enrich.New(api, userRepo)
	go queue.StartConsumer(cfg.AMQPURL, enricher.Run)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, rdb,
		handler.NewUserHandler(cfg, userRepo, publisher),
		handler.NewPostHandler(postRepo),
		handler.NewAuthHandler(cfg, userRepo, tokenRepo),
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	// Serve until interrupted, then drain in-flight requests.
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()
	<-sigCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
