package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/mayastay/booking-api/internal/booking"
	"github.com/mayastay/booking-api/internal/config"
	"github.com/mayastay/booking-api/internal/database"
	"github.com/mayastay/booking-api/internal/handler"
	"github.com/mayastay/booking-api/internal/queue"
	"github.com/mayastay/booking-api/internal/repository"
	"github.com/mayastay/booking-api/internal/router"
	queue_publisher "github.com/mayastay/booking-api/internal/service"
	"github.com/mayastay/booking-api/internal/utils"
	"github.com/mayastay/booking-api/internal/validation"
)

func main() {
	// Missing .env is fine in containerized deployments where the
	// environment is injected directly.
	_ = godotenv.Load()

	cfg := config.Load()

	log := newLogger(cfg.Env)
	defer log.Sync()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(migrateCtx, db); err != nil {
		cancel()
		log.Fatal("database migration failed", zap.Error(err))
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable, rate limiting and caching disabled")
	}

	issuer := utils.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTTLMin, cfg.RefreshTTLDays)

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	listings := repository.NewListingRepo(db)
	bookings := repository.NewBookingRepo(db)

	svc := booking.NewService(bookings, listings)
	events := queue_publisher.New(cfg.RabbitURL, log)

	if cfg.RabbitURL != "" {
		go queue.StartConsumer(cfg.RabbitURL, log)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())

	router.Register(e, router.Deps{
		Issuer:    issuer,
		Redis:     rdb,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     config.LoadCacheConfig(),
		Log:       log,
		Auth: &handler.AuthHandler{
			Users:      users,
			Tokens:     tokens,
			Issuer:     issuer,
			BcryptCost: cfg.BcryptCost,
			Log:        log,
		},
		Public:   &handler.PublicHandler{Repo: listings, Log: log},
		Listings: &handler.ListingHandler{Repo: listings, Log: log},
		Bookings: &handler.BookingHandler{Svc: svc, Listings: listings, Events: events, Log: log},
		Admin:    &handler.AdminHandler{Listings: listings, Bookings: bookings, Users: users, Log: log},
	})

	log.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	if env == "prod" || env == "production" {
		log, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return log
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return log
}
