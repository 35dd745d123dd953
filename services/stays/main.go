package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diagnosis/dalmatia-stays/pkg/config"
	"github.com/diagnosis/dalmatia-stays/pkg/content"
	"github.com/diagnosis/dalmatia-stays/pkg/database"
	"github.com/diagnosis/dalmatia-stays/pkg/events"
	"github.com/diagnosis/dalmatia-stays/pkg/logger"
	mw "github.com/diagnosis/dalmatia-stays/pkg/middleware"
	"github.com/diagnosis/dalmatia-stays/pkg/server"
	"github.com/diagnosis/dalmatia-stays/services/stays/internal/handlers"
	"github.com/diagnosis/dalmatia-stays/services/stays/internal/repository"
	"github.com/diagnosis/dalmatia-stays/services/stays/internal/service"
	"github.com/go-chi/chi/v5"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Replay protection needs Redis; without it bookings are still accepted.
	var idempotency mw.IdempotencyStore
	if rdb, err := database.ConnectRedis(ctx, cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, idempotency disabled", "error", err)
	} else {
		defer rdb.Close()
		idempotency = mw.NewRedisIdempotencyStore(rdb)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if bus, err := events.NewNATSEventBus(cfg.NATS.URL, "stays"); err != nil {
		logger.Warn("NATS unavailable, events disabled", "error", err)
	} else {
		defer bus.Close()
		publisher = bus
	}

	userRepo := repository.NewUserRepository(pool)
	accommodationRepo := repository.NewAccommodationRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	clock := service.Clock(time.Now)
	h := handlers.New(
		service.NewAccommodationService(accommodationRepo, userRepo, publisher, clock),
		service.NewBookingService(bookingRepo, accommodationRepo, userRepo, publisher, clock),
		service.NewDashboardService(accommodationRepo, bookingRepo, userRepo, clock),
		content.New(cfg.Content),
	)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("stays"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Mount("/", h.Routes(cfg.Auth.JWTSecret, idempotency))

	if err := server.Run(ctx, "stays", server.New(":8082", r, cfg.Server)); err != nil {
		logger.Error("Stays service error", "error", err)
		os.Exit(1)
	}
}
