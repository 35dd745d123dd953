package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/diagnosis/dalmatia-stays/pkg/config"
	"github.com/diagnosis/dalmatia-stays/pkg/database"
	"github.com/diagnosis/dalmatia-stays/pkg/events"
	"github.com/diagnosis/dalmatia-stays/pkg/logger"
	mw "github.com/diagnosis/dalmatia-stays/pkg/middleware"
	"github.com/diagnosis/dalmatia-stays/pkg/server"
	"github.com/diagnosis/dalmatia-stays/services/auth/internal/handlers"
	"github.com/diagnosis/dalmatia-stays/services/auth/internal/repository"
	"github.com/diagnosis/dalmatia-stays/services/auth/internal/service"
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

	var publisher events.Publisher = events.NopPublisher{}
	if bus, err := events.NewNATSEventBus(cfg.NATS.URL, "auth"); err != nil {
		logger.Warn("NATS unavailable, signup events disabled", "error", err)
	} else {
		defer bus.Close()
		publisher = bus
	}

	authService := service.NewAuthService(repository.NewUserRepository(pool), publisher, cfg.Auth)
	h := handlers.New(authService)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("auth"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Mount("/", h.Routes(cfg.Auth.JWTSecret))

	if err := server.Run(ctx, "auth", server.New(":8081", r, cfg.Server)); err != nil {
		logger.Error("Auth service error", "error", err)
		os.Exit(1)
	}
}
