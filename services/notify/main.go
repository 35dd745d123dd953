package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/diagnosis/dalmatia-stays/pkg/config"
	"github.com/diagnosis/dalmatia-stays/pkg/events"
	"github.com/diagnosis/dalmatia-stays/pkg/logger"
	mw "github.com/diagnosis/dalmatia-stays/pkg/middleware"
	"github.com/diagnosis/dalmatia-stays/pkg/server"
	"github.com/diagnosis/dalmatia-stays/services/notify/internal/mailer"
	"github.com/diagnosis/dalmatia-stays/services/notify/internal/notifier"
	"github.com/go-chi/chi/v5"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus, err := events.NewNATSEventBus(cfg.NATS.URL, "notify")
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer bus.Close()

	n := notifier.New(mailer.New(cfg.Email))
	if err := n.Subscribe(bus, cfg.NATS.Queue); err != nil {
		logger.Error("Failed to subscribe", "error", err)
		os.Exit(1)
	}
	logger.Info("Notify consumer subscribed", "queue", cfg.NATS.Queue, "dev_mode", cfg.Email.DevMode)

	// Only health is served; the work arrives over NATS.
	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("notify"))
	r.Use(mw.Logging)
	r.Use(mw.Health)

	if err := server.Run(ctx, "notify", server.New(":8086", r, cfg.Server)); err != nil {
		logger.Error("Notify service error", "error", err)
		os.Exit(1)
	}
}
