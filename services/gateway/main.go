package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/diagnosis/dalmatia-stays/pkg/config"
	"github.com/diagnosis/dalmatia-stays/pkg/database"
	"github.com/diagnosis/dalmatia-stays/pkg/logger"
	mw "github.com/diagnosis/dalmatia-stays/pkg/middleware"
	"github.com/diagnosis/dalmatia-stays/pkg/server"
	"github.com/diagnosis/dalmatia-stays/services/gateway/internal/handlers"
	"github.com/diagnosis/dalmatia-stays/services/gateway/internal/proxy"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := handlers.Options{AllowedOrigins: cfg.Server.AllowedOrigins}
	if cfg.RateLimit.Enabled {
		rdb, err := database.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()

		trusted, err := mw.ParseTrustedProxies(cfg.RateLimit.TrustedProxies)
		if err != nil {
			logger.Error("Invalid trusted proxies", "error", err)
			os.Exit(1)
		}
		if opts.GlobalLimit, err = limit(rdb, "global", cfg.RateLimit.Global, trusted); err != nil {
			logger.Error("Invalid global rate limit", "error", err)
			os.Exit(1)
		}
		if opts.AuthLimit, err = limit(rdb, "auth", cfg.RateLimit.Auth, trusted); err != nil {
			logger.Error("Invalid auth rate limit", "error", err)
			os.Exit(1)
		}
	}

	h := handlers.New(
		proxy.NewServiceProxy("auth", cfg.Services.AuthURL),
		proxy.NewServiceProxy("stays", cfg.Services.StaysURL),
	)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("gateway"))
	r.Use(mw.Logging)
	r.Use(middleware.Recoverer)
	r.Use(mw.Health)
	r.Mount("/", h.Routes(opts))

	if err := server.Run(ctx, "gateway", server.New(":"+cfg.Server.Port, r, cfg.Server)); err != nil {
		logger.Error("Gateway server error", "error", err)
		os.Exit(1)
	}
}

func limit(rdb *redis.Client, name, def string, trusted []*net.IPNet) (func(http.Handler) http.Handler, error) {
	rate, err := mw.ParseRate(def)
	if err != nil {
		return nil, err
	}
	store, err := mw.NewRedisRateStore(rdb, name)
	if err != nil {
		return nil, err
	}
	return mw.RateLimit(store, rate, trusted...), nil
}
