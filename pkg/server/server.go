package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/diagnosis/dalmatia-stays/pkg/config"
	"github.com/diagnosis/dalmatia-stays/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func New(addr string, h http.Handler, cfg config.ServerConfig) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully. Extra
// workers run in the same group; the first one to fail stops everything.
func Run(ctx context.Context, name string, srv *http.Server, workers ...func(context.Context) error) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting "+name+" service", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down " + name + " service...")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	for _, w := range workers {
		g.Go(func() error { return w(ctx) })
	}

	return g.Wait()
}
