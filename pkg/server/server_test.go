package server

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/diagnosis/dalmatia-stays/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := New("127.0.0.1:0", http.NotFoundHandler(), config.ServerConfig{})

	done := make(chan error, 1)
	go func() { done <- Run(ctx, "test", srv) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRun_WorkerErrorStopsServer(t *testing.T) {
	boom := errors.New("consumer failed")
	srv := New("127.0.0.1:0", http.NotFoundHandler(), config.ServerConfig{})

	err := Run(context.Background(), "test", srv, func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}
