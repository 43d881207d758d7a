package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/portal-assistant/internal/infra/config"
	"github.com/yanqian/portal-assistant/pkg/metrics"
)

func TestAppRunStopsOnCancel(t *testing.T) {
	provider, err := metrics.NewProvider(false)
	require.NoError(t, err)

	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	cfg := &config.Config{HTTP: config.HTTPConfig{Address: server.Addr}}
	app := NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), server, provider)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestAppRunReportsListenFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	server := &http.Server{Addr: ln.Addr().String(), Handler: http.NotFoundHandler()}
	cfg := &config.Config{HTTP: config.HTTPConfig{Address: server.Addr}}
	app := NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), server, nil)

	require.Error(t, app.Run(context.Background()))
}
