package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

func TestNewServerSetsTimeouts(t *testing.T) {
	srv := NewServer(":0", http.NotFoundHandler())
	if srv.ReadHeaderTimeout == 0 || srv.WriteTimeout == 0 || srv.IdleTimeout == 0 {
		t.Fatalf("expected timeouts to be set: %+v", srv)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	srv := NewServer("127.0.0.1:0", http.NotFoundHandler())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Serve(ctx, srv, logger.Nop()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
