package http

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DeepBDE-Console/internal/testutil"
)

func TestNewServer(t *testing.T) {
	mux := http.NewServeMux()
	server := NewServer(":8080", mux, WithTimeouts(time.Second, 2*time.Second))

	require.NotNil(t, server)
	assert.Equal(t, ":8080", server.httpServer.Addr)
	assert.Equal(t, ":8080", server.Addr())
	assert.Equal(t, time.Second, server.httpServer.ReadTimeout)
	assert.Equal(t, 2*time.Second, server.httpServer.WriteTimeout)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("pong")) })
	logger := testutil.NewMockLogger()
	server := NewServer("127.0.0.1:0", mux, WithLogger(logger))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() { done <- server.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(ctx))
	assert.NoError(t, <-done)
	assert.True(t, logger.HasMessage("info", "HTTP server listening"))
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	server := NewServer(":0", http.NewServeMux())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, server.Shutdown(ctx))
}

//Personal.AI order the ending
