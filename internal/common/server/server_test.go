package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/AlibekovAA/account-service/backend/internal/common/logger"
)

func TestRun_CancelRunsHooksInOrder(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	log := logger.NewWithWriter(io.Discard, "test", "ERROR")
	srv := NewServer(DefaultServerConfig("0"), http.NotFoundHandler())
	srv.Addr = "127.0.0.1:0"

	var order []string
	hook := func(name string) ShutdownHook {
		return func(ctx context.Context) error {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			order = append(order, name)
			return nil
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, srv, log, "test", hook("recorder"), hook("pool"))
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, []string{"recorder", "pool"}, order)
}

func TestRun_ListenFailure(t *testing.T) {
	log := logger.NewWithWriter(io.Discard, "test", "ERROR")
	srv := NewServer(ServerConfig{Addr: "127.0.0.1:-1"}, http.NotFoundHandler())

	called := false
	err := Run(context.Background(), srv, log, "test", func(context.Context) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.True(t, called)
}

func TestNewServer_ErrorLogBridge(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultServerConfig("8081")
	cfg.ErrorLog = logger.NewWithWriter(&buf, "test", "INFO")

	srv := NewServer(cfg, http.NotFoundHandler())
	require.NotNil(t, srv.ErrorLog)
	assert.Equal(t, ":8081", srv.Addr)

	srv.ErrorLog.Print("tls: bad handshake")
	assert.Contains(t, buf.String(), "http server: tls: bad handshake")
}
