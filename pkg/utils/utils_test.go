package utils

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
)

func TestToPtrAndDeref(t *testing.T) {
	p := ToPtr(3)
	require.NotNil(t, p)
	assert.Equal(t, 3, *p)

	assert.Equal(t, 3, Deref(p, 9))
	assert.Equal(t, 9, Deref[int](nil, 9))
}

func TestServeHTTPStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		ReadHeaderTimeout: time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ServeHTTP(ctx, srv, "test", logger.NewNop()) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return true
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServeHTTPReturnsListenError(t *testing.T) {
	srv := &http.Server{Addr: "256.0.0.1:bad", ReadHeaderTimeout: time.Second}
	err := ServeHTTP(context.Background(), srv, "broken", logger.NewNop())
	assert.Error(t, err)
}
