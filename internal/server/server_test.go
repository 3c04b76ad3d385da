package server

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/pageza/mesobmatch/backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	_, port, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)
	return port
}

func TestServerStartAndShutdown(t *testing.T) {
	cfg := &config.Config{ServerHost: "127.0.0.1", ServerPort: freePort(t)}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	srv := New(cfg, handler, nil)
	assert.Equal(t, "127.0.0.1:"+cfg.ServerPort, srv.Addr())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		r, err := http.Get("http://" + srv.Addr() + "/")
		if err != nil {
			return false
		}
		resp = r
		return true
	}, 5*time.Second, 20*time.Millisecond)
	resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	require.NoError(t, srv.Shutdown(context.Background()))
	assert.NoError(t, <-errCh)
}
