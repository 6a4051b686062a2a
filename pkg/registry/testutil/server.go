package testutil

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

// NewServer starts an httptest.Server on a loopback port, skipping the
// test when the environment forbids binding sockets.
func NewServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	l, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skip: cannot listen on loopback: %v", err)
	}

	srv := &httptest.Server{
		Listener: l,
		Config:   &http.Server{Handler: handler},
	}
	srv.Start()
	t.Cleanup(srv.Close)
	return srv
}
