package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
)

func wsTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestUnregisterIgnoresReplacedConnection(t *testing.T) {
	srv := wsTestServer(t)
	hub := NewWSHub()

	stale := dialWS(t, srv)
	replacement := dialWS(t, srv)
	defer replacement.Close()

	hub.Register("user-1", stale)
	hub.Register("user-1", replacement)

	// The stale connection's teardown (its drain goroutine exiting after
	// Register closed it) must not remove the replacement.
	hub.Unregister("user-1", stale)
	if !hub.IsOnline("user-1") {
		t.Fatal("replacement connection was torn down by the stale one")
	}

	hub.Unregister("user-1", replacement)
	if hub.IsOnline("user-1") {
		t.Fatal("expected user offline after unregistering the live connection")
	}
}
