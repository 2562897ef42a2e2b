package livefeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func dial(t *testing.T, srv *httptest.Server, session string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/live?session=" + session
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, h *Hub, session string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientsCount(session) != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients for %s, got %d", n, session, h.ClientsCount(session))
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPublishReachesOnlyOwningSession(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	hub := NewHub(logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, r.URL.Query().Get("session"))
	}))
	defer srv.Close()

	mine := dial(t, srv, "a")
	other := dial(t, srv, "b")
	waitForClients(t, hub, "a", 1)
	waitForClients(t, hub, "b", 1)

	hub.Publish("a", Event{Collection: "deliveries", Version: 3})

	_ = mine.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Event
	if err := mine.ReadJSON(&got); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if got.Collection != "deliveries" || got.Version != 3 {
		t.Fatalf("unexpected event %+v", got)
	}

	_ = other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := other.ReadMessage(); err == nil {
		t.Fatalf("other session must not receive the event")
	}
}

func TestDropSessionClosesConnections(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	hub := NewHub(logger)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, "gone")
	}))
	defer srv.Close()

	conn := dial(t, srv, "gone")
	waitForClients(t, hub, "gone", 1)

	hub.DropSession("gone")
	if hub.ClientsCount("gone") != 0 {
		t.Fatalf("expected no clients after drop")
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected closed connection")
	}
}
