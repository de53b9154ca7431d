package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/franco18min/tecnomundo-notify/internal/registry"
	"github.com/franco18min/tecnomundo-notify/internal/store"
)

func wsURL(server *httptest.Server, token string) string {
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	if token != "" {
		url += "?token=" + token
	}
	return url
}

func dialWS(t *testing.T, server *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, token), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	return conn
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestWS_AuthGateRejects(t *testing.T) {
	s, _, reg, _ := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dialWS(t, ts, "bad-token")
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, _, err := conn.ReadMessage()
	if err == nil {
		t.Fatal("expected the server to close the connection")
	}

	var closeErr *websocket.CloseError
	if !errors.As(err, &closeErr) {
		t.Fatalf("error = %v, want a close error", err)
	}
	if closeErr.Code != websocket.ClosePolicyViolation {
		t.Errorf("close code = %d, want %d", closeErr.Code, websocket.ClosePolicyViolation)
	}

	if reg.Len() != 0 {
		t.Errorf("registry holds %d entries after rejected connect, want 0", reg.Len())
	}
}

func TestWS_PushDelivered(t *testing.T) {
	s, _, reg, disp := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dialWS(t, ts, "token-7")
	defer conn.Close()

	waitFor(t, "user 7 to register", func() bool { return reg.Connected(7) })

	n, result, err := disp.Notify(context.Background(), 7, "Order #42 status: Listo", "/orders/42")
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if result != registry.Delivered {
		t.Fatalf("result = %v, want Delivered", result)
	}

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read pushed payload: %v", err)
	}

	var pushed store.Notification
	if err := json.Unmarshal(payload, &pushed); err != nil {
		t.Fatalf("unmarshal pushed payload: %v", err)
	}
	if pushed.ID != n.ID {
		t.Errorf("pushed id = %s, want %s", pushed.ID, n.ID)
	}
	if pushed.Message != "Order #42 status: Listo" || pushed.LinkTo != "/orders/42" {
		t.Errorf("unexpected pushed content: %+v", pushed)
	}
}

func TestWS_SupersedingConnectClosesPrior(t *testing.T) {
	s, _, reg, disp := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	first := dialWS(t, ts, "token-7")
	defer first.Close()
	waitFor(t, "first connection to register", func() bool { return reg.Connected(7) })

	second := dialWS(t, ts, "token-7")
	defer second.Close()

	// The first socket is closed by the registry.
	first.SetReadDeadline(time.Now().Add(3 * time.Second))
	if _, _, err := first.ReadMessage(); err == nil {
		t.Fatal("expected the first connection to be closed")
	}

	waitFor(t, "registry to settle on one entry", func() bool { return reg.Len() == 1 })

	// Pushes land on the second socket.
	if _, result, err := disp.Notify(context.Background(), 7, "hola", ""); err != nil || result != registry.Delivered {
		t.Fatalf("Notify = (%v, %v), want Delivered", result, err)
	}
	second.SetReadDeadline(time.Now().Add(3 * time.Second))
	if _, _, err := second.ReadMessage(); err != nil {
		t.Fatalf("second connection did not receive the push: %v", err)
	}
}

func TestWS_ClientCloseEvictsEntry(t *testing.T) {
	s, _, reg, disp := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn := dialWS(t, ts, "token-7")
	waitFor(t, "user 7 to register", func() bool { return reg.Connected(7) })

	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	waitFor(t, "entry to be evicted", func() bool { return !reg.Connected(7) })

	// Subsequent notifies fall back to durable-store-only semantics.
	_, result, err := disp.Notify(context.Background(), 7, "after close", "")
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if result != registry.NotConnected {
		t.Errorf("result = %v, want NotConnected", result)
	}
}
