package monitor

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	websocket "github.com/gorilla/websocket"

	"vxkeyd/keymap"
	"vxkeyd/translate"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(url, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitClients blocks until the server has registered n clients; the
// upgrade handshake completes before registration does.
func waitClients(t *testing.T, s *Server, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		got := len(s.conns)
		s.mu.Unlock()
		if got >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("server never registered %d clients", n)
}

func TestBroadcast(t *testing.T) {
	s := New(discard())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	defer s.Close()

	conn := dial(t, ts.URL)
	waitClients(t, s, 1)

	s.Broadcast(&translate.Symbol{
		Key:       keymap.Key('A'),
		Modifiers: keymap.Shift,
		Unicode:   'A',
		Keycode:   30,
		Pressed:   true,
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var frame struct {
		Key       string `json:"key"`
		Modifiers string `json:"modifiers"`
		Text      string `json:"text"`
		Keycode   uint16 `json:"keycode"`
		Pressed   bool   `json:"pressed"`
	}
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("frame %q: %v", data, err)
	}
	if frame.Text != "A" || frame.Keycode != 30 || !frame.Pressed {
		t.Errorf("frame = %+v", frame)
	}
	if frame.Modifiers != "Shift" {
		t.Errorf("modifiers = %q, want Shift", frame.Modifiers)
	}
}

func TestBroadcastFanout(t *testing.T) {
	s := New(discard())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	defer s.Close()

	c1 := dial(t, ts.URL)
	c2 := dial(t, ts.URL)
	waitClients(t, s, 2)

	s.Broadcast(&translate.Symbol{Key: keymap.KeyTab, Unicode: '\t', Keycode: 15, Pressed: true})

	for i, conn := range []*websocket.Conn{c1, c2} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, _, err := conn.ReadMessage(); err != nil {
			t.Errorf("client %d: %v", i, err)
		}
	}
}

func TestBroadcastNoClients(t *testing.T) {
	s := New(discard())
	// Must not block or panic with nobody listening.
	s.Broadcast(&translate.Symbol{Key: keymap.Key('A'), Unicode: 'a', Pressed: true})
	s.Broadcast(nil)
}
