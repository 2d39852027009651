// Package monitor exposes resolved symbols to WebSocket subscribers,
// for debugging and external observers.
package monitor

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	websocket "github.com/gorilla/websocket"

	"vxkeyd/translate"
)

const writeWait = 2 * time.Second

// symbolFrame is the JSON wire form of one resolved symbol.
type symbolFrame struct {
	Key        string `json:"key"`
	Modifiers  string `json:"modifiers"`
	Text       string `json:"text,omitempty"`
	Keycode    uint16 `json:"keycode"`
	Pressed    bool   `json:"pressed"`
	Autorepeat bool   `json:"autorepeat,omitempty"`
}

// Server broadcasts resolved symbols to connected WebSocket clients.
type Server struct {
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
	srv   *http.Server
}

func New(log *slog.Logger) *Server {
	return &Server{
		log:   log,
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Handler returns the WebSocket endpoint handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.serveWS)
	return mux
}

// ListenAndServe serves the event endpoint on addr until Close.
func (s *Server) ListenAndServe(addr string) error {
	s.mu.Lock()
	s.srv = &http.Server{Addr: addr, Handler: s.Handler()}
	srv := s.srv
	s.mu.Unlock()

	s.log.Info("monitor listening", "addr", addr)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Close shuts the listener and drops all clients.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		conn.Close()
	}
	s.conns = make(map[*websocket.Conn]struct{})
	if s.srv != nil {
		return s.srv.Close()
	}
	return nil
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
	s.log.Debug("monitor client connected", "remote", conn.RemoteAddr())

	// Drain the client until it goes away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.drop(conn)
				return
			}
		}
	}()
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conns[conn]; ok {
		delete(s.conns, conn)
		conn.Close()
	}
}

// Broadcast sends one resolved symbol to every connected client.
// Clients that cannot keep up are dropped.
func (s *Server) Broadcast(sym *translate.Symbol) {
	if sym == nil {
		return
	}
	frame, err := json.Marshal(symbolFrame{
		Key:        sym.Key.String(),
		Modifiers:  sym.Modifiers.String(),
		Text:       sym.Text(),
		Keycode:    sym.Keycode,
		Pressed:    sym.Pressed,
		Autorepeat: sym.Autorepeat,
	})
	if err != nil {
		return
	}

	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.conns))
	for conn := range s.conns {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			s.log.Debug("dropping monitor client", "error", err)
			s.drop(conn)
		}
	}
}
