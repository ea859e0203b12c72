// Package web exposes the arena over HTTP: the websocket endpoint browsers
// play through, a health check, and optional static client files.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/snake-arena/internal/config"
	"github.com/vovakirdan/snake-arena/internal/multiplayer"
	"github.com/vovakirdan/snake-arena/internal/protocol"
)

// Dispatcher is the part of the coordinator the transport talks to.
type Dispatcher interface {
	Send(msg multiplayer.CoordinatorMessage)
	Stats(ctx context.Context) (multiplayer.Stats, error)
}

// Config holds websocket tuning and static hosting options.
type Config struct {
	ReadLimit    int64
	PingInterval time.Duration
	PongWait     time.Duration
	WriteWait    time.Duration
	SendBuffer   int
	StaticDir    string
}

// ConfigFromServer converts the file configuration into transport settings.
func ConfigFromServer(cfg config.ServerConfig) Config {
	return Config{
		ReadLimit:    cfg.ReadLimit,
		PingInterval: time.Duration(cfg.PingIntervalSecs) * time.Second,
		PongWait:     time.Duration(cfg.PongWaitSecs) * time.Second,
		WriteWait:    time.Duration(cfg.WriteWaitSecs) * time.Second,
		SendBuffer:   cfg.SendBuffer,
		StaticDir:    cfg.StaticDir,
	}
}

func (c Config) withDefaults() Config {
	if c.ReadLimit <= 0 {
		c.ReadLimit = 4096
	}
	if c.PingInterval <= 0 {
		c.PingInterval = 25 * time.Second
	}
	if c.PongWait <= 0 {
		c.PongWait = 60 * time.Second
	}
	if c.WriteWait <= 0 {
		c.WriteWait = 10 * time.Second
	}
	return c
}

// Server is the HTTP front of the arena.
type Server struct {
	cfg      Config
	coord    Dispatcher
	logger   *log.Logger
	upgrader websocket.Upgrader
	newID    func() string
}

// NewServer creates an HTTP server bound to a coordinator.
func NewServer(cfg Config, coord Dispatcher, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:    cfg.withDefaults(),
		coord:  coord,
		logger: logger,
		upgrader: websocket.Upgrader{
			// Clients are served from anywhere CLIENT_URL points; accept every origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		newID: uuid.NewString,
	}
}

// Handler returns the routes: /ws, /healthz and, when configured, static files at /.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.cfg.StaticDir)))
	}
	return mux
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	codec, err := protocol.CodecByName(r.URL.Query().Get("codec"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	id := multiplayer.SessionID(s.newID())
	c := &client{
		id:      id,
		conn:    conn,
		codec:   codec,
		session: multiplayer.NewChannelSession(id, s.cfg.SendBuffer),
		coord:   s.coord,
		cfg:     s.cfg,
		logger:  s.logger.With("id", id),
	}

	s.logger.Debug("websocket connected", "id", id, "remote", r.RemoteAddr, "codec", codec.Name())
	s.coord.Send(multiplayer.ConnectMsg{Session: c.session})

	go c.writePump()
	go c.readPump()
}

type healthResponse struct {
	Status string `json:"status"`
	multiplayer.Stats
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	stats, err := s.coord.Stats(ctx)
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok", Stats: stats})
}
