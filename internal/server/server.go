package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/jack-games/jackofhearts/internal/game"
	"github.com/jack-games/jackofhearts/internal/logging"
	"go.uber.org/zap"
)

type Server struct {
	registry *game.Registry
	logger   *zap.SugaredLogger
	upgrader websocket.Upgrader
}

func New(registry *game.Registry, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	return &Server{
		registry: registry,
		logger:   logger.Named("server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Game clients are served from anywhere; room admission is
			// gated by the per-room password, not by origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/health", handleHealth)
	return mux
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorf("websocket upgrade: %v", err)
		return
	}

	s.logger.Infof("new websocket connection from %s", r.RemoteAddr)

	c := newClient(conn, s.registry, s.logger)
	go c.writePump()
	c.readPump()
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
