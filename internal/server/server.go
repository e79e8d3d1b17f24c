package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/proterg/RogueHeroes-sub000/internal/game"
	"github.com/proterg/RogueHeroes-sub000/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server serves battle sessions over websocket. Every connection gets its
// own battle built from the shared config.
type Server struct {
	Config *game.Config
	Addr   string
}

func New(cfg *game.Config, addr string) *Server {
	return &Server{Config: cfg, Addr: addr}
}

// Run registers the routes and blocks serving HTTP.
func (s *Server) Run() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", enableCORS(s.handleWS))
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/roster", enableCORS(s.handleRoster))

	logger.Log.Infof("battle server listening on %s", s.Addr)
	return http.ListenAndServe(s.Addr, mux)
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next(w, r)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("websocket upgrade failed")
		return
	}
	go newSession(s.Config, conn).run()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		logger.Log.WithError(err).Debug("health write failed")
	}
}

// handleRoster lists the archetypes this server's config fields, so a
// client can render the deployment picker before connecting.
func (s *Server) handleRoster(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Config.Roster()); err != nil {
		logger.Log.WithError(err).Error("roster encode failed")
	}
}
