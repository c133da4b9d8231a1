package game

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"example.com/bagels/internal/auth"
)

type Config struct {
	GuessDuration time.Duration // 0 => no per-guess timer
	IdleTimeout   time.Duration // unattached sessions older than this are swept; 0 => never
}

type Server struct {
	cfg      Config
	games    *SessionService
	verifier auth.Verifier
}

func NewServer(cfg Config, games *SessionService, verifier auth.Verifier) *Server {
	return &Server{
		cfg:      cfg,
		games:    games,
		verifier: verifier,
	}
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/game", s.handleCreateGame)
	mux.HandleFunc("/ws/", s.handleWS)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	claims, ok := s.authenticate(r)
	if !ok {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	sess, err := s.games.Create(r.Context(), claims.UserID, claims.DisplayName)
	if err != nil {
		http.Error(w, "failed to create game", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"gameId": sess.ID(),
	})
}

// authenticate accepts "Authorization: Bearer <jwt>" or, for browsers
// that cannot set headers on a WebSocket handshake, ?token=<jwt>.
func (s *Server) authenticate(r *http.Request) (*auth.Claims, bool) {
	token := ""
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		token = strings.TrimPrefix(h, "Bearer ")
	} else {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		return nil, false
	}

	claims, err := s.verifier.Verify(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
