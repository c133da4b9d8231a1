package game

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type ClientConn struct {
	ws   *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

func newClientConn(ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		ws:   ws,
		send: make(chan []byte, 64),
	}
}

func (c *ClientConn) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
		if c.ws != nil {
			_ = c.ws.Close()
		}
	})
}

// sessionIDFromWSPath extracts the id from /ws/{id}. Ids are lowercase
// alphanumeric, 1..64 chars.
func sessionIDFromWSPath(path string) (string, bool) {
	id, ok := strings.CutPrefix(path, "/ws/")
	if !ok || id == "" || len(id) > 64 {
		return "", false
	}
	for _, c := range id {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return "", false
		}
	}
	return id, true
}

// handleWS serves GET /ws/{gameId}.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	gameID, ok := sessionIDFromWSPath(r.URL.Path)
	if !ok {
		http.Error(w, "bad game id", http.StatusBadRequest)
		return
	}

	sess, ok := s.games.Get(gameID)
	if !ok {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	claims, ok := s.authenticate(r)
	if !ok {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	cc := newClientConn(ws)
	if errCode, errMsg := sess.Attach(claims.UserID, cc); errCode != "" {
		_ = ws.WriteJSON(Envelope{
			Type:    "error",
			Payload: mustJSON(ErrorPayload{Code: errCode, Message: errMsg}),
		})
		cc.Close()
		return
	}

	// writer loop
	go func() {
		ticker := time.NewTicker(25 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case msg, ok := <-cc.send:
				if !ok {
					return
				}
				_ = ws.WriteMessage(websocket.TextMessage, msg)
			case <-ticker.C:
				_ = ws.WriteMessage(websocket.PingMessage, []byte{})
			}
		}
	}()

	sess.SendState()

	// reader loop
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			break
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			sess.SendErrorTo("bad_json", "invalid json")
			continue
		}

		switch env.Type {
		case "submit_guess":
			var p SubmitGuessPayload
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				sess.SendErrorTo("bad_input", "invalid payload")
				continue
			}
			if err := sess.SubmitGuess(p.Guess); err != nil {
				sess.SendErrorTo("bad_input", err.Error())
			}

		case "play_again":
			if err := sess.PlayAgain(); err != nil {
				sess.SendErrorTo("bad_input", err.Error())
			}

		default:
			sess.SendErrorTo("unknown_type", "unknown message type")
		}
	}

	// disconnect
	live := sess.Detach(cc)
	cc.Close()
	if live && sess.Finished() {
		s.games.Retire(gameID)
	}
}

func mustJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}
