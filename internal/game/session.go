package game

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"example.com/bagels/internal/bagels"
	"example.com/bagels/internal/console"
	"example.com/bagels/internal/rng"
)

var ErrRoundNotOver = errors.New("play again is available only after the round is over")

// Session is one player's Bagels game: a sequence of rounds played over
// a single (re)connectable WebSocket.
type Session struct {
	id string
	mu sync.Mutex

	playerID   string
	playerName string
	conn       *ClientConn
	connected  bool
	idleSince  time.Time // zero while a connection is attached

	src     rng.Source
	round   *bagels.Round
	roundNo int
	history []GuessItem

	guessDur   time.Duration
	deadline   time.Time
	guessTimer *time.Timer
	guessToken int64

	wins, losses int
	onFinish     func(RoundOutcome)
	onAbandoned  func(id string) // round ended with nobody attached
}

func NewSession(id, playerID, playerName string, src rng.Source, guessDur time.Duration) *Session {
	s := &Session{
		id:         id,
		playerID:   playerID,
		playerName: playerName,
		src:        src,
		guessDur:   guessDur,
		idleSince:  time.Now(),
	}
	s.mu.Lock()
	s.startRoundLocked()
	s.mu.Unlock()
	return s
}

func (s *Session) ID() string { return s.id }

// Attach binds cc to the session. Only the owner may attach; a second
// connection replaces the first.
func (s *Session) Attach(playerID string, cc *ClientConn) (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if playerID != s.playerID {
		return "not_your_game", "game belongs to another player"
	}
	if s.conn != nil && s.conn != cc {
		s.conn.Close()
	}
	s.conn = cc
	s.connected = true
	s.idleSince = time.Time{}
	return "", ""
}

// Detach forgets cc unless it was already replaced by a newer
// connection. It reports whether cc was the live connection.
func (s *Session) Detach(cc *ClientConn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != cc {
		return false
	}
	s.conn = nil
	s.connected = false
	s.idleSince = time.Now()
	return true
}

// IdleFor reports how long the session has had no connection at now.
// ok is false while a connection is attached.
func (s *Session) IdleFor(now time.Time) (d time.Duration, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return 0, false
	}
	return now.Sub(s.idleSince), true
}

// Stop cancels the guess timer. The session stays readable but the
// clock no longer runs.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.guessTimer != nil {
		s.guessTimer.Stop()
	}
	s.guessToken++
	s.deadline = time.Time{}
}

// Finished reports whether the current round is over.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round.State().Terminal()
}

func (s *Session) SubmitGuess(guess string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt := s.round.Attempt()
	rep, err := s.round.Guess(guess)
	if err != nil {
		return err
	}

	g, v := guess, rep.Verdict
	s.recordLocked(GuessItem{
		Attempt: attempt,
		Guess:   &g,
		Verdict: &v,
		Clues:   rep.Clues,
		Text:    console.Report(rep),
	})
	s.advanceLocked()
	return nil
}

func (s *Session) PlayAgain() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.round.State().Terminal() {
		return ErrRoundNotOver
	}
	s.startRoundLocked()
	return nil
}

func (s *Session) SendErrorTo(code, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sendLocked(Envelope{
		Type:    "error",
		Payload: mustJSON(ErrorPayload{Code: code, Message: message}),
	})
}

func (s *Session) SendState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendStateLocked()
}

func (s *Session) startRoundLocked() {
	s.round = bagels.NewClassicRound(s.src)
	s.roundNo++
	s.history = nil
	s.armTimerLocked()

	if s.conn == nil {
		return
	}
	payload := RoundStartedPayload{
		Round:      s.roundNo,
		Digits:     s.round.SecretLength(),
		MaxGuesses: s.round.MaxGuesses(),
		DeadlineMs: toMs(s.deadline),
	}
	s.sendLocked(Envelope{Type: "round_started", Payload: mustJSON(payload)})
	s.sendStateLocked()
}

// armTimerLocked starts the countdown for the next guess. Stale timers
// are recognized by their token.
func (s *Session) armTimerLocked() {
	if s.guessTimer != nil {
		s.guessTimer.Stop()
	}
	if s.guessDur <= 0 || s.round.State().Terminal() {
		s.deadline = time.Time{}
		return
	}

	s.deadline = time.Now().Add(s.guessDur)
	s.guessToken++
	token := s.guessToken
	s.guessTimer = time.AfterFunc(s.guessDur, func() {
		s.onGuessTimeout(token)
	})
}

func (s *Session) onGuessTimeout(token int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.guessToken {
		return // stale timer
	}
	attempt := s.round.Attempt()
	if err := s.round.Miss(); err != nil {
		return
	}
	s.recordLocked(GuessItem{Attempt: attempt, Missed: true})
	s.advanceLocked()
}

func (s *Session) recordLocked(item GuessItem) {
	s.history = append(s.history, item)
	s.sendLocked(Envelope{Type: "guess_result", Payload: mustJSON(item)})
}

// advanceLocked either re-arms the timer or closes the round.
func (s *Session) advanceLocked() {
	state := s.round.State()
	if !state.Terminal() {
		s.armTimerLocked()
		s.sendStateLocked()
		return
	}

	if s.guessTimer != nil {
		s.guessTimer.Stop()
	}
	s.guessToken++
	s.deadline = time.Time{}

	won := state == bagels.Won
	if won {
		s.wins++
	} else {
		s.losses++
	}

	s.sendLocked(Envelope{Type: "round_finished", Payload: mustJSON(RoundFinishedPayload{
		Round:   s.roundNo,
		Outcome: state.String(),
		Secret:  s.round.Secret(),
		Guesses: s.round.Used(),
	})})
	s.sendStateLocked()

	if s.onFinish != nil {
		s.onFinish(RoundOutcome{
			GameID:   s.id,
			PlayerID: s.playerID,
			Won:      won,
			Guesses:  s.round.Used(),
		})
	}
	if s.conn == nil && s.onAbandoned != nil {
		s.onAbandoned(s.id)
	}
}

func (s *Session) buildStateLocked() StatePayload {
	st := StatePayload{
		GameID:     s.id,
		PlayerName: s.playerName,
		Connected:  s.connected,
		Phase:      s.round.State().String(),
		Round:      s.roundNo,
		Attempt:    s.round.Attempt(),
		MaxGuesses: s.round.MaxGuesses(),
		DeadlineMs: toMs(s.deadline),
		History:    s.history,
		Series:     Series{Wins: s.wins, Losses: s.losses},
	}
	if s.round.State().Terminal() {
		st.RevealedSecret = s.round.Secret()
	}
	return st
}

func (s *Session) sendStateLocked() {
	s.sendLocked(Envelope{Type: "state", Payload: mustJSON(s.buildStateLocked())})
}

func (s *Session) sendLocked(env Envelope) {
	if s.conn == nil {
		return
	}
	b, _ := json.Marshal(env)
	select {
	case s.conn.send <- b:
	default:
		// slow reader: drop rather than block the session
	}
}

func toMs(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
