package game

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"example.com/bagels/internal/rng"
	"github.com/google/uuid"
)

// StatsRecorder receives finished rounds (Postgres in production).
type StatsRecorder interface {
	RecordRound(ctx context.Context, userID string, won bool, guesses int) error
}

// SessionService creates, finds and retires game sessions and forwards
// round outcomes to the stats recorder.
type SessionService struct {
	cfg      Config
	store    SessionStore
	recorder StatsRecorder
	log      *slog.Logger

	newSource func() rng.Source
}

func NewSessionService(cfg Config, store SessionStore, recorder StatsRecorder, log *slog.Logger) *SessionService {
	if log == nil {
		log = slog.Default()
	}
	return &SessionService{
		cfg:       cfg,
		store:     store,
		recorder:  recorder,
		log:       log,
		newSource: rng.New,
	}
}

func (s *SessionService) Create(ctx context.Context, playerID, playerName string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")

	sess := NewSession(id, playerID, playerName, s.newSource(), s.cfg.GuessDuration)
	sess.onFinish = s.recordOutcome
	sess.onAbandoned = s.Retire

	s.store.Put(sess)
	s.log.Info("game created", "game", id, "player", playerID)
	return sess, nil
}

func (s *SessionService) Get(id string) (*Session, bool) {
	return s.store.Get(id)
}

// Retire drops a session whose player has left after the round ended.
// It may run under the session lock and must not call back into it.
func (s *SessionService) Retire(id string) {
	s.store.Delete(id)
	s.log.Info("game retired", "game", id)
}

// Sweep stops and drops every session that has had no connection for
// IdleTimeout or longer. It returns the number of sessions removed.
func (s *SessionService) Sweep(now time.Time) int {
	if s.cfg.IdleTimeout <= 0 {
		return 0
	}
	n := 0
	for _, sess := range s.store.List() {
		idle, ok := sess.IdleFor(now)
		if !ok || idle < s.cfg.IdleTimeout {
			continue
		}
		sess.Stop()
		s.store.Delete(sess.ID())
		n++
	}
	if n > 0 {
		s.log.Info("idle games swept", "count", n, "live", s.store.Len())
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *SessionService) RunSweeper(ctx context.Context, interval time.Duration) error {
	if s.cfg.IdleTimeout <= 0 || interval <= 0 {
		<-ctx.Done()
		return nil
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			s.Sweep(now)
		}
	}
}

// recordOutcome runs under the session lock, so the write happens in
// the background.
func (s *SessionService) recordOutcome(out RoundOutcome) {
	if s.recorder == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.recorder.RecordRound(ctx, out.PlayerID, out.Won, out.Guesses); err != nil {
			s.log.Error("record round", "game", out.GameID, "player", out.PlayerID, "err", err)
		}
	}()
}
