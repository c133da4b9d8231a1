package game

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"example.com/bagels/internal/bagels"
	"example.com/bagels/internal/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConn() *ClientConn {
	return &ClientConn{send: make(chan []byte, 256)}
}

func readEnvelopesNonBlocking(t *testing.T, cc *ClientConn) []Envelope {
	t.Helper()
	var out []Envelope
	for {
		select {
		case b, ok := <-cc.send:
			if !ok {
				return out
			}
			var env Envelope
			require.NoError(t, json.Unmarshal(b, &env))
			out = append(out, env)
		default:
			return out
		}
	}
}

func envelopeTypes(envs []Envelope) []string {
	out := make([]string, 0, len(envs))
	for _, e := range envs {
		out = append(out, e.Type)
	}
	return out
}

func lastOfType(t *testing.T, envs []Envelope, typ string, v any) {
	t.Helper()
	for i := len(envs) - 1; i >= 0; i-- {
		if envs[i].Type == typ {
			require.NoError(t, json.Unmarshal(envs[i].Payload, v))
			return
		}
	}
	t.Fatalf("no %q envelope in %v", typ, envelopeTypes(envs))
}

func snapshot(s *Session) StatePayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildStateLocked()
}

// wrongGuess is a well-formed guess that cannot equal secret.
func wrongGuess(secret string) string {
	return secret[1:] + secret[:1]
}

const testSeed = 7

func newTestSession(t *testing.T, guessDur time.Duration) (*Session, *ClientConn, string) {
	t.Helper()
	secret := bagels.NewSecret(rng.NewSeeded(testSeed))
	s := NewSession("g1", "u1", "Alice", rng.NewSeeded(testSeed), guessDur)
	cc := newTestConn()
	code, _ := s.Attach("u1", cc)
	require.Empty(t, code)
	return s, cc, secret
}

func TestSession_Scenarios(t *testing.T) {
	cases := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "correct guess wins the round",
			run: func(t *testing.T) {
				s, cc, secret := newTestSession(t, 0)
				var outcomes []RoundOutcome
				s.onFinish = func(o RoundOutcome) { outcomes = append(outcomes, o) }

				require.NoError(t, s.SubmitGuess(wrongGuess(secret)))
				require.NoError(t, s.SubmitGuess(secret))
				assert.True(t, s.Finished())

				envs := readEnvelopesNonBlocking(t, cc)
				assert.Contains(t, envelopeTypes(envs), "guess_result")

				var fin RoundFinishedPayload
				lastOfType(t, envs, "round_finished", &fin)
				assert.Equal(t, "won", fin.Outcome)
				assert.Equal(t, secret, fin.Secret)
				assert.Equal(t, 2, fin.Guesses)

				var st StatePayload
				lastOfType(t, envs, "state", &st)
				assert.Equal(t, "won", st.Phase)
				assert.Equal(t, secret, st.RevealedSecret)
				assert.Equal(t, Series{Wins: 1}, st.Series)
				require.Len(t, st.History, 2)
				require.NotNil(t, st.History[1].Verdict)
				assert.Equal(t, bagels.VerdictCorrect, *st.History[1].Verdict)
				assert.Equal(t, "You got it!", st.History[1].Text)

				require.Len(t, outcomes, 1)
				assert.Equal(t, RoundOutcome{GameID: "g1", PlayerID: "u1", Won: true, Guesses: 2}, outcomes[0])
			},
		},
		{
			name: "secret stays hidden while the round is open",
			run: func(t *testing.T) {
				s, cc, secret := newTestSession(t, 0)
				require.NoError(t, s.SubmitGuess(wrongGuess(secret)))

				for _, env := range readEnvelopesNonBlocking(t, cc) {
					assert.NotContains(t, string(env.Payload), `"revealedSecret"`)
					assert.NotEqual(t, "round_finished", env.Type)
				}
				assert.Equal(t, 2, snapshot(s).Attempt)
			},
		},
		{
			name: "malformed guess keeps the attempt",
			run: func(t *testing.T) {
				s, cc, _ := newTestSession(t, 0)
				for _, g := range []string{"12", "1234", "12a", ""} {
					err := s.SubmitGuess(g)
					require.ErrorIs(t, err, bagels.ErrInvalidGuess, g)
				}
				assert.Empty(t, readEnvelopesNonBlocking(t, cc))
				st := snapshot(s)
				assert.Equal(t, 1, st.Attempt)
				assert.Empty(t, st.History)
			},
		},
		{
			name: "ten misses lose the round",
			run: func(t *testing.T) {
				s, cc, secret := newTestSession(t, 0)
				var outcomes []RoundOutcome
				s.onFinish = func(o RoundOutcome) { outcomes = append(outcomes, o) }

				for i := 0; i < bagels.MaxGuesses; i++ {
					require.NoError(t, s.SubmitGuess(wrongGuess(secret)))
				}
				require.ErrorIs(t, s.SubmitGuess(secret), bagels.ErrRoundOver)

				var fin RoundFinishedPayload
				lastOfType(t, readEnvelopesNonBlocking(t, cc), "round_finished", &fin)
				assert.Equal(t, "out_of_guesses", fin.Outcome)
				assert.Equal(t, secret, fin.Secret)
				assert.Equal(t, bagels.MaxGuesses, fin.Guesses)

				require.Len(t, outcomes, 1)
				assert.False(t, outcomes[0].Won)
				assert.Equal(t, Series{Losses: 1}, snapshot(s).Series)
			},
		},
		{
			name: "play again only after the round is over",
			run: func(t *testing.T) {
				s, cc, secret := newTestSession(t, 0)
				require.ErrorIs(t, s.PlayAgain(), ErrRoundNotOver)

				require.NoError(t, s.SubmitGuess(secret))
				_ = readEnvelopesNonBlocking(t, cc)

				require.NoError(t, s.PlayAgain())
				envs := readEnvelopesNonBlocking(t, cc)

				var started RoundStartedPayload
				lastOfType(t, envs, "round_started", &started)
				assert.Equal(t, RoundStartedPayload{Round: 2, Digits: bagels.NumDigits, MaxGuesses: bagels.MaxGuesses}, started)

				st := snapshot(s)
				assert.Equal(t, "awaiting_guess", st.Phase)
				assert.Equal(t, 1, st.Attempt)
				assert.Empty(t, st.History)
				assert.Empty(t, st.RevealedSecret)
				assert.Equal(t, Series{Wins: 1}, st.Series)
				assert.False(t, s.Finished())
			},
		},
		{
			name: "other player cannot attach",
			run: func(t *testing.T) {
				s, _, _ := newTestSession(t, 0)
				code, msg := s.Attach("u2", newTestConn())
				assert.Equal(t, "not_your_game", code)
				assert.NotEmpty(t, msg)
			},
		},
		{
			name: "reconnect replaces the previous connection",
			run: func(t *testing.T) {
				s, old, _ := newTestSession(t, 0)
				fresh := newTestConn()
				code, _ := s.Attach("u1", fresh)
				require.Empty(t, code)

				assert.False(t, s.Detach(old))
				assert.True(t, snapshot(s).Connected)

				s.SendState()
				assert.Equal(t, []string{"state"}, envelopeTypes(readEnvelopesNonBlocking(t, fresh)))

				assert.True(t, s.Detach(fresh))
				assert.False(t, snapshot(s).Connected)
			},
		},
		{
			name: "guess timer uses up an attempt",
			run: func(t *testing.T) {
				s, cc, _ := newTestSession(t, 20*time.Millisecond)
				require.NotZero(t, snapshot(s).DeadlineMs)

				require.Eventually(t, func() bool {
					return len(snapshot(s).History) >= 1
				}, 2*time.Second, 5*time.Millisecond)

				first := snapshot(s).History[0]
				assert.True(t, first.Missed)
				assert.Nil(t, first.Guess)
				assert.Nil(t, first.Verdict)
				assert.Empty(t, first.Clues)
				assert.Equal(t, 1, first.Attempt)

				var missed map[string]any
				for _, env := range readEnvelopesNonBlocking(t, cc) {
					if env.Type == "guess_result" {
						require.NoError(t, json.Unmarshal(env.Payload, &missed))
						break
					}
				}
				require.NotNil(t, missed)
				assert.Equal(t, map[string]any{"attempt": 1.0, "guess": nil, "missed": true}, missed)
			},
		},
		{
			name: "guess timer is stopped once the round ends",
			run: func(t *testing.T) {
				s, _, secret := newTestSession(t, 30*time.Millisecond)
				require.NoError(t, s.SubmitGuess(secret))

				st := snapshot(s)
				assert.Zero(t, st.DeadlineMs)

				time.Sleep(80 * time.Millisecond)
				assert.Len(t, snapshot(s).History, 1)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, tc.run)
	}
}

type recorderCall struct {
	userID  string
	won     bool
	guesses int
}

type chanRecorder chan recorderCall

func (c chanRecorder) RecordRound(_ context.Context, userID string, won bool, guesses int) error {
	c <- recorderCall{userID: userID, won: won, guesses: guesses}
	return nil
}

func TestSessionService_RecordsFinishedRounds(t *testing.T) {
	rec := make(chanRecorder, 1)
	store := NewInMemorySessionStore()
	svc := NewSessionService(Config{}, store, rec, nil)
	svc.newSource = func() rng.Source { return rng.NewSeeded(testSeed) }

	sess, err := svc.Create(context.Background(), "u1", "Alice")
	require.NoError(t, err)
	require.Regexp(t, `^[0-9a-f]{32}$`, sess.ID())
	assert.Equal(t, 1, store.Len())

	got, ok := svc.Get(sess.ID())
	require.True(t, ok)
	require.Same(t, sess, got)

	require.NoError(t, sess.SubmitGuess(bagels.NewSecret(rng.NewSeeded(testSeed))))

	select {
	case call := <-rec:
		assert.Equal(t, recorderCall{userID: "u1", won: true, guesses: 1}, call)
	case <-time.After(2 * time.Second):
		t.Fatal("round was not recorded")
	}

	svc.Retire(sess.ID())
	_, ok = svc.Get(sess.ID())
	assert.False(t, ok)
}

func TestSessionService_CreateHonorsContext(t *testing.T) {
	svc := NewSessionService(Config{}, NewInMemorySessionStore(), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Create(ctx, "u1", "Alice")
	require.ErrorIs(t, err, context.Canceled)
}

func TestSessionService_AbandonedSessionsAreDropped(t *testing.T) {
	cases := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "unattached round that runs out on the timer is retired",
			run: func(t *testing.T) {
				store := NewInMemorySessionStore()
				svc := NewSessionService(Config{GuessDuration: 5 * time.Millisecond}, store, nil, nil)

				sess, err := svc.Create(context.Background(), "u1", "Alice")
				require.NoError(t, err)

				require.Eventually(t, func() bool {
					return store.Len() == 0
				}, 2*time.Second, 5*time.Millisecond)
				assert.True(t, sess.Finished())
			},
		},
		{
			name: "idle session is swept and its timer stopped",
			run: func(t *testing.T) {
				store := NewInMemorySessionStore()
				svc := NewSessionService(Config{GuessDuration: time.Hour, IdleTimeout: time.Minute}, store, nil, nil)

				sess, err := svc.Create(context.Background(), "u1", "Alice")
				require.NoError(t, err)

				assert.Zero(t, svc.Sweep(time.Now()))
				assert.Equal(t, 1, store.Len())

				assert.Equal(t, 1, svc.Sweep(time.Now().Add(2*time.Minute)))
				assert.Equal(t, 0, store.Len())
				assert.Zero(t, snapshot(sess).DeadlineMs)
			},
		},
		{
			name: "connected session is never swept",
			run: func(t *testing.T) {
				store := NewInMemorySessionStore()
				svc := NewSessionService(Config{IdleTimeout: time.Minute}, store, nil, nil)

				sess, err := svc.Create(context.Background(), "u1", "Alice")
				require.NoError(t, err)
				cc := newTestConn()
				code, _ := sess.Attach("u1", cc)
				require.Empty(t, code)

				assert.Zero(t, svc.Sweep(time.Now().Add(time.Hour)))
				assert.Equal(t, 1, store.Len())

				// leaving mid-round starts the idle clock
				require.True(t, sess.Detach(cc))
				assert.Equal(t, 1, svc.Sweep(time.Now().Add(2*time.Minute)))
				assert.Equal(t, 0, store.Len())
			},
		},
		{
			name: "sweeper runs until cancelled",
			run: func(t *testing.T) {
				store := NewInMemorySessionStore()
				svc := NewSessionService(Config{IdleTimeout: time.Nanosecond}, store, nil, nil)
				_, err := svc.Create(context.Background(), "u1", "Alice")
				require.NoError(t, err)

				ctx, cancel := context.WithCancel(context.Background())
				done := make(chan error, 1)
				go func() { done <- svc.RunSweeper(ctx, 5*time.Millisecond) }()

				require.Eventually(t, func() bool {
					return store.Len() == 0
				}, 2*time.Second, 5*time.Millisecond)

				cancel()
				select {
				case err := <-done:
					require.NoError(t, err)
				case <-time.After(2 * time.Second):
					t.Fatal("sweeper did not stop")
				}
			},
		},
		{
			name: "sweeping is off without an idle timeout",
			run: func(t *testing.T) {
				store := NewInMemorySessionStore()
				svc := NewSessionService(Config{}, store, nil, nil)
				_, err := svc.Create(context.Background(), "u1", "Alice")
				require.NoError(t, err)

				assert.Zero(t, svc.Sweep(time.Now().Add(24*time.Hour)))
				assert.Equal(t, 1, store.Len())
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, tc.run)
	}
}
