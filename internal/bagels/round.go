package bagels

import (
	"fmt"
	"unicode/utf8"

	"example.com/bagels/internal/rng"
)

type State uint8

const (
	AwaitingGuess State = iota
	Won
	OutOfGuesses
)

func (s State) String() string {
	switch s {
	case AwaitingGuess:
		return "awaiting_guess"
	case Won:
		return "won"
	case OutOfGuesses:
		return "out_of_guesses"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

func (s State) Terminal() bool { return s == Won || s == OutOfGuesses }

// Round is one game against a single secret. It is not safe for
// concurrent use; callers serialize access.
type Round struct {
	secret     string
	alphabet   string
	maxGuesses int

	used  int
	state State
}

func NewRound(secret, alphabet string, maxGuesses int) *Round {
	return &Round{
		secret:     secret,
		alphabet:   alphabet,
		maxGuesses: maxGuesses,
	}
}

// NewClassicRound draws a fresh 3-digit secret with 10 guesses.
func NewClassicRound(src rng.Source) *Round {
	return NewRound(NewSecret(src), Digits, MaxGuesses)
}

func (r *Round) State() State { return r.state }
func (r *Round) Secret() string { return r.secret }
func (r *Round) MaxGuesses() int { return r.maxGuesses }
func (r *Round) Used() int { return r.used }
func (r *Round) SecretLength() int { return utf8.RuneCountInString(r.secret) }

// Attempt is the 1-based number of the next guess.
func (r *Round) Attempt() int { return r.used + 1 }

// Guess evaluates guess and advances the round. A malformed guess
// returns ErrInvalidGuess and does not use up an attempt.
func (r *Round) Guess(guess string) (Report, error) {
	if r.state.Terminal() {
		return Report{}, ErrRoundOver
	}
	if !ValidGuess(guess, r.SecretLength(), r.alphabet) {
		return Report{}, fmt.Errorf("%w: want %d symbols from %q", ErrInvalidGuess, r.SecretLength(), r.alphabet)
	}

	rep, err := Evaluate(guess, r.secret)
	if err != nil {
		return Report{}, err
	}
	r.used++
	switch {
	case rep.Correct():
		r.state = Won
	case r.used >= r.maxGuesses:
		r.state = OutOfGuesses
	}
	return rep, nil
}

// Miss uses up an attempt without a guess.
func (r *Round) Miss() error {
	if r.state.Terminal() {
		return ErrRoundOver
	}
	r.used++
	if r.used >= r.maxGuesses {
		r.state = OutOfGuesses
	}
	return nil
}
