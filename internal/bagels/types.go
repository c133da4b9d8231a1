// Package bagels implements the Pico/Fermi/Bagels deduction game: secret
// selection, per-guess clue evaluation and the round state machine.
//
// Nothing in this package produces player-facing text; see
// internal/console for rendering.
package bagels

import (
	"errors"
	"fmt"
)

const (
	// Digits is the alphabet of the classic game.
	Digits = "0123456789"

	NumDigits  = 3
	MaxGuesses = 10
)

var (
	ErrInvalidLength   = errors.New("secret length must be between 1 and the alphabet size")
	ErrInvalidAlphabet = errors.New("alphabet must not repeat symbols")
	ErrLengthMismatch  = errors.New("guess and secret lengths differ")
	ErrInvalidGuess    = errors.New("guess is not well-formed")
	ErrRoundOver       = errors.New("round is already over")
)

// Clue labels one matching guess position.
type Clue uint8

const (
	Fermi Clue = iota + 1 // right symbol, right position
	Pico                  // right symbol, wrong position
)

func (c Clue) String() string {
	switch c {
	case Fermi:
		return "fermi"
	case Pico:
		return "pico"
	}
	return fmt.Sprintf("clue(%d)", uint8(c))
}

func (c Clue) MarshalText() ([]byte, error) {
	switch c {
	case Fermi, Pico:
		return []byte(c.String()), nil
	}
	return nil, fmt.Errorf("unknown clue %d", uint8(c))
}

func (c *Clue) UnmarshalText(b []byte) error {
	switch string(b) {
	case "fermi":
		*c = Fermi
	case "pico":
		*c = Pico
	default:
		return fmt.Errorf("unknown clue %q", b)
	}
	return nil
}

// Verdict tells how a Report should be read.
type Verdict uint8

const (
	VerdictClues   Verdict = iota // Clues holds at least one label
	VerdictBagels                 // no guessed symbol is in the secret
	VerdictCorrect                // guess equals the secret
)

func (v Verdict) String() string {
	switch v {
	case VerdictClues:
		return "clues"
	case VerdictBagels:
		return "bagels"
	case VerdictCorrect:
		return "correct"
	}
	return fmt.Sprintf("verdict(%d)", uint8(v))
}

func (v Verdict) MarshalText() ([]byte, error) {
	if v > VerdictCorrect {
		return nil, fmt.Errorf("unknown verdict %d", uint8(v))
	}
	return []byte(v.String()), nil
}

func (v *Verdict) UnmarshalText(b []byte) error {
	switch string(b) {
	case "clues":
		*v = VerdictClues
	case "bagels":
		*v = VerdictBagels
	case "correct":
		*v = VerdictCorrect
	default:
		return fmt.Errorf("unknown verdict %q", b)
	}
	return nil
}

// Report is the outcome of evaluating one guess. Clues is in guess
// position order and is empty unless Verdict is VerdictClues.
type Report struct {
	Verdict Verdict `json:"verdict"`
	Clues   []Clue  `json:"clues"`
}

func (r Report) Correct() bool { return r.Verdict == VerdictCorrect }
