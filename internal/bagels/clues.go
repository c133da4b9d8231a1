package bagels

import (
	"fmt"
	"strings"
)

// Evaluate scores guess against secret.
//
// Each position is classified on its own: an exact match is Fermi,
// otherwise a symbol found anywhere in secret is Pico. Secret symbols
// are not consumed, so one secret symbol can back several labels.
func Evaluate(guess, secret string) (Report, error) {
	g, s := []rune(guess), []rune(secret)
	if len(g) != len(s) {
		return Report{}, fmt.Errorf("%w: guess=%d secret=%d", ErrLengthMismatch, len(g), len(s))
	}
	if guess == secret {
		return Report{Verdict: VerdictCorrect}, nil
	}

	var clues []Clue
	for i := range g {
		switch {
		case g[i] == s[i]:
			clues = append(clues, Fermi)
		case strings.ContainsRune(secret, g[i]):
			clues = append(clues, Pico)
		}
	}
	if len(clues) == 0 {
		return Report{Verdict: VerdictBagels}, nil
	}
	return Report{Verdict: VerdictClues, Clues: clues}, nil
}

// ValidGuess reports whether guess has exactly length symbols, all from
// alphabet. Repeated symbols are allowed.
func ValidGuess(guess string, length int, alphabet string) bool {
	n := 0
	for _, r := range guess {
		if !strings.ContainsRune(alphabet, r) {
			return false
		}
		n++
	}
	return n == length
}
