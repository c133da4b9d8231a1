package bagels

import (
	"fmt"

	"example.com/bagels/internal/rng"
)

// GenerateSecret draws length distinct symbols from alphabet uniformly
// without replacement. Every ordered selection is equally likely.
func GenerateSecret(src rng.Source, length int, alphabet string) (string, error) {
	symbols := []rune(alphabet)
	if !distinct(symbols) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAlphabet, alphabet)
	}
	if length < 1 || length > len(symbols) {
		return "", fmt.Errorf("%w: length=%d alphabet=%d", ErrInvalidLength, length, len(symbols))
	}

	// partial Fisher-Yates: only the prefix we keep gets shuffled
	for i := 0; i < length; i++ {
		j := i + src.IntN(len(symbols)-i)
		symbols[i], symbols[j] = symbols[j], symbols[i]
	}
	return string(symbols[:length]), nil
}

// NewSecret returns a secret for the classic game.
func NewSecret(src rng.Source) string {
	s, err := GenerateSecret(src, NumDigits, Digits)
	if err != nil {
		// constants are valid
		panic(err)
	}
	return s
}

func distinct(symbols []rune) bool {
	seen := make(map[rune]struct{}, len(symbols))
	for _, r := range symbols {
		if _, ok := seen[r]; ok {
			return false
		}
		seen[r] = struct{}{}
	}
	return true
}
