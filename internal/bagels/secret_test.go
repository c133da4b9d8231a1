package bagels

import (
	"strings"
	"testing"

	"example.com/bagels/internal/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecret_Properties(t *testing.T) {
	src := rng.NewSeeded(7)
	cases := []struct {
		length   int
		alphabet string
	}{
		{1, Digits},
		{3, Digits},
		{10, Digits},
		{4, "abcdef"},
		{2, "ab"},
	}
	for _, tc := range cases {
		for i := 0; i < 200; i++ {
			s, err := GenerateSecret(src, tc.length, tc.alphabet)
			require.NoError(t, err)
			require.Len(t, []rune(s), tc.length)

			seen := map[rune]bool{}
			for _, r := range s {
				require.True(t, strings.ContainsRune(tc.alphabet, r), "symbol %q outside %q", r, tc.alphabet)
				require.False(t, seen[r], "repeated symbol in %q", s)
				seen[r] = true
			}
		}
	}
}

func TestGenerateSecret_InvalidArgs(t *testing.T) {
	src := rng.NewSeeded(1)

	_, err := GenerateSecret(src, 0, Digits)
	require.ErrorIs(t, err, ErrInvalidLength)

	_, err = GenerateSecret(src, 11, Digits)
	require.ErrorIs(t, err, ErrInvalidLength)

	_, err = GenerateSecret(src, 2, "aab")
	require.ErrorIs(t, err, ErrInvalidAlphabet)
}

func TestGenerateSecret_Seeded(t *testing.T) {
	var a, b []string
	s1, s2 := rng.NewSeeded(2024), rng.NewSeeded(2024)
	for i := 0; i < 20; i++ {
		a = append(a, NewSecret(s1))
		b = append(b, NewSecret(s2))
	}
	assert.Equal(t, a, b)
}

func TestGenerateSecret_AllPermutationsReachable(t *testing.T) {
	// 3P2 = 6 orderings; each should land near 1/6 of the draws
	src := rng.NewSeeded(99)
	const draws = 6000
	counts := map[string]int{}
	for i := 0; i < draws; i++ {
		s, err := GenerateSecret(src, 2, "abc")
		require.NoError(t, err)
		counts[s]++
	}
	require.Len(t, counts, 6)
	for perm, n := range counts {
		assert.InDelta(t, draws/6, n, 200, "permutation %s", perm)
	}
}
