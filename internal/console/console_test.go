package console

import (
	"testing"

	"example.com/bagels/internal/bagels"
	"example.com/bagels/internal/birthday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	cases := []struct {
		name string
		in   bagels.Report
		want string
	}{
		{"correct", bagels.Report{Verdict: bagels.VerdictCorrect}, "You got it!"},
		{"bagels", bagels.Report{Verdict: bagels.VerdictBagels}, "Bagels"},
		{"ordered", bagels.Report{Verdict: bagels.VerdictClues, Clues: []bagels.Clue{bagels.Pico, bagels.Fermi}}, "Pico Fermi"},
		{"single", bagels.Report{Verdict: bagels.VerdictClues, Clues: []bagels.Clue{bagels.Fermi}}, "Fermi"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Report(tc.in))
		})
	}
}

func TestReport_FromEvaluate(t *testing.T) {
	rep, err := bagels.Evaluate("843", "248")
	require.NoError(t, err)
	assert.Equal(t, "Pico Fermi", Report(rep))
}

func TestDays(t *testing.T) {
	assert.Equal(t, "Jan 1", Day(0))
	assert.Equal(t, "Dec 31", Day(364))
	assert.Equal(t, "Jan 1, Mar 1, Sep 30", Days([]birthday.Day{0, 59, 272}))
}

func TestMatch(t *testing.T) {
	assert.Equal(t, "In this simulation, there are no matching birthdays.", Match(0, false))
	assert.Equal(t, "In this simulation, multiple people have a birthday on Feb 14", Match(44, true))
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "100,000", Number(100_000))
	assert.Equal(t, "10", Number(10))
}

func TestSimulationSummary(t *testing.T) {
	out := SimulationSummary(birthday.Result{Count: 23, Trials: 100_000, Hits: 50_729})
	assert.Contains(t, out, "Out of 100,000 simulations of 23 people")
	assert.Contains(t, out, "50,729 times")
	assert.Contains(t, out, "50.73 % chance")
}
