// Package console holds every player-facing string of the two games.
package console

import (
	"fmt"
	"strings"

	"example.com/bagels/internal/bagels"
	"example.com/bagels/internal/birthday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Number formats n with thousands separators ("100,000").
func Number(n int) string {
	return printer.Sprintf("%d", n)
}

// Clue renders a single label.
func Clue(c bagels.Clue) string {
	switch c {
	case bagels.Fermi:
		return "Fermi"
	case bagels.Pico:
		return "Pico"
	}
	return c.String()
}

// Report renders a guess result the way the game announces it.
func Report(r bagels.Report) string {
	switch r.Verdict {
	case bagels.VerdictCorrect:
		return "You got it!"
	case bagels.VerdictBagels:
		return "Bagels"
	}
	words := make([]string, len(r.Clues))
	for i, c := range r.Clues {
		words[i] = Clue(c)
	}
	return strings.Join(words, " ")
}

// Day renders a birthday as "Jan 5".
func Day(d birthday.Day) string {
	return fmt.Sprintf("%s %d", d.Month().String()[:3], d.DayOfMonth())
}

// Days renders a sample as a comma separated list.
func Days(days []birthday.Day) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = Day(d)
	}
	return strings.Join(parts, ", ")
}

func BagelsIntro(digits int) string {
	return fmt.Sprintf(`Bagels, a deductive logic game.
I am thinking of a %d-digit number with no repeated digits.
Try to guess what it is. Here are some clues:
When I say:    That means:
  Pico         One digit is correct but in the wrong position.
  Fermi        One digit is correct and in the right position.
  Bagels       No digit is correct.
For example, if the secret number was 248 and your guess was 843, the
clues would be Pico Fermi.`, digits)
}

func BirthdayIntro() string {
	return `Birthday Paradox

The Birthday Paradox shows us that in a group of N people, the odds
that two of them have matching birthdays is surprisingly large.
This program does a Monte Carlo simulation (that is, repeated random
simulations) to explore this concept.

(It's not actually a paradox, it's just a surprising result.)`
}

// Match renders the single-sample verdict.
func Match(d birthday.Day, ok bool) string {
	if !ok {
		return "In this simulation, there are no matching birthdays."
	}
	return "In this simulation, multiple people have a birthday on " + Day(d)
}

// SimulationSummary renders the closing paragraph of a run.
func SimulationSummary(res birthday.Result) string {
	return printer.Sprintf(`Out of %d simulations of %d people, there was a
matching birthday in that group %d times. This means
that %d people have a %.2f %% chance of
having a matching birthday in their group.
That's probably more than you would think!`,
		res.Trials, res.Count, res.Hits, res.Count, res.Percent())
}
