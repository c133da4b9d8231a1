package main

import (
	"errors"
	"fmt"
	"strings"

	"example.com/bagels/internal/bagels"
	"example.com/bagels/internal/console"
	"example.com/bagels/internal/rng"
	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Guess the secret number from Pico/Fermi/Bagels clues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, _, err := sourceFromFlags(cmd)
			if err != nil {
				return err
			}
			p := newPrompter(cmd)
			p.println(console.BagelsIntro(bagels.NumDigits))
			p.println()

			sh := &playShell{p: p, src: src}
			return quietEOF(sh.run())
		},
	}
}

type playPhase int

const (
	phaseNewRound playPhase = iota
	phaseGuessing
	phaseAskReplay
	phaseDone
)

// playShell drives rounds until the player declines a replay.
type playShell struct {
	p     *prompter
	src   rng.Source
	round *bagels.Round
	phase playPhase
}

func (s *playShell) run() error {
	for s.phase != phaseDone {
		var err error
		switch s.phase {
		case phaseNewRound:
			s.newRound()
		case phaseGuessing:
			err = s.guess()
		case phaseAskReplay:
			err = s.askReplay()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *playShell) newRound() {
	s.round = bagels.NewClassicRound(s.src)
	s.p.println("I have thought up a number.")
	s.p.printf("You have %d guesses to get it.\n", s.round.MaxGuesses())
	s.phase = phaseGuessing
}

func (s *playShell) guess() error {
	in, err := s.p.ask(fmt.Sprintf("Guess #%d:", s.round.Attempt()))
	if err != nil {
		return err
	}

	rep, err := s.round.Guess(in)
	if errors.Is(err, bagels.ErrInvalidGuess) {
		// same guess number is asked again
		return nil
	}
	if err != nil {
		return err
	}
	s.p.println(console.Report(rep))

	switch s.round.State() {
	case bagels.Won:
		s.phase = phaseAskReplay
	case bagels.OutOfGuesses:
		s.p.printf("You ran out of guesses. The answer was %s.\n", s.round.Secret())
		s.phase = phaseAskReplay
	}
	return nil
}

func (s *playShell) askReplay() error {
	ans, err := s.p.ask("Do you want to play again? (yes or no)")
	if err != nil {
		return err
	}
	if strings.HasPrefix(strings.ToLower(ans), "y") {
		s.phase = phaseNewRound
		return nil
	}
	s.p.println("Thanks for playing!")
	s.phase = phaseDone
	return nil
}
