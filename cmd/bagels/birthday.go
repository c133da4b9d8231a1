package main

import (
	"strconv"

	"example.com/bagels/internal/birthday"
	"example.com/bagels/internal/console"
	"github.com/spf13/cobra"
)

func newBirthdayCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "birthday",
		Short: "Monte Carlo simulation of the birthday paradox",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return quietEOF(runBirthday(cmd, workers))
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 1, "parallel simulation workers (progress is not reported when > 1)")
	return cmd
}

func runBirthday(cmd *cobra.Command, workers int) error {
	src, seed, err := sourceFromFlags(cmd)
	if err != nil {
		return err
	}
	p := newPrompter(cmd)
	p.println(console.BirthdayIntro())
	p.println()

	var count int
	for {
		resp, err := p.ask("How many birthdays should I generate? (Max 100)")
		if err != nil {
			return err
		}
		if n, ok := parseCount(resp); ok {
			count = n
			break
		}
	}
	p.println()

	days, err := birthday.Sample(src, count)
	if err != nil {
		return err
	}
	p.println("Here are", count, "birthdays:")
	p.println(console.Days(days))
	p.println()
	p.println(console.Match(birthday.FindCollision(days)))
	p.println()

	trials := birthday.DefaultTrials
	p.printf("Generating %d random birthdays %s times...\n", count, console.Number(trials))
	if _, err := p.ask("Press Enter to begin..."); err != nil {
		return err
	}
	p.printf("Let's run another %s simulations.\n", console.Number(trials))

	var res birthday.Result
	if workers > 1 {
		res, err = birthday.SimulateParallel(cmd.Context(), seed, count, trials, workers)
	} else {
		res, err = birthday.Simulate(cmd.Context(), src, count, trials, func(done int) {
			p.printf("%s simulations run...\n", console.Number(done))
		})
	}
	if err != nil {
		return err
	}
	p.printf("%s simulations run.\n", console.Number(trials))
	p.println(console.SimulationSummary(res))
	return nil
}

// parseCount accepts only plain decimal digits in [1, MaxCount].
func parseCount(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > birthday.MaxCount {
		return 0, false
	}
	return n, true
}
