package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"example.com/bagels/internal/rng"
	"github.com/spf13/cobra"
)

var errInputClosed = errors.New("input closed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "bagels",
		Short:        "Console games: Bagels and the Birthday Paradox",
		SilenceUsage: true,
	}
	root.PersistentFlags().Uint64("seed", 0, "seed for a reproducible game (random when unset)")

	root.AddCommand(newPlayCmd(), newBirthdayCmd())
	return root
}

// sourceFromFlags returns the stream selected by --seed along with the
// seed actually used.
func sourceFromFlags(cmd *cobra.Command) (rng.Source, uint64, error) {
	seed, err := cmd.Flags().GetUint64("seed")
	if err != nil {
		return nil, 0, err
	}
	if !cmd.Flags().Changed("seed") {
		seed = uint64(rng.New().IntN(math.MaxInt))
	}
	return rng.NewSeeded(seed), seed, nil
}

// quietEOF ends a shell cleanly when the player closes stdin.
func quietEOF(err error) error {
	if errors.Is(err, errInputClosed) {
		return nil
	}
	return err
}

// prompter reads one trimmed line per prompt.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{in: bufio.NewScanner(cmd.InOrStdin()), out: cmd.OutOrStdout()}
}

func (p *prompter) println(a ...any) {
	_, _ = fmt.Fprintln(p.out, a...)
}

func (p *prompter) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(p.out, format, a...)
}

func (p *prompter) ask(prompt string) (string, error) {
	p.println(prompt)
	p.printf("> ")
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(p.in.Text()), nil
}
