package birthday

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"example.com/bagels/internal/rng"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTrials = 100_000
	ProgressEvery = 10_000
)

var ErrInvalidTrials = errors.New("trials must be positive")

// Result aggregates a simulation run.
type Result struct {
	Count  int `json:"count"`
	Trials int `json:"trials"`
	Hits   int `json:"hits"`
}

// Percent is Hits/Trials as a percentage rounded to 2 decimals, ties
// to even.
func (r Result) Percent() float64 {
	if r.Trials == 0 {
		return 0
	}
	return round2(float64(r.Hits) / float64(r.Trials) * 100)
}

// Simulate runs trials independent samples of count days and counts
// those with a repeated day. progress, when set, is called with the
// number of finished trials every ProgressEvery trials, starting at 0.
func Simulate(ctx context.Context, src rng.Source, count, trials int, progress func(done int)) (Result, error) {
	if err := checkArgs(count, trials); err != nil {
		return Result{}, err
	}

	res := Result{Count: count, Trials: trials}
	for i := 0; i < trials; i++ {
		if i%ProgressEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
			if progress != nil {
				progress(i)
			}
		}
		hit, err := trial(src, count)
		if err != nil {
			return Result{}, err
		}
		if hit {
			res.Hits++
		}
	}
	return res, nil
}

// SimulateParallel splits the trials across workers, each with its own
// stream derived from seed. Results are reproducible for a fixed
// (seed, workers) pair.
func SimulateParallel(ctx context.Context, seed uint64, count, trials, workers int) (Result, error) {
	if err := checkArgs(count, trials); err != nil {
		return Result{}, err
	}
	if workers < 1 {
		workers = 1
	}
	if workers > trials {
		workers = trials
	}

	var hits atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	per, rem := trials/workers, trials%workers

	for w := 0; w < workers; w++ {
		n := per
		if w < rem {
			n++
		}
		src := rng.NewSeeded(rng.Derive(seed, fmt.Sprintf("worker:%d", w)))

		g.Go(func() error {
			var local int64
			for i := 0; i < n; i++ {
				if i%ProgressEvery == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				hit, err := trial(src, count)
				if err != nil {
					return err
				}
				if hit {
					local++
				}
			}
			hits.Add(local)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return Result{Count: count, Trials: trials, Hits: int(hits.Load())}, nil
}

// ExactProbability is the closed-form chance that count people share at
// least one birthday, as a fraction in [0, 1].
func ExactProbability(count int) float64 {
	if count > DaysInYear {
		return 1
	}
	distinct := 1.0
	for i := 0; i < count; i++ {
		distinct *= float64(DaysInYear-i) / DaysInYear
	}
	return 1 - distinct
}

func trial(src rng.Source, count int) (bool, error) {
	days, err := Sample(src, count)
	if err != nil {
		return false, err
	}
	_, hit := FindCollision(days)
	return hit, nil
}

func checkArgs(count, trials int) error {
	if count < 1 || count > MaxCount {
		return fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	if trials < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidTrials, trials)
	}
	return nil
}

// round2 rounds half to even on ties.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
