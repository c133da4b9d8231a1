// Package simulate serves birthday-paradox runs to the HTTP layer and
// caches reports of seeded runs.
package simulate

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"example.com/bagels/internal/birthday"
	"example.com/bagels/internal/console"
	"example.com/bagels/internal/rng"
)

type Request struct {
	Count int     `json:"count"`
	Seed  *uint64 `json:"seed,omitempty"` // nil => random, not cached
}

type Report struct {
	Count        int      `json:"count"`
	Trials       int      `json:"trials"`
	Hits         int      `json:"hits"`
	Percent      float64  `json:"percent"`
	ExactPercent float64  `json:"exactPercent"`
	Seed         uint64   `json:"seed"`
	Sample       []string `json:"sample"`
	Match        string   `json:"match,omitempty"`
	Cached       bool     `json:"cached"`
}

type Service struct {
	log     *slog.Logger
	cache   ReportCache
	workers int
	trials  int
}

func NewService(cache ReportCache, workers int, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	if workers < 1 {
		workers = 1
	}
	return &Service{
		log:     log,
		cache:   cache,
		workers: workers,
		trials:  birthday.DefaultTrials,
	}
}

// Run samples one group for display and then runs the full trial set.
// Reports of seeded requests are served from the cache when present.
func (s *Service) Run(ctx context.Context, req Request) (Report, error) {
	if req.Count < 1 || req.Count > birthday.MaxCount {
		return Report{}, fmt.Errorf("%w: got %d", birthday.ErrInvalidCount, req.Count)
	}

	cacheable := req.Seed != nil && s.cache != nil
	var seed uint64
	if req.Seed != nil {
		seed = *req.Seed
	} else {
		seed = uint64(rng.New().IntN(math.MaxInt))
	}
	key := s.key(req.Count, seed)

	if cacheable {
		rep, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Warn("report cache get failed", "key", key, "err", err)
		} else if ok {
			rep.Cached = true
			return rep, nil
		}
	}

	days, err := birthday.Sample(rng.NewSeeded(rng.Derive(seed, "sample")), req.Count)
	if err != nil {
		return Report{}, err
	}
	res, err := birthday.SimulateParallel(ctx, seed, req.Count, s.trials, s.workers)
	if err != nil {
		return Report{}, err
	}

	rep := Report{
		Count:        res.Count,
		Trials:       res.Trials,
		Hits:         res.Hits,
		Percent:      res.Percent(),
		ExactPercent: math.RoundToEven(birthday.ExactProbability(req.Count)*10000) / 100,
		Seed:         seed,
		Sample:       make([]string, len(days)),
	}
	for i, d := range days {
		rep.Sample[i] = console.Day(d)
	}
	if d, ok := birthday.FindCollision(days); ok {
		rep.Match = console.Day(d)
	}

	s.log.Debug("simulation finished", "count", rep.Count, "trials", rep.Trials, "hits", rep.Hits, "seed", seed)

	if cacheable {
		if err := s.cache.Set(ctx, key, rep); err != nil {
			s.log.Warn("report cache set failed", "key", key, "err", err)
		}
	}
	return rep, nil
}

func (s *Service) key(count int, seed uint64) string {
	return fmt.Sprintf("birthday:%d:%d:%d:w%d", count, s.trials, seed, s.workers)
}
