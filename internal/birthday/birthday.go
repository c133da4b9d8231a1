// Package birthday runs the birthday-paradox Monte Carlo experiment:
// random samples of calendar days, duplicate detection, and the trial
// loop that turns hits into a probability estimate.
package birthday

import (
	"errors"
	"fmt"
	"time"

	"example.com/bagels/internal/rng"
)

const (
	DaysInYear = 365
	MaxCount   = 100
)

var ErrInvalidCount = errors.New("count must be between 1 and 100")

// referenceYear is any non-leap year; only month and day are observed.
const referenceYear = 2001

// Day is a day-of-year index in [0, 365).
type Day int

func (d Day) date() time.Time {
	return time.Date(referenceYear, time.January, 1+int(d), 0, 0, 0, 0, time.UTC)
}

func (d Day) Month() time.Month { return d.date().Month() }
func (d Day) DayOfMonth() int { return d.date().Day() }

// Sample draws count independent uniform days. Repeats are expected.
func Sample(src rng.Source, count int) ([]Day, error) {
	if count < 1 || count > MaxCount {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	days := make([]Day, count)
	for i := range days {
		days[i] = Day(src.IntN(DaysInYear))
	}
	return days, nil
}

// FindCollision returns a day present at least twice in sample. When
// several days repeat, the first pair found scanning by ascending draw
// index wins.
func FindCollision(sample []Day) (Day, bool) {
	seen := make(map[Day]struct{}, len(sample))
	for _, d := range sample {
		seen[d] = struct{}{}
	}
	if len(seen) == len(sample) {
		return 0, false
	}

	for i := 0; i < len(sample); i++ {
		for j := i + 1; j < len(sample); j++ {
			if sample[i] == sample[j] {
				return sample[i], true
			}
		}
	}
	return 0, false
}
