package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PlayerStats counts finished Bagels rounds. BestGuesses is the fewest
// guesses of any win, 0 until the first win.
type PlayerStats struct {
	UserID      string
	Wins        int
	Losses      int
	BestGuesses int
	UpdatedAt   time.Time
}

type StatsStore struct {
	db *pgxpool.Pool
}

func NewStatsStore(db *pgxpool.Pool) *StatsStore {
	return &StatsStore{db: db}
}

func (s *StatsStore) InitForUser(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO player_stats (user_id, wins, losses, best_guesses)
		VALUES ($1, 0, 0, 0)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	return err
}

// RecordRound adds one finished round to the user's totals.
func (s *StatsStore) RecordRound(ctx context.Context, userID string, won bool, guesses int) error {
	var wins, losses, best int
	if won {
		wins, best = 1, guesses
	} else {
		losses = 1
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO player_stats (user_id, wins, losses, best_guesses, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id) DO UPDATE SET
			wins = player_stats.wins + EXCLUDED.wins,
			losses = player_stats.losses + EXCLUDED.losses,
			best_guesses = CASE
				WHEN EXCLUDED.best_guesses = 0 THEN player_stats.best_guesses
				WHEN player_stats.best_guesses = 0 THEN EXCLUDED.best_guesses
				ELSE LEAST(player_stats.best_guesses, EXCLUDED.best_guesses)
			END,
			updated_at = now()
	`, userID, wins, losses, best)
	return err
}

func (s *StatsStore) Get(ctx context.Context, userID string) (PlayerStats, error) {
	var st PlayerStats
	err := s.db.QueryRow(ctx, `
		SELECT user_id, wins, losses, best_guesses, updated_at
		FROM player_stats
		WHERE user_id=$1
	`, userID).Scan(&st.UserID, &st.Wins, &st.Losses, &st.BestGuesses, &st.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		// no row yet counts as an empty record
		return PlayerStats{UserID: userID}, nil
	}
	if err != nil {
		return PlayerStats{}, err
	}
	return st, nil
}
