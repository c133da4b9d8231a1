package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"example.com/bagels/internal/auth"
	"example.com/bagels/internal/config"
	"example.com/bagels/internal/game"
	"example.com/bagels/internal/httpapi"
	"example.com/bagels/internal/simulate"
	"example.com/bagels/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg config.Config
	log *slog.Logger

	db  *pgxpool.Pool
	rdb *redis.Client

	srv   *http.Server
	games *game.SessionService
}

func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	// --- Postgres ---
	dbpool, err := pgxpool.New(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})

	// Quick connectivity checks (fail fast).
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := dbpool.Ping(pingCtx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	pingErr := rdb.Ping(pingCtx).Err()
	if pingErr != nil {
		dbpool.Close()
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping (%s db=%d): %w", cfg.Redis.Addr, cfg.Redis.DB, pingErr)
	}

	// --- Auth service ---
	authSvc := auth.NewService([]byte(cfg.Auth.Secret))

	// --- Stores ---
	users := store.NewUserStore(dbpool)
	stats := store.NewStatsStore(dbpool)

	authH := &httpapi.AuthHandler{
		Users:    users,
		Stats:    stats,
		Auth:     authSvc,
		TokenTTL: cfg.Auth.TokenTTL,
	}

	// --- Birthday simulations ---
	reports, err := simulate.NewLayeredCache(cfg.Simulation.CacheSize, simulate.NewRedisReportCache(rdb, cfg.Redis.ReportTTL))
	if err != nil {
		dbpool.Close()
		_ = rdb.Close()
		return nil, fmt.Errorf("report cache: %w", err)
	}
	simH := &httpapi.SimulateHandler{
		Sim: simulate.NewService(reports, cfg.Simulation.Workers, log),
		Log: log,
	}

	// --- Game ---
	gameCfg := game.Config{GuessDuration: cfg.Game.GuessDuration, IdleTimeout: cfg.Game.IdleTimeout}
	sessions := game.NewSessionService(gameCfg, game.NewInMemorySessionStore(), stats, log)
	gameSrv := game.NewServer(gameCfg, sessions, authSvc)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	gameSrv.RegisterRoutes(mux)

	// --- auth + simulation routes ---
	httpapi.RegisterRoutes(mux, authSvc, authH, simH)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	return &App{cfg: cfg, log: log, db: dbpool, rdb: rdb, srv: srv, games: sessions}, nil
}

func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	a.log.Info("http server starting", "addr", a.cfg.HTTP.Addr)

	g.Go(func() error {
		err := a.srv.ListenAndServe()
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		return a.games.RunSweeper(gctx, a.cfg.Game.SweepEvery)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		a.log.Info("http server shutting down")
		_ = a.srv.Shutdown(shutdownCtx)
		return nil
	})

	err := g.Wait()
	_ = a.Close(context.Background())
	return err
}

// Close releases the pools; errors are ignored.
func (a *App) Close(ctx context.Context) error {
	if a.db != nil {
		a.db.Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	return nil
}
