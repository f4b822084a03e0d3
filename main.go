// main.go
//
// Entry point for the ThyWordle server.
// Responsibilities:
//   - Load configuration (.env + environment) and set up zerolog.
//   - Load the verse catalog, open and migrate the database.
//   - Wire stores, auth service and HTTP server; sweep stale state hourly.
//   - Shut down gracefully on SIGINT/SIGTERM.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/thywordle/internal/auth"
	"github.com/robalobadob/thywordle/internal/config"
	"github.com/robalobadob/thywordle/internal/database"
	"github.com/robalobadob/thywordle/internal/httpserver"
	"github.com/robalobadob/thywordle/internal/store"
	"github.com/robalobadob/thywordle/internal/verses"
)

const (
	// gameTTL bounds how long an unfinished session stays in memory.
	gameTTL = 24 * time.Hour
	// limiterIdle is how long a client's rate-limit bucket outlives its last request.
	limiterIdle = time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)
	if !cfg.Production {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	catalog, err := verses.Load(cfg.VersesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load verses")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	users := store.NewSQLUsers(db)
	games := store.NewMemoryGames()
	svc := auth.NewService(users,
		auth.NewIssuer(cfg.JWTSecret, cfg.JWTExpiry),
		auth.NewFederatedVerifier(cfg.FederatedTokenSecret),
		auth.LogMailer{})

	srv := httpserver.New(httpserver.Deps{
		Games:   games,
		Users:   users,
		Auth:    svc,
		Catalog: catalog,
		Config:  cfg,
	})

	go sweep(ctx, games, srv)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		<-ctx.Done()
		log.Info().Msg("shutdown signal received, shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("http server shutdown")
		}
		close(idleConnsClosed)
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("db", string(db.Dialect)).
		Int("verses", catalog.Len()).
		Msg("starting thywordle server")
	if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	<-idleConnsClosed
	log.Info().Msg("server shutdown complete")
}

// sweep drops stale sessions and idle rate-limit buckets once an hour until ctx ends.
func sweep(ctx context.Context, games *store.MemoryGames, srv *httpserver.Server) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := games.Sweep(now.UTC(), gameTTL); n > 0 {
				log.Debug().Int("removed", n).Msg("swept stale games")
			}
			if n := srv.SweepLimiters(now, limiterIdle); n > 0 {
				log.Debug().Int("removed", n).Msg("swept idle rate limiters")
			}
		}
	}
}
