// Package reaper implements an optional background sweep that disposes of
// idle games. A game is idle when no relay connection is bound to it and it
// has not been touched for longer than the configured TTL. The sweep is a
// deployment extension and is disabled by default; the core lifecycle keeps
// games until they are explicitly deleted.
package reaper

import (
	"context"
	"log/slog"
	"time"

	"github.com/Gamify-IT/functionbuilder/internal/dependencies/clock"
	"github.com/Gamify-IT/functionbuilder/internal/model"
	"github.com/Gamify-IT/functionbuilder/internal/storage"
)

// DefaultTTL is how long an untouched, unbound game survives between sweeps
const DefaultTTL = 24 * time.Hour

// DefaultInterval is the default time between sweeps
const DefaultInterval = 10 * time.Minute

// BoundCounter reports how many live relay connections a game has. Satisfied
// by the relay coordinator.
type BoundCounter interface {
	BoundCount(gameID model.GameID) int
}

// GameDropper terminates the relay connections of a deleted game. Satisfied
// by the relay coordinator.
type GameDropper interface {
	DropGame(gameID model.GameID)
}

// Service periodically deletes idle games
type Service struct {
	storage  storage.Storage
	bound    BoundCounter
	dropper  GameDropper
	clock    clock.Clock
	logger   *slog.Logger
	ttl      time.Duration
	interval time.Duration
}

// New creates a reaper Service. Zero ttl or interval fall back to defaults.
func New(
	store storage.Storage,
	bound BoundCounter,
	dropper GameDropper,
	clk clock.Clock,
	logger *slog.Logger,
	ttl time.Duration,
	interval time.Duration,
) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Service{
		storage:  store,
		bound:    bound,
		dropper:  dropper,
		clock:    clk,
		logger:   logger.With(slog.String("component", "reaper")),
		ttl:      ttl,
		interval: interval,
	}
}

// Run sweeps on a fixed interval until the context is cancelled
func (s *Service) Run(ctx context.Context) {
	s.logger.Info("reaper started",
		slog.Duration("ttl", s.ttl),
		slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reaper stopped")
			return
		case <-ticker.C:
			if n, err := s.Sweep(ctx); err != nil {
				s.logger.Error("sweep failed", slog.Any("error", err))
			} else if n > 0 {
				s.logger.Info("idle games reaped", slog.Int("count", n))
			}
		}
	}
}

// Sweep deletes every game that has no bound connections and has been idle
// past the TTL, returning how many games were removed. Games with live
// connections are never touched regardless of age.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	games, err := s.storage.ListGames(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := s.clock.Now().Add(-s.ttl)
	reaped := 0
	for _, game := range games {
		if s.bound.BoundCount(game.ID) > 0 {
			continue
		}
		if game.UpdatedAt.After(cutoff) {
			continue
		}

		if err := s.storage.DeleteGame(ctx, game.ID); err != nil {
			s.logger.Warn("failed to reap game",
				slog.String("game_id", string(game.ID)),
				slog.Any("error", err))
			continue
		}
		// a connection may have bound between the check and the delete
		s.dropper.DropGame(game.ID)
		reaped++

		s.logger.Debug("idle game reaped", slog.String("game_id", string(game.ID)))
	}
	return reaped, nil
}
