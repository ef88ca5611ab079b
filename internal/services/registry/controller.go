package registry

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Gamify-IT/functionbuilder/internal/dependencies/clock"
	"github.com/Gamify-IT/functionbuilder/internal/dependencies/random"
	"github.com/Gamify-IT/functionbuilder/internal/model"
	"github.com/Gamify-IT/functionbuilder/internal/services/puzzle"
	"github.com/Gamify-IT/functionbuilder/internal/storage"
)

const (
	// GameIDLength is the length of generated game ids
	GameIDLength = 13
	// PlayerIDLength is the length of generated player ids
	PlayerIDLength = 7
	// maxIDAttempts bounds the collision-retry loop during game creation
	maxIDAttempts = 10
)

// Controller owns the authoritative set of games: it enforces the seat
// limit, join/leave/delete lifecycle, and id uniqueness. Both the HTTP
// control plane and the move relay go through it.
type Controller struct {
	storage storage.Storage
	puzzles *puzzle.Service
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new registry Controller
func NewController(
	storage storage.Storage,
	puzzles *puzzle.Service,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		puzzles: puzzles,
		clock:   clock,
		random:  random,
		logger:  logger.With(slog.String("component", "registry")),
	}
}

// CreateGame allocates a fresh game seeded with a puzzle and the creator as
// its only player. Fails with model.ErrIDSpaceExhausted only if id
// generation cannot find a free slot within bounded retries.
func (c *Controller) CreateGame(ctx context.Context, creatorName string) (*model.Game, error) {
	id, err := c.freshGameID(ctx)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	creator := model.PlayerID(c.random.String(PlayerIDLength, random.Base36Alphabet))

	game := &model.Game{
		ID:          id,
		Players:     []model.PlayerID{creator},
		CreatorName: creatorName,
		Puzzle:      c.puzzles.Generate(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("creator", string(creator)))

	return game, nil
}

// JoinGame seats a player in an existing game. Joining is idempotent: a
// player already seated, or a join against a full game, is a no-op. The
// stored puzzle snapshot is returned either way.
func (c *Controller) JoinGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	return c.storage.UpdateGame(ctx, gameID, func(g *model.Game) error {
		if g.HasPlayer(playerID) || g.IsFull() {
			return nil
		}
		g.Players = append(g.Players, playerID)
		g.UpdatedAt = c.clock.Now()
		return nil
	})
}

// LeaveGame removes a player from a game's seat list. Removing a player who
// is not seated is a no-op. The game itself is kept, even when empty;
// explicit DeleteGame (or the optional reaper) disposes of it.
func (c *Controller) LeaveGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) error {
	_, err := c.storage.UpdateGame(ctx, gameID, func(g *model.Game) error {
		for i, p := range g.Players {
			if p == playerID {
				g.Players = append(g.Players[:i], g.Players[i+1:]...)
				g.UpdatedAt = c.clock.Now()
				break
			}
		}
		return nil
	})
	return err
}

// DeleteGame removes a game from the registry. Callers holding relay
// bindings for the game are expected to drop them afterwards.
func (c *Controller) DeleteGame(ctx context.Context, gameID model.GameID) error {
	exists, err := c.storage.GameExists(ctx, gameID)
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrGameNotFound
	}

	if err := c.storage.DeleteGame(ctx, gameID); err != nil {
		return err
	}

	c.logger.Info("game deleted", slog.String("game_id", string(gameID)))
	return nil
}

// GetGame returns a read-only copy of a game
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// ListGames returns a point-in-time listing of all games
func (c *Controller) ListGames(ctx context.Context) ([]model.GameListing, error) {
	games, err := c.storage.ListGames(ctx)
	if err != nil {
		return nil, err
	}

	listings := make([]model.GameListing, 0, len(games))
	for _, g := range games {
		listings = append(listings, model.GameListing{
			ID:          g.ID,
			PlayerCount: len(g.Players),
		})
	}
	return listings, nil
}

// EnsureGame returns the game with the given id, creating an empty
// placeholder when it is absent. This is the relay path's defensive
// auto-creation: a move can reference a game the control plane never made.
// Placeholder games carry no puzzle payload and no creator name.
func (c *Controller) EnsureGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err == nil {
		return game, nil
	}
	if !errors.Is(err, model.ErrGameNotFound) {
		return nil, err
	}

	now := c.clock.Now()
	game = &model.Game{
		ID:        gameID,
		Players:   []model.PlayerID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("placeholder game auto-created on relay path",
		slog.String("game_id", string(gameID)))

	return game, nil
}

// freshGameID generates a collision-checked game id
func (c *Controller) freshGameID(ctx context.Context) (model.GameID, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := model.GameID(c.random.String(GameIDLength, random.Base36Alphabet))
		exists, err := c.storage.GameExists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", model.ErrIDSpaceExhausted
}
