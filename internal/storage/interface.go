package storage

import (
	"context"

	"github.com/Gamify-IT/functionbuilder/internal/model"
)

// Storage defines the interface for game persistence.
//
// Implementations must be safe for concurrent use. Games returned from any
// method are copies; mutating them does not affect stored state.
type Storage interface {
	// SaveGame stores a game, replacing any existing game with the same id
	SaveGame(ctx context.Context, game *model.Game) error

	// GetGame returns a copy of the game, or model.ErrGameNotFound
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)

	// UpdateGame applies fn to the stored game as an atomic read-modify-write.
	// No concurrent caller observes a partially applied mutation. If fn
	// returns an error the stored game is left untouched and the error is
	// returned. Returns a copy of the updated game.
	UpdateGame(ctx context.Context, id model.GameID, fn func(*model.Game) error) (*model.Game, error)

	// DeleteGame removes a game. Deleting an absent id is not an error.
	DeleteGame(ctx context.Context, id model.GameID) error

	// ListGames returns a point-in-time snapshot of all stored games
	ListGames(ctx context.Context) ([]*model.Game, error)

	// GameExists reports whether a game with the given id is stored
	GameExists(ctx context.Context, id model.GameID) (bool, error)
}
