package redis

import (
	"fmt"

	"github.com/Gamify-IT/functionbuilder/internal/model"
)

// Key prefix for all coordinator data
const keyPrefix = "fnbuilder"

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gameIndexKey returns the Redis key for the SET of all game keys
func gameIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}
