package relay

import (
	"encoding/json"

	"github.com/Gamify-IT/functionbuilder/internal/model"
)

// ClientMessage is the inbound data-plane frame. Every frame both (re)binds
// the connection to its (game, player) pair and carries a move to relay.
// The move itself is opaque JSON.
type ClientMessage struct {
	GameID   model.GameID    `json:"gameId"`
	PlayerID model.PlayerID  `json:"playerId"`
	Move     json.RawMessage `json:"move"`
}

// PlayerCountMessage is emitted to a connection when its player first takes
// a seat, reporting the game's occupancy at that moment.
type PlayerCountMessage struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// TypePlayerCount is the type tag of PlayerCountMessage
const TypePlayerCount = "playerCount"

// MoveMessage is a relayed move as delivered to the sender's peers
type MoveMessage struct {
	Move     json.RawMessage `json:"move"`
	PlayerID model.PlayerID  `json:"playerId"`
}
