package model

import "time"

// GameID uniquely identifies a game session
type GameID string

// PlayerID uniquely identifies a player within the system
type PlayerID string

// MaxPlayers is the seat limit for a game session
const MaxPlayers = 2

// Game represents a puzzle session shared by up to two players
type Game struct {
	ID GameID

	// Players in join order; the creator is always index 0.
	// Never contains duplicates and never exceeds MaxPlayers.
	Players []PlayerID

	// CreatorName is the display name supplied when the game was created.
	// Empty for games auto-created on the relay path.
	CreatorName string

	// Puzzle is the payload seeded at creation, immutable afterwards.
	// Zero-valued for placeholder games auto-created on the relay path.
	Puzzle Puzzle

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPlayer returns true if the given player occupies a seat
func (g *Game) HasPlayer(playerID PlayerID) bool {
	for _, p := range g.Players {
		if p == playerID {
			return true
		}
	}
	return false
}

// IsFull returns true if no seats remain
func (g *Game) IsFull() bool {
	return len(g.Players) >= MaxPlayers
}

// Clone returns a deep copy of the game.
// Storage hands out clones so callers never share the stored instance.
func (g *Game) Clone() *Game {
	c := *g
	c.Players = make([]PlayerID, len(g.Players))
	copy(c.Players, g.Players)
	return &c
}

// GameListing is a point-in-time summary of a game for list endpoints
type GameListing struct {
	ID          GameID
	PlayerCount int
}
