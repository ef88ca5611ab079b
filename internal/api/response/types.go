package response

import (
	"github.com/Gamify-IT/functionbuilder/internal/model"
)

// GameListing is one entry of the game list
type GameListing struct {
	GameID      string `json:"gameId"`
	PlayerCount int    `json:"playerCount"`
}

// GameListingFromModel converts a model.GameListing to a response GameListing
func GameListingFromModel(l model.GameListing) GameListing {
	return GameListing{
		GameID:      string(l.ID),
		PlayerCount: l.PlayerCount,
	}
}

// CreatedGame is the response to a successful game creation
type CreatedGame struct {
	GameID       string `json:"gameId"`
	Input        int    `json:"input"`
	TargetOutput int    `json:"targetOutput"`
}

// CreatedGameFromModel converts a created model.Game to a response
func CreatedGameFromModel(g *model.Game) CreatedGame {
	return CreatedGame{
		GameID:       string(g.ID),
		Input:        g.Puzzle.Input,
		TargetOutput: g.Puzzle.TargetOutput,
	}
}

// GameState is the puzzle snapshot returned on join
type GameState struct {
	Input        int `json:"input"`
	TargetOutput int `json:"targetOutput"`
}

// GameStateFromModel converts a game's puzzle to a response GameState
func GameStateFromModel(g *model.Game) GameState {
	return GameState{
		Input:        g.Puzzle.Input,
		TargetOutput: g.Puzzle.TargetOutput,
	}
}

// Message is a plain confirmation message
type Message struct {
	Message string `json:"message"`
}
