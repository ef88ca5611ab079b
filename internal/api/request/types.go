package request

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	PlayerName string `json:"playerName"`
}

// JoinGameRequest is the request body for joining a game
type JoinGameRequest struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
}

// LeaveGameRequest is the request body for leaving a game
type LeaveGameRequest struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
}
