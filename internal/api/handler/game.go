package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Gamify-IT/functionbuilder/internal/api/request"
	"github.com/Gamify-IT/functionbuilder/internal/api/response"
	"github.com/Gamify-IT/functionbuilder/internal/model"
	"github.com/Gamify-IT/functionbuilder/internal/relay"
	"github.com/Gamify-IT/functionbuilder/internal/services/registry"
)

// GameHandler handles game lifecycle endpoints
type GameHandler struct {
	registry    *registry.Controller
	coordinator *relay.Coordinator
}

// NewGameHandler creates a new game handler
func NewGameHandler(reg *registry.Controller, coordinator *relay.Coordinator) *GameHandler {
	return &GameHandler{
		registry:    reg,
		coordinator: coordinator,
	}
}

// List handles GET /games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	listings, err := h.registry.ListGames(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]response.GameListing, 0, len(listings))
	for _, l := range listings {
		out = append(out, response.GameListingFromModel(l))
	}
	response.JSON(w, http.StatusOK, out)
}

// Create handles POST /game/create
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Allow empty body; the creator name is purely informational
		req = request.CreateGameRequest{}
	}

	game, err := h.registry.CreateGame(r.Context(), req.PlayerName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CreatedGameFromModel(game))
}

// Join handles POST /game/join
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req request.JoinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.GameID == "" || req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("gameId and playerId are required"))
		return
	}

	game, err := h.registry.JoinGame(r.Context(), model.GameID(req.GameID), model.PlayerID(req.PlayerID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStateFromModel(game))
}

// Leave handles POST /game/leave
func (h *GameHandler) Leave(w http.ResponseWriter, r *http.Request) {
	var req request.LeaveGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.GameID == "" || req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("gameId and playerId are required"))
		return
	}

	if err := h.registry.LeaveGame(r.Context(), model.GameID(req.GameID), model.PlayerID(req.PlayerID)); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Message{Message: "Player removed"})
}

// Delete handles DELETE /game/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	if err := h.registry.DeleteGame(r.Context(), gameID); err != nil {
		WriteError(w, err)
		return
	}

	// Bindings outlive the registry entry until explicitly dropped
	h.coordinator.DropGame(gameID)

	response.JSON(w, http.StatusOK, response.Message{Message: "Game deleted"})
}
