package relay

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Gamify-IT/functionbuilder/internal/model"
	"github.com/Gamify-IT/functionbuilder/internal/services/registry"
)

// binding is a connection's claim on one seat of one game
type binding struct {
	gameID   model.GameID
	playerID model.PlayerID
}

// Coordinator owns the live connections and their bindings, and fans each
// inbound move out to the other connections of the same game.
//
// A connection is bound to at most one (game, player) pair at a time, and a
// seat is held by at most one live connection. Rebinding a connection is
// last-write-wins. Membership is always validated against the registry, so
// the coordinator never relays on behalf of a non-participant.
type Coordinator struct {
	registry *registry.Controller
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	clients  map[*Client]struct{}
	bindings map[*Client]binding
	seats    map[binding]*Client
	games    map[model.GameID]map[*Client]struct{}
}

// NewCoordinator creates a new relay Coordinator
func NewCoordinator(reg *registry.Controller, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		registry: reg,
		logger:   logger.With(slog.String("component", "relay")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The control plane performs no origin checks either; identity
			// is only the opaque player token.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:  make(map[*Client]struct{}),
		bindings: make(map[*Client]binding),
		seats:    make(map[binding]*Client),
		games:    make(map[model.GameID]map[*Client]struct{}),
	}
}

// NewClient registers a fresh unbound client for a connection
func (c *Coordinator) NewClient(conn *websocket.Conn) *Client {
	client := &Client{
		coordinator: c,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		logger:      c.logger,
	}

	c.mu.Lock()
	c.clients[client] = struct{}{}
	c.mu.Unlock()

	return client
}

// ServeWS upgrades an HTTP request to a relay connection
func (c *Coordinator) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := c.NewClient(conn)
	c.logger.Info("relay connection opened")

	go client.writePump()
	go client.readPump()
}

// Bind claims the (gameID, playerID) seat for the client. The game is
// auto-created as a placeholder when the control plane never made it. The
// player is seated in the game when a seat is free; a full game rejects an
// unrecognized player with model.ErrSeatFull, as does a seat already held
// by another live connection. On the client's first successful bind to a
// pair, a playerCount notification is queued to that client.
func (c *Coordinator) Bind(ctx context.Context, client *Client, gameID model.GameID, playerID model.PlayerID) error {
	seat := binding{gameID: gameID, playerID: playerID}

	// Every inbound frame rebinds; make the steady state cheap
	c.mu.RLock()
	current, bound := c.bindings[client]
	c.mu.RUnlock()
	if bound && current == seat {
		return nil
	}

	game, err := c.registry.EnsureGame(ctx, gameID)
	if err != nil {
		return err
	}

	if !game.HasPlayer(playerID) {
		game, err = c.registry.JoinGame(ctx, gameID, playerID)
		if err != nil {
			return err
		}
		if !game.HasPlayer(playerID) {
			return model.ErrSeatFull
		}
	}

	count, _ := json.Marshal(PlayerCountMessage{Type: TypePlayerCount, Count: len(game.Players)})

	c.mu.Lock()
	if _, ok := c.clients[client]; !ok {
		// client terminated while we were seating it
		c.mu.Unlock()
		return errors.New("client is terminated")
	}
	if holder, taken := c.seats[seat]; taken && holder != client {
		c.mu.Unlock()
		return model.ErrSeatFull
	}

	// Last write wins: release any previous binding of this client
	if prev, ok := c.bindings[client]; ok {
		c.releaseLocked(client, prev)
	}

	c.bindings[client] = seat
	c.seats[seat] = client
	set := c.games[gameID]
	if set == nil {
		set = make(map[*Client]struct{})
		c.games[gameID] = set
	}
	set[client] = struct{}{}

	// Queued under the lock: a concurrent Unbind/DropGame must not close
	// the send channel between seating and notifying
	client.trySend(count)
	c.mu.Unlock()

	c.logger.Info("connection bound",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
		slog.Int("player_count", len(game.Players)))

	return nil
}

// Unbind drops the client and its binding. The game's seat list is left
// untouched: a disconnected player keeps their membership and may rebind
// later. Safe to call for already-dropped clients.
func (c *Coordinator) Unbind(client *Client) {
	c.mu.Lock()
	if _, ok := c.clients[client]; !ok {
		c.mu.Unlock()
		return
	}
	delete(c.clients, client)
	if b, ok := c.bindings[client]; ok {
		c.releaseLocked(client, b)
		c.logger.Info("connection unbound",
			slog.String("game_id", string(b.gameID)),
			slog.String("player_id", string(b.playerID)))
	}
	c.mu.Unlock()

	close(client.send)
}

// Relay validates the sender's membership and fans the move out to every
// other connection bound to the same game. Moves from non-participants are
// dropped silently; delivery to each peer is best-effort and a slow peer
// never blocks the others.
func (c *Coordinator) Relay(ctx context.Context, sender *Client, gameID model.GameID, playerID model.PlayerID, move json.RawMessage) error {
	game, err := c.registry.GetGame(ctx, gameID)
	if err != nil || !game.HasPlayer(playerID) {
		c.logger.Debug("move dropped",
			slog.String("game_id", string(gameID)),
			slog.String("player_id", string(playerID)))
		return nil
	}

	payload, err := json.Marshal(MoveMessage{Move: move, PlayerID: playerID})
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for peer := range c.games[gameID] {
		if peer == sender {
			continue
		}
		peer.trySend(payload)
	}
	return nil
}

// DropGame terminates every connection bound to a game. Called after the
// game is deleted from the registry.
func (c *Coordinator) DropGame(gameID model.GameID) {
	c.mu.Lock()
	set := c.games[gameID]
	delete(c.games, gameID)

	dropped := make([]*Client, 0, len(set))
	for client := range set {
		if b, ok := c.bindings[client]; ok && b.gameID == gameID {
			delete(c.bindings, client)
			delete(c.seats, b)
		}
		delete(c.clients, client)
		dropped = append(dropped, client)
	}
	c.mu.Unlock()

	for _, client := range dropped {
		close(client.send)
	}

	if len(dropped) > 0 {
		c.logger.Info("game connections dropped",
			slog.String("game_id", string(gameID)),
			slog.Int("connections", len(dropped)))
	}
}

// BoundCount returns the number of connections currently bound to a game
func (c *Coordinator) BoundCount(gameID model.GameID) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.games[gameID])
}

// releaseLocked removes a client's seat claim. Caller holds c.mu.
func (c *Coordinator) releaseLocked(client *Client, b binding) {
	delete(c.bindings, client)
	if c.seats[b] == client {
		delete(c.seats, b)
	}
	if set := c.games[b.gameID]; set != nil {
		delete(set, client)
		if len(set) == 0 {
			delete(c.games, b.gameID)
		}
	}
}
