package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size in bytes
	maxMessageSize = 4096

	// Buffer size for outgoing messages
	sendBufferSize = 64
)

// Client is one live relay connection. It starts unbound; the first inbound
// frame binds it to a (game, player) pair via the coordinator.
type Client struct {
	coordinator *Coordinator
	conn        *websocket.Conn
	send        chan []byte
	logger      *slog.Logger
}

// trySend queues a message without blocking. A full buffer drops the
// message: a slow peer must not stall the sender or its other peers.
func (c *Client) trySend(message []byte) bool {
	select {
	case c.send <- message:
		return true
	default:
		c.logger.Warn("relay message dropped - client buffer full")
		return false
	}
}

// readPump pumps inbound frames from the connection into the coordinator.
// It runs once per connection; a read error unbinds the client.
func (c *Client) readPump() {
	defer func() {
		c.coordinator.Unbind(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("relay read error", slog.Any("error", err))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Debug("relay frame unparseable, skipping", slog.Any("error", err))
			continue
		}

		ctx := context.Background()
		if err := c.coordinator.Bind(ctx, c, msg.GameID, msg.PlayerID); err != nil {
			// seat rejection or registry failure: frame is dropped, the
			// connection stays open
			c.logger.Debug("relay bind rejected",
				slog.String("game_id", string(msg.GameID)),
				slog.String("player_id", string(msg.PlayerID)),
				slog.Any("error", err))
			continue
		}

		_ = c.coordinator.Relay(ctx, c, msg.GameID, msg.PlayerID, msg.Move)
	}
}

// writePump pumps queued messages out to the connection and keeps it alive
// with pings. It exits when the send channel closes.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Coordinator dropped this client
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
