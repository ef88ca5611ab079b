package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newMovesCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "moves <game-id> <player-id>",
		Short: "Stream moves for a game over the relay",
		Long: `Connect to the relay websocket as the given player and stream moves
in real-time.

Incoming frames are printed as they arrive:
  - playerCount: the game's occupancy when your seat is taken
  - move: a move relayed from the other player

Each line read from stdin is sent as a move (parsed as JSON when possible,
otherwise sent as a string). Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return streamMoves(args[0], args[1], jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output frames as JSON lines")

	return cmd
}

// relayFrame is an outbound data-plane frame
type relayFrame struct {
	GameID   string          `json:"gameId"`
	PlayerID string          `json:"playerId"`
	Move     json.RawMessage `json:"move"`
}

// inboundFrame covers both server frame shapes
type inboundFrame struct {
	Type     string          `json:"type"`
	Count    int             `json:"count"`
	Move     json.RawMessage `json:"move"`
	PlayerID string          `json:"playerId"`
}

func streamMoves(gameID, playerID string, jsonOutput bool) error {
	wsURL := httpToWS(cfg.ServerURL) + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if !jsonOutput {
		fmt.Printf("Connected to game %s as %s\n", gameID, playerID)
	}

	// An empty first move claims the seat immediately
	if err := sendMove(conn, gameID, playerID, json.RawMessage("null")); err != nil {
		return err
	}

	// Reader: print every inbound frame
	readErr := make(chan error, 1)
	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			printFrame(data, jsonOutput)
		}
	}()

	// Writer: each stdin line is one move
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			var move json.RawMessage
			if json.Valid([]byte(line)) {
				move = json.RawMessage(line)
			} else {
				move, _ = json.Marshal(line)
			}

			if err := sendMove(conn, gameID, playerID, move); err != nil {
				readErr <- err
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		// Clean close so the server unbinds promptly
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		return nil
	case err := <-readErr:
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil
		}
		return fmt.Errorf("connection lost: %w", err)
	}
}

func sendMove(conn *websocket.Conn, gameID, playerID string, move json.RawMessage) error {
	return conn.WriteJSON(relayFrame{
		GameID:   gameID,
		PlayerID: playerID,
		Move:     move,
	})
}

func printFrame(data []byte, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(string(data))
		return
	}

	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		fmt.Println(string(data))
		return
	}

	switch {
	case frame.Type == "playerCount":
		fmt.Printf("[%s] players in game: %d\n", time.Now().Format("15:04:05"), frame.Count)
	case frame.PlayerID != "":
		fmt.Printf("[%s] move from %s: %s\n", time.Now().Format("15:04:05"), frame.PlayerID, string(frame.Move))
	default:
		fmt.Println(string(data))
	}
}

func httpToWS(url string) string {
	url = strings.TrimSuffix(url, "/")
	switch {
	case strings.HasPrefix(url, "https://"):
		return "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		return "ws://" + strings.TrimPrefix(url, "http://")
	default:
		return "ws://" + url
	}
}
