package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case CreatedGame:
		o.printCreatedGame(v)
	case GameState:
		o.printGameState(v)
	case []GameListing:
		o.printGameList(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// GameListing response type (matches API)
type GameListing struct {
	GameID      string `json:"gameId"`
	PlayerCount int    `json:"playerCount"`
}

// CreatedGame response type
type CreatedGame struct {
	GameID       string `json:"gameId"`
	Input        int    `json:"input"`
	TargetOutput int    `json:"targetOutput"`
}

// GameState response type
type GameState struct {
	Input        int `json:"input"`
	TargetOutput int `json:"targetOutput"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printCreatedGame(g CreatedGame) {
	fmt.Printf("Game: %s\n", g.GameID)
	fmt.Printf("Input: %d\n", g.Input)
	fmt.Printf("Target Output: %d\n", g.TargetOutput)
}

func (o *Output) printGameState(g GameState) {
	fmt.Printf("Input: %d\n", g.Input)
	fmt.Printf("Target Output: %d\n", g.TargetOutput)
}

func (o *Output) printGameList(listings []GameListing) {
	if len(listings) == 0 {
		fmt.Println("No games")
		return
	}
	fmt.Printf("Games (%d):\n", len(listings))
	for _, l := range listings {
		fmt.Printf("  - %s (%d/2 players)\n", l.GameID, l.PlayerCount)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
