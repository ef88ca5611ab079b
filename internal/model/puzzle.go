package model

// Puzzle generation bounds
const (
	// PuzzleInputMin and PuzzleInputMax bound the puzzle's starting value
	PuzzleInputMin = 1
	PuzzleInputMax = 10

	// PuzzleTargetMin and PuzzleTargetMax bound the value players build towards
	PuzzleTargetMin = 10
	PuzzleTargetMax = 109
)

// Puzzle is the shared payload both players work on: transform Input into
// TargetOutput by composing operations. The coordinator treats it as an
// opaque immutable value; clients interpret it.
type Puzzle struct {
	Input        int
	TargetOutput int
}
