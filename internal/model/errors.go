package model

import "errors"

// Common errors used across the application
var (
	// ErrGameNotFound is returned when a referenced game id is absent
	ErrGameNotFound = errors.New("game not found")

	// ErrSeatFull is returned when a relay bind is attempted on a full game
	// by an unrecognized player, or for a seat already claimed by another
	// live connection
	ErrSeatFull = errors.New("no seat available in game")

	// ErrIDSpaceExhausted is returned when id generation cannot find a free
	// slot after bounded retries. Practically unreachable.
	ErrIDSpaceExhausted = errors.New("game id generation exhausted retries")

	// ErrNotAParticipant marks a move from a player who is not a member of
	// the game. The relay drops such moves silently; the error exists so the
	// policy is testable.
	ErrNotAParticipant = errors.New("player is not a participant of game")
)
