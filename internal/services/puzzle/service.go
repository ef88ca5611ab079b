package puzzle

import (
	"github.com/Gamify-IT/functionbuilder/internal/dependencies/random"
	"github.com/Gamify-IT/functionbuilder/internal/model"
)

// Service generates puzzle payloads for new games.
//
// The payload is opaque to the rest of the system: the registry stores it
// and hands back snapshots, clients decide how to solve it using the
// operation catalog.
type Service struct {
	random random.Random
}

// New creates a new puzzle Service
func New(random random.Random) *Service {
	return &Service{random: random}
}

// Generate rolls a fresh puzzle: input in [1,10], target in [10,109]
func (s *Service) Generate() model.Puzzle {
	return model.Puzzle{
		Input:        s.random.Intn(model.PuzzleInputMax) + model.PuzzleInputMin,
		TargetOutput: s.random.Intn(100) + model.PuzzleTargetMin,
	}
}
