package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Gamify-IT/functionbuilder/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: complete game flow from creation through relay to deletion
func (s *IntegrationSuite) TestCompleteGameFlow() {
	// Queue rolls for one creation: game id, creator id, puzzle input/target
	s.app.MockRandom.QueueString("g000000000001", "creator")
	s.app.MockRandom.QueueIntn(3, 32)

	// Step 1: Alice creates a game
	game, err := s.app.Registry.CreateGame(s.ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(model.GameID("g000000000001"), game.ID)
	s.Equal(model.Puzzle{Input: 4, TargetOutput: 42}, game.Puzzle)
	creator := game.Players[0]

	// Step 2: a second player joins and sees the same puzzle
	joined, err := s.app.Registry.JoinGame(s.ctx, game.ID, "p2")
	s.Require().NoError(err)
	s.Equal(game.Puzzle, joined.Puzzle)
	s.Equal([]model.PlayerID{creator, "p2"}, joined.Players)

	// Step 3: a third join is a no-op
	overflow, err := s.app.Registry.JoinGame(s.ctx, game.ID, "p3")
	s.Require().NoError(err)
	s.Len(overflow.Players, 2)

	// Step 4: both players attach relay connections
	first := s.app.Coordinator.NewClient(nil)
	second := s.app.Coordinator.NewClient(nil)
	s.Require().NoError(s.app.Coordinator.Bind(s.ctx, first, game.ID, creator))
	s.Require().NoError(s.app.Coordinator.Bind(s.ctx, second, game.ID, "p2"))
	s.Equal(2, s.app.Coordinator.BoundCount(game.ID))

	// Step 5: deleting the game drops both connections
	s.Require().NoError(s.app.Registry.DeleteGame(s.ctx, game.ID))
	s.app.Coordinator.DropGame(game.ID)
	s.Equal(0, s.app.Coordinator.BoundCount(game.ID))

	_, err = s.app.Registry.GetGame(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *IntegrationSuite) TestListingsTrackLifecycle() {
	s.app.MockRandom.QueueString("g000000000001", "creator1")
	s.app.MockRandom.QueueIntn(0, 0)
	first, err := s.app.Registry.CreateGame(s.ctx, "Alice")
	s.Require().NoError(err)

	s.app.MockRandom.QueueString("g000000000002", "creator2")
	s.app.MockRandom.QueueIntn(0, 0)
	second, err := s.app.Registry.CreateGame(s.ctx, "Bob")
	s.Require().NoError(err)

	_, err = s.app.Registry.JoinGame(s.ctx, second.ID, "p2")
	s.Require().NoError(err)

	listings, err := s.app.Registry.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Len(listings, 2)

	counts := map[model.GameID]int{}
	for _, l := range listings {
		counts[l.ID] = l.PlayerCount
	}
	s.Equal(1, counts[first.ID])
	s.Equal(2, counts[second.ID])

	s.Require().NoError(s.app.Registry.DeleteGame(s.ctx, first.ID))
	listings, _ = s.app.Registry.ListGames(s.ctx)
	s.Len(listings, 1)
}
