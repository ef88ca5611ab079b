package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Gamify-IT/functionbuilder/internal/dependencies/clock"
	"github.com/Gamify-IT/functionbuilder/internal/dependencies/random"
	"github.com/Gamify-IT/functionbuilder/internal/model"
	"github.com/Gamify-IT/functionbuilder/internal/services/puzzle"
	"github.com/Gamify-IT/functionbuilder/internal/services/registry"
	"github.com/Gamify-IT/functionbuilder/internal/storage/memory"
	"github.com/Gamify-IT/functionbuilder/internal/testutil"
)

type CoordinatorSuite struct {
	suite.Suite
	registry    *registry.Controller
	coordinator *Coordinator
	ctx         context.Context
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	logger := testutil.NopLogger()
	rnd := random.New()
	s.registry = registry.NewController(memory.New(), puzzle.New(rnd), clock.New(), rnd, logger)
	s.coordinator = NewCoordinator(s.registry, logger)
	s.ctx = context.Background()
}

// newClient returns a registered client with no transport attached; tests
// read its outbound queue directly.
func (s *CoordinatorSuite) newClient() *Client {
	return s.coordinator.NewClient(nil)
}

func (s *CoordinatorSuite) recv(client *Client) []byte {
	select {
	case msg, ok := <-client.send:
		s.Require().True(ok, "send channel closed")
		return msg
	case <-time.After(time.Second):
		s.Require().Fail("timed out waiting for message")
		return nil
	}
}

func (s *CoordinatorSuite) expectNothing(client *Client) {
	select {
	case msg := <-client.send:
		s.Require().Fail("unexpected message", "got %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func (s *CoordinatorSuite) createGame() *model.Game {
	game, err := s.registry.CreateGame(s.ctx, "Alice")
	s.Require().NoError(err)
	return game
}

// Bind tests

func (s *CoordinatorSuite) TestBindSeatsPlayerAndEmitsCount() {
	game := s.createGame()
	client := s.newClient()

	err := s.coordinator.Bind(s.ctx, client, game.ID, "p2")
	s.Require().NoError(err)

	var count PlayerCountMessage
	s.Require().NoError(json.Unmarshal(s.recv(client), &count))
	s.Equal(TypePlayerCount, count.Type)
	s.Equal(2, count.Count)

	updated, _ := s.registry.GetGame(s.ctx, game.ID)
	s.True(updated.HasPlayer("p2"))
	s.Equal(1, s.coordinator.BoundCount(game.ID))
}

func (s *CoordinatorSuite) TestBindExistingMemberEmitsCurrentOccupancy() {
	game := s.createGame()
	creator := game.Players[0]
	client := s.newClient()

	s.Require().NoError(s.coordinator.Bind(s.ctx, client, game.ID, creator))

	var count PlayerCountMessage
	s.Require().NoError(json.Unmarshal(s.recv(client), &count))
	s.Equal(1, count.Count)
}

func (s *CoordinatorSuite) TestBindAutoCreatesPlaceholderGame() {
	client := s.newClient()

	err := s.coordinator.Bind(s.ctx, client, "ghost00000001", "p1")
	s.Require().NoError(err)

	game, err := s.registry.GetGame(s.ctx, "ghost00000001")
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"p1"}, game.Players)
	s.Equal(model.Puzzle{}, game.Puzzle)
}

func (s *CoordinatorSuite) TestBindRejectsThirdSeat() {
	game := s.createGame()
	_, _ = s.registry.JoinGame(s.ctx, game.ID, "p2")

	err := s.coordinator.Bind(s.ctx, s.newClient(), game.ID, "p3")
	s.ErrorIs(err, model.ErrSeatFull)

	// the intruder was not seated
	updated, _ := s.registry.GetGame(s.ctx, game.ID)
	s.False(updated.HasPlayer("p3"))
}

func (s *CoordinatorSuite) TestBindRejectsSeatHeldByAnotherConnection() {
	game := s.createGame()

	first := s.newClient()
	s.Require().NoError(s.coordinator.Bind(s.ctx, first, game.ID, "p2"))

	err := s.coordinator.Bind(s.ctx, s.newClient(), game.ID, "p2")
	s.ErrorIs(err, model.ErrSeatFull)
}

func (s *CoordinatorSuite) TestBindSamePairIsIdempotent() {
	game := s.createGame()
	client := s.newClient()

	s.Require().NoError(s.coordinator.Bind(s.ctx, client, game.ID, "p2"))
	s.recv(client) // playerCount

	// every subsequent frame rebinds; no duplicate notification
	s.Require().NoError(s.coordinator.Bind(s.ctx, client, game.ID, "p2"))
	s.expectNothing(client)
	s.Equal(1, s.coordinator.BoundCount(game.ID))
}

func (s *CoordinatorSuite) TestRebindIsLastWriteWins() {
	first := s.createGame()
	second := s.createGame()
	client := s.newClient()

	s.Require().NoError(s.coordinator.Bind(s.ctx, client, first.ID, "p2"))
	s.recv(client)
	s.Require().NoError(s.coordinator.Bind(s.ctx, client, second.ID, "p2"))
	s.recv(client)

	s.Equal(0, s.coordinator.BoundCount(first.ID))
	s.Equal(1, s.coordinator.BoundCount(second.ID))

	// the old seat is free again
	s.Require().NoError(s.coordinator.Bind(s.ctx, s.newClient(), first.ID, "p2"))
}

// Relay tests

func (s *CoordinatorSuite) TestRelayDeliversToPeerOnly() {
	game := s.createGame()
	creator := game.Players[0]

	sender := s.newClient()
	peer := s.newClient()
	s.Require().NoError(s.coordinator.Bind(s.ctx, sender, game.ID, creator))
	s.Require().NoError(s.coordinator.Bind(s.ctx, peer, game.ID, "p2"))
	s.recv(sender)
	s.recv(peer)

	move := json.RawMessage(`{"operation":3}`)
	s.Require().NoError(s.coordinator.Relay(s.ctx, sender, game.ID, creator, move))

	var relayed MoveMessage
	s.Require().NoError(json.Unmarshal(s.recv(peer), &relayed))
	s.Equal(creator, relayed.PlayerID)
	s.JSONEq(`{"operation":3}`, string(relayed.Move))

	// no echo back to the sender
	s.expectNothing(sender)
}

func (s *CoordinatorSuite) TestRelayIsolatesGames() {
	first := s.createGame()
	second := s.createGame()

	sender := s.newClient()
	bystander := s.newClient()
	s.Require().NoError(s.coordinator.Bind(s.ctx, sender, first.ID, first.Players[0]))
	s.Require().NoError(s.coordinator.Bind(s.ctx, bystander, second.ID, second.Players[0]))
	s.recv(sender)
	s.recv(bystander)

	s.Require().NoError(s.coordinator.Relay(s.ctx, sender, first.ID, first.Players[0], json.RawMessage(`1`)))

	s.expectNothing(bystander)
}

func (s *CoordinatorSuite) TestRelayDropsNonParticipantSilently() {
	game := s.createGame()
	_, _ = s.registry.JoinGame(s.ctx, game.ID, "p2")

	peer := s.newClient()
	s.Require().NoError(s.coordinator.Bind(s.ctx, peer, game.ID, "p2"))
	s.recv(peer)

	err := s.coordinator.Relay(s.ctx, s.newClient(), game.ID, "stranger", json.RawMessage(`1`))
	s.Require().NoError(err)
	s.expectNothing(peer)
}

func (s *CoordinatorSuite) TestRelayDropsUnknownGameSilently() {
	err := s.coordinator.Relay(s.ctx, s.newClient(), "nonexistent", "p1", json.RawMessage(`1`))
	s.NoError(err)
}

func (s *CoordinatorSuite) TestRelayFansOutToAllOtherListeners() {
	game := s.createGame()
	creator := game.Players[0]

	sender := s.newClient()
	peer := s.newClient()
	s.Require().NoError(s.coordinator.Bind(s.ctx, sender, game.ID, creator))
	s.Require().NoError(s.coordinator.Bind(s.ctx, peer, game.ID, "p2"))
	s.recv(sender)
	s.recv(peer)

	// fan-out must not assume exactly one peer: force an extra listener
	extra := s.newClient()
	s.coordinator.mu.Lock()
	s.coordinator.games[game.ID][extra] = struct{}{}
	s.coordinator.mu.Unlock()

	s.Require().NoError(s.coordinator.Relay(s.ctx, sender, game.ID, creator, json.RawMessage(`1`)))

	s.NotNil(s.recv(peer))
	s.NotNil(s.recv(extra))
	s.expectNothing(sender)
}

func (s *CoordinatorSuite) TestRelaySlowPeerNeverBlocks() {
	game := s.createGame()
	creator := game.Players[0]

	sender := s.newClient()
	slow := s.newClient()
	s.Require().NoError(s.coordinator.Bind(s.ctx, sender, game.ID, creator))
	s.Require().NoError(s.coordinator.Bind(s.ctx, slow, game.ID, "p2"))
	s.recv(sender)

	// nobody drains slow's queue; overflow must drop rather than stall
	done := make(chan struct{})
	go func() {
		for i := 0; i < sendBufferSize*2; i++ {
			_ = s.coordinator.Relay(s.ctx, sender, game.ID, creator, json.RawMessage(`1`))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.Require().Fail("relay blocked on a slow peer")
	}
}

func (s *CoordinatorSuite) TestRelayPreservesSenderOrder() {
	game := s.createGame()
	creator := game.Players[0]

	sender := s.newClient()
	peer := s.newClient()
	s.Require().NoError(s.coordinator.Bind(s.ctx, sender, game.ID, creator))
	s.Require().NoError(s.coordinator.Bind(s.ctx, peer, game.ID, "p2"))
	s.recv(sender)
	s.recv(peer)

	for i := 0; i < 10; i++ {
		move := json.RawMessage(fmt.Sprintf(`%d`, i))
		s.Require().NoError(s.coordinator.Relay(s.ctx, sender, game.ID, creator, move))
	}

	for i := 0; i < 10; i++ {
		var relayed MoveMessage
		s.Require().NoError(json.Unmarshal(s.recv(peer), &relayed))
		s.Equal(fmt.Sprintf("%d", i), string(relayed.Move))
	}
}

// Unbind / DropGame tests

func (s *CoordinatorSuite) TestUnbindKeepsGameMembership() {
	game := s.createGame()
	client := s.newClient()
	s.Require().NoError(s.coordinator.Bind(s.ctx, client, game.ID, "p2"))
	s.recv(client)

	s.coordinator.Unbind(client)

	s.Equal(0, s.coordinator.BoundCount(game.ID))
	updated, err := s.registry.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.True(updated.HasPlayer("p2"), "membership survives disconnect")
}

func (s *CoordinatorSuite) TestUnbindFreesSeatForNewConnection() {
	game := s.createGame()
	client := s.newClient()
	s.Require().NoError(s.coordinator.Bind(s.ctx, client, game.ID, "p2"))
	s.coordinator.Unbind(client)

	err := s.coordinator.Bind(s.ctx, s.newClient(), game.ID, "p2")
	s.NoError(err)
}

func (s *CoordinatorSuite) TestUnbindTwiceIsSafe() {
	client := s.newClient()
	s.coordinator.Unbind(client)
	s.coordinator.Unbind(client)
}

func (s *CoordinatorSuite) TestUnbindUnboundClientIsSafe() {
	client := s.newClient()
	s.coordinator.Unbind(client)

	_, ok := <-client.send
	s.False(ok, "send channel closed on unbind")
}

func (s *CoordinatorSuite) TestDropGameTerminatesBoundConnections() {
	game := s.createGame()
	first := s.newClient()
	second := s.newClient()
	s.Require().NoError(s.coordinator.Bind(s.ctx, first, game.ID, game.Players[0]))
	s.Require().NoError(s.coordinator.Bind(s.ctx, second, game.ID, "p2"))
	s.recv(first)
	s.recv(second)

	s.coordinator.DropGame(game.ID)

	s.Equal(0, s.coordinator.BoundCount(game.ID))
	_, ok := <-first.send
	s.False(ok)
	_, ok = <-second.send
	s.False(ok)

	// readPump's unbind after the drop must not double-close
	s.coordinator.Unbind(first)
	s.coordinator.Unbind(second)
}

func (s *CoordinatorSuite) TestDropGameUnknownIsNoOp() {
	s.coordinator.DropGame("nonexistent")
}
