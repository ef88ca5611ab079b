package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/Gamify-IT/functionbuilder/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.GameTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) newGame(id string, players ...string) *model.Game {
	pids := make([]model.PlayerID, len(players))
	for i, p := range players {
		pids[i] = model.PlayerID(p)
	}
	return &model.Game{
		ID:        model.GameID(id),
		Players:   pids,
		Puzzle:    model.Puzzle{Input: 7, TargetOutput: 42},
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *StorageSuite) TestSaveAndGetGame() {
	game := s.newGame("g1", "p1")

	err := s.storage.SaveGame(s.ctx, game)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGame(s.ctx, "g1")
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
	s.Equal(game.Players, retrieved.Players)
	s.Equal(game.Puzzle, retrieved.Puzzle)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestSaveGameAppliesTTL() {
	_ = s.storage.SaveGame(s.ctx, s.newGame("g1", "p1"))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetGame(s.ctx, "g1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestUpdateGameAppliesMutation() {
	_ = s.storage.SaveGame(s.ctx, s.newGame("g1", "p1"))

	updated, err := s.storage.UpdateGame(s.ctx, "g1", func(g *model.Game) error {
		g.Players = append(g.Players, "p2")
		return nil
	})
	s.Require().NoError(err)
	s.Len(updated.Players, 2)

	retrieved, _ := s.storage.GetGame(s.ctx, "g1")
	s.Len(retrieved.Players, 2)
}

func (s *StorageSuite) TestUpdateGameNotFound() {
	_, err := s.storage.UpdateGame(s.ctx, "nonexistent", func(g *model.Game) error {
		return nil
	})
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestUpdateGameErrorLeavesStateUntouched() {
	_ = s.storage.SaveGame(s.ctx, s.newGame("g1", "p1"))
	boom := errors.New("boom")

	_, err := s.storage.UpdateGame(s.ctx, "g1", func(g *model.Game) error {
		g.Players = append(g.Players, "p2")
		return boom
	})
	s.ErrorIs(err, boom)

	retrieved, _ := s.storage.GetGame(s.ctx, "g1")
	s.Len(retrieved.Players, 1)
}

func (s *StorageSuite) TestDeleteGame() {
	_ = s.storage.SaveGame(s.ctx, s.newGame("g1", "p1"))

	err := s.storage.DeleteGame(s.ctx, "g1")
	s.Require().NoError(err)

	_, err = s.storage.GetGame(s.ctx, "g1")
	s.ErrorIs(err, model.ErrGameNotFound)

	games, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *StorageSuite) TestListGames() {
	_ = s.storage.SaveGame(s.ctx, s.newGame("g1", "p1"))
	_ = s.storage.SaveGame(s.ctx, s.newGame("g2", "p1", "p2"))

	games, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Len(games, 2)
}

func (s *StorageSuite) TestListGamesSkipsExpiredEntries() {
	_ = s.storage.SaveGame(s.ctx, s.newGame("g1", "p1"))
	_ = s.storage.SaveGame(s.ctx, s.newGame("g2", "p1"))

	s.mini.FastForward(2 * time.Hour)

	games, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *StorageSuite) TestGameExists() {
	_ = s.storage.SaveGame(s.ctx, s.newGame("g1"))

	exists, err := s.storage.GameExists(s.ctx, "g1")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.storage.GameExists(s.ctx, "nope")
	s.Require().NoError(err)
	s.False(exists)
}
