package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/Gamify-IT/functionbuilder/internal/dependencies/clock"
	"github.com/Gamify-IT/functionbuilder/internal/dependencies/random"
	"github.com/Gamify-IT/functionbuilder/internal/relay"
	"github.com/Gamify-IT/functionbuilder/internal/services/puzzle"
	"github.com/Gamify-IT/functionbuilder/internal/services/registry"
	"github.com/Gamify-IT/functionbuilder/internal/storage"
	"github.com/Gamify-IT/functionbuilder/internal/storage/memory"
	redisstorage "github.com/Gamify-IT/functionbuilder/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	PuzzleService *puzzle.Service
	Registry      *registry.Controller
	Coordinator   *relay.Coordinator
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	puzzleService := puzzle.New(rnd)
	reg := registry.NewController(store, puzzleService, clk, rnd, logger)
	coordinator := relay.NewCoordinator(reg, logger)

	return &App{
		Storage:       store,
		Clock:         clk,
		Random:        rnd,
		PuzzleService: puzzleService,
		Registry:      reg,
		Coordinator:   coordinator,
	}
}
