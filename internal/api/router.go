package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Gamify-IT/functionbuilder/internal/api/handler"
	"github.com/Gamify-IT/functionbuilder/internal/middleware"
	"github.com/Gamify-IT/functionbuilder/internal/relay"
	"github.com/Gamify-IT/functionbuilder/internal/services/registry"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Registry    *registry.Controller
	Coordinator *relay.Coordinator
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	gameHandler := handler.NewGameHandler(cfg.Registry, cfg.Coordinator)

	r.Use(middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler))
	r.Use(middleware.Logging(cfg.Logger))

	r.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/game/create", gameHandler.Create).Methods(http.MethodPost)
	r.HandleFunc("/game/join", gameHandler.Join).Methods(http.MethodPost)
	r.HandleFunc("/game/leave", gameHandler.Leave).Methods(http.MethodPost)
	r.HandleFunc("/game/{id}", gameHandler.Delete).Methods(http.MethodDelete)

	// Data plane: move relay
	r.HandleFunc("/ws", cfg.Coordinator.ServeWS).Methods(http.MethodGet)

	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
