package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cbodonnell/snakes/pkg/game/types"
	"github.com/cbodonnell/snakes/pkg/log"
	"github.com/cbodonnell/snakes/pkg/scores"
)

// GameReader is the read-only view of the game the API serves.
type GameReader interface {
	Get(ctx context.Context) (*types.GameState, error)
	Scoreboard(ctx context.Context) ([]scores.Entry, error)
}

func HandleGetScores(game GameReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ranked, err := game.Scoreboard(r.Context())
		if err != nil {
			log.Error("failed to get scoreboard: %v", err)
			http.Error(w, "Failed to get scoreboard", http.StatusInternalServerError)
			return
		}
		if ranked == nil {
			ranked = []scores.Entry{}
		}
		writeJSON(w, ranked)
	}
}

func HandleGetGame(game GameReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameState, err := game.Get(r.Context())
		if err != nil {
			log.Error("failed to get game state: %v", err)
			http.Error(w, "Failed to get game state", http.StatusInternalServerError)
			return
		}
		writeJSON(w, gameState)
	}
}

func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
