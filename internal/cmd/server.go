package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/gridchain/fantasydraft/internal/draft/controller"
	"github.com/gridchain/fantasydraft/internal/draft/gateway"
	"github.com/gridchain/fantasydraft/internal/models"
)

func setupServer(ctrl *controller.Controller, gw *gateway.Gateway, draftID string) *http.Server {
	mux := http.NewServeMux()

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("/ws/draft", func(w http.ResponseWriter, r *http.Request) {
		if err := gw.Serve(w, r, draftID); err != nil {
			log.Error().Err(err).Msg("websocket upgrade failed")
		}
	})

	mux.HandleFunc("/api/draft/view", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ctrl.View())
	})

	mux.HandleFunc("/api/draft/pick", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			TeamID string        `json:"team_id"`
			Player models.Player `json:"player"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if err := ctrl.PlacePick(r.Context(), req.TeamID, req.Player); err != nil {
			writeActionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ctrl.View())
	})

	mux.HandleFunc("/api/draft/pause", commandHandler(ctrl, ctrl.Pause))
	mux.HandleFunc("/api/draft/resume", commandHandler(ctrl, ctrl.Resume))
	mux.HandleFunc("/api/draft/reset", commandHandler(ctrl, ctrl.Reset))

	return &http.Server{
		Addr:    ":" + getEnv("PORT", "8080"),
		Handler: c.Handler(mux),
	}
}

// commandHandler wraps a commissioner action as a POST endpoint that returns
// the refreshed view on success.
func commandHandler(ctrl *controller.Controller, action func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := action(r.Context()); err != nil {
			writeActionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ctrl.View())
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// writeActionError maps controller rejections to 409s. Rejections are no-ops
// on the draft, so the client just refreshes its view.
func writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, controller.ErrNotLive),
		errors.Is(err, controller.ErrNotOnClock),
		errors.Is(err, controller.ErrPlayerTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
