// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/sheetboard/internal/adapters/repository"
	"github.com/okian/sheetboard/internal/domain/directory"
	"github.com/okian/sheetboard/internal/domain/leaderboard"
	"github.com/okian/sheetboard/internal/domain/model"
	"github.com/okian/sheetboard/internal/domain/scoreboard"
	"github.com/okian/sheetboard/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Submit records a score, recolors winners and returns the standings.
	Submit(ctx context.Context, mode model.Mode, team, raw string) (scoreboard.Standings, error)
	// Standings returns today's standings.
	Standings(ctx context.Context, mode model.Mode) (scoreboard.Standings, error)
	// Highlight recolors today's winners from the current scores.
	Highlight(ctx context.Context, mode model.Mode) (leaderboard.Highlight, error)
	// Link returns a browser URL for the mode's sheet.
	Link(ctx context.Context, mode model.Mode) (string, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	scoresHandler    *ScoresHandler
	highlightHandler *HighlightHandler
	log              logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		scoresHandler:    NewScoresHandler(deps, log),
		highlightHandler: NewHighlightHandler(deps, log),
		log:              log,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(path, endpoint string, h http.HandlerFunc) {
		mux.Handle(path, RequestIDMiddleware(MetricsMiddleware(h, endpoint), s.log))
	}
	route("/healthz", "healthz", s.healthHandler.HandleHealth)
	route("/stats", "stats", s.statsHandler.HandleStats)
	route("/scores", "scores", s.scoresHandler.HandleScores)
	route("/link", "link", s.scoresHandler.HandleLink)
	route("/highlight", "highlight", s.highlightHandler.HandleHighlight)
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: RequestIDFrom(r.Context())})
}

// classify maps error kinds from lower layers to a status and an error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, "method_not_allowed"
	case errors.Is(err, model.ErrUnknownMode):
		return http.StatusBadRequest, "unknown_mode"
	case errors.Is(err, directory.ErrTeamNotFound):
		return http.StatusNotFound, "team_not_found"
	case errors.Is(err, repository.ErrSheetNotFound):
		return http.StatusNotFound, "sheet_not_found"
	case errors.Is(err, repository.ErrStoreRequest):
		return http.StatusBadGateway, "store_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func failWith(log logger.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		log.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", RequestIDFrom(r.Context())),
			logger.Error(err),
		)
	}
	writeError(w, r, status, code, err)
}

// modeParam reads ?mode=, defaulting to normal.
func modeParam(r *http.Request) (model.Mode, error) {
	raw := r.URL.Query().Get("mode")
	if raw == "" {
		return model.ModeNormal, nil
	}
	return model.ParseMode(raw)
}
