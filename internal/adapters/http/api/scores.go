package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/sheetboard/internal/domain/model"
	"github.com/okian/sheetboard/internal/domain/scoreboard"
	"github.com/okian/sheetboard/internal/domain/scoring"
	"github.com/okian/sheetboard/pkg/logger"
)

// scoreRequest mirrors the OpenAPI schema for POST /scores.
type scoreRequest struct {
	Team  string `json:"team"`
	Mode  string `json:"mode"`
	Score string `json:"score"`
}

func (s scoreRequest) validate() error {
	switch {
	case strings.TrimSpace(s.Team) == "":
		return errors.New("missing team")
	case strings.TrimSpace(s.Score) == "":
		return errors.New("missing score")
	}
	return nil
}

type resultView struct {
	Team    string       `json:"team"`
	Score   *model.Score `json:"score,omitempty"`
	Display string       `json:"display,omitempty"`
}

type placingView struct {
	Label string   `json:"label"`
	Teams []string `json:"teams"`
}

type standingsResponse struct {
	Mode      model.Mode    `json:"mode"`
	Final     bool          `json:"final"`
	Placings  []placingView `json:"placings"`
	Remaining []string      `json:"remaining"`
	Results   []resultView  `json:"results"`
}

func newStandingsResponse(st scoreboard.Standings) standingsResponse {
	resp := standingsResponse{
		Mode:      st.Mode,
		Final:     st.Final,
		Placings:  make([]placingView, 0, len(st.Placings)),
		Remaining: st.Remaining,
		Results:   make([]resultView, 0, len(st.Results)),
	}
	if resp.Remaining == nil {
		resp.Remaining = []string{}
	}
	for _, p := range st.Placings {
		v := placingView{Label: p.Label, Teams: make([]string, 0, len(p.Teams))}
		for _, t := range p.Teams {
			v.Teams = append(v.Teams, t.TeamName)
		}
		resp.Placings = append(resp.Placings, v)
	}
	for _, r := range st.Results {
		v := resultView{Team: r.TeamName, Score: r.Score}
		if r.Score != nil {
			v.Display = scoring.Format(*r.Score)
		}
		resp.Results = append(resp.Results, v)
	}
	return resp
}

// ScoresHandler handles score submissions and reads.
type ScoresHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps Dependencies, log logger.Logger) *ScoresHandler {
	return &ScoresHandler{deps: deps, log: log}
}

// HandleScores serves POST /scores and GET /scores?mode=.
func (h *ScoresHandler) HandleScores(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.post(w, r)
	case http.MethodGet:
		h.get(w, r)
	default:
		failWith(h.log, w, r, NewKind("api.scores", ErrMethodNotAllowed))
	}
}

func (h *ScoresHandler) post(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_score"
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		failWith(h.log, w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		failWith(h.log, w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	mode := model.ModeNormal
	if req.Mode != "" {
		m, err := model.ParseMode(req.Mode)
		if err != nil {
			failWith(h.log, w, r, Wrap(op, err))
			return
		}
		mode = m
	}

	st, err := h.deps.Submit(r.Context(), mode, req.Team, req.Score)
	if err != nil {
		failWith(h.log, w, r, Wrap(op, err))
		return
	}
	h.log.Info(r.Context(), "score submitted",
		logger.String("team", req.Team),
		logger.String("mode", string(mode)),
		logger.String("request_id", RequestIDFrom(r.Context())),
	)
	writeJSON(w, http.StatusOK, newStandingsResponse(st))
}

func (h *ScoresHandler) get(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_scores"
	mode, err := modeParam(r)
	if err != nil {
		failWith(h.log, w, r, Wrap(op, err))
		return
	}
	st, err := h.deps.Standings(r.Context(), mode)
	if err != nil {
		failWith(h.log, w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, newStandingsResponse(st))
}

// HandleLink serves GET /link?mode=.
func (h *ScoresHandler) HandleLink(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_link"
	if r.Method != http.MethodGet {
		failWith(h.log, w, r, NewKind(op, ErrMethodNotAllowed))
		return
	}
	mode, err := modeParam(r)
	if err != nil {
		failWith(h.log, w, r, Wrap(op, err))
		return
	}
	url, err := h.deps.Link(r.Context(), mode)
	if err != nil {
		failWith(h.log, w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"mode": string(mode), "url": url})
}
