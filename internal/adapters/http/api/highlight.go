package api

import (
	"net/http"

	"github.com/okian/sheetboard/pkg/logger"
)

// HighlightHandler recolors winners on demand.
type HighlightHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewHighlightHandler creates a new highlight handler.
func NewHighlightHandler(deps Dependencies, log logger.Logger) *HighlightHandler {
	return &HighlightHandler{deps: deps, log: log}
}

// HandleHighlight handles POST /highlight?mode= requests.
func (h *HighlightHandler) HandleHighlight(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_highlight"
	if r.Method != http.MethodPost {
		failWith(h.log, w, r, NewKind(op, ErrMethodNotAllowed))
		return
	}
	mode, err := modeParam(r)
	if err != nil {
		failWith(h.log, w, r, Wrap(op, err))
		return
	}
	res, err := h.deps.Highlight(r.Context(), mode)
	if err != nil {
		failWith(h.log, w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
