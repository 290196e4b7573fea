package leaderboard

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/okian/sheetboard/internal/adapters/repository"
	"github.com/okian/sheetboard/internal/domain/model"
	"github.com/okian/sheetboard/internal/domain/scoreboard"
	"github.com/okian/sheetboard/pkg/logger"
	"github.com/okian/sheetboard/pkg/metrics"
)

// Highlight kinds, also used as metric labels.
const (
	KindClear = "clear"
	KindSolid = "solid"
	KindTime  = "time"
	KindGuess = "guess"
)

// Highlight summarizes one coloring pass.
type Highlight struct {
	Row     int    `json:"row"`
	Variant string `json:"variant"`
	Painted int    `json:"painted"`
	Failed  int    `json:"failed"`
}

type paint struct {
	kind  string
	cell  repository.Cell
	color repository.Color
}

// SetWinningColors recolors today's row for results. The team span is reset
// to the clear color first, then every winner cell is painted concurrently.
// Individual color failures are logged and counted, never returned. Without a
// row for today nothing happens.
func (e *Engine) SetWinningColors(ctx context.Context, results []model.TeamResult) (Highlight, error) {
	row, ok, err := e.rows.Search(ctx)
	if err != nil {
		return Highlight{}, fmt.Errorf("highlight: %w", err)
	}
	if !ok {
		return Highlight{Variant: "none"}, nil
	}

	h := Highlight{Row: row}
	var paints []paint
	add := func(kind string, color repository.Color, teams []model.TeamResult) {
		for _, t := range teams {
			paints = append(paints, paint{kind: kind, cell: repository.Cell{Row: row, Col: t.Column}, color: color})
		}
	}
	switch w := scoreboard.Compute(results).(type) {
	case scoreboard.NoResult:
		h.Variant = "none"
	case scoreboard.SolidWin:
		h.Variant = KindSolid
		add(KindSolid, e.cfg.palette.Solid, w.Teams)
	case scoreboard.SplitWin:
		h.Variant = "split"
		add(KindTime, e.cfg.palette.Time, w.TimeLeaders)
		add(KindGuess, e.cfg.palette.Guess, w.GuessLeaders)
	default:
		panic(fmt.Sprintf("leaderboard: unhandled winners %T", w))
	}

	if err := e.sheet.SetColor(ctx, e.teamSpan(row), e.cfg.palette.Clear); err != nil {
		h.Failed++
		metrics.RecordHighlight(string(e.mode), KindClear, true)
		e.log.Warn(ctx, "clear highlight failed", logger.Int("row", row), logger.Error(err))
	} else {
		metrics.RecordHighlight(string(e.mode), KindClear, false)
	}

	var painted, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(e.cfg.concurrency)
	for _, p := range paints {
		g.Go(func() error {
			err := e.sheet.SetColor(ctx, repository.CellRange(p.cell), p.color)
			metrics.RecordHighlight(string(e.mode), p.kind, err != nil)
			if err != nil {
				failed.Add(1)
				e.log.Warn(ctx, "highlight failed",
					logger.String("kind", p.kind),
					logger.Int("row", p.cell.Row),
					logger.Int("column", p.cell.Col),
					logger.Error(err),
				)
				return nil
			}
			painted.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	h.Painted = int(painted.Load())
	h.Failed += int(failed.Load())
	metrics.RecordHighlightPass(string(e.mode), h.Variant)
	e.log.Debug(ctx, "highlight pass done",
		logger.String("variant", h.Variant),
		logger.Int("painted", h.Painted),
		logger.Int("failed", h.Failed),
	)
	return h, nil
}
