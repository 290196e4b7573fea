// Package leaderboard records daily team scores in a sheet and reports who is
// winning.
//
// Default layout of a mode's sheet, in A1 notation:
//
//	B2:Z2  team headers
//	A3:A5  date markers of the most recent days, newest first
//
// Scores are stored as the raw text the game produced, e.g.
// "7 guesses in 1m 32s", and parsed on every read.
package leaderboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/sheetboard/internal/adapters/repository"
	"github.com/okian/sheetboard/internal/domain/directory"
	"github.com/okian/sheetboard/internal/domain/model"
	"github.com/okian/sheetboard/internal/domain/scoreboard"
	"github.com/okian/sheetboard/internal/domain/scoring"
	"github.com/okian/sheetboard/pkg/logger"
	"github.com/okian/sheetboard/pkg/metrics"
)

// Engine runs the leaderboard for one mode's sheet. It holds no lock on the
// sheet; concurrent writers to the same cell interleave.
type Engine struct {
	mode  model.Mode
	sheet repository.Sheet
	rows  *RowAllocator
	cfg   config
	log   logger.Logger
}

// NewEngine returns an engine for mode over sheet.
func NewEngine(mode model.Mode, sheet repository.Sheet, opts ...Option) *Engine {
	cfg := newConfig(opts)
	log := cfg.log.With(logger.String("mode", string(mode)))
	cfg.log = log
	return &Engine{
		mode:  mode,
		sheet: sheet,
		rows:  &RowAllocator{sheet: sheet, cfg: cfg},
		cfg:   cfg,
		log:   log,
	}
}

// Mode returns the engine's mode.
func (e *Engine) Mode() model.Mode { return e.mode }

// Rows exposes the engine's row allocator.
func (e *Engine) Rows() *RowAllocator { return e.rows }

// RecordScore writes raw into today's row under team's column and returns the
// cell written. Today's row is allocated first, so an unknown team on a new
// day still leaves the dated row behind.
func (e *Engine) RecordScore(ctx context.Context, team, raw string) (repository.Cell, error) {
	row, created, err := e.rows.Allocate(ctx)
	if err != nil {
		return repository.Cell{}, fmt.Errorf("allocate today's row: %w", err)
	}
	if created {
		metrics.RecordRowCreated(string(e.mode))
	}

	dir, err := e.directory(ctx)
	if err != nil {
		return repository.Cell{}, err
	}
	t, err := dir.Lookup(team)
	if err != nil {
		if errors.Is(err, directory.ErrTeamNotFound) {
			metrics.RecordTeamNotFound(string(e.mode))
		}
		return repository.Cell{}, fmt.Errorf("record score: %w", err)
	}

	cell := repository.Cell{Row: row, Col: t.Column}
	if err := e.sheet.EditCell(ctx, cell, raw); err != nil {
		return repository.Cell{}, fmt.Errorf("write score for %s: %w", t.Name, err)
	}
	metrics.RecordScore(string(e.mode))
	e.log.Info(ctx, "score recorded",
		logger.String("team", t.Name),
		logger.Int("row", cell.Row),
		logger.Int("column", cell.Col),
	)
	return cell, nil
}

// GetScores returns one result per team in header order. Teams that have not
// played today have no score. Before anyone plays the result is empty.
func (e *Engine) GetScores(ctx context.Context) ([]model.TeamResult, error) {
	results, err := e.getScores(ctx)
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.RecordScoreboardRead(string(e.mode), outcome)
	return results, err
}

func (e *Engine) getScores(ctx context.Context) ([]model.TeamResult, error) {
	row, ok, err := e.rows.Search(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.TeamResult{}, nil
	}

	dir, err := e.directory(ctx)
	if err != nil {
		return nil, err
	}
	grid, err := e.sheet.GetRange(ctx, e.teamSpan(row))
	if err != nil {
		return nil, fmt.Errorf("read scores: %w", err)
	}

	results := make([]model.TeamResult, 0, dir.Len())
	for _, t := range dir.Teams() {
		results = append(results, model.TeamResult{
			TeamName: t.Name,
			Column:   t.Column,
			Score:    scoring.ParsePtr(repository.At(grid, 0, t.Column-e.cfg.firstTeamColumn)),
		})
	}
	return results, nil
}

// Standings reads the scores and summarizes them.
func (e *Engine) Standings(ctx context.Context) (scoreboard.Standings, error) {
	results, err := e.GetScores(ctx)
	if err != nil {
		return scoreboard.Standings{}, err
	}
	return scoreboard.Summarize(e.mode, results), nil
}

// Submit records a score, recolors the winners and returns the new standings.
// Highlighting is best effort and never fails the submission.
func (e *Engine) Submit(ctx context.Context, team, raw string) (scoreboard.Standings, error) {
	if _, err := e.RecordScore(ctx, team, raw); err != nil {
		return scoreboard.Standings{}, err
	}
	results, err := e.GetScores(ctx)
	if err != nil {
		return scoreboard.Standings{}, err
	}
	if _, err := e.SetWinningColors(ctx, results); err != nil {
		e.log.Warn(ctx, "highlight skipped", logger.Error(err))
	}
	return scoreboard.Summarize(e.mode, results), nil
}

// Teams returns the teams currently listed in the header row.
func (e *Engine) Teams(ctx context.Context) ([]directory.Team, error) {
	dir, err := e.directory(ctx)
	if err != nil {
		return nil, err
	}
	return dir.Teams(), nil
}

// SetTeams writes names into the header row starting at the first team
// column. Existing headers past len(names) are left untouched.
func (e *Engine) SetTeams(ctx context.Context, names []string) error {
	width := e.cfg.lastTeamColumn - e.cfg.firstTeamColumn + 1
	if len(names) > width {
		return fmt.Errorf("%d teams do not fit in %d columns", len(names), width)
	}
	for i, name := range names {
		cell := repository.Cell{Row: e.cfg.headerRow, Col: e.cfg.firstTeamColumn + i}
		if err := e.sheet.EditCell(ctx, cell, name); err != nil {
			return fmt.Errorf("write header %q: %w", name, err)
		}
	}
	return nil
}

func (e *Engine) directory(ctx context.Context) (directory.Directory, error) {
	grid, err := e.sheet.GetRange(ctx, e.teamSpan(e.cfg.headerRow))
	if err != nil {
		return directory.Directory{}, fmt.Errorf("read team headers: %w", err)
	}
	width := e.cfg.lastTeamColumn - e.cfg.firstTeamColumn + 1
	headers := make([]string, width)
	for i := range headers {
		headers[i] = repository.At(grid, 0, i)
	}
	return directory.New(headers, e.cfg.firstTeamColumn), nil
}

func (e *Engine) teamSpan(row int) repository.Range {
	return repository.RowSpan(row, e.cfg.firstTeamColumn, e.cfg.lastTeamColumn)
}
