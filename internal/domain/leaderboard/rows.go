package leaderboard

import (
	"context"
	"fmt"

	"github.com/okian/sheetboard/internal/adapters/repository"
	"github.com/okian/sheetboard/internal/domain/calendar"
	"github.com/okian/sheetboard/pkg/logger"
)

// dateColumn holds each row's date marker.
const dateColumn = 0

// RowAllocator finds or creates the row for today in a small window of
// recent rows. Newest days sit at the top of the window.
type RowAllocator struct {
	sheet repository.Sheet
	cfg   config
}

// NewRowAllocator returns an allocator over sheet.
func NewRowAllocator(sheet repository.Sheet, opts ...Option) *RowAllocator {
	return &RowAllocator{sheet: sheet, cfg: newConfig(opts)}
}

func (a *RowAllocator) window() repository.Range {
	return repository.ColumnSpan(dateColumn, a.cfg.windowStart, a.cfg.windowStart+a.cfg.windowSize-1)
}

// Search returns today's row without modifying the sheet.
func (a *RowAllocator) Search(ctx context.Context) (int, bool, error) {
	return a.search(ctx, calendar.Format(a.cfg.clock()))
}

func (a *RowAllocator) search(ctx context.Context, today string) (int, bool, error) {
	grid, err := a.sheet.GetRange(ctx, a.window())
	if err != nil {
		return 0, false, fmt.Errorf("read date window: %w", err)
	}
	for i := range a.cfg.windowSize {
		if repository.At(grid, i, 0) == today {
			return a.cfg.windowStart + i, true, nil
		}
	}
	return 0, false, nil
}

// Allocate returns today's row, inserting it at the top of the window when
// it does not exist yet. Calling it again on the same day returns the same
// row without inserting.
func (a *RowAllocator) Allocate(ctx context.Context) (int, bool, error) {
	today := calendar.Format(a.cfg.clock())
	if row, ok, err := a.search(ctx, today); err != nil || ok {
		return row, false, err
	}

	target := repository.Cell{Row: a.cfg.windowStart, Col: dateColumn}
	current, present, err := a.sheet.GetCell(ctx, target)
	if err != nil {
		return 0, false, fmt.Errorf("read date cell: %w", err)
	}
	if present && current == today {
		return target.Row, false, nil
	}
	if present {
		if err := a.sheet.CreateRow(ctx, target.Row); err != nil {
			return 0, false, fmt.Errorf("insert row %d: %w", target.Row, err)
		}
	}
	if err := a.sheet.EditCell(ctx, target, today); err != nil {
		return 0, false, fmt.Errorf("write date %s: %w", today, err)
	}
	a.cfg.log.Info(ctx, "row created",
		logger.Int("row", target.Row),
		logger.String("date", today),
		logger.Bool("inserted", present),
	)
	return target.Row, true, nil
}
