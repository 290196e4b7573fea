package repository

import (
	"context"
	"time"

	"github.com/okian/sheetboard/pkg/metrics"
)

// Instrument wraps wb so that every sheet call is counted and timed under
// the given backend label.
func Instrument(backend string, wb Workbook) Workbook {
	return &instrumentedWorkbook{Workbook: wb, backend: backend}
}

type instrumentedWorkbook struct {
	Workbook
	backend string
}

func (w *instrumentedWorkbook) Sheet(ctx context.Context, title string) (Sheet, error) {
	start := time.Now()
	s, err := w.Workbook.Sheet(ctx, title)
	observe(w.backend, "open_sheet", start, err)
	if err != nil {
		return nil, err
	}
	return &instrumentedSheet{Sheet: s, backend: w.backend}, nil
}

type instrumentedSheet struct {
	Sheet
	backend string
}

func (s *instrumentedSheet) GetRange(ctx context.Context, r Range) ([][]string, error) {
	start := time.Now()
	grid, err := s.Sheet.GetRange(ctx, r)
	observe(s.backend, "get_range", start, err)
	return grid, err
}

func (s *instrumentedSheet) GetCell(ctx context.Context, c Cell) (string, bool, error) {
	start := time.Now()
	v, ok, err := s.Sheet.GetCell(ctx, c)
	observe(s.backend, "get_cell", start, err)
	return v, ok, err
}

func (s *instrumentedSheet) CreateRow(ctx context.Context, row int) error {
	start := time.Now()
	err := s.Sheet.CreateRow(ctx, row)
	observe(s.backend, "create_row", start, err)
	return err
}

func (s *instrumentedSheet) EditCell(ctx context.Context, c Cell, value string) error {
	start := time.Now()
	err := s.Sheet.EditCell(ctx, c, value)
	observe(s.backend, "edit_cell", start, err)
	return err
}

func (s *instrumentedSheet) SetColor(ctx context.Context, r Range, color Color) error {
	start := time.Now()
	err := s.Sheet.SetColor(ctx, r, color)
	observe(s.backend, "set_color", start, err)
	return err
}

func observe(backend, op string, start time.Time, err error) {
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.RecordStoreRequest(backend, op, outcome, float64(time.Since(start).Microseconds())/1000)
}
