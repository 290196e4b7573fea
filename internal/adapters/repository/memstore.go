package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryWorkbook is an in-process Workbook. Sheets are created on first use
// unless the workbook was built with fixed titles.
type MemoryWorkbook struct {
	mu     sync.Mutex
	sheets map[string]*MemorySheet
	fixed  bool
	closed bool
}

// NewMemoryWorkbook returns a workbook. With titles, only those sheets exist.
func NewMemoryWorkbook(titles ...string) *MemoryWorkbook {
	w := &MemoryWorkbook{sheets: make(map[string]*MemorySheet), fixed: len(titles) > 0}
	for _, t := range titles {
		w.sheets[t] = NewMemorySheet()
	}
	return w
}

// Sheet implements Workbook.
func (w *MemoryWorkbook) Sheet(_ context.Context, title string) (Sheet, error) {
	return w.sheet(title)
}

// MemorySheet returns the concrete sheet for inspection in tests.
func (w *MemoryWorkbook) MemorySheet(title string) (*MemorySheet, error) {
	return w.sheet(title)
}

func (w *MemoryWorkbook) sheet(title string) (*MemorySheet, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, ErrClosed
	}
	s, ok := w.sheets[title]
	if !ok {
		if w.fixed {
			return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, title)
		}
		s = NewMemorySheet()
		w.sheets[title] = s
	}
	return s, nil
}

// Titles lists known sheet titles in order.
func (w *MemoryWorkbook) Titles() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.sheets))
	for t := range w.sheets {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Link implements Workbook.
func (w *MemoryWorkbook) Link(_ context.Context, title string) (string, error) {
	if _, err := w.sheet(title); err != nil {
		return "", err
	}
	return "memory://" + title, nil
}

// Close implements Workbook.
func (w *MemoryWorkbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

// MemorySheet is a sparse grid guarded by a mutex.
type MemorySheet struct {
	mu      sync.Mutex
	rows    [][]string
	colors  map[Cell]Color
	inserts int
}

// NewMemorySheet returns an empty sheet.
func NewMemorySheet() *MemorySheet {
	return &MemorySheet{colors: make(map[Cell]Color)}
}

// GetRange implements Sheet.
func (s *MemorySheet) GetRange(_ context.Context, r Range) ([][]string, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	grid := make([][]string, 0, r.To.Row-r.From.Row+1)
	for row := r.From.Row; row <= r.To.Row; row++ {
		line := make([]string, 0, r.To.Col-r.From.Col+1)
		for col := r.From.Col; col <= r.To.Col; col++ {
			line = append(line, At(s.rows, row, col))
		}
		grid = append(grid, line)
	}
	return trimGrid(grid), nil
}

// GetCell implements Sheet.
func (s *MemorySheet) GetCell(_ context.Context, c Cell) (string, bool, error) {
	if err := CellRange(c).Validate(); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v := At(s.rows, c.Row, c.Col)
	return v, v != "", nil
}

// CreateRow implements Sheet.
func (s *MemorySheet) CreateRow(_ context.Context, row int) error {
	if row < 0 {
		return fmt.Errorf("%w: row %d", ErrInvalidRange, row)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inserts++
	if row < len(s.rows) {
		s.rows = append(s.rows[:row], append([][]string{nil}, s.rows[row:]...)...)
	}
	shifted := make(map[Cell]Color, len(s.colors))
	for c, color := range s.colors {
		if c.Row >= row {
			c.Row++
		}
		shifted[c] = color
	}
	s.colors = shifted
	return nil
}

// EditCell implements Sheet.
func (s *MemorySheet) EditCell(_ context.Context, c Cell, value string) error {
	if err := CellRange(c).Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(c, value)
	return nil
}

func (s *MemorySheet) set(c Cell, value string) {
	for len(s.rows) <= c.Row {
		s.rows = append(s.rows, nil)
	}
	for len(s.rows[c.Row]) <= c.Col {
		s.rows[c.Row] = append(s.rows[c.Row], "")
	}
	s.rows[c.Row][c.Col] = value
}

// SetColor implements Sheet.
func (s *MemorySheet) SetColor(_ context.Context, r Range, color Color) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for row := r.From.Row; row <= r.To.Row; row++ {
		for col := r.From.Col; col <= r.To.Col; col++ {
			s.colors[Cell{Row: row, Col: col}] = color
		}
	}
	return nil
}

// Set writes a value without going through the Sheet contract.
func (s *MemorySheet) Set(row, col int, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(Cell{Row: row, Col: col}, value)
}

// Value returns the raw cell value.
func (s *MemorySheet) Value(row, col int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return At(s.rows, row, col)
}

// ColorAt returns the fill of a cell and whether one was ever set.
func (s *MemorySheet) ColorAt(row, col int) (Color, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.colors[Cell{Row: row, Col: col}]
	return c, ok
}

// Inserts counts CreateRow calls.
func (s *MemorySheet) Inserts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inserts
}
