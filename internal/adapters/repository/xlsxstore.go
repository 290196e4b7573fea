package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"
)

// XLSXWorkbook stores sheets in a local .xlsx file through excelize.
// All sheets share one file handle and one lock.
type XLSXWorkbook struct {
	mu           sync.Mutex
	file         *excelize.File
	path         string
	styles       map[Color]int
	createSheets bool
	autoSave     bool
	closed       bool
}

// OpenXLSX opens path, or starts an empty workbook when it does not exist.
func OpenXLSX(path string, opts ...XLSXOption) (*XLSXWorkbook, error) {
	w := &XLSXWorkbook{
		path:         path,
		styles:       make(map[Color]int),
		createSheets: true,
		autoSave:     path != "",
	}
	for _, opt := range opts {
		opt(w)
	}

	switch _, err := os.Stat(path); {
	case path == "" || errors.Is(err, os.ErrNotExist):
		w.file = excelize.NewFile()
	case err != nil:
		return nil, fmt.Errorf("stat %s: %w", path, err)
	default:
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		w.file = f
	}
	return w, nil
}

// Sheet implements Workbook.
func (w *XLSXWorkbook) Sheet(_ context.Context, title string) (Sheet, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.ensure(title); err != nil {
		return nil, err
	}
	return &xlsxSheet{wb: w, title: title}, nil
}

// ensure must be called with mu held.
func (w *XLSXWorkbook) ensure(title string) error {
	if w.closed {
		return ErrClosed
	}
	idx, err := w.file.GetSheetIndex(title)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreRequest, err)
	}
	if idx >= 0 {
		return nil
	}
	if !w.createSheets {
		return fmt.Errorf("%w: %q", ErrSheetNotFound, title)
	}
	if _, err := w.file.NewSheet(title); err != nil {
		return fmt.Errorf("%w: add sheet %q: %v", ErrStoreRequest, title, err)
	}
	return w.flush()
}

// Link implements Workbook.
func (w *XLSXWorkbook) Link(_ context.Context, title string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return "", ErrClosed
	}
	idx, err := w.file.GetSheetIndex(title)
	if err != nil || idx < 0 {
		return "", fmt.Errorf("%w: %q", ErrSheetNotFound, title)
	}
	abs, err := filepath.Abs(w.path)
	if err != nil {
		abs = w.path
	}
	return fmt.Sprintf("file://%s#%s", filepath.ToSlash(abs), title), nil
}

// Save writes the workbook to its path.
func (w *XLSXWorkbook) Save() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.path == "" {
		return nil
	}
	return w.file.SaveAs(w.path)
}

// Close flushes and releases the file.
func (w *XLSXWorkbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	var saveErr error
	if w.path != "" {
		saveErr = w.file.SaveAs(w.path)
	}
	return errors.Join(saveErr, w.file.Close())
}

func (w *XLSXWorkbook) flush() error {
	if !w.autoSave || w.path == "" {
		return nil
	}
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrStoreRequest, w.path, err)
	}
	return nil
}

func (w *XLSXWorkbook) style(c Color) (int, error) {
	if id, ok := w.styles[c]; ok {
		return id, nil
	}
	id, err := w.file.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{c.Hex()}},
	})
	if err != nil {
		return 0, err
	}
	w.styles[c] = id
	return id, nil
}

type xlsxSheet struct {
	wb    *XLSXWorkbook
	title string
}

func (s *xlsxSheet) GetRange(_ context.Context, r Range) ([][]string, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	if s.wb.closed {
		return nil, ErrClosed
	}

	grid := make([][]string, 0, r.To.Row-r.From.Row+1)
	for row := r.From.Row; row <= r.To.Row; row++ {
		line := make([]string, 0, r.To.Col-r.From.Col+1)
		for col := r.From.Col; col <= r.To.Col; col++ {
			v, err := s.value(Cell{Row: row, Col: col})
			if err != nil {
				return nil, err
			}
			line = append(line, v)
		}
		grid = append(grid, line)
	}
	return trimGrid(grid), nil
}

func (s *xlsxSheet) GetCell(_ context.Context, c Cell) (string, bool, error) {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	if s.wb.closed {
		return "", false, ErrClosed
	}
	v, err := s.value(c)
	if err != nil {
		return "", false, err
	}
	return v, v != "", nil
}

func (s *xlsxSheet) value(c Cell) (string, error) {
	name, err := CellName(c)
	if err != nil {
		return "", err
	}
	v, err := s.wb.file.GetCellValue(s.title, name)
	if err != nil {
		return "", fmt.Errorf("%w: read %s!%s: %v", ErrStoreRequest, s.title, name, err)
	}
	return v, nil
}

func (s *xlsxSheet) CreateRow(_ context.Context, row int) error {
	if row < 0 {
		return fmt.Errorf("%w: row %d", ErrInvalidRange, row)
	}
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	if s.wb.closed {
		return ErrClosed
	}
	if err := s.wb.file.InsertRows(s.title, row+1, 1); err != nil {
		return fmt.Errorf("%w: insert row %d: %v", ErrStoreRequest, row, err)
	}
	return s.wb.flush()
}

func (s *xlsxSheet) EditCell(_ context.Context, c Cell, value string) error {
	name, err := CellName(c)
	if err != nil {
		return err
	}
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	if s.wb.closed {
		return ErrClosed
	}
	if err := s.wb.file.SetCellStr(s.title, name, value); err != nil {
		return fmt.Errorf("%w: write %s!%s: %v", ErrStoreRequest, s.title, name, err)
	}
	return s.wb.flush()
}

func (s *xlsxSheet) SetColor(_ context.Context, r Range, color Color) error {
	if err := r.Validate(); err != nil {
		return err
	}
	from, err := CellName(r.From)
	if err != nil {
		return err
	}
	to, err := CellName(r.To)
	if err != nil {
		return err
	}
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	if s.wb.closed {
		return ErrClosed
	}
	id, err := s.wb.style(color)
	if err != nil {
		return fmt.Errorf("%w: style %s: %v", ErrStoreRequest, color.Hex(), err)
	}
	if err := s.wb.file.SetCellStyle(s.title, from, to, id); err != nil {
		return fmt.Errorf("%w: color %s!%s:%s: %v", ErrStoreRequest, s.title, from, to, err)
	}
	return s.wb.flush()
}

// FillColor reports the solid fill of a cell as RRGGBB, or "" when unset.
func (w *XLSXWorkbook) FillColor(title string, c Cell) (string, error) {
	name, err := CellName(c)
	if err != nil {
		return "", err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	id, err := w.file.GetCellStyle(title, name)
	if err != nil {
		return "", err
	}
	for color, sid := range w.styles {
		if sid == id {
			return color.Hex(), nil
		}
	}
	st, err := w.file.GetStyle(id)
	if err != nil || st == nil || len(st.Fill.Color) == 0 {
		return "", err
	}
	return st.Fill.Color[0], nil
}
