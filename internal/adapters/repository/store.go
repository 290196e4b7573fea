// Package repository defines the tabular store contract and its adapters.
//
// Callers address cells with 0-based (row, column) coordinates. Adapters
// translate to the store's native A1 notation at the boundary only.
package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Cell is a 0-based coordinate.
type Cell struct {
	Row int
	Col int
}

// Range is an inclusive rectangle.
type Range struct {
	From Cell
	To   Cell
}

// CellRange is the single-cell range at c.
func CellRange(c Cell) Range { return Range{From: c, To: c} }

// RowSpan covers columns fromCol..toCol of one row.
func RowSpan(row, fromCol, toCol int) Range {
	return Range{From: Cell{Row: row, Col: fromCol}, To: Cell{Row: row, Col: toCol}}
}

// ColumnSpan covers rows fromRow..toRow of one column.
func ColumnSpan(col, fromRow, toRow int) Range {
	return Range{From: Cell{Row: fromRow, Col: col}, To: Cell{Row: toRow, Col: col}}
}

// Validate rejects negative or inverted ranges.
func (r Range) Validate() error {
	if r.From.Row < 0 || r.From.Col < 0 || r.To.Row < r.From.Row || r.To.Col < r.From.Col {
		return fmt.Errorf("%w: %+v", ErrInvalidRange, r)
	}
	return nil
}

// Color is an RGB fill with channels in [0,1].
type Color struct {
	Red   float64 `koanf:"red"`
	Green float64 `koanf:"green"`
	Blue  float64 `koanf:"blue"`
}

// Hex renders the color as RRGGBB.
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", channel(c.Red), channel(c.Green), channel(c.Blue))
}

func channel(f float64) int {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 255
	default:
		return int(f*255 + 0.5)
	}
}

// ParseHexColor parses RRGGBB, with or without a leading '#'.
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{
		Red:   float64(v>>16&0xFF) / 255,
		Green: float64(v>>8&0xFF) / 255,
		Blue:  float64(v&0xFF) / 255,
	}, nil
}

// White is the neutral fill used to clear highlights.
var White = Color{Red: 1, Green: 1, Blue: 1}

// Sheet is one tab of a tabular store.
type Sheet interface {
	// GetRange reads a rectangle. Rows and cells past the last non-empty
	// value may be omitted; use At to index safely.
	GetRange(ctx context.Context, r Range) ([][]string, error)
	// GetCell reads one cell; ok is false when the cell is empty.
	GetCell(ctx context.Context, c Cell) (value string, ok bool, err error)
	// CreateRow inserts a blank row at row, shifting later rows down.
	CreateRow(ctx context.Context, row int) error
	// EditCell overwrites one cell with a literal value.
	EditCell(ctx context.Context, c Cell, value string) error
	// SetColor sets the background fill of every cell in r.
	SetColor(ctx context.Context, r Range, color Color) error
}

// Workbook opens sheets by title.
type Workbook interface {
	Sheet(ctx context.Context, title string) (Sheet, error)
	// Link returns a URL a person can open to see the sheet.
	Link(ctx context.Context, title string) (string, error)
	Close() error
}

// At returns grid[row][col] or "" when the grid is ragged or short.
func At(grid [][]string, row, col int) string {
	if row < 0 || row >= len(grid) || col < 0 || col >= len(grid[row]) {
		return ""
	}
	return grid[row][col]
}

// trimGrid drops trailing empty cells and rows the way the Sheets API does.
func trimGrid(grid [][]string) [][]string {
	for i, row := range grid {
		n := len(row)
		for n > 0 && row[n-1] == "" {
			n--
		}
		grid[i] = row[:n]
	}
	n := len(grid)
	for n > 0 && len(grid[n-1]) == 0 {
		n--
	}
	return grid[:n]
}
