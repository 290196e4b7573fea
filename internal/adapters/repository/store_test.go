package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRangeNames(t *testing.T) {
	tests := []struct {
		name  string
		title string
		r     Range
		want  string
	}{
		{"date window", "normal", ColumnSpan(0, 2, 4), "normal!A3:A5"},
		{"header row", "normal", RowSpan(1, 1, 25), "normal!B2:Z2"},
		{"single cell", "hard", CellRange(Cell{Row: 2, Col: 3}), "hard!D3"},
		{"quoted title", "Hard Mode", CellRange(Cell{}), "'Hard Mode'!A1"},
		{"escaped quote", "Bob's", CellRange(Cell{}), "'Bob''s'!A1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QualifiedRange(tt.title, tt.r)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := RangeName(Range{From: Cell{Row: 3}, To: Cell{Row: 1}})
	require.ErrorIs(t, err, ErrInvalidRange)

	c, err := ParseCellName("Z2")
	require.NoError(t, err)
	require.Equal(t, Cell{Row: 1, Col: 25}, c)
}

func TestColors(t *testing.T) {
	solid := Color{Red: 1, Green: 229.0 / 255, Blue: 153.0 / 255}
	require.Equal(t, "FFE599", solid.Hex())
	require.Equal(t, "FFFFFF", White.Hex())

	parsed, err := ParseHexColor("#c9daf8")
	require.NoError(t, err)
	require.Equal(t, "C9DAF8", parsed.Hex())

	_, err = ParseHexColor("blue")
	require.Error(t, err)
}

func TestAt(t *testing.T) {
	grid := [][]string{{"a", "b"}, {"c"}}
	require.Equal(t, "b", At(grid, 0, 1))
	require.Equal(t, "", At(grid, 1, 1))
	require.Equal(t, "", At(grid, 5, 0))
	require.Equal(t, "", At(nil, 0, 0))
}

func TestMemorySheet(t *testing.T) {
	ctx := context.Background()
	wb := NewMemoryWorkbook()
	sh, err := wb.Sheet(ctx, "normal")
	require.NoError(t, err)

	require.NoError(t, sh.EditCell(ctx, Cell{Row: 2, Col: 0}, "10/16/26"))
	require.NoError(t, sh.EditCell(ctx, Cell{Row: 3, Col: 0}, "10/15/26"))
	require.NoError(t, sh.SetColor(ctx, RowSpan(2, 1, 2), White))

	t.Run("range trims trailing blanks", func(t *testing.T) {
		grid, err := sh.GetRange(ctx, ColumnSpan(0, 2, 6))
		require.NoError(t, err)
		require.Equal(t, [][]string{{"10/16/26"}, {"10/15/26"}}, grid)
	})

	t.Run("create row shifts values and fills", func(t *testing.T) {
		require.NoError(t, sh.CreateRow(ctx, 2))
		v, ok, err := sh.GetCell(ctx, Cell{Row: 2, Col: 0})
		require.NoError(t, err)
		require.False(t, ok)
		require.Empty(t, v)

		v, ok, err = sh.GetCell(ctx, Cell{Row: 3, Col: 0})
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "10/16/26", v)

		ms, err := wb.MemorySheet("normal")
		require.NoError(t, err)
		_, colored := ms.ColorAt(2, 1)
		require.False(t, colored)
		_, colored = ms.ColorAt(3, 1)
		require.True(t, colored)
		require.Equal(t, 1, ms.Inserts())
	})

	t.Run("fixed workbook rejects unknown titles", func(t *testing.T) {
		fixed := NewMemoryWorkbook("normal")
		_, err := fixed.Sheet(ctx, "hard")
		require.ErrorIs(t, err, ErrSheetNotFound)
		link, err := fixed.Link(ctx, "normal")
		require.NoError(t, err)
		require.Equal(t, "memory://normal", link)
	})

	t.Run("closed workbook", func(t *testing.T) {
		require.NoError(t, wb.Close())
		_, err := wb.Sheet(ctx, "normal")
		require.True(t, errors.Is(err, ErrClosed))
	})
}

func TestInstrument(t *testing.T) {
	ctx := context.Background()
	wb := Instrument("memory", NewMemoryWorkbook())
	sh, err := wb.Sheet(ctx, "normal")
	require.NoError(t, err)
	require.NoError(t, sh.EditCell(ctx, Cell{Row: 1, Col: 1}, "Red Team"))
	v, ok, err := sh.GetCell(ctx, Cell{Row: 1, Col: 1})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Red Team", v)
	require.ErrorIs(t, sh.SetColor(ctx, Range{From: Cell{Row: -1}}, White), ErrInvalidRange)
}
