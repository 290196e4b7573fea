package repository

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellName converts a 0-based cell to A1 notation, e.g. (2, 1) -> "B3".
func CellName(c Cell) (string, error) {
	name, err := excelize.CoordinatesToCellName(c.Col+1, c.Row+1)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	return name, nil
}

// RangeName converts a range to A1 notation, e.g. "A3:A5". A single-cell
// range renders as one cell name.
func RangeName(r Range) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	from, err := CellName(r.From)
	if err != nil {
		return "", err
	}
	if r.From == r.To {
		return from, nil
	}
	to, err := CellName(r.To)
	if err != nil {
		return "", err
	}
	return from + ":" + to, nil
}

// ParseCellName converts A1 notation back to a 0-based cell.
func ParseCellName(name string) (Cell, error) {
	col, row, err := excelize.CellNameToCoordinates(name)
	if err != nil {
		return Cell{}, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	return Cell{Row: row - 1, Col: col - 1}, nil
}

// QualifiedRange prefixes an A1 range with a sheet title, quoting the title
// when it is not a plain identifier: normal!A3:A5, 'Hard Mode'!B2.
func QualifiedRange(title string, r Range) (string, error) {
	a1, err := RangeName(r)
	if err != nil {
		return "", err
	}
	return quoteTitle(title) + "!" + a1, nil
}

func quoteTitle(title string) string {
	plain := title != ""
	for _, r := range title {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			plain = false
			break
		}
	}
	if plain {
		return title
	}
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
