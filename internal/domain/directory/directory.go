// Package directory maps team names to columns of the header row.
//
// Headers are free text maintained by people, e.g. "Red Team (captain: Ann)".
// Lookups strip the trailing annotation and match the configured team name as
// a case-insensitive prefix, so short names like "Red" keep resolving.
package directory

import (
	"fmt"
	"strings"
)

// Team is one resolvable header.
type Team struct {
	Name   string // normalized header
	Column int    // 0-based store column
}

// Directory is the ordered list of teams read from the header row.
type Directory struct {
	teams []Team
}

// New builds a Directory from a raw header row whose first cell sits in
// column firstColumn. Blank headers are skipped.
func New(headers []string, firstColumn int) Directory {
	d := Directory{teams: make([]Team, 0, len(headers))}
	for i, h := range headers {
		name := Normalize(h)
		if name == "" {
			continue
		}
		d.teams = append(d.teams, Team{Name: name, Column: firstColumn + i})
	}
	return d
}

// Teams returns the teams in header order.
func (d Directory) Teams() []Team {
	out := make([]Team, len(d.teams))
	copy(out, d.teams)
	return out
}

// Len returns the number of teams.
func (d Directory) Len() int { return len(d.teams) }

// Lookup resolves a team name to its header.
func (d Directory) Lookup(name string) (Team, error) {
	prefix := strings.ToLower(strings.TrimSpace(name))
	if prefix == "" {
		return Team{}, fmt.Errorf("%w: empty team name", ErrTeamNotFound)
	}
	for _, t := range d.teams {
		if strings.HasPrefix(strings.ToLower(t.Name), prefix) {
			return t, nil
		}
	}
	return Team{}, fmt.Errorf("%w: %q", ErrTeamNotFound, name)
}

// Resolve returns the index into headers of the first header matching name.
func Resolve(name string, headers []string) (int, error) {
	t, err := New(headers, 0).Lookup(name)
	if err != nil {
		return 0, err
	}
	return t.Column, nil
}

// Normalize strips a trailing parenthetical group and surrounding whitespace.
func Normalize(header string) string {
	h := strings.TrimSpace(header)
	if !strings.HasSuffix(h, ")") {
		return h
	}
	depth := 0
	for i := len(h) - 1; i >= 0; i-- {
		switch h[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				return strings.TrimSpace(h[:i])
			}
		}
	}
	// unbalanced; leave as typed
	return h
}
