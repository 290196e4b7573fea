// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Mode is a puzzle difficulty. Each mode is tracked on its own sheet tab,
// titled with the mode name.
type Mode string

// Known modes.
const (
	ModeNormal Mode = "normal"
	ModeHard   Mode = "hard"
)

// ParseMode validates a mode tag as scraped from the game page.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeNormal, ModeHard:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Score is a parsed puzzle result.
type Score struct {
	Time    int `json:"time"`    // seconds
	Guesses int `json:"guesses"` // guess count
}

// TeamResult is one team's standing for the day. A nil Score means the team
// has not submitted yet.
type TeamResult struct {
	TeamName string `json:"team"`
	Column   int    `json:"column"` // 0-based store column
	Score    *Score `json:"score,omitempty"`
}

// Played reports whether the team has a score for the day.
func (r TeamResult) Played() bool { return r.Score != nil }
