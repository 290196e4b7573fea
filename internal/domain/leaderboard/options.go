package leaderboard

import (
	"github.com/okian/sheetboard/internal/adapters/repository"
	"github.com/okian/sheetboard/internal/domain/calendar"
	"github.com/okian/sheetboard/pkg/logger"
)

const (
	defaultWindowStart     = 2
	defaultWindowSize      = 3
	defaultHeaderRow       = 1
	defaultFirstTeamColumn = 1
	defaultLastTeamColumn  = 25
	defaultConcurrency     = 8
)

// Palette holds the highlight fills.
type Palette struct {
	Solid repository.Color
	Time  repository.Color
	Guess repository.Color
	Clear repository.Color
}

// DefaultPalette is yellow for a solid win, blue for time and pink for guesses.
func DefaultPalette() Palette {
	return Palette{
		Solid: repository.Color{Red: 1, Green: 229.0 / 255, Blue: 153.0 / 255},
		Time:  repository.Color{Red: 201.0 / 255, Green: 218.0 / 255, Blue: 248.0 / 255},
		Guess: repository.Color{Red: 234.0 / 255, Green: 209.0 / 255, Blue: 220.0 / 255},
		Clear: repository.White,
	}
}

type config struct {
	clock           calendar.Clock
	windowStart     int
	windowSize      int
	headerRow       int
	firstTeamColumn int
	lastTeamColumn  int
	concurrency     int
	palette         Palette
	log             logger.Logger
}

func newConfig(opts []Option) config {
	c := config{
		clock:           calendar.InLocation(nil),
		windowStart:     defaultWindowStart,
		windowSize:      defaultWindowSize,
		headerRow:       defaultHeaderRow,
		firstTeamColumn: defaultFirstTeamColumn,
		lastTeamColumn:  defaultLastTeamColumn,
		concurrency:     defaultConcurrency,
		palette:         DefaultPalette(),
		log:             logger.Nop(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Option configures an Engine or a RowAllocator.
type Option func(*config)

// WithClock sets the source of "today".
func WithClock(clock calendar.Clock) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithWindow sets the rows scanned for today's date: start..start+size-1.
func WithWindow(start, size int) Option {
	return func(c *config) {
		if start >= 0 && size > 0 {
			c.windowStart = start
			c.windowSize = size
		}
	}
}

// WithHeaderRow sets the row holding team names.
func WithHeaderRow(row int) Option {
	return func(c *config) {
		if row >= 0 {
			c.headerRow = row
		}
	}
}

// WithTeamColumns sets the inclusive column span of team headers.
func WithTeamColumns(first, last int) Option {
	return func(c *config) {
		if first >= 0 && last >= first {
			c.firstTeamColumn = first
			c.lastTeamColumn = last
		}
	}
}

// WithHighlightConcurrency caps in-flight color requests per pass.
func WithHighlightConcurrency(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithPalette sets the highlight fills.
func WithPalette(p Palette) Option {
	return func(c *config) {
		c.palette = p
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}
