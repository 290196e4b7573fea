// Package config defines process configuration and its loading.
//
// Conventions:
// - New(ctx) returns a Config filled with defaults.
// - Load(ctx) layers defaults, an optional YAML file and SHEETBOARD_ env vars.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/sheetboard/internal/domain/model"
)

// Store backends.
const (
	BackendSheets = "sheets"
	BackendXLSX   = "xlsx"
	BackendMemory = "memory"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Backend selects the store: sheets, xlsx or memory.
	Backend string `koanf:"backend"`

	// SpreadsheetID is the Google Sheets document id.
	SpreadsheetID string `koanf:"spreadsheet_id"`

	// CredentialsFile points at a service account JSON. Empty means
	// application default credentials.
	CredentialsFile string `koanf:"credentials_file"`

	// XLSXPath is the workbook used by the xlsx backend.
	XLSXPath string `koanf:"xlsx_path"`

	// CreateSheets adds a missing tab for a mode instead of failing.
	CreateSheets bool `koanf:"create_sheets"`

	// TeamName is the default team for the record command.
	TeamName string `koanf:"team_name"`

	// Modes lists the game modes; each mode is one sheet tab.
	Modes []string `koanf:"modes"`

	// Timezone decides when a new day starts. Empty means local time.
	Timezone string `koanf:"timezone"`

	// WindowStart and WindowSize bound the rows scanned for today's date.
	WindowStart int `koanf:"window_start"`
	WindowSize  int `koanf:"window_size"`

	// HeaderRow holds team names; FirstTeamColumn..LastTeamColumn is their span.
	HeaderRow       int `koanf:"header_row"`
	FirstTeamColumn int `koanf:"first_team_column"`
	LastTeamColumn  int `koanf:"last_team_column"`

	// HighlightInterval is how often serve recolors every mode. Zero disables it.
	HighlightInterval time.Duration `koanf:"highlight_interval"`

	// HighlightConcurrency caps in-flight color requests per pass.
	HighlightConcurrency int `koanf:"highlight_concurrency"`

	// RateLimit and RateBurst throttle Google Sheets calls (requests/s).
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	// Palette colors as RRGGBB.
	SolidColor string `koanf:"solid_color"`
	TimeColor  string `koanf:"time_color"`
	GuessColor string `koanf:"guess_color"`
	ClearColor string `koanf:"clear_color"`
}

// New creates a Config with defaults. The context is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		Backend:              BackendSheets,
		XLSXPath:             "sheetboard.xlsx",
		Modes:                []string{string(model.ModeNormal), string(model.ModeHard)},
		WindowStart:          2,
		WindowSize:           3,
		HeaderRow:            1,
		FirstTeamColumn:      1,
		LastTeamColumn:       25,
		HighlightInterval:    5 * time.Minute,
		HighlightConcurrency: 8,
		RateLimit:            1,
		RateBurst:            5,
		SolidColor:           "FFE599",
		TimeColor:            "C9DAF8",
		GuessColor:           "EAD1DC",
		ClearColor:           "FFFFFF",
	}
}

// ParsedModes returns Modes as typed values.
func (c *Config) ParsedModes() ([]model.Mode, error) {
	out := make([]model.Mode, 0, len(c.Modes))
	for _, s := range c.Modes {
		m, err := model.ParseMode(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// Validate checks field combinations.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.Backend {
	case BackendSheets:
		if c.SpreadsheetID == "" {
			return fmt.Errorf("%w: spreadsheet_id is required for the sheets backend", ErrInvalidConfig)
		}
	case BackendXLSX:
		if c.XLSXPath == "" {
			return fmt.Errorf("%w: xlsx_path is required for the xlsx backend", ErrInvalidConfig)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}
	if len(c.Modes) == 0 {
		return fmt.Errorf("%w: at least one mode is required", ErrInvalidConfig)
	}
	if _, err := c.ParsedModes(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.WindowStart < 0 || c.WindowSize <= 0 {
		return fmt.Errorf("%w: window %d+%d", ErrInvalidConfig, c.WindowStart, c.WindowSize)
	}
	if c.HeaderRow < 0 || c.FirstTeamColumn < 1 || c.LastTeamColumn < c.FirstTeamColumn {
		return fmt.Errorf("%w: team columns %d..%d", ErrInvalidConfig, c.FirstTeamColumn, c.LastTeamColumn)
	}
	// Rows are inserted at the window start, so the header must sit above it.
	if c.HeaderRow >= c.WindowStart {
		return fmt.Errorf("%w: header row %d must be above the date window starting at %d", ErrInvalidConfig, c.HeaderRow, c.WindowStart)
	}
	if c.HighlightInterval < 0 || c.HighlightConcurrency <= 0 {
		return fmt.Errorf("%w: highlight interval %s concurrency %d", ErrInvalidConfig, c.HighlightInterval, c.HighlightConcurrency)
	}
	return nil
}
