package service

import (
	"context"
	"fmt"

	"github.com/okian/sheetboard/internal/adapters/repository"
	"github.com/okian/sheetboard/internal/config"
	"github.com/okian/sheetboard/internal/domain/calendar"
	"github.com/okian/sheetboard/internal/domain/leaderboard"
	"github.com/okian/sheetboard/pkg/logger"
)

// OpenWorkbook opens the store selected by cfg.Backend, instrumented with
// store metrics.
func OpenWorkbook(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Workbook, error) {
	var (
		wb  repository.Workbook
		err error
	)
	switch cfg.Backend {
	case config.BackendSheets:
		wb, err = repository.OpenSheets(ctx, cfg.SpreadsheetID,
			repository.WithCredentialsFile(cfg.CredentialsFile),
			repository.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
			repository.WithSheetCreation(cfg.CreateSheets),
			repository.WithSheetsLogger(log),
		)
	case config.BackendXLSX:
		wb, err = repository.OpenXLSX(cfg.XLSXPath, repository.WithXLSXSheetCreation(true))
	case config.BackendMemory:
		wb = repository.NewMemoryWorkbook()
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", config.ErrInvalidConfig, cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s workbook: %w", cfg.Backend, err)
	}
	return repository.Instrument(cfg.Backend, wb), nil
}

// EngineOptions translates cfg into engine options.
func EngineOptions(cfg *config.Config) ([]leaderboard.Option, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	palette, err := Palette(cfg)
	if err != nil {
		return nil, err
	}
	return []leaderboard.Option{
		leaderboard.WithClock(calendar.InLocation(loc)),
		leaderboard.WithWindow(cfg.WindowStart, cfg.WindowSize),
		leaderboard.WithHeaderRow(cfg.HeaderRow),
		leaderboard.WithTeamColumns(cfg.FirstTeamColumn, cfg.LastTeamColumn),
		leaderboard.WithHighlightConcurrency(cfg.HighlightConcurrency),
		leaderboard.WithPalette(palette),
	}, nil
}

// Palette parses the configured highlight colors.
func Palette(cfg *config.Config) (leaderboard.Palette, error) {
	var p leaderboard.Palette
	for _, c := range []struct {
		hex string
		dst *repository.Color
	}{
		{cfg.SolidColor, &p.Solid},
		{cfg.TimeColor, &p.Time},
		{cfg.GuessColor, &p.Guess},
		{cfg.ClearColor, &p.Clear},
	} {
		color, err := repository.ParseHexColor(c.hex)
		if err != nil {
			return leaderboard.Palette{}, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
		}
		*c.dst = color
	}
	return p, nil
}

// FromConfig builds a Service from cfg. The caller owns Start and Stop.
func FromConfig(ctx context.Context, cfg *config.Config, log logger.Logger) (*Service, error) {
	modes, err := cfg.ParsedModes()
	if err != nil {
		return nil, err
	}
	engineOpts, err := EngineOptions(cfg)
	if err != nil {
		return nil, err
	}
	wb, err := OpenWorkbook(ctx, cfg, log.Named("store"))
	if err != nil {
		return nil, err
	}
	return New(
		WithWorkbook(cfg.Backend, wb),
		WithModes(modes...),
		WithEngineOptions(engineOpts...),
		WithHighlightInterval(cfg.HighlightInterval),
		WithLogger(log.Named("service")),
	), nil
}
