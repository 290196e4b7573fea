// Package service wires the leaderboard engines to a workbook and implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/okian/sheetboard/internal/adapters/repository"
	"github.com/okian/sheetboard/internal/domain/leaderboard"
	"github.com/okian/sheetboard/internal/domain/model"
	"github.com/okian/sheetboard/internal/domain/scoreboard"
	"github.com/okian/sheetboard/pkg/logger"
	"github.com/okian/sheetboard/pkg/metrics"
)

// Service runs one leaderboard engine per mode over a shared workbook.
type Service struct {
	mu sync.RWMutex

	// Core components
	workbook  repository.Workbook
	engines   map[model.Mode]*leaderboard.Engine
	scheduler gocron.Scheduler

	// Configuration
	backend           string
	modes             []model.Mode
	engineOpts        []leaderboard.Option
	highlightInterval time.Duration

	// State
	started         bool
	startedAt       time.Time
	submissions     int64
	highlightPasses int64
	lastHighlight   time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkbook sets the store. Required.
func WithWorkbook(backend string, wb repository.Workbook) Option {
	return func(s *Service) {
		if wb != nil {
			s.backend = backend
			s.workbook = wb
		}
	}
}

// WithModes sets the modes served; each is one sheet of the workbook.
func WithModes(modes ...model.Mode) Option {
	return func(s *Service) {
		if len(modes) > 0 {
			s.modes = modes
		}
	}
}

// WithEngineOptions passes options to every engine.
func WithEngineOptions(opts ...leaderboard.Option) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// WithHighlightInterval schedules a highlight pass over every mode. Zero
// disables the schedule.
func WithHighlightInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.highlightInterval = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Call Start before use.
func New(opts ...Option) *Service {
	s := &Service{
		engines: make(map[model.Mode]*leaderboard.Engine),
		modes:   []model.Mode{model.ModeNormal, model.ModeHard},
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens a sheet per mode and starts the highlight schedule.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.workbook == nil {
		return ErrNoWorkbook
	}

	s.logger.Info(ctx, "starting leaderboard service...", logger.String("backend", s.backend))

	engineOpts := append([]leaderboard.Option{leaderboard.WithLogger(s.logger.Named("engine"))}, s.engineOpts...)
	for _, mode := range s.modes {
		sheet, err := s.workbook.Sheet(ctx, string(mode))
		if err != nil {
			clear(s.engines)
			return fmt.Errorf("open sheet for %s: %w", mode, err)
		}
		s.engines[mode] = leaderboard.NewEngine(mode, sheet, engineOpts...)
	}

	if s.highlightInterval > 0 {
		if err := s.startScheduler(); err != nil {
			clear(s.engines)
			return err
		}
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "leaderboard service started",
		logger.Int("modes", len(s.modes)),
		logger.Duration("highlightInterval", s.highlightInterval),
	)
	return nil
}

func (s *Service) startScheduler() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(s.highlightInterval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), s.highlightInterval)
			defer cancel()
			if err := s.HighlightAll(ctx); err != nil {
				s.logger.Warn(ctx, "scheduled highlight failed", logger.Error(err))
			}
		}),
		gocron.WithName("highlight"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("schedule highlight: %w", err)
	}
	sched.Start()
	s.scheduler = sched
	return nil
}

// Stop shuts down the schedule and closes the workbook.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	sched := s.scheduler
	s.scheduler = nil
	s.started = false
	s.mu.Unlock()

	ctx := context.Background()
	s.logger.Info(ctx, "stopping leaderboard service...")

	// Shutdown waits for a running pass, which takes the read lock.
	if sched != nil {
		if err := sched.Shutdown(); err != nil {
			s.logger.Warn(ctx, "scheduler shutdown", logger.Error(err))
		}
	}
	if err := s.workbook.Close(); err != nil {
		s.logger.Warn(ctx, "close workbook", logger.Error(err))
	}
	s.logger.Info(ctx, "leaderboard service stopped")
}

// Engine returns the engine for mode.
func (s *Service) Engine(mode model.Mode) (*leaderboard.Engine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	e, ok := s.engines[mode]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not served", model.ErrUnknownMode, mode)
	}
	return e, nil
}

// Modes returns the served modes in configured order.
func (s *Service) Modes() []model.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Mode(nil), s.modes...)
}

// Record writes a score without highlighting.
func (s *Service) Record(ctx context.Context, mode model.Mode, team, raw string) (repository.Cell, error) {
	e, err := s.Engine(mode)
	if err != nil {
		return repository.Cell{}, err
	}
	cell, err := e.RecordScore(ctx, team, raw)
	if err == nil {
		s.mu.Lock()
		s.submissions++
		s.mu.Unlock()
	}
	return cell, err
}

// Submit records a score, recolors winners and returns the standings.
func (s *Service) Submit(ctx context.Context, mode model.Mode, team, raw string) (scoreboard.Standings, error) {
	e, err := s.Engine(mode)
	if err != nil {
		return scoreboard.Standings{}, err
	}
	st, err := e.Submit(ctx, team, raw)
	if err == nil {
		s.mu.Lock()
		s.submissions++
		s.highlightPasses++
		s.lastHighlight = time.Now()
		s.mu.Unlock()
	}
	return st, err
}

// Standings returns today's standings for mode.
func (s *Service) Standings(ctx context.Context, mode model.Mode) (scoreboard.Standings, error) {
	e, err := s.Engine(mode)
	if err != nil {
		return scoreboard.Standings{}, err
	}
	return e.Standings(ctx)
}

// Highlight recolors today's winners for mode from the current scores.
func (s *Service) Highlight(ctx context.Context, mode model.Mode) (leaderboard.Highlight, error) {
	e, err := s.Engine(mode)
	if err != nil {
		return leaderboard.Highlight{}, err
	}
	results, err := e.GetScores(ctx)
	if err != nil {
		return leaderboard.Highlight{}, err
	}
	h, err := e.SetWinningColors(ctx, results)
	if err != nil {
		return h, err
	}
	s.mu.Lock()
	s.highlightPasses++
	s.lastHighlight = time.Now()
	s.mu.Unlock()
	return h, nil
}

// HighlightAll runs Highlight for every mode. A failing mode does not stop
// the others.
func (s *Service) HighlightAll(ctx context.Context) error {
	var errs []error
	for _, mode := range s.Modes() {
		h, err := s.Highlight(ctx, mode)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", mode, err))
			continue
		}
		s.logger.Debug(ctx, "highlight pass",
			logger.String("mode", string(mode)),
			logger.String("variant", h.Variant),
			logger.Int("painted", h.Painted),
		)
	}
	return errors.Join(errs...)
}

// Link returns a browser URL for mode's sheet.
func (s *Service) Link(ctx context.Context, mode model.Mode) (string, error) {
	if _, err := s.Engine(mode); err != nil {
		return "", err
	}
	return s.workbook.Link(ctx, string(mode))
}

// SetTeams writes the team header row of every served mode.
func (s *Service) SetTeams(ctx context.Context, names []string) error {
	for _, mode := range s.Modes() {
		e, err := s.Engine(mode)
		if err != nil {
			return err
		}
		if err := e.SetTeams(ctx, names); err != nil {
			return fmt.Errorf("%s: %w", mode, err)
		}
	}
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	modes := make([]string, len(s.modes))
	for i, m := range s.modes {
		modes[i] = string(m)
	}
	stats := map[string]interface{}{
		"started":           s.started,
		"backend":           s.backend,
		"modes":             modes,
		"engines":           len(s.engines),
		"submissions":       s.submissions,
		"highlightPasses":   s.highlightPasses,
		"highlightInterval": s.highlightInterval.String(),
	}
	if s.started {
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
	}
	if !s.lastHighlight.IsZero() {
		stats["lastHighlight"] = s.lastHighlight.UTC().Format(time.RFC3339)
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	metrics.UpdateSystem(mem.HeapAlloc, runtime.NumGoroutine())

	return stats
}
