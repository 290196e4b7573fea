package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	dotenv "github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/okian/sheetboard/internal/config"
	"github.com/okian/sheetboard/pkg/logger"
)

const (
	metaConfig = "config"
	metaLogger = "logger"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		// Logger may not be initialized yet.
		os.Stderr.WriteString("sheetboard: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "sheetboard",
		Usage: "record daily puzzle scores into a spreadsheet and color the winners",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file loaded before configuration",
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "YAML configuration file",
				EnvVars: []string{config.EnvConfigFile},
			},
		},
		Before: setup,
		After: func(*cli.Context) error {
			return logger.Sync()
		},
		Commands: []*cli.Command{
			recordCommand(),
			scoresCommand(),
			highlightCommand(),
			linkCommand(),
			teamsCommand(),
			serveCommand(),
		},
	}
}

// setup loads .env, configuration and logging, in that order.
func setup(c *cli.Context) error {
	if err := dotenv.Load(c.String("env-file")); err != nil {
		if c.IsSet("env-file") || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file: %w", err)
		}
	}
	if path := c.String("config"); path != "" {
		if err := os.Setenv(config.EnvConfigFile, path); err != nil {
			return fmt.Errorf("set config path: %w", err)
		}
	}

	cfg, err := config.Load(c.Context)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(c.App.ErrWriter)); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(c.Context, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[metaConfig] = cfg
	c.App.Metadata[metaLogger] = log
	return nil
}

func configFrom(c *cli.Context) *config.Config {
	cfg, _ := c.App.Metadata[metaConfig].(*config.Config)
	return cfg
}

func loggerFrom(c *cli.Context) logger.Logger {
	log, ok := c.App.Metadata[metaLogger].(logger.Logger)
	if !ok {
		return logger.Nop()
	}
	return log
}
