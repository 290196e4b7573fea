package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	app "github.com/okian/sheetboard/internal/app"
	"github.com/okian/sheetboard/internal/domain/model"
	"github.com/okian/sheetboard/internal/domain/scoreboard"
	"github.com/okian/sheetboard/internal/domain/scoring"
)

var errUsage = errors.New("usage")

func modeFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "mode",
		Aliases: []string{"m"},
		Value:   string(model.ModeNormal),
		Usage:   "game mode (normal or hard)",
	}
}

// withService runs fn against a started service without the highlight schedule.
func withService(c *cli.Context, fn func(*app.Service) error) error {
	cfg := *configFrom(c)
	cfg.HighlightInterval = 0
	svc, err := app.FromConfig(c.Context, &cfg, loggerFrom(c))
	if err != nil {
		return err
	}
	if err := svc.Start(c.Context); err != nil {
		return err
	}
	defer svc.Stop()
	return fn(svc)
}

func recordCommand() *cli.Command {
	return &cli.Command{
		Name:      "record",
		Usage:     "record a team's score for today and recolor the winners",
		ArgsUsage: `"7 guesses in 1m 32s"`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "team", Aliases: []string{"t"}, Usage: "team name or prefix (defaults to team_name)"},
			modeFlag(),
			&cli.BoolFlag{Name: "no-highlight", Usage: "write the score without recoloring"},
		},
		Action: func(c *cli.Context) error {
			raw := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if raw == "" {
				return fmt.Errorf("%w: record needs a score", errUsage)
			}
			team := c.String("team")
			if team == "" {
				team = configFrom(c).TeamName
			}
			if team == "" {
				return fmt.Errorf("%w: --team or team_name is required", errUsage)
			}
			if _, ok := scoring.Parse(raw); !ok {
				loggerFrom(c).Warn(c.Context, "score text is not in the expected format; recording it verbatim")
			}
			mode, err := model.ParseMode(c.String("mode"))
			if err != nil {
				return err
			}
			return withService(c, func(svc *app.Service) error {
				if c.Bool("no-highlight") {
					cell, err := svc.Record(c.Context, mode, team, raw)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "recorded %s at row %d column %d\n", team, cell.Row+1, cell.Col+1)
					return nil
				}
				st, err := svc.Submit(c.Context, mode, team, raw)
				if err != nil {
					return err
				}
				printStandings(c.App.Writer, st)
				return nil
			})
		},
	}
}

func scoresCommand() *cli.Command {
	return &cli.Command{
		Name:  "scores",
		Usage: "show today's scores and standings",
		Flags: []cli.Flag{modeFlag()},
		Action: func(c *cli.Context) error {
			mode, err := model.ParseMode(c.String("mode"))
			if err != nil {
				return err
			}
			return withService(c, func(svc *app.Service) error {
				st, err := svc.Standings(c.Context, mode)
				if err != nil {
					return err
				}
				printStandings(c.App.Writer, st)
				return nil
			})
		},
	}
}

func highlightCommand() *cli.Command {
	return &cli.Command{
		Name:  "highlight",
		Usage: "recolor today's winners from the current scores",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: "game mode; every configured mode when empty"},
		},
		Action: func(c *cli.Context) error {
			return withService(c, func(svc *app.Service) error {
				if c.String("mode") == "" {
					return svc.HighlightAll(c.Context)
				}
				mode, err := model.ParseMode(c.String("mode"))
				if err != nil {
					return err
				}
				res, err := svc.Highlight(c.Context, mode)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "%s: %s (painted %d, failed %d)\n", mode, res.Variant, res.Painted, res.Failed)
				return nil
			})
		},
	}
}

func linkCommand() *cli.Command {
	return &cli.Command{
		Name:  "link",
		Usage: "print the link to a mode's sheet",
		Flags: []cli.Flag{modeFlag()},
		Action: func(c *cli.Context) error {
			mode, err := model.ParseMode(c.String("mode"))
			if err != nil {
				return err
			}
			return withService(c, func(svc *app.Service) error {
				link, err := svc.Link(c.Context, mode)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, link)
				return nil
			})
		},
	}
}

func teamsCommand() *cli.Command {
	return &cli.Command{
		Name:  "teams",
		Usage: "manage the team header row",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list the teams of a mode",
				Flags: []cli.Flag{modeFlag()},
				Action: func(c *cli.Context) error {
					mode, err := model.ParseMode(c.String("mode"))
					if err != nil {
						return err
					}
					return withService(c, func(svc *app.Service) error {
						engine, err := svc.Engine(mode)
						if err != nil {
							return err
						}
						teams, err := engine.Teams(c.Context)
						if err != nil {
							return err
						}
						for _, t := range teams {
							fmt.Fprintln(c.App.Writer, t.Name)
						}
						return nil
					})
				},
			},
			{
				Name:      "set",
				Usage:     "write the team header row of every mode",
				ArgsUsage: "TEAM...",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("%w: teams set needs at least one team", errUsage)
					}
					return withService(c, func(svc *app.Service) error {
						return svc.SetTeams(c.Context, c.Args().Slice())
					})
				},
			},
		},
	}
}

func printStandings(w io.Writer, st scoreboard.Standings) {
	fmt.Fprintf(w, "%s mode\n", st.Mode)
	for _, r := range st.Results {
		if r.Score == nil {
			fmt.Fprintf(w, "  %-20s -\n", r.TeamName)
			continue
		}
		fmt.Fprintf(w, "  %-20s %s\n", r.TeamName, scoring.Format(*r.Score))
	}
	for _, p := range st.Placings {
		names := make([]string, len(p.Teams))
		for i, t := range p.Teams {
			names[i] = t.TeamName
		}
		fmt.Fprintf(w, "%s: %s\n", p.Label, strings.Join(names, ", "))
	}
	if len(st.Remaining) > 0 {
		fmt.Fprintf(w, "Still to play: %s\n", strings.Join(st.Remaining, ", "))
	}
}
