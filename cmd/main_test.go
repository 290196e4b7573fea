package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/sheetboard/internal/adapters/repository"
	app "github.com/okian/sheetboard/internal/app"
	"github.com/okian/sheetboard/pkg/logger"
)

func run(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	cliApp := newApp()
	cliApp.Writer = &out
	cliApp.ErrWriter = &errOut
	err := cliApp.RunContext(context.Background(), append([]string{"sheetboard"}, args...))
	return out.String(), err
}

func TestCommands(t *testing.T) {
	convey.Convey("Given an xlsx backed configuration", t, func() {
		path := filepath.Join(t.TempDir(), "league.xlsx")
		_ = os.Setenv("SHEETBOARD_BACKEND", "xlsx")
		_ = os.Setenv("SHEETBOARD_XLSX_PATH", path)
		_ = os.Setenv("SHEETBOARD_LOG_LEVEL", "error")
		defer func() {
			_ = os.Unsetenv("SHEETBOARD_BACKEND")
			_ = os.Unsetenv("SHEETBOARD_XLSX_PATH")
			_ = os.Unsetenv("SHEETBOARD_LOG_LEVEL")
		}()

		_, err := run("teams", "set", "Red Team", "Blue")
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When the teams are listed", func() {
			out, err := run("teams", "list", "--mode", "hard")

			convey.Convey("Then both are printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldEqual, "Red Team\nBlue\n")
			})
		})

		convey.Convey("When a score is recorded by prefix", func() {
			out, err := run("record", "--team", "red", "7", "guesses", "in", "1m", "32s")
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the standings are printed", func() {
				convey.So(out, convey.ShouldContainSubstring, "Solidly winning: Red Team")
				convey.So(out, convey.ShouldContainSubstring, "Still to play: Blue")
			})

			convey.Convey("Then a later scores command reads it back", func() {
				out, err := run("scores")
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "01:32 | 7 guesses")
			})

			convey.Convey("Then hard mode is still empty", func() {
				out, err := run("scores", "-m", "hard")
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldEqual, "hard mode\n")
			})
		})

		convey.Convey("When a score is recorded without highlighting", func() {
			out, err := run("record", "--team", "Blue", "--no-highlight", "3 guesses in 20s")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "row 3 column 3")

			convey.Convey("Then highlight paints the winner", func() {
				out, err := run("highlight", "--mode", "normal")
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "normal: solid")
			})
		})

		convey.Convey("When the link is requested", func() {
			out, err := run("link", "--mode", "hard")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldStartWith, "file://")
			convey.So(out, convey.ShouldContainSubstring, "#hard")
		})

		convey.Convey("When record is missing its score", func() {
			_, err := run("record", "--team", "Blue")
			convey.So(errors.Is(err, errUsage), convey.ShouldBeTrue)
		})

		convey.Convey("When the mode is unknown", func() {
			_, err := run("scores", "--mode", "easy")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestServe(t *testing.T) {
	convey.Convey("Given a memory backed service", t, func() {
		_ = logger.Init(logger.WithWriter(&bytes.Buffer{}))
		ctx, cancel := context.WithCancel(context.Background())
		build := func(context.Context) (*app.Service, error) {
			return app.New(app.WithWorkbook("memory", repository.NewMemoryWorkbook())), nil
		}

		convey.Convey("When the context is cancelled", func() {
			done := make(chan error, 1)
			go func() { done <- serve(ctx, "127.0.0.1:0", build, logger.Get()) }()
			time.Sleep(50 * time.Millisecond)
			cancel()

			convey.Convey("Then serve returns cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					convey.So("serve did not stop", convey.ShouldBeEmpty)
				}
			})
		})
	})
}
