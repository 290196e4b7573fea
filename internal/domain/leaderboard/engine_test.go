package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/sheetboard/internal/adapters/repository"
	"github.com/okian/sheetboard/internal/domain/directory"
	"github.com/okian/sheetboard/internal/domain/model"
)

func fixedClock(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 9, 30, 0, 0, time.UTC) }
}

func newSheet(headers ...string) *repository.MemorySheet {
	s := repository.NewMemorySheet()
	for i, h := range headers {
		s.Set(1, 1+i, h)
	}
	return s
}

type flakySheet struct {
	*repository.MemorySheet
	failCol int
	failAll bool
}

func (f *flakySheet) SetColor(ctx context.Context, r repository.Range, c repository.Color) error {
	if f.failAll || (r.From == r.To && r.From.Col == f.failCol) {
		return errors.New("quota exceeded")
	}
	return f.MemorySheet.SetColor(ctx, r, c)
}

func TestRowAllocator(t *testing.T) {
	ctx := context.Background()
	clock := WithClock(fixedClock(2026, time.October, 16))

	Convey("Given an empty sheet", t, func() {
		sheet := newSheet()
		rows := NewRowAllocator(sheet, clock)

		Convey("Search finds nothing and writes nothing", func() {
			_, ok, err := rows.Search(ctx)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
			So(sheet.Value(2, 0), ShouldBeEmpty)
		})

		Convey("Allocate writes the date into the top row without inserting", func() {
			row, created, err := rows.Allocate(ctx)
			So(err, ShouldBeNil)
			So(created, ShouldBeTrue)
			So(row, ShouldEqual, 2)
			So(sheet.Value(2, 0), ShouldEqual, "10/16/26")
			So(sheet.Inserts(), ShouldEqual, 0)

			Convey("and a second call returns the same row", func() {
				again, created, err := rows.Allocate(ctx)
				So(err, ShouldBeNil)
				So(created, ShouldBeFalse)
				So(again, ShouldEqual, row)
				So(sheet.Inserts(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given yesterday at the top of the window", t, func() {
		sheet := newSheet()
		sheet.Set(2, 0, "10/15/26")
		sheet.Set(2, 1, "5 guesses in 40s")
		rows := NewRowAllocator(sheet, clock)

		Convey("Allocate inserts a new row and keeps history below", func() {
			row, _, err := rows.Allocate(ctx)
			So(err, ShouldBeNil)
			So(row, ShouldEqual, 2)
			So(sheet.Value(2, 0), ShouldEqual, "10/16/26")
			So(sheet.Value(2, 1), ShouldBeEmpty)
			So(sheet.Value(3, 0), ShouldEqual, "10/15/26")
			So(sheet.Value(3, 1), ShouldEqual, "5 guesses in 40s")

			again, _, err := rows.Allocate(ctx)
			So(err, ShouldBeNil)
			So(again, ShouldEqual, row)
			So(sheet.Inserts(), ShouldEqual, 1)
		})
	})

	Convey("Given today lower in the window", t, func() {
		sheet := newSheet()
		sheet.Set(2, 0, "10/18/26")
		sheet.Set(3, 0, "10/17/26")
		sheet.Set(4, 0, "10/16/26")
		rows := NewRowAllocator(sheet, clock)

		Convey("Search returns that row", func() {
			row, ok, err := rows.Search(ctx)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(row, ShouldEqual, 4)
		})

		Convey("A narrower window does not see it", func() {
			_, ok, err := NewRowAllocator(sheet, clock, WithWindow(2, 2)).Search(ctx)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestEngineRecordAndRead(t *testing.T) {
	ctx := context.Background()

	Convey("Given a sheet with two teams and no rows yet", t, func() {
		sheet := newSheet("Red Team (Ann)", "Blue Squad")
		engine := NewEngine(model.ModeNormal, sheet, WithClock(fixedClock(2026, time.October, 16)))

		Convey("GetScores before anyone plays is empty", func() {
			results, err := engine.GetScores(ctx)
			So(err, ShouldBeNil)
			So(results, ShouldNotBeNil)
			So(results, ShouldBeEmpty)
		})

		Convey("Recording a score stores the raw text in today's row", func() {
			cell, err := engine.RecordScore(ctx, "Red Team", "7 guesses in 1m 32s")
			So(err, ShouldBeNil)
			So(cell, ShouldResemble, repository.Cell{Row: 2, Col: 1})
			So(sheet.Value(2, 1), ShouldEqual, "7 guesses in 1m 32s")

			results, err := engine.GetScores(ctx)
			So(err, ShouldBeNil)
			want := []model.TeamResult{
				{TeamName: "Red Team", Column: 1, Score: &model.Score{Time: 92, Guesses: 7}},
				{TeamName: "Blue Squad", Column: 2},
			}
			So(cmp.Diff(want, results), ShouldBeEmpty)
		})

		Convey("A short prefix resolves", func() {
			cell, err := engine.RecordScore(ctx, "blue", "3 guesses in 50s")
			So(err, ShouldBeNil)
			So(cell.Col, ShouldEqual, 2)
		})

		Convey("An unknown team writes no score", func() {
			_, err := engine.RecordScore(ctx, "Purple", "3 guesses in 50s")
			So(errors.Is(err, directory.ErrTeamNotFound), ShouldBeTrue)
			So(sheet.Value(2, 0), ShouldEqual, "10/16/26")
			So(sheet.Value(2, 1), ShouldBeEmpty)
			So(sheet.Value(2, 2), ShouldBeEmpty)
		})

		Convey("Malformed cells read as not played", func() {
			_, err := engine.RecordScore(ctx, "Red", "gave up")
			So(err, ShouldBeNil)
			results, err := engine.GetScores(ctx)
			So(err, ShouldBeNil)
			So(results[0].Played(), ShouldBeFalse)
		})
	})

	Convey("Given a store that fails", t, func() {
		engine := NewEngine(model.ModeHard, failingSheet{})

		Convey("RecordScore propagates and writes nothing", func() {
			_, err := engine.RecordScore(ctx, "Red", "1 guesses in 1s")
			So(errors.Is(err, repository.ErrStoreRequest), ShouldBeTrue)
		})

		Convey("GetScores propagates", func() {
			_, err := engine.GetScores(ctx)
			So(errors.Is(err, repository.ErrStoreRequest), ShouldBeTrue)
		})
	})
}

type failingSheet struct{ repository.Sheet }

func (failingSheet) GetRange(context.Context, repository.Range) ([][]string, error) {
	return nil, repository.ErrStoreRequest
}

func TestSetWinningColors(t *testing.T) {
	ctx := context.Background()
	palette := DefaultPalette()

	Convey("Given today's row with scores", t, func() {
		sheet := newSheet("Red", "Blue", "Green")
		engine := NewEngine(model.ModeNormal, sheet, WithClock(fixedClock(2026, time.October, 16)))

		Convey("With no row for today nothing is painted", func() {
			h, err := engine.SetWinningColors(ctx, nil)
			So(err, ShouldBeNil)
			So(h.Variant, ShouldEqual, "none")
			_, colored := sheet.ColorAt(2, 1)
			So(colored, ShouldBeFalse)
		})

		Convey("A solid winner gets the solid color and the rest are cleared", func() {
			_, _ = engine.RecordScore(ctx, "Red", "3 guesses in 40s")
			_, _ = engine.RecordScore(ctx, "Blue", "5 guesses in 1m 0s")
			results, err := engine.GetScores(ctx)
			So(err, ShouldBeNil)

			h, err := engine.SetWinningColors(ctx, results)
			So(err, ShouldBeNil)
			So(h, ShouldResemble, Highlight{Row: 2, Variant: "solid", Painted: 1})

			red, _ := sheet.ColorAt(2, 1)
			So(red, ShouldResemble, palette.Solid)
			blue, _ := sheet.ColorAt(2, 2)
			So(blue, ShouldResemble, repository.White)
			far, _ := sheet.ColorAt(2, 25)
			So(far, ShouldResemble, repository.White)

			Convey("and a later split repaints without stale fills", func() {
				_, _ = engine.RecordScore(ctx, "Green", "2 guesses in 55s")
				results, err := engine.GetScores(ctx)
				So(err, ShouldBeNil)
				h, err := engine.SetWinningColors(ctx, results)
				So(err, ShouldBeNil)
				So(h.Variant, ShouldEqual, "split")

				red, _ := sheet.ColorAt(2, 1)
				So(red, ShouldResemble, palette.Time)
				green, _ := sheet.ColorAt(2, 3)
				So(green, ShouldResemble, palette.Guess)
				blue, _ := sheet.ColorAt(2, 2)
				So(blue, ShouldResemble, repository.White)
			})
		})
	})

	Convey("Given a sheet that rejects some color writes", t, func() {
		mem := newSheet("Red", "Blue")
		sheet := &flakySheet{MemorySheet: mem, failCol: 1}
		engine := NewEngine(model.ModeNormal, sheet, WithClock(fixedClock(2026, time.October, 16)))
		_, _ = engine.RecordScore(ctx, "Red", "3 guesses in 40s")
		_, _ = engine.RecordScore(ctx, "Blue", "2 guesses in 50s")
		results, _ := engine.GetScores(ctx)

		Convey("The pass completes and reports the failure", func() {
			h, err := engine.SetWinningColors(ctx, results)
			So(err, ShouldBeNil)
			So(h.Variant, ShouldEqual, "split")
			So(h.Failed, ShouldEqual, 1)
			So(h.Painted, ShouldEqual, 1)
			blue, _ := mem.ColorAt(2, 2)
			So(blue, ShouldResemble, palette.Guess)
		})

		Convey("A failed clear does not stop the pass", func() {
			sheet.failAll = true
			h, err := engine.SetWinningColors(ctx, results)
			So(err, ShouldBeNil)
			So(h.Failed, ShouldEqual, 3)
			So(h.Painted, ShouldEqual, 0)
		})
	})
}

func TestSubmitAndStandings(t *testing.T) {
	ctx := context.Background()

	Convey("Given two teams", t, func() {
		sheet := newSheet("Red Team (Ann)", "Blue Squad")
		engine := NewEngine(model.ModeHard, sheet, WithClock(fixedClock(2026, time.October, 16)))

		Convey("Submit records, highlights and summarizes", func() {
			st, err := engine.Submit(ctx, "Red", "7 guesses in 1m 32s")
			So(err, ShouldBeNil)
			So(st.Mode, ShouldEqual, model.ModeHard)
			So(st.Final, ShouldBeFalse)
			So(st.Remaining, ShouldResemble, []string{"Blue Squad"})
			So(st.Placings, ShouldHaveLength, 1)
			So(st.Placings[0].Label, ShouldEqual, "Solidly winning")

			color, _ := sheet.ColorAt(2, 1)
			So(color, ShouldResemble, DefaultPalette().Solid)

			Convey("and the day is final once everyone played", func() {
				_, err := engine.Submit(ctx, "Blue", "7 guesses in 1m 32s")
				So(err, ShouldBeNil)
				st, err := engine.Standings(ctx)
				So(err, ShouldBeNil)
				So(st.Final, ShouldBeTrue)
				So(st.Placings[0].Label, ShouldEqual, "Solid win")
				So(st.Placings[0].Teams, ShouldHaveLength, 2)
			})
		})

		Convey("Submit for an unknown team fails", func() {
			_, err := engine.Submit(ctx, "Purple", "1 guesses in 1s")
			So(errors.Is(err, directory.ErrTeamNotFound), ShouldBeTrue)
		})

		Convey("SetTeams rewrites the header row", func() {
			So(engine.SetTeams(ctx, []string{"Gold", "Silver"}), ShouldBeNil)
			teams, err := engine.Teams(ctx)
			So(err, ShouldBeNil)
			So(teams, ShouldHaveLength, 2)
			So(teams[0].Name, ShouldEqual, "Gold")
		})
	})
}
