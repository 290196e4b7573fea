package directory_test

import (
	"errors"
	"testing"

	"github.com/okian/sheetboard/internal/domain/directory"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given decorated headers", t, func() {
		cases := map[string]string{
			"Red Team (Ann)":            "Red Team",
			"  Red Team (captain: Ann) ": "Red Team",
			"Blue Squad":                "Blue Squad",
			"Gold (A) Team":             "Gold (A) Team",
			"Nested (a (b))":            "Nested",
			"Broken a)":                 "Broken a)",
			"(just a note)":             "",
			"":                          "",
		}

		Convey("Then only a trailing group is stripped", func() {
			for in, want := range cases {
				So(directory.Normalize(in), ShouldEqual, want)
			}
		})
	})
}

func TestResolve(t *testing.T) {
	headers := []string{"Red Team (Ann)", "Blue Squad", "Redwood"}

	Convey("Given a header row", t, func() {
		Convey("When the name is a prefix of a decorated header", func() {
			idx, err := directory.Resolve("Red", headers)

			Convey("Then the first matching header wins", func() {
				So(err, ShouldBeNil)
				So(idx, ShouldEqual, 0)
				team, _ := directory.New(headers, 0).Lookup("Red")
				So(team.Name, ShouldEqual, "Red Team")
			})
		})

		Convey("When the name differs in case", func() {
			idx, err := directory.Resolve("blue squad", headers)

			Convey("Then it still resolves", func() {
				So(err, ShouldBeNil)
				So(idx, ShouldEqual, 1)
			})
		})

		Convey("When the name is longer than the normalized header", func() {
			_, err := directory.Resolve("Red Team (Ann)", headers)

			Convey("Then the annotation is not part of the name", func() {
				So(errors.Is(err, directory.ErrTeamNotFound), ShouldBeTrue)
			})
		})

		Convey("When no header has the prefix", func() {
			_, err := directory.Resolve("Purple", headers)

			Convey("Then it reports ErrTeamNotFound", func() {
				So(errors.Is(err, directory.ErrTeamNotFound), ShouldBeTrue)
			})
		})

		Convey("When the name is blank", func() {
			_, err := directory.Resolve("  ", headers)

			Convey("Then it never matches", func() {
				So(errors.Is(err, directory.ErrTeamNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestDirectory(t *testing.T) {
	Convey("Given a header row with gaps starting at column B", t, func() {
		d := directory.New([]string{"Red Team (Ann)", "", "Blue Squad", "  "}, 1)

		Convey("Then blank headers are skipped but columns stay aligned", func() {
			So(d.Len(), ShouldEqual, 2)
			So(d.Teams(), ShouldResemble, []directory.Team{
				{Name: "Red Team", Column: 1},
				{Name: "Blue Squad", Column: 3},
			})
		})

		Convey("And lookups return store columns", func() {
			team, err := d.Lookup("blue")
			So(err, ShouldBeNil)
			So(team.Column, ShouldEqual, 3)
		})
	})
}
