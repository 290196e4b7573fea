package scoreboard

import (
	"fmt"

	"github.com/okian/sheetboard/internal/domain/model"
)

// Placing is one headline line of the standings, e.g. "Won time".
type Placing struct {
	Label string             `json:"label"`
	Teams []model.TeamResult `json:"teams"`
}

// Standings is the read model shown after a submission.
type Standings struct {
	Mode      model.Mode         `json:"mode"`
	Final     bool               `json:"final"`
	Placings  []Placing          `json:"placings"`
	Remaining []string           `json:"remaining"`
	Results   []model.TeamResult `json:"results"`
}

// Summarize builds the standings for a mode. The day is final once every
// team in results has played.
func Summarize(mode model.Mode, results []model.TeamResult) Standings {
	st := Standings{
		Mode:      mode,
		Final:     len(results) > 0,
		Placings:  []Placing{},
		Remaining: []string{},
		Results:   results,
	}
	for _, r := range results {
		if !r.Played() {
			st.Final = false
			st.Remaining = append(st.Remaining, r.TeamName)
		}
	}

	switch w := Compute(results).(type) {
	case NoResult:
	case SolidWin:
		st.Placings = append(st.Placings, Placing{Label: label(st.Final, "Solid win", "Solidly winning"), Teams: w.Teams})
	case SplitWin:
		st.Placings = append(st.Placings,
			Placing{Label: label(st.Final, "Won time", "Winning time"), Teams: w.TimeLeaders},
			Placing{Label: label(st.Final, "Won guesses", "Winning guesses"), Teams: w.GuessLeaders},
		)
	default:
		panic(fmt.Sprintf("scoreboard: unhandled winners %T", w))
	}
	return st
}

func label(final bool, done, ongoing string) string {
	if final {
		return done
	}
	return ongoing
}
