// Package scoreboard decides who is winning the day.
//
// Two dimensions are ranked: time (lower is better) and guesses (lower is
// better). A team that leads both is a solid winner. Ties are reported as
// sets; there is no secondary tie-break.
package scoreboard

import (
	"github.com/okian/sheetboard/internal/domain/model"
)

// Winners is the outcome of Compute. It is one of NoResult, SolidWin or
// SplitWin.
type Winners interface {
	winners()
}

// NoResult means no team has played yet.
type NoResult struct{}

// SolidWin holds the teams that have both the best time and the fewest
// guesses.
type SolidWin struct {
	Teams []model.TeamResult
}

// SplitWin holds the best-time and fewest-guesses leaders when no team leads
// both. The sets may overlap.
type SplitWin struct {
	TimeLeaders  []model.TeamResult
	GuessLeaders []model.TeamResult
}

func (NoResult) winners() {}
func (SolidWin) winners() {}
func (SplitWin) winners() {}

// Compute ranks the results. Teams without a score are ignored. Output keeps
// input order.
//
// When at least one team leads both dimensions only the solid winners are
// returned; teams tying a single dimension with them are dropped.
func Compute(results []model.TeamResult) Winners {
	played := Played(results)
	if len(played) == 0 {
		return NoResult{}
	}

	bestTime, fewestGuesses := played[0].Score.Time, played[0].Score.Guesses
	for _, r := range played[1:] {
		bestTime = min(bestTime, r.Score.Time)
		fewestGuesses = min(fewestGuesses, r.Score.Guesses)
	}

	var timeLeaders, guessLeaders, solid []model.TeamResult
	for _, r := range played {
		byTime := r.Score.Time == bestTime
		byGuesses := r.Score.Guesses == fewestGuesses
		if byTime {
			timeLeaders = append(timeLeaders, r)
		}
		if byGuesses {
			guessLeaders = append(guessLeaders, r)
		}
		if byTime && byGuesses {
			solid = append(solid, r)
		}
	}

	if len(solid) > 0 {
		return SolidWin{Teams: solid}
	}
	return SplitWin{TimeLeaders: timeLeaders, GuessLeaders: guessLeaders}
}

// Played filters results down to teams with a score.
func Played(results []model.TeamResult) []model.TeamResult {
	out := make([]model.TeamResult, 0, len(results))
	for _, r := range results {
		if r.Played() {
			out = append(out, r)
		}
	}
	return out
}
