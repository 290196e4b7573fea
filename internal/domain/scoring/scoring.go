// Package scoring parses the result line the puzzle prints when a game is won.
package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/okian/sheetboard/internal/domain/model"
)

const secondsPerMinute = 60

// resultPattern matches "<N> guesses in [<M>m ]<S>s".
var resultPattern = regexp.MustCompile(`^(\d+) guesses in (?:(\d+)m )?(\d+)s$`)

// Parse turns a raw result line into a Score. An empty or malformed line is
// not an error: it means the team has no result yet, and ok is false.
func Parse(raw string) (model.Score, bool) {
	// Hand-typed cells often carry stray surrounding whitespace.
	m := resultPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return model.Score{}, false
	}

	guesses, err := strconv.Atoi(m[1])
	if err != nil {
		return model.Score{}, false
	}
	minutes := 0
	if m[2] != "" {
		if minutes, err = strconv.Atoi(m[2]); err != nil {
			return model.Score{}, false
		}
	}
	seconds, err := strconv.Atoi(m[3])
	if err != nil {
		return model.Score{}, false
	}
	if minutes > (math.MaxInt-seconds)/secondsPerMinute {
		return model.Score{}, false
	}

	return model.Score{
		Time:    minutes*secondsPerMinute + seconds,
		Guesses: guesses,
	}, true
}

// ParsePtr is Parse for callers that model "no result" as nil.
func ParsePtr(raw string) *model.Score {
	s, ok := Parse(raw)
	if !ok {
		return nil
	}
	return &s
}

// FormatTime renders seconds as MM:SS.
func FormatTime(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/secondsPerMinute, seconds%secondsPerMinute)
}

// Format renders a score as "MM:SS | N guesses".
func Format(s model.Score) string {
	return fmt.Sprintf("%s | %d guesses", FormatTime(s.Time), s.Guesses)
}
