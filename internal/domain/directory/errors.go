package directory

import "errors"

// Sentinel kinds for directory lookups.
var (
	ErrTeamNotFound = errors.New("team not found")
)
