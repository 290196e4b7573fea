package model

import "errors"

// Sentinel kinds for model validation.
var (
	ErrUnknownMode = errors.New("unknown game mode")
)
