package service

import "errors"

// Error kinds returned by Service.
var (
	ErrNotStarted = errors.New("service not started")
	ErrNoWorkbook = errors.New("no workbook configured")
)
