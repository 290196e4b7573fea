package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrSheetNotFound = errors.New("sheet not found")
	ErrInvalidRange  = errors.New("invalid range")
	ErrStoreRequest  = errors.New("store request failed")
	ErrClosed        = errors.New("workbook closed")
)
