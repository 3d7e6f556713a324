package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrLoadSpec = errors.New("load api spec failed")
)
