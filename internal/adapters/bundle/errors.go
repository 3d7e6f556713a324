package bundle

import "errors"

// Sentinel kinds for bundle errors.
var (
	ErrInvalidName = errors.New("invalid resource name")
	ErrLookup      = errors.New("bundle lookup failed")
	ErrOpenBundle  = errors.New("open bundle failed")
)
