package resource

import "errors"

// Sentinel kinds for resolution errors.
var (
	// ErrNotFound means no bundle resource carries the requested name.
	ErrNotFound = errors.New("resource not found")
	// ErrBundleRead means a resource exists but its bytes could not be read.
	ErrBundleRead = errors.New("bundle read failed")
)
