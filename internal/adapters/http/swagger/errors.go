package swagger

import "errors"

// Error constants.
var (
	ErrServe         = errors.New("swagger serve failed")
	ErrInvalidConfig = errors.New("invalid swagger-ui config")
)
