package domain

import "errors"

// Error kinds shared by every service. Adapters and services wrap them with
// fmt.Errorf("...: %w", ...) and the HTTP layer matches them with errors.Is.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrStorage     = errors.New("media storage failed")
	ErrPersistence = errors.New("persistence failed")
)
