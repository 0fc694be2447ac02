package app

import "errors"

// Sentinel errors for common application errors
var (
	ErrUnauthenticated    = errors.New("not logged in: run 'jobdash auth login' first")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidArgument    = errors.New("invalid argument")
)
