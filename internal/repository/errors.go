package repository

import "errors"

// ErrScreeningNotFound indicates that no screening has the requested ID.
// The service layer translates it into a not-found error kind, which
// handlers render as an HTTP 404 response.
var ErrScreeningNotFound = errors.New("screening not found")
