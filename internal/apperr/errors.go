package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrUnauthorized indicates a missing or unusable session (HTTP 401).
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates that the session role may not perform the call (HTTP 403).
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates a uniqueness or state conflict (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidCode is returned when a delivery validation code does not match.
var ErrInvalidCode = errors.New("invalid validation code")

// ErrUnavailable indicates that a third-party collaborator could not be reached.
var ErrUnavailable = errors.New("service unavailable")
