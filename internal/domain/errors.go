package domain

import "errors"

var (
	ErrTemporarilyUnavailable = errors.New("temporarily unavailable")
	ErrProjectUnavailable     = errors.New("project data unavailable")
	ErrInvalidAPIKey          = errors.New("invalid API key")
	ErrNotFound               = errors.New("not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidSettings        = errors.New("invalid settings")
	ErrNotConfigured          = errors.New("not configured")
	ErrUnauthorized           = errors.New("unauthorized")
)
