package models

import "errors"

// Error constants for person and session operations
var (
	ErrPersonNotFound     = errors.New("person not found")
	ErrInvalidCPF         = errors.New("invalid CPF")
	ErrDuplicateCPF       = errors.New("CPF already registered")
	ErrInvalidPersonID    = errors.New("invalid person ID")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionNotFound    = errors.New("session not found")
	ErrMissingCredentials = errors.New("email and password are required")
)
