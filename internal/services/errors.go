package services

import "errors"

// Dashboard service errors
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Export errors
	ErrUnknownFormat = errors.New("unknown export format")

	// General errors
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
