package domain

import "errors"

var (
	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrForbidden    = errors.New("forbidden")

	// Profile errors
	ErrPreferencesNotFound   = errors.New("seeker preferences not found")
	ErrHelperProfileNotFound = errors.New("helper profile not found")
	ErrHelperNotFound        = errors.New("helper not found")

	// Store errors
	ErrUpstreamUnavailable = errors.New("profile store unavailable")

	// Appointment errors
	ErrAppointmentNotFound   = errors.New("appointment not found")
	ErrAppointmentInPast     = errors.New("appointment date must be in the future")
	ErrMeetingLinkNotAllowed = errors.New("only helpers can set meeting links")

	// Message errors
	ErrReceiverNotFound  = errors.New("receiver not found")
	ErrCannotMessageSelf = errors.New("cannot send a message to yourself")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
