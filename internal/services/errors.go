// Package services defines the business logic for the AI agent, auth,
// subscription, and demo-request flows. This file centralizes common
// service-level error values so they can be consistently returned by service
// methods and checked by callers.
//
// These errors are intended for internal use by the service layer; mapping
// into user-facing messages and HTTP status codes happens at the handler
// layer.
package services

import "errors"

// AI agent errors.
var (
	// ErrInvalidID indicates a company or user identifier that is not a
	// valid 24-hex-character ObjectId. Always a client error; no store or
	// gateway call happens after it.
	ErrInvalidID = errors.New("invalid identifier")

	// ErrEmptyQuestion is returned when a text turn carries no question.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrBadAudio is returned when the voice payload is not valid base64.
	ErrBadAudio = errors.New("audio payload is not valid base64")
)

// Auth errors.
var (
	// ErrEmailTaken indicates signup with an already registered email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers unknown email, wrong password, and
	// accounts without a password set. Deliberately indistinct.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrNotVerified is returned when a user logs in before following the
	// email verification link.
	ErrNotVerified = errors.New("email not verified")

	// ErrEmailNotFound is returned by the forgot-password flow when no
	// account exists for the email.
	ErrEmailNotFound = errors.New("email not found")

	// ErrUserNotFound indicates a verification or reset token referencing
	// a user that no longer exists (or was already processed).
	ErrUserNotFound = errors.New("user not found")
)
