package domain

import "errors"

// Sentinel errors shared by repositories, services, and controllers.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyRedeemed is returned when a pickup code has already been used for checkout.
	ErrAlreadyRedeemed = errors.New("code already redeemed")
	// ErrCodeSpaceExhausted is returned when no free pickup code could be found within the retry budget.
	ErrCodeSpaceExhausted = errors.New("could not generate a unique pickup code")
	// ErrCodeTaken is returned by the pickup code store when the code is already used within the event.
	ErrCodeTaken = errors.New("pickup code already in use for event")
	// ErrActiveCodeExists is returned by the pickup code store when the youth already holds an unredeemed code for the event.
	ErrActiveCodeExists = errors.New("youth already has an active pickup code for event")
	// ErrDuplicatePhone is returned when a family with the same phone already exists in the organization.
	ErrDuplicatePhone = errors.New("family with this phone number already exists")
)
