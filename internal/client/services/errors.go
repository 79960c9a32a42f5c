package services

import (
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrForbidden          = errors.New("access restricted to administrators")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUnavailable        = errors.New("could not reach the server")
)

// DefaultAccessExpiredMessage is shown on 403 when the server sends no text.
const DefaultAccessExpiredMessage = "Trial period ended. Contact support to restore access."

// AccessExpiredError is a login refused with 403. Message is the server
// text, or DefaultAccessExpiredMessage.
type AccessExpiredError struct {
	Message string
}

func (e *AccessExpiredError) Error() string {
	return e.Message
}
