// Package errdef defines the error kinds surfaced to API callers.
package errdef

import (
	"errors"
	"fmt"
)

// NewBadRequest creates a caller-fixable validation error.
func NewBadRequest(format string, a ...any) error {
	return badRequest{fmt.Errorf(format, a...)}
}

type badRequest struct{ error }

func IsBadRequest(err error) bool {
	var e badRequest
	return errors.As(err, &e)
}

// NewNotFound creates an error representing a resource that could not be found.
// Callers use one message for absent and inactive resources.
func NewNotFound(format string, a ...any) error {
	return notFound{fmt.Errorf(format, a...)}
}

type notFound struct{ error }

// IsNotFound returns true if err is an error representing a resource that could not be found and false otherwise.
func IsNotFound(err error) bool {
	var e notFound
	return errors.As(err, &e)
}

func NewForbidden(format string, a ...any) error {
	return forbidden{fmt.Errorf(format, a...)}
}

type forbidden struct{ error }

func IsForbidden(err error) bool {
	var e forbidden
	return errors.As(err, &e)
}

func NewUnauthorized(format string, a ...any) error {
	return unauthorized{fmt.Errorf(format, a...)}
}

type unauthorized struct{ error }

func IsUnauthorized(err error) bool {
	var e unauthorized
	return errors.As(err, &e)
}

// NewModerationRejected creates an error for event content that failed moderation.
// Reason is the classifier's stated reason.
func NewModerationRejected(reason string) error {
	return ModerationRejected{Reason: reason}
}

// ModerationRejected is returned when an event is refused by the moderation gate.
type ModerationRejected struct {
	Reason string
}

func (e ModerationRejected) Error() string {
	return "Event rejected by moderation: " + e.Reason
}

// IsModerationRejected returns true if err is a moderation rejection.
func IsModerationRejected(err error) bool {
	var e ModerationRejected
	return errors.As(err, &e)
}
