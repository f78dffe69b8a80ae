package datalayer

import (
	"errors"
	"fmt"
)

// ErrMissingContext is returned when a trigger lacks the data it cannot run
// without, such as a purchase with no order.
type ErrMissingContext struct {
	Event EventName
	What  string
}

func (e *ErrMissingContext) Error() string {
	return fmt.Sprintf("%s: missing %s", e.Event, e.What)
}

// IsMissingContext reports whether err wraps an *ErrMissingContext.
func IsMissingContext(err error) bool {
	var target *ErrMissingContext
	return errors.As(err, &target)
}

func missing(event EventName, what string) error {
	return &ErrMissingContext{Event: event, What: what}
}
