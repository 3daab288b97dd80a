// Package feedback carries user-facing rejections out of the controllers.
// A rejection wraps a package sentinel so callers can still use errors.Is,
// and holds the message shown to the shopper plus the form field to
// highlight or the page to go back to.
package feedback

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Error struct {
	Err      error
	Message  string
	Field    string
	Redirect string
}

func New(sentinel error, message string) *Error {
	return &Error{Err: sentinel, Message: message}
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "rejected"
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) WithField(field string) *Error {
	c := *e
	c.Field = field
	return &c
}

func (e *Error) WithRedirect(to string) *Error {
	c := *e
	c.Redirect = to
	return &c
}

// Message returns the shopper-facing text of err.
func Message(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Error()
	}
	return err.Error()
}

// Body renders err the way every handler reports errors.
func Body(err error) fiber.Map {
	body := fiber.Map{"message": Message(err)}
	var fe *Error
	if errors.As(err, &fe) {
		if fe.Field != "" {
			body["field"] = fe.Field
		}
		if fe.Redirect != "" {
			body["redirect"] = fe.Redirect
		}
	}
	return body
}
