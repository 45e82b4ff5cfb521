package transport

import (
	"errors"
	"fmt"
)

// Category classifies every transport failure into a small, fixed set the
// rest of the console can act on.
type Category string

const (
	CategoryBadRequest      Category = "bad_request"
	CategoryNotFound        Category = "not_found"
	CategoryValidationError Category = "validation_error"
	CategoryServerError     Category = "server_error"
	CategoryUnavailable     Category = "unavailable"
	CategoryNetworkError    Category = "network_error"
	CategoryUnexpectedError Category = "unexpected_error"
)

// userMessages are the user-visible notification texts per category.
var userMessages = map[Category]string{
	CategoryBadRequest:      "The request was invalid. Please check your input and try again.",
	CategoryNotFound:        "The requested resource was not found.",
	CategoryValidationError: "The submitted data failed validation.",
	CategoryServerError:     "The analysis service hit an internal error. Please try again later.",
	CategoryUnavailable:     "The analysis service is temporarily unavailable.",
	CategoryNetworkError:    "Could not reach the analysis service. Check your connection.",
	CategoryUnexpectedError: "Something unexpected went wrong. Please try again.",
}

// Error is a categorized transport failure. Detail carries the
// server-supplied message when one was present in the error body.
type Error struct {
	Category   Category
	StatusCode int
	Message    string
	Detail     string
	Err        error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Category, e.Detail)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Category, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage returns the notification text shown for this failure.
func (e *Error) UserMessage() string {
	return e.Message
}

// Categorize maps an HTTP status code to an error category.
func Categorize(statusCode int) Category {
	switch statusCode {
	case 400:
		return CategoryBadRequest
	case 404:
		return CategoryNotFound
	case 422:
		return CategoryValidationError
	case 500:
		return CategoryServerError
	case 503:
		return CategoryUnavailable
	default:
		return CategoryUnexpectedError
	}
}

// NewError builds a categorized error with the standard user message for
// the category. The demo adapter uses this to fail with the same taxonomy
// as real transport failures.
func NewError(category Category, statusCode int, detail string) *Error {
	return &Error{
		Category:   category,
		StatusCode: statusCode,
		Message:    userMessages[category],
		Detail:     detail,
	}
}

func newError(category Category, statusCode int, detail string, err error) *Error {
	e := NewError(category, statusCode, detail)
	e.Err = err
	return e
}

// AsError extracts a *Error from err, if it is one.
func AsError(err error) (*Error, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
