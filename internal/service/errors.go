package service

import (
	"errors"

	"github.com/pageza/foodtrove/internal/client"
)

var (
	ErrTagRequired     = errors.New("tag required")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidDelivery = errors.New("unknown delivery method")
	ErrInvalidPayment  = errors.New("unknown payment method")
	ErrOrderNotFound   = errors.New("order not found")
)

// FetchError is returned when an upstream call fails. Message is the short
// text shown to visitors; Err is the underlying failure.
type FetchError struct {
	Resource string
	Message  string
	Err      error
}

func (e *FetchError) Error() string {
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func newFetchError(resource string, err error, fallback string) *FetchError {
	return &FetchError{Resource: resource, Message: client.Describe(err, fallback), Err: err}
}

// Message returns the visitor-facing text for err.
func Message(err error, fallback string) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Message
	}
	return client.Describe(err, fallback)
}
