package client

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

var (
	ErrInvalidUserID  = errors.New("addToCart: userId must be a positive number")
	ErrNoProducts     = errors.New("addToCart: products must be a non-empty array of {id, quantity}")
	ErrCartIDRequired = errors.New("cartId required")
	ErrInvalidID      = errors.New("id must be a positive number")
)

// APIError is returned for non-2xx responses from the demo API.
// Message is the JSON "message" field; Body keeps the start of the raw
// response when that field is missing.
type APIError struct {
	Status  int
	Message string
	Body    string
}

// maxErrorBody caps the response text kept on an APIError.
const maxErrorBody = 200

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	case e.Body != "":
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

func errorBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > maxErrorBody {
		body = strings.ToValidUTF8(body[:maxErrorBody], "") + "..."
	}
	return body
}

// IsNotFound reports whether err is a 404 from the demo API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 404
}

// Describe turns err into the short message shown to visitors: the API's own
// message, "Network error" for transport failures, or fallback otherwise.
func Describe(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	for _, sentinel := range []error{ErrInvalidUserID, ErrNoProducts, ErrCartIDRequired, ErrInvalidID} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return "Network error"
	}

	return fallback
}
