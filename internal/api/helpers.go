package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodtrove/internal/client"
	"github.com/pageza/foodtrove/internal/service"
	"github.com/pageza/foodtrove/internal/types"
)

func first[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return v
}

// safeNext returns the posted "next" path when it is a local path.
func safeNext(c *gin.Context, fallback string) string {
	next := c.PostForm("next")
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}

// withQuery sets one query parameter on a local path.
func withQuery(path, key, value string) string {
	u, err := url.Parse(path)
	if err != nil {
		return path
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}

// statusFor maps a service error to the status of a JSON API response.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrTagRequired),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, client.ErrInvalidID),
		errors.Is(err, client.ErrInvalidUserID),
		errors.Is(err, client.ErrNoProducts),
		errors.Is(err, client.ErrCartIDRequired):
		return http.StatusBadRequest
	case client.IsNotFound(err):
		return http.StatusNotFound
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return apiErr.Status
	}
	return http.StatusBadGateway
}

func respondError(c *gin.Context, err error, fallback string) {
	c.JSON(statusFor(err), gin.H{"error": service.Message(err, fallback)})
}

func lineItems(in []types.LineItemRequest) []client.LineItem {
	out := make([]client.LineItem, 0, len(in))
	for _, it := range in {
		out = append(out, client.LineItem{ID: it.ID, Quantity: it.Quantity})
	}
	return out
}
