package api

import (
	"fmt"
	"net/http"

	"github.com/shopwave/storefront/internal/domain"
)

// Error is a non-2xx answer from the backend.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// UserMessage is the backend-provided text, empty when the backend sent none.
func (e *Error) UserMessage() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	return target == domain.ErrNotFound && e.StatusCode == http.StatusNotFound
}
