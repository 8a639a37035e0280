//go:build unit

package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCodeAndMessage(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"wrapped not found", fmt.Errorf("get page: %w", NotFound("page")), http.StatusNotFound, "page not found"},
		{"bare forbidden", ErrForbidden, http.StatusForbidden, "You do not have access to this resource"},
		{"conflict message", Conflict("category %q already exists", "Shoes"), http.StatusConflict, `category "Shoes" already exists`},
		{"validation", fmt.Errorf("create: %w", Validation("title is required")), http.StatusBadRequest, "title is required"},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, "Authentication required"},
		{"unavailable", fmt.Errorf("upload: %w", ErrUnavailable), http.StatusServiceUnavailable, "This feature is not available"},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError, "Something went wrong. Please try again."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusCode(tc.err); got != tc.wantCode {
				t.Errorf("StatusCode() = %d, want %d", got, tc.wantCode)
			}
			if got := Message(tc.err); got != tc.wantMsg {
				t.Errorf("Message() = %q, want %q", got, tc.wantMsg)
			}
		})
	}
}
