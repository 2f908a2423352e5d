package usecase

import (
	"errors"
	"fmt"
	"net/http"

	repo "treeshop/internal/repository"
)

// 入力のどの項目がなぜだめか
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type HTTPError struct {
	Status  int
	Message string
	Details []FieldError
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

// 400 + details
func NewValidationError(details []FieldError) error {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: "invalid input",
		Details: details,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

var (
	errDB          = NewHTTPError(http.StatusInternalServerError, "db error")
	errUnavailable = NewHTTPError(http.StatusServiceUnavailable, "service unavailable")
	errUnauthorize = NewHTTPError(http.StatusUnauthorized, "unauthorized")
)

// DBが落ちていれば503、それ以外は500
func dbErr(err error) error {
	if errors.Is(err, repo.ErrUnavailable) {
		return errUnavailable
	}
	return errDB
}
