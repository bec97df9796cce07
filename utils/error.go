package utils

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// ErrorKind classifies an error for the route boundary. Handlers translate
// kinds into HTTP statuses; anything unclassified is an internal error.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindInternal
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "internal error"
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func ValidationError(message string) error {
	return &AppError{Kind: KindValidation, Message: message}
}

func UnauthorizedError(message string) error {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func ForbiddenError(message string) error {
	return &AppError{Kind: KindForbidden, Message: message}
}

func NotFoundError(message string) error {
	return &AppError{Kind: KindNotFound, Message: message}
}

func ConflictError(message string) error {
	return &AppError{Kind: KindConflict, Message: message}
}

func InternalError(err error) error {
	return &AppError{Kind: KindInternal, Err: err}
}

var ErrorRecordNotFound = NotFoundError("record not found")

// KindOf resolves the kind of any error in the chain.
// gorm's not-found sentinel counts as NotFound so store lookups
// don't need wrapping at every call site.
func KindOf(err error) ErrorKind {
	if err == nil {
		return 0
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return KindNotFound
	}
	return KindInternal
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
