package errx

import (
	"errors"
	"fmt"
)

// Kind identifies which boundary a failure came from. Every node-level
// failure maps to exactly one kind so callers can pick the documented
// local fallback without string matching.
type Kind string

const (
	// KindClassification covers classifier call or label-parse failures.
	KindClassification Kind = "classification_error"
	// KindRetrieval covers rewrite/retrieve/synthesize sub-failures.
	KindRetrieval Kind = "retrieval_error"
	// KindInference covers language-model call failures.
	KindInference Kind = "inference_error"
	// KindTicketCreation covers ticket tool failures.
	KindTicketCreation Kind = "ticket_creation_error"
	// KindTimeout is cross-cutting and wraps any of the above when the
	// bounded call deadline fired.
	KindTimeout Kind = "timeout_error"
	// KindStorage covers trace persistence failures.
	KindStorage Kind = "storage_error"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
)

// AppError wraps an underlying error with a kind and a safe message.
type AppError struct {
	Kind    Kind
	Err     error
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(kind Kind, err error, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Err:     err,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message and no cause.
func Newf(kind Kind, format string, args ...any) *AppError {
	return &AppError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Is reports whether the target matches the underlying error, or is an
// AppError of the same kind.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return t.Kind == e.Kind
	}
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return errors.As(e.Err, target)
}

// KindOf extracts the Kind from an error chain, or "" when no AppError is present.
func KindOf(err error) Kind {
	var app *AppError
	if errors.As(err, &app) {
		return app.Kind
	}
	return ""
}

// IsTimeout reports whether the chain contains a timeout-kind failure.
func IsTimeout(err error) bool {
	return KindOf(err) == KindTimeout
}
