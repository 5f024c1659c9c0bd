// newscorr error tools
package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
)

// Outcome classes shared across the pipeline. Callers match them with Is.
var (
	// ErrInsufficientData marks a computation that has no defined result for its input
	// (empty or single-point sample, zero-variance series).
	ErrInsufficientData = stderrors.New("insufficient data")
	// ErrUpstreamUnavailable marks a missing price or news source.
	ErrUpstreamUnavailable = stderrors.New("upstream source unavailable")
	// ErrMalformedSource marks a source that exists but cannot be interpreted.
	ErrMalformedSource = stderrors.New("malformed source")
	ErrInvalidInput    = stderrors.New("invalid input")
	ErrDuplicateDate   = stderrors.New("duplicate date")
)

// WrapE wraps the original error with a static error message.
// It returns a new error that includes both the static error and the original error.
func WrapE(staticErr, originalErr error) error {
	_, file, line, _ := runtime.Caller(1)
	return fmt.Errorf("%s:%d: %w: %w", file, line, staticErr, originalErr)
}

func Wrap(err error, msg string) error {
	_, file, line, _ := runtime.Caller(1)
	return fmt.Errorf("%s:%d: %w: %s", file, line, err, msg)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	_, file, line, _ := runtime.Caller(1)
	return fmt.Errorf("%s:%d: %w: %s", file, line, err, fmt.Sprintf(format, args...))
}

// Wrapef wraps the original error with a static error and a formatted message.
// Both errors stay matchable with Is.
func Wrapef(staticErr, originalErr error, format string, args ...any) error {
	_, file, line, _ := runtime.Caller(1)
	return fmt.Errorf("%s:%d: %w: %s: %w", file, line, staticErr, fmt.Sprintf(format, args...), originalErr)
}

// New creates a new error with the given text, prefixed with the caller location.
func New(text string) error {
	_, file, line, _ := runtime.Caller(1)
	return fmt.Errorf("%s:%d: %s", file, line, text)
}

func Newf(format string, args ...any) error {
	_, file, line, _ := runtime.Caller(1)
	return fmt.Errorf("%s:%d: %s", file, line, fmt.Sprintf(format, args...))
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}
