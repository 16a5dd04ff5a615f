// Package apperr defines the error taxonomy shared across the service.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound marks lookups for unknown entities (e.g. a wallet address with
// no record). Handlers translate it to an empty/404 response, never a crash.
var ErrNotFound = errors.New("not found")

// ValidationError rejects malformed input synchronously. Nothing carrying a
// ValidationError is ever persisted.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidation builds a ValidationError with a formatted message.
func NewValidation(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UpstreamFetchError means the price source was unreachable or returned a
// non-2xx status. It aborts the current update cycle only; the next scheduled
// cycle retries from scratch.
type UpstreamFetchError struct {
	Status int
	Err    error
}

func (e *UpstreamFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream fetch failed: %v", e.Err)
	}
	return fmt.Sprintf("upstream fetch failed: status %d", e.Status)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}

// PartialWriteError reports the symbols whose upsert or history append failed
// during an update cycle. The cycle continues past individual failures.
type PartialWriteError struct {
	FailedSymbols []string
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("partial write: %d symbols failed (%s)",
		len(e.FailedSymbols), strings.Join(e.FailedSymbols, ", "))
}
