package hook

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for conditions with no extra payload.
var (
	// ErrEmptyCommand means the resolved hook command has no program.
	ErrEmptyCommand = errors.New("translation command is empty")

	// ErrEmptyTranslation means the plugin answered with text that is
	// empty after trimming.
	ErrEmptyTranslation = errors.New("translator returned an empty translation")
)

// TimeoutError means the plugin did not finish within the configured
// deadline and was killed.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("translator timed out (%dms)", e.Timeout.Milliseconds())
}

// ExitError means the plugin exited non-zero. Previews of both streams
// are capped so a misbehaving plugin cannot flood diagnostics.
type ExitError struct {
	Code          int
	StderrPreview string
	StdoutPreview string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("translator exited non-zero (code=%d): stderr=%s stdout=%s",
		e.Code, e.StderrPreview, e.StdoutPreview)
}

// OutputTooLargeError means a plugin stream exceeded its byte ceiling.
type OutputTooLargeError struct {
	Stream string
	Limit  int
}

func (e *OutputTooLargeError) Error() string {
	return fmt.Sprintf("translator output too large (%s exceeded %d bytes)", e.Stream, e.Limit)
}

// InvalidJSONError means stdout did not parse as a response document.
type InvalidJSONError struct {
	StdoutPreview string
	Err           error
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("translator output is not valid JSON: %s", e.StdoutPreview)
}

func (e *InvalidJSONError) Unwrap() error { return e.Err }

// SchemaMismatchError means the plugin speaks a different contract
// version.
type SchemaMismatchError struct {
	Expected int
	Actual   int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("translator returned schema_version mismatch: expected=%d actual=%d",
		e.Expected, e.Actual)
}
