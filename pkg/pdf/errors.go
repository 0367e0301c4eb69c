package pdf

import (
	"fmt"
	"strings"
)

// ArgumentError reports a caller contract violation: an unusable source
// value, a text-backed stream, or a bad open option. It is always raised
// before any engine call and is never retried.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string {
	return "pikepdf: " + e.Msg
}

// PDFError is the general document error: parse failures, I/O failures and
// corruption the engine could not recover from. Msg carries the engine's
// diagnostic text verbatim.
type PDFError struct {
	Msg string
	Err error
}

func (e *PDFError) Error() string {
	return e.Msg
}

func (e *PDFError) Unwrap() error {
	return e.Err
}

// PasswordError is raised only when the engine reports a password-specific
// failure while opening an encrypted document.
type PasswordError struct {
	Msg string
	Err error
}

func (e *PasswordError) Error() string {
	return e.Msg
}

func (e *PasswordError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a lookup of an object number with no live node in
// the session's graph.
type NotFoundError struct {
	ObjectNumber int
	Generation   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("pikepdf: object %d %d not found", e.ObjectNumber, e.Generation)
}

// passwordMarkers are the fragments of the engine's password diagnostics.
// pdfcpu does not export a stable sentinel error across versions, so the
// classifier keys on the diagnostic text instead.
var passwordMarkers = []string{
	"password",
	"authenticat",
}

// classifyOpenError is the single point of translation for engine failures
// during open: password failures become *PasswordError, everything else a
// *PDFError carrying the diagnostic unmodified.
func classifyOpenError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	lower := strings.ToLower(msg)
	for _, marker := range passwordMarkers {
		if strings.Contains(lower, marker) {
			return &PasswordError{Msg: msg, Err: err}
		}
	}
	return &PDFError{Msg: msg, Err: err}
}

// engineError wraps a non-open engine failure without reclassification.
func engineError(err error) error {
	if err == nil {
		return nil
	}
	return &PDFError{Msg: err.Error(), Err: err}
}
