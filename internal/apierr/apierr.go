// Package apierr implements the error taxonomy every operation handler
// converts its failures into before a result reaches the dispatcher's caller.
package apierr

import "fmt"

// Kind is a coarse error classification, not a Go type hierarchy.
type Kind string

const (
	KindBadRequest     Kind = "bad-request"
	KindNoWorkspace    Kind = "no-workspace"
	KindNotFound       Kind = "not-found"
	KindAmbiguous      Kind = "ambiguous"
	KindUnsupported    Kind = "unsupported"
	KindState          Kind = "state"
	KindTimeout        Kind = "timeout"
	KindBackendFailure Kind = "backend-failure"
	KindInternal       Kind = "internal"
)

// Diagnostic is a single adapter-reported backend failure entry.
type Diagnostic struct {
	Line    int    `json:"line,omitempty"`
	Col     int    `json:"col,omitempty"`
	Message string `json:"message"`
}

// Error is the uniform error payload every operation handler returns.
// It carries only the fields relevant to its Kind; the rest are zero.
type Error struct {
	Kind        Kind         `json:"kind"`
	Message     string       `json:"message"`
	Param       string       `json:"param,omitempty"`       // bad-request: offending parameter name
	Suggestions []string     `json:"suggestions,omitempty"` // not-found: up to 5 nearby names
	Candidates  []string     `json:"candidates,omitempty"`  // ambiguous: matching class names
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"` // backend-failure: adapter output verbatim
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// BadRequest reports a missing or mistyped argument, naming the parameter.
func BadRequest(param, message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message, Param: param}
}

// NoWorkspace reports that the operation requires an open workspace.
func NoWorkspace() *Error {
	return &Error{Kind: KindNoWorkspace, Message: "no workspace is open"}
}

// NotFound reports a missing class or member, with up to 5 suggestions.
func NotFound(message string, suggestions []string) *Error {
	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}
	return &Error{Kind: KindNotFound, Message: message, Suggestions: suggestions}
}

// Ambiguous reports a simple-name resolution that matched multiple classes.
func Ambiguous(message string, candidates []string) *Error {
	return &Error{Kind: KindAmbiguous, Message: message, Candidates: candidates}
}

// Unsupported reports an operation attempted on an unsupported element or
// a capability unavailable in the runtime.
func Unsupported(message string) *Error {
	return &Error{Kind: KindUnsupported, Message: message}
}

// State reports an invalid state transition (e.g. call-graph not built,
// no undoable transform available).
func State(message string) *Error {
	return &Error{Kind: KindState, Message: message}
}

// Timeout reports an external capability call exceeding its wall-clock cap,
// or cooperative cancellation being honored.
func Timeout(message string) *Error {
	return &Error{Kind: KindTimeout, Message: message}
}

// BackendFailure reports a typed failure from a decompiler/assembler/compiler
// adapter, carrying its diagnostics verbatim.
func BackendFailure(message string, diagnostics []Diagnostic) *Error {
	return &Error{Kind: KindBackendFailure, Message: message, Diagnostics: diagnostics}
}

// Internal wraps an unexpected runtime error. The message is the error's
// text, never a stack trace.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: err.Error()}
}

// As extracts an *Error from err, returning ok=false if err is not one.
func As(err error) (*Error, bool) {
	e, ok := err.(*Error)
	return e, ok
}
