// Package errors provides the project error type: a code that decides the HTTP
// status and failure class, a message, and optional field and op labels
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine facing classification of an error
// Values are serialized in HTTP envelopes; append new codes at the end
type ErrorCode uint16

const (
	ErrorCodeUnknown         ErrorCode = iota // unclassified
	ErrorCodePanic                            // recovered by middleware
	ErrorCodeUnavailable                      // collaborator unreachable: transport, timeout, 5xx
	ErrorCodeTooManyRequests                  // collaborator rate limited us
	ErrorCodeRejected                         // collaborator answered and refused
	ErrorCodeUnauthorized                     // collaborator refused our credentials
	ErrorCodeInvalidArgument                  // bad request parameters or headers
	ErrorCodeValidation                       // body decoded but failed validation
	ErrorCodeJSON                             // body did not decode
	ErrorCodeUnrecognized                     // event maps to no command
	ErrorCodeClassifier                       // toxicity model failed
)

type codeInfo struct {
	name   string
	status int
}

var codes = [...]codeInfo{
	ErrorCodeUnknown:         {"unknown", http.StatusInternalServerError},
	ErrorCodePanic:           {"panic", http.StatusInternalServerError},
	ErrorCodeUnavailable:     {"unavailable", http.StatusServiceUnavailable},
	ErrorCodeTooManyRequests: {"too_many_requests", http.StatusTooManyRequests},
	ErrorCodeRejected:        {"rejected", http.StatusBadGateway},
	ErrorCodeUnauthorized:    {"unauthorized", http.StatusUnauthorized},
	ErrorCodeInvalidArgument: {"invalid_argument", http.StatusUnprocessableEntity},
	ErrorCodeValidation:      {"validation", http.StatusBadRequest},
	ErrorCodeJSON:            {"json", http.StatusBadRequest},
	ErrorCodeUnrecognized:    {"unrecognized", http.StatusUnprocessableEntity},
	ErrorCodeClassifier:      {"classifier", http.StatusBadGateway},
}

func (c ErrorCode) info() codeInfo {
	if int(c) < len(codes) {
		return codes[c]
	}
	return codes[ErrorCodeUnknown]
}

// HTTPStatusCode turns an ErrorCode into an http status code
func HTTPStatusCode(c ErrorCode) int { return c.info().status }

// String renders the code for logs and metrics labels
func (c ErrorCode) String() string { return c.info().name }

// Error is the project error. Values are immutable; WithField and WithOp copy
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
	op    string
}

// Wire is the JSON-serializable form returned by the HTTP surface
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return e.msg + ": " + e.orig.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending input field, if any
func (e *Error) Field() string { return e.field }

// Op returns the operation label, if set
func (e *Error) Op() string { return e.op }

// WireFrom converts any error into a Wire payload. Foreign errors surface as
// unknown with their text; nil gives the zero Wire
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return Wire{Code: e.code, Message: e.msg, Field: e.field}
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// CodeOf extracts the outermost ErrorCode from any error, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// HTTPStatus returns the mapped HTTP status for any error
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// As finds the outermost *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

func with(err error, set func(*Error)) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	set(&c)
	return &c
}

// WithField labels the offending input. Foreign errors pass through
func WithField(err error, field string) error {
	return with(err, func(e *Error) { e.field = field })
}

// WithOp labels the failing operation. Foreign errors pass through
func WithOp(err error, op string) error {
	return with(err, func(e *Error) { e.op = op })
}

// New returns a new *Error with the given code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns a new *Error with code and formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with code and message
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf is Wrap with a formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// shorthand constructors, one per code callers raise directly

func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }
func JSONErrf(format string, a ...any) error    { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error   { return Newf(ErrorCodePanic, format, a...) }
func Rejectedf(format string, a ...any) error   { return Newf(ErrorCodeRejected, format, a...) }
func Internalf(format string, a ...any) error   { return Newf(ErrorCodeUnknown, format, a...) }

// Unreachable reports whether err means a remote collaborator could not be reached
func Unreachable(err error) bool { return CodeOf(err) == ErrorCodeUnavailable }

// Rejected reports whether err means a remote collaborator refused the request
func Rejected(err error) bool {
	switch CodeOf(err) {
	case ErrorCodeRejected, ErrorCodeUnauthorized, ErrorCodeTooManyRequests:
		return true
	}
	return false
}

// Retryable reports whether a later attempt may succeed
func Retryable(err error) bool {
	switch CodeOf(err) {
	case ErrorCodeUnavailable, ErrorCodeTooManyRequests:
		return true
	}
	return false
}
