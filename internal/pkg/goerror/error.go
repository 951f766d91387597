package goerror

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// Code classifies an Error and selects its HTTP status.
type Code int

const (
	// CodeInternal represents an internal or unspecified error.
	CodeInternal Code = iota
	// CodeInvalidFormat indicates a malformed request or a missing field.
	CodeInvalidFormat
	// CodeUnavailable indicates the endpoint is temporarily disabled.
	CodeUnavailable
)

// String returns the string representation of the error code.
func (c Code) String() string {
	switch c {
	case CodeInvalidFormat:
		return "ERROR_CODE_INVALID_FORMAT"
	case CodeUnavailable:
		return "ERROR_CODE_UNAVAILABLE"
	default:
		return "ERROR_CODE_INTERNAL"
	}
}

// Error pairs a static client message with the underlying cause.
//
// Msg is the only part that ever reaches a client. Error and Unwrap expose
// the cause for logs and traces.
type Error struct {
	err  error
	msg  string
	code Code
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return e.msg
}

// String returns a verbose representation for debugging.
func (e *Error) String() string {
	return fmt.Sprintf("code=%s msg=%q cause=%v", e.code, e.msg, e.err)
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("code", e.code.String()),
		slog.String("msg", e.msg),
	}
	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}
	return slog.GroupValue(attrs...)
}

// Msg returns the client message.
func (e *Error) Msg() string {
	return e.msg
}

// Code returns the error code.
func (e *Error) Code() Code {
	return e.code
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.err
}

// StatusCode maps the error code to an HTTP status code.
func (e *Error) StatusCode() int {
	switch e.code {
	case CodeInvalidFormat:
		return http.StatusBadRequest
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr, true
	}
	return nil, false
}

// NewServer creates an internal error with the generic message.
func NewServer(err error) error {
	return &Error{err: err, msg: "Internal server error", code: CodeInternal}
}

// NewServerMsg creates an internal error carrying a static client message.
func NewServerMsg(err error, msg string) error {
	return &Error{err: err, msg: msg, code: CodeInternal}
}

// NewInvalidFormat creates a 400 error. The first msg, when given, replaces
// the default message.
func NewInvalidFormat(msgs ...string) error {
	msg := "Invalid request body"
	if len(msgs) > 0 && msgs[0] != "" {
		msg = msgs[0]
	}
	return &Error{msg: msg, code: CodeInvalidFormat}
}

// NewUnavailable creates a 503 error.
func NewUnavailable(msg string) error {
	return &Error{msg: msg, code: CodeUnavailable}
}
