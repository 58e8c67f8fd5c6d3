// Package yaerrors provides a coded error type that carries an HTTP-like status
// code, the original cause and a human readable traceback built by wrapping the
// error on its way up the call stack.
//
// Example:
//
//	err := yaerrors.FromError(http.StatusServiceUnavailable, io.EOF, "send text frame")
//	err = err.Wrap("replay buffered messages")
//	fmt.Println(err) // 503 | replay buffered messages -> send text frame: EOF
package yaerrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/YaCodeDev/GoYaSocket/yalogger"
)

// Error is the error type returned by every package of this module.
type Error interface {
	error
	Wrap(msg string) Error
	WrapWithLog(msg string, log yalogger.Logger) Error
	Code() int
	Unwrap() error
	UnwrapLastError() string
}

const (
	codeSeparate  = " | "
	errorSeparate = " -> "
)

type yaError struct {
	code      int
	cause     error
	traceback string
}

// FromError builds an Error around cause with the given code.
// The traceback starts as "<wrap>: <cause>".
func FromError(code int, cause error, wrap string) Error {
	return &yaError{
		code:      code,
		cause:     cause,
		traceback: fmt.Sprintf("%s: %v", wrap, cause),
	}
}

// FromErrorWithLog is FromError that also logs the traceback at Error level.
func FromErrorWithLog(code int, cause error, wrap string, log yalogger.Logger) Error {
	err := FromError(code, cause, wrap)
	log.Error(err.Error())

	return err
}

// FromString builds an Error whose cause is a new error with msg as text.
func FromString(code int, msg string) Error {
	return &yaError{
		code:      code,
		cause:     errors.New(msg), //nolint:err113
		traceback: msg,
	}
}

// FromStringWithLog is FromString that also logs msg at Error level.
func FromStringWithLog(code int, msg string, log yalogger.Logger) Error {
	log.Error(msg)

	return FromString(code, msg)
}

// Is reports whether err carries target anywhere in its chain. It is a thin
// wrapper around errors.Is that tolerates a nil Error interface value.
func Is(err Error, target error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, target)
}

func (e *yaError) Error() string {
	safetyCheck(&e)

	return fmt.Sprintf("%d%s%s", e.code, codeSeparate, e.traceback)
}

func (e *yaError) Unwrap() error {
	safetyCheck(&e)

	return e.cause
}

// UnwrapLastError returns the outermost message of the traceback.
func (e *yaError) UnwrapLastError() string {
	safetyCheck(&e)

	before, _, found := strings.Cut(e.traceback, errorSeparate)
	if !found {
		return e.traceback
	}

	return before
}

// Wrap prepends msg to the traceback. Call it every time the error is
// returned one level up.
func (e *yaError) Wrap(msg string) Error {
	safetyCheck(&e)
	e.traceback = msg + errorSeparate + e.traceback

	return e
}

// WrapWithLog is Wrap that also logs msg at Error level.
func (e *yaError) WrapWithLog(msg string, log yalogger.Logger) Error {
	log.Error(msg)

	return e.Wrap(msg)
}

func (e *yaError) Code() int {
	safetyCheck(&e)

	return e.code
}

// safetyCheck replaces a nil receiver with a teapot error.
func safetyCheck(err **yaError) {
	if *err == nil {
		*err = &yaError{
			code:      http.StatusTeapot,
			cause:     ErrTeapot,
			traceback: ErrTeapot.Error(),
		}
	}
}
