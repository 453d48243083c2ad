// Package errors defines AppError, the coded error shared by the CLI, the
// HTTP API and the batch pipeline. Callers classify failures by code rather
// than by message.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

const maxFrames = 32

// AppError is a coded error. Error() prints "[CODE] message: detail" and
// leaves the cause to Unwrap.
//
//	return errors.New(errors.ErrCodeMoleculeDisconnected, "disconnected structure").
//		WithDetail("smiles=" + smiles)
type AppError struct {
	Code    ErrorCode
	Message string
	Detail  string
	Cause   error

	pcs []uintptr
}

func build(code ErrorCode, message string, cause error) *AppError {
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(3, pcs)
	return &AppError{Code: code, Message: message, Cause: cause, pcs: pcs[:n]}
}

func (e *AppError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
}

func (e *AppError) Unwrap() error { return e.Cause }

// StackTrace renders the frames recorded when the error was built, one per
// line, skipping the Go runtime.
func (e *AppError) StackTrace() string {
	if e == nil || len(e.pcs) == 0 {
		return ""
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(e.pcs)
	for {
		f, more := frames.Next()
		if !strings.HasPrefix(f.Function, "runtime.") {
			fmt.Fprintf(&sb, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		}
		if !more {
			return sb.String()
		}
	}
}

// WithDetail returns a copy carrying detail. Nil stays nil.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	c := *e
	c.Detail = detail
	return &c
}

// WithCause returns a copy wrapping err. Nil stays nil.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	c := *e
	c.Cause = err
	return &c
}

func New(code ErrorCode, message string) *AppError {
	return build(code, message, nil)
}

func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return build(code, fmt.Sprintf(format, args...), nil)
}

// Wrap returns nil for a nil err. CodeUnknown inherits the code of an
// AppError already in the chain.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		code = GetCode(err)
	}
	return build(code, message, err)
}

func Internal(message string) *AppError {
	return build(ErrCodeInternal, message, nil)
}

// Transport marks a failure to reach the prediction service.
func Transport(cause error, message string) *AppError {
	return build(ErrCodeTransport, message, cause)
}

// Decoding marks a response that arrived but could not be read.
func Decoding(cause error, message string) *AppError {
	return build(ErrCodeDecoding, message, cause)
}

// IsCode reports whether any AppError in the chain carries code.
func IsCode(err error, code ErrorCode) bool {
	for ; err != nil; err = errors.Unwrap(err) {
		if ae, ok := err.(*AppError); ok && ae.Code == code {
			return true
		}
	}
	return false
}

// GetCode returns the code of the outermost AppError: CodeOK for nil and
// CodeUnknown for foreign errors.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// IsValidation reports input the console refuses: malformed or disconnected
// descriptors, bad bond indices, empty batches.
func IsValidation(err error) bool { return familyOf(err) == familyValidation }

// IsTransport reports a network or service-side failure.
func IsTransport(err error) bool { return familyOf(err) == familyTransport }

// IsDecoding reports a missing or malformed response payload.
func IsDecoding(err error) bool { return familyOf(err) == familyDecoding }

func IsNotFound(err error) bool { return IsCode(err, ErrCodeNotFound) }

//Personal.AI order the ending
