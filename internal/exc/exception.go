// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"fmt"

	"gopkg.microglot.org/pawc/internal/idl"
)

type Exception interface {
	error
	Code() string
	Message() string
	Location() idl.Position
}

type exc struct {
	code     string
	message  string
	location idl.Position
}

func (e *exc) Error() string {
	if e.location.Line == 0 {
		return fmt.Sprintf("%s -- %s: %s", e.location.Filename, e.code, e.message)
	}
	return fmt.Sprintf("%s:%d:%d -- %s: %s", e.location.Filename, e.location.Line, e.location.Column, e.code, e.message)
}

func (e *exc) Code() string {
	return e.code
}

func (e *exc) Message() string {
	return e.message
}

func (e *exc) Location() idl.Position {
	return e.location
}

type excUnwrap struct {
	Exception
	cause error
}

func (e *excUnwrap) Unwrap() error {
	return e.cause
}

func New(location idl.Position, code string, message string) Exception {
	return &exc{
		location: location,
		message:  message,
		code:     code,
	}
}

// Newf is New with a formatted message.
func Newf(location idl.Position, code string, format string, args ...any) Exception {
	return New(location, code, fmt.Sprintf(format, args...))
}

func Wrap(location idl.Position, code string, err error) Exception {
	if err == nil {
		return nil
	}
	if e, ok := err.(Exception); ok {
		return &excUnwrap{
			Exception: New(location, code, e.Message()),
			cause:     e,
		}
	}
	return &excUnwrap{
		cause:     err,
		Exception: New(location, code, err.Error()),
	}
}

func WrapUnknown(location idl.Position, err error) Exception {
	return Wrap(location, CodeUnknownFatal, err)
}

// File returns a location that names only a file.
func File(uri string) idl.Position {
	return idl.Position{Filename: uri}
}
