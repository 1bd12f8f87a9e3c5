// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package domain defines the error kinds raised by the hierarchy engine and
// the book catalog. Callers match kinds with errors.Is; the HTTP layer maps
// them to status codes without further business logic.
package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Compare with errors.Is, never by message.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateName     = errors.New("duplicate name")
	ErrParentNotFound    = errors.New("parent category not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrSelfParent        = errors.New("category cannot be its own parent")
	ErrCircularReference = errors.New("circular reference")
	ErrValidation        = errors.New("validation failed")
	ErrInternal          = errors.New("internal error")
)

// Error is a typed, recoverable failure carrying one of the kinds above.
// Message is safe to show to clients; Err holds the underlying cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Is matches the error's kind so errors.Is(err, ErrNotFound) works.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an Error of the given kind with a client-facing message.
func New(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected storage failure. The message stays generic so
// storage details do not leak past the API surface.
func Internal(op string, err error) *Error {
	return &Error{Kind: ErrInternal, Message: op + " failed", Err: err}
}

// NotFound is shorthand for New(ErrNotFound, "<entity> not found").
func NotFound(entity string) *Error {
	return New(ErrNotFound, "%s not found", entity)
}

// Message returns the client-facing message of err. Errors that are not
// *Error yield a generic message.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		if de.Kind == ErrInternal {
			return "internal server error"
		}
		return de.Message
	}
	return "internal server error"
}
