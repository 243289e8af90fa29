/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package errs defines the single error type used throughout textr.
//
// The library this was adapted from carried two near-identical error types
// (ContextError and TraceableError) plus a third ad-hoc CustomError. They all
// served the same purpose, so this package collapses them into one.
package errs

import (
	"fmt"
	"strings"

	"golang.org/x/xerrors"
)

// Kind classifies the failure mode of a ContextError.
type Kind int

// Failure taxonomy. The zero value, KindUnspecified, is used for errors that
// don't need to be distinguished by callers.
const (
	KindUnspecified Kind = iota
	KindFileIO
	KindParseError
	KindLookupError
	KindInvariantViolation
	KindExternalToolError
)

// ContextError wraps a failure with human-readable context and, optionally,
// the error that caused it.
type ContextError struct {
	Kind    Kind
	Context string
	Source  error
}

// Error implements the error interface.
//
// When a source error is present the message is "{context}: {source}" with
// the source's first letter minimized, matching the convention the rest of
// the corpus uses for chained error messages.
func (e *ContextError) Error() string {
	if e.Source == nil {
		return e.Context
	}
	return e.Context + ": " + minimizeFirstLetter(e.Source.Error())
}

// Unwrap exposes the wrapped error so errors.Is / errors.As work as expected.
func (e *ContextError) Unwrap() error {
	return e.Source
}

// WithContext creates a ContextError carrying only a context message.
func WithContext(context string) *ContextError {
	return &ContextError{Context: context}
}

// WithKind creates a ContextError of a specific Kind carrying only a context message.
func WithKind(kind Kind, context string) *ContextError {
	return &ContextError{Kind: kind, Context: context}
}

// WithError creates a ContextError that wraps an underlying error.
func WithError(context string, source error) *ContextError {
	return &ContextError{Context: context, Source: source}
}

// WithErrorKind creates a ContextError of a specific Kind that wraps an underlying error.
func WithErrorKind(kind Kind, context string, source error) *ContextError {
	return &ContextError{Kind: kind, Context: context, Source: source}
}

// Wrapf builds a ContextError whose context is formatted with args. The
// source, if present, is re-wrapped with xerrors' %w verb before being
// stored, so that when this ContextError is itself later wrapped by another
// layer, errors.Is / errors.As can still walk past this frame down to the
// original cause.
func Wrapf(kind Kind, source error, format string, args ...interface{}) *ContextError {
	context := fmt.Sprintf(format, args...)
	var wrapped error
	if source != nil {
		wrapped = xerrors.Errorf("%w", source)
	}
	return &ContextError{Kind: kind, Context: context, Source: wrapped}
}

func minimizeFirstLetter(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
