// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedExpression is matched by every *UnsupportedExpressionError.
	ErrUnsupportedExpression = errors.New("unsupported expression in translatable message")

	errLoadPackages   = errors.New("failed to load packages")
	errInvalidRefMode = errors.New("invalid reference mode")
)

// UnsupportedExpressionError reports a child of a translatable construct that
// is neither a string literal nor a recognised construct.
type UnsupportedExpressionError struct {
	Expr string
}

func (e *UnsupportedExpressionError) Error() string {
	return fmt.Sprintf("unsupported expression %s in translatable message", e.Expr)
}

func (e *UnsupportedExpressionError) Unwrap() error { return ErrUnsupportedExpression }

// Diagnostic is the error that stopped extraction of one file.
type Diagnostic struct {
	File string
	Err  error
}

func (d Diagnostic) Error() string { return d.File + ": " + d.Err.Error() }

func (d Diagnostic) Unwrap() error { return d.Err }

// DiagnosticsError is returned when one or more files failed to extract.
type DiagnosticsError struct {
	Diagnostics []Diagnostic
}

func (e *DiagnosticsError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%d file(s) failed to extract", len(e.Diagnostics))

	for _, d := range e.Diagnostics {
		b.WriteString("\n\t")
		b.WriteString(d.Error())
	}

	return b.String()
}

func (e *DiagnosticsError) Unwrap() []error {
	errs := make([]error, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		errs[i] = d
	}

	return errs
}
