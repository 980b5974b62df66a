// Copyright 2026, the tagtr contributors
// SPDX-License-Identifier: AGPL-3.0-only

package placeholder

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrStructural             = errors.New("malformed translatable construct")
	ErrMissingPlaceholder     = errors.New("placeholder has no value")
	ErrUnsupportedPlaceholder = errors.New("placeholder not supported here")
)

// StructuralError reports a malformed translatable construct, such as a
// duplicated parameter name or a child that is neither text nor a parameter.
type StructuralError struct {
	Reason string
}

// Structuralf returns a *StructuralError with a formatted reason.
func Structuralf(format string, args ...any) error {
	return &StructuralError{Reason: fmt.Sprintf(format, args...)}
}

func (e *StructuralError) Error() string { return e.Reason }

func (e *StructuralError) Unwrap() error { return ErrStructural }

// MissingPlaceholderError reports a placeholder that has no bound value.
type MissingPlaceholderError struct {
	Name string
}

func (e *MissingPlaceholderError) Error() string {
	return fmt.Sprintf("no value for placeholder %q", e.Name)
}

func (e *MissingPlaceholderError) Unwrap() error { return ErrMissingPlaceholder }

// UnsupportedPlaceholderError reports a placeholder with inline body content
// where only plain values can be substituted.
type UnsupportedPlaceholderError struct {
	Name string
}

func (e *UnsupportedPlaceholderError) Error() string {
	return fmt.Sprintf("placeholder %q has body content, which flat strings cannot represent", e.Name)
}

func (e *UnsupportedPlaceholderError) Unwrap() error { return ErrUnsupportedPlaceholder }
