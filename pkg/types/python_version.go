// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidPythonVersion is the sentinel error wrapped by InvalidPythonVersionError.
var ErrInvalidPythonVersion = errors.New("invalid python version request")

type (
	// PythonVersion is an interpreter request forwarded to uv as --python,
	// such as "3.12", ">=3.11" or "pypy@3.10". The zero value means "let uv
	// decide".
	PythonVersion string

	// InvalidPythonVersionError is returned when a PythonVersion contains
	// whitespace or control characters.
	InvalidPythonVersionError struct {
		Value PythonVersion
	}
)

// String returns the string representation of the PythonVersion.
func (v PythonVersion) String() string { return string(v) }

// IsSet reports whether a version was requested.
func (v PythonVersion) IsSet() bool { return v != "" }

// Validate returns an error if the request cannot be a single uv argument.
func (v PythonVersion) Validate() error {
	if v == "" {
		return nil
	}
	if strings.IndexFunc(string(v), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) >= 0 {
		return &InvalidPythonVersionError{Value: v}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidPythonVersionError) Error() string {
	return fmt.Sprintf("invalid python version request %q: must not contain whitespace", e.Value)
}

// Unwrap returns ErrInvalidPythonVersion for errors.Is() compatibility.
func (e *InvalidPythonVersionError) Unwrap() error { return ErrInvalidPythonVersion }
