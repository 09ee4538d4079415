// SPDX-License-Identifier: MPL-2.0

package pep723

import (
	"errors"
	"fmt"
)

var (
	// ErrBlockSyntax is the sentinel error wrapped by BlockSyntaxError.
	ErrBlockSyntax = errors.New("malformed inline metadata block")
	// ErrAmbiguousBlock is the sentinel error wrapped by AmbiguousBlockError.
	ErrAmbiguousBlock = errors.New("ambiguous metadata block")
	// ErrMetadataSyntax is the sentinel error wrapped by MetadataSyntaxError.
	ErrMetadataSyntax = errors.New("invalid inline metadata")
)

type (
	// BlockSyntaxError is returned when an open fence is found but the region
	// that follows is not a well-formed block: a non-comment line appears
	// before the close fence, a second open fence is nested inside, or the
	// close fence is missing.
	BlockSyntaxError struct {
		// Line is the 1-based line number of the offending line.
		Line int
		// Text is the offending line without its terminator.
		Text string
		// Reason describes what is wrong with the line.
		Reason string
	}

	// AmbiguousBlockError is returned when a script contains more than one
	// open fence for the same tag.
	AmbiguousBlockError struct {
		Tag        string
		FirstLine  int
		SecondLine int
	}

	// MetadataSyntaxError is returned when a block body is not valid TOML or
	// a known key has the wrong type.
	MetadataSyntaxError struct {
		// Body is the offending body text.
		Body string
		// Line and Column locate the problem inside Body (1-based, zero when unknown).
		Line   int
		Column int
		// Message is the decoder's description of the problem.
		Message string
	}
)

// Error implements the error interface.
func (e *BlockSyntaxError) Error() string {
	return fmt.Sprintf("malformed inline metadata block at line %d (%s): %q", e.Line, e.Reason, e.Text)
}

// Unwrap returns ErrBlockSyntax for errors.Is() compatibility.
func (e *BlockSyntaxError) Unwrap() error { return ErrBlockSyntax }

// Error implements the error interface.
func (e *AmbiguousBlockError) Error() string {
	return fmt.Sprintf("ambiguous metadata block: %q opened on lines %d and %d", fenceOpen(e.Tag), e.FirstLine, e.SecondLine)
}

// Unwrap returns ErrAmbiguousBlock for errors.Is() compatibility.
func (e *AmbiguousBlockError) Unwrap() error { return ErrAmbiguousBlock }

// Error implements the error interface.
func (e *MetadataSyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid inline metadata at line %d, column %d: %s", e.Line, e.Column, e.Message)
	}
	return "invalid inline metadata: " + e.Message
}

// Unwrap returns ErrMetadataSyntax for errors.Is() compatibility.
func (e *MetadataSyntaxError) Unwrap() error { return ErrMetadataSyntax }
