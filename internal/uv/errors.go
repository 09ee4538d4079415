// SPDX-License-Identifier: MPL-2.0

package uv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/juvnb/juv/pkg/types"
)

var (
	// ErrExternalTool is the sentinel error wrapped by ExternalToolError.
	ErrExternalTool = errors.New("external tool failed")
	// ErrToolNotFound is the sentinel error wrapped by ToolNotFoundError.
	ErrToolNotFound = errors.New("uv not found")
	// ErrNoMetadataBlock is returned when uv leaves a script without a
	// metadata block.
	ErrNoMetadataBlock = errors.New("uv produced no inline metadata block")
	// ErrDryRun is returned by Scaffold when the runner only prints commands.
	ErrDryRun = errors.New("dry run")
)

type (
	// ExternalToolError is returned when uv exits unsuccessfully.
	ExternalToolError struct {
		// Args is the full command line, executable included.
		Args []string
		// ExitCode is the status uv exited with.
		ExitCode types.ExitCode
		// Stderr is what uv wrote to its error stream.
		Stderr string
	}

	// ToolNotFoundError is returned when the uv executable cannot be found.
	ToolNotFoundError struct {
		Name string
		Err  error
	}
)

// Error implements the error interface.
func (e *ExternalToolError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", displayName(e.Args), e.ExitCode)
	if detail := strings.TrimSpace(e.Stderr); detail != "" {
		msg += ": " + detail
	}
	return msg
}

// Unwrap returns ErrExternalTool for errors.Is() compatibility.
func (e *ExternalToolError) Unwrap() error { return ErrExternalTool }

// Error implements the error interface.
func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("%s: command not found", e.Name)
}

// Unwrap returns ErrToolNotFound and the lookup error.
func (e *ToolNotFoundError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrToolNotFound}
	}
	return []error{ErrToolNotFound, e.Err}
}

// displayName is the command and subcommand, "uv add".
func displayName(args []string) string {
	switch len(args) {
	case 0:
		return "uv"
	case 1:
		return args[0]
	default:
		if strings.HasPrefix(args[1], "-") {
			return args[0]
		}
		return args[0] + " " + args[1]
	}
}
