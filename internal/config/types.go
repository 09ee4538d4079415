// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"mvdan.cc/sh/v3/shell"

	"github.com/juvnb/juv/pkg/types"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// MinIndentWidth and MaxIndentWidth bound notebook.indent.
	MinIndentWidth IndentWidth = 1
	MaxIndentWidth IndentWidth = 8
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidIndentWidth is returned when an IndentWidth is out of range.
	ErrInvalidIndentWidth = errors.New("invalid indent width")
	// ErrInvalidToolCommand is returned when a ToolCommand cannot be split into words.
	ErrInvalidToolCommand = errors.New("invalid tool command")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// IndentWidth is the number of spaces per JSON nesting level in written
	// notebooks.
	IndentWidth int

	// InvalidIndentWidthError is returned when an IndentWidth is out of range.
	InvalidIndentWidthError struct {
		Value IndentWidth
	}

	// ToolCommand is the command line used to start uv, before the uv
	// subcommand. It is split into words with shell rules.
	ToolCommand string

	// InvalidToolCommandError is returned when a ToolCommand is empty or
	// cannot be split.
	InvalidToolCommandError struct {
		Value  ToolCommand
		Reason string
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It collects field-level validation errors from all sections.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// UV configures how uv is invoked.
		UV UVConfig `json:"uv" mapstructure:"uv"`
		// Init holds defaults for `juv init`.
		Init InitConfig `json:"init" mapstructure:"init"`
		// Notebook configures how notebooks are written.
		Notebook NotebookConfig `json:"notebook" mapstructure:"notebook"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// UVConfig configures the uv invocation.
	UVConfig struct {
		// Command is the uv launcher, "uv" by default.
		Command ToolCommand `json:"command" mapstructure:"command"`
		// Quiet passes --quiet to uv.
		Quiet bool `json:"quiet" mapstructure:"quiet"`
	}

	// InitConfig holds defaults for `juv init`.
	InitConfig struct {
		// Python is the default interpreter request. Empty lets uv decide.
		Python types.PythonVersion `json:"python" mapstructure:"python"`
	}

	// NotebookConfig configures notebook output.
	NotebookConfig struct {
		// Indent is the JSON indent width.
		Indent IndentWidth `json:"indent" mapstructure:"indent"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		UV:       UVConfig{Command: "uv", Quiet: true},
		Notebook: NotebookConfig{Indent: MinIndentWidth},
		UI:       UIConfig{ColorScheme: ColorSchemeAuto},
	}
}

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// IsValid returns whether the ColorScheme is one of the defined schemes.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid returns whether the IndentWidth is within range.
func (w IndentWidth) IsValid() (bool, []error) {
	if w < MinIndentWidth || w > MaxIndentWidth {
		return false, []error{&InvalidIndentWidthError{Value: w}}
	}
	return true, nil
}

// Error implements the error interface for InvalidIndentWidthError.
func (e *InvalidIndentWidthError) Error() string {
	return fmt.Sprintf("invalid indent width %d (must be %d-%d)", e.Value, MinIndentWidth, MaxIndentWidth)
}

// Unwrap returns ErrInvalidIndentWidth for errors.Is() compatibility.
func (e *InvalidIndentWidthError) Unwrap() error { return ErrInvalidIndentWidth }

// String returns the string representation of the ToolCommand.
func (c ToolCommand) String() string { return string(c) }

// Fields splits the command into words, expanding environment references
// through env. A nil env uses the process environment.
func (c ToolCommand) Fields(env func(string) string) ([]string, error) {
	words, err := shell.Fields(string(c), env)
	if err != nil {
		return nil, &InvalidToolCommandError{Value: c, Reason: err.Error()}
	}
	if len(words) == 0 {
		return nil, &InvalidToolCommandError{Value: c, Reason: "no command"}
	}
	return words, nil
}

// IsValid returns whether the command splits into at least one word.
// Environment references are left unexpanded for validation.
func (c ToolCommand) IsValid() (bool, []error) {
	if _, err := c.Fields(func(string) string { return "x" }); err != nil {
		return false, []error{err}
	}
	return true, nil
}

// Error implements the error interface for InvalidToolCommandError.
func (e *InvalidToolCommandError) Error() string {
	return fmt.Sprintf("invalid tool command %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidToolCommand for errors.Is() compatibility.
func (e *InvalidToolCommandError) Unwrap() error { return ErrInvalidToolCommand }

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.UV.Command.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if err := c.Init.Python.Validate(); err != nil {
		errs = append(errs, err)
	}
	if valid, fieldErrs := c.Notebook.Indent.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return "invalid config: " + e.FieldErrors[0].Error()
	}
	return fmt.Sprintf("invalid config: %d field error(s): %v", len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
