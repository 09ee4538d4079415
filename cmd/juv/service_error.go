// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/juvnb/juv/internal/config"
	"github.com/juvnb/juv/internal/issue"
)

// renderError prints err to w. Actionable errors are followed by their
// suggestions and, when linked, the rendered issue catalog entry.
func (a *App) renderError(w io.Writer, err error) {
	if err == nil {
		return
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	// A broken config file must not hide the original error.
	var cfg *config.Config
	if loaded, loadErr := a.loadConfig(context.Background()); loadErr == nil {
		cfg = loaded.Config
	}
	verbose := a.verbose(cfg)

	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return
	}
	entry := ae.CatalogEntry()
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render(glamourStyle(cfg))
	if renderErr != nil {
		if verbose {
			fmt.Fprintln(w, WarningStyle.Render("failed to render issue: ")+renderErr.Error())
		}
		return
	}
	fmt.Fprint(w, rendered)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// glamourStyle maps ui.color_scheme to a glamour standard style.
func glamourStyle(cfg *config.Config) string {
	if cfg == nil {
		return "auto"
	}
	switch cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}
