// SPDX-License-Identifier: MPL-2.0

package uv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/juvnb/juv/pkg/types"
)

const scaffoldDirPattern = ".juv-init-*"

// Scaffold runs `uv init --script` inside dir and returns the script uv
// generated. name is the file name uv sees and may appear in the generated
// code. Leaving python unset lets uv pick the interpreter the way it
// would for a script in dir. In dry-run mode the command is printed and
// ErrDryRun is returned.
func (r *Runner) Scaffold(ctx context.Context, dir, name string, python types.PythonVersion) (string, error) {
	if err := python.Validate(); err != nil {
		return "", err
	}

	tmpDir, err := os.MkdirTemp(dir, scaffoldDirPattern)
	if err != nil {
		return "", fmt.Errorf("create scaffold directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			r.logger.Debug("could not remove scaffold directory", "path", tmpDir, "err", err)
		}
	}()

	script := filepath.Join(tmpDir, name)
	args := r.quietFlag([]string{"init"})
	if python.IsSet() {
		args = append(args, "--python", python.String())
	}
	args = append(args, "--script", script)

	res, err := r.Run(ctx, dir, args...)
	if err != nil {
		return "", err
	}
	if res.DryRun {
		return "", ErrDryRun
	}

	data, err := os.ReadFile(script)
	if err != nil {
		return "", fmt.Errorf("read scaffolded script: %w", err)
	}
	return string(data), nil
}
