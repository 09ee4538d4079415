// SPDX-License-Identifier: MPL-2.0

package uv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/juvnb/juv/pkg/nbsync"
	"github.com/juvnb/juv/pkg/pep723"
)

const tempScriptPattern = ".juv-*.py"

var _ nbsync.Mutator = (*DependencyMutator)(nil)

// DependencyMutator adds packages to a metadata block with `uv add --script`.
type DependencyMutator struct {
	Runner *Runner
	// Dir is where the temporary script is created, normally the
	// notebook's directory so uv resolves project settings from there.
	Dir string
	// Packages are the requirement specifiers to add.
	Packages []string
	// Requirements is an optional requirements file passed with
	// --requirements. Relative paths are resolved against the working
	// directory of the process.
	Requirements string
}

// Mutate implements nbsync.Mutator. In dry-run mode the command is printed
// and body is returned unchanged.
func (m *DependencyMutator) Mutate(ctx context.Context, body string) (string, error) {
	f, err := os.CreateTemp(m.Dir, tempScriptPattern)
	if err != nil {
		return "", fmt.Errorf("create temporary script: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
			m.Runner.logger.Debug("could not remove temporary script", "path", tmp, "err", err)
		}
	}()

	content := ""
	if body != "" {
		content = pep723.Fence(body)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close() // Best-effort; the write error is reported.
		return "", fmt.Errorf("write temporary script: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write temporary script: %w", err)
	}
	m.Runner.logger.Debug("wrote temporary script", "path", tmp)

	args := m.Runner.quietFlag([]string{"add"})
	if m.Requirements != "" {
		reqs, err := filepath.Abs(m.Requirements)
		if err != nil {
			return "", fmt.Errorf("resolve requirements file: %w", err)
		}
		args = append(args, "--requirements", reqs)
	}
	args = append(args, "--script", tmp)
	args = append(args, m.Packages...)

	res, err := m.Runner.Run(ctx, m.Dir, args...)
	if err != nil {
		return "", err
	}
	if res.DryRun {
		return body, nil
	}

	data, err := os.ReadFile(tmp)
	if err != nil {
		return "", fmt.Errorf("read temporary script: %w", err)
	}
	block, err := pep723.FindBlock(string(data))
	if err != nil {
		return "", fmt.Errorf("uv output: %w", err)
	}
	if block == nil {
		return "", ErrNoMetadataBlock
	}
	return block.Body, nil
}
