// SPDX-License-Identifier: MPL-2.0

package uv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"

	"github.com/juvnb/juv/internal/config"
	"github.com/juvnb/juv/pkg/platform"
	"github.com/juvnb/juv/pkg/types"
)

type (
	// Runner starts uv. The zero value is not usable; use NewRunner.
	Runner struct {
		command  []string
		quiet    bool
		dryRun   bool
		out      io.Writer
		env      []string
		sandbox  platform.SandboxType
		logger   *log.Logger
		lookPath func(string) (string, error)
	}

	// Option configures a Runner.
	Option func(*Runner)

	// Result is the outcome of one uv invocation.
	Result struct {
		// Args is the command line that ran, or would have run.
		Args   []string
		Stdout string
		Stderr string
		// DryRun is set when the command was only printed.
		DryRun bool
	}
)

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithQuiet controls whether --quiet is passed to init and add.
func WithQuiet(quiet bool) Option {
	return func(r *Runner) { r.quiet = quiet }
}

// WithDryRun makes the runner print each command line to w instead of
// running it.
func WithDryRun(w io.Writer) Option {
	return func(r *Runner) {
		r.dryRun = true
		r.out = w
	}
}

// WithEnv appends variables to the environment uv runs with.
func WithEnv(env ...string) Option {
	return func(r *Runner) { r.env = append(r.env, env...) }
}

// WithSandbox overrides sandbox detection.
func WithSandbox(st platform.SandboxType) Option {
	return func(r *Runner) { r.sandbox = st }
}

// NewRunner creates a runner for the given uv launcher. The command is split
// with shell rules and expanded against the process environment.
func NewRunner(command config.ToolCommand, opts ...Option) (*Runner, error) {
	argv, err := command.Fields(nil)
	if err != nil {
		return nil, err
	}
	r := &Runner{
		command:  argv,
		quiet:    true,
		out:      io.Discard,
		sandbox:  platform.DetectSandbox(),
		logger:   log.New(io.Discard),
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Command returns the launcher argv without sandbox wrapping.
func (r *Runner) Command() []string {
	return append([]string(nil), r.command...)
}

// DryRun reports whether the runner only prints commands.
func (r *Runner) DryRun() bool { return r.dryRun }

// Check verifies that the executable can be found.
func (r *Runner) Check() error {
	argv := platform.HostCommandFor(r.sandbox, r.command)
	if r.sandbox == platform.SandboxFlatpak {
		// flatpak-spawn resolves uv on the host; only the spawner is local.
		argv = argv[:1]
	}
	if _, err := r.lookPath(argv[0]); err != nil {
		return &ToolNotFoundError{Name: argv[0], Err: err}
	}
	return nil
}

// Run executes uv with args in dir and captures its output.
func (r *Runner) Run(ctx context.Context, dir string, args ...string) (*Result, error) {
	argv := platform.HostCommandFor(r.sandbox, append(r.Command(), args...))
	res := &Result{Args: argv}

	if r.dryRun {
		line, err := QuoteArgs(argv)
		if err != nil {
			return nil, err
		}
		if _, err := fmt.Fprintln(r.out, line); err != nil {
			return nil, fmt.Errorf("print command: %w", err)
		}
		res.DryRun = true
		return res, nil
	}

	r.logger.Debug("running uv", "args", argv, "dir", dir)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), r.env...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res.Stdout, res.Stderr = stdout.String(), stderr.String()
	if err == nil {
		return res, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%s: %w", displayName(argv), ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := types.ExitCode(exitErr.ExitCode())
		if code.Validate() != nil {
			code = types.ExitFailure
		}
		r.logger.Debug("uv failed", "args", argv, "exit", code, "stderr", res.Stderr)
		return nil, &ExternalToolError{Args: argv, ExitCode: code, Stderr: res.Stderr}
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return nil, &ToolNotFoundError{Name: argv[0], Err: err}
	}
	return nil, fmt.Errorf("start %s: %w", displayName(argv), err)
}

// Version returns the first line uv prints for --version.
func (r *Runner) Version(ctx context.Context) (string, error) {
	res, err := r.Run(ctx, "", "--version")
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(res.Stdout), "\n")
	return line, nil
}

// QuoteArgs renders argv as a bash command line.
func QuoteArgs(argv []string) (string, error) {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		q, err := syntax.Quote(a, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("quote %q: %w", a, err)
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " "), nil
}

func (r *Runner) quietFlag(args []string) []string {
	if r.quiet {
		return append(args, "--quiet")
	}
	return args
}
