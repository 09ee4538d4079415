// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/juvnb/juv/internal/app/workflow"
	"github.com/juvnb/juv/internal/config"
	"github.com/juvnb/juv/internal/uv"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer; command handlers load a session from it and
	// delegate to the workflow service.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer
		flags  globalFlags
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}

	globalFlags struct {
		verbose    bool
		configPath string
	}

	// session is the per-invocation state built from the loaded configuration.
	session struct {
		cfg     *config.Config
		cfgPath string
		logger  *log.Logger
		runner  *uv.Runner
		svc     *workflow.Service
	}

	sessionOptions struct {
		dryRun bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}, nil
}

func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: a.flags.configPath}
}

// loadConfig loads configuration honoring --config.
func (a *App) loadConfig(ctx context.Context) (*config.Loaded, error) {
	return a.Config.Load(ctx, a.loadOptions())
}

// newSession loads configuration and builds the logger, uv runner and
// workflow service for one command.
func (a *App) newSession(ctx context.Context, opts sessionOptions) (*session, error) {
	loaded, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	cfg := loaded.Config

	logger := a.newLogger(cfg)
	if loaded.Path != "" {
		logger.Debug("loaded config", "path", loaded.Path)
	}

	runnerOpts := []uv.Option{
		uv.WithLogger(logger),
		uv.WithQuiet(cfg.UV.Quiet),
	}
	if opts.dryRun {
		runnerOpts = append(runnerOpts, uv.WithDryRun(a.stdout))
	}
	runner, err := uv.NewRunner(cfg.UV.Command, runnerOpts...)
	if err != nil {
		return nil, err
	}

	svc := workflow.New(workflow.Options{
		Runner:        runner,
		Indent:        int(cfg.Notebook.Indent),
		DefaultPython: cfg.Init.Python,
		Logger:        logger,
	})
	return &session{cfg: cfg, cfgPath: loaded.Path, logger: logger, runner: runner, svc: svc}, nil
}

func (a *App) newLogger(cfg *config.Config) *log.Logger {
	level := log.InfoLevel
	if a.verbose(cfg) {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{Prefix: config.AppName, Level: level})
}

// verbose reports whether --verbose or ui.verbose is set.
func (a *App) verbose(cfg *config.Config) bool {
	return a.flags.verbose || (cfg != nil && cfg.UI.Verbose)
}
