// SPDX-License-Identifier: MPL-2.0

package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/juvnb/juv/internal/uv"
	"github.com/juvnb/juv/pkg/fspath"
	"github.com/juvnb/juv/pkg/nbsync"
	"github.com/juvnb/juv/pkg/notebook"
	"github.com/juvnb/juv/pkg/pep723"
	"github.com/juvnb/juv/pkg/platform"
	"github.com/juvnb/juv/pkg/types"
)

const (
	untitledStem  = "Untitled"
	untitledLimit = 100

	scriptExtension = ".py"
	scriptPerm      = 0o644
)

type (
	// Service runs juv workflows.
	Service struct {
		runner  *uv.Runner
		ids     notebook.IDSource
		indent  int
		python  types.PythonVersion
		workDir types.FilesystemPath
		logger  *log.Logger
	}

	// Options configures a Service. Runner is required by Init and Add.
	Options struct {
		Runner *uv.Runner
		// IDs supplies cell ids. Nil uses random ids.
		IDs notebook.IDSource
		// Indent is the JSON indent width for written notebooks.
		Indent int
		// DefaultPython is used by Init when the request names no
		// interpreter.
		DefaultPython types.PythonVersion
		// WorkDir is where Init places untitled notebooks. Empty means the
		// process working directory.
		WorkDir types.FilesystemPath
		Logger  *log.Logger
	}

	// InitRequest describes a new notebook.
	InitRequest struct {
		// Path is the notebook to create. Empty picks the first free
		// Untitled.ipynb, Untitled1.ipynb ... in the work directory.
		Path     types.FilesystemPath
		Python   types.PythonVersion
		Packages []string
		Force    bool
	}

	// AddRequest describes a dependency change.
	AddRequest struct {
		Path         types.FilesystemPath
		Packages     []string
		Requirements string
	}

	// ConvertRequest describes a script to notebook conversion.
	ConvertRequest struct {
		Script types.FilesystemPath
		// Output defaults to Script with the .ipynb extension.
		Output types.FilesystemPath
		Force  bool
	}

	// ExportRequest describes a notebook to script conversion.
	ExportRequest struct {
		Notebook types.FilesystemPath
		// Output defaults to Notebook with the .py extension.
		Output types.FilesystemPath
		Force  bool
	}
)

// New creates a Service.
func New(opts Options) *Service {
	s := &Service{
		runner:  opts.Runner,
		ids:     opts.IDs,
		indent:  opts.Indent,
		python:  opts.DefaultPython,
		workDir: opts.WorkDir,
		logger:  opts.Logger,
	}
	if s.ids == nil {
		s.ids = notebook.DefaultIDs()
	}
	if s.indent <= 0 {
		s.indent = notebook.DefaultIndent
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// Init creates a notebook holding the script `uv init` scaffolds, with the
// requested packages already added, and returns its absolute path. In
// dry-run mode the uv commands are printed and nothing is written.
func (s *Service) Init(ctx context.Context, req InitRequest) (types.FilesystemPath, error) {
	const op = "initialize notebook"

	path, err := s.initTarget(req.Path)
	if err != nil {
		return "", fail(op, req.Path, err)
	}
	if err := s.checkWritable(path, req.Force); err != nil {
		return "", fail(op, path, err)
	}
	if err := s.checkRunner(); err != nil {
		return "", fail(op, path, err)
	}

	python := req.Python
	if !python.IsSet() {
		python = s.python
	}
	dir := string(fspath.Dir(path))
	name := strings.TrimSuffix(fspath.Base(path), notebook.Extension) + scriptExtension

	text, err := s.runner.Scaffold(ctx, dir, name, python)
	if errors.Is(err, uv.ErrDryRun) {
		if len(req.Packages) > 0 {
			if _, err := s.mutator(dir, req.Packages, "").Mutate(ctx, ""); err != nil {
				return "", fail(op, path, err)
			}
		}
		return path, nil
	}
	if err != nil {
		return "", fail(op, path, err)
	}

	nb, err := notebook.FromScript(text, s.ids)
	if err != nil {
		return "", fail(op, path, fmt.Errorf("scaffolded script: %w", err))
	}
	if len(req.Packages) > 0 {
		if _, err := nbsync.Sync(ctx, nb, s.mutator(dir, req.Packages, ""), s.ids); err != nil {
			return "", fail(op, path, err)
		}
	}
	if err := notebook.WriteFile(path, nb, s.indent); err != nil {
		return "", fail(op, path, err)
	}
	s.logger.Debug("wrote notebook", "path", path, "cells", len(nb.Cells))
	return path, nil
}

// Add adds packages to the metadata block of a notebook and returns its
// absolute path. The notebook is rewritten only when the block changed.
func (s *Service) Add(ctx context.Context, req AddRequest) (types.FilesystemPath, error) {
	const op = "add dependencies"

	if err := req.Path.Validate(); err != nil {
		return "", fail(op, req.Path, err)
	}
	path, err := fspath.Abs(req.Path)
	if err != nil {
		return "", fail(op, req.Path, err)
	}
	if err := notebook.CheckExtension(path); err != nil {
		return "", fail(op, path, err)
	}
	if len(req.Packages) == 0 && req.Requirements == "" {
		return "", fail(op, path, ErrNothingToAdd)
	}
	if err := s.checkRunner(); err != nil {
		return "", fail(op, path, err)
	}

	m := s.mutator(string(fspath.Dir(path)), req.Packages, req.Requirements)
	if s.runner.DryRun() {
		nb, err := notebook.ReadFile(path)
		if err != nil {
			return "", fail(op, path, err)
		}
		if _, err := nbsync.Sync(ctx, nb, m, s.ids); err != nil {
			return "", fail(op, path, err)
		}
		return path, nil
	}

	nb, err := nbsync.SyncFile(ctx, path, m, nbsync.Options{IDs: s.ids, Indent: s.indent})
	if err != nil {
		return "", fail(op, path, err)
	}
	s.logger.Debug("synchronized notebook", "path", path, "cells", len(nb.Cells))
	return path, nil
}

// Convert turns a script into a fresh notebook and returns the notebook path.
func (s *Service) Convert(_ context.Context, req ConvertRequest) (types.FilesystemPath, error) {
	const op = "convert script"

	if err := req.Script.Validate(); err != nil {
		return "", fail(op, req.Script, err)
	}
	out := req.Output
	if out == "" {
		out = fspath.WithExt(req.Script, notebook.Extension)
	}
	if err := notebook.CheckExtension(out); err != nil {
		return "", fail(op, out, err)
	}
	out, err := s.checkOutput(req.Script, out, req.Force)
	if err != nil {
		return "", fail(op, out, err)
	}

	data, err := os.ReadFile(string(req.Script))
	if err != nil {
		return "", fail(op, req.Script, err)
	}
	nb, err := notebook.FromScript(string(data), s.ids)
	if err != nil {
		return "", fail(op, req.Script, err)
	}
	if err := notebook.WriteFile(out, nb, s.indent); err != nil {
		return "", fail(op, out, err)
	}
	s.logger.Debug("wrote notebook", "path", out, "cells", len(nb.Cells))
	return out, nil
}

// Export renders a notebook as a script and returns the script path.
func (s *Service) Export(_ context.Context, req ExportRequest) (types.FilesystemPath, error) {
	const op = "export notebook"

	if err := req.Notebook.Validate(); err != nil {
		return "", fail(op, req.Notebook, err)
	}
	if err := notebook.CheckExtension(req.Notebook); err != nil {
		return "", fail(op, req.Notebook, err)
	}
	out := req.Output
	if out == "" {
		out = fspath.WithExt(req.Notebook, scriptExtension)
	}
	out, err := s.checkOutput(req.Notebook, out, req.Force)
	if err != nil {
		return "", fail(op, out, err)
	}

	nb, err := notebook.ReadFile(req.Notebook)
	if err != nil {
		return "", fail(op, req.Notebook, err)
	}
	text, err := notebook.ToScript(nb)
	if err != nil {
		return "", fail(op, req.Notebook, err)
	}
	if err := fspath.WriteFileAtomic(out, []byte(text), scriptPerm); err != nil {
		return "", fail(op, out, err)
	}
	s.logger.Debug("wrote script", "path", out)
	return out, nil
}

// Deps decodes the metadata block of a notebook or script. A file without a
// block yields an empty declaration.
func (s *Service) Deps(_ context.Context, path types.FilesystemPath) (*pep723.Declaration, error) {
	const op = "read dependencies"

	if err := path.Validate(); err != nil {
		return nil, fail(op, path, err)
	}
	body, err := readBody(path)
	if err != nil {
		return nil, fail(op, path, err)
	}
	decl, err := pep723.Decode(body)
	if err != nil {
		return nil, fail(op, path, err)
	}
	return decl, nil
}

func readBody(path types.FilesystemPath) (string, error) {
	if fspath.HasExt(path, notebook.Extension) {
		nb, err := notebook.ReadFile(path)
		if err != nil {
			return "", err
		}
		b, err := nbsync.LocateMetadataCell(nb)
		if err != nil || b == nil {
			return "", err
		}
		return b.Body(), nil
	}

	data, err := os.ReadFile(string(path))
	if err != nil {
		return "", err
	}
	block, err := pep723.FindBlock(string(data))
	if err != nil || block == nil {
		return "", err
	}
	return block.Body, nil
}

func (s *Service) mutator(dir string, packages []string, requirements string) *uv.DependencyMutator {
	return &uv.DependencyMutator{Runner: s.runner, Dir: dir, Packages: packages, Requirements: requirements}
}

// initTarget resolves the notebook Init writes, checking its extension
// before anything else.
func (s *Service) initTarget(p types.FilesystemPath) (types.FilesystemPath, error) {
	if p == "" {
		dir := s.workDir
		if dir == "" {
			dir = "."
		}
		var err error
		if p, err = fspath.FirstAvailable(dir, untitledStem, notebook.Extension, untitledLimit); err != nil {
			return "", err
		}
	}
	if err := notebook.CheckExtension(p); err != nil {
		return "", err
	}
	return fspath.Abs(p)
}

// checkOutput resolves out and refuses to replace the input or, without
// force, any existing file.
func (s *Service) checkOutput(in, out types.FilesystemPath, force bool) (types.FilesystemPath, error) {
	absIn, err := fspath.Abs(in)
	if err != nil {
		return out, err
	}
	absOut, err := fspath.Abs(out)
	if err != nil {
		return out, err
	}
	if absIn == absOut {
		return absOut, ErrSameFile
	}
	return absOut, s.checkWritable(absOut, force)
}

func (s *Service) checkWritable(p types.FilesystemPath, force bool) error {
	if platform.IsWindowsReservedName(fspath.Base(p)) {
		return fmt.Errorf("%w: %s", ErrReservedName, fspath.Base(p))
	}
	if force {
		return nil
	}
	exists, err := fspath.Exists(p)
	if err != nil {
		return err
	}
	if exists {
		return fs.ErrExist
	}
	return nil
}

func (s *Service) checkRunner() error {
	if s.runner == nil {
		return uv.ErrToolNotFound
	}
	if s.runner.DryRun() {
		return nil
	}
	return s.runner.Check()
}
