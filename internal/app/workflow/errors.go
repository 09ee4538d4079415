// SPDX-License-Identifier: MPL-2.0

package workflow

import (
	"errors"
	"io/fs"

	"github.com/juvnb/juv/internal/issue"
	"github.com/juvnb/juv/internal/uv"
	"github.com/juvnb/juv/pkg/fspath"
	"github.com/juvnb/juv/pkg/notebook"
	"github.com/juvnb/juv/pkg/pep723"
	"github.com/juvnb/juv/pkg/types"
)

var (
	// ErrReservedName is returned for file names Windows cannot store.
	ErrReservedName = errors.New("reserved file name")
	// ErrNothingToAdd is returned by Add without packages or a requirements file.
	ErrNothingToAdd = errors.New("no packages or requirements file given")
	// ErrSameFile is returned when a conversion would overwrite its input.
	ErrSameFile = errors.New("output path is the input path")
)

// classify picks the catalog entry and suggestions for err.
func classify(err error) (issue.Id, []string) {
	switch {
	case errors.Is(err, uv.ErrToolNotFound):
		return issue.UvNotFoundId, []string{
			"Install uv: https://docs.astral.sh/uv/getting-started/installation/",
			"Point uv.command in the config file (or JUV_UV_COMMAND) at the uv executable",
		}
	case errors.Is(err, uv.ErrExternalTool):
		return issue.ExternalToolFailedId, []string{
			"Check the package names and version constraints",
			"Run again with --verbose to see the uv command line",
		}
	case errors.Is(err, notebook.ErrInvalidExtension):
		return issue.InvalidExtensionId, []string{"Use a path ending in " + notebook.Extension}
	case errors.Is(err, pep723.ErrAmbiguousBlock), errors.Is(err, pep723.ErrBlockSyntax),
		errors.Is(err, uv.ErrNoMetadataBlock):
		return issue.MetadataBlockInvalidId, []string{"Keep exactly one '# /// script' block, closed by '# ///'"}
	case errors.Is(err, pep723.ErrMetadataSyntax):
		return issue.MetadataSyntaxId, []string{"Fix the TOML inside the '# /// script' block"}
	case errors.Is(err, notebook.ErrMalformedNotebook):
		return issue.NotebookParseFailedId, []string{"Check that the file is an nbformat 4 notebook"}
	case errors.Is(err, fs.ErrExist):
		return issue.FileExistsId, []string{"Pass --force to overwrite it", "Choose another output path"}
	case errors.Is(err, fspath.ErrNoAvailableName):
		return issue.NoAvailableNameId, []string{"Pass an explicit notebook path"}
	case errors.Is(err, types.ErrInvalidFilesystemPath):
		return 0, []string{"Pass the path of an existing file"}
	case errors.Is(err, ErrReservedName):
		return 0, []string{"Choose a different file name"}
	default:
		return 0, nil
	}
}

// fail wraps err with the operation and resource it concerns.
func fail(operation string, resource types.FilesystemPath, err error) error {
	if err == nil {
		return nil
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}
	id, suggestions := classify(err)
	return issue.NewErrorContext().
		WithOperation(operation).
		WithResource(string(resource)).
		WithSuggestions(suggestions...).
		WithIssue(id).
		Wrap(err).
		BuildError()
}
