// SPDX-License-Identifier: MPL-2.0

package notebook

import (
	"errors"
	"fmt"
	"os"

	"github.com/juvnb/juv/pkg/fspath"
	"github.com/juvnb/juv/pkg/types"
)

// Extension is the file extension notebooks must carry.
const Extension = ".ipynb"

const filePerm = 0o644

// ErrInvalidExtension is the sentinel error wrapped by InvalidExtensionError.
var ErrInvalidExtension = errors.New("invalid notebook extension")

// InvalidExtensionError is returned when a path that must name a notebook
// does not end in Extension.
type InvalidExtensionError struct {
	Path types.FilesystemPath
}

// Error implements the error interface.
func (e *InvalidExtensionError) Error() string {
	return fmt.Sprintf("%s: file must have a %s extension", e.Path, Extension)
}

// Unwrap returns ErrInvalidExtension for errors.Is() compatibility.
func (e *InvalidExtensionError) Unwrap() error { return ErrInvalidExtension }

// CheckExtension returns an *InvalidExtensionError unless p ends in Extension.
func CheckExtension(p types.FilesystemPath) error {
	if !fspath.HasExt(p, Extension) {
		return &InvalidExtensionError{Path: p}
	}
	return nil
}

// ReadFile loads the notebook at p. The extension is checked before the file
// is opened.
func ReadFile(p types.FilesystemPath) (*Notebook, error) {
	if err := CheckExtension(p); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(string(p))
	if err != nil {
		return nil, fmt.Errorf("read notebook: %w", err)
	}
	nb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return nb, nil
}

// WriteFile encodes nb and replaces p atomically.
func WriteFile(p types.FilesystemPath, nb *Notebook, indent int) error {
	if err := CheckExtension(p); err != nil {
		return err
	}
	data, err := MarshalIndent(nb, indent)
	if err != nil {
		return err
	}
	if err := fspath.WriteFileAtomic(p, data, filePerm); err != nil {
		return fmt.Errorf("write notebook: %w", err)
	}
	return nil
}
