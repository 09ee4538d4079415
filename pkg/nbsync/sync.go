// SPDX-License-Identifier: MPL-2.0

package nbsync

import (
	"context"
	"errors"
	"fmt"

	"github.com/juvnb/juv/pkg/notebook"
	"github.com/juvnb/juv/pkg/pep723"
	"github.com/juvnb/juv/pkg/types"
)

// ErrNoMetadataCell is returned by Reintegrate when the notebook has neither a
// metadata cell nor the empty hidden cell ExtractRaw fabricates.
var ErrNoMetadataCell = errors.New("notebook has no metadata cell")

// ErrStaleBinding is returned when a Binding no longer points at the cell it
// was taken from.
var ErrStaleBinding = errors.New("metadata cell binding is stale")

type (
	// Mutator rewrites a metadata block body. Implementations run an
	// external tool or edit the text in-process.
	Mutator interface {
		Mutate(ctx context.Context, body string) (string, error)
	}

	// MutatorFunc adapts a function to Mutator.
	MutatorFunc func(ctx context.Context, body string) (string, error)

	// Binding ties a notebook to the cell holding its metadata block.
	Binding struct {
		nb   *notebook.Notebook
		cell *notebook.Cell
		// block is nil for a fabricated cell.
		block   *pep723.Block
		body    string
		created bool
	}

	// Options configures SyncFile.
	Options struct {
		// IDs supplies the id of a fabricated metadata cell.
		IDs notebook.IDSource
		// Indent is the JSON indent width used when writing.
		Indent int
	}
)

// Mutate implements Mutator.
func (f MutatorFunc) Mutate(ctx context.Context, body string) (string, error) {
	return f(ctx, body)
}

// Index returns the position of the bound cell in the notebook, or -1 if
// the cell was removed.
func (b *Binding) Index() int {
	for i, c := range b.nb.Cells {
		if c == b.cell {
			return i
		}
	}
	return -1
}

// Cell returns the bound cell.
func (b *Binding) Cell() *notebook.Cell { return b.cell }

// Body returns the block body as it was when the binding was made.
func (b *Binding) Body() string { return b.body }

// Created reports whether the cell was fabricated by ExtractRaw.
func (b *Binding) Created() bool { return b.created }

// LocateMetadataCell binds the first code cell whose source is a metadata
// block. It returns nil when no cell qualifies. A malformed block in any
// code cell is an error.
func LocateMetadataCell(nb *notebook.Notebook) (*Binding, error) {
	idx, block, err := nb.MetadataCell()
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, nil
	}
	return &Binding{nb: nb, cell: nb.Cells[idx], block: block, body: block.Body}, nil
}

// ExtractRaw returns the metadata block body of nb. When the notebook has no
// metadata cell, an empty hidden code cell is inserted at index 0 and the
// body is empty.
func ExtractRaw(nb *notebook.Notebook, ids notebook.IDSource) (*Binding, string, error) {
	b, err := LocateMetadataCell(nb)
	if err != nil {
		return nil, "", err
	}
	if b != nil {
		return b, b.body, nil
	}

	id, err := nb.NewCellID(ids)
	if err != nil {
		return nil, "", err
	}
	cell := notebook.NewCodeCell(id, "", true)
	nb.InsertCell(0, cell)
	return &Binding{nb: nb, cell: cell, created: true}, "", nil
}

// Reintegrate fences body into the metadata cell of nb: the located metadata
// cell, or else an empty hidden code cell at index 0.
func Reintegrate(nb *notebook.Notebook, body string) error {
	b, err := LocateMetadataCell(nb)
	if err != nil {
		return err
	}
	if b == nil {
		if len(nb.Cells) == 0 || !isFabricated(nb.Cells[0]) {
			return ErrNoMetadataCell
		}
		b = &Binding{nb: nb, cell: nb.Cells[0], created: true}
	}
	return b.Reintegrate(body)
}

// Reintegrate fences body into the bound cell. The cell id and hidden flag
// are kept, and so is any whitespace around the block. Passing back the body
// the binding was made with leaves an existing cell untouched.
func (b *Binding) Reintegrate(body string) error {
	if b.Index() < 0 {
		return ErrStaleBinding
	}
	if b.block != nil {
		src := b.cell.Source
		if b.block.End > len(src) || src[b.block.Start:b.block.End] != b.block.Raw {
			return ErrStaleBinding
		}
	}
	if !b.created && body == b.body {
		return nil
	}

	fenced := pep723.FenceCell(body)
	src, start := fenced, 0
	if b.block != nil {
		start = b.block.Start
		src = b.cell.Source[:start] + fenced + b.cell.Source[b.block.End:]
	}

	block, err := pep723.FindBlock(src)
	if err != nil {
		return fmt.Errorf("reintegrated block: %w", err)
	}
	if block == nil || block.Start != start || block.Raw != fenced {
		return fmt.Errorf("reintegrated block: %w", truncatedBlockError(block))
	}
	b.cell.Source = src
	b.block, b.body, b.created = block, block.Body, false
	return nil
}

// discard removes a fabricated cell again.
func (b *Binding) discard() {
	if !b.created {
		return
	}
	if i := b.Index(); i >= 0 {
		b.nb.Cells = append(b.nb.Cells[:i], b.nb.Cells[i+1:]...)
	}
}

// Sync runs one extract, mutate, reintegrate cycle on nb and reports whether
// the notebook changed. If the mutator fails, a cell fabricated for the
// cycle is removed again.
func Sync(ctx context.Context, nb *notebook.Notebook, m Mutator, ids notebook.IDSource) (bool, error) {
	b, body, err := ExtractRaw(nb, ids)
	if err != nil {
		return false, err
	}
	created := b.created

	mutated, err := m.Mutate(ctx, body)
	if err != nil {
		b.discard()
		return false, err
	}
	if err := b.Reintegrate(mutated); err != nil {
		b.discard()
		return false, err
	}
	return created || mutated != body, nil
}

// SyncFile reads the notebook at path, runs Sync and writes the result back
// atomically when it changed. On any error the file is left as it was.
func SyncFile(ctx context.Context, path types.FilesystemPath, m Mutator, opts Options) (*notebook.Notebook, error) {
	nb, err := notebook.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := nb.FillMissingIDs(opts.IDs); err != nil {
		return nil, err
	}
	changed, err := Sync(ctx, nb, m, opts.IDs)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nb, nil
	}
	if err := notebook.WriteFile(path, nb, opts.Indent); err != nil {
		return nil, err
	}
	return nb, nil
}

// truncatedBlockError reports a body line that closed the block early.
func truncatedBlockError(block *pep723.Block) *pep723.BlockSyntaxError {
	if block == nil {
		return &pep723.BlockSyntaxError{Line: 1, Reason: "open fence lost"}
	}
	return &pep723.BlockSyntaxError{Line: block.EndLine, Text: "# ///", Reason: "close fence inside block body"}
}

func isFabricated(c *notebook.Cell) bool {
	return c.IsCode() && c.Hidden() && c.Source == ""
}
