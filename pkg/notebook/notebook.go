// SPDX-License-Identifier: MPL-2.0

package notebook

import (
	"encoding/json"
	"fmt"
)

const (
	// FormatMajor is the nbformat major version written for new notebooks.
	FormatMajor = 4
	// FormatMinor is the nbformat minor version written for new notebooks.
	// Cell ids were introduced in 4.5.
	FormatMinor = 5

	// CellTypeCode is a code cell.
	CellTypeCode CellType = "code"
	// CellTypeMarkdown is a markdown cell.
	CellTypeMarkdown CellType = "markdown"
	// CellTypeRaw is a raw cell.
	CellTypeRaw CellType = "raw"

	metaJupyter      = "jupyter"
	metaSourceHidden = "source_hidden"
)

type (
	// CellType is the nbformat cell_type.
	CellType string

	// Cell is one notebook cell.
	Cell struct {
		Type CellType
		// ID is unique within the notebook. Empty for cells read from
		// documents older than nbformat 4.5.
		ID string
		// Source is the exact cell text.
		Source string
		// Metadata is the cell metadata object. The hidden flag lives at
		// metadata.jupyter.source_hidden.
		Metadata map[string]any
		// ExecutionCount is nil for cells that never ran. Code cells only.
		ExecutionCount *int
		// Outputs are carried opaquely. Code cells only.
		Outputs []json.RawMessage

		extra map[string]json.RawMessage
	}

	// Notebook is an nbformat 4 document.
	Notebook struct {
		Cells         []*Cell
		Metadata      map[string]any
		NBFormat      int
		NBFormatMinor int

		extra map[string]json.RawMessage
	}
)

// New returns an empty notebook at the current format version.
func New(cells ...*Cell) *Notebook {
	return &Notebook{
		Cells:         cells,
		Metadata:      map[string]any{},
		NBFormat:      FormatMajor,
		NBFormatMinor: FormatMinor,
	}
}

// NewCodeCell returns a code cell with no outputs and no execution count.
func NewCodeCell(id, source string, hidden bool) *Cell {
	c := &Cell{
		Type:     CellTypeCode,
		ID:       id,
		Source:   source,
		Metadata: map[string]any{},
		Outputs:  []json.RawMessage{},
	}
	c.SetHidden(hidden)
	return c
}

// IsCode reports whether c is a code cell.
func (c *Cell) IsCode() bool { return c.Type == CellTypeCode }

// Hidden reports whether the cell source is collapsed in a viewer.
func (c *Cell) Hidden() bool {
	jupyter, ok := c.Metadata[metaJupyter].(map[string]any)
	if !ok {
		return false
	}
	hidden, _ := jupyter[metaSourceHidden].(bool)
	return hidden
}

// SetHidden sets or clears the hidden flag. Clearing removes the key, and
// the jupyter object when nothing else is left in it.
func (c *Cell) SetHidden(hidden bool) {
	if c.Metadata == nil {
		c.Metadata = map[string]any{}
	}
	jupyter, _ := c.Metadata[metaJupyter].(map[string]any)
	if !hidden {
		if jupyter == nil {
			return
		}
		delete(jupyter, metaSourceHidden)
		if len(jupyter) == 0 {
			delete(c.Metadata, metaJupyter)
		}
		return
	}
	if jupyter == nil {
		jupyter = map[string]any{}
		c.Metadata[metaJupyter] = jupyter
	}
	jupyter[metaSourceHidden] = true
}

// InsertCell inserts c at index i. An index past the end appends.
func (nb *Notebook) InsertCell(i int, c *Cell) {
	if i < 0 {
		i = 0
	}
	if i >= len(nb.Cells) {
		nb.Cells = append(nb.Cells, c)
		return
	}
	nb.Cells = append(nb.Cells, nil)
	copy(nb.Cells[i+1:], nb.Cells[i:])
	nb.Cells[i] = c
}

// IDs returns the set of cell ids in use.
func (nb *Notebook) IDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(nb.Cells))
	for _, c := range nb.Cells {
		if c.ID != "" {
			ids[c.ID] = struct{}{}
		}
	}
	return ids
}

// NewCellID draws an id from ids that is not yet used in nb.
func (nb *Notebook) NewCellID(ids IDSource) (string, error) {
	return uniqueID(ids, nb.IDs())
}

// FillMissingIDs assigns an id to every cell without one. Existing ids are
// never changed. A notebook that gains ids is raised to nbformat 4.5.
func (nb *Notebook) FillMissingIDs(ids IDSource) error {
	used := nb.IDs()
	filled := false
	for _, c := range nb.Cells {
		if c.ID != "" {
			continue
		}
		id, err := uniqueID(ids, used)
		if err != nil {
			return err
		}
		c.ID = id
		used[id] = struct{}{}
		filled = true
	}
	if filled && nb.NBFormat == FormatMajor && nb.NBFormatMinor < FormatMinor {
		nb.NBFormatMinor = FormatMinor
	}
	return nil
}

// Validate checks the invariants the rest of the package relies on.
func (nb *Notebook) Validate() error {
	if nb.NBFormat != FormatMajor {
		return fmt.Errorf("unsupported nbformat %d (only %d is supported)", nb.NBFormat, FormatMajor)
	}
	seen := make(map[string]int, len(nb.Cells))
	for i, c := range nb.Cells {
		if c == nil {
			return fmt.Errorf("cell %d is nil", i)
		}
		switch c.Type {
		case CellTypeCode, CellTypeMarkdown, CellTypeRaw:
		default:
			return fmt.Errorf("cell %d: unknown cell_type %q", i, c.Type)
		}
		if c.ID == "" {
			continue
		}
		if prev, dup := seen[c.ID]; dup {
			return fmt.Errorf("cells %d and %d share id %q", prev, i, c.ID)
		}
		seen[c.ID] = i
	}
	return nil
}
