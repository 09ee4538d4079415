// SPDX-License-Identifier: MPL-2.0

package notebook

import (
	"errors"
	"fmt"
	"strings"

	"github.com/juvnb/juv/pkg/pep723"
	"github.com/juvnb/juv/pkg/script"
)

// ErrMultipleMetadataSegments is returned by Build when given more than one
// metadata segment.
var ErrMultipleMetadataSegments = errors.New("more than one metadata segment")

// Build assembles a notebook from script segments. The metadata segment, if
// any, becomes a hidden first cell holding the block as written, or the
// re-fenced body when the segment carries no raw text. Every code
// segment becomes a visible cell, in order, with its text as the source.
func Build(segments []script.Segment, ids IDSource) (*Notebook, error) {
	if ids == nil {
		ids = DefaultIDs()
	}

	var meta *script.Segment
	code := make([]script.Segment, 0, len(segments))
	for i := range segments {
		seg := &segments[i]
		switch seg.Kind {
		case script.MetadataSegment:
			if meta != nil {
				return nil, fmt.Errorf("%w: lines %d and %d", ErrMultipleMetadataSegments, meta.Line, seg.Line)
			}
			meta = seg
		case script.CodeSegment:
			code = append(code, *seg)
		default:
			return nil, fmt.Errorf("segment at line %d: unknown kind %v", seg.Line, seg.Kind)
		}
	}

	nb := New()
	nb.Cells = make([]*Cell, 0, len(code)+1)
	used := make(map[string]struct{}, len(code)+1)
	add := func(source string, hidden bool) error {
		id, err := uniqueID(ids, used)
		if err != nil {
			return err
		}
		used[id] = struct{}{}
		nb.Cells = append(nb.Cells, NewCodeCell(id, source, hidden))
		return nil
	}

	if meta != nil {
		source := meta.Raw
		if source == "" {
			source = pep723.FenceCell(meta.Text)
		}
		if err := add(source, true); err != nil {
			return nil, err
		}
	}
	for _, seg := range code {
		if err := add(seg.Text, false); err != nil {
			return nil, err
		}
	}
	return nb, nil
}

// FromScript segments text and builds a notebook from it.
func FromScript(text string, ids IDSource) (*Notebook, error) {
	segments, err := script.Split(text)
	if err != nil {
		return nil, err
	}
	return Build(segments, ids)
}

// MetadataCell returns the index and block of the first code cell whose
// whole source is a metadata block, or -1 when no cell is. Cells that merely
// contain a block alongside other code do not count. A malformed block in any
// code cell is an error.
func (nb *Notebook) MetadataCell() (int, *pep723.Block, error) {
	for i, c := range nb.Cells {
		if !c.IsCode() {
			continue
		}
		block, err := pep723.FindBlock(c.Source)
		if err != nil {
			return -1, nil, fmt.Errorf("cell %d: %w", i, err)
		}
		if block == nil {
			continue
		}
		if isBlank(c.Source[:block.Start]) && isBlank(c.Source[block.End:]) {
			return i, block, nil
		}
	}
	return -1, nil, nil
}

// ToScript renders nb as a script: the metadata cell first, as a plain
// block, then every other code cell behind a "# %%" marker. Markdown and raw
// cells have no script form and are left out. For a notebook produced by
// Build, FromScript(ToScript(nb)) yields the same cell sources.
func ToScript(nb *Notebook) (string, error) {
	metaIdx, _, err := nb.MetadataCell()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if metaIdx >= 0 {
		sb.WriteString(strings.TrimSpace(nb.Cells[metaIdx].Source))
		sb.WriteString("\n\n")
	}
	for i, c := range nb.Cells {
		if i == metaIdx || !c.IsCode() {
			continue
		}
		sb.WriteString(script.MarkerLine)
		sb.WriteByte('\n')
		sb.WriteString(c.Source)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
