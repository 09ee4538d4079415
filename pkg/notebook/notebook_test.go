// SPDX-License-Identifier: MPL-2.0

package notebook

import (
	"errors"
	"testing"
)

func TestCellHidden(t *testing.T) {
	t.Parallel()

	c := NewCodeCell("a", "x = 1", true)
	if !c.Hidden() {
		t.Fatal("Hidden() = false after NewCodeCell(hidden)")
	}

	c.Metadata["jupyter"].(map[string]any)["outputs_hidden"] = true
	c.SetHidden(false)
	if c.Hidden() {
		t.Error("Hidden() = true after SetHidden(false)")
	}
	if _, ok := c.Metadata["jupyter"]; !ok {
		t.Error("SetHidden(false) removed a jupyter object that still has other keys")
	}

	delete(c.Metadata["jupyter"].(map[string]any), "outputs_hidden")
	c.SetHidden(false)
	if _, ok := c.Metadata["jupyter"]; ok {
		t.Error("SetHidden(false) left an empty jupyter object")
	}

	visible := NewCodeCell("b", "", false)
	if len(visible.Metadata) != 0 {
		t.Errorf("visible cell metadata = %v, want empty", visible.Metadata)
	}
	if visible.ExecutionCount != nil || len(visible.Outputs) != 0 {
		t.Error("new cell has execution state")
	}
}

func TestHiddenOnNilMetadata(t *testing.T) {
	t.Parallel()

	c := &Cell{Type: CellTypeCode}
	if c.Hidden() {
		t.Error("Hidden() = true for nil metadata")
	}
	c.SetHidden(true)
	if !c.Hidden() {
		t.Error("SetHidden(true) on nil metadata did not take effect")
	}
}

func TestInsertCell(t *testing.T) {
	t.Parallel()

	nb := New(NewCodeCell("a", "a", false), NewCodeCell("c", "c", false))
	nb.InsertCell(1, NewCodeCell("b", "b", false))
	nb.InsertCell(0, NewCodeCell("z", "z", true))
	nb.InsertCell(99, NewCodeCell("end", "end", false))

	var got []string
	for _, c := range nb.Cells {
		got = append(got, c.ID)
	}
	want := []string{"z", "a", "b", "c", "end"}
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}
}

func TestFillMissingIDs(t *testing.T) {
	t.Parallel()

	nb := New(
		&Cell{Type: CellTypeCode, ID: "cell-2"},
		&Cell{Type: CellTypeMarkdown},
		&Cell{Type: CellTypeCode},
	)
	nb.NBFormatMinor = 4

	if err := nb.FillMissingIDs(NewSequentialIDs("cell-")); err != nil {
		t.Fatalf("FillMissingIDs() error = %v", err)
	}

	if nb.Cells[0].ID != "cell-2" {
		t.Errorf("existing id changed to %q", nb.Cells[0].ID)
	}
	if nb.Cells[1].ID != "cell-1" || nb.Cells[2].ID != "cell-3" {
		t.Errorf("filled ids = %q, %q, want cell-1, cell-3", nb.Cells[1].ID, nb.Cells[2].ID)
	}
	if nb.NBFormatMinor != FormatMinor {
		t.Errorf("NBFormatMinor = %d, want %d", nb.NBFormatMinor, FormatMinor)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		nb      *Notebook
		wantErr bool
	}{
		{name: "empty notebook", nb: New()},
		{name: "cells without ids", nb: New(&Cell{Type: CellTypeCode}, &Cell{Type: CellTypeRaw})},
		{name: "wrong major version", nb: &Notebook{NBFormat: 3}, wantErr: true},
		{name: "duplicate ids", nb: New(&Cell{Type: CellTypeCode, ID: "x"}, &Cell{Type: CellTypeCode, ID: "x"}), wantErr: true},
		{name: "unknown cell type", nb: New(&Cell{Type: "heading"}), wantErr: true},
		{name: "nil cell", nb: New(nil), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.nb.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewCellIDAvoidsCollisions(t *testing.T) {
	t.Parallel()

	nb := New(&Cell{Type: CellTypeCode, ID: "n1"}, &Cell{Type: CellTypeCode, ID: "n2"})
	id, err := nb.NewCellID(NewSequentialIDs("n"))
	if err != nil {
		t.Fatalf("NewCellID() error = %v", err)
	}
	if id != "n3" {
		t.Errorf("NewCellID() = %q, want n3", id)
	}
}

type constantIDs string

func (c constantIDs) NextID() (string, error) { return string(c), nil }

func TestNewCellIDExhausted(t *testing.T) {
	t.Parallel()

	nb := New(&Cell{Type: CellTypeCode, ID: "same"})
	if _, err := nb.NewCellID(constantIDs("same")); !errors.Is(err, ErrIDSourceExhausted) {
		t.Errorf("NewCellID() error = %v, want ErrIDSourceExhausted", err)
	}
}
