// SPDX-License-Identifier: MPL-2.0

package notebook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DefaultIndent is the indent width nbformat uses when writing documents.
const DefaultIndent = 1

const (
	keyCells          = "cells"
	keyMetadata       = "metadata"
	keyNBFormat       = "nbformat"
	keyNBFormatMinor  = "nbformat_minor"
	keyCellType       = "cell_type"
	keyID             = "id"
	keySource         = "source"
	keyExecutionCount = "execution_count"
	keyOutputs        = "outputs"
)

// ErrMalformedNotebook is returned when a document is not a usable nbformat 4
// notebook.
var ErrMalformedNotebook = errors.New("malformed notebook")

// ParseError describes why a document could not be read as a notebook.
type ParseError struct {
	// Cell is the offending cell index, or -1 for document-level problems.
	Cell   int
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	msg := e.Reason
	if e.Cell >= 0 {
		msg = fmt.Sprintf("cell %d: %s", e.Cell, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return "malformed notebook: " + msg
}

// Unwrap returns ErrMalformedNotebook for errors.Is() compatibility.
func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedNotebook, e.Err}
	}
	return []error{ErrMalformedNotebook}
}

// Parse decodes an nbformat 4 JSON document. Keys the package does not model
// are kept and written back by Marshal.
func Parse(data []byte) (*Notebook, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, &ParseError{Cell: -1, Reason: "not a JSON object", Err: err}
	}

	nb := &Notebook{}
	if err := decodeField(top, keyNBFormat, &nb.NBFormat, true); err != nil {
		return nil, &ParseError{Cell: -1, Reason: "nbformat", Err: err}
	}
	if nb.NBFormat != FormatMajor {
		return nil, &ParseError{Cell: -1, Reason: fmt.Sprintf("unsupported nbformat %d", nb.NBFormat)}
	}
	if err := decodeField(top, keyNBFormatMinor, &nb.NBFormatMinor, false); err != nil {
		return nil, &ParseError{Cell: -1, Reason: "nbformat_minor", Err: err}
	}

	var err error
	if nb.Metadata, err = decodeObject(top[keyMetadata]); err != nil {
		return nil, &ParseError{Cell: -1, Reason: "metadata", Err: err}
	}
	delete(top, keyMetadata)

	var rawCells []json.RawMessage
	if err := decodeField(top, keyCells, &rawCells, false); err != nil {
		return nil, &ParseError{Cell: -1, Reason: "cells", Err: err}
	}
	nb.Cells = make([]*Cell, 0, len(rawCells))
	for i, raw := range rawCells {
		c, err := parseCell(raw)
		if err != nil {
			return nil, &ParseError{Cell: i, Reason: "invalid cell", Err: err}
		}
		nb.Cells = append(nb.Cells, c)
	}

	if len(top) > 0 {
		nb.extra = top
	}
	if err := nb.Validate(); err != nil {
		return nil, &ParseError{Cell: -1, Reason: "invalid document", Err: err}
	}
	return nb, nil
}

func parseCell(data []byte) (*Cell, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}

	c := &Cell{}
	if err := decodeField(fields, keyCellType, &c.Type, true); err != nil {
		return nil, fmt.Errorf("cell_type: %w", err)
	}
	if err := decodeField(fields, keyID, &c.ID, false); err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}

	src, err := decodeSource(fields[keySource])
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	c.Source = src
	delete(fields, keySource)

	if c.Metadata, err = decodeObject(fields[keyMetadata]); err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}
	delete(fields, keyMetadata)

	if c.IsCode() {
		if err := decodeField(fields, keyExecutionCount, &c.ExecutionCount, false); err != nil {
			return nil, fmt.Errorf("execution_count: %w", err)
		}
		if err := decodeField(fields, keyOutputs, &c.Outputs, false); err != nil {
			return nil, fmt.Errorf("outputs: %w", err)
		}
		if c.Outputs == nil {
			c.Outputs = []json.RawMessage{}
		}
	}

	if len(fields) > 0 {
		c.extra = fields
	}
	return c, nil
}

// decodeField unmarshals fields[key] into v and removes it from fields.
func decodeField(fields map[string]json.RawMessage, key string, v any, required bool) error {
	raw, ok := fields[key]
	if !ok {
		if required {
			return errors.New("missing")
		}
		return nil
	}
	delete(fields, key)
	return json.Unmarshal(raw, v)
}

// decodeObject decodes a metadata object keeping numbers exact.
func decodeObject(raw json.RawMessage) (map[string]any, error) {
	obj := map[string]any{}
	if len(raw) == 0 {
		return obj, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		obj = map[string]any{}
	}
	return obj, nil
}

// decodeSource accepts both the multiline list form and a single string.
func decodeSource(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var lines []string
	if err := json.Unmarshal(raw, &lines); err != nil {
		return "", errors.New("must be a string or a list of strings")
	}
	return strings.Join(lines, ""), nil
}

// splitSource splits s into lines that keep their terminators, the way
// nbformat stores multiline strings.
func splitSource(s string) []string {
	lines := make([]string, 0, strings.Count(s, "\n")+1)
	for s != "" {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
	}
	return lines
}

// Marshal encodes nb with DefaultIndent.
func Marshal(nb *Notebook) ([]byte, error) {
	return MarshalIndent(nb, DefaultIndent)
}

// MarshalIndent encodes nb with object keys sorted, sources split into line
// lists and a trailing newline. indent is the number of spaces per level.
func MarshalIndent(nb *Notebook, indent int) ([]byte, error) {
	if nb == nil {
		return nil, errors.New("nil notebook")
	}
	if err := nb.Validate(); err != nil {
		return nil, err
	}
	if indent < 0 {
		indent = DefaultIndent
	}

	doc := make(map[string]any, len(nb.extra)+4)
	for k, v := range nb.extra {
		doc[k] = v
	}
	cells := make([]any, 0, len(nb.Cells))
	for _, c := range nb.Cells {
		cells = append(cells, cellObject(c))
	}
	doc[keyCells] = cells
	doc[keyMetadata] = orEmpty(nb.Metadata)
	doc[keyNBFormat] = nb.NBFormat
	doc[keyNBFormatMinor] = nb.NBFormatMinor

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", indent))
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode notebook: %w", err)
	}
	return buf.Bytes(), nil
}

func cellObject(c *Cell) map[string]any {
	obj := make(map[string]any, len(c.extra)+6)
	for k, v := range c.extra {
		obj[k] = v
	}
	obj[keyCellType] = c.Type
	if c.ID != "" {
		obj[keyID] = c.ID
	}
	obj[keySource] = splitSource(c.Source)
	obj[keyMetadata] = orEmpty(c.Metadata)
	if c.IsCode() {
		obj[keyExecutionCount] = c.ExecutionCount
		outputs := c.Outputs
		if outputs == nil {
			outputs = []json.RawMessage{}
		}
		obj[keyOutputs] = outputs
	}
	return obj
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
