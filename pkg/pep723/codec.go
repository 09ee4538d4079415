// SPDX-License-Identifier: MPL-2.0

package pep723

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const (
	keyDependencies   = "dependencies"
	keyRequiresPython = "requires-python"
)

// Declaration is the decoded form of a metadata block body.
//
// Keys other than "dependencies" and "requires-python" are kept opaquely and
// written back by Encode. A Declaration obtained from Decode remembers the
// body it came from; Encode returns that body verbatim until something changes.
type Declaration struct {
	// Dependencies are the dependency specifiers in declaration order.
	// Duplicates are kept.
	Dependencies []string
	// RequiresPython is the interpreter version constraint ("" when unset).
	RequiresPython string

	extra      map[string]any
	extraDirty bool

	decoded      bool
	raw          string
	origDeps     []string
	origRequires string
}

// Decode parses a block body. An empty or whitespace-only body yields an
// empty Declaration.
func Decode(body string) (*Declaration, error) {
	d := &Declaration{decoded: true, raw: body}
	if strings.TrimSpace(body) == "" {
		return d, nil
	}

	var doc map[string]any
	if err := toml.Unmarshal([]byte(body), &doc); err != nil {
		return nil, newMetadataSyntaxError(body, err)
	}

	for key, value := range doc {
		switch key {
		case keyDependencies:
			deps, err := stringList(value)
			if err != nil {
				return nil, &MetadataSyntaxError{Body: body, Message: fmt.Sprintf("%s: %v", keyDependencies, err)}
			}
			d.Dependencies = deps
		case keyRequiresPython:
			s, ok := value.(string)
			if !ok {
				return nil, &MetadataSyntaxError{Body: body, Message: fmt.Sprintf("%s: expected a string, got %T", keyRequiresPython, value)}
			}
			d.RequiresPython = s
		default:
			if d.extra == nil {
				d.extra = make(map[string]any)
			}
			d.extra[key] = value
		}
	}

	d.origDeps = slices.Clone(d.Dependencies)
	d.origRequires = d.RequiresPython
	return d, nil
}

// Encode renders a Declaration as a block body. An unchanged decoded
// Declaration encodes to its original body byte-for-byte.
func Encode(d *Declaration) (string, error) {
	if d == nil {
		return "", nil
	}
	if d.decoded && !d.Changed() {
		return d.raw, nil
	}

	var sb strings.Builder
	if d.RequiresPython != "" {
		fmt.Fprintf(&sb, "%s = %s\n", keyRequiresPython, quote(d.RequiresPython))
	}
	if len(d.Dependencies) == 0 {
		sb.WriteString(keyDependencies + " = []\n")
	} else {
		sb.WriteString(keyDependencies + " = [\n")
		for _, dep := range d.Dependencies {
			fmt.Fprintf(&sb, "    %s,\n", quote(dep))
		}
		sb.WriteString("]\n")
	}

	if len(d.extra) > 0 {
		out, err := toml.Marshal(d.extra)
		if err != nil {
			return "", fmt.Errorf("encode inline metadata: %w", err)
		}
		if bytes.HasPrefix(out, []byte("[")) {
			sb.WriteByte('\n')
		}
		sb.Write(out)
	}

	return sb.String(), nil
}

// Changed reports whether the Declaration differs from the body it was
// decoded from. A Declaration built by hand always reports true.
func (d *Declaration) Changed() bool {
	if !d.decoded || d.extraDirty {
		return true
	}
	return d.RequiresPython != d.origRequires || !slices.Equal(d.Dependencies, d.origDeps)
}

// AddDependencies appends specifiers in the given order.
func (d *Declaration) AddDependencies(specs ...string) {
	d.Dependencies = append(d.Dependencies, specs...)
}

// SetRequiresPython sets the interpreter version constraint.
func (d *Declaration) SetRequiresPython(constraint string) {
	d.RequiresPython = constraint
}

// ExtraKeys returns the pass-through keys in sorted order.
func (d *Declaration) ExtraKeys() []string {
	keys := make([]string, 0, len(d.extra))
	for k := range d.extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Extra returns a shallow copy of the pass-through keys.
func (d *Declaration) Extra() map[string]any {
	return maps.Clone(d.extra)
}

// SetExtra sets a pass-through key. Setting a known key is rejected so the
// typed fields stay authoritative.
func (d *Declaration) SetExtra(key string, value any) error {
	if key == keyDependencies || key == keyRequiresPython {
		return fmt.Errorf("%q is not a pass-through key", key)
	}
	if d.extra == nil {
		d.extra = make(map[string]any)
	}
	d.extra[key] = value
	d.extraDirty = true
	return nil
}

func newMetadataSyntaxError(body string, err error) *MetadataSyntaxError {
	e := &MetadataSyntaxError{Body: body, Message: err.Error()}
	var decErr *toml.DecodeError
	if errors.As(err, &decErr) {
		e.Line, e.Column = decErr.Position()
	}
	return e
}

func stringList(value any) ([]string, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("expected an array of strings, got %T", value)
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("item %d: expected a string, got %T", i, item)
		}
		out = append(out, s)
	}
	return out, nil
}

// quote renders s as a TOML basic string.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			sb.WriteString(`\"`)
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&sb, `\u%04X`, r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
