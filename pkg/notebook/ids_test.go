// SPDX-License-Identifier: MPL-2.0

package notebook

import (
	"bytes"
	"regexp"
	"testing"
)

var idPattern = regexp.MustCompile(`^[0-9a-f]{8}$`)

func TestRandomIDsFromReader(t *testing.T) {
	t.Parallel()

	seed := bytes.Repeat([]byte{0xab}, 64)
	a, err := NewRandomIDs(bytes.NewReader(seed)).NextID()
	if err != nil {
		t.Fatalf("NextID() error = %v", err)
	}
	b, err := NewRandomIDs(bytes.NewReader(seed)).NextID()
	if err != nil {
		t.Fatalf("NextID() error = %v", err)
	}
	if a != b {
		t.Errorf("same reader bytes gave %q and %q", a, b)
	}
	if !idPattern.MatchString(a) {
		t.Errorf("id %q is not eight hex characters", a)
	}
}

func TestRandomIDsShortReader(t *testing.T) {
	t.Parallel()

	if _, err := NewRandomIDs(bytes.NewReader([]byte{1, 2})).NextID(); err == nil {
		t.Error("NextID() on an exhausted reader returned nil error")
	}
}

func TestDefaultIDsAreDistinct(t *testing.T) {
	t.Parallel()

	ids := DefaultIDs()
	seen := map[string]bool{}
	for range 32 {
		id, err := ids.NextID()
		if err != nil {
			t.Fatalf("NextID() error = %v", err)
		}
		if !idPattern.MatchString(id) {
			t.Fatalf("id %q is not eight hex characters", id)
		}
		seen[id] = true
	}
	if len(seen) < 30 {
		t.Errorf("only %d distinct ids out of 32", len(seen))
	}
}

func TestSequentialIDs(t *testing.T) {
	t.Parallel()

	ids := NewSequentialIDs("c")
	for _, want := range []string{"c1", "c2", "c3"} {
		got, err := ids.NextID()
		if err != nil || got != want {
			t.Errorf("NextID() = %q, %v, want %q", got, err, want)
		}
	}
}
