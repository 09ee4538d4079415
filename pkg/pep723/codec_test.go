// SPDX-License-Identifier: MPL-2.0

package pep723

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		body         string
		wantDeps     []string
		wantRequires string
		wantExtra    []string
	}{
		{
			name: "empty body",
			body: "",
		},
		{
			name: "whitespace body",
			body: "\n  \n",
		},
		{
			name:     "dependencies only",
			body:     "dependencies = [\"numpy\", \"pandas>=2\"]\n",
			wantDeps: []string{"numpy", "pandas>=2"},
		},
		{
			name:         "keys in any order with duplicates",
			body:         "dependencies = [\n    \"rich\",\n    \"rich\",\n]\nrequires-python = \">=3.12\"\n",
			wantDeps:     []string{"rich", "rich"},
			wantRequires: ">=3.12",
		},
		{
			name:      "unknown keys are kept",
			body:      "dependencies = []\nauthor = \"me\"\n\n[tool.uv]\nexclude-newer = \"2024-01-01T00:00:00Z\"\n",
			wantDeps:  []string{},
			wantExtra: []string{"author", "tool"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := Decode(tt.body)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if len(d.Dependencies) != len(tt.wantDeps) || (len(tt.wantDeps) > 0 && !reflect.DeepEqual(d.Dependencies, tt.wantDeps)) {
				t.Errorf("Dependencies = %q, want %q", d.Dependencies, tt.wantDeps)
			}
			if d.RequiresPython != tt.wantRequires {
				t.Errorf("RequiresPython = %q, want %q", d.RequiresPython, tt.wantRequires)
			}
			if got := d.ExtraKeys(); len(got) != len(tt.wantExtra) || (len(got) > 0 && !reflect.DeepEqual(got, tt.wantExtra)) {
				t.Errorf("ExtraKeys() = %q, want %q", got, tt.wantExtra)
			}
			if d.Changed() {
				t.Error("freshly decoded Declaration reports Changed()")
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		wantLine bool
	}{
		{name: "malformed toml", body: "dependencies = [\n", wantLine: true},
		{name: "dependencies not an array", body: "dependencies = \"numpy\"\n"},
		{name: "dependency not a string", body: "dependencies = [1]\n"},
		{name: "requires-python not a string", body: "requires-python = 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode(tt.body)
			if err == nil {
				t.Fatal("Decode() error = nil, want error")
			}
			if !errors.Is(err, ErrMetadataSyntax) {
				t.Errorf("error %v does not wrap ErrMetadataSyntax", err)
			}
			var syntaxErr *MetadataSyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("error %T is not *MetadataSyntaxError", err)
			}
			if syntaxErr.Body != tt.body {
				t.Errorf("Body = %q, want %q", syntaxErr.Body, tt.body)
			}
			if tt.wantLine && syntaxErr.Line == 0 {
				t.Error("Line = 0, want the decoder position")
			}
		})
	}
}

func TestEncodeUnchangedIsByteStable(t *testing.T) {
	t.Parallel()

	bodies := []string{
		"",
		"dependencies = [ 'numpy' ]   # trailing comment\n",
		"requires-python = \">=3.12\"\ndependencies = [\n  \"numpy\",\n]\n\n[tool.uv]\nexclude-newer = \"2024-01-01T00:00:00Z\"\n",
	}

	for _, body := range bodies {
		d, err := Decode(body)
		if err != nil {
			t.Fatalf("Decode(%q) error = %v", body, err)
		}
		got, err := Encode(d)
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		if got != body {
			t.Errorf("Encode() = %q, want %q", got, body)
		}
	}
}

func TestEncodeAfterChange(t *testing.T) {
	t.Parallel()

	d, err := Decode("dependencies = [\"numpy\"]\nrequires-python = \">=3.11\"\n")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	d.AddDependencies("pandas", "numpy")
	if !d.Changed() {
		t.Fatal("Changed() = false after AddDependencies")
	}

	got, err := Encode(d)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := "requires-python = \">=3.11\"\ndependencies = [\n    \"numpy\",\n    \"pandas\",\n    \"numpy\",\n]\n"
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestEncodePreservesUnknownKeys(t *testing.T) {
	t.Parallel()

	body := "dependencies = []\n\n[tool.uv]\nexclude-newer = \"2024-01-01T00:00:00Z\"\nindex-url = \"https://example.com/simple\"\n"
	d, err := Decode(body)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	d.SetRequiresPython(">=3.10")

	encoded, err := Encode(d)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.Contains(encoded, "[tool.uv]") {
		t.Errorf("Encode() dropped the tool table: %q", encoded)
	}

	again, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode(encoded) error = %v", err)
	}
	if !reflect.DeepEqual(again.Extra(), d.Extra()) {
		t.Errorf("pass-through keys changed:\n got %#v\nwant %#v", again.Extra(), d.Extra())
	}
	if again.RequiresPython != ">=3.10" {
		t.Errorf("RequiresPython = %q", again.RequiresPython)
	}
}

func TestEncodeHandBuiltDeclaration(t *testing.T) {
	t.Parallel()

	d := &Declaration{}
	d.AddDependencies(`weird"name`)
	if err := d.SetExtra("dependencies", "x"); err == nil {
		t.Error("SetExtra(dependencies) error = nil")
	}
	if err := d.SetExtra("name", "demo"); err != nil {
		t.Fatalf("SetExtra() error = %v", err)
	}

	got, err := Encode(d)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	back, err := Decode(got)
	if err != nil {
		t.Fatalf("Decode(%q) error = %v", got, err)
	}
	if !reflect.DeepEqual(back.Dependencies, []string{`weird"name`}) {
		t.Errorf("Dependencies = %q", back.Dependencies)
	}
	if back.Extra()["name"] != "demo" {
		t.Errorf("Extra()[name] = %v", back.Extra()["name"])
	}
}

func TestEncodeNil(t *testing.T) {
	t.Parallel()

	if got, err := Encode(nil); got != "" || err != nil {
		t.Errorf("Encode(nil) = %q, %v", got, err)
	}
}
