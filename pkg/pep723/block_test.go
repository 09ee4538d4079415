// SPDX-License-Identifier: MPL-2.0

package pep723

import (
	"errors"
	"strings"
	"testing"
)

func TestFindBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		wantBody  string
		wantRaw   string
		wantStart int
		wantLines [2]int
	}{
		{
			name:      "block at start",
			text:      "# /// script\n# dependencies = [\"numpy\"]\n# ///\n\nprint(1)",
			wantBody:  "dependencies = [\"numpy\"]\n",
			wantRaw:   "# /// script\n# dependencies = [\"numpy\"]\n# ///",
			wantStart: 0,
			wantLines: [2]int{1, 3},
		},
		{
			name:      "block after code",
			text:      "import os\n\n# /// script\n# requires-python = \">=3.11\"\n# ///\n",
			wantBody:  "requires-python = \">=3.11\"\n",
			wantRaw:   "# /// script\n# requires-python = \">=3.11\"\n# ///",
			wantStart: len("import os\n\n"),
			wantLines: [2]int{3, 5},
		},
		{
			name:      "bare hash and unprefixed blank line",
			text:      "# /// script\n# a = 1\n#\n\n# b = 2\n# ///",
			wantBody:  "a = 1\n\n\nb = 2\n",
			wantRaw:   "# /// script\n# a = 1\n#\n\n# b = 2\n# ///",
			wantStart: 0,
			wantLines: [2]int{1, 6},
		},
		{
			name:      "empty block",
			text:      "# /// script\n# ///\n",
			wantBody:  "",
			wantRaw:   "# /// script\n# ///",
			wantStart: 0,
			wantLines: [2]int{1, 2},
		},
		{
			name:      "crlf line endings",
			text:      "# /// script\r\n# dependencies = []\r\n# ///\r\nx = 1\r\n",
			wantBody:  "dependencies = []\n",
			wantRaw:   "# /// script\r\n# dependencies = []\r\n# ///",
			wantStart: 0,
			wantLines: [2]int{1, 3},
		},
		{
			name:      "other tags are ignored",
			text:      "# /// pyproject\n# x = 1\n# ///\n# /// script\n# y = 2\n# ///\n",
			wantBody:  "y = 2\n",
			wantRaw:   "# /// script\n# y = 2\n# ///",
			wantStart: len("# /// pyproject\n# x = 1\n# ///\n"),
			wantLines: [2]int{4, 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := FindBlock(tt.text)
			if err != nil {
				t.Fatalf("FindBlock() error = %v", err)
			}
			if b == nil {
				t.Fatal("FindBlock() returned nil block")
			}
			if b.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", b.Body, tt.wantBody)
			}
			if b.Raw != tt.wantRaw {
				t.Errorf("Raw = %q, want %q", b.Raw, tt.wantRaw)
			}
			if b.Start != tt.wantStart {
				t.Errorf("Start = %d, want %d", b.Start, tt.wantStart)
			}
			if got := tt.text[b.Start:b.End]; got != tt.wantRaw {
				t.Errorf("text[Start:End] = %q, want %q", got, tt.wantRaw)
			}
			if b.StartLine != tt.wantLines[0] || b.EndLine != tt.wantLines[1] {
				t.Errorf("lines = %d-%d, want %d-%d", b.StartLine, b.EndLine, tt.wantLines[0], tt.wantLines[1])
			}
		})
	}
}

func TestFindBlockAbsent(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "print(1)\n", "# just a comment\n# ///\n", "#/// script\n"} {
		b, err := FindBlock(text)
		if err != nil {
			t.Errorf("FindBlock(%q) error = %v", text, err)
		}
		if b != nil {
			t.Errorf("FindBlock(%q) = %+v, want nil", text, b)
		}
		if IncludesInlineMetadata(text) {
			t.Errorf("IncludesInlineMetadata(%q) = true", text)
		}
	}
}

func TestFindBlockErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		sentinel error
		wantLine int
	}{
		{
			name:     "code line inside block",
			text:     "# /// script\n# a = 1\nprint(1)\n# ///\n",
			sentinel: ErrBlockSyntax,
			wantLine: 3,
		},
		{
			name:     "nested open fence",
			text:     "# /// script\n# /// script\n# ///\n",
			sentinel: ErrBlockSyntax,
			wantLine: 2,
		},
		{
			name:     "missing close fence",
			text:     "x = 1\n# /// script\n# a = 1\n",
			sentinel: ErrBlockSyntax,
			wantLine: 2,
		},
		{
			name:     "two blocks",
			text:     "# /// script\n# a = 1\n# ///\n\n# /// script\n# b = 2\n# ///\n",
			sentinel: ErrAmbiguousBlock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := FindBlock(tt.text)
			if err == nil {
				t.Fatalf("FindBlock() = %+v, want error", b)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("error %v does not wrap %v", err, tt.sentinel)
			}
			var syntaxErr *BlockSyntaxError
			if tt.wantLine > 0 {
				if !errors.As(err, &syntaxErr) {
					t.Fatalf("error %T is not *BlockSyntaxError", err)
				}
				if syntaxErr.Line != tt.wantLine {
					t.Errorf("Line = %d, want %d", syntaxErr.Line, tt.wantLine)
				}
			}
			if IncludesInlineMetadata(tt.text) {
				t.Error("IncludesInlineMetadata() = true for malformed text")
			}
		})
	}
}

func TestAmbiguousBlockErrorLines(t *testing.T) {
	t.Parallel()

	_, err := FindBlock("# /// script\n# ///\nx = 1\n# /// script\n# ///\n")
	var ambErr *AmbiguousBlockError
	if !errors.As(err, &ambErr) {
		t.Fatalf("error = %v, want *AmbiguousBlockError", err)
	}
	if ambErr.FirstLine != 1 || ambErr.SecondLine != 4 {
		t.Errorf("lines = %d, %d, want 1, 4", ambErr.FirstLine, ambErr.SecondLine)
	}
	if !strings.Contains(ambErr.Error(), "ambiguous metadata block") {
		t.Errorf("Error() = %q", ambErr.Error())
	}
}

func TestFence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "empty", body: "", want: "# /// script\n# ///\n"},
		{name: "single line no newline", body: `dependencies = ["requests"]`, want: "# /// script\n# dependencies = [\"requests\"]\n# ///\n"},
		{name: "blank lines become bare hash", body: "a = 1\n\nb = 2\n", want: "# /// script\n# a = 1\n#\n# b = 2\n# ///\n"},
		{name: "only a blank line", body: "\n", want: "# /// script\n#\n# ///\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Fence(tt.body); got != tt.want {
				t.Errorf("Fence() = %q, want %q", got, tt.want)
			}
			if got := FenceCell(tt.body); got != strings.TrimSuffix(tt.want, "\n") {
				t.Errorf("FenceCell() = %q", got)
			}
		})
	}
}

func TestFenceRoundTrip(t *testing.T) {
	t.Parallel()

	blocks := []string{
		"# /// script\n# ///",
		"# /// script\n# dependencies = [\"numpy\"]\n# ///",
		"# /// script\n# requires-python = \">=3.12\"\n# dependencies = [\n#     \"numpy\",\n#     \"pandas>=2\",\n# ]\n#\n# [tool.uv]\n# exclude-newer = \"2024-01-01T00:00:00Z\"\n# ///",
	}

	for _, raw := range blocks {
		text := "x = 1\n\n" + raw + "\n\nprint(x)\n"
		b, err := FindBlock(text)
		if err != nil {
			t.Fatalf("FindBlock() error = %v", err)
		}
		if !b.Canonical() {
			t.Errorf("block %q is not canonical", raw)
		}
		rebuilt := text[:b.Start] + FenceCell(b.Body) + text[b.End:]
		if rebuilt != text {
			t.Errorf("round trip changed text:\n got %q\nwant %q", rebuilt, text)
		}
	}
}

func TestCanonicalDetectsNonCanonicalForm(t *testing.T) {
	t.Parallel()

	b, err := FindBlock("# /// script\n#a = 1\n# ///\n")
	if err != nil {
		t.Fatalf("FindBlock() error = %v", err)
	}
	if b.Body != "a = 1\n" {
		t.Errorf("Body = %q", b.Body)
	}
	if b.Canonical() {
		t.Error("Canonical() = true for a block without the space after '#'")
	}
}
