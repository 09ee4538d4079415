// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func runFake(t *testing.T, f *FakeUV, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(f.Path, args...)
	cmd.Env = append(os.Environ(), env...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestFakeUV_InitThenAdd(t *testing.T) {
	t.Parallel()

	f := NewFakeUV(t)
	script := filepath.Join(t.TempDir(), "tmp.py")

	if out, err := runFake(t, f, nil, "init", "--quiet", "--python", "3.11", "--script", script); err != nil {
		t.Fatalf("init: %v\n%s", err, out)
	}
	if out, err := runFake(t, f, nil, "add", "--quiet", "--script", script, "numpy", "polars>=1"); err != nil {
		t.Fatalf("add: %v\n%s", err, out)
	}

	data, err := os.ReadFile(script)
	if err != nil {
		t.Fatal(err)
	}
	want := "# /// script\n" +
		"# requires-python = \">=3.11\"\n" +
		"# dependencies = [\n" +
		"#     \"numpy\",\n" +
		"#     \"polars>=1\",\n" +
		"# ]\n" +
		"# ///\n"
	if !strings.HasPrefix(string(data), want) {
		t.Errorf("script =\n%s\nwant prefix\n%s", data, want)
	}
	if !strings.Contains(string(data), `print("Hello from tmp.py!")`) {
		t.Errorf("script body lost:\n%s", data)
	}

	calls := f.Calls(t)
	if len(calls) != 2 {
		t.Fatalf("got %d calls, want 2: %q", len(calls), calls)
	}
	if !slices.Equal(calls[1], []string{"add", "--quiet", "--script", script, "numpy", "polars>=1"}) {
		t.Errorf("calls[1] = %q", calls[1])
	}
}

func TestFakeUV_Fail(t *testing.T) {
	t.Parallel()

	f := NewFakeUV(t)
	out, err := runFake(t, f, []string{FakeUVFailEnv + "=boom"}, "--version")
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(out, "error: boom") {
		t.Errorf("output = %q", out)
	}
}

func TestFakeUV_Version(t *testing.T) {
	t.Parallel()

	f := NewFakeUV(t)
	out, err := runFake(t, f, nil, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != FakeUVVersion {
		t.Errorf("version = %q", out)
	}
}
