// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"io/fs"
	"slices"
	"testing"
)

func TestDetectSandboxFrom(t *testing.T) {
	t.Parallel()

	noFile := func(string) error { return fs.ErrNotExist }
	flatpakFile := func(p string) error {
		if p == flatpakInfoPath {
			return nil
		}
		return fs.ErrNotExist
	}
	env := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}

	tests := []struct {
		name string
		env  map[string]string
		stat func(string) error
		want SandboxType
	}{
		{"none", nil, noFile, SandboxNone},
		{"snap", map[string]string{"SNAP_NAME": "juv"}, noFile, SandboxSnap},
		{"flatpak", nil, flatpakFile, SandboxFlatpak},
		{"flatpak wins over snap", map[string]string{"SNAP_NAME": "juv"}, flatpakFile, SandboxFlatpak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := detectSandboxFrom(env(tt.env), tt.stat); got != tt.want {
				t.Errorf("detectSandboxFrom() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectSandbox_Cached(t *testing.T) {
	t.Parallel()

	if first, second := DetectSandbox(), DetectSandbox(); first != second {
		t.Errorf("DetectSandbox() changed between calls: %q then %q", first, second)
	}
}

func TestHostCommandFor(t *testing.T) {
	t.Parallel()

	argv := []string{"uv", "add", "--script", "x.py", "numpy"}

	tests := []struct {
		st   SandboxType
		want []string
	}{
		{SandboxNone, argv},
		{SandboxSnap, argv},
		{SandboxFlatpak, append([]string{"flatpak-spawn", "--host"}, argv...)},
	}

	for _, tt := range tests {
		t.Run(tt.st.String(), func(t *testing.T) {
			t.Parallel()
			got := HostCommandFor(tt.st, argv)
			if !slices.Equal(got, tt.want) {
				t.Errorf("HostCommandFor(%q) = %q, want %q", tt.st, got, tt.want)
			}
			got[0] = "changed"
			if argv[0] != "uv" {
				t.Error("HostCommandFor modified its input")
			}
		})
	}
}

func TestSandboxType_String(t *testing.T) {
	t.Parallel()

	if SandboxNone.String() != "none" || SandboxFlatpak.String() != "flatpak" {
		t.Errorf("String() = %q, %q", SandboxNone.String(), SandboxFlatpak.String())
	}
}
