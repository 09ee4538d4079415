// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"runtime"
	"testing"

	"github.com/juvnb/juv/pkg/platform"
)

func homeEnvVar() string {
	if runtime.GOOS == platform.Windows {
		return "USERPROFILE"
	}
	return "HOME"
}

func TestSetHomeDir(t *testing.T) {
	envVar := homeEnvVar()
	original, hadOriginal := os.LookupEnv(envVar)

	for _, dir := range []string{t.TempDir(), ""} {
		cleanup := SetHomeDir(t, dir)
		if got := os.Getenv(envVar); got != dir {
			t.Errorf("%s = %q, want %q", envVar, got, dir)
		}
		cleanup()

		got, had := os.LookupEnv(envVar)
		if had != hadOriginal || got != original {
			t.Errorf("after cleanup %s = %q (set=%v), want %q (set=%v)", envVar, got, had, original, hadOriginal)
		}
	}
}

func TestSetHomeDir_WithTCleanup(t *testing.T) {
	envVar := homeEnvVar()
	original := os.Getenv(envVar)
	dir := t.TempDir()

	t.Run("subtest", func(t *testing.T) {
		t.Cleanup(SetHomeDir(t, dir))
		if got := os.Getenv(envVar); got != dir {
			t.Errorf("%s = %q, want %q", envVar, got, dir)
		}
	})

	if got := os.Getenv(envVar); got != original {
		t.Errorf("after subtest %s = %q, want %q", envVar, got, original)
	}
}
