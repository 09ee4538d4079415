// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/juvnb/juv/internal/testutil"
	"github.com/juvnb/juv/pkg/platform"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"juv": func() { os.Exit(Run()) },
	})
}

// TestScripts runs the testscript files in testdata/script against the
// in-process command tree, with a fake uv first on PATH.
func TestScripts(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == platform.Windows {
		t.Skip("fake uv is a POSIX shell script")
	}

	testscript.Run(t, testscript.Params{
		Dir:   filepath.Join("testdata", "script"),
		Setup: scriptSetup,
	})
}

func scriptSetup(env *testscript.Env) error {
	dir := filepath.Join(env.WorkDir, ".fakeuv")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	fake, err := testutil.InstallFakeUV(dir)
	if err != nil {
		return err
	}
	env.Setenv("PATH", fake.Dir+string(os.PathListSeparator)+env.Getenv("PATH"))
	env.Setenv("FAKE_UV_LOG", fake.LogPath)
	env.Setenv("XDG_CONFIG_HOME", filepath.Join(env.WorkDir, ".config"))
	env.Setenv("NO_COLOR", "1")
	return nil
}
