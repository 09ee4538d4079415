// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/juvnb/juv/pkg/platform"
)

const (
	// FakeUVFailEnv makes the fake uv print its value to stderr and exit 2.
	FakeUVFailEnv = "FAKE_UV_FAIL"

	// FakeUVVersion is what the fake prints for --version.
	FakeUVVersion = "uv 0.5.0 (fake)"
)

// FakeUV is a POSIX shell stand-in for uv. It records every invocation and
// implements enough of `init --script` and `add --script` to exercise the
// code that drives uv.
type FakeUV struct {
	// Dir holds the executable; prepend it to PATH.
	Dir string
	// Path is the executable itself.
	Path string
	// LogPath receives one tab-separated line of arguments per call.
	LogPath string
}

// fakeUVScript is the fake's source; LOGFILE is replaced with the log path.
//
// init writes a script holding a block with requires-python and an empty
// dependency list. add rewrites the block of an existing script, keeping
// requires-python and any dependencies already listed one per line.
const fakeUVScript = `#!/bin/sh
set -f
printf '%s\t' "$@" >> 'LOGFILE'
printf '\n' >> 'LOGFILE'
if [ -n "$FAKE_UV_FAIL" ]; then
	echo "error: $FAKE_UV_FAIL" >&2
	exit 2
fi
cmd="$1"
[ $# -gt 0 ] && shift
case "$cmd" in
--version|version)
	echo "uv 0.5.0 (fake)"
	exit 0
	;;
init|add) ;;
*)
	echo "error: unrecognized subcommand '$cmd'" >&2
	exit 2
	;;
esac
script=""
python=""
reqs=""
pkgs=""
while [ $# -gt 0 ]; do
	case "$1" in
	--script)
		if [ "$cmd" = add ]; then
			shift
			script="$1"
		fi
		;;
	--python)
		shift
		python="$1"
		;;
	--requirements|-r)
		shift
		reqs="$1"
		;;
	-*) ;;
	*)
		if [ "$cmd" = init ] && [ -z "$script" ]; then
			script="$1"
		else
			pkgs="$pkgs $1"
		fi
		;;
	esac
	shift
done
if [ -z "$script" ]; then
	echo "error: no script given" >&2
	exit 2
fi
if [ "$cmd" = init ]; then
	if [ -e "$script" ]; then
		echo "error: script already exists: $script" >&2
		exit 2
	fi
	name=$(basename "$script")
	cat > "$script" <<EOF
# /// script
# requires-python = ">=${python:-3.12}"
# dependencies = []
# ///


def main() -> None:
    print("Hello from $name!")


if __name__ == "__main__":
    main()
EOF
	exit 0
fi
if [ ! -f "$script" ]; then
	echo "error: no such file: $script" >&2
	exit 2
fi
if [ -n "$reqs" ]; then
	if [ ! -f "$reqs" ]; then
		echo "error: requirements file not found: $reqs" >&2
		exit 2
	fi
	while IFS= read -r line || [ -n "$line" ]; do
		case "$line" in
		''|'#'*) ;;
		*) pkgs="$pkgs $line" ;;
		esac
	done < "$reqs"
fi
if [ -z "$pkgs" ]; then
	echo "error: no packages to add" >&2
	exit 2
fi
rp=$(grep '^# requires-python' "$script")
existing=$(grep '^#     "' "$script")
rest=$(sed -n '/^# \/\/\/ script$/,/^# \/\/\/$/!p' "$script")
{
	echo "# /// script"
	[ -n "$rp" ] && echo "$rp"
	echo "# dependencies = ["
	[ -n "$existing" ] && echo "$existing"
	for p in $pkgs; do
		printf '#     "%s",\n' "$p"
	done
	echo "# ]"
	echo "# ///"
	[ -n "$rest" ] && printf '%s\n' "$rest"
} > "$script.fake-uv" && mv "$script.fake-uv" "$script"
`

// InstallFakeUV writes the fake uv executable into dir.
func InstallFakeUV(dir string) (*FakeUV, error) {
	f := &FakeUV{
		Dir:     dir,
		Path:    filepath.Join(dir, "uv"),
		LogPath: filepath.Join(dir, "uv.log"),
	}
	src := strings.ReplaceAll(fakeUVScript, "LOGFILE", f.LogPath)
	if err := os.WriteFile(f.Path, []byte(src), 0o755); err != nil {
		return nil, fmt.Errorf("write fake uv: %w", err)
	}
	return f, nil
}

// NewFakeUV installs the fake uv into a fresh temporary directory. Tests
// using it are skipped on Windows.
func NewFakeUV(t testing.TB) *FakeUV {
	t.Helper()
	if runtime.GOOS == platform.Windows {
		t.Skip("fake uv is a POSIX shell script")
	}
	f, err := InstallFakeUV(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return f
}

// Calls returns the argument lists of every recorded invocation, oldest
// first.
func (f *FakeUV) Calls(t testing.TB) [][]string {
	t.Helper()
	data, err := os.ReadFile(f.LogPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		t.Fatalf("read fake uv log: %v", err)
	}

	var calls [][]string
	for line := range strings.Lines(string(data)) {
		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\t")
		if line == "" {
			calls = append(calls, []string{})
			continue
		}
		calls = append(calls, strings.Split(line, "\t"))
	}
	return calls
}
