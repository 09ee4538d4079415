// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"slices"
	"sync"
)

const (
	// SandboxNone indicates no sandbox environment detected.
	SandboxNone SandboxType = ""
	// SandboxFlatpak indicates a Flatpak sandbox environment.
	SandboxFlatpak SandboxType = "flatpak"
	// SandboxSnap indicates a Snap sandbox environment.
	SandboxSnap SandboxType = "snap"

	flatpakInfoPath = "/.flatpak-info"
)

// detectOnce caches the sandbox detection for the lifetime of the process.
// detectSandboxFrom must not panic: sync.OnceValue re-panics on every call.
var detectOnce = sync.OnceValue(func() SandboxType {
	return detectSandboxFrom(os.Getenv, statFile)
})

// SandboxType identifies the type of application sandbox, if any.
type SandboxType string

// String returns the sandbox name, or "none".
func (st SandboxType) String() string {
	if st == SandboxNone {
		return "none"
	}
	return string(st)
}

// DetectSandbox returns the type of application sandbox the current process
// is running in. Flatpak is recognized by /.flatpak-info and Snap by
// SNAP_NAME. The result is cached after the first call.
func DetectSandbox() SandboxType {
	return detectOnce()
}

// HostCommand returns argv rewritten to run on the host when the process is
// sandboxed. Inside Flatpak, tools such as uv live outside the sandbox and
// are reached through flatpak-spawn --host.
func HostCommand(argv []string) []string {
	return HostCommandFor(DetectSandbox(), argv)
}

// HostCommandFor is HostCommand for an explicit sandbox type. argv is never
// modified.
func HostCommandFor(st SandboxType, argv []string) []string {
	switch st {
	case SandboxFlatpak:
		return append([]string{"flatpak-spawn", "--host"}, argv...)
	case SandboxNone, SandboxSnap:
		return slices.Clone(argv)
	default:
		return slices.Clone(argv)
	}
}

// detectSandboxFrom performs detection with injected lookups so tests need
// no process-wide state.
func detectSandboxFrom(lookupEnv func(string) string, statFile func(string) error) SandboxType {
	if err := statFile(flatpakInfoPath); err == nil {
		return SandboxFlatpak
	}
	if lookupEnv("SNAP_NAME") != "" {
		return SandboxSnap
	}
	return SandboxNone
}

func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}
