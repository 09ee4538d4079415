// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities: OS name
// constants, Windows reserved file names, and detection of Flatpak or Snap
// sandboxes so external tools can be started on the host.
package platform
