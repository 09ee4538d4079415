// SPDX-License-Identifier: MPL-2.0

// Package config handles juv configuration using Viper with CUE as the file format.
//
// Configuration is loaded from $XDG_CONFIG_HOME/juv/config.cue on Linux
// (~/.config/juv), ~/Library/Application Support/juv/config.cue on macOS and
// %APPDATA%\juv\config.cue on Windows, falling back to ./config.cue. Every
// key can be overridden from the environment with the JUV_ prefix, for
// example JUV_UV_COMMAND or JUV_NOTEBOOK_INDENT.
//
// Files are validated against the embedded CUE schema (config_schema.cue)
// before they are merged into Viper.
package config
