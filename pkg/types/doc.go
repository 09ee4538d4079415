// SPDX-License-Identifier: MPL-2.0

// Package types defines small validated value types shared by the juv
// packages and the CLI: process exit codes, filesystem paths and the Python
// version request passed to uv.
//
// This package is a leaf dependency: it imports only the standard library.
package types
