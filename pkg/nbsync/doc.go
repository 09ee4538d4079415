// SPDX-License-Identifier: MPL-2.0

// Package nbsync keeps the metadata cell of a notebook in step with an
// external editor of the inline metadata block, usually uv.
//
// The block body is handed out and taken back as opaque text. Nothing here
// decodes it, so whatever layout the external tool writes is what ends up in
// the notebook.
package nbsync
