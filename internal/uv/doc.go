// SPDX-License-Identifier: MPL-2.0

// Package uv drives the uv executable: scaffolding new scripts with
// `uv init --script` and editing their dependencies with `uv add --script`.
//
// DependencyMutator plugs uv into the notebook synchronizer. It writes the
// metadata block to a temporary script beside the notebook, lets uv rewrite
// it, and hands back the new block body.
package uv
