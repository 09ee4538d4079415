// SPDX-License-Identifier: MPL-2.0

// Package workflow implements the juv commands on top of the notebook,
// synchronizer and uv packages. Each operation validates its paths before
// doing any work, writes files atomically and returns errors as
// *issue.ActionableError values ready for the CLI to render.
package workflow
