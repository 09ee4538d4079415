// SPDX-License-Identifier: MPL-2.0

// Package pep723 reads and writes PEP 723 inline script metadata.
//
// A metadata block is a fenced comment region inside a script:
//
//	# /// script
//	# requires-python = ">=3.12"
//	# dependencies = [
//	#     "numpy",
//	# ]
//	# ///
//
// The package has two layers. The block grammar (FindBlock, Fence) locates
// the fenced region and converts between the commented form and the bare
// body text without interpreting it. The codec (Decode, Encode) turns a body
// into a Declaration and back, and returns the original body unchanged when
// the Declaration was not modified. Callers that only move metadata around
// should stay on the grammar layer so formatting produced by other tools is
// never rewritten.
package pep723
