// SPDX-License-Identifier: MPL-2.0

// Package notebook models nbformat 4 notebook documents.
//
// Documents loaded from disk are carried through losslessly: cell types the
// package does not produce (markdown, raw), unknown cell keys, metadata and
// outputs are kept as they were read and written back in the same sorted-key
// layout nbformat uses. New notebooks are assembled from script segments by
// Build, with cell ids drawn from an explicit IDSource.
package notebook
