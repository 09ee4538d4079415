// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE validation utilities.
//
// DecodeMap runs the schema flow used for juv's configuration file:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with a schema definition
//  3. Validate and decode to a generic map
//
// Errors carry the offending field path in JSON-path notation.
//
// # Usage
//
//	//go:embed config_schema.cue
//	var schema string
//
//	values, err := cueutil.DecodeMap(schema, data, "#Config",
//	    cueutil.WithFilename(path))
//	if err != nil {
//	    return err // e.g. "config.cue: notebook.indent: invalid value 12"
//	}
package cueutil
