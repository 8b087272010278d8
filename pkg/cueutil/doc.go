// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema
// definition and decodes them into Go values.
//
// A Schema is compiled once and reused:
//
//	//go:embed config_schema.cue
//	var src string
//
//	schema, err := cueutil.Compile(src, "#Config")
//	if err != nil {
//	    return err
//	}
//	values, err := cueutil.Decode[map[string]any](schema, data,
//	    cueutil.WithFilename("config.cue"))
//
// Errors carry the CUE path of the offending field, e.g.
// "config.cue: additional_mode: 3 not allowed".
package cueutil
