// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates documents against embedded CUE schemas.
//
// Both the project manifest (package.json) and the jsmod configuration file
// go through the same flow:
//
//  1. Compile the embedded schema
//  2. Compile the document and unify it with the schema definition
//  3. Validate and decode into a Go value
//
// JSON is a subset of CUE syntax, so JSON manifests compile unchanged.
//
//	//go:embed manifest_schema.cue
//	var manifestSchema []byte
//
//	result, err := cueutil.ParseAndDecode[Manifest](
//	    manifestSchema, data, "#Manifest",
//	    cueutil.WithFilename("package.json"),
//	)
package cueutil
