// Package schemas embeds the JSON Schemas used to validate profile and pool
// input files before analysis.
package schemas

import _ "embed"

// ProfileSchemaJSON is the JSON Schema for single-record profile files.
//
//go:embed profile.schema.json
var ProfileSchemaJSON string

// PoolSchemaJSON is the JSON Schema for structured candidate pool files.
//
//go:embed pool.schema.json
var PoolSchemaJSON string
