// Package core defines the shared language of the jsonsql system.
//
// This package contains:
//   - Generation options threaded through schema synthesis and insert emission
//   - The error taxonomy (MalformedInputError, UnsupportedTypeError)
//   - Dialect configuration data (DialectConfig)
//   - Database target configuration (TargetConfig, AdapterConfig)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
