// Package domain contains the core domain errors for framepack.
//
// This package represents the innermost layer of the architecture. It has
// no dependencies on infrastructure concerns (file system, compression,
// logging) and defines only the error conditions shared by the public API.
//
// Frame descriptors live in pkg/index and records in pkg/aggregate because
// both are part of the public library surface; this package holds what must
// stay private to the module.
package domain
