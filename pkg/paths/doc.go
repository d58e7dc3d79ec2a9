// Package paths implements dotted-path addressing over record values: parsing
// and normalising path strings, permissive deep get/set/delete, deep copy and
// equality, and reflect-based enumeration of the paths a Go type exposes.
//
// A record is a map[string]any whose nested containers are map[string]any and
// []any, the shape produced by encoding/json. Paths use dot-separated keys
// with numeric segments for sequence elements; bracket indices are accepted
// and normalise to the dotted form, so "items[0].name" and "items.0.name"
// address the same location.
package paths
