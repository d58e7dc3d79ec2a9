// Package openapi exposes the public contracts for deriving form specs from
// OpenAPI 3 documents: sources, the document wrapper, and the loader and
// parser interfaces. Implementations live under internal/openapi so the
// kin-openapi dependency stays hidden from consumers; construction helpers
// live in the top-level formstate package to prevent import cycles.
package openapi
