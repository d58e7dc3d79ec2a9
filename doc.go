// Package formstate manages form state over deep, path-addressed records:
// values, defaults, dirty tracking, validation rules with stable messages,
// and submit orchestration, all observable through a small reactive core.
//
// The root package re-exports the everyday surface. Construct a manager
// with New (or from a parsed FormSpec), attach per-field handles with Bind,
// and derive definitions from YAML documents or OpenAPI operations with
// FormSpecFromYAML and FormSpecFromOpenAPI. Rendering lives in pkg/render
// (HTML through templates) and pkg/tui (interactive prompt sessions).
package formstate
