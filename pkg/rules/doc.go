// Package rules defines the validation rule attached to a field path and the
// pure Validate function that applies it. Messages are user-facing strings,
// never errors: a failing check appends its message, a passing value yields
// an empty list. Custom validators receive the full record snapshot so
// cross-field checks can read sibling values.
package rules
