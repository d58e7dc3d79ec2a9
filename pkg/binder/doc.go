// Package binder connects one field path to a Control: a Binding registers
// the field's rule when created, exposes the change/focus/blur callbacks a
// host hands to its input widget, and serves reactive per-path accessors
// for the value, errors, and dirtiness. Close tears the binding down with
// asymmetric defaults: the rule is cleared, the value is kept.
package binder
