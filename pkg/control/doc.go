// Package control implements the form state manager: a Control owns one
// record of current values, default values, field errors, and validation
// rules, all addressed by dotted paths. Every operation is permissive:
// absent paths, absent rules, and absent values read as zero values or
// no-ops, never as failures.
//
// Reads made inside a reactive computation subscribe it to the record, so
// derived values such as IsDirty and IsValid recompute exactly when the
// record changes. Derivations are cached against a record revision rather
// than per path; forms are small and a single revision keeps the
// bookkeeping flat.
package control
