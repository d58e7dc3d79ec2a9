// Package model defines the declarative form description consumed by the
// terminal session, the HTML view, and the OpenAPI deriver: a FormSpec is a
// list of FieldSpecs keyed by dotted path, each carrying presentation hints
// and the validation constraints that become a rules.Rule. Specs assemble
// their own default record and rule set and can build a ready Control.
// ParseYAML decodes the YAML definition format; JSON documents parse through
// it unchanged.
package model
