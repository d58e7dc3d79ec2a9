package model

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formstate/pkg/control"
	"github.com/goliatone/go-formstate/pkg/paths"
	"github.com/goliatone/go-formstate/pkg/rules"
)

// Defaults assembles the default record from every field that declares a
// default value.
func (s FormSpec) Defaults() map[string]any {
	record := make(map[string]any)
	for _, field := range s.Fields {
		if field.Default == nil {
			continue
		}
		// Set only fails for empty paths, which normalization rejects.
		_ = paths.Set(record, field.Path, paths.Clone(field.Default))
	}
	return record
}

// Rules assembles the rule set from every field whose constraints amount to
// something.
func (s FormSpec) Rules() rules.Set {
	set := make(rules.Set)
	for _, field := range s.Fields {
		if rule := field.Rule(); !rule.Empty() {
			set[paths.Canonical(field.Path)] = rule
		}
	}
	return set
}

// Control builds a ready form state manager for the spec: defaults, rules,
// and revalidation mode all applied.
func (s FormSpec) Control() (*control.Control, error) {
	return control.New(
		control.WithDefaults(s.Defaults()),
		control.WithRules(s.Rules()),
		control.WithRevalidateMode(s.Revalidate),
	)
}

// Field looks a field up by path; bracket and dotted index forms match the
// same field.
func (s FormSpec) Field(path string) (FieldSpec, bool) {
	want := paths.Canonical(path)
	for _, field := range s.Fields {
		if paths.Canonical(field.Path) == want {
			return field, true
		}
	}
	return FieldSpec{}, false
}

// normalize trims and validates a parsed spec in place.
func (s *FormSpec) normalize() error {
	s.ID = strings.TrimSpace(s.ID)
	s.Title = strings.TrimSpace(s.Title)

	if s.Revalidate != "" {
		switch s.Revalidate {
		case control.RevalidateOnSubmit, control.RevalidateOnBlur,
			control.RevalidateOnChange, control.RevalidateAll:
		default:
			return fmt.Errorf("model: unknown revalidate mode %q", s.Revalidate)
		}
	}

	seen := make(map[string]int, len(s.Fields))
	for i := range s.Fields {
		field := &s.Fields[i]
		field.Path = strings.TrimSpace(field.Path)
		if field.Path == "" {
			return fmt.Errorf("model: field %d: path is required", i)
		}
		key := paths.Canonical(field.Path)
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("model: field %d: path %q already declared by field %d", i, field.Path, prev)
		}
		seen[key] = i

		if field.Type == "" {
			field.Type = FieldTypeString
		}
		if !field.Type.valid() {
			return fmt.Errorf("model: field %q: unknown type %q", field.Path, field.Type)
		}
	}
	return nil
}
