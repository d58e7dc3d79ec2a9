package control

import (
	"github.com/goliatone/go-formstate/pkg/paths"
	"github.com/goliatone/go-formstate/pkg/rules"
)

// RevalidateMode selects when a field revalidates automatically. Manual
// ValidateField calls and Submit always validate regardless of mode.
type RevalidateMode string

const (
	// RevalidateOnSubmit defers all automatic validation to Submit. Default.
	RevalidateOnSubmit RevalidateMode = "onSubmit"
	// RevalidateOnBlur revalidates a field when it reports losing focus.
	RevalidateOnBlur RevalidateMode = "onBlur"
	// RevalidateOnChange revalidates a field after each value write.
	RevalidateOnChange RevalidateMode = "onChange"
	// RevalidateAll combines the blur and change behaviors.
	RevalidateAll RevalidateMode = "all"
)

// AppliesOnChange reports whether the mode revalidates after a value write.
func (m RevalidateMode) AppliesOnChange() bool {
	return m == RevalidateOnChange || m == RevalidateAll
}

// AppliesOnBlur reports whether the mode revalidates when a field loses
// focus.
func (m RevalidateMode) AppliesOnBlur() bool {
	return m == RevalidateOnBlur || m == RevalidateAll
}

// record is the unit of state a Control owns. Reset swaps the whole record
// for a fresh one; everything else mutates it in place.
type record struct {
	defaults map[string]any
	values   map[string]any
	errors   map[string][]string
	rules    rules.Set
	mode     RevalidateMode
}

// newRecord builds a record from caller-supplied defaults. The defaults are
// deep-copied into both the default and current value maps so the two never
// alias each other or the caller's data. Rule keys normalize to canonical
// dotted form. No validation runs here.
func newRecord(defaults map[string]any, mode RevalidateMode, ruleSet rules.Set) *record {
	if mode == "" {
		mode = RevalidateOnSubmit
	}
	owned := make(rules.Set, len(ruleSet))
	for path, rule := range ruleSet {
		owned[paths.Canonical(path)] = rule
	}
	return &record{
		defaults: paths.CloneRecord(defaults),
		values:   paths.CloneRecord(defaults),
		errors:   make(map[string][]string),
		rules:    owned,
		mode:     mode,
	}
}

func cloneErrors(src map[string][]string) map[string][]string {
	out := make(map[string][]string, len(src))
	for path, msgs := range src {
		out[path] = append([]string(nil), msgs...)
	}
	return out
}
