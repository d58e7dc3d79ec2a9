package rules

import (
	"fmt"
	"regexp"
	"sync"
	"unicode/utf8"
)

const (
	// RequiredMessage is reported when a required field holds an empty value.
	RequiredMessage = "Field is required!"
	// PatternMessage is reported when a value does not match a rule's pattern.
	PatternMessage = "The field did not match the expected pattern!"

	maxLengthFormat = "The field may not be longer than %d characters!"
	minLengthFormat = "The field may not be shorter than %d characters!"
)

// MaxLengthMessage returns the message reported when a value runs past limit
// characters.
func MaxLengthMessage(limit int) string {
	return fmt.Sprintf(maxLengthFormat, limit)
}

// MinLengthMessage returns the message reported when a value falls short of
// limit characters.
func MinLengthMessage(limit int) string {
	return fmt.Sprintf(minLengthFormat, limit)
}

// Rule describes the constraints attached to one field path. The zero value
// carries no constraint. Length checks and the pattern apply to the value's
// string form; Validate, when set, replaces every built-in check.
type Rule struct {
	Required  bool
	MinLength *int
	MaxLength *int
	Pattern   string
	Validate  func(value any, snapshot map[string]any) []string
}

// Empty reports whether the rule constrains nothing.
func (r Rule) Empty() bool {
	return !r.Required && r.MinLength == nil && r.MaxLength == nil &&
		r.Pattern == "" && r.Validate == nil
}

// Set maps field paths to their rules. An absent entry means the path
// carries no constraint.
type Set map[string]Rule

// Clone returns a copy of the set. Rules are value types and treated as
// immutable, so entries are copied as-is.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for path, rule := range s {
		out[path] = rule
	}
	return out
}

// Validate applies a rule to a value and returns the failure messages in a
// fixed order, nil when the value passes or no rule applies.
//
// A non-nil rule.Validate runs instead of the built-in checks and its result
// is returned verbatim. Otherwise the value's string form is measured: an
// empty required value short-circuits to RequiredMessage alone, then the
// max-length, min-length, and pattern checks each append their message when
// they fail.
func Validate(value any, rule *Rule, snapshot map[string]any) []string {
	if rule == nil {
		return nil
	}
	if rule.Validate != nil {
		return rule.Validate(value, snapshot)
	}

	form := stringForm(value)
	length := utf8.RuneCountInString(form)

	if rule.Required && length == 0 {
		return []string{RequiredMessage}
	}

	var msgs []string
	if rule.MaxLength != nil && length > *rule.MaxLength {
		msgs = append(msgs, MaxLengthMessage(*rule.MaxLength))
	}
	if rule.MinLength != nil && length < *rule.MinLength {
		msgs = append(msgs, MinLengthMessage(*rule.MinLength))
	}
	if rule.Pattern != "" && !matchPattern(rule.Pattern, form) {
		msgs = append(msgs, PatternMessage)
	}
	return msgs
}

// stringForm renders a value the way the length and pattern checks see it:
// nil reads as empty, everything else as its fmt representation.
func stringForm(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	default:
		return fmt.Sprint(typed)
	}
}

var patternCache = struct {
	sync.RWMutex
	compiled map[string]*regexp.Regexp
}{compiled: map[string]*regexp.Regexp{}}

// matchPattern compiles lazily and caches per pattern. A pattern that fails
// to compile is cached as nil and counts as a mismatch rather than a panic.
func matchPattern(pattern, value string) bool {
	patternCache.RLock()
	re, cached := patternCache.compiled[pattern]
	patternCache.RUnlock()

	if !cached {
		re, _ = regexp.Compile(pattern)
		patternCache.Lock()
		patternCache.compiled[pattern] = re
		patternCache.Unlock()
	}
	return re != nil && re.MatchString(value)
}
