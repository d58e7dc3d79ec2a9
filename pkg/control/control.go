package control

import (
	"sync"

	"github.com/goliatone/go-formstate/pkg/paths"
	"github.com/goliatone/go-formstate/pkg/reactive"
	"github.com/goliatone/go-formstate/pkg/rules"
)

// Control is the form state manager. It owns a single record and exposes
// path-addressed accessors over it, plus derived reactive state. The zero
// value is not usable; construct with New.
type Control struct {
	mu  sync.Mutex
	rec *record

	rev        *reactive.Signal[uint64]
	submitting *reactive.Signal[bool]
	dirty      *reactive.Computed[bool]
	valid      *reactive.Computed[bool]
}

// New builds a Control from its options. The only failure mode is a
// WithDefaultsFrom value that cannot be converted to a record.
func New(opts ...Option) (*Control, error) {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.defaultsErr != nil {
		return nil, cfg.defaultsErr
	}

	c := &Control{
		rec:        newRecord(cfg.defaults, cfg.mode, cfg.rules),
		rev:        reactive.NewSignal(uint64(0)),
		submitting: reactive.NewSignal(false),
	}
	c.dirty = reactive.NewComputed(func() bool {
		c.rev.Get()
		c.mu.Lock()
		defer c.mu.Unlock()
		return !paths.Equal(c.rec.values, c.rec.defaults)
	})
	c.valid = reactive.NewComputed(func() bool {
		c.rev.Get()
		c.mu.Lock()
		defer c.mu.Unlock()
		for _, msgs := range c.rec.errors {
			if len(msgs) > 0 {
				return false
			}
		}
		return true
	})
	return c, nil
}

// touch bumps the record revision, waking every computation that read the
// record. Callers must not hold c.mu.
func (c *Control) touch() {
	c.rev.Update(func(n uint64) uint64 { return n + 1 })
}

// Mode returns the revalidation mode the record was built with.
func (c *Control) Mode() RevalidateMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rec.mode
}

// Value reads the value at a path, nil when absent. Containers come back as
// deep copies so callers cannot mutate the record behind its revision.
func (c *Control) Value(path string) any {
	c.rev.Get()
	c.mu.Lock()
	defer c.mu.Unlock()
	value, _ := paths.Get(c.rec.values, path)
	return paths.Clone(value)
}

// Values returns a deep-copied snapshot of the current record.
func (c *Control) Values() map[string]any {
	c.rev.Get()
	c.mu.Lock()
	defer c.mu.Unlock()
	return paths.CloneRecord(c.rec.values)
}

// SetValue writes a value at a path, creating intermediate containers as
// needed. Under RevalidateOnChange or RevalidateAll the path revalidates
// immediately unless SkipValidation is passed.
func (c *Control) SetValue(path string, value any, opts ...SetOption) {
	cfg := applySetOptions(opts)

	c.mu.Lock()
	if err := paths.Set(c.rec.values, path, paths.Clone(value)); err != nil {
		c.mu.Unlock()
		return
	}
	mode := c.rec.mode
	c.mu.Unlock()

	if !cfg.skipValidation && mode.AppliesOnChange() {
		c.storeValidation(path, c.evaluate(path))
	}
	c.touch()
}

// UpdateValue is the updater form of SetValue: update receives the current
// value at the path (nil when absent) and returns the value to store.
func (c *Control) UpdateValue(path string, update func(prev any) any, opts ...SetOption) {
	if update == nil {
		return
	}
	c.mu.Lock()
	prev, _ := paths.Get(c.rec.values, path)
	prev = paths.Clone(prev)
	c.mu.Unlock()

	c.SetValue(path, update(prev), opts...)
}

// ErrorsFor returns the error messages stored for a path, nil when none.
func (c *Control) ErrorsFor(path string) []string {
	c.rev.Get()
	c.mu.Lock()
	defer c.mu.Unlock()
	msgs, ok := c.rec.errors[paths.Canonical(path)]
	if !ok {
		return nil
	}
	return append([]string(nil), msgs...)
}

// Errors returns a copy of the whole error map.
func (c *Control) Errors() map[string][]string {
	c.rev.Get()
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneErrors(c.rec.errors)
}

// SetErrors stores messages for a path, replacing whatever was there.
func (c *Control) SetErrors(path string, msgs []string) {
	c.mu.Lock()
	c.rec.errors[paths.Canonical(path)] = append([]string(nil), msgs...)
	c.mu.Unlock()
	c.touch()
}

// ClearErrors removes the error entry for a path entirely.
func (c *Control) ClearErrors(path string) {
	c.mu.Lock()
	delete(c.rec.errors, paths.Canonical(path))
	c.mu.Unlock()
	c.touch()
}

// ReplaceErrors swaps the whole error map. Paths not present in the new map
// lose their errors.
func (c *Control) ReplaceErrors(errs map[string][]string) {
	next := make(map[string][]string, len(errs))
	for path, msgs := range errs {
		next[paths.Canonical(path)] = append([]string(nil), msgs...)
	}
	c.mu.Lock()
	c.rec.errors = next
	c.mu.Unlock()
	c.touch()
}

// RuleFor returns the rule registered for a path.
func (c *Control) RuleFor(path string) (rules.Rule, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rule, ok := c.rec.rules[paths.Canonical(path)]
	return rule, ok
}

// SetRule registers a rule for a path, replacing any existing one.
func (c *Control) SetRule(path string, rule rules.Rule) {
	c.mu.Lock()
	c.rec.rules[paths.Canonical(path)] = rule
	c.mu.Unlock()
	c.touch()
}

// ClearRule removes the rule for a path.
func (c *Control) ClearRule(path string) {
	c.mu.Lock()
	delete(c.rec.rules, paths.Canonical(path))
	c.mu.Unlock()
	c.touch()
}

// ReplaceRules swaps the whole rule set.
func (c *Control) ReplaceRules(set rules.Set) {
	next := make(rules.Set, len(set))
	for path, rule := range set {
		next[paths.Canonical(path)] = rule
	}
	c.mu.Lock()
	c.rec.rules = next
	c.mu.Unlock()
	c.touch()
}

// Rules returns a copy of the rule set.
func (c *Control) Rules() rules.Set {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rec.rules.Clone()
}

// ValidateField validates one path against its rule and the current record,
// stores the outcome, and returns the messages. A passing result removes
// the path's error entry. Paths without a rule always pass.
func (c *Control) ValidateField(path string) []string {
	msgs := c.storeValidation(path, c.evaluate(path))
	c.touch()
	return msgs
}

// evaluate runs the validator for a path against the current state without
// storing anything. The rule, value, and snapshot are copied out first so
// custom validators never run under the record lock.
func (c *Control) evaluate(path string) []string {
	key := paths.Canonical(path)

	c.mu.Lock()
	var rulePtr *rules.Rule
	if rule, ok := c.rec.rules[key]; ok {
		rulePtr = &rule
	}
	value, _ := paths.Get(c.rec.values, key)
	value = paths.Clone(value)
	snapshot := paths.CloneRecord(c.rec.values)
	c.mu.Unlock()

	return rules.Validate(value, rulePtr, snapshot)
}

// storeValidation records an evaluation outcome for a path: empty clears
// the entry, non-empty replaces it.
func (c *Control) storeValidation(path string, msgs []string) []string {
	key := paths.Canonical(path)
	c.mu.Lock()
	if len(msgs) == 0 {
		delete(c.rec.errors, key)
	} else {
		c.rec.errors[key] = append([]string(nil), msgs...)
	}
	c.mu.Unlock()
	if len(msgs) == 0 {
		return nil
	}
	return msgs
}

// DirtyAt reports whether the value at a path differs from its default,
// by deep equality.
func (c *Control) DirtyAt(path string) bool {
	c.rev.Get()
	c.mu.Lock()
	defer c.mu.Unlock()
	current, _ := paths.Get(c.rec.values, path)
	initial, _ := paths.Get(c.rec.defaults, path)
	return !paths.Equal(current, initial)
}

// Unregister removes the value entry at a path. Rules and errors have their
// own lifecycles and are only removed by their own clear operations.
func (c *Control) Unregister(path string) {
	c.mu.Lock()
	paths.Delete(c.rec.values, path)
	c.mu.Unlock()
	c.touch()
}

// Reset discards the record and builds a fresh one: newDefaults becomes
// both the default and current values, the rule set carries forward, and
// all errors clear. A nil newDefaults reuses the previous defaults.
func (c *Control) Reset(newDefaults map[string]any) {
	c.mu.Lock()
	defaults := newDefaults
	if defaults == nil {
		defaults = c.rec.defaults
	}
	c.rec = newRecord(defaults, c.rec.mode, c.rec.rules)
	c.mu.Unlock()
	c.touch()
}

// IsDirty reports whether the current values differ from the defaults
// anywhere in the record.
func (c *Control) IsDirty() bool {
	return c.dirty.Get()
}

// IsValid reports whether no path currently holds a non-empty error list.
func (c *Control) IsValid() bool {
	return c.valid.Get()
}

// IsSubmitting reports whether a Submit is currently running its callback.
func (c *Control) IsSubmitting() bool {
	return c.submitting.Get()
}

// Subscribe invokes fn after every record change or submitting transition
// until cancel is called.
func (c *Control) Subscribe(fn func()) (cancel func()) {
	initial := true
	return reactive.Effect(func() reactive.Cleanup {
		c.rev.Get()
		c.submitting.Get()
		if initial {
			initial = false
			return nil
		}
		fn()
		return nil
	})
}
