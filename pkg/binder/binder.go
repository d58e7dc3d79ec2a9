package binder

import (
	"sync"

	"github.com/goliatone/go-formstate/pkg/control"
	"github.com/goliatone/go-formstate/pkg/reactive"
	"github.com/goliatone/go-formstate/pkg/rules"
)

type config struct {
	rule              *rules.Rule
	unregisterValue   bool
	unregisterRule    bool
	clearErrorOnFocus bool
}

func defaultConfig() config {
	// Stale rules keep re-firing validation during teardown churn; stale
	// values are harmless until something reads them. Hence the asymmetry.
	return config{
		unregisterRule:    true,
		clearErrorOnFocus: true,
	}
}

// Option configures a Binding at creation.
type Option func(*config)

// WithRule registers a rule for the bound path when the binding is created.
// A nil rule registers nothing; it does not clear an existing rule.
func WithRule(rule *rules.Rule) Option {
	return func(cfg *config) {
		cfg.rule = rule
	}
}

// WithUnregisterValue controls whether Close removes the path's value entry.
// Default false.
func WithUnregisterValue(unregister bool) Option {
	return func(cfg *config) {
		cfg.unregisterValue = unregister
	}
}

// WithUnregisterRule controls whether Close clears the path's rule.
// Default true.
func WithUnregisterRule(unregister bool) Option {
	return func(cfg *config) {
		cfg.unregisterRule = unregister
	}
}

// WithClearErrorOnFocus controls whether OnFocus clears the path's error
// entry. Default true.
func WithClearErrorOnFocus(clear bool) Option {
	return func(cfg *config) {
		cfg.clearErrorOnFocus = clear
	}
}

// Binding ties one field path to a Control for the lifetime of a rendered
// input.
type Binding struct {
	ctrl *control.Control
	path string
	cfg  config

	value  *reactive.Computed[any]
	errors *reactive.Computed[[]string]
	dirty  *reactive.Computed[bool]

	closeOnce sync.Once
}

// Bind creates a binding for path on ctrl, registering the WithRule rule if
// one was supplied.
func Bind(ctrl *control.Control, path string, opts ...Option) *Binding {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	b := &Binding{ctrl: ctrl, path: path, cfg: cfg}
	b.value = reactive.NewComputed(func() any {
		return ctrl.Value(path)
	})
	b.errors = reactive.NewComputed(func() []string {
		return ctrl.ErrorsFor(path)
	})
	b.dirty = reactive.NewComputed(func() bool {
		return ctrl.DirtyAt(path)
	})

	if cfg.rule != nil {
		ctrl.SetRule(path, *cfg.rule)
	}
	return b
}

// Path returns the bound path.
func (b *Binding) Path() string {
	return b.path
}

// Control returns the Control the binding writes to.
func (b *Binding) Control() *control.Control {
	return b.ctrl
}

// OnChange writes a new value for the bound path, with the Control's usual
// revalidation behavior.
func (b *Binding) OnChange(value any, opts ...control.SetOption) {
	b.ctrl.SetValue(b.path, value, opts...)
}

// OnFocus clears the path's error entry, so a user returning to a field
// starts from a clean slate. Disabled by WithClearErrorOnFocus(false).
func (b *Binding) OnFocus() {
	if b.cfg.clearErrorOnFocus {
		b.ctrl.ClearErrors(b.path)
	}
}

// OnBlur revalidates the path when the Control's mode revalidates on blur.
func (b *Binding) OnBlur() {
	if b.ctrl.Mode().AppliesOnBlur() {
		b.ctrl.ValidateField(b.path)
	}
}

// UpdateRule re-registers the rule for the bound path. A nil rule is a
// no-op, mirroring WithRule.
func (b *Binding) UpdateRule(rule *rules.Rule) {
	if rule != nil {
		b.ctrl.SetRule(b.path, *rule)
	}
}

// Value returns the current value at the bound path, tracking the record
// when read inside a reactive computation.
func (b *Binding) Value() any {
	return b.value.Get()
}

// Errors returns the error messages stored for the bound path.
func (b *Binding) Errors() []string {
	return b.errors.Get()
}

// HasErrors reports whether the bound path holds any error message.
func (b *Binding) HasErrors() bool {
	return len(b.errors.Get()) > 0
}

// IsDirty reports whether the bound path's value differs from its default.
func (b *Binding) IsDirty() bool {
	return b.dirty.Get()
}

// Close tears the binding down: the rule is cleared unless
// WithUnregisterRule(false) was set, the value is removed only when
// WithUnregisterValue(true) was set. Idempotent.
func (b *Binding) Close() {
	b.closeOnce.Do(func() {
		if b.cfg.unregisterValue {
			b.ctrl.Unregister(b.path)
		}
		if b.cfg.unregisterRule {
			b.ctrl.ClearRule(b.path)
		}
	})
}
