package control

import (
	"github.com/goliatone/go-formstate/pkg/paths"
	"github.com/goliatone/go-formstate/pkg/rules"
)

type config struct {
	defaults    map[string]any
	defaultsErr error
	rules       rules.Set
	mode        RevalidateMode
}

// Option configures a Control at construction.
type Option func(*config)

// WithDefaults seeds the record from a map. The map is deep-copied.
func WithDefaults(defaults map[string]any) Option {
	return func(cfg *config) {
		cfg.defaults = defaults
	}
}

// WithDefaultsFrom seeds the record from a typed value, usually a struct,
// converted the way encoding/json would shape it. Conversion failures
// surface from New.
func WithDefaultsFrom(defaults any) Option {
	return func(cfg *config) {
		record, err := paths.RecordFrom(defaults)
		if err != nil {
			cfg.defaultsErr = err
			return
		}
		cfg.defaults = record
	}
}

// WithRules seeds the rule set. Keys may use either bracket or dotted index
// form.
func WithRules(set rules.Set) Option {
	return func(cfg *config) {
		cfg.rules = set
	}
}

// WithRevalidateMode selects the automatic revalidation behavior. The zero
// value means RevalidateOnSubmit.
func WithRevalidateMode(mode RevalidateMode) Option {
	return func(cfg *config) {
		cfg.mode = mode
	}
}

type setConfig struct {
	skipValidation bool
}

// SetOption adjusts a single SetValue or UpdateValue call.
type SetOption func(*setConfig)

// SkipValidation suppresses the automatic revalidation a write would
// otherwise trigger under RevalidateOnChange or RevalidateAll.
func SkipValidation() SetOption {
	return func(cfg *setConfig) {
		cfg.skipValidation = true
	}
}

func applySetOptions(opts []SetOption) setConfig {
	var cfg setConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

type submitConfig struct {
	onInvalid InvalidFunc
}

// SubmitOption adjusts a single Submit call.
type SubmitOption func(*submitConfig)

// OnInvalid registers the callback that receives the error map when
// validation blocks a submit.
func OnInvalid(fn InvalidFunc) SubmitOption {
	return func(cfg *submitConfig) {
		cfg.onInvalid = fn
	}
}

func applySubmitOptions(opts []SubmitOption) submitConfig {
	var cfg submitConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
