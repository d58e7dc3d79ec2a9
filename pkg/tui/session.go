// Package tui runs interactive terminal sessions over a form control: each
// field spec becomes a prompt, responses flow through field bindings, and the
// walk ends with a submit.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/binder"
	"github.com/goliatone/go-formstate/pkg/control"
	"github.com/goliatone/go-formstate/pkg/model"
)

// Option configures a Session.
type Option func(*Session)

// WithDriver overrides the prompt driver. The default talks to the terminal
// through survey.
func WithDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// Session prompts for form fields one at a time and collects the submitted
// record.
type Session struct {
	driver PromptDriver
}

// NewSession constructs a Session with defaults.
func NewSession(opts ...Option) *Session {
	s := &Session{driver: newSurveyDriver()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Run walks the spec's fields in order, prompting for each and re-prompting
// while a field holds validation errors, then submits the control. It
// returns the submitted values. Object-typed fields have no interactive
// representation and are skipped.
func (s *Session) Run(ctx context.Context, spec model.FormSpec, ctrl *control.Control) (map[string]any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if ctrl == nil {
		return nil, fmt.Errorf("tui: control is required")
	}

	if spec.Title != "" {
		if err := s.driver.Info(ctx, spec.Title); err != nil {
			return nil, err
		}
	}

	for _, field := range spec.Fields {
		if field.Type == model.FieldTypeObject {
			continue
		}
		if err := s.promptField(ctx, field, ctrl); err != nil {
			return nil, err
		}
	}

	var submitted map[string]any
	err := ctrl.Submit(ctx, func(_ context.Context, values map[string]any) error {
		submitted = values
		return nil
	}, control.OnInvalid(func(errs map[string][]string) {
		for path, msgs := range errs {
			_ = s.driver.Info(ctx, formatFieldErrors(path, msgs))
		}
	}))
	if err != nil {
		return nil, err
	}
	if submitted == nil {
		return nil, ErrInvalid
	}
	return submitted, nil
}

// promptField binds the field and loops prompt, change, blur, validate
// until the field is error-free. Rules stay registered after the binding
// closes so the final submit still sees them.
func (s *Session) promptField(ctx context.Context, field model.FieldSpec, ctrl *control.Control) error {
	binding := binder.Bind(ctrl, field.Path, binder.WithUnregisterRule(false))
	defer binding.Close()

	for {
		binding.OnFocus()

		value, err := s.promptValue(ctx, field, binding.Value())
		if err != nil {
			return err
		}

		binding.OnChange(value)
		binding.OnBlur()

		errs := ctrl.ValidateField(field.Path)
		if len(errs) == 0 {
			return nil
		}
		if err := s.driver.Info(ctx, formatFieldErrors(field.Path, errs)); err != nil {
			return err
		}
	}
}

// promptValue runs one prompt round and converts the response to the field's
// value type. Responses that cannot be converted re-prompt in place.
func (s *Session) promptValue(ctx context.Context, field model.FieldSpec, current any) (any, error) {
	message := promptMessage(field)

	switch {
	case field.Type == model.FieldTypeBoolean:
		def, _ := current.(bool)
		return s.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: def,
			Help:    field.Help,
		})

	case field.Type == model.FieldTypeArray && len(field.Enum) > 0:
		options := stringifyEnum(field.Enum)
		indices, err := s.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  options,
			Defaults: indicesOf(options, stringifySlice(current)),
			Help:     field.Help,
		})
		if err != nil {
			return nil, err
		}
		selected := make([]any, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(field.Enum) {
				selected = append(selected, field.Enum[idx])
			}
		}
		return selected, nil

	case len(field.Enum) > 0:
		options := stringifyEnum(field.Enum)
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: indexOf(options, fmt.Sprint(current)),
			Help:         field.Help,
		})
		if err != nil {
			return nil, err
		}
		if idx >= 0 && idx < len(field.Enum) {
			return field.Enum[idx], nil
		}
		return nil, nil

	case field.Secret:
		return s.driver.Password(ctx, InputConfig{
			Message: message,
			Help:    field.Help,
		})

	case field.Type == model.FieldTypeInteger || field.Type == model.FieldTypeNumber:
		return s.promptNumber(ctx, field, message, current)

	default:
		def := ""
		if current != nil {
			def = fmt.Sprint(current)
		}
		return s.driver.Input(ctx, InputConfig{
			Message:     message,
			Default:     def,
			Help:        field.Help,
			Placeholder: field.Placeholder,
		})
	}
}

func (s *Session) promptNumber(ctx context.Context, field model.FieldSpec, message string, current any) (any, error) {
	def := ""
	if current != nil {
		def = fmt.Sprint(current)
	}

	for {
		input, err := s.driver.Input(ctx, InputConfig{
			Message:     message,
			Default:     def,
			Help:        field.Help,
			Placeholder: field.Placeholder,
		})
		if err != nil {
			return nil, err
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			return nil, nil
		}

		if field.Type == model.FieldTypeInteger {
			parsed, err := strconv.ParseInt(trimmed, 10, 64)
			if err == nil {
				return parsed, nil
			}
		} else {
			parsed, err := strconv.ParseFloat(trimmed, 64)
			if err == nil {
				return parsed, nil
			}
		}
		if err := s.driver.Info(ctx, fmt.Sprintf("Invalid %s: expected %s", field.Path, field.Type)); err != nil {
			return nil, err
		}
	}
}

func promptMessage(field model.FieldSpec) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Path
}

func formatFieldErrors(path string, msgs []string) string {
	return fmt.Sprintf("Invalid %s: %s", path, strings.Join(msgs, " "))
}

func stringifyEnum(values []any) []string {
	out := make([]string, len(values))
	for i, value := range values {
		out[i] = fmt.Sprint(value)
	}
	return out
}

func stringifySlice(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = fmt.Sprint(item)
	}
	return out
}
