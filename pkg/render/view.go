package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formstate/pkg/control"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/paths"
	"github.com/goliatone/go-formstate/pkg/render/template"
)

// View renders a control's live state through a template engine. The
// template receives the form snapshot (values, errors, flags), the spec's
// fields enriched with per-field state, hidden fields, and the theme
// context when one is configured.
type View struct {
	ctrl       *control.Control
	spec       model.FormSpec
	engine     template.TemplateRenderer
	template   string
	hidden     []HiddenField
	themeCfg   *theme.RendererConfig
	pickTheme  func() (*theme.RendererConfig, error)
	only       map[string]struct{}
	formErrors []string
}

// Option configures a View.
type Option func(*View)

// WithEngine sets the template engine the view renders through.
func WithEngine(engine template.TemplateRenderer) Option {
	return func(v *View) {
		v.engine = engine
	}
}

// WithTemplate sets what the view renders: either a template name the
// engine resolves, or inline template content.
func WithTemplate(tpl string) Option {
	return func(v *View) {
		v.template = tpl
	}
}

// WithHiddenFields appends hidden fields (CSRF tokens, record versions) to
// the render context.
func WithHiddenFields(fields ...HiddenField) Option {
	return func(v *View) {
		v.hidden = append(v.hidden, fields...)
	}
}

// WithTheme attaches an already resolved theme configuration.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(v *View) {
		v.themeCfg = cfg
	}
}

// WithThemeSelection resolves a theme by name and variant through the
// selector. Selection runs inside NewView so failures surface there.
func WithThemeSelection(selector ThemeSelector, name, variant string, opts ...theme.QueryOption) Option {
	return func(v *View) {
		v.pickTheme = func() (*theme.RendererConfig, error) {
			if selector == nil {
				return nil, errors.New("render: theme selector is nil")
			}
			selection, err := selector.Select(name, variant, opts...)
			if err != nil {
				return nil, fmt.Errorf("render: select theme %q: %w", name, err)
			}
			return RendererConfigFromSelection(selection), nil
		}
	}
}

// WithFields restricts rendering to the named paths, keeping spec order.
func WithFields(fieldPaths ...string) Option {
	return func(v *View) {
		if len(fieldPaths) == 0 {
			return
		}
		if v.only == nil {
			v.only = make(map[string]struct{}, len(fieldPaths))
		}
		for _, p := range fieldPaths {
			v.only[paths.Canonical(p)] = struct{}{}
		}
	}
}

// WithFormErrors sets form-level messages that belong to no single field,
// such as the Form bucket of an ErrorMapping.
func WithFormErrors(msgs ...string) Option {
	return func(v *View) {
		v.formErrors = MergeFormErrors(v.formErrors, msgs...)
	}
}

// NewView wires a control and its spec to a template engine.
func NewView(ctrl *control.Control, spec model.FormSpec, opts ...Option) (*View, error) {
	v := &View{ctrl: ctrl, spec: spec}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}

	if v.ctrl == nil {
		return nil, errors.New("render: control is required")
	}
	if v.engine == nil {
		return nil, errors.New("render: template engine is required")
	}
	if strings.TrimSpace(v.template) == "" {
		return nil, errors.New("render: template is required")
	}

	if v.pickTheme != nil {
		cfg, err := v.pickTheme()
		if err != nil {
			return nil, err
		}
		v.themeCfg = cfg
	}

	return v, nil
}

// Render evaluates the template against the control's current state.
func (v *View) Render() (string, error) {
	return v.engine.Render(v.template, v.context())
}

// RenderTo renders the current state into w.
func (v *View) RenderTo(w io.Writer) error {
	if w == nil {
		return errors.New("render: writer is required")
	}
	_, err := v.engine.Render(v.template, v.context(), w)
	return err
}

// Watch renders once, pushes the markup to sink, then re-renders on every
// record change until the returned stop function runs. The initial render
// error is returned; later render failures skip that push rather than
// killing the stream.
func (v *View) Watch(sink func(markup string)) (stop func(), err error) {
	if sink == nil {
		return nil, errors.New("render: watch sink is required")
	}

	initial, err := v.Render()
	if err != nil {
		return nil, err
	}
	sink(initial)

	cancel := v.ctrl.Subscribe(func() {
		markup, renderErr := v.Render()
		if renderErr != nil {
			return
		}
		sink(markup)
	})
	return cancel, nil
}

func (v *View) context() map[string]any {
	ctx := map[string]any{
		"form":   v.formContext(),
		"fields": v.fieldContexts(),
		"hidden": hiddenContext(sortedHiddenFields(v.hidden)),
	}
	if v.themeCfg != nil {
		ctx["theme"] = themeViewContext(v.themeCfg)
	}
	return ctx
}

func (v *View) formContext() map[string]any {
	return map[string]any{
		"id":           v.spec.ID,
		"title":        v.spec.Title,
		"description":  v.spec.Description,
		"values":       v.ctrl.Values(),
		"errors":       v.ctrl.Errors(),
		"formErrors":   v.formErrors,
		"isDirty":      v.ctrl.IsDirty(),
		"isValid":      v.ctrl.IsValid(),
		"isSubmitting": v.ctrl.IsSubmitting(),
	}
}

func (v *View) fieldContexts() []map[string]any {
	out := make([]map[string]any, 0, len(v.spec.Fields))
	for _, field := range v.spec.Fields {
		if !v.includes(field.Path) {
			continue
		}
		errs := v.ctrl.ErrorsFor(field.Path)
		out = append(out, map[string]any{
			"path":        field.Path,
			"type":        string(field.Type),
			"label":       sanitizeMarkup(field.Label),
			"help":        sanitizeMarkup(field.Help),
			"placeholder": field.Placeholder,
			"secret":      field.Secret,
			"required":    field.Required,
			"enum":        field.Enum,
			"value":       v.ctrl.Value(field.Path),
			"errors":      errs,
			"hasErrors":   len(errs) > 0,
			"isDirty":     v.ctrl.DirtyAt(field.Path),
		})
	}
	return out
}

func (v *View) includes(path string) bool {
	if len(v.only) == 0 {
		return true
	}
	_, ok := v.only[paths.Canonical(path)]
	return ok
}

func hiddenContext(fields []HiddenField) []map[string]any {
	out := make([]map[string]any, 0, len(fields))
	for _, field := range fields {
		out = append(out, map[string]any{
			"name":  field.Name,
			"value": field.Value,
		})
	}
	return out
}
