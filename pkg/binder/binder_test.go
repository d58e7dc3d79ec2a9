package binder_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/binder"
	"github.com/goliatone/go-formstate/pkg/control"
	"github.com/goliatone/go-formstate/pkg/reactive"
	"github.com/goliatone/go-formstate/pkg/rules"
)

func newControl(t *testing.T, opts ...control.Option) *control.Control {
	t.Helper()
	ctrl, err := control.New(opts...)
	if err != nil {
		t.Fatalf("new control: %v", err)
	}
	return ctrl
}

func TestBind_RegistersRule(t *testing.T) {
	ctrl := newControl(t)

	b := binder.Bind(ctrl, "email", binder.WithRule(&rules.Rule{Required: true}))
	defer b.Close()

	rule, ok := ctrl.RuleFor("email")
	if !ok || !rule.Required {
		t.Fatalf("expected required rule registered, got %+v ok=%v", rule, ok)
	}
}

func TestBind_NilRuleDoesNotClearExisting(t *testing.T) {
	ctrl := newControl(t)
	ctrl.SetRule("email", rules.Rule{Required: true})

	b := binder.Bind(ctrl, "email")
	defer b.Close()

	if _, ok := ctrl.RuleFor("email"); !ok {
		t.Fatal("binding without a rule must not clear the existing one")
	}
}

func TestOnChange_WritesThrough(t *testing.T) {
	ctrl := newControl(t, control.WithRevalidateMode(control.RevalidateOnChange))

	b := binder.Bind(ctrl, "email", binder.WithRule(&rules.Rule{Required: true}))
	defer b.Close()

	b.OnChange("")
	want := []string{rules.RequiredMessage}
	if diff := cmp.Diff(want, b.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	b.OnChange("kim@example.com")
	if b.HasErrors() {
		t.Fatalf("expected errors cleared, got %v", b.Errors())
	}
	if got := b.Value(); got != "kim@example.com" {
		t.Fatalf("value = %v", got)
	}
}

func TestOnFocus_ClearsErrors(t *testing.T) {
	ctrl := newControl(t)
	ctrl.SetErrors("email", []string{"stale"})

	b := binder.Bind(ctrl, "email")
	defer b.Close()

	b.OnFocus()
	if got := ctrl.ErrorsFor("email"); got != nil {
		t.Fatalf("expected focus to clear errors, got %v", got)
	}
}

func TestOnFocus_Disabled(t *testing.T) {
	ctrl := newControl(t)
	ctrl.SetErrors("email", []string{"stale"})

	b := binder.Bind(ctrl, "email", binder.WithClearErrorOnFocus(false))
	defer b.Close()

	b.OnFocus()
	if diff := cmp.Diff([]string{"stale"}, ctrl.ErrorsFor("email")); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestOnBlur_ValidatesPerMode(t *testing.T) {
	cases := []struct {
		name       string
		mode       control.RevalidateMode
		wantErrors bool
	}{
		{name: "onBlur validates", mode: control.RevalidateOnBlur, wantErrors: true},
		{name: "all validates", mode: control.RevalidateAll, wantErrors: true},
		{name: "onSubmit does not", mode: control.RevalidateOnSubmit, wantErrors: false},
		{name: "onChange does not", mode: control.RevalidateOnChange, wantErrors: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := newControl(t, control.WithRevalidateMode(tc.mode))
			b := binder.Bind(ctrl, "email", binder.WithRule(&rules.Rule{Required: true}))
			defer b.Close()

			b.OnBlur()

			if got := b.HasErrors(); got != tc.wantErrors {
				t.Fatalf("HasErrors after blur = %v, want %v", got, tc.wantErrors)
			}
		})
	}
}

func TestUpdateRule(t *testing.T) {
	ctrl := newControl(t)

	b := binder.Bind(ctrl, "email")
	defer b.Close()

	b.UpdateRule(&rules.Rule{Required: true})
	if _, ok := ctrl.RuleFor("email"); !ok {
		t.Fatal("expected rule registered via UpdateRule")
	}

	b.UpdateRule(nil)
	if _, ok := ctrl.RuleFor("email"); !ok {
		t.Fatal("nil UpdateRule must not clear the rule")
	}
}

func TestIsDirty_TracksPath(t *testing.T) {
	ctrl := newControl(t, control.WithDefaults(map[string]any{"name": "Kim"}))

	b := binder.Bind(ctrl, "name")
	defer b.Close()

	if b.IsDirty() {
		t.Fatal("fresh binding should not be dirty")
	}

	b.OnChange("Alex")
	if !b.IsDirty() {
		t.Fatal("changed value should be dirty")
	}

	b.OnChange("Kim")
	if b.IsDirty() {
		t.Fatal("restored default should not be dirty")
	}
}

func TestClose_Defaults(t *testing.T) {
	ctrl := newControl(t, control.WithDefaults(map[string]any{"email": "kim@example.com"}))

	b := binder.Bind(ctrl, "email", binder.WithRule(&rules.Rule{Required: true}))
	b.Close()
	b.Close() // idempotent

	// Default teardown clears the rule but keeps the value.
	if _, ok := ctrl.RuleFor("email"); ok {
		t.Fatal("expected rule cleared on close")
	}
	if got := ctrl.Value("email"); got != "kim@example.com" {
		t.Fatalf("expected value kept on close, got %v", got)
	}
}

func TestClose_UnregisterValueKeepRule(t *testing.T) {
	ctrl := newControl(t, control.WithDefaults(map[string]any{"email": "kim@example.com"}))

	b := binder.Bind(ctrl, "email",
		binder.WithRule(&rules.Rule{Required: true}),
		binder.WithUnregisterValue(true),
		binder.WithUnregisterRule(false),
	)
	b.Close()

	if got := ctrl.Value("email"); got != nil {
		t.Fatalf("expected value removed on close, got %v", got)
	}
	if _, ok := ctrl.RuleFor("email"); !ok {
		t.Fatal("expected rule kept on close")
	}
}

func TestBinding_ReactiveAccessors(t *testing.T) {
	ctrl := newControl(t, control.WithDefaults(map[string]any{"name": "Kim"}))

	b := binder.Bind(ctrl, "name")
	defer b.Close()

	var seen []any
	stop := reactive.Effect(func() reactive.Cleanup {
		seen = append(seen, b.Value())
		return nil
	})
	defer stop()

	b.OnChange("Alex")

	if len(seen) != 2 || seen[0] != "Kim" || seen[1] != "Alex" {
		t.Fatalf("effect observed %v, want [Kim Alex]", seen)
	}
}
