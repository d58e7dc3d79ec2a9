package render_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formstate/pkg/testsupport"
)

func signupSpec() model.FormSpec {
	return model.FormSpec{
		ID:          "signup",
		Title:       "Sign Up",
		Description: "Create an account.",
		Fields: []model.FieldSpec{
			{
				Path:     "username",
				Type:     model.FieldTypeString,
				Label:    "Username",
				Default:  "anon",
				Required: true,
			},
			{
				Path:  "profile.bio",
				Type:  model.FieldTypeString,
				Label: "Bio",
				Help:  "Inline <b>markup</b> <script>alert(1)</script> allowed",
			},
		},
	}
}

func newViewEngine(t *testing.T, files fstest.MapFS) *gotemplate.Engine {
	t.Helper()

	if files == nil {
		files = fstest.MapFS{}
	}
	engine, err := gotemplate.New(gotemplate.WithFS(files))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestViewRenderInline(t *testing.T) {
	spec := signupSpec()
	ctrl := testsupport.MustControl(t, spec)
	ctrl.SetValue("username", "bob")

	view, err := render.NewView(ctrl, spec,
		render.WithEngine(newViewEngine(t, nil)),
		render.WithTemplate(`{% for field in fields %}<label>{{ field.label }}</label><input name="{{ field.path }}" value="{{ field.value }}">{% if field.isDirty %}<em>edited</em>{% endif %}<small>{{ field.help|safe }}</small>{% endfor %}`),
	)
	if err != nil {
		t.Fatalf("new view: %v", err)
	}

	out, err := view.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{
		`<label>Username</label>`,
		`name="username"`,
		`value="bob"`,
		`<b>markup</b>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "alert(1)") {
		t.Errorf("script content survived sanitization:\n%s", out)
	}
	if got := strings.Count(out, "<em>edited</em>"); got != 1 {
		t.Errorf("expected exactly one dirty marker, got %d:\n%s", got, out)
	}
}

func TestViewRenderFieldErrors(t *testing.T) {
	spec := signupSpec()
	ctrl := testsupport.MustControl(t, spec)
	ctrl.SetErrors("username", []string{"Username is taken."})

	view, err := render.NewView(ctrl, spec,
		render.WithEngine(newViewEngine(t, nil)),
		render.WithTemplate(`{% if not form.isValid %}<div class="form-invalid">{% endif %}{% for field in fields %}<div class="{{ field.errors|errclass:"field-error" }}">{% for msg in field.errors %}<p>{{ msg }}</p>{% endfor %}</div>{% endfor %}`),
	)
	if err != nil {
		t.Fatalf("new view: %v", err)
	}

	out, err := view.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if !strings.Contains(out, `class="form-invalid"`) {
		t.Errorf("expected invalid form marker:\n%s", out)
	}
	if !strings.Contains(out, `class="field-error"`) {
		t.Errorf("expected field error class:\n%s", out)
	}
	if !strings.Contains(out, "<p>Username is taken.</p>") {
		t.Errorf("expected error message:\n%s", out)
	}
	if !strings.Contains(out, `class=""`) {
		t.Errorf("expected clean field to carry empty class:\n%s", out)
	}
}

func TestViewRenderHiddenAndTheme(t *testing.T) {
	spec := signupSpec()
	ctrl := testsupport.MustControl(t, spec)

	selector := &stubThemeSelector{selection: &theme.Selection{
		Theme:   "acme",
		Variant: "dark",
		Manifest: &theme.Manifest{
			Name:    "acme",
			Version: "1.0.0",
			Tokens:  map[string]string{"brand": "#123456"},
			Variants: map[string]theme.Variant{
				"dark": {Tokens: map[string]string{"brand": "#654321"}},
			},
		},
	}}

	view, err := render.NewView(ctrl, spec,
		render.WithEngine(newViewEngine(t, nil)),
		render.WithTemplate(`{% for h in hidden %}<input type="hidden" name="{{ h.name }}" value="{{ h.value }}">{% endfor %}<style>{{ theme.cssVarsStyle|safe }}</style><p>{{ theme.name }}/{{ theme.variant }}</p>`),
		render.WithHiddenFields(
			render.VersionField("_v", 7),
			render.CSRFToken("_csrf", "tok-123"),
		),
		render.WithThemeSelection(selector, "acme", "dark"),
	)
	if err != nil {
		t.Fatalf("new view: %v", err)
	}

	out, err := view.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	wantHidden := `<input type="hidden" name="_csrf" value="tok-123"><input type="hidden" name="_v" value="7">`
	if !strings.Contains(out, wantHidden) {
		t.Errorf("expected sorted hidden inputs %q:\n%s", wantHidden, out)
	}
	if !strings.Contains(out, "--brand: #654321;") {
		t.Errorf("expected variant css var:\n%s", out)
	}
	if !strings.Contains(out, "<p>acme/dark</p>") {
		t.Errorf("expected theme identity:\n%s", out)
	}

	if len(selector.calls) != 1 {
		t.Fatalf("expected selector called once, got %d", len(selector.calls))
	}
	if selector.calls[0].name != "acme" || selector.calls[0].variant != "dark" {
		t.Fatalf("unexpected selector args: %+v", selector.calls[0])
	}
}

func TestViewWithFieldsFilters(t *testing.T) {
	spec := signupSpec()
	ctrl := testsupport.MustControl(t, spec)

	view, err := render.NewView(ctrl, spec,
		render.WithEngine(newViewEngine(t, nil)),
		render.WithTemplate(`{% for field in fields %}{{ field.path }};{% endfor %}`),
		render.WithFields("profile.bio"),
	)
	if err != nil {
		t.Fatalf("new view: %v", err)
	}

	out, err := view.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "profile.bio;" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestViewRenderToNamedTemplate(t *testing.T) {
	spec := signupSpec()
	ctrl := testsupport.MustControl(t, spec)

	files := fstest.MapFS{
		"form.html": &fstest.MapFile{
			Data: []byte(`<h1>{{ form.title }}</h1><p>{{ form.id }}</p>`),
		},
	}

	view, err := render.NewView(ctrl, spec,
		render.WithEngine(newViewEngine(t, files)),
		render.WithTemplate("form"),
	)
	if err != nil {
		t.Fatalf("new view: %v", err)
	}

	var buf bytes.Buffer
	if err := view.RenderTo(&buf); err != nil {
		t.Fatalf("render to: %v", err)
	}
	if got := buf.String(); got != "<h1>Sign Up</h1><p>signup</p>" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestViewWatchRendersOnChange(t *testing.T) {
	spec := signupSpec()
	ctrl := testsupport.MustControl(t, spec)

	view, err := render.NewView(ctrl, spec,
		render.WithEngine(newViewEngine(t, nil)),
		render.WithTemplate(`{{ form.values.username }}`),
	)
	if err != nil {
		t.Fatalf("new view: %v", err)
	}

	var got []string
	stop, err := view.Watch(func(markup string) {
		got = append(got, markup)
	})
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	ctrl.SetValue("username", "bob")
	if diff := cmp.Diff([]string{"anon", "bob"}, got); diff != "" {
		t.Fatalf("pushed markup mismatch (-want +got):\n%s", diff)
	}

	stop()
	ctrl.SetValue("username", "carol")
	if len(got) != 2 {
		t.Fatalf("expected no pushes after stop, got %d", len(got))
	}
}

func TestViewWatchRequiresSink(t *testing.T) {
	spec := signupSpec()
	ctrl := testsupport.MustControl(t, spec)

	view, err := render.NewView(ctrl, spec,
		render.WithEngine(newViewEngine(t, nil)),
		render.WithTemplate(`{{ form.id }}`),
	)
	if err != nil {
		t.Fatalf("new view: %v", err)
	}
	if _, err := view.Watch(nil); err == nil {
		t.Fatal("expected error for nil sink")
	}
}

func TestViewWatchReturnsInitialRenderError(t *testing.T) {
	spec := signupSpec()
	ctrl := testsupport.MustControl(t, spec)

	view, err := render.NewView(ctrl, spec,
		render.WithEngine(newViewEngine(t, nil)),
		render.WithTemplate("missing"),
	)
	if err != nil {
		t.Fatalf("new view: %v", err)
	}
	if _, err := view.Watch(func(string) {}); err == nil {
		t.Fatal("expected error for missing template")
	}
}

func TestNewViewValidation(t *testing.T) {
	spec := signupSpec()
	ctrl := testsupport.MustControl(t, spec)
	engine := newViewEngine(t, nil)

	if _, err := render.NewView(nil, spec,
		render.WithEngine(engine), render.WithTemplate("{{ form.id }}")); err == nil {
		t.Error("expected error for nil control")
	}
	if _, err := render.NewView(ctrl, spec,
		render.WithTemplate("{{ form.id }}")); err == nil {
		t.Error("expected error for missing engine")
	}
	if _, err := render.NewView(ctrl, spec,
		render.WithEngine(engine)); err == nil {
		t.Error("expected error for missing template")
	}

	selector := &stubThemeSelector{err: errors.New("no such theme")}
	_, err := render.NewView(ctrl, spec,
		render.WithEngine(engine),
		render.WithTemplate("{{ form.id }}"),
		render.WithThemeSelection(selector, "ghost", ""),
	)
	if err == nil || !strings.Contains(err.Error(), "select theme") {
		t.Errorf("expected theme selection error, got %v", err)
	}
}

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     []selectorCall
}

type selectorCall struct {
	name    string
	variant string
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, selectorCall{name: name, variant: variant})
	if s.err != nil {
		return nil, s.err
	}
	return s.selection, nil
}
