package template_test

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-formstate/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formstate/pkg/testsupport"
)

//go:embed testdata/templates
var embeddedTemplates embed.FS

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	data := map[string]any{
		"path":   "username",
		"label":  "Username",
		"value":  "ada",
		"errors": []string{"Username is taken."},
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("field", data, w)
	})

	goldenPath := filepath.Join("testdata", "field.golden")
	if testsupport.WriteMaybeGolden(t, goldenPath, []byte(result)) {
		return
	}

	want := testsupport.MustReadGoldenString(t, goldenPath)
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestGoTemplateEngine_RenderString(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderString(`{{ greeting|trim }}, {{ name }}`, map[string]any{
		"greeting": "  hello  ",
		"name":     "Ada",
	})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if result != "hello, Ada" {
		t.Fatalf("unexpected output: %q", result)
	}
}

func TestGoTemplateEngine_RenderDispatchesOnContent(t *testing.T) {
	engine := newEngine(t)

	inline, err := engine.Render(`{{ name }}`, map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render inline: %v", err)
	}
	if inline != "Ada" {
		t.Fatalf("unexpected inline output: %q", inline)
	}

	fromFile, err := engine.Render("field", map[string]any{
		"path":  "email",
		"label": "Email",
		"value": "",
	})
	if err != nil {
		t.Fatalf("render named: %v", err)
	}
	if !strings.Contains(fromFile, `name="email"`) {
		t.Fatalf("expected named template output, got: %q", fromFile)
	}
}

func TestGoTemplateEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"app": map[string]any{"name": "formstate", "env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-global", nil, w)
	})

	goldenPath := filepath.Join("testdata", "use-global.golden")
	if testsupport.WriteMaybeGolden(t, goldenPath, []byte(result)) {
		return
	}

	want := testsupport.MustReadGoldenString(t, goldenPath)
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"}, w)
	})

	goldenPath := filepath.Join("testdata", "use-filter.golden")
	if testsupport.WriteMaybeGolden(t, goldenPath, []byte(result)) {
		return
	}

	want := testsupport.MustReadGoldenString(t, goldenPath)
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestGoTemplateEngine_CustomExtension(t *testing.T) {
	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(
		gotemplate.WithFS(templatesFS),
		gotemplate.WithExtension("tpl"),
		gotemplate.WithGlobalData(map[string]any{"suffix": "!"}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	result, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	if strings.TrimSpace(result) != "Hello Ada!" {
		t.Fatalf("unexpected output: %q", result)
	}
}

func TestGoTemplateEngine_RequiresTemplateSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatal("expected error when no template source is configured")
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
