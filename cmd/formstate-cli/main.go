package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	formstate "github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/pkg/model"
	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formstate/pkg/tui"
)

//go:embed templates/form.html
var builtinTemplates embed.FS

func main() {
	specPath := flag.String("spec", "", "form definition file (YAML or JSON)")
	source := flag.String("source", "", "OpenAPI document path or URL")
	opID := flag.String("operation", "", "operation ID when deriving from OpenAPI")
	htmlOut := flag.String("html", "", "render a static HTML view to this file instead of prompting")
	templateDir := flag.String("templates", "", "template directory for -html (built-in layout if empty)")
	templateName := flag.String("template", "form", "template name used with -html")
	flag.Parse()

	ctx := context.Background()

	spec, err := loadSpec(ctx, *specPath, *source, *opID)
	if err != nil {
		log.Fatalf("Failed to load form definition: %v", err)
	}

	ctrl, err := spec.Control()
	if err != nil {
		log.Fatalf("Failed to build form state: %v", err)
	}

	if *htmlOut != "" {
		if err := writeHTML(ctrl, spec, *htmlOut, *templateDir, *templateName); err != nil {
			log.Fatalf("Failed to render form: %v", err)
		}
		fmt.Printf("Form written to %s\n", *htmlOut)
		return
	}

	session := tui.NewSession()
	values, err := session.Run(ctx, spec, ctrl)
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			os.Exit(130)
		}
		log.Fatalf("Failed to complete form: %v", err)
	}

	payload, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode values: %v", err)
	}
	fmt.Println(string(payload))
}

func loadSpec(ctx context.Context, specPath, source, operationID string) (model.FormSpec, error) {
	switch {
	case specPath != "":
		data, err := os.ReadFile(specPath)
		if err != nil {
			return model.FormSpec{}, err
		}
		return formstate.FormSpecFromYAML(data)
	case source != "":
		if operationID == "" {
			return model.FormSpec{}, errors.New("-operation is required with -source")
		}
		src := parseSource(source)
		if src == nil {
			return model.FormSpec{}, fmt.Errorf("invalid source: %q", source)
		}
		loader := formstate.NewLoader(pkgopenapi.WithHTTPFallback(30 * time.Second))
		return formstate.FormSpecFromOpenAPI(ctx, src, operationID, formstate.WithLoader(loader))
	default:
		return model.FormSpec{}, errors.New("either -spec or -source is required")
	}
}

func parseSource(raw string) pkgopenapi.Source {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return pkgopenapi.SourceFromURL(path)
	}
	return pkgopenapi.SourceFromFile(path)
}

func writeHTML(ctrl *formstate.Control, spec model.FormSpec, path, templateDir, templateName string) error {
	engine, err := newEngine(templateDir)
	if err != nil {
		return err
	}

	view, err := render.NewView(ctrl, spec,
		render.WithEngine(engine),
		render.WithTemplate(templateName),
	)
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	return view.RenderTo(out)
}

func newEngine(templateDir string) (*gotemplate.Engine, error) {
	if templateDir != "" {
		return gotemplate.New(gotemplate.WithBaseDir(templateDir))
	}

	sub, err := fs.Sub(builtinTemplates, "templates")
	if err != nil {
		return nil, err
	}
	return gotemplate.New(gotemplate.WithFS(sub))
}
