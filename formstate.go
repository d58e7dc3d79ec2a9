package formstate

import (
	"context"
	"fmt"

	internalloader "github.com/goliatone/go-formstate/internal/openapi/loader"
	internalparser "github.com/goliatone/go-formstate/internal/openapi/parser"
	"github.com/goliatone/go-formstate/pkg/binder"
	"github.com/goliatone/go-formstate/pkg/control"
	"github.com/goliatone/go-formstate/pkg/model"
	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/rules"
)

// Control is the form state manager; aliased so common integrations only
// import the root package.
type Control = control.Control

// FormSpec is a whole form definition.
type FormSpec = model.FormSpec

// FieldSpec describes a single bindable field.
type FieldSpec = model.FieldSpec

// Rule holds one field's validation constraints.
type Rule = rules.Rule

// Rules maps record paths to validation rules.
type Rules = rules.Set

// Binding is the per-field handle produced by Bind.
type Binding = binder.Binding

// New builds a form state manager from its options.
func New(opts ...control.Option) (*control.Control, error) {
	return control.New(opts...)
}

// Bind attaches a field binding to a control at the given path.
func Bind(ctrl *control.Control, path string, opts ...binder.Option) *binder.Binding {
	return binder.Bind(ctrl, path, opts...)
}

// FormSpecFromYAML parses a YAML or JSON form definition document.
func FormSpecFromYAML(data []byte) (model.FormSpec, error) {
	return model.ParseYAML(data)
}

// NewLoader constructs an OpenAPI document loader backed by the internal
// implementation while keeping the concrete type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	cfg := pkgopenapi.NewLoaderOptions(options...)
	return internalloader.New(cfg)
}

// NewParser constructs an OpenAPI parser backed by the internal
// implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	cfg := pkgopenapi.NewParserOptions(options...)
	return internalparser.New(cfg)
}

type specConfig struct {
	loader pkgopenapi.Loader
	parser pkgopenapi.Parser
	derive []pkgopenapi.DeriveOption
}

// SpecOption adjusts how FormSpecFromOpenAPI builds its pipeline.
type SpecOption func(*specConfig)

// WithLoader overrides the loader used to fetch the document.
func WithLoader(loader pkgopenapi.Loader) SpecOption {
	return func(cfg *specConfig) {
		cfg.loader = loader
	}
}

// WithParser overrides the parser used to extract operations.
func WithParser(parser pkgopenapi.Parser) SpecOption {
	return func(cfg *specConfig) {
		cfg.parser = parser
	}
}

// WithDeriveOptions forwards options to the schema-to-form derivation.
func WithDeriveOptions(opts ...pkgopenapi.DeriveOption) SpecOption {
	return func(cfg *specConfig) {
		cfg.derive = append(cfg.derive, opts...)
	}
}

// FormSpecFromOpenAPI loads an OpenAPI document, extracts the named
// operation, and derives a form definition from its request schema. It is
// the simplest entry point for callers starting from an API description.
func FormSpecFromOpenAPI(ctx context.Context, src pkgopenapi.Source, operationID string, opts ...SpecOption) (model.FormSpec, error) {
	var cfg specConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.loader == nil {
		cfg.loader = NewLoader()
	}
	if cfg.parser == nil {
		cfg.parser = NewParser()
	}

	doc, err := cfg.loader.Load(ctx, src)
	if err != nil {
		return model.FormSpec{}, err
	}

	operations, err := cfg.parser.Operations(ctx, doc)
	if err != nil {
		return model.FormSpec{}, err
	}

	op, ok := operations[operationID]
	if !ok {
		return model.FormSpec{}, fmt.Errorf("formstate: operation %q not found in %s", operationID, doc.Location())
	}
	return pkgopenapi.FormSpecFromOperation(op, cfg.derive...), nil
}
