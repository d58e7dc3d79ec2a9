// Package parser implements the openapi.Parser contract on top of
// kin-openapi. Construction helpers live in the top-level formstate package.
package parser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
)

// requestMediaTypes lists the request body content types we know how to turn
// into form fields, in preference order.
var requestMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// Parser normalises OpenAPI documents into operation wrappers.
type Parser struct {
	options pkgopenapi.ParserOptions
}

// Ensure the implementation satisfies the public interface.
var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) pkgopenapi.Parser {
	return &Parser{options: options}
}

// Operations parses the document and returns its operations keyed by
// operationId. Operations without an id are keyed "method:path".
func (p *Parser) Operations(ctx context.Context, doc pkgopenapi.Document) (map[string]pkgopenapi.Operation, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.ResolveReferences,
	}

	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if p.options.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}

	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi parser: document does not contain any paths")
	}

	operations := make(map[string]pkgopenapi.Operation)
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		collectOperation(operations, "GET", path, item.Get)
		collectOperation(operations, "PUT", path, item.Put)
		collectOperation(operations, "POST", path, item.Post)
		collectOperation(operations, "DELETE", path, item.Delete)
		collectOperation(operations, "PATCH", path, item.Patch)
		collectOperation(operations, "HEAD", path, item.Head)
		collectOperation(operations, "OPTIONS", path, item.Options)
		collectOperation(operations, "TRACE", path, item.Trace)
	}

	if len(operations) == 0 {
		return nil, errors.New("openapi parser: no operations extracted")
	}
	return operations, nil
}

func collectOperation(target map[string]pkgopenapi.Operation, method, path string, operation *openapi3.Operation) {
	if operation == nil {
		return
	}
	id := operation.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	target[id] = pkgopenapi.Operation{
		ID:          id,
		Method:      method,
		Path:        path,
		Summary:     operation.Summary,
		Description: operation.Description,
		Request:     extractRequestSchema(operation.RequestBody),
	}
}

func extractRequestSchema(requestBody *openapi3.RequestBodyRef) pkgopenapi.Schema {
	if requestBody == nil {
		return pkgopenapi.Schema{}
	}
	if requestBody.Value == nil {
		return pkgopenapi.Schema{Ref: requestBody.Ref}
	}

	content := requestBody.Value.Content
	for _, mediaType := range requestMediaTypes {
		if mt, ok := content[mediaType]; ok {
			return convertSchema(mt.Schema, nil)
		}
	}

	// Fall back to the lexicographically first media type so documents with
	// exotic content types still yield a schema deterministically.
	names := make([]string, 0, len(content))
	for name := range content {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		return convertSchema(content[name].Schema, nil)
	}
	return pkgopenapi.Schema{}
}

// convertSchema reduces a kin-openapi schema to the subset form derivation
// needs. The seen set tracks schemas already on the walk stack; revisiting
// one means the document is self-referential, and the revisit collapses to a
// bare reference instead of recursing forever.
func convertSchema(ref *openapi3.SchemaRef, seen map[*openapi3.Schema]bool) pkgopenapi.Schema {
	if ref == nil {
		return pkgopenapi.Schema{}
	}
	if ref.Value == nil {
		return pkgopenapi.Schema{Ref: ref.Ref}
	}
	src := ref.Value
	if seen[src] {
		return pkgopenapi.Schema{Ref: ref.Ref}
	}
	if seen == nil {
		seen = make(map[*openapi3.Schema]bool)
	}
	seen[src] = true
	defer delete(seen, src)

	schema := pkgopenapi.Schema{
		Ref:         ref.Ref,
		Type:        firstSchemaType(src.Type),
		Format:      src.Format,
		Description: src.Description,
		Default:     src.Default,
	}

	if len(src.Required) > 0 {
		schema.Required = append([]string(nil), src.Required...)
	}
	if len(src.Enum) > 0 {
		schema.Enum = append([]any(nil), src.Enum...)
	}
	if len(src.Properties) > 0 {
		schema.Properties = make(map[string]pkgopenapi.Schema, len(src.Properties))
		for name, property := range src.Properties {
			schema.Properties[name] = convertSchema(property, seen)
		}
	}
	if src.Items != nil {
		items := convertSchema(src.Items, seen)
		schema.Items = &items
	}
	if src.MinLength != 0 {
		value := int(src.MinLength)
		schema.MinLength = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		schema.MaxLength = &value
	}
	schema.Pattern = src.Pattern

	for _, branch := range src.AllOf {
		mergeSchema(&schema, convertSchema(branch, seen))
	}
	return schema
}

// mergeSchema folds an allOf branch into the composed schema. Properties and
// required lists union; scalar attributes fill gaps without overriding what
// the parent already declares.
func mergeSchema(target *pkgopenapi.Schema, branch pkgopenapi.Schema) {
	if target.Type == "" {
		target.Type = branch.Type
	}
	if target.Format == "" {
		target.Format = branch.Format
	}
	if target.Description == "" {
		target.Description = branch.Description
	}
	if target.Default == nil {
		target.Default = branch.Default
	}
	if len(target.Enum) == 0 && len(branch.Enum) > 0 {
		target.Enum = append([]any(nil), branch.Enum...)
	}
	if target.Pattern == "" {
		target.Pattern = branch.Pattern
	}
	if target.MinLength == nil && branch.MinLength != nil {
		value := *branch.MinLength
		target.MinLength = &value
	}
	if target.MaxLength == nil && branch.MaxLength != nil {
		value := *branch.MaxLength
		target.MaxLength = &value
	}

	if len(branch.Properties) > 0 {
		if target.Properties == nil {
			target.Properties = make(map[string]pkgopenapi.Schema, len(branch.Properties))
		}
		for name, property := range branch.Properties {
			if _, exists := target.Properties[name]; !exists {
				target.Properties[name] = property
			}
		}
	}
	if len(branch.Required) > 0 {
		present := make(map[string]struct{}, len(target.Required))
		for _, name := range target.Required {
			present[name] = struct{}{}
		}
		for _, name := range branch.Required {
			if _, ok := present[name]; !ok {
				target.Required = append(target.Required, name)
			}
		}
	}
	if target.Items == nil && branch.Items != nil {
		items := branch.Items.Clone()
		target.Items = &items
	}
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
