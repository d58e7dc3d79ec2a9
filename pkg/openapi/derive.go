package openapi

import (
	"regexp"
	"sort"
	"strings"

	"github.com/goliatone/go-formstate/pkg/model"
)

// DeriveOptions configures FormSpecFromOperation.
type DeriveOptions struct {
	// Labeler turns a property name into a human-facing label. Defaults to
	// DefaultLabeler.
	Labeler func(name string) string
}

// DeriveOption mutates DeriveOptions.
type DeriveOption func(*DeriveOptions)

// WithLabeler overrides the label derivation function.
func WithLabeler(labeler func(string) string) DeriveOption {
	return func(o *DeriveOptions) {
		if labeler != nil {
			o.Labeler = labeler
		}
	}
}

// NewDeriveOptions builds DeriveOptions from the supplied functional options.
func NewDeriveOptions(opts ...DeriveOption) DeriveOptions {
	options := DeriveOptions{Labeler: DefaultLabeler}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	return options
}

// FormSpecFromOperation converts a parsed OpenAPI operation into a form
// specification. Object schemas flatten into dot-joined field paths, arrays
// contribute a single array-typed field, and scalar properties map onto the
// matching field types. Parent `required` lists, length bounds, and patterns
// become field constraints.
func FormSpecFromOperation(op Operation, opts ...DeriveOption) model.FormSpec {
	options := NewDeriveOptions(opts...)

	spec := model.FormSpec{
		ID:          op.ID,
		Title:       op.Summary,
		Description: op.Description,
	}
	if spec.Title == "" {
		spec.Title = options.Labeler(op.ID)
	}
	spec.Fields = fieldsFromSchema("", op.Request, false, options)
	return spec
}

func fieldsFromSchema(path string, schema Schema, required bool, options DeriveOptions) []model.FieldSpec {
	switch schema.Type {
	case "object", "":
		if len(schema.Properties) == 0 {
			if path == "" {
				return nil
			}
			// Opaque or unresolved object; surface it as a single field so
			// callers can still bind it.
			field := fieldFromScalar(path, schema, required, options)
			if schema.Type == "object" || schema.Ref != "" {
				field.Type = model.FieldTypeObject
			}
			return []model.FieldSpec{field}
		}
		return fieldsFromObject(path, schema, options)
	case "array":
		return []model.FieldSpec{fieldFromArray(path, schema, required, options)}
	default:
		return []model.FieldSpec{fieldFromScalar(path, schema, required, options)}
	}
}

func fieldsFromObject(path string, schema Schema, options DeriveOptions) []model.FieldSpec {
	requiredSet := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		requiredSet[name] = struct{}{}
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var fields []model.FieldSpec
	for _, name := range names {
		child := path
		if child == "" {
			child = name
		} else {
			child += "." + name
		}
		_, isRequired := requiredSet[name]
		fields = append(fields, fieldsFromSchema(child, schema.Properties[name], isRequired, options)...)
	}
	return fields
}

func fieldFromArray(path string, schema Schema, required bool, options DeriveOptions) model.FieldSpec {
	field := model.FieldSpec{
		Path:     path,
		Type:     model.FieldTypeArray,
		Label:    options.Labeler(lastSegment(path)),
		Help:     schema.Description,
		Required: required,
	}
	if schema.Default != nil {
		field.Default = schema.Default
	}
	if len(schema.Enum) > 0 {
		field.Enum = append([]any(nil), schema.Enum...)
	} else if schema.Items != nil && len(schema.Items.Enum) > 0 {
		field.Enum = append([]any(nil), schema.Items.Enum...)
	}
	return field
}

func fieldFromScalar(path string, schema Schema, required bool, options DeriveOptions) model.FieldSpec {
	field := model.FieldSpec{
		Path:     path,
		Type:     mapFieldType(schema.Type),
		Label:    options.Labeler(lastSegment(path)),
		Help:     schema.Description,
		Secret:   schema.Format == "password",
		Required: required,
		Pattern:  schema.Pattern,
	}
	if schema.Default != nil {
		field.Default = schema.Default
	}
	if len(schema.Enum) > 0 {
		field.Enum = append([]any(nil), schema.Enum...)
	}
	if schema.MinLength != nil {
		value := *schema.MinLength
		field.MinLength = &value
	}
	if schema.MaxLength != nil {
		value := *schema.MaxLength
		field.MaxLength = &value
	}
	return field
}

func mapFieldType(schemaType string) model.FieldType {
	switch schemaType {
	case "integer":
		return model.FieldTypeInteger
	case "number":
		return model.FieldTypeNumber
	case "boolean":
		return model.FieldTypeBoolean
	case "array":
		return model.FieldTypeArray
	case "object":
		return model.FieldTypeObject
	default:
		return model.FieldTypeString
	}
}

func lastSegment(path string) string {
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

var wordSeparators = regexp.MustCompile(`[_\-\s]+|([a-z0-9])([A-Z])`)

// DefaultLabeler converts a property name into a human-friendly label: it
// splits on underscores, dashes, and camelCase boundaries, then title-cases
// each word. "shippingAddress" becomes "Shipping Address".
func DefaultLabeler(name string) string {
	spaced := wordSeparators.ReplaceAllString(name, "$1 $2")
	var words []string
	for _, word := range strings.Fields(spaced) {
		words = append(words, strings.ToUpper(word[:1])+strings.ToLower(word[1:]))
	}
	return strings.Join(words, " ")
}
