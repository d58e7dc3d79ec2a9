package model

import (
	"github.com/goliatone/go-formstate/pkg/control"
	"github.com/goliatone/go-formstate/pkg/rules"
)

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
)

func (t FieldType) valid() bool {
	switch t {
	case FieldTypeString, FieldTypeInteger, FieldTypeNumber,
		FieldTypeBoolean, FieldTypeArray, FieldTypeObject:
		return true
	}
	return false
}

// FieldSpec describes one bindable field: where it lives in the record, how
// a host should present it, and the constraints that become its rule.
// Constraint fields are flattened rather than nested so the YAML form reads
// naturally.
type FieldSpec struct {
	Path        string    `json:"path" yaml:"path"`
	Type        FieldType `json:"type,omitempty" yaml:"type,omitempty"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty"`
	Help        string    `json:"help,omitempty" yaml:"help,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Secret      bool      `json:"secret,omitempty" yaml:"secret,omitempty"`
	Enum        []any     `json:"enum,omitempty" yaml:"enum,omitempty"`
	Default     any       `json:"default,omitempty" yaml:"default,omitempty"`

	Required  bool   `json:"required,omitempty" yaml:"required,omitempty"`
	MinLength *int   `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// Rule assembles the field's validation rule from its constraint fields.
func (f FieldSpec) Rule() rules.Rule {
	return rules.Rule{
		Required:  f.Required,
		MinLength: f.MinLength,
		MaxLength: f.MaxLength,
		Pattern:   f.Pattern,
	}
}

// FormSpec is a whole form definition.
type FormSpec struct {
	ID          string                 `json:"id" yaml:"id"`
	Title       string                 `json:"title,omitempty" yaml:"title,omitempty"`
	Description string                 `json:"description,omitempty" yaml:"description,omitempty"`
	Revalidate  control.RevalidateMode `json:"revalidateMode,omitempty" yaml:"revalidateMode,omitempty"`
	Fields      []FieldSpec            `json:"fields" yaml:"fields"`
}
