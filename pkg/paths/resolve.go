package paths

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	timeType   = reflect.TypeOf(time.Time{})
	regexpType = reflect.TypeOf(regexp.Regexp{})
)

// FromType enumerates the paths addressable within a record type, following
// encoding/json naming: tags rename, `json:"-"` omits, untagged embedded
// structs inline into their parent. Slices contribute a "0" placeholder
// element, arrays one path per index, and map values stop at the container
// because their keys are dynamic. Function and channel fields are skipped.
func FromType(t reflect.Type) []string {
	if t == nil {
		return nil
	}
	var out []string
	enumerate(t, "", &out, map[reflect.Type]bool{})
	return out
}

// Of is FromType for a value, usually a zero struct: Of(Profile{}).
func Of(value any) []string {
	return FromType(reflect.TypeOf(value))
}

func enumerate(t reflect.Type, prefix string, out *[]string, seen map[reflect.Type]bool) {
	t = unwrap(t)
	if t == nil || terminal(t) || seen[t] {
		return
	}
	seen[t] = true
	defer delete(seen, t)

	switch t.Kind() {
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() || skipField(field.Type) {
				continue
			}
			name, include := jsonName(field)
			if !include {
				continue
			}
			if field.Anonymous && name == "" {
				if inner := unwrap(field.Type); inner != nil && inner.Kind() == reflect.Struct && !terminal(inner) {
					enumerate(field.Type, prefix, out, seen)
					continue
				}
			}
			if name == "" {
				name = field.Name
			}
			path := Join(prefix, name)
			*out = append(*out, path)
			enumerate(field.Type, path, out, seen)
		}
	case reflect.Slice:
		element := Join(prefix, "0")
		*out = append(*out, element)
		enumerate(t.Elem(), element, out, seen)
	case reflect.Array:
		for i := 0; i < t.Len(); i++ {
			element := Join(prefix, strconv.Itoa(i))
			*out = append(*out, element)
			enumerate(t.Elem(), element, out, seen)
		}
	}
}

// TypeAt resolves the type a path addresses within t, one segment at a
// time. The boolean reports whether the path is addressable; unknown names,
// out-of-range array indices, and segments below a terminal all report
// false.
func TypeAt(t reflect.Type, path string) (reflect.Type, bool) {
	segments := Parse(path)
	if t == nil || len(segments) == 0 {
		return nil, false
	}
	current := t
	for _, segment := range segments {
		current = unwrap(current)
		if current == nil || terminal(current) {
			return nil, false
		}
		switch current.Kind() {
		case reflect.Struct:
			field, ok := fieldByName(current, segment)
			if !ok {
				return nil, false
			}
			current = field.Type
		case reflect.Slice:
			if !isIndex(segment) {
				return nil, false
			}
			current = current.Elem()
		case reflect.Array:
			idx, ok := index(segment)
			if !ok || idx >= current.Len() {
				return nil, false
			}
			current = current.Elem()
		case reflect.Map:
			if current.Key().Kind() != reflect.String {
				return nil, false
			}
			current = current.Elem()
		default:
			return nil, false
		}
	}
	return unwrap(current), true
}

func fieldByName(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || skipField(field.Type) {
			continue
		}
		tagName, include := jsonName(field)
		if !include {
			continue
		}
		if field.Anonymous && tagName == "" {
			if inner := unwrap(field.Type); inner != nil && inner.Kind() == reflect.Struct && !terminal(inner) {
				if nested, ok := fieldByName(inner, name); ok {
					return nested, true
				}
				continue
			}
		}
		if tagName == "" {
			tagName = field.Name
		}
		if tagName == name {
			return field, true
		}
	}
	return reflect.StructField{}, false
}

// jsonName extracts the effective field name from a json tag. The boolean
// reports whether the field participates at all; an empty name means the Go
// field name applies.
func jsonName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("json")
	if tag == "" {
		return "", true
	}
	name, _, hasOptions := strings.Cut(tag, ",")
	if name == "-" && !hasOptions {
		return "", false
	}
	if name == "-" {
		return "-", true
	}
	return name, true
}

func unwrap(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// terminal reports whether a type is a leaf for path purposes even when its
// Go representation has structure, such as time.Time.
func terminal(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.Interface:
		return true
	}
	return t == timeType || t == regexpType
}

func skipField(t reflect.Type) bool {
	t = unwrap(t)
	if t == nil {
		return true
	}
	switch t.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}
