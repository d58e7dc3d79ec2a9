package render

import (
	"strings"

	"github.com/goliatone/go-formstate/pkg/control"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/paths"
)

// ErrorMapping splits a server error payload into field-level messages keyed
// by record paths and form-level messages that match no field.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// Apply writes the field-level messages into the control's error map.
// Form-level messages stay on the mapping for the caller to surface.
func (m ErrorMapping) Apply(ctrl *control.Control) {
	if ctrl == nil {
		return
	}
	for path, msgs := range m.Fields {
		ctrl.SetErrors(path, msgs)
	}
}

// MapErrorPayload normalises server error payloads (JSON pointer or dotted
// keys) onto the spec's field paths. Keys that resolve to no field become
// form-level errors so messages are not lost.
func MapErrorPayload(spec model.FormSpec, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{}
	if len(payload) == 0 {
		return mapping
	}

	known := make(map[string]struct{}, len(spec.Fields))
	for _, field := range spec.Fields {
		known[paths.Canonical(field.Path)] = struct{}{}
	}

	for rawKey, messages := range payload {
		msgs := normalizeMessages(messages)
		if len(msgs) == 0 {
			continue
		}

		path, ok := resolveErrorPath(rawKey, known)
		if !ok {
			mapping.Form = append(mapping.Form, msgs...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[path] = append(mapping.Fields[path], msgs...)
	}

	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// MergeFormErrors concatenates form-level error slices, trimming whitespace
// and deduplicating while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// resolveErrorPath matches a raw payload key against the known field paths:
// first the full key, then with common wrapper prefixes removed, in both
// cases falling back to the longest known ancestor.
func resolveErrorPath(raw string, known map[string]struct{}) (string, bool) {
	if isFormLevelKey(raw) {
		return "", false
	}

	segments := splitErrorKey(raw)
	if len(segments) == 0 {
		return "", false
	}

	if path, ok := longestKnownPrefix(segments, known); ok {
		return path, true
	}
	if trimmed := dropWrapperSegments(segments); len(trimmed) != len(segments) {
		return longestKnownPrefix(trimmed, known)
	}
	return "", false
}

// splitErrorKey parses dotted, slashed, JSON pointer, and bracketed key
// forms into plain segments.
func splitErrorKey(raw string) []string {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "#")
	clean = strings.TrimPrefix(clean, "$")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		// JSON pointer escapes.
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

// dropWrapperSegments strips leading transport envelope names so keys like
// "body.user.email" can match the "user.email" field.
func dropWrapperSegments(segments []string) []string {
	wrappers := map[string]struct{}{
		"body":       {},
		"request":    {},
		"payload":    {},
		"data":       {},
		"attributes": {},
	}

	out := segments
	for len(out) > 0 {
		if _, ok := wrappers[strings.ToLower(out[0])]; !ok {
			break
		}
		out = out[1:]
	}
	return out
}

// longestKnownPrefix finds the longest leading run of segments that names a
// known field.
func longestKnownPrefix(segments []string, known map[string]struct{}) (string, bool) {
	for end := len(segments); end > 0; end-- {
		candidate := paths.Canonical(strings.Join(segments[:end], "."))
		if _, ok := known[candidate]; ok {
			return candidate, true
		}
	}
	return "", false
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
