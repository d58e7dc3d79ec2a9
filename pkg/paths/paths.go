package paths

import (
	"strconv"
	"strings"
)

var bracketReplacer = strings.NewReplacer("[", ".", "]", "")

// Parse splits a path into its segments, normalising bracket indices to the
// dotted form and discarding empty segments. Parse("") returns nil.
func Parse(path string) []string {
	clean := strings.TrimSpace(path)
	if clean == "" {
		return nil
	}
	clean = bracketReplacer.Replace(clean)
	clean = strings.Trim(clean, ".")
	if clean == "" {
		return nil
	}

	parts := strings.Split(clean, ".")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		out = append(out, segment)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Canonical returns the normalised dotted form of a path, so equivalent
// spellings compare equal as map keys.
func Canonical(path string) string {
	return strings.Join(Parse(path), ".")
}

// Join appends a child segment to a parent path, tolerating empty sides.
func Join(parent, child string) string {
	parent = strings.TrimSpace(parent)
	child = strings.TrimSpace(child)
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	default:
		return parent + "." + child
	}
}

// index parses a sequence segment, reporting whether it is a valid
// non-negative index.
func index(segment string) (int, bool) {
	idx, err := strconv.Atoi(segment)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

// isIndex reports whether the segment addresses a sequence element.
func isIndex(segment string) bool {
	_, ok := index(segment)
	return ok
}
