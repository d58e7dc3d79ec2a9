package paths

import "errors"

// Get resolves a path within a record. The boolean reports whether the full
// path exists; absent keys, out-of-range indices, and non-container
// intermediates all resolve to (nil, false), never an error.
func Get(record map[string]any, path string) (any, bool) {
	if record == nil {
		return nil, false
	}
	return walk(record, Parse(path))
}

func walk(root any, segments []string) (any, bool) {
	if len(segments) == 0 {
		return nil, false
	}
	current := root
	for _, segment := range segments {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, ok := index(segment)
			if !ok || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// Set writes a value at a path, creating missing intermediate containers: a
// numeric segment materialises a []any grown to fit, anything else a
// map[string]any. An intermediate that exists but is not a container is
// replaced, keeping writes permissive.
func Set(record map[string]any, path string, value any) error {
	if record == nil {
		return errors.New("paths: record is nil")
	}
	segments := Parse(path)
	if len(segments) == 0 {
		return errors.New("paths: path is empty")
	}
	record[segments[0]] = setInto(record[segments[0]], segments[1:], value)
	return nil
}

// setInto places value under the remaining segments of current and returns
// the resulting node so parents can re-attach grown slices.
func setInto(current any, segments []string, value any) any {
	if len(segments) == 0 {
		return value
	}
	segment := segments[0]
	if idx, ok := index(segment); ok {
		seq, _ := current.([]any)
		for len(seq) <= idx {
			seq = append(seq, nil)
		}
		seq[idx] = setInto(seq[idx], segments[1:], value)
		return seq
	}
	node, _ := current.(map[string]any)
	if node == nil {
		node = make(map[string]any)
	}
	node[segment] = setInto(node[segment], segments[1:], value)
	return node
}

// Delete removes the entry a path addresses: map entries are deleted,
// sequence elements are nil-ed in place so sibling indices keep their
// positions. Missing paths are a no-op.
func Delete(record map[string]any, path string) {
	if record == nil {
		return
	}
	segments := Parse(path)
	if len(segments) == 0 {
		return
	}

	var parent any = record
	if len(segments) > 1 {
		located, ok := walk(record, segments[:len(segments)-1])
		if !ok {
			return
		}
		parent = located
	}

	last := segments[len(segments)-1]
	switch node := parent.(type) {
	case map[string]any:
		delete(node, last)
	case []any:
		if idx, ok := index(last); ok && idx < len(node) {
			node[idx] = nil
		}
	}
}
