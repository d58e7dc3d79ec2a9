package paths

import (
	"encoding/json"
	"fmt"
	"sort"
)

// RecordFrom converts defaults into a record. map[string]any inputs are
// deep-copied; structs and other values round-trip through JSON so field
// tags, embedding, and omission behave exactly as encoding/json defines
// them.
func RecordFrom(defaults any) (map[string]any, error) {
	switch typed := defaults.(type) {
	case nil:
		return make(map[string]any), nil
	case map[string]any:
		return CloneRecord(typed), nil
	}
	raw, err := json.Marshal(defaults)
	if err != nil {
		return nil, fmt.Errorf("paths: convert defaults: %w", err)
	}
	record := make(map[string]any)
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("paths: convert defaults: %w", err)
	}
	return record, nil
}

// FromRecord enumerates every path a record currently holds, containers and
// leaves alike, in sorted order.
func FromRecord(record map[string]any) []string {
	var out []string
	collectRecord(record, "", &out)
	sort.Strings(out)
	return out
}

func collectRecord(value any, prefix string, out *[]string) {
	switch typed := value.(type) {
	case map[string]any:
		for key, item := range typed {
			path := Join(prefix, key)
			*out = append(*out, path)
			collectRecord(item, path, out)
		}
	case []any:
		for i, item := range typed {
			path := Join(prefix, fmt.Sprintf("%d", i))
			*out = append(*out, path)
			collectRecord(item, path, out)
		}
	}
}
