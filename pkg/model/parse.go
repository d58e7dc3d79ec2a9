package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a form definition document and validates it. YAML is a
// superset of JSON, so JSON documents decode through here as well.
func ParseYAML(data []byte) (FormSpec, error) {
	var spec FormSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return FormSpec{}, fmt.Errorf("model: parse form spec: %w", err)
	}
	if err := spec.normalize(); err != nil {
		return FormSpec{}, err
	}
	return spec, nil
}
