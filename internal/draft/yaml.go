package draft

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a YAML draft. An empty document yields an empty map.
func ParseYAML(filename string, src []byte) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file %s: %w", filename, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}
