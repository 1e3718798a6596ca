package config

import (
	"encoding/json"
	"fmt"

	yaml "go.yaml.in/yaml/v3"
)

// yamlToJSON re-encodes a YAML document as JSON so both config formats
// share the one strict decode path in Parse. YAML mappings can decode
// with non-string keys, which JSON cannot represent, so keys are
// stringified first.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}
	out, err := json.Marshal(stringifyKeys(doc))
	if err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}
	return out, nil
}

func stringifyKeys(v any) any {
	switch doc := v.(type) {
	case map[string]any:
		for k, child := range doc {
			doc[k] = stringifyKeys(child)
		}
		return doc
	case map[any]any:
		out := make(map[string]any, len(doc))
		for k, child := range doc {
			out[fmt.Sprint(k)] = stringifyKeys(child)
		}
		return out
	case []any:
		for i, child := range doc {
			doc[i] = stringifyKeys(child)
		}
		return doc
	}
	return v
}
