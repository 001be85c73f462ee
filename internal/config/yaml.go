package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	yaml "go.yaml.in/yaml/v3"
)

// Format is the on-disk encoding, chosen by file extension.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func formatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// toJSON returns data as JSON so both formats go through the strict JSON
// decoder. JSON input is returned unchanged.
func toJSON(name string, data []byte) ([]byte, Format, error) {
	f := formatOf(name)
	if f == FormatJSON {
		return data, f, nil
	}
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, f, fmt.Errorf("yaml config: %w", err)
	}
	j, err := json.Marshal(stringKeys(v))
	if err != nil {
		return nil, f, fmt.Errorf("yaml config: %w", err)
	}
	return j, f, nil
}

// stringKeys rewrites nested maps so every key is a string; json.Marshal
// cannot encode map[any]any.
func stringKeys(in any) any {
	switch x := in.(type) {
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[fmt.Sprint(k)] = stringKeys(v)
		}
		return m
	case map[string]any:
		for k, v := range x {
			x[k] = stringKeys(v)
		}
		return x
	case []any:
		for i := range x {
			x[i] = stringKeys(x[i])
		}
		return x
	default:
		return in
	}
}
