package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tailscale/hujson"
	"sigs.k8s.io/yaml"
)

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// readFile decodes the config file at path into a plain mapping with all
// comment keys removed.
func readFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if isYAML(path) {
		data, err = yaml.YAMLToJSON(data)
	} else {
		data, err = hujson.Standardize(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	stripComments(values)
	return values, nil
}

// stripComments drops annotation keys from m and every nested object.
func stripComments(m map[string]any) {
	for k, v := range m {
		if strings.Contains(k, CommentMarker) {
			delete(m, k)
			continue
		}
		stripNested(v)
	}
}

func stripNested(v any) {
	switch t := v.(type) {
	case map[string]any:
		stripComments(t)
	case []any:
		for _, item := range t {
			stripNested(item)
		}
	}
}

func writeFile(path string, values map[string]any) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(values)
	} else {
		data, err = json.MarshalIndent(values, "", "    ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
