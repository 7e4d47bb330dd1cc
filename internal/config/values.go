package config

import (
	"fmt"

	"github.com/goccy/go-json"
)

// StringList holds a config value that may be written either as a single
// string or as a list of strings.
type StringList []string

// MarshalJSON writes a single-element list as a plain string.
func (l StringList) MarshalJSON() ([]byte, error) {
	if len(l) == 1 {
		return json.Marshal(l[0])
	}
	return json.Marshal([]string(l))
}

// UnmarshalJSON accepts either a string or a list of strings.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	list, err := toStringList(raw)
	if err != nil {
		return err
	}
	*l = list
	return nil
}

// truthy mirrors the loose notion of "set" used by the config file: null,
// false, zero, and empty strings, lists or objects all count as unset.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case []any:
		return len(t) > 0
	case []string:
		return len(t) > 0
	case StringList:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

func stringField(values map[string]any, key, def string) (string, error) {
	v, ok := values[key]
	if !ok || !truthy(v) {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: expected a string, got %T", key, v)
	}
	return s, nil
}

func listField(values map[string]any, key string, def StringList) (StringList, error) {
	v, ok := values[key]
	if !ok || !truthy(v) {
		return append(StringList(nil), def...), nil
	}
	list, err := toStringList(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return list, nil
}

func toStringList(v any) (StringList, error) {
	switch t := v.(type) {
	case string:
		return StringList{t}, nil
	case StringList:
		return append(StringList(nil), t...), nil
	case []string:
		return append(StringList(nil), t...), nil
	case []any:
		list := make(StringList, 0, len(t))
		for i, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item %d: expected a string, got %T", i, item)
			}
			list = append(list, s)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("expected a string or a list of strings, got %T", v)
	}
}
