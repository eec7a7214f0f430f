package llm

import (
	"fmt"
	"strings"
)

// Placeholders are the values models write instead of leaving a list empty.
var Placeholders = []string{
	"",
	"non mentionné",
	"non mentionne",
	"non spécifié",
	"aucun",
	"not mentioned",
	"not specified",
	"none",
	"n/a",
	"unknown",
}

// RepairListFields coerces the named keys of a decoded object into lists of
// strings. Placeholders and null become empty lists, other scalars become a
// single-item list. Keys that are absent are set to an empty list.
func RepairListFields(data map[string]any, fields []string, placeholders []string) {
	for _, field := range fields {
		data[field] = repairList(data[field], placeholders)
	}
}

func repairList(value any, placeholders []string) []any {
	switch v := value.(type) {
	case nil:
		return []any{}
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			s := toString(item)
			if isPlaceholder(s, placeholders) {
				continue
			}
			out = append(out, s)
		}
		return out
	default:
		s := toString(v)
		if isPlaceholder(s, placeholders) {
			return []any{}
		}
		return []any{s}
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func isPlaceholder(s string, placeholders []string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, p := range placeholders {
		if s == p {
			return true
		}
	}
	return false
}
