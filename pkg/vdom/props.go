package vdom

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// EventPrefix marks props that are routed to listeners.
const EventPrefix = "on"

// IsEventKey returns true if the key names an event handler.
// Case-insensitive to catch onclick, onClick, OnLoad, etc.
func IsEventKey(key string) bool {
	return len(key) > len(EventPrefix) && strings.EqualFold(key[:len(EventPrefix)], EventPrefix)
}

// EventName derives the host event name from an event key: the remainder
// after the prefix, lower-cased ("onClick" → "click").
func EventName(key string) string {
	return strings.ToLower(strings.TrimSpace(key[len(EventPrefix):]))
}

// IsClassKey reports whether key addresses the class attribute.
func IsClassKey(key string) bool {
	return key == "class" || key == "className"
}

// ClassString normalizes a class value: a string is used as is, an ordered
// token list is trimmed and joined, a token map contributes the tokens mapped
// to true in sorted order. ok is false for any other value, which means the
// class attribute should be removed.
func ClassString(v any) (s string, ok bool) {
	switch c := v.(type) {
	case string:
		return c, true
	case []string:
		return joinTokens(c), true
	case []any:
		tokens := make([]string, 0, len(c))
		for _, t := range c {
			if s, isStr := t.(string); isStr {
				tokens = append(tokens, s)
			}
		}
		return joinTokens(tokens), true
	case map[string]bool:
		tokens := make([]string, 0, len(c))
		for _, t := range slices.Sorted(maps.Keys(c)) {
			if c[t] {
				tokens = append(tokens, t)
			}
		}
		return strings.Join(tokens, " "), true
	}
	return "", false
}

func joinTokens(tokens []string) string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, " ")
}

// StyleValue normalizes a style value into either a declaration string or a
// declaration map. ok is false for unsupported values.
func StyleValue(v any) (str string, decls map[string]string, ok bool) {
	switch s := v.(type) {
	case string:
		return s, nil, true
	case map[string]string:
		return "", s, true
	case map[string]any:
		decls = make(map[string]string, len(s))
		for k, val := range s {
			decls[k] = Stringify(val)
		}
		return "", decls, true
	}
	return "", nil, false
}

// Equal compares two prop values for equality.
func Equal(a, b any) bool {
	// Fast path for common types
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	// Fallback to reflect for complex types
	return reflect.DeepEqual(a, b)
}

// Stringify converts a prop value to its attribute string.
func Stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
