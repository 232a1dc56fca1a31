package race

import (
	"maps"
	"slices"

	"github.com/vango-dev/race/pkg/vdom"
)

// Props is a frozen snapshot of the props a component was given. It has no
// mutating methods; Map returns a copy.
type Props struct {
	m map[string]any
}

// newProps freezes base overlaid with over. The reserved key and emits
// props are never part of a component's props.
func newProps(base map[string]any, over vdom.Props) Props {
	m := make(map[string]any, len(base)+len(over))
	for k, v := range base {
		m[k] = v
	}
	for k, v := range over {
		if k == vdom.KeyProp || k == vdom.EmitsProp {
			continue
		}
		m[k] = v
	}
	return Props{m: m}
}

// Get returns the prop value, or nil.
func (p Props) Get(key string) any { return p.m[key] }

// Lookup returns the prop value and whether it is set.
func (p Props) Lookup(key string) (any, bool) {
	v, ok := p.m[key]
	return v, ok
}

// Has reports whether the prop is set.
func (p Props) Has(key string) bool {
	_, ok := p.m[key]
	return ok
}

// Len returns the number of props.
func (p Props) Len() int { return len(p.m) }

// Keys returns the prop names in sorted order.
func (p Props) Keys() []string { return slices.Sorted(maps.Keys(p.m)) }

// Map returns a copy of the props.
func (p Props) Map() map[string]any { return maps.Clone(p.m) }

// String returns the prop as a string, or "" if it is not one.
func (p Props) String(key string) string {
	s, _ := p.m[key].(string)
	return s
}

// Int returns the prop as an int. Other numeric types are converted.
func (p Props) Int(key string) int {
	switch v := p.m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Bool returns the prop as a bool.
func (p Props) Bool(key string) bool {
	b, _ := p.m[key].(bool)
	return b
}

// emitsOf extracts the emits table from node props. Both vdom.Emits and a
// plain map of callbacks are accepted.
func emitsOf(p vdom.Props) vdom.Emits {
	switch e := p[vdom.EmitsProp].(type) {
	case vdom.Emits:
		return maps.Clone(e)
	case map[string]func(args ...any):
		return vdom.Emits(maps.Clone(e))
	}
	return vdom.Emits{}
}

func cloneData(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue copies nested maps and lists so instances never share defaults.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneData(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	}
	return v
}
