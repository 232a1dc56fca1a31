package vdom

import (
	"fmt"
	"math"
	"strings"

	"github.com/vango-dev/race/internal/errors"
	"github.com/vango-dev/race/pkg/host"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindInvalid   Kind = iota // Built from an unsupported type; rejected at mount
	KindText                  // Plain text node
	KindElement               // <div>, <button>, etc.
	KindComponent             // Nested component
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindElement:
		return "Element"
	case KindComponent:
		return "Component"
	default:
		return "Invalid"
	}
}

// TextTag is the type tag that New maps to a text node.
const TextTag = "text"

// Definition identifies a component type. Two component nodes have the same
// type iff their definitions are equal, so implementations should be
// pointers.
type Definition interface {
	Name() string
}

// Mounted is the live component instance behind a mounted component node.
type Mounted interface {
	Definition() Definition
}

// Props holds attributes, event handlers and component props.
type Props map[string]any

// Reserved prop keys.
const (
	KeyProp   = "key"
	EmitsProp = "emits"
)

// Emits maps event names to the callbacks a parent hands to a child component.
type Emits map[string]func(args ...any)

// VNode is the virtual node.
type VNode struct {
	Kind      Kind
	Tag       string     // Element tag name (e.g., "div")
	Text      string     // For KindText
	Component Definition // For KindComponent
	Props     Props
	Children  []*VNode
	Key       any // string, int, float64 or nil; derived from Props["key"]

	// Host is the live host node, set by the renderer once mounted.
	Host host.Handle

	// Instance is the mounted component, set only for component nodes.
	Instance Mounted
}

// IsText reports whether v is a text node.
func (v *VNode) IsText() bool { return v != nil && v.Kind == KindText }

// IsElement reports whether v is an element node.
func (v *VNode) IsElement() bool { return v != nil && v.Kind == KindElement }

// IsComponent reports whether v is a component node.
func (v *VNode) IsComponent() bool { return v != nil && v.Kind == KindComponent }

// TypeName names the node's type: the tag, the component name or "text".
func (v *VNode) TypeName() string {
	switch v.Kind {
	case KindText:
		return TextTag
	case KindElement:
		return v.Tag
	case KindComponent:
		if v.Component == nil {
			return "<nil component>"
		}
		return v.Component.Name()
	default:
		return v.Tag
	}
}

// String returns a compact debug form such as <li key=a>.
func (v *VNode) String() string {
	if v == nil {
		return "<nil>"
	}
	if v.Kind == KindText {
		return fmt.Sprintf("%q", v.Text)
	}
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(v.TypeName())
	if v.Key != nil {
		fmt.Fprintf(&b, " key=%v", v.Key)
	}
	b.WriteByte('>')
	return b.String()
}

// SameNode reports whether a and b have the same identity: equal kind, equal
// type (tag or component definition) and equal key. Children and props are
// not considered.
func SameNode(a, b *VNode) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Key != b.Key {
		return false
	}
	switch a.Kind {
	case KindElement, KindInvalid:
		return a.Tag == b.Tag
	case KindComponent:
		return a.Component == b.Component
	}
	return true
}

// NormalizeKey converts a key prop into the canonical key value: nil,
// string, int or float64. Integers that do not fit in an int, and any other
// type, make the node malformed and panic.
func NormalizeKey(k any) any {
	switch v := k.(type) {
	case nil:
		return nil
	case string:
		return v
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		if v >= math.MinInt && v <= math.MaxInt {
			return int(v)
		}
	case uint:
		if v <= math.MaxInt {
			return int(v)
		}
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		if uint64(v) <= math.MaxInt {
			return int(v)
		}
	case uint64:
		if v <= math.MaxInt {
			return int(v)
		}
	case float32:
		return normalizeFloat(float64(v))
	case float64:
		return normalizeFloat(v)
	default:
		panic(errors.New(errors.CodeMalformedNode).WithDetailf("unsupported key type %T", k))
	}
	panic(errors.New(errors.CodeMalformedNode).WithDetailf("key %v overflows int", k))
}

// normalizeFloat folds whole floats onto int keys.
func normalizeFloat(v float64) any {
	if math.Abs(v) <= 1<<53 && v == math.Trunc(v) {
		return int(v)
	}
	return v
}

// keyOf derives a node's key from its props.
func keyOf(p Props) any {
	if p == nil {
		return nil
	}
	return NormalizeKey(p[KeyProp])
}
