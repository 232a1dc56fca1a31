package vdom

import (
	"fmt"
	"strings"

	"github.com/vango-dev/race/internal/errors"
)

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// New builds a node from a type tag, props and children.
//
// typ is an element tag, TextTag, or a component Definition; anything else
// yields a KindInvalid node that the renderer refuses to mount. children may
// be nil, a string, a *VNode, a []*VNode or a []any of nodes and strings. A
// string on a non-text node becomes a single text child; on a text node it is
// the node's content.
func New(typ any, props Props, children any) *VNode {
	node := &VNode{Props: props}

	switch t := typ.(type) {
	case string:
		tag := strings.TrimSpace(t)
		switch tag {
		case TextTag:
			node.Kind = KindText
			node.Text, _ = children.(string)
			node.Key = keyOf(props)
			return node
		case "":
			node.Kind = KindInvalid
		default:
			node.Kind = KindElement
		}
		node.Tag = tag
	case Definition:
		node.Kind = KindComponent
		node.Component = t
	default:
		node.Kind = KindInvalid
		node.Tag = fmt.Sprintf("%T", typ)
	}

	node.Key = keyOf(props)
	node.Children = childNodes(children)
	return node
}

// C creates a component node.
func C(def Definition, props Props) *VNode {
	if def == nil {
		panic(errors.New(errors.CodeMalformedNode).WithDetail("component node without definition"))
	}
	return New(def, props, nil)
}

// childNodes normalizes the children argument of New.
func childNodes(children any) []*VNode {
	switch c := children.(type) {
	case nil:
		return nil
	case string:
		return []*VNode{Text(c)}
	case *VNode:
		if c == nil {
			return nil
		}
		return []*VNode{c}
	case []*VNode:
		out := make([]*VNode, 0, len(c))
		for _, child := range c {
			if child != nil {
				out = append(out, child)
			}
		}
		return out
	case []any:
		out := make([]*VNode, 0, len(c))
		for _, child := range c {
			out = append(out, childNodes(child)...)
		}
		return out
	}
	panic(errors.New(errors.CodeMalformedNode).WithDetailf("unsupported children type %T", children))
}
