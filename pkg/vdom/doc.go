// Package vdom provides the virtual node tree that components render.
//
// A VNode describes one position of the desired UI: a text node, a host
// element or a nested component. Nodes are built fresh on every render and
// are never mutated by callers after construction; the renderer only fills
// in Host (the live host node) and Instance (the mounted component).
//
// # Core Types
//
// VNode is the tree node and Kind the closed set of node kinds. Props holds
// attributes, event handlers and, for component nodes, the props and emits
// passed to the child. Definition identifies a component type.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), Key("row-1"),
//	    H1("Title"),
//	    Button(OnClick(handler), "Save"),
//	)
//
// The positional form mirrors a classic hyperscript call:
//
//	New("ul", Props{"className": []string{"list"}}, items)
//	New("p", nil, "plain text") // string children become one text child
//
// # Identity
//
// SameNode reports whether two nodes may be reconciled in place: same kind,
// same tag or component definition, same key. Nothing else is considered.
package vdom
