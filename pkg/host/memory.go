package host

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Node is one node of a Memory tree.
type Node struct {
	id        uint64
	tag       string
	text      string
	attrs     map[string]string
	style     map[string]string
	listeners map[string][]*Listener
	parent    *Node
	children  []*Node
}

// ID returns the node's identifier, unique within its Memory.
func (n *Node) ID() uint64 { return n.id }

// Tag returns the element tag, or "" for text nodes.
func (n *Node) Tag() string { return n.tag }

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n.tag == "" }

// Text returns the content of a text node.
func (n *Node) Text() string { return n.text }

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Attr returns the attribute value for key.
func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

// Attrs returns a copy of all attributes.
func (n *Node) Attrs() map[string]string { return maps.Clone(n.attrs) }

// Style returns a copy of the style declarations.
func (n *Node) Style() map[string]string { return maps.Clone(n.style) }

// ListenerCount returns how many listeners are registered for event.
func (n *Node) ListenerCount(event string) int { return len(n.listeners[event]) }

// TextContent concatenates the text of n's subtree.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.text
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

func (n *Node) indexOf(child *Node) int {
	return slices.Index(n.children, child)
}

func (n *Node) detach() {
	if n.parent == nil {
		return
	}
	if i := n.parent.indexOf(n); i >= 0 {
		n.parent.children = slices.Delete(n.parent.children, i, i+1)
	}
	n.parent = nil
}

func (n *Node) contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Memory is an in-memory host tree. It is not safe for concurrent use.
type Memory struct {
	nextID uint64
	nodes  map[uint64]*Node
	body   *Node
}

// NewMemory creates an empty tree whose document body is Body().
func NewMemory() *Memory {
	m := &Memory{nodes: make(map[uint64]*Node)}
	m.body = m.newNode("body")
	return m
}

func (m *Memory) newNode(tag string) *Node {
	m.nextID++
	n := &Node{
		id:    m.nextID,
		tag:   tag,
		attrs: make(map[string]string),
		style: make(map[string]string),
	}
	m.nodes[n.id] = n
	return n
}

// Body returns the document body.
func (m *Memory) Body() *Node { return m.body }

// Lookup returns the live node with the given id.
func (m *Memory) Lookup(id uint64) (*Node, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

// Len returns the number of live nodes, including detached ones not yet removed.
func (m *Memory) Len() int { return len(m.nodes) }

func (m *Memory) node(h Handle) (*Node, error) {
	n, ok := h.(*Node)
	if !ok || n == nil {
		return nil, fmt.Errorf("%w: %T", ErrInvalidHandle, h)
	}
	return n, nil
}

// CreateElement implements Adapter.
func (m *Memory) CreateElement(tag string) (Handle, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, fmt.Errorf("%w: empty tag", ErrInvalidHandle)
	}
	return m.newNode(tag), nil
}

// CreateText implements Adapter.
func (m *Memory) CreateText(text string) (Handle, error) {
	n := m.newNode("")
	n.text = text
	return n, nil
}

// SetText implements Adapter.
func (m *Memory) SetText(h Handle, text string) error {
	n, err := m.node(h)
	if err != nil {
		return err
	}
	if n.IsText() {
		n.text = text
		return nil
	}
	n.children = nil
	if text != "" {
		t := m.newNode("")
		t.text = text
		t.parent = n
		n.children = []*Node{t}
	}
	return nil
}

// Insert implements Adapter.
func (m *Memory) Insert(child, parent, before Handle) error {
	c, err := m.node(child)
	if err != nil {
		return err
	}
	p, err := m.node(parent)
	if err != nil {
		return err
	}
	if p.IsText() {
		return ErrTextParent
	}
	if c.contains(p) {
		return ErrCycle
	}

	var ref *Node
	if before != nil {
		if ref, err = m.node(before); err != nil {
			return err
		}
		if ref == c {
			ref = nextSibling(c)
		}
		if ref != nil && ref.parent != p {
			return ErrNotAChild
		}
	}

	c.detach()
	c.parent = p
	if ref == nil {
		p.children = append(p.children, c)
		return nil
	}
	p.children = slices.Insert(p.children, p.indexOf(ref), c)
	return nil
}

// Remove implements Adapter. The node and its subtree are discarded.
func (m *Memory) Remove(h Handle) error {
	n, err := m.node(h)
	if err != nil {
		return err
	}
	if n == m.body {
		return fmt.Errorf("%w: cannot remove body", ErrInvalidHandle)
	}
	n.detach()
	m.forget(n)
	return nil
}

func (m *Memory) forget(n *Node) {
	delete(m.nodes, n.id)
	for _, c := range n.children {
		m.forget(c)
	}
}

// SetAttribute implements Adapter.
func (m *Memory) SetAttribute(h Handle, key, value string) error {
	n, err := m.node(h)
	if err != nil {
		return err
	}
	n.attrs[key] = value
	return nil
}

// RemoveAttribute implements Adapter.
func (m *Memory) RemoveAttribute(h Handle, key string) error {
	n, err := m.node(h)
	if err != nil {
		return err
	}
	delete(n.attrs, key)
	if key == "style" {
		clear(n.style)
	}
	return nil
}

// AddListener implements Adapter.
func (m *Memory) AddListener(h Handle, event string, l *Listener) error {
	n, err := m.node(h)
	if err != nil {
		return err
	}
	if n.listeners == nil {
		n.listeners = make(map[string][]*Listener)
	}
	if !slices.Contains(n.listeners[event], l) {
		n.listeners[event] = append(n.listeners[event], l)
	}
	return nil
}

// RemoveListener implements Adapter.
func (m *Memory) RemoveListener(h Handle, event string, l *Listener) error {
	n, err := m.node(h)
	if err != nil {
		return err
	}
	list := n.listeners[event]
	if i := slices.Index(list, l); i >= 0 {
		n.listeners[event] = slices.Delete(list, i, i+1)
	}
	return nil
}

// SetStyle implements Adapter.
func (m *Memory) SetStyle(h Handle, style map[string]string) error {
	n, err := m.node(h)
	if err != nil {
		return err
	}
	maps.Copy(n.style, style)
	return nil
}

// Parent implements Adapter.
func (m *Memory) Parent(h Handle) Handle {
	n, err := m.node(h)
	if err != nil || n.parent == nil {
		return nil
	}
	return n.parent
}

// NextSibling implements Adapter.
func (m *Memory) NextSibling(h Handle) Handle {
	n, err := m.node(h)
	if err != nil {
		return nil
	}
	if s := nextSibling(n); s != nil {
		return s
	}
	return nil
}

func nextSibling(n *Node) *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.indexOf(n)
	if i < 0 || i+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[i+1]
}

// Find implements Finder. "#id" matches the id attribute; any other selector
// matches the first element with that tag, in document order.
func (m *Memory) Find(selector string) (Handle, bool) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil, false
	}
	var match func(*Node) bool
	if id, ok := strings.CutPrefix(selector, "#"); ok {
		match = func(n *Node) bool { return n.attrs["id"] == id }
	} else {
		match = func(n *Node) bool { return n.tag == selector }
	}
	if found := find(m.body, match); found != nil {
		return found, true
	}
	return nil, false
}

func find(n *Node, match func(*Node) bool) *Node {
	if !n.IsText() && match(n) {
		return n
	}
	for _, c := range n.children {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

// Dispatch delivers e to every listener registered for event on h and
// returns how many ran. Listeners registered while dispatching do not run.
func (m *Memory) Dispatch(h Handle, event string, e Event) (int, error) {
	n, err := m.node(h)
	if err != nil {
		return 0, err
	}
	if e.Type == "" {
		e.Type = event
	}
	if e.Target == nil {
		e.Target = n
	}
	list := slices.Clone(n.listeners[event])
	for _, l := range list {
		l.Handle(e)
	}
	return len(list), nil
}
