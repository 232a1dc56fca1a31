package snapshot

import (
	"maps"
	"slices"
	"time"

	"github.com/vango-dev/race/pkg/host"
)

// SchemaVersion is bumped whenever the encoded layout changes.
const SchemaVersion uint16 = 1

// Node is one captured host node. Text nodes have an empty Tag.
type Node struct {
	Tag      string            `msgpack:"t,omitempty"`
	Text     string            `msgpack:"x,omitempty"`
	Attrs    map[string]string `msgpack:"a,omitempty"`
	Style    map[string]string `msgpack:"s,omitempty"`
	Children []*Node           `msgpack:"c,omitempty"`
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n.Tag == "" }

// Snapshot is a captured container and its subtree.
type Snapshot struct {
	Version   uint16    `msgpack:"v"`
	Component string    `msgpack:"component"`
	CreatedAt time.Time `msgpack:"created_at"`
	Root      *Node     `msgpack:"root"`
}

// Capture copies the tree under container. Listeners are not captured.
func Capture(component string, container *host.Node) *Snapshot {
	return &Snapshot{
		Version:   SchemaVersion,
		Component: component,
		CreatedAt: time.Now().UTC(),
		Root:      captureNode(container),
	}
}

func captureNode(n *host.Node) *Node {
	if n.IsText() {
		return &Node{Text: n.Text()}
	}
	out := &Node{Tag: n.Tag()}
	if attrs := n.Attrs(); len(attrs) > 0 {
		out.Attrs = attrs
	}
	if style := n.Style(); len(style) > 0 {
		out.Style = style
	}
	for _, c := range n.Children() {
		out.Children = append(out.Children, captureNode(c))
	}
	return out
}

// Restore rebuilds the root's children under parent using adapter.
func (s *Snapshot) Restore(adapter host.Adapter, parent host.Handle) error {
	if s.Root == nil {
		return nil
	}
	for _, c := range s.Root.Children {
		if err := restoreNode(adapter, c, parent); err != nil {
			return err
		}
	}
	return nil
}

func restoreNode(adapter host.Adapter, n *Node, parent host.Handle) error {
	if n.IsText() {
		h, err := adapter.CreateText(n.Text)
		if err != nil {
			return err
		}
		return adapter.Insert(h, parent, nil)
	}

	h, err := adapter.CreateElement(n.Tag)
	if err != nil {
		return err
	}
	for _, k := range slices.Sorted(maps.Keys(n.Attrs)) {
		if err := adapter.SetAttribute(h, k, n.Attrs[k]); err != nil {
			return err
		}
	}
	if len(n.Style) > 0 {
		if err := adapter.SetStyle(h, n.Style); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := restoreNode(adapter, c, h); err != nil {
			return err
		}
	}
	return adapter.Insert(h, parent, nil)
}

// HTML serializes the captured children of the root.
func (s *Snapshot) HTML() (string, error) {
	mem := host.NewMemory()
	if err := s.Restore(mem, mem.Body()); err != nil {
		return "", err
	}
	return mem.Body().InnerHTML(), nil
}
