package race

import (
	"github.com/vango-dev/race/pkg/host"
	"github.com/vango-dev/race/pkg/vdom"
)

// patchChildren reconciles the children of two same-identity elements with a
// two-pointer walk over both lists, falling back to a key index for nodes
// that moved elsewhere. Identity at the window ends always wins over the key
// index; unkeyed nodes are never looked up by key.
func (r *Renderer) patchChildren(prev, next *vdom.VNode) error {
	parent := next.Host
	oldCh := compact(prev.Children)
	newCh := compact(next.Children)

	oldStart, oldEnd := 0, len(oldCh)-1
	newStart, newEnd := 0, len(newCh)-1
	keyIndex := keyToIndex(oldCh)

	for oldStart <= oldEnd && newStart <= newEnd {
		// Slots consumed by a key match are nil.
		if oldCh[oldStart] == nil {
			oldStart++
			continue
		}
		if oldCh[oldEnd] == nil {
			oldEnd--
			continue
		}

		os, oe := oldCh[oldStart], oldCh[oldEnd]
		ns, ne := newCh[newStart], newCh[newEnd]

		switch {
		case vdom.SameNode(os, ns):
			if err := r.patch(os, ns, parent); err != nil {
				return err
			}
			oldStart++
			newStart++

		case vdom.SameNode(oe, ne):
			if err := r.patch(oe, ne, parent); err != nil {
				return err
			}
			oldEnd--
			newEnd--

		case vdom.SameNode(os, ne):
			// Moved right: after the old end.
			if err := r.patch(os, ne, parent); err != nil {
				return err
			}
			if err := r.move(ne.Host, parent, r.host.NextSibling(oe.Host)); err != nil {
				return err
			}
			oldStart++
			newEnd--

		case vdom.SameNode(oe, ns):
			// Moved left: before the old start.
			if err := r.patch(oe, ns, parent); err != nil {
				return err
			}
			if err := r.move(ns.Host, parent, os.Host); err != nil {
				return err
			}
			oldEnd--
			newStart++

		default:
			if idx, ok := lookupKey(keyIndex, ns, oldStart, oldEnd); ok && oldCh[idx] != nil && vdom.SameNode(oldCh[idx], ns) {
				if err := r.patch(oldCh[idx], ns, parent); err != nil {
					return err
				}
				oldCh[idx] = nil
				if err := r.move(ns.Host, parent, os.Host); err != nil {
					return err
				}
			} else if err := r.mount(ns, parent, os.Host); err != nil {
				return err
			}
			newStart++
		}
	}

	if oldStart <= oldEnd {
		for _, child := range oldCh[oldStart : oldEnd+1] {
			if child == nil {
				continue
			}
			if err := r.unmount(child, true); err != nil {
				return err
			}
		}
		return nil
	}

	if newStart <= newEnd {
		var before host.Handle
		if newEnd+1 < len(newCh) {
			before = newCh[newEnd+1].Host
		}
		for _, child := range newCh[newStart : newEnd+1] {
			if err := r.mount(child, parent, before); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) move(h, parent, before host.Handle) error {
	if h == nil {
		return nil
	}
	return hostError("move", r.host.Insert(h, parent, before))
}

// compact copies children without nil entries.
func compact(children []*vdom.VNode) []*vdom.VNode {
	out := make([]*vdom.VNode, 0, len(children))
	for _, c := range children {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func keyToIndex(children []*vdom.VNode) map[any]int {
	m := make(map[any]int, len(children))
	for i, c := range children {
		if c.Key != nil {
			m[c.Key] = i
		}
	}
	return m
}

// lookupKey finds n's key among the old children still inside the window.
func lookupKey(index map[any]int, n *vdom.VNode, lo, hi int) (int, bool) {
	if n.Key == nil {
		return 0, false
	}
	idx, ok := index[n.Key]
	if !ok || idx < lo || idx > hi {
		return 0, false
	}
	return idx, true
}
