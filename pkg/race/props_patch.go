package race

import (
	"fmt"
	"maps"
	"slices"

	"github.com/vango-dev/race/pkg/host"
	"github.com/vango-dev/race/pkg/vdom"
)

// binding routes host events of one element to the handlers in its current
// props. The host listener is registered once per event name, so swapping a
// handler value costs no host mutation.
type binding struct {
	handlers  map[string]any
	listeners map[string]*host.Listener
}

// patchProps applies next over prev on h. Keys are visited in sorted order so
// the resulting host ops are deterministic.
func (r *Renderer) patchProps(h host.Handle, prev, next vdom.Props) error {
	for _, key := range slices.Sorted(maps.Keys(next)) {
		if key == vdom.KeyProp || key == vdom.EmitsProp {
			continue
		}
		val := next[key]
		old, had := prev[key]
		if had && vdom.Equal(old, val) {
			continue
		}
		if !had && val == nil {
			continue
		}
		if err := r.setProp(h, key, val); err != nil {
			return err
		}
	}

	for _, key := range slices.Sorted(maps.Keys(prev)) {
		if key == vdom.KeyProp || key == vdom.EmitsProp {
			continue
		}
		if _, ok := next[key]; ok {
			continue
		}
		if err := r.removeProp(h, key, next); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) setProp(h host.Handle, key string, val any) error {
	switch {
	case vdom.IsEventKey(key):
		return r.setHandler(h, vdom.EventName(key), val)

	case vdom.IsClassKey(key):
		if s, ok := vdom.ClassString(val); ok {
			return hostError("set class", r.host.SetAttribute(h, "class", s))
		}
		return hostError("remove class", r.host.RemoveAttribute(h, "class"))

	case key == "style":
		s, decls, ok := vdom.StyleValue(val)
		switch {
		case !ok:
			return hostError("remove style", r.host.RemoveAttribute(h, "style"))
		case decls != nil:
			return hostError("set style", r.host.SetStyle(h, decls))
		default:
			return hostError("set style", r.host.SetAttribute(h, "style", s))
		}

	case val == nil:
		return hostError("remove attribute", r.host.RemoveAttribute(h, key))
	}
	return hostError("set attribute", r.host.SetAttribute(h, key, vdom.Stringify(val)))
}

// removeProp clears key, unless next still addresses the same event or class
// under another spelling.
func (r *Renderer) removeProp(h host.Handle, key string, next vdom.Props) error {
	switch {
	case vdom.IsEventKey(key):
		event := vdom.EventName(key)
		for k, v := range next {
			if v != nil && vdom.IsEventKey(k) && vdom.EventName(k) == event {
				return nil
			}
		}
		return r.removeHandler(h, event)

	case vdom.IsClassKey(key):
		for k := range next {
			if vdom.IsClassKey(k) {
				return nil
			}
		}
		return hostError("remove class", r.host.RemoveAttribute(h, "class"))
	}
	return hostError("remove attribute", r.host.RemoveAttribute(h, key))
}

func (r *Renderer) setHandler(h host.Handle, event string, fn any) error {
	if fn == nil {
		return r.removeHandler(h, event)
	}
	b := r.bindings[h]
	if b == nil {
		b = &binding{
			handlers:  make(map[string]any),
			listeners: make(map[string]*host.Listener),
		}
		r.bindings[h] = b
	}
	b.handlers[event] = fn
	if _, ok := b.listeners[event]; ok {
		return nil
	}

	l := host.NewListener(func(e host.Event) { r.dispatch(h, event, e) })
	if err := r.host.AddListener(h, event, l); err != nil {
		delete(b.handlers, event)
		return hostError("add listener", err)
	}
	b.listeners[event] = l
	return nil
}

func (r *Renderer) removeHandler(h host.Handle, event string) error {
	b := r.bindings[h]
	if b == nil {
		return nil
	}
	delete(b.handlers, event)
	l, ok := b.listeners[event]
	if !ok {
		return nil
	}
	delete(b.listeners, event)
	return hostError("remove listener", r.host.RemoveListener(h, event, l))
}

// dispatch calls the handler currently bound to event on h.
func (r *Renderer) dispatch(h host.Handle, event string, e host.Event) {
	b := r.bindings[h]
	if b == nil {
		return
	}
	switch fn := b.handlers[event].(type) {
	case nil:
	case func():
		fn()
	case func(host.Event):
		fn(e)
	case func(string):
		fn(e.Value)
	default:
		r.logger.Warn("unsupported event handler", "event", event, "type", fmt.Sprintf("%T", fn))
	}
}
