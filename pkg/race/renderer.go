package race

import (
	stderrors "errors"

	"github.com/vango-dev/race/internal/errors"
	"github.com/vango-dev/race/pkg/host"
	"github.com/vango-dev/race/pkg/vdom"
)

// Renderer applies virtual trees to a host. It is not safe for concurrent
// use; callers serialize all work for one host onto one goroutine.
type Renderer struct {
	options
	host host.Adapter

	// bindings holds the event handlers of every mounted element.
	bindings map[host.Handle]*binding

	// stack is the chain of instances currently mounting or updating.
	stack []*Instance
}

// NewRenderer creates a renderer that mutates adapter.
func NewRenderer(adapter host.Adapter, opts ...Option) *Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newRenderer(adapter, o)
}

func newRenderer(adapter host.Adapter, o options) *Renderer {
	if _, silent := o.observer.(nopObserver); !silent {
		rec := host.NewRecorder(adapter)
		rec.Discard = true
		obs := o.observer
		rec.OnOp = func(op host.Op) { obs.HostOp(op.Kind.String()) }
		adapter = rec
	}
	return &Renderer{
		options:  o,
		host:     adapter,
		bindings: make(map[host.Handle]*binding),
	}
}

// Host returns the adapter the renderer mutates.
func (r *Renderer) Host() host.Adapter { return r.host }

// NewInstance creates an unmounted root instance of def. Emits are taken from
// props["emits"]; key and emits never become props.
func (r *Renderer) NewInstance(def *Definition, props vdom.Props) *Instance {
	return r.newInstance(def, props)
}

// Render reconciles prev into next under parent: prev nil mounts next, next
// nil unmounts prev, otherwise the trees are patched.
func (r *Renderer) Render(prev, next *vdom.VNode, parent host.Handle) error {
	switch {
	case prev == nil && next == nil:
		return nil
	case prev == nil:
		return r.mount(next, parent, nil)
	case next == nil:
		return r.unmount(prev, true)
	}
	return r.patch(prev, next, parent)
}

func (r *Renderer) enter(i *Instance) { r.stack = append(r.stack, i) }

func (r *Renderer) leave() { r.stack = r.stack[:len(r.stack)-1] }

func (r *Renderer) current() *Instance {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// report sends err to the diagnostics channel.
func (r *Renderer) report(err error) {
	attrs := []any{"error", err, "code", errors.CodeOf(err)}
	var e *errors.Error
	if stderrors.As(err, &e) && e.Component != "" {
		attrs = append(attrs, "component_name", e.Component)
	}
	r.logger.Error("render error", attrs...)
	if r.onError != nil {
		r.onError(err)
	}
}

// fail reports err and returns it only when errors are raised.
func (r *Renderer) fail(err error) error {
	r.report(err)
	if r.raise {
		return err
	}
	return nil
}

func (r *Renderer) mount(v *vdom.VNode, parent, before host.Handle) error {
	switch v.Kind {
	case vdom.KindText:
		h, err := r.host.CreateText(v.Text)
		if err != nil {
			return hostError("create text", err)
		}
		v.Host = h
		if err := r.host.Insert(h, parent, before); err != nil {
			return hostError("insert", err)
		}

	case vdom.KindElement:
		h, err := r.host.CreateElement(v.Tag)
		if err != nil {
			return hostError("create element", err)
		}
		v.Host = h
		if err := r.patchProps(h, nil, v.Props); err != nil {
			return err
		}
		if err := r.host.Insert(h, parent, before); err != nil {
			return hostError("insert", err)
		}
		for _, child := range v.Children {
			if child == nil {
				continue
			}
			if err := r.mount(child, h, nil); err != nil {
				return err
			}
		}

	case vdom.KindComponent:
		if err := r.mountComponent(v, parent, before); err != nil {
			return err
		}

	default:
		return r.fail(errors.New(errors.CodeUnsupportedNode).WithDetailf("cannot mount %s node %q", v.Kind, v.TypeName()))
	}

	r.observer.NodeMounted(v.Kind)
	return nil
}

func (r *Renderer) mountComponent(v *vdom.VNode, parent, before host.Handle) error {
	def, ok := v.Component.(*Definition)
	if !ok || def == nil {
		return r.fail(errors.New(errors.CodeUnsupportedNode).WithDetailf("component %q was not declared with race.Define", v.TypeName()))
	}
	inst := r.newInstance(def, v.Props)
	inst.vnode = v
	inst.parent = r.current()
	v.Instance = inst
	return inst.mountAt(parent, before)
}

func (r *Renderer) patch(prev, next *vdom.VNode, parent host.Handle) error {
	if !vdom.SameNode(prev, next) {
		return r.replace(prev, next, parent)
	}
	next.Host = prev.Host

	switch next.Kind {
	case vdom.KindComponent:
		inst, ok := prev.Instance.(*Instance)
		if !ok {
			return nil
		}
		next.Instance = inst
		inst.vnode = next
		if err := inst.PatchProps(next.Props); err != nil {
			return err
		}

	case vdom.KindText:
		if prev.Text != next.Text {
			if err := r.host.SetText(next.Host, next.Text); err != nil {
				return hostError("set text", err)
			}
		}

	case vdom.KindElement:
		if err := r.patchProps(next.Host, prev.Props, next.Props); err != nil {
			return err
		}
		if err := r.patchChildren(prev, next); err != nil {
			return err
		}

	default:
		// Never mounted.
		return nil
	}

	r.observer.NodePatched(next.Kind)
	return nil
}

// replace mounts next right after prev's host position, then unmounts prev.
func (r *Renderer) replace(prev, next *vdom.VNode, parent host.Handle) error {
	var before host.Handle
	if prev.Host != nil {
		if p := r.host.Parent(prev.Host); p != nil {
			parent = p
		}
		before = r.host.NextSibling(prev.Host)
	}
	if err := r.mount(next, parent, before); err != nil {
		return err
	}
	if err := r.unmount(prev, true); err != nil {
		return err
	}
	r.observer.NodeReplaced(next.Kind)
	return nil
}

// unmount tears down v. Only the topmost host node is removed from the host;
// descendants go with it.
func (r *Renderer) unmount(v *vdom.VNode, removeHost bool) error {
	switch v.Kind {
	case vdom.KindComponent:
		if inst, ok := v.Instance.(*Instance); ok {
			if err := r.unmountInstance(inst, removeHost); err != nil {
				return err
			}
		}

	case vdom.KindText, vdom.KindElement:
		if v.Host != nil {
			if removeHost {
				if err := r.host.Remove(v.Host); err != nil {
					return hostError("remove", err)
				}
			}
			delete(r.bindings, v.Host)
		}
		for _, child := range v.Children {
			if child == nil {
				continue
			}
			if err := r.unmount(child, false); err != nil {
				return err
			}
		}

	default:
		return nil
	}

	r.observer.NodeUnmounted(v.Kind)
	return nil
}

// unmountInstance runs the instance's Unmounted hook once, while its host
// nodes are still attached, then tears down its tree. Nested components are
// reached by that teardown, so hooks fire parent first.
func (r *Renderer) unmountInstance(i *Instance, removeHost bool) error {
	if i.unmounted {
		return nil
	}
	i.unmounted = true
	if u, ok := i.comp.(Unmounter); ok {
		u.Unmounted(i)
	}

	var err error
	if i.tree != nil {
		err = r.unmount(i.tree, removeHost)
	}
	i.emits = vdom.Emits{}
	return err
}

// discard removes whatever part of i's tree a failed mount left in the host.
// i never mounted, so its own Unmounted hook does not run; nested components
// that did mount are unmounted normally. Removal errors are dropped; the
// caller returns the mount error.
func (r *Renderer) discard(i *Instance) {
	i.unmounted = true
	if i.tree != nil {
		_ = r.unmount(i.tree, true)
	}
	i.emits = vdom.Emits{}
}
