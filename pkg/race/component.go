package race

import (
	"maps"

	"github.com/vango-dev/race/pkg/vdom"
)

// Component renders a tree for one instance.
type Component interface {
	Render(i *Instance) *vdom.VNode
}

// DataProvider supplies the initial component data. The result is merged over
// the definition's WithData defaults.
type DataProvider interface {
	Data() map[string]any
}

// Mounter is implemented by components that want to know when their first
// tree is attached to the host.
type Mounter interface {
	Mounted(i *Instance)
}

// Unmounter is implemented by components that want to know when they are
// removed. It is called once per instance.
type Unmounter interface {
	Unmounted(i *Instance)
}

// RenderFunc adapts a plain function to Component.
type RenderFunc func(i *Instance) *vdom.VNode

// Render calls the wrapped function.
func (f RenderFunc) Render(i *Instance) *vdom.VNode {
	return f(i)
}

// Definition is a component type. Definitions are compared by pointer, so a
// definition is declared once and shared by every node that renders it.
type Definition struct {
	name         string
	factory      func() Component
	defaultProps map[string]any
	data         map[string]any
}

var _ vdom.Definition = (*Definition)(nil)

// DefineOption configures a Definition.
type DefineOption func(*Definition)

// WithDefaultProps sets props used when the parent does not supply them.
func WithDefaultProps(props map[string]any) DefineOption {
	return func(d *Definition) {
		d.defaultProps = maps.Clone(props)
	}
}

// WithData sets default data. A component's Data method overrides it key by key.
func WithData(data map[string]any) DefineOption {
	return func(d *Definition) {
		d.data = maps.Clone(data)
	}
}

// Define declares a component type. factory is called once per mounted
// instance.
func Define(name string, factory func() Component, opts ...DefineOption) *Definition {
	d := &Definition{name: name, factory: factory}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DefineFunc declares a component type that only renders.
func DefineFunc(name string, render RenderFunc, opts ...DefineOption) *Definition {
	return Define(name, func() Component { return render }, opts...)
}

// Name returns the component name.
func (d *Definition) Name() string {
	if d == nil {
		return ""
	}
	return d.name
}

// initialData builds a fresh data record for a new instance: definition
// defaults first, then the component's own Data.
func (d *Definition) initialData(c Component) map[string]any {
	data := cloneData(d.data)
	if p, ok := c.(DataProvider); ok {
		for k, v := range p.Data() {
			data[k] = v
		}
	}
	return data
}
