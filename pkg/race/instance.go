package race

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/race/internal/errors"
	"github.com/vango-dev/race/pkg/host"
	"github.com/vango-dev/race/pkg/reactive"
	"github.com/vango-dev/race/pkg/vdom"
)

// Instance is one mounted use of a Definition. It owns its reactive data and
// the tree it rendered last.
type Instance struct {
	def      *Definition
	comp     Component
	renderer *Renderer

	props Props
	data  *reactive.Object
	emits vdom.Emits

	// tree is the last committed render output.
	tree *vdom.VNode

	// vnode is the component node in the parent's tree; nil for a root.
	vnode  *vdom.VNode
	parent *Instance

	// container is the host parent at mount time, used when the root of
	// tree has no host node to ask.
	container host.Handle

	mounted   bool
	unmounted bool
	rendering bool

	// updating is set while the instance mounts or patches its tree. A
	// mutation arriving then is queued in pending and gets its own pass once
	// the running one has committed.
	updating bool
	pending  int
}

// maxUpdatePasses bounds the queued passes one outer update may run.
const maxUpdatePasses = 100

var _ vdom.Mounted = (*Instance)(nil)

func (r *Renderer) newInstance(def *Definition, props vdom.Props) *Instance {
	i := &Instance{
		def:      def,
		comp:     def.factory(),
		renderer: r,
		props:    newProps(def.defaultProps, props),
		emits:    emitsOf(props),
	}
	i.data = reactive.New(def.initialData(i.comp), i.onChange)
	return i
}

// Name returns the component name.
func (i *Instance) Name() string { return i.def.Name() }

// Definition returns the component type.
func (i *Instance) Definition() vdom.Definition { return i.def }

// Props returns the frozen props.
func (i *Instance) Props() Props { return i.props }

// Data returns the component's reactive data.
func (i *Instance) Data() *reactive.Object { return i.data }

// Tree returns the last committed tree, or nil before mount.
func (i *Instance) Tree() *vdom.VNode { return i.tree }

// Host returns the host node of the rendered root.
func (i *Instance) Host() host.Handle {
	if i.tree == nil {
		return nil
	}
	return i.tree.Host
}

// Parent returns the instance whose tree contains this one, or nil.
func (i *Instance) Parent() *Instance { return i.parent }

// IsMounted reports whether the instance is attached to the host.
func (i *Instance) IsMounted() bool { return i.mounted && !i.unmounted }

// Emit invokes the callback the parent registered under name. Unknown names
// are ignored.
func (i *Instance) Emit(name string, args ...any) {
	if fn := i.emits[name]; fn != nil {
		fn(args...)
	}
}

// HasEmit reports whether the parent registered a callback under name.
func (i *Instance) HasEmit(name string) bool {
	return i.emits[name] != nil
}

// Mount renders the component for the first time into container and fires
// Mounted.
func (i *Instance) Mount(container host.Handle) error {
	if i.unmounted {
		return errors.New(errors.CodeUnmounted).WithComponent(i.Name())
	}
	if i.mounted {
		return nil
	}
	return i.mountAt(container, nil)
}

func (i *Instance) mountAt(parent, before host.Handle) error {
	r := i.renderer
	_, span := r.tracer.Start(context.Background(), "race.mount",
		trace.WithAttributes(attribute.String("race.component", i.Name())))
	defer span.End()

	i.updating = true
	err := i.mountTree(span, parent, before)
	i.updating = false
	if err != nil {
		i.pending = 0
		recordSpanError(span, err)
		r.discard(i)
		return err
	}
	i.mounted = true

	if err := i.flush(); err != nil {
		recordSpanError(span, err)
		return err
	}
	if m, ok := i.comp.(Mounter); ok && !i.unmounted {
		m.Mounted(i)
	}
	return nil
}

func (i *Instance) mountTree(span trace.Span, parent, before host.Handle) error {
	r := i.renderer
	tree, err := i.render()
	if err != nil {
		recordSpanError(span, err)
		if err := r.fail(err); err != nil {
			return err
		}
		tree = vdom.Text("")
	}

	i.tree = tree
	i.container = parent
	r.enter(i)
	err = r.mount(tree, parent, before)
	r.leave()
	if err != nil {
		return err
	}
	i.syncHost()
	return nil
}

// Update re-renders the component and patches the host with the difference
// to the previous tree. A render panic is reported and leaves the previous
// tree in place. Updates before mount or after unmount do nothing.
//
// An Update requested while the instance is already mounting or patching,
// typically from a child's Mounted hook or an emit handler, runs as its own
// pass after the current one commits.
func (i *Instance) Update() error {
	if i.unmounted || i.rendering {
		return nil
	}
	if i.updating {
		i.pending++
		return nil
	}
	if !i.mounted {
		return nil
	}
	i.pending++
	return i.flush()
}

// flush runs queued passes one at a time until none are left.
func (i *Instance) flush() error {
	for passes := 0; i.pending > 0 && !i.unmounted; passes++ {
		if passes == maxUpdatePasses {
			i.pending = 0
			return i.renderer.fail(errors.New(errors.CodeUpdateLoop).
				WithComponent(i.Name()).
				WithDetailf("more than %d queued updates", maxUpdatePasses))
		}
		i.pending--
		if err := i.update(); err != nil {
			i.pending = 0
			return err
		}
	}
	i.pending = 0
	return nil
}

func (i *Instance) update() error {
	r := i.renderer
	_, span := r.tracer.Start(context.Background(), "race.update",
		trace.WithAttributes(attribute.String("race.component", i.Name())))
	defer span.End()

	next, err := i.render()
	if err != nil {
		recordSpanError(span, err)
		return r.fail(err)
	}

	prev := i.tree
	parent := r.host.Parent(prev.Host)
	if parent == nil {
		parent = i.container
	}

	i.updating = true
	r.enter(i)
	err = r.patch(prev, next, parent)
	r.leave()
	i.updating = false

	i.tree = next
	i.syncHost()
	if err != nil {
		recordSpanError(span, err)
		return err
	}
	return nil
}

// PatchProps overlays props on the current props, replaces the emits table
// and re-renders. The component's data is untouched.
func (i *Instance) PatchProps(props vdom.Props) error {
	i.props = newProps(i.props.m, props)
	i.emits = emitsOf(props)
	return i.Update()
}

// Unmount fires Unmounted on the component and then on every nested
// component, removes the host nodes and clears the emits table.
func (i *Instance) Unmount() error {
	if !i.mounted || i.unmounted {
		return nil
	}
	return i.renderer.unmountInstance(i, true)
}

func (i *Instance) onChange() {
	if err := i.Update(); err != nil && errors.CodeOf(err) != errors.CodeRenderPanic {
		i.renderer.report(err)
	}
}

func (i *Instance) render() (tree *vdom.VNode, err error) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			tree = nil
			e := errors.New(errors.CodeRenderPanic).WithComponent(i.Name())
			if cause, ok := rec.(error); ok {
				e.Wrap(cause)
			} else {
				e.WithDetail(fmt.Sprint(rec))
			}
			err = e
		}
		i.renderer.observer.Rendered(i.Name(), time.Since(start), err)
	}()

	i.rendering = true
	defer func() { i.rendering = false }()

	tree = i.comp.Render(i)
	if tree == nil {
		tree = vdom.Text("")
	}
	return tree, nil
}

// syncHost points the component node, and every ancestor component node
// whose tree root it is, at the current root host node.
func (i *Instance) syncHost() {
	h := i.tree.Host
	for c := i; c.vnode != nil; c = c.parent {
		c.vnode.Host = h
		if c.parent == nil || c.parent.tree != c.vnode {
			return
		}
	}
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
