package race

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/vango-dev/race/pkg/host"
	"github.com/vango-dev/race/pkg/vdom"
)

var greeting = DefineFunc("Greeting", func(i *Instance) *vdom.VNode {
	return vdom.P(vdom.Textf("%s, %s", i.Props().String("greeting"), i.Props().String("name")))
}, WithDefaultProps(map[string]any{"greeting": "Hello", "name": "nobody"}))

func TestCreateAppMountBySelector(t *testing.T) {
	mem := host.NewMemory()
	container, _ := mem.CreateElement("div")
	mem.SetAttribute(container, "id", "app")
	mem.Insert(container, mem.Body(), nil)

	app := CreateApp(greeting, vdom.Props{"name": "race"}, WithHost(mem))
	if err := app.Mount("#app"); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	want := `<div id="app"><p>Hello, race</p></div>`
	if got := mem.Body().InnerHTML(); got != want {
		t.Errorf("InnerHTML = %v, want %v", got, want)
	}
	if app.Root() == nil || !app.Root().IsMounted() {
		t.Fatal("root not mounted")
	}

	if err := app.Unmount(); err != nil {
		t.Fatalf("Unmount: %v", err)
	}
	if got := mem.Body().InnerHTML(); got != `<div id="app"></div>` {
		t.Errorf("InnerHTML after unmount = %v", got)
	}
	if app.Root() != nil {
		t.Error("root kept after unmount")
	}
}

func TestCreateAppMountByHandle(t *testing.T) {
	mem := host.NewMemory()
	app := CreateApp(greeting, nil, WithHost(mem))
	if err := app.Mount(mem.Body()); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if got := mem.Body().TextContent(); got != "Hello, nobody" {
		t.Errorf("TextContent = %q", got)
	}
}

func TestCreateAppTargetNotFound(t *testing.T) {
	var reported []error
	app := CreateApp(greeting, nil, WithRendererOptions(WithErrorHandler(func(err error) {
		reported = append(reported, err)
	})))
	if err := app.Mount("#missing"); err != nil {
		t.Errorf("Mount = %v, want nil", err)
	}
	if len(reported) != 1 || !stderrors.Is(reported[0], ErrTargetNotFound) {
		t.Errorf("reported = %v, want ErrTargetNotFound", reported)
	}
	if app.Root() != nil {
		t.Error("root created for a missing target")
	}

	raising := CreateApp(greeting, nil, WithRendererOptions(WithRaiseErrors(true)))
	err := raising.Mount(nil)
	if !stderrors.Is(err, ErrTargetNotFound) {
		t.Errorf("Mount = %v, want ErrTargetNotFound", err)
	}
	if stderrors.Is(err, ErrRenderPanic) {
		t.Error("target error matches an unrelated sentinel")
	}
}

type countingObserver struct {
	nopObserver
	mounted  map[vdom.Kind]int
	renders  int
	hostOps  map[string]int
	replaced int
}

func (o *countingObserver) NodeMounted(k vdom.Kind)               { o.mounted[k]++ }
func (o *countingObserver) NodeReplaced(vdom.Kind)                { o.replaced++ }
func (o *countingObserver) Rendered(string, time.Duration, error) { o.renders++ }
func (o *countingObserver) HostOp(op string)                      { o.hostOps[op]++ }

func TestObserverSeesActivity(t *testing.T) {
	obs := &countingObserver{mounted: map[vdom.Kind]int{}, hostOps: map[string]int{}}
	mem := host.NewMemory()
	app := CreateApp(greeting, nil, WithHost(mem), WithRendererOptions(WithObserver(obs)))
	if err := app.Mount(mem.Body()); err != nil {
		t.Fatal(err)
	}
	if obs.renders != 1 {
		t.Errorf("renders = %d, want 1", obs.renders)
	}
	if obs.mounted[vdom.KindElement] != 1 || obs.mounted[vdom.KindText] != 1 {
		t.Errorf("mounted = %v", obs.mounted)
	}
	if obs.hostOps["CreateElement"] != 1 || obs.hostOps["Insert"] != 2 {
		t.Errorf("host ops = %v", obs.hostOps)
	}
}

// brokenHost refuses to create <broken> elements while fail is set.
type brokenHost struct {
	*host.Memory
	fail bool
}

func (b *brokenHost) CreateElement(tag string) (host.Handle, error) {
	if b.fail && tag == "broken" {
		return nil, stderrors.New("broken element")
	}
	return b.Memory.CreateElement(tag)
}

func TestMountFailureLeavesNoPartialTree(t *testing.T) {
	var mounts, unmounts int
	kid := Define("Kid", func() Component { return &lifecycle{mounts: &mounts, unmounts: &unmounts} })
	def := DefineFunc("Partial", func(*Instance) *vdom.VNode {
		return vdom.Div(vdom.P("ok"), vdom.C(kid, nil), vdom.CustomElement("broken"))
	})
	h := &brokenHost{Memory: host.NewMemory(), fail: true}
	app := CreateApp(def, nil, WithHost(h))

	if err := app.Mount(h.Body()); err == nil {
		t.Fatal("Mount succeeded on a failing host")
	}
	if app.Root() != nil {
		t.Error("Root() should be nil after a failed mount")
	}
	if h.Len() != 1 {
		t.Errorf("live nodes = %d, want only body", h.Len())
	}
	if mounts != 1 || unmounts != 1 {
		t.Errorf("kid mounts/unmounts = %d/%d, want 1/1", mounts, unmounts)
	}

	h.fail = false
	if err := app.Mount(h.Body()); err != nil {
		t.Fatalf("retry Mount: %v", err)
	}
	if got := h.Body().InnerHTML(); got != "<div><p>ok</p><span></span><broken></broken></div>" {
		t.Errorf("InnerHTML = %v", got)
	}
}

type lifecycle struct{ mounts, unmounts *int }

func (l *lifecycle) Render(*Instance) *vdom.VNode { return vdom.Span() }
func (l *lifecycle) Mounted(*Instance)            { *l.mounts++ }
func (l *lifecycle) Unmounted(*Instance)          { *l.unmounts++ }
