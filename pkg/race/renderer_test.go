package race

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/race/internal/errors"
	"github.com/vango-dev/race/pkg/host"
	"github.com/vango-dev/race/pkg/vdom"
)

type fixture struct {
	mem  *host.Memory
	rec  *host.Recorder
	r    *Renderer
	errs []error
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{mem: host.NewMemory()}
	f.rec = host.NewRecorder(f.mem)
	opts = append([]Option{WithErrorHandler(func(err error) { f.errs = append(f.errs, err) })}, opts...)
	f.r = NewRenderer(f.rec, opts...)
	return f
}

func (f *fixture) body() *host.Node { return f.mem.Body() }

func (f *fixture) render(t *testing.T, prev, next *vdom.VNode) {
	t.Helper()
	if err := f.r.Render(prev, next, f.body()); err != nil {
		t.Fatalf("Render: %v", err)
	}
}

func keyedList(keys ...string) *vdom.VNode {
	items := make([]*vdom.VNode, len(keys))
	for i, k := range keys {
		items[i] = vdom.Li(vdom.Key(k), k)
	}
	return vdom.Ul(items)
}

func childTexts(n *host.Node) []string {
	var out []string
	for _, c := range n.Children() {
		out = append(out, c.TextContent())
	}
	return out
}

func TestMountElementTree(t *testing.T) {
	f := newFixture(t)
	tree := vdom.Div(vdom.ID("root"), vdom.ClassList("a", "b"),
		vdom.H1("Title"),
		vdom.P(vdom.StyleMap(map[string]string{"color": "red"}), "body"),
	)
	f.render(t, nil, tree)

	want := `<div class="a b" id="root"><h1>Title</h1><p style="color: red">body</p></div>`
	if got := f.body().InnerHTML(); got != want {
		t.Errorf("InnerHTML = %v, want %v", got, want)
	}
	if tree.Host == nil {
		t.Error("Host not bound after mount")
	}
	if tree.Children[0].Host == nil || tree.Children[0].Children[0].Host == nil {
		t.Error("child hosts not bound after mount")
	}
}

func TestPatchIdenticalTreeIsNoop(t *testing.T) {
	f := newFixture(t)
	build := func() *vdom.VNode {
		return vdom.Div(vdom.Class("card"), vdom.OnClick(func() {}),
			keyedList("a", "b", "c"),
			vdom.P(vdom.StyleMap(map[string]string{"width": "1px"}), "text"),
			vdom.Span(vdom.ClassMap(map[string]bool{"x": true})),
		)
	}
	prev := build()
	f.render(t, nil, prev)
	f.rec.Reset()

	next := build()
	f.render(t, prev, next)
	if ops := f.rec.Ops(); len(ops) != 0 {
		t.Errorf("identical re-render produced %d host ops: %v", len(ops), ops)
	}
	if next.Host != prev.Host {
		t.Error("root host not reused")
	}
}

func TestKeyedDiffMovesWithoutRemount(t *testing.T) {
	f := newFixture(t)
	prev := keyedList("a", "b", "c", "d")
	f.render(t, nil, prev)
	hosts := map[string]host.Handle{}
	for _, c := range prev.Children {
		hosts[c.Key.(string)] = c.Host
	}
	f.rec.Reset()

	next := keyedList("d", "a", "b")
	f.render(t, prev, next)

	ul := prev.Host.(*host.Node)
	if diff := cmp.Diff([]string{"d", "a", "b"}, childTexts(ul)); diff != "" {
		t.Errorf("host order mismatch (-want +got):\n%s", diff)
	}
	for _, c := range next.Children {
		if c.Host != hosts[c.Key.(string)] {
			t.Errorf("node %v was recreated", c.Key)
		}
	}
	if n := f.rec.Count(host.OpCreateElement, host.OpCreateText); n != 0 {
		t.Errorf("create ops = %d, want 0", n)
	}
	if n := f.rec.Count(host.OpRemove); n != 1 {
		t.Errorf("remove ops = %d, want 1 (c)", n)
	}
	if _, ok := f.mem.Lookup(hosts["c"].(*host.Node).ID()); ok {
		t.Error("c still in the host tree")
	}
}

func TestKeyedDiffOrders(t *testing.T) {
	tests := []struct {
		name      string
		old, next []string
	}{
		{"append", []string{"a", "b"}, []string{"a", "b", "c"}},
		{"prepend", []string{"b", "c"}, []string{"a", "b", "c"}},
		{"insert middle", []string{"a", "c"}, []string{"a", "b", "c"}},
		{"remove middle", []string{"a", "b", "c"}, []string{"a", "c"}},
		{"reverse", []string{"a", "b", "c", "d", "e"}, []string{"e", "d", "c", "b", "a"}},
		{"rotate left", []string{"a", "b", "c", "d"}, []string{"b", "c", "d", "a"}},
		{"rotate right", []string{"a", "b", "c", "d"}, []string{"d", "a", "b", "c"}},
		{"shuffle", []string{"a", "b", "c", "d", "e", "f"}, []string{"c", "f", "a", "e", "b", "d"}},
		{"replace all", []string{"a", "b"}, []string{"x", "y", "z"}},
		{"clear", []string{"a", "b", "c"}, nil},
		{"from empty", nil, []string{"a", "b"}},
		{"swap ends with new middle", []string{"a", "b", "c"}, []string{"c", "x", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			prev := keyedList(tt.old...)
			f.render(t, nil, prev)
			hosts := map[string]host.Handle{}
			for _, c := range prev.Children {
				hosts[c.Key.(string)] = c.Host
			}

			next := keyedList(tt.next...)
			f.render(t, prev, next)

			got := childTexts(prev.Host.(*host.Node))
			if diff := cmp.Diff(tt.next, got); diff != "" {
				t.Errorf("host order mismatch (-want +got):\n%s", diff)
			}
			for _, c := range next.Children {
				if old, ok := hosts[c.Key.(string)]; ok && c.Host != old {
					t.Errorf("node %v was recreated", c.Key)
				}
			}
			// Every surviving host node is live; every dropped one is gone.
			kept := map[string]bool{}
			for _, k := range tt.next {
				kept[k] = true
			}
			for k, h := range hosts {
				_, live := f.mem.Lookup(h.(*host.Node).ID())
				if live != kept[k] {
					t.Errorf("node %s live = %v, want %v", k, live, kept[k])
				}
			}
		})
	}
}

func TestUnkeyedChildrenPatchInPlace(t *testing.T) {
	f := newFixture(t)
	prev := vdom.Ul(vdom.Li("one"), vdom.Li("two"))
	f.render(t, nil, prev)
	f.rec.Reset()

	next := vdom.Ul(vdom.Li("uno"), vdom.Li("two"), vdom.Li("tres"))
	f.render(t, prev, next)

	if diff := cmp.Diff([]string{"uno", "two", "tres"}, childTexts(prev.Host.(*host.Node))); diff != "" {
		t.Errorf("host order mismatch (-want +got):\n%s", diff)
	}
	if n := f.rec.Count(host.OpSetText); n != 1 {
		t.Errorf("set text ops = %d, want 1", n)
	}
	if n := f.rec.Count(host.OpCreateElement); n != 1 {
		t.Errorf("create element ops = %d, want 1", n)
	}
	if next.Children[0].Host != prev.Children[0].Host {
		t.Error("first li recreated")
	}
}

func TestSameKeyDifferentTypeReplaces(t *testing.T) {
	f := newFixture(t)
	prev := vdom.Div(vdom.P("before"), vdom.Li(vdom.Key("x"), "old"), vdom.P("after"))
	f.render(t, nil, prev)
	oldHost := prev.Children[1].Host
	f.rec.Reset()

	next := vdom.Div(vdom.P("before"), vdom.Span(vdom.Key("x"), "new"), vdom.P("after"))
	f.render(t, prev, next)

	if next.Children[1].Host == oldHost {
		t.Fatal("host reused across types")
	}
	if n := f.rec.Count(host.OpCreateElement); n != 1 {
		t.Errorf("create element ops = %d, want 1", n)
	}
	if n := f.rec.Count(host.OpRemove); n != 1 {
		t.Errorf("remove ops = %d, want 1", n)
	}
	if n := f.rec.Count(host.OpSetAttribute, host.OpRemoveAttribute); n != 0 {
		t.Errorf("attribute ops = %d, want 0", n)
	}
	want := `<div><p>before</p><span>new</span><p>after</p></div>`
	if got := f.body().InnerHTML(); got != want {
		t.Errorf("InnerHTML = %v, want %v", got, want)
	}
}

func TestPatchText(t *testing.T) {
	f := newFixture(t)
	prev := vdom.P("a")
	f.render(t, nil, prev)
	f.rec.Reset()

	f.render(t, prev, vdom.P("b"))
	ops := f.rec.Ops()
	if len(ops) != 1 || ops[0].Kind != host.OpSetText || ops[0].Value != "b" {
		t.Errorf("ops = %v, want one set text b", ops)
	}
}

func TestPatchAttributes(t *testing.T) {
	f := newFixture(t)
	prev := vdom.Div(vdom.ID("a"), vdom.TitleAttr("t"), vdom.Class("x"), vdom.StyleAttr("color: red"))
	f.render(t, nil, prev)

	next := vdom.Div(vdom.ID("b"), vdom.ClassMap(map[string]bool{"y": true, "z": false}))
	f.render(t, prev, next)

	want := `<div class="y" id="b"></div>`
	if got := f.body().InnerHTML(); got != want {
		t.Errorf("InnerHTML = %v, want %v", got, want)
	}

	f.rec.Reset()
	last := vdom.Div(vdom.ID("b"), vdom.Prop("className", 42))
	f.render(t, next, last)
	if _, ok := last.Host.(*host.Node).Attr("class"); ok {
		t.Error("invalid class value kept the class attribute")
	}
}

func TestKeyAndEmitsNeverBecomeAttributes(t *testing.T) {
	f := newFixture(t)
	tree := vdom.Div(vdom.Key(0), vdom.EmitsAttr(vdom.Emits{"x": func(...any) {}}))
	f.render(t, nil, tree)
	if attrs := tree.Host.(*host.Node).Attrs(); len(attrs) != 0 {
		t.Errorf("Attrs = %v, want none", attrs)
	}
	if tree.Key != 0 {
		t.Errorf("Key = %v, want 0", tree.Key)
	}
}

func TestEventHandlers(t *testing.T) {
	f := newFixture(t)
	var calls []string

	prev := vdom.Button(vdom.OnClick(func() { calls = append(calls, "first") }))
	f.render(t, nil, prev)
	btn := prev.Host.(*host.Node)
	if n := btn.ListenerCount("click"); n != 1 {
		t.Fatalf("ListenerCount = %d, want 1", n)
	}
	f.mem.Dispatch(btn, "click", host.Event{})

	f.rec.Reset()
	next := vdom.Button(vdom.On("Click", func(e host.Event) { calls = append(calls, "second:"+e.Type) }))
	f.render(t, prev, next)
	if n := f.rec.Len(); n != 0 {
		t.Errorf("handler swap produced %d host ops, want 0", n)
	}
	f.mem.Dispatch(btn, "click", host.Event{})

	third := vdom.Button(vdom.OnInput(func(v string) { calls = append(calls, "input:"+v) }))
	f.render(t, next, third)
	if n := btn.ListenerCount("click"); n != 0 {
		t.Errorf("click ListenerCount = %d, want 0", n)
	}
	f.mem.Dispatch(btn, "click", host.Event{})
	f.mem.Dispatch(btn, "input", host.Event{Value: "hi"})

	want := []string{"first", "second:click", "input:hi"}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestUnsupportedNodeIsReported(t *testing.T) {
	f := newFixture(t)
	tree := vdom.Div(vdom.New(3.5, nil, nil), vdom.P("still here"))
	f.render(t, nil, tree)

	if len(f.errs) != 1 || errors.CodeOf(f.errs[0]) != errors.CodeUnsupportedNode {
		t.Fatalf("reported = %v, want one %s", f.errs, errors.CodeUnsupportedNode)
	}
	if got := f.body().InnerHTML(); got != "<div><p>still here</p></div>" {
		t.Errorf("InnerHTML = %v", got)
	}

	raising := newFixture(t, WithRaiseErrors(true))
	err := raising.r.Render(nil, vdom.New(3.5, nil, nil), raising.body())
	if err == nil || errors.CodeOf(err) != errors.CodeUnsupportedNode {
		t.Errorf("Render = %v, want %s", err, errors.CodeUnsupportedNode)
	}
}

func TestHostErrorsPropagate(t *testing.T) {
	f := newFixture(t)
	text, _ := f.mem.CreateText("x")
	err := f.r.Render(nil, vdom.Div(), text)
	if err == nil {
		t.Fatal("Render into a text node succeeded")
	}
	if errors.CodeOf(err) != errors.CodeHostOperation {
		t.Errorf("code = %v, want %v", errors.CodeOf(err), errors.CodeHostOperation)
	}
	if len(f.errs) != 0 {
		t.Errorf("host error was reported as diagnostics: %v", f.errs)
	}
}
