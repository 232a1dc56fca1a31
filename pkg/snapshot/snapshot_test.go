package snapshot

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vango-dev/race/pkg/host"
	"github.com/vango-dev/race/pkg/race"
	"github.com/vango-dev/race/pkg/vdom"
)

func renderList(t *testing.T) *host.Memory {
	t.Helper()
	def := race.DefineFunc("List", func(i *race.Instance) *vdom.VNode {
		return vdom.Ul(
			vdom.Class("items"),
			vdom.StyleMap(map[string]string{"color": "red"}),
			vdom.Li(vdom.Key(1), vdom.OnClick(func() {}), "one & two"),
			vdom.Li(vdom.Key(2), "three"),
		)
	})
	mem := host.NewMemory()
	app := race.CreateApp(def, nil, race.WithHost(mem))
	if err := app.Mount(mem.Body()); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	return mem
}

func TestCaptureAndHTML(t *testing.T) {
	mem := renderList(t)
	snap := Capture("List", mem.Body())

	if snap.Version != SchemaVersion || snap.Component != "List" {
		t.Errorf("header = %d %q, want %d List", snap.Version, snap.Component, SchemaVersion)
	}
	want := &Node{Tag: "body", Children: []*Node{{
		Tag:   "ul",
		Attrs: map[string]string{"class": "items"},
		Style: map[string]string{"color": "red"},
		Children: []*Node{
			{Tag: "li", Children: []*Node{{Text: "one & two"}}},
			{Tag: "li", Children: []*Node{{Text: "three"}}},
		},
	}}}
	if diff := cmp.Diff(want, snap.Root); diff != "" {
		t.Errorf("Capture() mismatch (-want +got):\n%s", diff)
	}

	got, err := snap.HTML()
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	if want := mem.Body().InnerHTML(); got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
}

func TestRestoreRecordsOps(t *testing.T) {
	snap := Capture("List", renderList(t).Body())
	rec := host.NewRecorder(host.NewMemory())
	mem := rec.Inner().(*host.Memory)

	if err := snap.Restore(rec, mem.Body()); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if got := rec.Count(host.OpCreateElement); got != 3 {
		t.Errorf("created elements = %d, want 3", got)
	}
	if got := rec.Count(host.OpAddListener); got != 0 {
		t.Errorf("listeners = %d, want 0", got)
	}
	if got := mem.Body().TextContent(); got != "one & twothree" {
		t.Errorf("TextContent = %q, want %q", got, "one & twothree")
	}
}

func TestMsgpackRoundTrip(t *testing.T) {
	snap := Capture("List", renderList(t).Body())

	data, err := EncodeMsgpack(snap)
	if err != nil {
		t.Fatalf("EncodeMsgpack() error = %v", err)
	}
	got, err := DecodeMsgpack(data)
	if err != nil {
		t.Fatalf("DecodeMsgpack() error = %v", err)
	}
	if diff := cmp.Diff(snap.Root, got.Root); diff != "" {
		t.Errorf("Root mismatch (-want +got):\n%s", diff)
	}
	if !got.CreatedAt.Equal(snap.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, snap.CreatedAt)
	}
}

func TestDecodeRejectsOtherVersions(t *testing.T) {
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(&Snapshot{Version: SchemaVersion + 1}); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if _, err := Decode(&buf); err == nil {
		t.Error("Decode() accepted a future schema version")
	}
	if _, err := DecodeMsgpack([]byte{0xc1}); err == nil {
		t.Error("DecodeMsgpack() accepted garbage")
	}
}
