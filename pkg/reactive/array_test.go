package reactive

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestArrayMethodsNotifyOncePerCall(t *testing.T) {
	var c counter
	o := New(map[string]any{"list": []any{}}, c.inc)
	list := o.List("list")

	steps := []struct {
		name string
		op   func()
	}{
		{"push", func() { list.Push("a", "b", "c") }},
		{"pop", func() { list.Pop() }},
		{"unshift", func() { list.Unshift("z") }},
		{"shift", func() { list.Shift() }},
		{"splice", func() { list.Splice(1, 1, "x", "y") }},
		{"sort", func() { list.Sort(func(a, b any) bool { return a.(string) < b.(string) }) }},
		{"reverse", func() { list.Reverse() }},
		{"set", func() { list.Set(0, "q") }},
	}

	for i, s := range steps {
		s.op()
		if c.n != i+1 {
			t.Fatalf("after %s: notifications = %d, want %d", s.name, c.n, i+1)
		}
	}

	want := []any{"q", "x", "a"}
	if diff := cmp.Diff(want, o.List("list").Values()); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestArrayWritesBackToParent(t *testing.T) {
	o := New(map[string]any{"list": []any{1}}, nil)
	o.List("list").Push(2, 3)

	if diff := cmp.Diff([]any{1, 2, 3}, o.Raw()["list"]); diff != "" {
		t.Errorf("parent list mismatch (-want +got):\n%s", diff)
	}
}

func TestArrayNoChangeDoesNotNotify(t *testing.T) {
	var c counter
	a := NewArray(nil, c.inc)

	if _, ok := a.Pop(); ok {
		t.Error("Pop on empty list reported ok")
	}
	if _, ok := a.Shift(); ok {
		t.Error("Shift on empty list reported ok")
	}
	a.Push()
	a.Splice(0, 0)
	if a.Set(5, "x") {
		t.Error("Set past the end succeeded")
	}
	if c.n != 0 {
		t.Errorf("notifications = %d, want 0", c.n)
	}
}

func TestArraySplice(t *testing.T) {
	tests := []struct {
		name        string
		start, del  int
		items       []any
		wantRemoved []any
		want        []any
	}{
		{"remove middle", 1, 2, nil, []any{"b", "c"}, []any{"a", "d"}},
		{"insert", 2, 0, []any{"x"}, nil, []any{"a", "b", "x", "c", "d"}},
		{"negative start", -1, 1, nil, []any{"d"}, []any{"a", "b", "c"}},
		{"clamp count", 3, 10, nil, []any{"d"}, []any{"a", "b", "c"}},
		{"replace", 0, 1, []any{"z"}, []any{"a"}, []any{"z", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArray([]any{"a", "b", "c", "d"}, nil)
			removed := a.Splice(tt.start, tt.del, tt.items...)
			if diff := cmp.Diff(tt.wantRemoved, removed); diff != "" {
				t.Errorf("removed mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.want, a.Values()); diff != "" {
				t.Errorf("list mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestArrayNestedItemsAreReactive(t *testing.T) {
	var c counter
	o := New(map[string]any{
		"rows": []any{map[string]any{"done": false}, []any{1}},
	}, c.inc)

	row, ok := o.List("rows").Get(0).(*Object)
	if !ok {
		t.Fatalf("Get(0) = %T, want *Object", o.List("rows").Get(0))
	}
	row.Set("done", true)

	inner, ok := o.List("rows").Get(1).(*Array)
	if !ok {
		t.Fatalf("Get(1) = %T, want *Array", o.List("rows").Get(1))
	}
	inner.Push(2)

	if c.n != 2 {
		t.Errorf("notifications = %d, want 2", c.n)
	}
	if got := o.List("rows").Get(1).(*Array).Len(); got != 2 {
		t.Errorf("inner length = %d, want 2", got)
	}
	if !o.List("rows").Get(0).(*Object).Bool("done") {
		t.Error("nested write lost")
	}
}

func TestFrozenListRejectsMutation(t *testing.T) {
	var c counter
	o := New(map[string]any{"l": FrozenList{1, 2}}, c.inc)
	l := o.List("l")

	if !l.Frozen() {
		t.Fatal("Frozen() = false")
	}
	l.Push(3)
	l.Pop()
	l.Splice(0, 1)
	l.Reverse()
	if l.Set(0, 9) {
		t.Error("Set on frozen list succeeded")
	}
	if c.n != 0 {
		t.Errorf("notifications = %d, want 0", c.n)
	}
	if diff := cmp.Diff([]any{1, 2}, l.Values()); diff != "" {
		t.Errorf("frozen list changed (-want +got):\n%s", diff)
	}
}

func TestNestedListFollowsReorder(t *testing.T) {
	var c counter
	o := New(map[string]any{"lists": []any{[]any{1}, []any{2}}}, c.inc)
	lists := o.List("lists")
	inner := lists.Get(1).(*Array)

	lists.Shift()
	if n := inner.Push(3); n != 2 {
		t.Errorf("Push() = %d, want 2", n)
	}
	if c.n != 2 {
		t.Errorf("notifications = %d, want 2", c.n)
	}
	want := map[string]any{"lists": []any{[]any{2, 3}}}
	if diff := cmp.Diff(want, o.Raw()); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}

	lists.Push([]any{"x"})
	lists.Reverse()
	inner.Pop()
	want = map[string]any{"lists": []any{[]any{"x"}, []any{2}}}
	if diff := cmp.Diff(want, o.Raw()); diff != "" {
		t.Errorf("after reverse (-want +got):\n%s", diff)
	}
}

func TestDetachedNestedListRejectsWrites(t *testing.T) {
	var c counter
	o := New(map[string]any{"lists": []any{[]any{1}, []any{}}}, c.inc)
	lists := o.List("lists")
	first := lists.Get(0).(*Array)
	empty := lists.Get(1).(*Array)

	lists.Splice(0, 2)
	c.n = 0

	if first.Push(9) != 1 {
		t.Errorf("Push on detached list = %d, want 1", first.Len())
	}
	if empty.Set(0, "y") {
		t.Error("Set on detached list succeeded")
	}
	if !first.Detached() || !empty.Detached() {
		t.Error("removed lists should report Detached")
	}
	if c.n != 0 {
		t.Errorf("notifications = %d, want 0", c.n)
	}
	want := map[string]any{"lists": []any{}}
	if diff := cmp.Diff(want, o.Raw()); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
}
