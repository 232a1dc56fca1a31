package reactive

import "sort"

// Array is a reactive view of a list. Every in-place method is intercepted
// individually and notifies once per call.
type Array struct {
	// load returns the current items. ok is false once a nested list is no
	// longer held by its parent; items is then the last slice seen.
	load   func() (items []any, ok bool)
	store  func([]any)
	frozen bool
	notify func()
}

// NewArray wraps a top-level list.
func NewArray(items []any, onChange func()) *Array {
	box := items
	return &Array{
		load:   func() ([]any, bool) { return box, true },
		store:  func(s []any) { box = s },
		notify: nonNil(onChange),
	}
}

// Frozen reports whether mutations are rejected.
func (a *Array) Frozen() bool {
	return a.frozen
}

// Detached reports whether the list was removed from the record or list it
// came from. Mutations of a detached list are rejected.
func (a *Array) Detached() bool {
	_, ok := a.load()
	return !ok
}

func (a *Array) items() []any {
	items, _ := a.load()
	return items
}

// writable returns the current items when the list accepts mutation.
func (a *Array) writable() ([]any, bool) {
	items, ok := a.load()
	return items, ok && !a.frozen
}

// Len returns the number of items.
func (a *Array) Len() int {
	return len(a.items())
}

// Get returns the item at i, wrapped when it is a record or a list.
// Out of range indexes yield nil. A nested list stays bound to its own
// slice, so reordering this list does not redirect it.
func (a *Array) Get(i int) any {
	items := a.items()
	if i < 0 || i >= len(items) {
		return nil
	}
	if !a.frozen {
		items[i] = stableList(items[i])
	}
	return wrap(items[i], a.notify, func(match func(any) bool) (any, func(any), bool) {
		cur, ok := a.load()
		if !ok {
			return nil, nil, false
		}
		for j, v := range cur {
			if match(v) {
				return v, func(nv any) { cur[j] = nv }, true
			}
		}
		return nil, nil, false
	})
}

// Values returns a deep copy of the items.
func (a *Array) Values() []any {
	return cloneSlice(a.items())
}

// Set replaces the item at i. Setting index Len() appends.
func (a *Array) Set(i int, v any) bool {
	items, ok := a.writable()
	if !ok {
		return false
	}
	switch {
	case i < 0 || i > len(items):
		return false
	case i == len(items):
		a.store(append(items, unwrap(v)))
	default:
		items[i] = unwrap(v)
	}
	a.notify()
	return true
}

// Push appends items and returns the new length.
func (a *Array) Push(items ...any) int {
	cur, ok := a.writable()
	if !ok || len(items) == 0 {
		return len(cur)
	}
	for _, it := range items {
		cur = append(cur, unwrap(it))
	}
	a.store(cur)
	a.notify()
	return len(cur)
}

// Pop removes and returns the last item.
func (a *Array) Pop() (any, bool) {
	cur, ok := a.writable()
	if !ok || len(cur) == 0 {
		return nil, false
	}
	last := cur[len(cur)-1]
	a.store(cur[:len(cur)-1])
	a.notify()
	return last, true
}

// Shift removes and returns the first item.
func (a *Array) Shift() (any, bool) {
	cur, ok := a.writable()
	if !ok || len(cur) == 0 {
		return nil, false
	}
	first := cur[0]
	a.store(append(cur[:0:0], cur[1:]...))
	a.notify()
	return first, true
}

// Unshift prepends items and returns the new length.
func (a *Array) Unshift(items ...any) int {
	cur, ok := a.writable()
	if !ok || len(items) == 0 {
		return len(cur)
	}
	next := make([]any, 0, len(cur)+len(items))
	for _, it := range items {
		next = append(next, unwrap(it))
	}
	next = append(next, cur...)
	a.store(next)
	a.notify()
	return len(next)
}

// Splice removes deleteCount items starting at start, inserts items in their
// place and returns the removed items. A negative start counts from the end.
func (a *Array) Splice(start, deleteCount int, items ...any) []any {
	cur, ok := a.writable()
	if !ok {
		return nil
	}
	n := len(cur)
	if start < 0 {
		start = max(n+start, 0)
	}
	start = min(start, n)
	deleteCount = min(max(deleteCount, 0), n-start)
	if deleteCount == 0 && len(items) == 0 {
		return nil
	}

	removed := append([]any(nil), cur[start:start+deleteCount]...)
	next := make([]any, 0, n-deleteCount+len(items))
	next = append(next, cur[:start]...)
	for _, it := range items {
		next = append(next, unwrap(it))
	}
	next = append(next, cur[start+deleteCount:]...)
	a.store(next)
	a.notify()
	return removed
}

// Sort sorts the list in place with less.
func (a *Array) Sort(less func(x, y any) bool) bool {
	cur, ok := a.writable()
	if !ok {
		return false
	}
	sort.SliceStable(cur, func(i, j int) bool { return less(cur[i], cur[j]) })
	a.notify()
	return true
}

// Reverse reverses the list in place.
func (a *Array) Reverse() bool {
	cur, ok := a.writable()
	if !ok {
		return false
	}
	for i, j := 0, len(cur)-1; i < j; i, j = i+1, j-1 {
		cur[i], cur[j] = cur[j], cur[i]
	}
	a.notify()
	return true
}

// stableList gives an empty list its own backing array so that a wrapper can
// recognise it by identity.
func stableList(v any) any {
	if s, ok := v.([]any); ok && cap(s) == 0 {
		return make([]any, 0, 1)
	}
	return v
}

// sameList reports whether a and b share their first backing element.
func sameList(a, b []any) bool {
	return cap(a) > 0 && cap(b) > 0 && &a[:1][0] == &b[:1][0]
}
