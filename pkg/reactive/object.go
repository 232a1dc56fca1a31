package reactive

import (
	"maps"
	"slices"
)

// Frozen is a record whose fields reject writes and deletions.
type Frozen map[string]any

// FrozenList is a list that rejects in-place mutation.
type FrozenList []any

// Object is a reactive view of a map.
type Object struct {
	target map[string]any
	frozen bool
	notify func()
}

// New wraps data so that every successful mutation calls onChange.
// Passing a Frozen record yields a store whose writes are all rejected.
func New[M ~map[string]any](data M, onChange func()) *Object {
	_, frozen := any(data).(Frozen)
	target := map[string]any(data)
	if target == nil {
		target = make(map[string]any)
	}
	return &Object{target: target, frozen: frozen, notify: nonNil(onChange)}
}

func nonNil(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	return fn
}

// Frozen reports whether writes to this object are rejected.
func (o *Object) Frozen() bool {
	return o.frozen
}

// Get returns the value stored under key. Maps and lists come back wrapped
// as *Object and *Array bound to the same callback.
func (o *Object) Get(key string) any {
	v, ok := o.target[key]
	if !ok {
		return nil
	}
	if !o.frozen {
		v = stableList(v)
		o.target[key] = v
	}
	return wrap(v, o.notify, func(match func(any) bool) (any, func(any), bool) {
		cur, ok := o.target[key]
		if !ok || !match(cur) {
			return nil, nil, false
		}
		return cur, func(nv any) { o.target[key] = nv }, true
	})
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.target[key]
	return ok
}

// Len returns the number of fields.
func (o *Object) Len() int {
	return len(o.target)
}

// Keys returns the field names in sorted order.
func (o *Object) Keys() []string {
	return slices.Sorted(maps.Keys(o.target))
}

// Object returns the nested record under key, or nil if key does not hold one.
func (o *Object) Object(key string) *Object {
	obj, _ := o.Get(key).(*Object)
	return obj
}

// List returns the nested list under key, or nil if key does not hold one.
func (o *Object) List(key string) *Array {
	arr, _ := o.Get(key).(*Array)
	return arr
}

// Set stores v under key and notifies. It returns false, without notifying,
// when the record is frozen.
func (o *Object) Set(key string, v any) bool {
	if o.frozen {
		return false
	}
	o.target[key] = unwrap(v)
	o.notify()
	return true
}

// Delete removes key and notifies. Deleting a missing key or deleting from a
// frozen record changes nothing and does not notify.
func (o *Object) Delete(key string) bool {
	if o.frozen {
		return false
	}
	if _, ok := o.target[key]; !ok {
		return false
	}
	delete(o.target, key)
	o.notify()
	return true
}

// Raw returns a deep copy of the underlying record.
func (o *Object) Raw() map[string]any {
	return cloneMap(o.target)
}

// String returns the string under key, or "" when absent or of another type.
func (o *Object) String(key string) string {
	s, _ := o.target[key].(string)
	return s
}

// Int returns the integer under key. Floats are truncated.
func (o *Object) Int(key string) int {
	switch v := o.target[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Float returns the number under key as a float64.
func (o *Object) Float(key string) float64 {
	switch v := o.target[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Bool returns the boolean under key.
func (o *Object) Bool(key string) bool {
	b, _ := o.target[key].(bool)
	return b
}

// finder looks up the slot of a wrapper's parent whose value satisfies match
// and returns that value with a setter for the slot.
type finder func(match func(any) bool) (cur any, set func(any), ok bool)

// wrap returns v wrapped when it is a record or a list. A list wrapper finds
// its slot through find on every access, matching by backing array, so that
// length-changing operations write the new slice back to the right place and
// a list dropped by its parent stops accepting writes.
func wrap(v any, notify func(), find finder) any {
	switch t := v.(type) {
	case map[string]any:
		return &Object{target: t, notify: notify}
	case Frozen:
		return &Object{target: t, frozen: true, notify: notify}
	case []any:
		last := t
		match := func(x any) bool {
			s, ok := x.([]any)
			return ok && sameList(s, last)
		}
		return &Array{
			load: func() ([]any, bool) {
				cur, _, ok := find(match)
				if !ok {
					return last, false
				}
				last = cur.([]any)
				return last, true
			},
			store: func(s []any) {
				s = stableList(s).([]any)
				if _, set, ok := find(match); ok {
					set(s)
					last = s
				}
			},
			notify: notify,
		}
	case FrozenList:
		return &Array{
			load:   func() ([]any, bool) { return t, true },
			frozen: true,
			notify: notify,
		}
	}
	return v
}

// unwrap turns wrappers back into the raw values they view so that a store
// never holds another store.
func unwrap(v any) any {
	switch t := v.(type) {
	case *Object:
		if t.frozen {
			return Frozen(t.target)
		}
		return t.target
	case *Array:
		if t.frozen {
			return FrozenList(t.items())
		}
		return t.items()
	}
	return v
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Frozen:
		return cloneMap(t)
	case []any:
		return cloneSlice(t)
	case FrozenList:
		return cloneSlice(t)
	}
	return v
}

func cloneSlice(s []any) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = cloneValue(v)
	}
	return out
}
