package host

import (
	"maps"
	"strconv"
)

// OpKind identifies a host mutation.
type OpKind uint8

const (
	OpCreateElement OpKind = iota + 1
	OpCreateText
	OpSetText
	OpInsert
	OpRemove
	OpSetAttribute
	OpRemoveAttribute
	OpAddListener
	OpRemoveListener
	OpSetStyle
)

// String returns the string representation of the OpKind.
func (k OpKind) String() string {
	switch k {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpSetText:
		return "SetText"
	case OpInsert:
		return "Insert"
	case OpRemove:
		return "Remove"
	case OpSetAttribute:
		return "SetAttribute"
	case OpRemoveAttribute:
		return "RemoveAttribute"
	case OpAddListener:
		return "AddListener"
	case OpRemoveListener:
		return "RemoveListener"
	case OpSetStyle:
		return "SetStyle"
	default:
		return "Unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Op is one recorded host mutation. Target is the node created or mutated;
// Parent and Before are set for inserts; Key and Value carry the tag, text,
// attribute or event name involved.
type Op struct {
	Kind   OpKind
	Target Handle
	Parent Handle
	Before Handle
	Key    string
	Value  string
	Style  map[string]string
}

// Recorder decorates an Adapter and logs every successful mutation.
type Recorder struct {
	inner Adapter
	ops   []Op

	// OnOp, when set, is called for every recorded op.
	OnOp func(Op)

	// Discard drops ops after OnOp has seen them.
	Discard bool
}

// NewRecorder wraps inner.
func NewRecorder(inner Adapter) *Recorder {
	return &Recorder{inner: inner}
}

// Inner returns the decorated adapter.
func (r *Recorder) Inner() Adapter { return r.inner }

// Ops returns the recorded ops.
func (r *Recorder) Ops() []Op {
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Drain returns the recorded ops and clears the log.
func (r *Recorder) Drain() []Op {
	out := r.ops
	r.ops = nil
	return out
}

// Reset clears the log.
func (r *Recorder) Reset() { r.ops = nil }

// Len returns how many ops were recorded.
func (r *Recorder) Len() int { return len(r.ops) }

// Count returns how many recorded ops have one of the given kinds.
func (r *Recorder) Count(kinds ...OpKind) int {
	n := 0
	for _, op := range r.ops {
		for _, k := range kinds {
			if op.Kind == k {
				n++
				break
			}
		}
	}
	return n
}

func (r *Recorder) record(op Op) {
	if !r.Discard {
		r.ops = append(r.ops, op)
	}
	if r.OnOp != nil {
		r.OnOp(op)
	}
}

// CreateElement implements Adapter.
func (r *Recorder) CreateElement(tag string) (Handle, error) {
	h, err := r.inner.CreateElement(tag)
	if err == nil {
		r.record(Op{Kind: OpCreateElement, Target: h, Key: tag})
	}
	return h, err
}

// CreateText implements Adapter.
func (r *Recorder) CreateText(text string) (Handle, error) {
	h, err := r.inner.CreateText(text)
	if err == nil {
		r.record(Op{Kind: OpCreateText, Target: h, Value: text})
	}
	return h, err
}

// SetText implements Adapter.
func (r *Recorder) SetText(h Handle, text string) error {
	err := r.inner.SetText(h, text)
	if err == nil {
		r.record(Op{Kind: OpSetText, Target: h, Value: text})
	}
	return err
}

// Insert implements Adapter.
func (r *Recorder) Insert(child, parent, before Handle) error {
	err := r.inner.Insert(child, parent, before)
	if err == nil {
		r.record(Op{Kind: OpInsert, Target: child, Parent: parent, Before: before})
	}
	return err
}

// Remove implements Adapter.
func (r *Recorder) Remove(h Handle) error {
	err := r.inner.Remove(h)
	if err == nil {
		r.record(Op{Kind: OpRemove, Target: h})
	}
	return err
}

// SetAttribute implements Adapter.
func (r *Recorder) SetAttribute(h Handle, key, value string) error {
	err := r.inner.SetAttribute(h, key, value)
	if err == nil {
		r.record(Op{Kind: OpSetAttribute, Target: h, Key: key, Value: value})
	}
	return err
}

// RemoveAttribute implements Adapter.
func (r *Recorder) RemoveAttribute(h Handle, key string) error {
	err := r.inner.RemoveAttribute(h, key)
	if err == nil {
		r.record(Op{Kind: OpRemoveAttribute, Target: h, Key: key})
	}
	return err
}

// AddListener implements Adapter.
func (r *Recorder) AddListener(h Handle, event string, l *Listener) error {
	err := r.inner.AddListener(h, event, l)
	if err == nil {
		r.record(Op{Kind: OpAddListener, Target: h, Key: event})
	}
	return err
}

// RemoveListener implements Adapter.
func (r *Recorder) RemoveListener(h Handle, event string, l *Listener) error {
	err := r.inner.RemoveListener(h, event, l)
	if err == nil {
		r.record(Op{Kind: OpRemoveListener, Target: h, Key: event})
	}
	return err
}

// SetStyle implements Adapter.
func (r *Recorder) SetStyle(h Handle, style map[string]string) error {
	err := r.inner.SetStyle(h, style)
	if err == nil {
		r.record(Op{Kind: OpSetStyle, Target: h, Style: maps.Clone(style)})
	}
	return err
}

// Parent implements Adapter.
func (r *Recorder) Parent(h Handle) Handle { return r.inner.Parent(h) }

// NextSibling implements Adapter.
func (r *Recorder) NextSibling(h Handle) Handle { return r.inner.NextSibling(h) }

// Find implements Finder when the decorated adapter does.
func (r *Recorder) Find(selector string) (Handle, bool) {
	if f, ok := r.inner.(Finder); ok {
		return f.Find(selector)
	}
	return nil, false
}
