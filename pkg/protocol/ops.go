package protocol

import (
	"fmt"
	"maps"
	"slices"

	"github.com/vango-dev/race/pkg/host"
)

// Op is a host op addressed by wire node ids. Id 0 means none.
type Op struct {
	Kind   host.OpKind
	Target uint64
	Parent uint64
	Before uint64
	Key    string // tag, attribute name or event name
	Value  string // text or attribute value
	Style  map[string]string
}

// IDFunc maps a host handle to its wire id, returning 0 for nil.
type IDFunc func(h host.Handle) uint64

// MemoryID is the IDFunc for host.Memory handles.
func MemoryID(h host.Handle) uint64 {
	n, ok := h.(*host.Node)
	if !ok || n == nil {
		return 0
	}
	return n.ID()
}

// FromHost converts recorded host ops to wire ops.
func FromHost(ops []host.Op, id IDFunc) []Op {
	out := make([]Op, len(ops))
	for i, op := range ops {
		out[i] = Op{
			Kind:   op.Kind,
			Target: id(op.Target),
			Parent: id(op.Parent),
			Before: id(op.Before),
			Key:    op.Key,
			Value:  op.Value,
			Style:  op.Style,
		}
	}
	return out
}

// EncodeOp appends op to e.
//
// Format: kind byte, target varint, then by kind:
//
//	CreateElement, RemoveAttribute, Add/RemoveListener: key
//	CreateText, SetText: value
//	SetAttribute: key, value
//	Insert: parent varint, before varint
//	SetStyle: count varint, then sorted (name, value) pairs
//	Remove: nothing
func EncodeOp(e *Encoder, op Op) {
	e.WriteByte(byte(op.Kind))
	e.WriteUvarint(op.Target)
	switch op.Kind {
	case host.OpCreateElement, host.OpRemoveAttribute, host.OpAddListener, host.OpRemoveListener:
		e.WriteString(op.Key)
	case host.OpCreateText, host.OpSetText:
		e.WriteString(op.Value)
	case host.OpSetAttribute:
		e.WriteString(op.Key)
		e.WriteString(op.Value)
	case host.OpInsert:
		e.WriteUvarint(op.Parent)
		e.WriteUvarint(op.Before)
	case host.OpSetStyle:
		e.WriteUvarint(uint64(len(op.Style)))
		for _, k := range slices.Sorted(maps.Keys(op.Style)) {
			e.WriteString(k)
			e.WriteString(op.Style[k])
		}
	}
}

// DecodeOp reads one op.
func DecodeOp(d *Decoder) (Op, error) {
	var op Op
	kind, err := d.ReadByte()
	if err != nil {
		return op, err
	}
	op.Kind = host.OpKind(kind)
	if op.Target, err = d.ReadUvarint(); err != nil {
		return op, err
	}

	switch op.Kind {
	case host.OpCreateElement, host.OpRemoveAttribute, host.OpAddListener, host.OpRemoveListener:
		op.Key, err = d.ReadString()
	case host.OpCreateText, host.OpSetText:
		op.Value, err = d.ReadString()
	case host.OpSetAttribute:
		if op.Key, err = d.ReadString(); err == nil {
			op.Value, err = d.ReadString()
		}
	case host.OpInsert:
		if op.Parent, err = d.ReadUvarint(); err == nil {
			op.Before, err = d.ReadUvarint()
		}
	case host.OpSetStyle:
		var n int
		if n, err = d.ReadCount(); err != nil {
			return op, err
		}
		op.Style = make(map[string]string, n)
		for range n {
			k, err := d.ReadString()
			if err != nil {
				return op, err
			}
			v, err := d.ReadString()
			if err != nil {
				return op, err
			}
			op.Style[k] = v
		}
	case host.OpRemove:
	default:
		return op, fmt.Errorf("protocol: unknown op kind %d", kind)
	}
	return op, err
}

// EncodeOps encodes ops into as many FrameOps frames as needed. Every frame
// but the last carries FlagMore. An empty batch yields no frames.
func EncodeOps(ops []Op) ([]*Frame, error) {
	var frames []*Frame
	batch := NewEncoder()
	one := NewEncoder()
	count := 0

	flush := func() {
		e := NewEncoder()
		e.WriteUvarint(uint64(count))
		e.WriteBytes(batch.Bytes())
		frames = append(frames, &Frame{Type: FrameOps, Flags: FlagMore, Payload: slices.Clone(e.Bytes())})
		batch.Reset()
		count = 0
	}

	for _, op := range ops {
		one.Reset()
		EncodeOp(one, op)
		if one.Len()+MaxVarintLen > MaxPayloadSize {
			return nil, fmt.Errorf("%w: single op of %d bytes", ErrFrameTooLarge, one.Len())
		}
		if batch.Len()+one.Len()+MaxVarintLen > MaxPayloadSize {
			flush()
		}
		batch.WriteBytes(one.Bytes())
		count++
	}
	if count > 0 {
		flush()
	}
	if len(frames) > 0 {
		frames[len(frames)-1].Flags = 0
	}
	return frames, nil
}

// DecodeOps decodes the payload of a FrameOps frame.
func DecodeOps(payload []byte) ([]Op, error) {
	d := NewDecoder(payload)
	n, err := d.ReadCount()
	if err != nil {
		return nil, err
	}
	ops := make([]Op, 0, n)
	for range n {
		op, err := DecodeOp(d)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// MaxVarintLen is the maximum number of bytes a varint can occupy.
const MaxVarintLen = 10
