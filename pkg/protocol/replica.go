package protocol

import (
	"fmt"

	"github.com/vango-dev/race/pkg/host"
)

// Replica rebuilds a remote host tree from decoded ops. The remote root
// named in Hello maps to the replica's body. A Replica is not safe for
// concurrent use.
type Replica struct {
	mem    *host.Memory
	nodes  map[uint64]*host.Node
	remote map[*host.Node]uint64
	lists  map[uint64]map[string]*host.Listener

	// OnEvent receives events fired on nodes the server listens to.
	OnEvent func(Event)
}

// NewReplica creates an empty replica whose body stands in for root.
func NewReplica(root uint64) *Replica {
	r := &Replica{
		mem:    host.NewMemory(),
		nodes:  make(map[uint64]*host.Node),
		remote: make(map[*host.Node]uint64),
		lists:  make(map[uint64]map[string]*host.Listener),
	}
	r.bind(root, r.mem.Body())
	return r
}

// Memory returns the replica's local tree.
func (r *Replica) Memory() *host.Memory { return r.mem }

// Body returns the local node standing in for the remote root.
func (r *Replica) Body() *host.Node { return r.mem.Body() }

// Node returns the local node for a remote id.
func (r *Replica) Node(id uint64) (*host.Node, bool) {
	n, ok := r.nodes[id]
	return n, ok
}

// RemoteID returns the remote id of a local node.
func (r *Replica) RemoteID(n *host.Node) (uint64, bool) {
	id, ok := r.remote[n]
	return id, ok
}

func (r *Replica) bind(id uint64, n *host.Node) {
	r.nodes[id] = n
	r.remote[n] = id
}

func (r *Replica) lookup(id uint64) (*host.Node, error) {
	n, ok := r.nodes[id]
	if !ok {
		return nil, fmt.Errorf("protocol: unknown node %d", id)
	}
	return n, nil
}

// Apply replays ops in order, stopping at the first failure.
func (r *Replica) Apply(ops []Op) error {
	for i, op := range ops {
		if err := r.apply(op); err != nil {
			return fmt.Errorf("op %d (%s): %w", i, op.Kind, err)
		}
	}
	return nil
}

func (r *Replica) apply(op Op) error {
	switch op.Kind {
	case host.OpCreateElement:
		h, err := r.mem.CreateElement(op.Key)
		if err != nil {
			return err
		}
		r.bind(op.Target, h.(*host.Node))
		return nil
	case host.OpCreateText:
		h, err := r.mem.CreateText(op.Value)
		if err != nil {
			return err
		}
		r.bind(op.Target, h.(*host.Node))
		return nil
	}

	n, err := r.lookup(op.Target)
	if err != nil {
		return err
	}

	switch op.Kind {
	case host.OpSetText:
		return r.mem.SetText(n, op.Value)
	case host.OpInsert:
		parent, err := r.lookup(op.Parent)
		if err != nil {
			return err
		}
		var before host.Handle
		if op.Before != 0 {
			if before, err = r.lookup(op.Before); err != nil {
				return err
			}
		}
		return r.mem.Insert(n, parent, before)
	case host.OpRemove:
		r.forget(n)
		return r.mem.Remove(n)
	case host.OpSetAttribute:
		return r.mem.SetAttribute(n, op.Key, op.Value)
	case host.OpRemoveAttribute:
		return r.mem.RemoveAttribute(n, op.Key)
	case host.OpSetStyle:
		return r.mem.SetStyle(n, op.Style)
	case host.OpAddListener:
		return r.listen(op.Target, n, op.Key)
	case host.OpRemoveListener:
		l, ok := r.lists[op.Target][op.Key]
		if !ok {
			return nil
		}
		delete(r.lists[op.Target], op.Key)
		return r.mem.RemoveListener(n, op.Key, l)
	default:
		return fmt.Errorf("unsupported op kind %d", op.Kind)
	}
}

func (r *Replica) listen(id uint64, n *host.Node, event string) error {
	if _, ok := r.lists[id][event]; ok {
		return nil
	}
	l := host.NewListener(func(e host.Event) {
		if r.OnEvent != nil {
			r.OnEvent(Event{Target: id, Type: event, Value: e.Value})
		}
	})
	if r.lists[id] == nil {
		r.lists[id] = make(map[string]*host.Listener)
	}
	r.lists[id][event] = l
	return r.mem.AddListener(n, event, l)
}

func (r *Replica) forget(n *host.Node) {
	if id, ok := r.remote[n]; ok {
		delete(r.remote, n)
		delete(r.nodes, id)
		delete(r.lists, id)
	}
	for _, c := range n.Children() {
		r.forget(c)
	}
}

// Fire dispatches event on the local node for a remote id, as a user
// interaction would. It returns how many listeners ran.
func (r *Replica) Fire(id uint64, event, value string) (int, error) {
	n, err := r.lookup(id)
	if err != nil {
		return 0, err
	}
	return r.mem.Dispatch(n, event, host.Event{Value: value})
}
