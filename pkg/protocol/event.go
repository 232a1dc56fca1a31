package protocol

// Event is a client event on a node.
type Event struct {
	Target uint64
	Type   string
	Value  string
}

// EncodeEvent encodes an Event payload.
func EncodeEvent(ev Event) []byte {
	e := NewEncoder()
	e.WriteUvarint(ev.Target)
	e.WriteString(ev.Type)
	e.WriteString(ev.Value)
	return e.Bytes()
}

// DecodeEvent decodes an Event payload.
func DecodeEvent(payload []byte) (Event, error) {
	var ev Event
	var err error
	d := NewDecoder(payload)
	if ev.Target, err = d.ReadUvarint(); err != nil {
		return ev, err
	}
	if ev.Type, err = d.ReadString(); err != nil {
		return ev, err
	}
	ev.Value, err = d.ReadString()
	return ev, err
}

// Hello opens a session. Root is the wire id of the container the app is
// mounted in; the client maps it to its own container.
type Hello struct {
	Session string
	Root    uint64
}

// EncodeHello encodes a Hello payload.
func EncodeHello(h Hello) []byte {
	e := NewEncoder()
	e.WriteString(h.Session)
	e.WriteUvarint(h.Root)
	return e.Bytes()
}

// DecodeHello decodes a Hello payload.
func DecodeHello(payload []byte) (Hello, error) {
	var h Hello
	var err error
	d := NewDecoder(payload)
	if h.Session, err = d.ReadString(); err != nil {
		return h, err
	}
	h.Root, err = d.ReadUvarint()
	return h, err
}
