package host

import "errors"

// Handle refers to one node of the host tree. Concrete adapters decide the
// dynamic type; it must be comparable.
type Handle any

// Event is delivered to listeners.
type Event struct {
	Type   string
	Target Handle
	Value  string
	Data   map[string]any
}

// Listener is a registered event callback. Listeners are compared by
// pointer, so the same *Listener must be passed to RemoveListener.
type Listener struct {
	fn func(Event)
}

// NewListener wraps fn as a Listener.
func NewListener(fn func(Event)) *Listener {
	return &Listener{fn: fn}
}

// Handle invokes the listener.
func (l *Listener) Handle(e Event) {
	if l != nil && l.fn != nil {
		l.fn(e)
	}
}

// Adapter is the set of primitives the renderer needs from a host tree.
type Adapter interface {
	CreateElement(tag string) (Handle, error)
	CreateText(text string) (Handle, error)
	SetText(h Handle, text string) error

	// Insert places child under parent before the given sibling, or last
	// when before is nil. A child that is already attached is moved.
	Insert(child, parent, before Handle) error
	Remove(h Handle) error

	SetAttribute(h Handle, key, value string) error
	RemoveAttribute(h Handle, key string) error
	AddListener(h Handle, event string, l *Listener) error
	RemoveListener(h Handle, event string, l *Listener) error

	// SetStyle merges style declarations onto the element's style.
	SetStyle(h Handle, style map[string]string) error

	Parent(h Handle) Handle
	NextSibling(h Handle) Handle
}

// Finder is implemented by adapters that can resolve a lookup string (for
// example "#app") to a container.
type Finder interface {
	Find(selector string) (Handle, bool)
}

// Host errors.
var (
	ErrInvalidHandle = errors.New("host: invalid handle")
	ErrTextParent    = errors.New("host: text nodes cannot have children")
	ErrNotAChild     = errors.New("host: reference node is not a child of parent")
	ErrCycle         = errors.New("host: node cannot be inserted into its own subtree")
)
