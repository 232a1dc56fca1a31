package race

import (
	"time"

	"github.com/vango-dev/race/pkg/vdom"
)

// Observer receives renderer activity. Implementations must be cheap; they
// run inline with every patch.
type Observer interface {
	NodeMounted(kind vdom.Kind)
	NodePatched(kind vdom.Kind)
	NodeReplaced(kind vdom.Kind)
	NodeUnmounted(kind vdom.Kind)
	Rendered(component string, d time.Duration, err error)
	HostOp(op string)
}

type nopObserver struct{}

func (nopObserver) NodeMounted(vdom.Kind) {}
func (nopObserver) NodePatched(vdom.Kind) {}
func (nopObserver) NodeReplaced(vdom.Kind) {}
func (nopObserver) NodeUnmounted(vdom.Kind) {}
func (nopObserver) Rendered(string, time.Duration, error) {}
func (nopObserver) HostOp(string) {}
