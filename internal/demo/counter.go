package demo

import (
	"log/slog"
	"strconv"

	"github.com/vango-dev/race/pkg/race"
	"github.com/vango-dev/race/pkg/vdom"
)

// Counter shows a count with increment and decrement buttons and one keyed
// row per unit of the count. The initialCount prop seeds the count on mount.
var Counter = race.Define("Counter", func() race.Component { return counter{} },
	race.WithDefaultProps(map[string]any{"initialCount": 0}),
)

type counter struct{}

func (counter) Data() map[string]any {
	return map[string]any{"count": 0}
}

func (counter) Mounted(i *race.Instance) {
	logger().Debug("counter mounted", "initial_count", i.Props().Int("initialCount"))
	if n := i.Props().Int("initialCount"); n != 0 {
		i.Data().Set("count", n)
	}
}

func (counter) Render(i *race.Instance) *vdom.VNode {
	count := i.Data().Int("count")

	rows := make([]*vdom.VNode, 0, max(count, 0))
	for n := range max(count, 0) {
		rows = append(rows, vdom.Div(vdom.Key(n), strconv.Itoa(n)))
	}

	return vdom.Div(
		vdom.Div(
			vdom.Class("counter"),
			vdom.H1("Count:", vdom.Span(strconv.Itoa(count))),
			vdom.Button(
				vdom.OnClick(func() { i.Data().Set("count", i.Data().Int("count")+1) }),
				"Increment"+strconv.Itoa(count),
			),
			vdom.Button(
				vdom.OnClick(func() { i.Data().Set("count", i.Data().Int("count")-1) }),
				"Sub"+strconv.Itoa(count),
			),
			rows,
		),
	)
}

func logger() *slog.Logger {
	return slog.Default().With("component", "demo")
}
