package demo

import (
	"strconv"

	"github.com/vango-dev/race/pkg/race"
	"github.com/vango-dev/race/pkg/vdom"
)

// DeleteEvent is emitted by an InputRow when its Delete button is clicked,
// with the row's item and its current input value.
const DeleteEvent = "deleteElement"

// InputRow is one todo row: a text input, a Delete button and a live echo
// of the input. The item prop names the row.
var InputRow = race.Define("InputRow", func() race.Component { return inputRow{} })

type inputRow struct{}

func (inputRow) Data() map[string]any {
	return map[string]any{"value": ""}
}

func (inputRow) Mounted(i *race.Instance) {
	logger().Debug("input row mounted", "item", i.Props().String("item"))
}

func (inputRow) Render(i *race.Instance) *vdom.VNode {
	item := i.Props().String("item")
	value := i.Data().String("value")

	return vdom.Div(
		vdom.Key(item),
		vdom.Input(
			vdom.OnInput(func(v string) { i.Data().Set("value", v) }),
			vdom.Value(value),
		),
		vdom.Button(
			vdom.OnClick(func() { i.Emit(DeleteEvent, item, i.Data().String("value")) }),
			"Delete",
		),
		vdom.Span("Current: "+value),
	)
}

// TodoApp is a list of InputRows. "Add Item" appends a row named after the
// running count; a row's Delete removes it.
var TodoApp = race.Define("TodoApp", func() race.Component { return todoApp{} })

type todoApp struct{}

func (todoApp) Data() map[string]any {
	return map[string]any{
		"count": 1,
		"list":  []any{},
	}
}

func (todoApp) Render(i *race.Instance) *vdom.VNode {
	list := i.Data().List("list")

	children := []*vdom.VNode{
		vdom.H1("Todo List"),
		vdom.Div("Count: " + strconv.Itoa(i.Data().Int("count"))),
		vdom.Button(vdom.OnClick(func() { add(i) }), "Add Item"),
	}
	for _, v := range list.Values() {
		item, _ := v.(string)
		children = append(children, vdom.C(InputRow, vdom.Props{
			vdom.KeyProp: item,
			"item":       item,
			vdom.EmitsProp: vdom.Emits{
				DeleteEvent: func(args ...any) { remove(i, args...) },
			},
		}))
	}
	children = append(children, vdom.Div("End of list"))

	return vdom.Div(vdom.ClassList("app"), children)
}

func add(i *race.Instance) {
	count := i.Data().Int("count")
	i.Data().List("list").Push(strconv.Itoa(count))
	i.Data().Set("count", count+1)
}

// remove drops the row named by the first emitted argument.
func remove(i *race.Instance, args ...any) {
	if len(args) == 0 {
		return
	}
	item, _ := args[0].(string)
	var value string
	if len(args) > 1 {
		value, _ = args[1].(string)
	}
	logger().Info("delete", "item", item, "value", value)

	var kept []any
	for _, v := range i.Data().List("list").Values() {
		if v != item {
			kept = append(kept, v)
		}
	}
	if kept == nil {
		kept = []any{}
	}
	i.Data().Set("list", kept)
}
