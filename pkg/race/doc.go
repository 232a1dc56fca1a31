// Package race mounts components onto a host tree and keeps the host tree in
// sync with what the components render.
//
// A component type is declared once with Define and referenced from render
// output with vdom.C:
//
//	var Counter = race.Define("Counter", func() race.Component { return &counter{} })
//
//	func (c *counter) Data() map[string]any { return map[string]any{"count": 0} }
//
//	func (c *counter) Render(i *race.Instance) *vdom.VNode {
//	    return vdom.Button(
//	        vdom.OnClick(func() { i.Data().Set("count", i.Data().Int("count")+1) }),
//	        vdom.Textf("count:%d", i.Data().Int("count")),
//	    )
//	}
//
// # Data, props and emits
//
// Each Instance owns a reactive.Object built from the definition's default
// data and the component's Data method. Every successful mutation re-renders
// the component synchronously, before the mutating call returns. Props are a
// frozen snapshot supplied by the parent and never merged into data. Event
// callbacks passed under the "emits" prop live in a separate table that Emit
// consults.
//
// # Reconciliation
//
// The Renderer compares the previous and next tree of a component and applies
// the difference through a host.Adapter. Nodes are reused when vdom.SameNode
// holds; keyed children are matched with a two-pointer walk and a key index.
//
// # Errors
//
// Render panics are recovered per update, reported and the previous tree is
// kept. Unresolved mount targets and unsupported nodes are reported through
// the logger and the WithErrorHandler hook; WithRaiseErrors makes them
// returned errors instead. Host adapter failures are always returned.
package race
