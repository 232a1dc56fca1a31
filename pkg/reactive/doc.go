// Package reactive wraps plain data records so that every mutation fires a
// notification callback.
//
// A store is a tree of maps ([map[string]any]) and lists ([]any). Reads are
// transparent; nested maps and lists come back wrapped, lazily, sharing the
// store's callback, so a deep write is observed exactly like a top-level one:
//
//	data := reactive.New(map[string]any{
//	    "count": 0,
//	    "todo":  []any{"milk"},
//	}, component.Update)
//
//	data.Set("count", data.Int("count")+1) // one notification
//	data.List("todo").Push("eggs")         // one notification
//
// There is no dependency graph: each store has a single callback that runs
// synchronously after each successful mutation. Writes to [Frozen] records and
// [FrozenList] lists are rejected without notifying.
//
// Stores are not safe for concurrent use. A store belongs to exactly one
// component and is only touched from that component's event loop.
package reactive
