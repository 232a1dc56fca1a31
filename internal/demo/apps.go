package demo

import (
	"maps"
	"slices"

	"github.com/vango-dev/race/pkg/race"
)

var apps = map[string]*race.Definition{
	"counter": Counter,
	"todo":    TodoApp,
}

// Lookup returns the demo app registered under name.
func Lookup(name string) (*race.Definition, bool) {
	def, ok := apps[name]
	return def, ok
}

// Names returns the registered demo names in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(apps))
}
