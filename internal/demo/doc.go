// Package demo holds the example applications served by the race CLI: a
// counter and a todo list whose rows are child components.
package demo
