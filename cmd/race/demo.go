package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vango-dev/race/internal/demo"
	"github.com/vango-dev/race/pkg/host"
	"github.com/vango-dev/race/pkg/race"
	"github.com/vango-dev/race/pkg/vdom"
)

func demoCmd(g *globals) *cobra.Command {
	var (
		clicks   int
		selector string
		showOps  bool
	)

	cmd := &cobra.Command{
		Use:   "demo [app]",
		Short: "Render a demo app in memory",
		Long: `Mount a demo app on an in-memory host, optionally click a button
a number of times, and print the resulting HTML and host ops.

Apps: ` + strings.Join(demo.Names(), ", ") + `

Examples:
  race demo counter
  race demo counter --click 3
  race demo todo --click 2 --ops`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := g.load(cmd.ErrOrStderr()); err != nil {
				return err
			}
			name := "counter"
			if len(args) > 0 {
				name = args[0]
			}
			return runDemo(cmd.OutOrStdout(), name, selector, clicks, showOps)
		},
	}

	cmd.Flags().IntVarP(&clicks, "click", "n", 0, "Number of clicks to dispatch")
	cmd.Flags().StringVar(&selector, "target", "button", "Element to click (tag or #id)")
	cmd.Flags().BoolVar(&showOps, "ops", false, "Print the host ops of every step")

	return cmd
}

func lookupApp(name string) (*race.Definition, error) {
	def, ok := demo.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown app %q (available: %s)", name, strings.Join(demo.Names(), ", "))
	}
	return def, nil
}

func runDemo(w io.Writer, name, selector string, clicks int, showOps bool) error {
	def, err := lookupApp(name)
	if err != nil {
		return err
	}

	mem := host.NewMemory()
	rec := host.NewRecorder(mem)
	app := race.CreateApp(def, vdom.Props{}, race.WithHost(rec),
		race.WithRendererOptions(race.WithRaiseErrors(true)))
	if err := app.Mount(mem.Body()); err != nil {
		return err
	}
	success(w, "Mounted %s", def.Name())
	printOps(w, rec.Drain(), showOps)

	for n := 1; n <= clicks; n++ {
		target, ok := mem.Find(selector)
		if !ok {
			return fmt.Errorf("no element matches %q", selector)
		}
		if _, err := mem.Dispatch(target, "click", host.Event{}); err != nil {
			return err
		}
		success(w, "Click %d on %s", n, selector)
		printOps(w, rec.Drain(), showOps)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, color.New(color.Bold).Sprint("HTML"))
	info(w, "%s", mem.Body().InnerHTML())
	return app.Unmount()
}

// printOps prints a per-kind summary of ops, or every op when verbose.
func printOps(w io.Writer, ops []host.Op, verbose bool) {
	if len(ops) == 0 {
		info(w, "no host ops")
		return
	}
	counts := make(map[host.OpKind]int)
	var order []host.OpKind
	for _, op := range ops {
		if counts[op.Kind] == 0 {
			order = append(order, op.Kind)
		}
		counts[op.Kind]++
	}
	parts := make([]string, 0, len(order))
	for _, k := range order {
		parts = append(parts, fmt.Sprintf("%s×%d", k, counts[k]))
	}
	info(w, "%d host ops: %s", len(ops), strings.Join(parts, " "))

	if verbose {
		for _, op := range ops {
			info(w, "  %s", color.HiBlackString(formatOp(op)))
		}
	}
}

func formatOp(op host.Op) string {
	switch op.Kind {
	case host.OpCreateElement:
		return fmt.Sprintf("%s <%s>", op.Kind, op.Key)
	case host.OpCreateText, host.OpSetText:
		return fmt.Sprintf("%s %q", op.Kind, op.Value)
	case host.OpSetAttribute:
		return fmt.Sprintf("%s %s=%q", op.Kind, op.Key, op.Value)
	case host.OpRemoveAttribute, host.OpAddListener, host.OpRemoveListener:
		return fmt.Sprintf("%s %s", op.Kind, op.Key)
	case host.OpSetStyle:
		return fmt.Sprintf("%s %v", op.Kind, op.Style)
	default:
		return op.Kind.String()
	}
}
