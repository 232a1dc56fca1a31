package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vango-dev/race/internal/config"
	"github.com/vango-dev/race/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┬─┐┌─┐┌─┐┌─┐
  ├┬┘├─┤│  ├┤
  ┴└─┴ ┴└─┘└─┘
`

// globals are the persistent flags shared by every command.
type globals struct {
	configDir string
	logLevel  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "race",
		Short: "A reactive component framework for Go",
		Long: `race renders components with reactive data into a host tree
and patches only what changed.

  • Components with props, emits and reactive data
  • Keyed children diffing
  • Live server streaming host ops over WebSocket
  • Snapshots to disk or S3`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&g.configDir, "config", "c", "", "Directory holding race.toml or race.json (default: search from the working directory)")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")

	rootCmd.AddCommand(
		demoCmd(g),
		serveCmd(g),
		snapshotCmd(g),
		versionCmd(),
	)
	return rootCmd
}

// load reads the configuration, falling back to defaults when no file
// exists, applies flag overrides and installs the default logger.
func (g *globals) load(w io.Writer) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.configDir != "" {
		cfg, err = config.Load(g.configDir)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if errors.CodeOf(err) == errors.CodeConfigNotFound {
		cfg, err = config.New(), nil
	}
	if err != nil {
		return nil, err
	}

	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
	return cfg, nil
}

// printBanner prints the race ASCII art banner.
func printBanner(w io.Writer) {
	color.New(color.FgCyan).Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", color.GreenString("✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", color.YellowString("⚠"), fmt.Sprintf(format, args...))
}
