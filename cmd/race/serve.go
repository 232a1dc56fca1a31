package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/race/internal/config"
	"github.com/vango-dev/race/pkg/live"
	"github.com/vango-dev/race/pkg/metrics"
	"github.com/vango-dev/race/pkg/vdom"
)

func serveCmd(g *globals) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve [app]",
		Short: "Serve a demo app over WebSocket",
		Long: `Start the live server for a demo app.

Each browser connection gets its own session; host ops are streamed
to the client and client events are dispatched back.

Examples:
  race serve counter
  race serve todo --port=9000
  race serve --host=0.0.0.0`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Live.Port = port
			}
			if host != "" {
				cfg.Live.Host = host
			}
			name := "counter"
			if len(args) > 0 {
				name = args[0]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd.OutOrStdout(), cfg, name, nil)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")

	return cmd
}

// newLiveServer builds the live server and its metrics registry from cfg.
func newLiveServer(cfg *config.Config, name string) (*live.Server, error) {
	def, err := lookupApp(name)
	if err != nil {
		return nil, err
	}
	writeTimeout, err := cfg.WriteTimeout()
	if err != nil {
		return nil, err
	}

	opts := []live.Option{
		live.WithLogger(slog.Default().With("component", "live")),
		live.WithConfig(live.Config{
			Title:           cfg.Live.Title,
			ReadBufferSize:  cfg.Live.ReadBufferSize,
			WriteBufferSize: cfg.Live.WriteBufferSize,
			MaxMessageSize:  cfg.Live.MaxMessageSize,
			WriteTimeout:    writeTimeout,
			MetricsPath:     cfg.Metrics.Path,
		}),
	}
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		collector := metrics.New(metrics.WithRegistry(reg), metrics.WithNamespace(cfg.Metrics.Namespace))
		opts = append(opts, live.WithMetrics(collector, reg))
	}
	return live.New(def, vdom.Props{}, opts...), nil
}

// runServe serves until ctx ends. When ready is not nil it receives the
// bound address once the listener is open.
func runServe(ctx context.Context, w io.Writer, cfg *config.Config, name string, ready chan<- string) error {
	srv, err := newLiveServer(cfg, name)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(cfg.Live.Host, strconv.Itoa(cfg.Live.Port)))
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	printBanner(w)
	success(w, "Serving %s on http://%s", name, ln.Addr())
	if cfg.Metrics.Enabled {
		info(w, "metrics at http://%s%s", ln.Addr(), cfg.Metrics.Path)
	}
	if ready != nil {
		ready <- ln.Addr().String()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.Serve(ln); !stderrors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := httpServer.Shutdown(shutdownCtx)
		srv.Close()
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	warn(w, "Server stopped")
	return nil
}
