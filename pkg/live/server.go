package live

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/race/pkg/host"
	"github.com/vango-dev/race/pkg/race"
	"github.com/vango-dev/race/pkg/vdom"
)

// Server serves one application definition to any number of clients.
type Server struct {
	options
	def      *race.Definition
	props    vdom.Props
	router   chi.Router
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*Session
	wg       sync.WaitGroup
	closed   bool
}

// New creates a server for def mounted with props.
func New(def *race.Definition, props vdom.Props, opts ...Option) *Server {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{
		options:  o,
		def:      def,
		props:    props,
		sessions: make(map[string]*Session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  o.config.ReadBufferSize,
			WriteBufferSize: o.config.WriteBufferSize,
			CheckOrigin:     o.config.CheckOrigin,
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/", s.handlePage)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	if o.gatherer != nil {
		r.Handle(o.config.MetricsPath, promhttp.HandlerFor(o.gatherer, promhttp.HandlerOpts{}))
	}
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router returns the chi router so callers can mount extra routes.
func (s *Server) Router() chi.Router { return s.router }

// Sessions returns the number of open sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close ends every open session and waits for their loops to exit. New
// connections are refused afterwards.
func (s *Server) Close() {
	s.mu.Lock()
	s.closed = true
	open := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.Unlock()

	for _, sess := range open {
		sess.Close()
	}
	s.wg.Wait()
}

func (s *Server) rendererOptions(logger *slog.Logger) []race.Option {
	opts := []race.Option{race.WithLogger(logger)}
	if s.collector != nil {
		opts = append(opts, race.WithObserver(s.collector))
	}
	return opts
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body data-race-ws="{{.Socket}}">{{.Body}}</body>
</html>
`))

// handlePage renders the app once on a throwaway tree and serves the HTML.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	mem := host.NewMemory()
	app := race.CreateApp(s.def, s.props,
		race.WithHost(mem),
		race.WithRendererOptions(append(s.rendererOptions(s.logger), race.WithRaiseErrors(true))...),
	)
	if err := app.Mount(mem.Body()); err != nil {
		s.logger.Error("page render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	defer app.Unmount()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pageTemplate.Execute(w, map[string]any{
		"Title":  s.config.Title,
		"Socket": "/ws",
		"Body":   template.HTML(mem.Body().InnerHTML()),
	})
	if err != nil {
		s.logger.Error("page write failed", "error", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		http.Error(w, "server closed", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(s.config.MaxMessageSize)

	sess := newSession(s, conn, generateSessionID())
	if !s.track(sess) {
		conn.Close()
		return
	}

	// The request context ends when the handler returns, so sessions run
	// on their own.
	go func() {
		defer s.wg.Done()
		defer s.untrack(sess)
		if err := sess.Run(context.Background()); err != nil {
			sess.logger.Warn("session ended", "error", err)
		}
	}()
}

func (s *Server) track(sess *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.sessions[sess.ID] = sess
	s.wg.Add(1)
	if s.collector != nil {
		s.collector.SessionOpened()
	}
	return true
}

func (s *Server) untrack(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess.ID)
	if s.collector != nil {
		s.collector.SessionClosed()
	}
}

// generateSessionID generates a cryptographically random session ID.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}
