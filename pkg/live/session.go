package live

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/race/internal/errors"
	"github.com/vango-dev/race/pkg/host"
	"github.com/vango-dev/race/pkg/protocol"
	"github.com/vango-dev/race/pkg/race"
)

// Session is one client connection with its own mounted app. All renderer
// work happens on the session's event loop.
type Session struct {
	ID string

	server *Server
	conn   *websocket.Conn
	mem    *host.Memory
	rec    *host.Recorder
	app    *race.App
	logger *slog.Logger

	inbound   chan inbound
	done      chan struct{}
	closeOnce sync.Once

	// reported collects renderer errors raised while handling one event.
	reported []error
}

type inbound struct {
	frame *protocol.Frame
	err   error
}

func newSession(srv *Server, conn *websocket.Conn, id string) *Session {
	mem := host.NewMemory()
	s := &Session{
		ID:      id,
		server:  srv,
		conn:    conn,
		mem:     mem,
		rec:     host.NewRecorder(mem),
		logger:  srv.logger.With("session_id", id),
		inbound: make(chan inbound, srv.config.EventQueue),
		done:    make(chan struct{}),
	}
	opts := append(srv.rendererOptions(s.logger), race.WithErrorHandler(func(err error) {
		s.reported = append(s.reported, err)
	}))
	s.app = race.CreateApp(srv.def, srv.props, race.WithHost(s.rec), race.WithRendererOptions(opts...))
	return s
}

// Close ends the session. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Run mounts the app, sends the hello and initial ops, then serves events
// until the client disconnects, Close is called or ctx ends.
func (s *Session) Run(ctx context.Context) error {
	defer s.conn.Close()

	if err := s.app.Mount(s.mem.Body()); err != nil {
		s.sendError(errors.FromError(err, errors.CodeHostOperation), true)
		return err
	}
	defer func() {
		if err := s.app.Unmount(); err != nil {
			s.logger.Warn("unmount failed", "error", err)
		}
	}()

	hello := protocol.NewFrame(protocol.FrameHello, protocol.EncodeHello(protocol.Hello{
		Session: s.ID,
		Root:    s.mem.Body().ID(),
	}))
	if err := s.write(hello); err != nil {
		return err
	}
	if err := s.flush(); err != nil {
		return err
	}
	s.logger.Info("session started")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(s.readLoop)
	g.Go(func() error { return s.eventLoop(ctx) })
	g.Go(func() error {
		select {
		case <-ctx.Done():
		case <-s.done:
		}
		// Unblocks readLoop.
		s.conn.Close()
		return nil
	})
	err := g.Wait()
	s.logger.Info("session closed")
	return err
}

// readLoop reads frames and hands them to the event loop. It is the only
// reader of the connection.
func (s *Session) readLoop() error {
	defer s.Close()

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				return fmt.Errorf("read: %w", err)
			}
			return nil
		}

		frame, err := protocol.DecodeFrame(msg)
		select {
		case s.inbound <- inbound{frame: frame, err: err}:
		case <-s.done:
			return nil
		}
	}
}

// eventLoop handles inbound frames. It is the only writer of the connection
// once Run has started the loops.
func (s *Session) eventLoop(ctx context.Context) error {
	for {
		select {
		case in := <-s.inbound:
			if err := s.handle(ctx, in); err != nil {
				s.Close()
				return err
			}
		case <-s.done:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

// handle processes one inbound frame. Only write failures are returned;
// bad client input is answered with an error frame.
func (s *Session) handle(ctx context.Context, in inbound) error {
	if in.err != nil {
		s.clientEvent(in.err)
		return s.sendError(errors.New(errors.CodeFrameDecode).Wrap(in.err), false)
	}
	if in.frame.Type != protocol.FrameEvent {
		err := errors.New(errors.CodeFrameDecode).WithDetailf("unexpected %s frame", in.frame.Type)
		s.clientEvent(err)
		return s.sendError(err, false)
	}

	ev, err := protocol.DecodeEvent(in.frame.Payload)
	if err != nil {
		s.clientEvent(err)
		return s.sendError(errors.New(errors.CodeFrameDecode).Wrap(err), false)
	}

	if err := s.dispatch(ctx, ev); err != nil {
		s.clientEvent(err)
		if werr := s.sendError(errors.FromError(err, errors.CodeHostOperation), false); werr != nil {
			return werr
		}
	} else {
		s.clientEvent(nil)
	}
	return s.flush()
}

// dispatch delivers ev to the listeners on its target node.
func (s *Session) dispatch(ctx context.Context, ev protocol.Event) error {
	_, span := s.server.tracer.Start(ctx, "live.event",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("race.session_id", s.ID),
			attribute.String("race.event_type", ev.Type),
			attribute.Int64("race.event_target", int64(ev.Target)),
		),
	)
	defer span.End()

	start := time.Now()
	node, ok := s.mem.Lookup(ev.Target)
	if !ok {
		err := errors.New(errors.CodeUnknownNode).WithDetailf("node %d", ev.Target)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	n, err := s.mem.Dispatch(node, ev.Type, host.Event{Value: ev.Value})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(attribute.Int("race.listeners", n))
	span.SetStatus(codes.Ok, "")
	s.logger.Debug("event handled",
		"type", ev.Type,
		"target", ev.Target,
		"listeners", n,
		"duration", time.Since(start))
	return nil
}

// flush sends recorded host ops and any renderer errors reported since the
// last flush.
func (s *Session) flush() error {
	ops := s.rec.Drain()
	frames, err := protocol.EncodeOps(protocol.FromHost(ops, protocol.MemoryID))
	if err != nil {
		return errors.New(errors.CodeFrameEncode).Wrap(err)
	}
	for _, f := range frames {
		if err := s.write(f); err != nil {
			return err
		}
	}
	if s.server.collector != nil && len(frames) > 0 {
		s.server.collector.FramesSent(len(frames))
	}

	reported := s.reported
	s.reported = nil
	for _, err := range reported {
		if err := s.sendError(errors.FromError(err, errors.CodeRenderPanic), false); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) sendError(e *errors.Error, fatal bool) error {
	s.logger.Warn("client error", "code", e.Code, "error", e)
	payload := protocol.EncodeErrorMessage(&protocol.ErrorMessage{
		Code:    e.Code,
		Message: e.Error(),
		Fatal:   fatal,
	})
	return s.write(protocol.NewFrame(protocol.FrameError, payload))
}

func (s *Session) write(f *protocol.Frame) error {
	s.conn.SetWriteDeadline(time.Now().Add(s.server.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, f.Encode()); err != nil {
		if stderrors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return fmt.Errorf("write %s frame: %w", f.Type, err)
	}
	return nil
}

func (s *Session) clientEvent(err error) {
	if s.server.collector != nil {
		s.server.collector.ClientEvent(err)
	}
}
