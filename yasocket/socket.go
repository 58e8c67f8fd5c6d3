// Package yasocket keeps a message socket usable across connection loss.
//
// A Socket owns one Transport at a time (obtained from a Dialer), reconnects
// after every close it did not ask for, and buffers messages sent while the
// transport is down so callers can Send at any moment without checking the
// connection state.
//
// # Event model
//
// Transport callbacks and retry timers are posted to a per-socket queue that a
// single goroutine drains. State transitions and listener dispatch therefore
// never run concurrently with each other. Send and Close may be called from any
// goroutine.
//
// On open the socket rewinds the backoff, replays the buffer oldest first
// through the new transport, clears it, and only then dispatches OpenEvent.
// On a close it did not initiate, it asks the backoff for the next gap, arms a
// timer, and dispatches CloseEvent. When the timer fires it dispatches
// RetryEvent and dials again with the same ConnectParams.
//
// # Quick start
//
//	socket, err := yasocket.NewBuilder(yawebsocket.NewDialer(log), yasocket.ConnectParams{URL: url}).
//		WithBuffer(yabuffer.NewRing[yasocket.Message](128)).
//		WithBackoff(yabackoff.NewLinear(time.Second, time.Second, 30*time.Second)).
//		OnMessage(func(_ *yasocket.Socket, ev yasocket.MessageEvent) {
//			fmt.Println(ev.Message)
//		}).
//		Build(ctx)
//	if err != nil {
//		return err
//	}
//
//	_ = socket.SendText("hello") // buffered until the first open
package yasocket

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/YaCodeDev/GoYaSocket/yabackoff"
	"github.com/YaCodeDev/GoYaSocket/yabuffer"
	"github.com/YaCodeDev/GoYaSocket/yaerrors"
	"github.com/YaCodeDev/GoYaSocket/yalogger"
)

// Socket is a self-healing connection. Create it with New or a Builder.
type Socket struct {
	id        uuid.UUID
	params    ConnectParams
	dialer    Dialer
	buffer    yabuffer.Buffer[Message]
	backoff   yabackoff.Backoff
	clock     clock.Clock
	log       yalogger.Logger
	metrics   *socketMetrics
	listeners *registry
	loop      *eventLoop

	mu           sync.Mutex
	state        State
	transport    Transport
	generation   uint64
	retries      int
	closedByUser bool
	retryTimer   *clock.Timer
}

// New creates a socket and immediately starts the first connection attempt.
//
// The socket stops when Close has been called and the transport reported its
// final close, or when ctx is done. In the latter case the transport is
// closed with CloseGoingAway and no further events are dispatched.
func New(ctx context.Context, dialer Dialer, params ConnectParams, opts ...Option) (*Socket, yaerrors.Error) {
	if dialer == nil {
		return nil, yaerrors.FromError(http.StatusInternalServerError, ErrNilDialer, "new socket")
	}

	options := options{clock: clock.New()}

	for _, opt := range opts {
		opt(&options)
	}

	safetyCheck(&options.log)

	s := &Socket{
		id:        uuid.New(),
		params:    params,
		dialer:    dialer,
		buffer:    options.buffer,
		backoff:   options.backoff,
		clock:     options.clock,
		listeners: newRegistry(),
		loop:      newEventLoop(),
		state:     StateConnecting,
	}

	s.log = options.log.WithSocketID(s.id).WithField(yalogger.KeyURL, params.URL)
	s.metrics = newSocketMetrics(options.registerer, params.URL, s.log)

	for _, pending := range options.listeners {
		s.listeners.add(pending.kind, pending.listener, pending.opts...)
	}

	go s.run(ctx)

	s.mu.Lock()
	s.dialLocked()
	s.mu.Unlock()

	s.log.Debug("Socket created, connecting")

	return s, nil
}

// ID returns the identifier the socket tags its log entries with.
func (s *Socket) ID() uuid.UUID {
	return s.id
}

// URL returns the URL the socket connects to.
func (s *Socket) URL() string {
	return s.params.URL
}

func (s *Socket) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Retries returns the number of reconnect attempts since the last open.
func (s *Socket) Retries() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.retries
}

// Buffered returns how many messages wait for the next open.
func (s *Socket) Buffered() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.buffer == nil {
		return 0
	}

	return s.buffer.Len()
}

// Done is closed once the socket has stopped for good.
func (s *Socket) Done() <-chan struct{} {
	return s.loop.done
}

// AddEventListener registers listener for kind and returns its handle.
func (s *Socket) AddEventListener(kind EventKind, listener Listener, opts ...ListenerOption) ListenerID {
	return s.listeners.add(kind, listener, opts...)
}

// RemoveEventListener drops the registration with the given handle and
// reports whether it existed.
func (s *Socket) RemoveEventListener(kind EventKind, id ListenerID) bool {
	return s.listeners.remove(kind, id)
}

// Send transmits msg if the transport is open and buffers it otherwise.
//
// After Close, Send is a no-op. When the transport rejects the message it is
// buffered as well and the transport error is returned.
func (s *Socket) Send(msg Message) yaerrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closedByUser {
		return nil
	}

	if s.state != StateOpen || s.transport == nil {
		s.bufferLocked(msg)

		return nil
	}

	if err := s.transport.Send(msg); err != nil {
		s.bufferLocked(msg)

		return yaerrors.FromError(
			http.StatusServiceUnavailable,
			err,
			fmt.Sprintf("send %s message", msg.Type),
		)
	}

	s.metrics.send()

	return nil
}

// SendText is shorthand for Send(Text(text)).
func (s *Socket) SendText(text string) yaerrors.Error {
	return s.Send(Text(text))
}

// SendBinary is shorthand for Send(Binary(data)).
func (s *Socket) SendBinary(data []byte) yaerrors.Error {
	return s.Send(Binary(data))
}

// Close stops reconnecting and closes the transport with params.
// A zero Code is sent as CloseNormalClosure. Calling Close more than once is
// a no-op.
func (s *Socket) Close(params CloseParams) yaerrors.Error {
	if params.Code == 0 {
		params.Code = CloseNormalClosure
	}

	s.mu.Lock()

	if s.closedByUser {
		s.mu.Unlock()

		return nil
	}

	s.closedByUser = true
	s.stopRetryTimerLocked()

	transport := s.transport
	live := transport != nil && (s.state == StateConnecting || s.state == StateOpen)

	if !live {
		s.state = StateClosed
	}

	s.mu.Unlock()

	s.log.WithField("code", params.Code).Info("Closing socket")

	if !live {
		s.loop.post(s.loop.stop)

		return nil
	}

	if err := transport.Close(params.Code, params.Reason); err != nil {
		s.loop.post(func() { s.finish(CloseEvent{Code: params.Code, Reason: params.Reason}) })

		return yaerrors.FromError(http.StatusInternalServerError, err, "close transport")
	}

	return nil
}

func (s *Socket) run(ctx context.Context) {
	s.loop.run(ctx)

	s.mu.Lock()
	s.stopRetryTimerLocked()

	transport := s.transport
	abandon := !s.closedByUser && (s.state == StateConnecting || s.state == StateOpen)
	s.state = StateClosed

	if ctx.Err() != nil {
		s.closedByUser = true
	}

	s.mu.Unlock()

	s.metrics.setConnected(false)

	if abandon && transport != nil {
		if err := transport.Close(CloseGoingAway, "context done"); err != nil {
			s.log.Debugf("Closing abandoned transport: %v", err)
		}
	}

	s.log.Debug("Socket stopped")
}

// finish ends the socket when the transport failed to close and may never
// report it. Whichever of finish and the transport's own close runs first
// dispatches the final close event; the loop drops the other.
func (s *Socket) finish(ev CloseEvent) {
	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()

	s.log.WithField("code", ev.Code).Warn("Transport failed to close, socket closed")
	s.finalClose(ev)
}

// dialLocked starts a fresh connection attempt. s.mu must be held and no
// transport may be live.
func (s *Socket) dialLocked() {
	s.generation++
	s.state = StateConnecting
	s.transport = s.dialer.Dial(s.params, s.handlers(s.generation))
}

// discardLocked detaches the current transport so its callbacks are ignored
// and returns it for closing. s.mu must be held.
func (s *Socket) discardLocked() Transport {
	previous := s.transport

	s.generation++
	s.transport = nil

	return previous
}

// handlers binds transport callbacks to one dial. Callbacks of a replaced
// transport carry an old generation and are ignored.
func (s *Socket) handlers(generation uint64) Handlers {
	return Handlers{
		OnOpen: func() {
			s.loop.post(func() { s.handleOpen(generation) })
		},
		OnClose: func(ev CloseEvent) {
			s.loop.post(func() { s.handleClose(generation, ev) })
		},
		OnError: func(err error) {
			s.loop.post(func() { s.handleError(generation, err) })
		},
		OnMessage: func(msg Message) {
			s.loop.post(func() { s.handleMessage(generation, msg) })
		},
	}
}

func (s *Socket) current(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return generation == s.generation
}

func (s *Socket) handleOpen(generation uint64) {
	s.mu.Lock()

	if generation != s.generation || s.closedByUser {
		s.mu.Unlock()

		return
	}

	s.state = StateOpen
	s.retries = 0

	if s.backoff != nil {
		s.backoff.Reset()
	}

	replayed, err := s.replayLocked()
	s.mu.Unlock()

	s.metrics.setConnected(true)
	s.log.WithField("replayed", replayed).Info("Socket open")

	if err != nil {
		s.log.Warnf("Replay interrupted: %v", err)
		s.dispatch(ErrorEvent{Err: err})
	}

	s.dispatch(OpenEvent{})
}

// replayLocked sends every buffered message through the transport, oldest
// first. Messages the transport refuses go back into the buffer. s.mu must
// be held.
func (s *Socket) replayLocked() (int, yaerrors.Error) {
	if s.buffer == nil {
		return 0, nil
	}

	pending := make([]Message, 0, s.buffer.Len())

	s.buffer.ForEach(func(msg Message) {
		pending = append(pending, msg)
	})
	s.buffer.Clear()

	for i, msg := range pending {
		if err := s.transport.Send(msg); err != nil {
			s.buffer.Write(pending[i:])
			s.metrics.replay(i)

			return i, yaerrors.FromError(
				http.StatusServiceUnavailable,
				err,
				fmt.Sprintf("replay buffered message %d of %d", i+1, len(pending)),
			)
		}
	}

	s.metrics.replay(len(pending))

	return len(pending), nil
}

func (s *Socket) handleClose(generation uint64, ev CloseEvent) {
	s.mu.Lock()

	if generation != s.generation {
		s.mu.Unlock()

		return
	}

	log := s.log.WithFields(map[string]any{"code": ev.Code, "reason": ev.Reason})

	switch {
	case s.closedByUser:
		s.state = StateClosed
		s.mu.Unlock()

		log.Info("Socket closed by user")
		s.finalClose(ev)

	case s.backoff == nil:
		s.state = StateClosed
		s.mu.Unlock()

		log.Warn("Transport closed, no backoff configured: not reconnecting")
		s.finalClose(ev)

	default:
		gap := s.backoff.Next()

		s.state = StateRetrying
		s.retryTimer = s.clock.AfterFunc(gap, func() {
			s.loop.post(func() { s.handleRetry(generation, gap) })
		})
		s.mu.Unlock()

		s.metrics.setConnected(false)
		log.WithField("gap", gap).Warn("Transport closed, reconnect scheduled")
		s.dispatch(ev)
	}
}

func (s *Socket) finalClose(ev CloseEvent) {
	s.metrics.setConnected(false)
	s.dispatch(ev)
	s.loop.stop()
}

func (s *Socket) handleRetry(generation uint64, gap time.Duration) {
	s.mu.Lock()

	if s.closedByUser || generation != s.generation {
		s.mu.Unlock()

		return
	}

	s.retryTimer = nil
	s.retries++
	retries := s.retries
	s.mu.Unlock()

	s.metrics.retry()
	s.log.WithFields(map[string]any{"retries": retries, "gap": gap}).Info("Reconnecting")
	s.dispatch(RetryEvent{Retries: retries, Gap: gap})

	s.mu.Lock()

	if s.closedByUser {
		s.mu.Unlock()

		return
	}

	previous := s.discardLocked()
	s.mu.Unlock()

	if previous != nil {
		if err := previous.Close(CloseNormalClosure, "reconnecting"); err != nil {
			s.log.Debugf("Closing replaced transport: %v", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closedByUser {
		return
	}

	s.dialLocked()
}

func (s *Socket) handleError(generation uint64, err error) {
	if !s.current(generation) {
		return
	}

	s.log.Debugf("Transport error: %v", err)
	s.dispatch(ErrorEvent{Err: err})
}

func (s *Socket) handleMessage(generation uint64, msg Message) {
	if !s.current(generation) {
		return
	}

	s.dispatch(MessageEvent{Message: msg})
}

func (s *Socket) dispatch(ev Event) {
	s.listeners.dispatch(s, ev, s.log)
}

// bufferLocked keeps msg for the next open, or drops it when no buffer is
// configured. s.mu must be held.
func (s *Socket) bufferLocked(msg Message) {
	if s.buffer == nil {
		s.metrics.drop()

		return
	}

	full := s.buffer.Len() == s.buffer.Size()

	if s.buffer.Write([]Message{msg}) == 0 {
		s.metrics.drop()

		return
	}

	if full {
		s.metrics.drop()
	}

	s.metrics.buffer()
}

func (s *Socket) stopRetryTimerLocked() {
	if s.retryTimer != nil {
		s.retryTimer.Stop()
		s.retryTimer = nil
	}
}

// safetyCheck substitutes a default logger for a nil one.
func safetyCheck(log *yalogger.Logger) {
	if *log == nil {
		*log = yalogger.NewBaseLogger(&yalogger.Config{
			BaseLoggerType:  yalogger.Logrus,
			Level:           yalogger.InfoLevel,
			FullTimestamp:   true,
			TimestampFormat: yalogger.DefaultTimestampFormat,
		}).NewLogger()
	}
}
