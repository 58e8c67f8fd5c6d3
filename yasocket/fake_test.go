package yasocket_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/YaCodeDev/GoYaSocket/yabackoff"
	"github.com/YaCodeDev/GoYaSocket/yasocket"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

var errRefused = errors.New("transport refused message")

// fakeTransport records what the socket sends and lets a test drive the
// transport callbacks by hand.
type fakeTransport struct {
	handlers yasocket.Handlers

	mu        sync.Mutex
	accept    int
	closeErr  error
	sent      []yasocket.Message
	closed    bool
	closeCode int
}

func (t *fakeTransport) Send(msg yasocket.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || t.accept == 0 {
		return errRefused
	}

	if t.accept > 0 {
		t.accept--
	}

	t.sent = append(t.sent, msg)

	return nil
}

// Close reports the close synchronously, like a transport that was never
// connected would. With closeErr set it fails and reports nothing.
func (t *fakeTransport) Close(code int, reason string) error {
	t.mu.Lock()

	if t.closeErr != nil {
		t.mu.Unlock()

		return t.closeErr
	}

	if t.closed {
		t.mu.Unlock()

		return nil
	}

	t.closed = true
	t.closeCode = code
	t.mu.Unlock()

	t.handlers.OnClose(yasocket.CloseEvent{Code: code, Reason: reason, WasClean: true})

	return nil
}

func (t *fakeTransport) open() {
	t.handlers.OnOpen()
}

func (t *fakeTransport) closeRemote(code int) {
	t.mu.Lock()
	t.closed = true
	t.closeCode = code
	t.mu.Unlock()

	t.handlers.OnClose(yasocket.CloseEvent{Code: code, Reason: "remote"})
}

// reportClose fires OnClose while the transport itself stays live.
func (t *fakeTransport) reportClose(code int) {
	t.handlers.OnClose(yasocket.CloseEvent{Code: code, Reason: "remote"})
}

func (t *fakeTransport) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.closed
}

func (t *fakeTransport) fail(err error) {
	t.handlers.OnError(err)
}

func (t *fakeTransport) receive(msg yasocket.Message) {
	t.handlers.OnMessage(msg)
}

func (t *fakeTransport) sentMessages() []yasocket.Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]yasocket.Message(nil), t.sent...)
}

func (t *fakeTransport) closedWith() (bool, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.closed, t.closeCode
}

// fakeDialer hands out fakeTransports. accept limits how many messages each
// new transport takes before refusing; a negative value means no limit.
// liveAtDial holds, per dial, how many earlier transports were still open.
type fakeDialer struct {
	mu         sync.Mutex
	accept     int
	closeErr   error
	transports []*fakeTransport
	params     []yasocket.ConnectParams
	liveAtDial []int
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{accept: -1}
}

func (d *fakeDialer) Dial(params yasocket.ConnectParams, handlers yasocket.Handlers) yasocket.Transport {
	d.mu.Lock()
	defer d.mu.Unlock()

	live := 0

	for _, previous := range d.transports {
		if !previous.isClosed() {
			live++
		}
	}

	transport := &fakeTransport{handlers: handlers, accept: d.accept, closeErr: d.closeErr}

	d.liveAtDial = append(d.liveAtDial, live)
	d.transports = append(d.transports, transport)
	d.params = append(d.params, params)

	return transport
}

func (d *fakeDialer) dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.transports)
}

func (d *fakeDialer) transport(i int) *fakeTransport {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.transports[i]
}

func (d *fakeDialer) liveTransportsAtDial() []int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]int(nil), d.liveAtDial...)
}

func (d *fakeDialer) last() *fakeTransport {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.transports[len(d.transports)-1]
}

// countingBackoff counts how many gaps the socket asked for.
type countingBackoff struct {
	yabackoff.Backoff

	nexts  atomic.Int32
	resets atomic.Int32
}

func newCountingBackoff(gap time.Duration) *countingBackoff {
	return &countingBackoff{Backoff: yabackoff.NewConstant(gap)}
}

func (b *countingBackoff) Next() time.Duration {
	b.nexts.Add(1)

	return b.Backoff.Next()
}

func (b *countingBackoff) Reset() {
	b.resets.Add(1)
	b.Backoff.Reset()
}

// recorder collects dispatched events in order.
type recorder struct {
	mu     sync.Mutex
	events []yasocket.Event
}

func (r *recorder) listener() yasocket.Listener {
	return func(_ *yasocket.Socket, ev yasocket.Event) {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.events = append(r.events, ev)
	}
}

func (r *recorder) kinds() []yasocket.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]yasocket.EventKind, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Kind())
	}

	return out
}

func (r *recorder) all() []yasocket.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]yasocket.Event(nil), r.events...)
}

func (r *recorder) watch(socket *yasocket.Socket, kinds ...yasocket.EventKind) {
	for _, kind := range kinds {
		socket.AddEventListener(kind, r.listener())
	}
}

func recordAll(kinds ...yasocket.EventKind) (*recorder, []yasocket.Option) {
	rec := &recorder{}

	opts := make([]yasocket.Option, 0, len(kinds))
	for _, kind := range kinds {
		opts = append(opts, yasocket.WithListener(kind, rec.listener()))
	}

	return rec, opts
}

var allKinds = []yasocket.EventKind{
	yasocket.EventOpen,
	yasocket.EventClose,
	yasocket.EventError,
	yasocket.EventMessage,
	yasocket.EventRetry,
}
