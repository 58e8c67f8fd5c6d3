package yasocket

import (
	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/YaCodeDev/GoYaSocket/yabackoff"
	"github.com/YaCodeDev/GoYaSocket/yabuffer"
	"github.com/YaCodeDev/GoYaSocket/yalogger"
)

// Option configures a Socket at construction time.
type Option func(*options)

type pendingListener struct {
	kind     EventKind
	listener Listener
	opts     []ListenerOption
}

type options struct {
	buffer     yabuffer.Buffer[Message]
	backoff    yabackoff.Backoff
	log        yalogger.Logger
	clock      clock.Clock
	registerer prometheus.Registerer
	listeners  []pendingListener
}

// WithBuffer stores messages sent while the transport is unavailable.
// Without a buffer such messages are dropped.
func WithBuffer(buffer yabuffer.Buffer[Message]) Option {
	return func(o *options) {
		o.buffer = buffer
	}
}

// WithBackoff enables automatic reconnection, waiting backoff.Next() before
// each attempt. Without a backoff the socket stays closed after the first
// transport close.
func WithBackoff(backoff yabackoff.Backoff) Option {
	return func(o *options) {
		o.backoff = backoff
	}
}

func WithLogger(log yalogger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithClock replaces the wall clock used for retry timers.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithMetrics registers the socket counters on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithListener registers a listener before the first connection attempt, so
// it cannot miss the first open event.
func WithListener(kind EventKind, listener Listener, opts ...ListenerOption) Option {
	return func(o *options) {
		o.listeners = append(o.listeners, pendingListener{kind: kind, listener: listener, opts: opts})
	}
}
