package yasocket

import (
	"context"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/YaCodeDev/GoYaSocket/yabackoff"
	"github.com/YaCodeDev/GoYaSocket/yabuffer"
	"github.com/YaCodeDev/GoYaSocket/yaerrors"
	"github.com/YaCodeDev/GoYaSocket/yalogger"
)

// Builder assembles a Socket step by step. Listeners registered on the
// builder are attached before the first connection attempt.
//
// Example usage:
//
//	socket, err := yasocket.NewBuilder(dialer, yasocket.ConnectParams{URL: url}).
//		WithBackoff(yabackoff.NewConstant(time.Second)).
//		OnOpen(func(s *yasocket.Socket, _ yasocket.OpenEvent) {
//			_ = s.SendText("hello")
//		}).
//		Build(ctx)
type Builder struct {
	dialer Dialer
	params ConnectParams
	opts   []Option

	once   sync.Once
	socket *Socket
	err    yaerrors.Error
}

func NewBuilder(dialer Dialer, params ConnectParams) *Builder {
	return &Builder{
		dialer: dialer,
		params: params,
	}
}

func (b *Builder) WithBuffer(buffer yabuffer.Buffer[Message]) *Builder {
	return b.with(WithBuffer(buffer))
}

func (b *Builder) WithBackoff(backoff yabackoff.Backoff) *Builder {
	return b.with(WithBackoff(backoff))
}

func (b *Builder) WithLogger(log yalogger.Logger) *Builder {
	return b.with(WithLogger(log))
}

func (b *Builder) WithClock(c clock.Clock) *Builder {
	return b.with(WithClock(c))
}

func (b *Builder) WithMetrics(reg prometheus.Registerer) *Builder {
	return b.with(WithMetrics(reg))
}

func (b *Builder) OnOpen(fn func(*Socket, OpenEvent), opts ...ListenerOption) *Builder {
	return b.with(WithListener(EventOpen, OpenListener(fn), opts...))
}

func (b *Builder) OnClose(fn func(*Socket, CloseEvent), opts ...ListenerOption) *Builder {
	return b.with(WithListener(EventClose, CloseListener(fn), opts...))
}

func (b *Builder) OnError(fn func(*Socket, ErrorEvent), opts ...ListenerOption) *Builder {
	return b.with(WithListener(EventError, ErrorListener(fn), opts...))
}

func (b *Builder) OnMessage(fn func(*Socket, MessageEvent), opts ...ListenerOption) *Builder {
	return b.with(WithListener(EventMessage, MessageListener(fn), opts...))
}

func (b *Builder) OnRetry(fn func(*Socket, RetryEvent), opts ...ListenerOption) *Builder {
	return b.with(WithListener(EventRetry, RetryListener(fn), opts...))
}

// Build creates the socket on the first call and returns the same socket on
// every later call. Configuration added after the first Build is ignored.
func (b *Builder) Build(ctx context.Context) (*Socket, yaerrors.Error) {
	b.once.Do(func() {
		b.socket, b.err = New(ctx, b.dialer, b.params, b.opts...)
	})

	return b.socket, b.err
}

func (b *Builder) with(opt Option) *Builder {
	b.opts = append(b.opts, opt)

	return b
}
