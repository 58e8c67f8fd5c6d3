package yasocket_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaCodeDev/GoYaSocket/yabuffer"
	"github.com/YaCodeDev/GoYaSocket/yaerrors"
	"github.com/YaCodeDev/GoYaSocket/yalogger"
	"github.com/YaCodeDev/GoYaSocket/yasocket"
)

var params = yasocket.ConnectParams{URL: "ws://example.test/feed"}

func newSocket(
	t *testing.T,
	dialer yasocket.Dialer,
	opts ...yasocket.Option,
) *yasocket.Socket {
	t.Helper()

	opts = append([]yasocket.Option{yasocket.WithLogger(yalogger.NewDiscard())}, opts...)

	socket, err := yasocket.New(t.Context(), dialer, params, opts...)
	require.Nil(t, err)

	return socket
}

func waitState(t *testing.T, socket *yasocket.Socket, state yasocket.State) {
	t.Helper()

	require.Eventually(t, func() bool {
		return socket.State() == state
	}, waitFor, tick, "socket never reached %s", state)
}

func waitDone(t *testing.T, socket *yasocket.Socket) {
	t.Helper()

	select {
	case <-socket.Done():
	case <-time.After(waitFor):
		t.Fatal("socket did not stop")
	}
}

func TestSocket_New(t *testing.T) {
	t.Parallel()

	t.Run("[New] nil dialer is rejected", func(t *testing.T) {
		t.Parallel()

		socket, err := yasocket.New(t.Context(), nil, params)

		require.Nil(t, socket)
		require.NotNil(t, err)
		assert.Equal(t, http.StatusInternalServerError, err.Code())
		assert.True(t, yaerrors.Is(err, yasocket.ErrNilDialer))
	})

	t.Run("[New] dials immediately with the given params", func(t *testing.T) {
		t.Parallel()

		dialer := newFakeDialer()
		socket := newSocket(t, dialer)

		require.Equal(t, 1, dialer.dials())
		assert.Equal(t, params, dialer.params[0])
		assert.Equal(t, yasocket.StateConnecting, socket.State())
		assert.Equal(t, params.URL, socket.URL())
		assert.NotEqual(t, uuid.Nil, socket.ID())
	})
}

func TestSocket_SendBuffersUntilOpen(t *testing.T) {
	t.Parallel()

	dialer := newFakeDialer()

	var (
		sentAtOpen     []yasocket.Message
		bufferedAtOpen int
	)

	opened := make(chan struct{})

	socket := newSocket(t, dialer,
		yasocket.WithBuffer(yabuffer.NewRing[yasocket.Message](8)),
		yasocket.WithListener(yasocket.EventOpen, func(s *yasocket.Socket, _ yasocket.Event) {
			sentAtOpen = dialer.last().sentMessages()
			bufferedAtOpen = s.Buffered()

			close(opened)
		}),
	)

	require.Nil(t, socket.SendText("a"))
	require.Nil(t, socket.SendBinary([]byte{0x01}))
	require.Equal(t, 2, socket.Buffered())
	assert.Empty(t, dialer.last().sentMessages())

	dialer.last().open()

	select {
	case <-opened:
	case <-time.After(waitFor):
		t.Fatal("open listener never ran")
	}

	assert.Equal(t, []yasocket.Message{yasocket.Text("a"), yasocket.Binary([]byte{0x01})}, sentAtOpen)
	assert.Zero(t, bufferedAtOpen)

	require.Nil(t, socket.SendText("b"))
	assert.Equal(t, yasocket.Text("b"), dialer.last().sentMessages()[2])
	assert.Zero(t, socket.Buffered())
}

func TestSocket_SendWithoutBufferDrops(t *testing.T) {
	t.Parallel()

	dialer := newFakeDialer()
	socket := newSocket(t, dialer)

	require.Nil(t, socket.SendText("lost"))
	assert.Zero(t, socket.Buffered())

	dialer.last().open()
	waitState(t, socket, yasocket.StateOpen)

	assert.Empty(t, dialer.last().sentMessages())
}

func TestSocket_SendRejectedWhileOpenIsBuffered(t *testing.T) {
	t.Parallel()

	dialer := newFakeDialer()
	dialer.accept = 0

	socket := newSocket(t, dialer, yasocket.WithBuffer(yabuffer.NewRing[yasocket.Message](4)))

	dialer.last().open()
	waitState(t, socket, yasocket.StateOpen)

	err := socket.SendText("x")

	require.NotNil(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, err.Code())
	assert.Equal(t, 1, socket.Buffered())
}

func TestSocket_ReplayFailureKeepsTail(t *testing.T) {
	t.Parallel()

	dialer := newFakeDialer()
	dialer.accept = 1

	rec, opts := recordAll(allKinds...)
	opts = append(opts, yasocket.WithBuffer(yabuffer.NewRing[yasocket.Message](4)))

	socket := newSocket(t, dialer, opts...)

	for _, text := range []string{"a", "b", "c"} {
		require.Nil(t, socket.SendText(text))
	}

	dialer.last().open()

	require.Eventually(t, func() bool {
		return len(rec.kinds()) == 2
	}, waitFor, tick)

	assert.Equal(t, []yasocket.EventKind{yasocket.EventError, yasocket.EventOpen}, rec.kinds())
	assert.Equal(t, []yasocket.Message{yasocket.Text("a")}, dialer.last().sentMessages())
	assert.Equal(t, 2, socket.Buffered())
}

func TestSocket_ReconnectsAfterRemoteClose(t *testing.T) {
	t.Parallel()

	mock := clock.NewMock()
	dialer := newFakeDialer()
	backoff := newCountingBackoff(time.Second)
	rec, opts := recordAll(allKinds...)

	opts = append(opts,
		yasocket.WithBackoff(backoff),
		yasocket.WithClock(mock),
		yasocket.WithBuffer(yabuffer.NewRing[yasocket.Message](4)),
	)

	socket := newSocket(t, dialer, opts...)

	dialer.last().open()
	waitState(t, socket, yasocket.StateOpen)

	dialer.last().closeRemote(yasocket.CloseAbnormalClosure)
	waitState(t, socket, yasocket.StateRetrying)

	require.Nil(t, socket.SendText("while down"))
	assert.Equal(t, 1, dialer.dials())
	assert.Equal(t, int32(1), backoff.nexts.Load())

	mock.Add(time.Second)

	require.Eventually(t, func() bool {
		return dialer.dials() == 2
	}, waitFor, tick)

	assert.Equal(t, params, dialer.params[1])
	assert.Equal(t, 1, socket.Retries())

	dialer.last().open()
	waitState(t, socket, yasocket.StateOpen)

	assert.Zero(t, socket.Retries())
	assert.Equal(t, []yasocket.Message{yasocket.Text("while down")}, dialer.last().sentMessages())
	assert.Equal(t, int32(2), backoff.resets.Load())

	require.Eventually(t, func() bool {
		return len(rec.kinds()) == 4
	}, waitFor, tick)

	events := rec.all()

	assert.Equal(t, []yasocket.EventKind{
		yasocket.EventOpen,
		yasocket.EventClose,
		yasocket.EventRetry,
		yasocket.EventOpen,
	}, rec.kinds())
	assert.Equal(t, yasocket.CloseAbnormalClosure, events[1].(yasocket.CloseEvent).Code)
	assert.Equal(t, yasocket.RetryEvent{Retries: 1, Gap: time.Second}, events[2])
}

func TestSocket_RetryDiscardsPreviousTransportBeforeDialing(t *testing.T) {
	t.Parallel()

	mock := clock.NewMock()
	dialer := newFakeDialer()
	socket := newSocket(t, dialer,
		yasocket.WithBackoff(newCountingBackoff(time.Second)),
		yasocket.WithClock(mock),
	)

	first := dialer.last()
	first.open()
	waitState(t, socket, yasocket.StateOpen)

	first.reportClose(yasocket.CloseAbnormalClosure)
	waitState(t, socket, yasocket.StateRetrying)
	assert.False(t, first.isClosed())

	mock.Add(time.Second)

	require.Eventually(t, func() bool {
		return dialer.dials() == 2
	}, waitFor, tick)

	closed, code := first.closedWith()

	assert.True(t, closed)
	assert.Equal(t, yasocket.CloseNormalClosure, code)
	assert.Equal(t, []int{0, 0}, dialer.liveTransportsAtDial())
	assert.Equal(t, yasocket.StateConnecting, socket.State())
}

func TestSocket_RetriesCountUpUntilOpen(t *testing.T) {
	t.Parallel()

	mock := clock.NewMock()
	dialer := newFakeDialer()

	var retries []int

	socket := newSocket(t, dialer,
		yasocket.WithBackoff(newCountingBackoff(time.Second)),
		yasocket.WithClock(mock),
		yasocket.WithListener(yasocket.EventRetry, yasocket.RetryListener(
			func(_ *yasocket.Socket, ev yasocket.RetryEvent) {
				retries = append(retries, ev.Retries)
			},
		)),
	)

	for attempt := 1; attempt <= 3; attempt++ {
		dialer.last().closeRemote(yasocket.CloseAbnormalClosure)
		waitState(t, socket, yasocket.StateRetrying)

		mock.Add(time.Second)

		require.Eventually(t, func() bool {
			return dialer.dials() == attempt+1
		}, waitFor, tick)
		waitState(t, socket, yasocket.StateConnecting)
	}

	assert.Equal(t, 3, socket.Retries())

	dialer.last().open()
	waitState(t, socket, yasocket.StateOpen)

	assert.Equal(t, []int{1, 2, 3}, retries)
	assert.Zero(t, socket.Retries())
}

func TestSocket_NoBackoffStaysClosed(t *testing.T) {
	t.Parallel()

	dialer := newFakeDialer()
	rec, opts := recordAll(allKinds...)
	socket := newSocket(t, dialer, opts...)

	dialer.last().open()
	waitState(t, socket, yasocket.StateOpen)

	dialer.last().closeRemote(yasocket.CloseAbnormalClosure)
	waitDone(t, socket)

	assert.Equal(t, yasocket.StateClosed, socket.State())
	assert.Equal(t, 1, dialer.dials())
	assert.Equal(t, []yasocket.EventKind{yasocket.EventOpen, yasocket.EventClose}, rec.kinds())
}

func TestSocket_Close(t *testing.T) {
	t.Parallel()

	t.Run("[Close] user close never retries", func(t *testing.T) {
		t.Parallel()

		dialer := newFakeDialer()
		backoff := newCountingBackoff(time.Millisecond)
		rec, opts := recordAll(allKinds...)

		opts = append(opts,
			yasocket.WithBackoff(backoff),
			yasocket.WithBuffer(yabuffer.NewRing[yasocket.Message](4)),
		)

		socket := newSocket(t, dialer, opts...)

		dialer.last().open()
		waitState(t, socket, yasocket.StateOpen)

		require.Nil(t, socket.Close(yasocket.CloseParams{Reason: "bye"}))
		waitDone(t, socket)

		closed, code := dialer.last().closedWith()

		assert.True(t, closed)
		assert.Equal(t, yasocket.CloseNormalClosure, code)
		assert.Equal(t, yasocket.StateClosed, socket.State())
		assert.Zero(t, backoff.nexts.Load())
		assert.Equal(t, 1, dialer.dials())

		events := rec.all()

		require.Len(t, events, 2)
		assert.Equal(t, yasocket.CloseEvent{
			Code:     yasocket.CloseNormalClosure,
			Reason:   "bye",
			WasClean: true,
		}, events[1])

		require.Nil(t, socket.SendText("ignored"))
		assert.Zero(t, socket.Buffered())
		require.Nil(t, socket.Close(yasocket.CloseParams{}))
	})

	t.Run("[Close] while retrying cancels the pending dial", func(t *testing.T) {
		t.Parallel()

		mock := clock.NewMock()
		dialer := newFakeDialer()
		socket := newSocket(t, dialer,
			yasocket.WithBackoff(newCountingBackoff(time.Second)),
			yasocket.WithClock(mock),
		)

		dialer.last().closeRemote(yasocket.CloseAbnormalClosure)
		waitState(t, socket, yasocket.StateRetrying)

		require.Nil(t, socket.Close(yasocket.CloseParams{}))
		waitDone(t, socket)

		mock.Add(time.Minute)
		time.Sleep(10 * tick)

		assert.Equal(t, 1, dialer.dials())
		assert.Equal(t, yasocket.StateClosed, socket.State())
	})

	t.Run("[Close] before open ignores a late open", func(t *testing.T) {
		t.Parallel()

		dialer := newFakeDialer()
		rec, opts := recordAll(allKinds...)
		socket := newSocket(t, dialer, opts...)

		require.Nil(t, socket.Close(yasocket.CloseParams{Code: 4000}))
		waitDone(t, socket)

		dialer.last().open()

		assert.Equal(t, []yasocket.EventKind{yasocket.EventClose}, rec.kinds())
		assert.Equal(t, yasocket.StateClosed, socket.State())
	})
}

func TestSocket_CloseFailureStillReportsClose(t *testing.T) {
	t.Parallel()

	dialer := newFakeDialer()
	dialer.closeErr = errRefused

	rec, opts := recordAll(allKinds...)
	socket := newSocket(t, dialer, opts...)

	dialer.last().open()
	waitState(t, socket, yasocket.StateOpen)

	err := socket.Close(yasocket.CloseParams{Code: 4000, Reason: "bye"})
	require.NotNil(t, err)
	assert.Equal(t, http.StatusInternalServerError, err.Code())

	waitDone(t, socket)

	assert.Equal(t, []yasocket.EventKind{yasocket.EventOpen, yasocket.EventClose}, rec.kinds())
	assert.Equal(t, yasocket.CloseEvent{Code: 4000, Reason: "bye"}, rec.all()[1])
	assert.Equal(t, yasocket.StateClosed, socket.State())
}

func TestSocket_ContextCancel(t *testing.T) {
	t.Parallel()

	dialer := newFakeDialer()
	rec, opts := recordAll(allKinds...)

	ctx, cancel := context.WithCancel(t.Context())

	socket, err := yasocket.New(ctx, dialer, params,
		append(opts, yasocket.WithLogger(yalogger.NewDiscard()))...)
	require.Nil(t, err)

	dialer.last().open()
	waitState(t, socket, yasocket.StateOpen)

	cancel()
	waitDone(t, socket)

	require.Eventually(t, func() bool {
		closed, code := dialer.last().closedWith()

		return closed && code == yasocket.CloseGoingAway
	}, waitFor, tick)

	assert.Equal(t, yasocket.StateClosed, socket.State())
	assert.Equal(t, []yasocket.EventKind{yasocket.EventOpen}, rec.kinds())
}

func TestSocket_IgnoresReplacedTransport(t *testing.T) {
	t.Parallel()

	mock := clock.NewMock()
	dialer := newFakeDialer()

	var messages atomic.Value

	socket := newSocket(t, dialer,
		yasocket.WithBackoff(newCountingBackoff(time.Second)),
		yasocket.WithClock(mock),
		yasocket.WithListener(yasocket.EventMessage, yasocket.MessageListener(
			func(_ *yasocket.Socket, ev yasocket.MessageEvent) {
				seen, _ := messages.Load().([]string)
				messages.Store(append(append([]string(nil), seen...), ev.Message.String()))
			},
		)),
	)

	stale := dialer.last()
	stale.open()
	waitState(t, socket, yasocket.StateOpen)

	stale.closeRemote(yasocket.CloseAbnormalClosure)
	waitState(t, socket, yasocket.StateRetrying)

	mock.Add(time.Second)

	require.Eventually(t, func() bool {
		return dialer.dials() == 2
	}, waitFor, tick)

	stale.receive(yasocket.Text("stale"))
	stale.open()
	stale.fail(errRefused)
	dialer.transport(1).receive(yasocket.Text("fresh"))

	require.Eventually(t, func() bool {
		seen, _ := messages.Load().([]string)

		return len(seen) > 0
	}, waitFor, tick)

	assert.Equal(t, []string{"fresh"}, messages.Load())
	assert.Equal(t, yasocket.StateConnecting, socket.State())
}

func TestSocket_ErrorsAreForwarded(t *testing.T) {
	t.Parallel()

	dialer := newFakeDialer()
	rec, opts := recordAll(yasocket.EventError)
	socket := newSocket(t, dialer, opts...)

	dialer.last().fail(errRefused)

	require.Eventually(t, func() bool {
		return len(rec.kinds()) == 1
	}, waitFor, tick)

	assert.Equal(t, yasocket.ErrorEvent{Err: errRefused}, rec.all()[0])
	assert.Equal(t, yasocket.StateConnecting, socket.State())
}
