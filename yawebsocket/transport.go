package yawebsocket

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/YaCodeDev/GoYaSocket/yaerrors"
	"github.com/YaCodeDev/GoYaSocket/yalogger"
	"github.com/YaCodeDev/GoYaSocket/yasocket"
)

// Transport is one WebSocket connection attempt created by Dialer.Dial.
type Transport struct {
	handlers   yasocket.Handlers
	cancel     context.CancelFunc
	closeGrace time.Duration
	log        yalogger.Logger

	writeMu sync.Mutex

	mu          sync.Mutex
	conn        *websocket.Conn
	closing     bool
	closeCode   int
	closeReason string

	closeOnce sync.Once
}

// Send writes msg as a single frame. Writes from different goroutines are
// serialised.
func (t *Transport) Send(msg yasocket.Message) error {
	t.mu.Lock()
	conn, closing := t.conn, t.closing
	t.mu.Unlock()

	if closing {
		return ErrClosed
	}

	if conn == nil {
		return ErrNotConnected
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if err := conn.WriteMessage(int(msg.Type), msg.Data); err != nil {
		return yaerrors.FromError(http.StatusServiceUnavailable, err, "write frame")
	}

	return nil
}

// Close sends a close frame with code and reason and waits, in the
// background, for the peer to answer. An attempt that is still handshaking is
// cancelled. OnClose fires exactly once either way.
func (t *Transport) Close(code int, reason string) error {
	t.mu.Lock()

	if t.closing {
		t.mu.Unlock()

		return nil
	}

	t.closing = true
	t.closeCode = code
	t.closeReason = reason
	conn := t.conn
	t.mu.Unlock()

	t.cancel()

	if conn == nil {
		return nil
	}

	t.writeMu.Lock()
	err := conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(t.closeGrace),
	)
	t.writeMu.Unlock()

	if err != nil {
		_ = conn.Close()

		return yaerrors.FromError(http.StatusServiceUnavailable, err, "write close frame")
	}

	time.AfterFunc(t.closeGrace, func() {
		_ = conn.Close()
	})

	return nil
}

func (t *Transport) connect(ctx context.Context, d *Dialer, params yasocket.ConnectParams) {
	defer t.cancel()

	dialer, yaErr := d.websocketDialer(params)
	if yaErr != nil {
		t.abort(yaErr, yaErr.UnwrapLastError())

		return
	}

	conn, resp, err := dialer.DialContext(ctx, params.URL, params.Header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	if err != nil {
		if ctx.Err() != nil {
			t.reportUserClose(false)

			return
		}

		t.abort(yaerrors.FromError(http.StatusBadGateway, err, "websocket handshake"), err.Error())

		return
	}

	t.mu.Lock()

	if t.closing {
		t.mu.Unlock()

		_ = conn.Close()
		t.reportUserClose(false)

		return
	}

	t.conn = conn
	t.mu.Unlock()

	if d.readLimit > 0 {
		conn.SetReadLimit(d.readLimit)
	}

	if tcp := tcpConn(conn.NetConn()); tcp != nil {
		if err := tcp.SetNoDelay(params.TCPNoDelay); err != nil {
			t.log.Debugf("Failed to set TCP no-delay: %v", err)
		}
	}

	t.log.WithField("subprotocol", conn.Subprotocol()).Debug("WebSocket handshake complete")
	t.handlers.OnOpen()

	t.readLoop(conn)
}

func (t *Transport) readLoop(conn *websocket.Conn) {
	defer conn.Close()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			t.readFailed(err)

			return
		}

		switch kind {
		case websocket.TextMessage:
			t.handlers.OnMessage(yasocket.Message{Type: yasocket.TextMessage, Data: data})
		case websocket.BinaryMessage:
			t.handlers.OnMessage(yasocket.Message{Type: yasocket.BinaryMessage, Data: data})
		}
	}
}

func (t *Transport) readFailed(err error) {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) && closeErr.Code != websocket.CloseAbnormalClosure {
		t.reportClose(yasocket.CloseEvent{Code: closeErr.Code, Reason: closeErr.Text, WasClean: true})

		return
	}

	t.mu.Lock()
	closing := t.closing
	t.mu.Unlock()

	if closing {
		t.reportUserClose(false)

		return
	}

	t.abort(yaerrors.FromError(http.StatusBadGateway, err, "read frame"), err.Error())
}

// abort reports err followed by an abnormal close.
func (t *Transport) abort(err yaerrors.Error, reason string) {
	t.log.Debugf("WebSocket failed: %v", err)
	t.handlers.OnError(err)
	t.reportClose(yasocket.CloseEvent{
		Code:   yasocket.CloseAbnormalClosure,
		Reason: reason,
	})
}

func (t *Transport) reportUserClose(wasClean bool) {
	t.mu.Lock()
	code, reason := t.closeCode, t.closeReason
	t.mu.Unlock()

	t.reportClose(yasocket.CloseEvent{Code: code, Reason: reason, WasClean: wasClean})
}

func (t *Transport) reportClose(ev yasocket.CloseEvent) {
	t.closeOnce.Do(func() {
		t.mu.Lock()
		t.closing = true
		t.mu.Unlock()

		t.handlers.OnClose(ev)
	})
}

func tcpConn(conn net.Conn) *net.TCPConn {
	if tlsConn, ok := conn.(*tls.Conn); ok {
		conn = tlsConn.NetConn()
	}

	tcp, _ := conn.(*net.TCPConn)

	return tcp
}
