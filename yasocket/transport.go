package yasocket

import (
	"net/http"
	"time"
)

// Close codes used by the socket itself.
const (
	CloseNormalClosure   = 1000
	CloseGoingAway       = 1001
	CloseAbnormalClosure = 1006
)

// ConnectParams are handed to the Dialer on every connection attempt.
type ConnectParams struct {
	URL       string
	Header    http.Header
	Protocols []string
	// TCPNoDelay disables Nagle's algorithm on the underlying TCP connection.
	TCPNoDelay        bool
	PerMessageDeflate bool
	// Timeout bounds the opening handshake. Zero means the transport default.
	Timeout time.Duration
	// ProxyURL routes the connection through a socks5:// or http(s):// proxy.
	ProxyURL string
}

// CloseParams are passed to the transport on a user initiated close.
type CloseParams struct {
	Code   int
	Reason string
}

// Handlers are the callbacks a Transport reports its lifecycle through.
// Each one fires at most once per occurrence and may be called from any
// goroutine.
type Handlers struct {
	OnOpen    func()
	OnClose   func(CloseEvent)
	OnError   func(error)
	OnMessage func(Message)
}

// Transport is one live connection attempt.
type Transport interface {
	Send(msg Message) error
	Close(code int, reason string) error
}

// Dialer starts a connection attempt. Dial must not block on the network:
// failures are reported through handlers (OnError, then OnClose).
type Dialer interface {
	Dial(params ConnectParams, handlers Handlers) Transport
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(params ConnectParams, handlers Handlers) Transport

func (f DialerFunc) Dial(params ConnectParams, handlers Handlers) Transport {
	return f(params, handlers)
}
