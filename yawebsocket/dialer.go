// Package yawebsocket provides a yasocket.Dialer backed by gorilla/websocket.
//
// Example usage:
//
//	dialer := yawebsocket.NewDialer(log, yawebsocket.WithReadLimit(1<<20))
//
//	socket, err := yasocket.New(ctx, dialer, yasocket.ConnectParams{
//		URL:        "wss://stream.example.com/feed",
//		TCPNoDelay: true,
//		Timeout:    10 * time.Second,
//	})
package yawebsocket

import (
	"context"
	"crypto/tls"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/net/proxy"

	"github.com/YaCodeDev/GoYaSocket/yaerrors"
	"github.com/YaCodeDev/GoYaSocket/yalogger"
	"github.com/YaCodeDev/GoYaSocket/yasocket"
)

const (
	DefaultHandshakeTimeout = 45 * time.Second
	DefaultCloseGrace       = 5 * time.Second
)

// Dialer opens WebSocket connections. It is safe for concurrent use.
type Dialer struct {
	log        yalogger.Logger
	tlsConfig  *tls.Config
	readLimit  int64
	closeGrace time.Duration
}

type Option func(*Dialer)

// WithTLSConfig sets the TLS configuration used for wss:// URLs.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(d *Dialer) {
		d.tlsConfig = cfg
	}
}

// WithReadLimit caps the size of an inbound message in bytes.
func WithReadLimit(limit int64) Option {
	return func(d *Dialer) {
		d.readLimit = limit
	}
}

// WithCloseGrace bounds how long Close waits for the peer to answer the
// close frame before dropping the connection.
func WithCloseGrace(grace time.Duration) Option {
	return func(d *Dialer) {
		d.closeGrace = grace
	}
}

func NewDialer(log yalogger.Logger, opts ...Option) *Dialer {
	if log == nil {
		log = yalogger.NewBaseLogger(nil).NewLogger()
	}

	d := &Dialer{
		log:        log,
		closeGrace: DefaultCloseGrace,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Dial starts the opening handshake in the background and returns at once.
// The outcome is reported through handlers.
func (d *Dialer) Dial(params yasocket.ConnectParams, handlers yasocket.Handlers) yasocket.Transport {
	ctx, cancel := context.WithCancel(context.Background())

	t := &Transport{
		handlers:   handlers,
		cancel:     cancel,
		closeGrace: d.closeGrace,
		log:        d.log.WithField(yalogger.KeyURL, params.URL),
	}

	go t.connect(ctx, d, params)

	return t
}

func (d *Dialer) websocketDialer(params yasocket.ConnectParams) (*websocket.Dialer, yaerrors.Error) {
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = DefaultHandshakeTimeout
	}

	dialer := &websocket.Dialer{
		Proxy:             http.ProxyFromEnvironment,
		TLSClientConfig:   d.tlsConfig,
		HandshakeTimeout:  timeout,
		Subprotocols:      params.Protocols,
		EnableCompression: params.PerMessageDeflate,
	}

	if params.ProxyURL == "" {
		return dialer, nil
	}

	proxyURL, err := url.Parse(params.ProxyURL)
	if err != nil {
		return nil, yaerrors.FromError(http.StatusBadRequest, err, "parse proxy url")
	}

	switch proxyURL.Scheme {
	case "http", "https":
		dialer.Proxy = http.ProxyURL(proxyURL)
	case "socks5", "socks5h":
		socks, err := proxy.FromURL(proxyURL, proxy.Direct)
		if err != nil {
			return nil, yaerrors.FromError(http.StatusBadRequest, err, "build socks5 dialer")
		}

		dialer.Proxy = nil

		if contextDialer, ok := socks.(proxy.ContextDialer); ok {
			dialer.NetDialContext = contextDialer.DialContext
		} else {
			dialer.NetDial = socks.Dial
		}
	default:
		return nil, yaerrors.FromError(http.StatusBadRequest, ErrUnsupportedProxy, proxyURL.Scheme)
	}

	return dialer, nil
}
