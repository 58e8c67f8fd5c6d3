package yawebsocket

import "errors"

var (
	ErrNotConnected     = errors.New("[WEBSOCKET] transport is not connected yet")
	ErrClosed           = errors.New("[WEBSOCKET] transport is closed")
	ErrUnsupportedProxy = errors.New("[WEBSOCKET] unsupported proxy scheme")
)
