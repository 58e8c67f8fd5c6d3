package yasocket

import "errors"

var (
	ErrNilDialer     = errors.New("[SOCKET] dialer is nil")
	ErrListenerPanic = errors.New("[SOCKET] listener panicked")
)
