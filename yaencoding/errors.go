package yaencoding

import "errors"

var (
	ErrUnknownFormat      = errors.New("[ENCODING] unknown format")
	ErrUnknownMessageType = errors.New("[ENCODING] unknown message type")
)
