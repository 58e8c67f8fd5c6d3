package main

import (
	"io"
	"net/http"

	"github.com/YaCodeDev/GoYaSocket/config"
	"github.com/YaCodeDev/GoYaSocket/yabackoff"
	"github.com/YaCodeDev/GoYaSocket/yabuffer"
	"github.com/YaCodeDev/GoYaSocket/yaerrors"
	"github.com/YaCodeDev/GoYaSocket/yalogger"
	"github.com/YaCodeDev/GoYaSocket/yasocket"
)

const (
	kindNone        = "none"
	kindRing        = "ring"
	kindWindow      = "window"
	kindConstant    = "constant"
	kindLinear      = "linear"
	kindExponential = "exponential"
)

func newLogger(cfg config.Log, out io.Writer) yalogger.Logger {
	base := yalogger.NewBaseLogger(&yalogger.Config{
		BaseLoggerType:  yalogger.Logrus,
		Level:           cfg.Level,
		FullTimestamp:   true,
		TimestampFormat: yalogger.DefaultTimestampFormat,
		JSON:            cfg.JSON,
		Output:          out,
	})

	return base.NewLogger()
}

func connectParams(cfg config.Socket) yasocket.ConnectParams {
	var header http.Header

	if len(cfg.Headers) > 0 {
		header = make(http.Header, len(cfg.Headers))
		for key, value := range cfg.Headers {
			header.Set(key, value)
		}
	}

	return yasocket.ConnectParams{
		URL:               cfg.URL,
		Header:            header,
		Protocols:         cfg.Protocols,
		TCPNoDelay:        cfg.TCPNoDelay,
		PerMessageDeflate: cfg.PerMessageDeflate,
		Timeout:           cfg.HandshakeTimeout,
		ProxyURL:          cfg.ProxyURL,
	}
}

func socketOptions(cfg config.Socket, log yalogger.Logger) ([]yasocket.Option, yaerrors.Error) {
	opts := []yasocket.Option{yasocket.WithLogger(log)}

	buffer, err := newBuffer(cfg.Buffer)
	if err != nil {
		return nil, err.Wrap("socket buffer")
	}

	if buffer != nil {
		opts = append(opts, yasocket.WithBuffer(buffer))
	}

	backoff, err := newBackoff(cfg.Backoff)
	if err != nil {
		return nil, err.Wrap("socket backoff")
	}

	if backoff != nil {
		opts = append(opts, yasocket.WithBackoff(backoff))
	}

	return opts, nil
}

func newBuffer(cfg config.Buffer) (yabuffer.Buffer[yasocket.Message], yaerrors.Error) {
	switch cfg.Kind {
	case kindNone:
		return nil, nil
	case kindRing:
		return yabuffer.NewRing[yasocket.Message](cfg.Capacity), nil
	case kindWindow:
		return yabuffer.NewTimeWindow[yasocket.Message](cfg.MaxAge), nil
	default:
		return nil, yaerrors.FromError(http.StatusBadRequest, ErrUnknownKind, "buffer kind "+cfg.Kind)
	}
}

func newBackoff(cfg config.Backoff) (yabackoff.Backoff, yaerrors.Error) {
	switch cfg.Kind {
	case kindNone:
		return nil, nil
	case kindConstant:
		return yabackoff.NewConstant(cfg.Initial), nil
	case kindLinear:
		return yabackoff.NewLinear(cfg.Initial, cfg.Increment, cfg.Ceiling), nil
	case kindExponential:
		return yabackoff.NewExponential(cfg.Initial, cfg.Multiplier, cfg.Ceiling), nil
	default:
		return nil, yaerrors.FromError(http.StatusBadRequest, ErrUnknownKind, "backoff kind "+cfg.Kind)
	}
}
