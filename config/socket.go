package config

import (
	"time"

	"github.com/YaCodeDev/GoYaSocket/yaerrors"
	"github.com/YaCodeDev/GoYaSocket/yalogger"
)

// Socket holds the settings of the command line client. Loaded with the
// prefix SOCKET, e.g. SOCKET_URL or SOCKET_BACKOFF_KIND.
type Socket struct {
	URL               string            `default:"ws://127.0.0.1:8080/ws"`
	Protocols         []string          `default:""`
	Headers           map[string]string `default:""`
	ProxyURL          string            `default:""`
	TCPNoDelay        bool              `default:"true"`
	PerMessageDeflate bool              `default:"false"`
	HandshakeTimeout  time.Duration     `default:"10s"`
	MetricsAddr       string            `default:""`
	Buffer            Buffer
	Backoff           Backoff
	Log               Log
}

// Buffer selects the outbound buffer: "ring", "window" or "none".
type Buffer struct {
	Kind     string        `default:"ring"`
	Capacity int           `default:"256"`
	MaxAge   time.Duration `default:"1m"`
}

// Backoff selects the reconnect gaps: "constant", "linear", "exponential" or
// "none".
type Backoff struct {
	Kind       string        `default:"linear"`
	Initial    time.Duration `default:"1s"`
	Increment  time.Duration `default:"1s"`
	Ceiling    time.Duration `default:"30s"`
	Multiplier float64       `default:"2"`
}

type Log struct {
	Level yalogger.Level `default:"info"`
	JSON  bool           `default:"false"`
}

// Echo holds the settings of the echo server, read from ECHO_* variables.
type Echo struct {
	Addr string `default:":8080"`
	Log  Log
}

// LoadSocket reads Socket settings from SOCKET_* variables.
func LoadSocket(log yalogger.Logger) (Socket, yaerrors.Error) {
	var cfg struct {
		Socket Socket
	}

	if err := LoadConfigStructFromEnvHandlingError(&cfg, log); err != nil {
		return Socket{}, err
	}

	return cfg.Socket, nil
}

// LoadEcho reads Echo settings from ECHO_* variables.
func LoadEcho(log yalogger.Logger) (Echo, yaerrors.Error) {
	var cfg struct {
		Echo Echo
	}

	if err := LoadConfigStructFromEnvHandlingError(&cfg, log); err != nil {
		return Echo{}, err
	}

	return cfg.Echo, nil
}
