package yalogger

// Level mirrors logrus levels so the numeric values can be passed through unchanged.
type Level uint32

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

type BaseLoggerType uint8

const (
	Logrus BaseLoggerType = iota
)

const (
	KeySocketID  = "socket_id"
	KeyURL       = "url"
	KeyRequestID = "request_id"
)

const DefaultTimestampFormat = "2006-01-02 15:04:05"
