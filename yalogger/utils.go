package yalogger

import "strings"

var levelNames = [...]string{
	PanicLevel: "Panic",
	FatalLevel: "Fatal",
	ErrorLevel: "Error",
	WarnLevel:  "Warn",
	InfoLevel:  "Info",
	DebugLevel: "Debug",
	TraceLevel: "Trace",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}

	return "Unknown"
}

// Unmarshal accepts level names case-insensitively, plus "warning".
func (l *Level) Unmarshal(text string) error {
	name := strings.TrimSpace(text)
	if strings.EqualFold(name, "warning") {
		*l = WarnLevel

		return nil
	}

	for level, candidate := range levelNames {
		if strings.EqualFold(name, candidate) {
			*l = Level(level)

			return nil
		}
	}

	return ErrInvalidLogLevel
}

func (l *Level) UnmarshalText(text []byte) error {
	return l.Unmarshal(string(text))
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(l.String())), nil
}
