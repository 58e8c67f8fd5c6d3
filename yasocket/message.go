package yasocket

// MessageType tells text frames from binary frames. The numeric values match
// the WebSocket opcodes.
type MessageType uint8

const (
	TextMessage   MessageType = 1
	BinaryMessage MessageType = 2
)

func (t MessageType) String() string {
	switch t {
	case TextMessage:
		return "text"
	case BinaryMessage:
		return "binary"
	default:
		return "unknown"
	}
}

// Message is one outbound or inbound frame.
type Message struct {
	Type MessageType
	Data []byte
}

// Text builds a text message.
func Text(s string) Message {
	return Message{Type: TextMessage, Data: []byte(s)}
}

// Binary builds a binary message. The slice is not copied.
func Binary(b []byte) Message {
	return Message{Type: BinaryMessage, Data: b}
}

// String returns the payload as text.
func (m Message) String() string {
	return string(m.Data)
}
