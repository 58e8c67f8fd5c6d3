package yasocket

import "time"

// EventKind enumerates the notifications a Socket dispatches.
type EventKind uint8

const (
	EventOpen EventKind = iota
	EventClose
	EventError
	EventMessage
	EventRetry
)

func (k EventKind) String() string {
	switch k {
	case EventOpen:
		return "open"
	case EventClose:
		return "close"
	case EventError:
		return "error"
	case EventMessage:
		return "message"
	case EventRetry:
		return "retry"
	default:
		return "unknown"
	}
}

// Event is the payload handed to listeners. The concrete type is fixed by
// Kind: OpenEvent, CloseEvent, ErrorEvent, MessageEvent or RetryEvent.
type Event interface {
	Kind() EventKind
}

// OpenEvent is dispatched once the transport is open and buffered messages
// have been replayed.
type OpenEvent struct{}

// CloseEvent describes why the transport closed.
type CloseEvent struct {
	Code     int
	Reason   string
	WasClean bool
}

// ErrorEvent carries a transport reported error verbatim.
type ErrorEvent struct {
	Err error
}

// MessageEvent carries an inbound message.
type MessageEvent struct {
	Message Message
}

// RetryEvent is dispatched right before a reconnect attempt.
type RetryEvent struct {
	// Retries counts attempts since the last successful open, starting at 1.
	Retries int
	// Gap is the delay that preceded this attempt.
	Gap time.Duration
}

func (OpenEvent) Kind() EventKind    { return EventOpen }
func (CloseEvent) Kind() EventKind   { return EventClose }
func (ErrorEvent) Kind() EventKind   { return EventError }
func (MessageEvent) Kind() EventKind { return EventMessage }
func (RetryEvent) Kind() EventKind   { return EventRetry }
