package yasocket

import (
	"sync"

	"github.com/YaCodeDev/GoYaSocket/yalogger"
)

// Listener receives every event of the kind it was registered for.
// Listeners run on the socket's event goroutine, one at a time, and may call
// any Socket method, including adding or removing listeners.
type Listener func(s *Socket, ev Event)

// ListenerID identifies one registration. Registering the same function twice
// yields two independent registrations with distinct IDs.
type ListenerID uint64

// ListenerOption tweaks a registration.
type ListenerOption func(*listenerOptions)

type listenerOptions struct {
	once bool
}

// Once removes the registration after its first dispatch.
func Once() ListenerOption {
	return func(o *listenerOptions) {
		o.once = true
	}
}

type registration struct {
	id       ListenerID
	listener Listener
	once     bool
}

// registry keeps per-kind listener lists in registration order.
type registry struct {
	mu     sync.Mutex
	nextID ListenerID
	byKind map[EventKind][]registration
}

func newRegistry() *registry {
	return &registry{byKind: make(map[EventKind][]registration)}
}

func (r *registry) add(kind EventKind, listener Listener, opts ...ListenerOption) ListenerID {
	var options listenerOptions

	for _, opt := range opts {
		opt(&options)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++

	r.byKind[kind] = append(r.byKind[kind], registration{
		id:       r.nextID,
		listener: listener,
		once:     options.once,
	})

	return r.nextID
}

func (r *registry) remove(kind EventKind, id ListenerID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	registrations := r.byKind[kind]

	for i, reg := range registrations {
		if reg.id == id {
			r.byKind[kind] = append(registrations[:i:i], registrations[i+1:]...)

			return true
		}
	}

	return false
}

func (r *registry) count(kind EventKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.byKind[kind])
}

// dispatch calls every listener registered for ev.Kind() at the time of the
// call. Listeners added during the pass wait for the next event; once
// registrations are removed only after the whole pass.
func (r *registry) dispatch(s *Socket, ev Event, log yalogger.Logger) {
	kind := ev.Kind()

	r.mu.Lock()
	snapshot := make([]registration, len(r.byKind[kind]))
	copy(snapshot, r.byKind[kind])
	r.mu.Unlock()

	var expired []ListenerID

	for _, reg := range snapshot {
		if reg.once {
			expired = append(expired, reg.id)
		}
	}

	for _, reg := range snapshot {
		invoke(s, reg, ev, log)
	}

	for _, id := range expired {
		r.remove(kind, id)
	}
}

func invoke(s *Socket, reg registration, ev Event, log yalogger.Logger) {
	defer func() {
		if recovered := recover(); recovered != nil {
			log.WithField("event", ev.Kind().String()).
				Errorf("%v: listener %d: %v", ErrListenerPanic, reg.id, recovered)
		}
	}()

	reg.listener(s, ev)
}

// OpenListener adapts a typed open handler.
func OpenListener(fn func(*Socket, OpenEvent)) Listener {
	return func(s *Socket, ev Event) {
		if e, ok := ev.(OpenEvent); ok {
			fn(s, e)
		}
	}
}

// CloseListener adapts a typed close handler.
func CloseListener(fn func(*Socket, CloseEvent)) Listener {
	return func(s *Socket, ev Event) {
		if e, ok := ev.(CloseEvent); ok {
			fn(s, e)
		}
	}
}

// ErrorListener adapts a typed error handler.
func ErrorListener(fn func(*Socket, ErrorEvent)) Listener {
	return func(s *Socket, ev Event) {
		if e, ok := ev.(ErrorEvent); ok {
			fn(s, e)
		}
	}
}

// MessageListener adapts a typed message handler.
func MessageListener(fn func(*Socket, MessageEvent)) Listener {
	return func(s *Socket, ev Event) {
		if e, ok := ev.(MessageEvent); ok {
			fn(s, e)
		}
	}
}

// RetryListener adapts a typed retry handler.
func RetryListener(fn func(*Socket, RetryEvent)) Listener {
	return func(s *Socket, ev Event) {
		if e, ok := ev.(RetryEvent); ok {
			fn(s, e)
		}
	}
}
