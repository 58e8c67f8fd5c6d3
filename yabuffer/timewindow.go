package yabuffer

import (
	"math"
	"time"

	"github.com/benbjohnson/clock"
)

// Forever disables expiry of a TimeWindow.
const Forever time.Duration = math.MaxInt64

// compactThreshold is the number of evicted slots a TimeWindow tolerates
// before it copies the live tail to the front of its backing slice.
const compactThreshold = 64

type timedItem[T any] struct {
	item     T
	inserted time.Time
}

// TimeWindow is a Buffer without a count limit that forgets items older than
// maxAge. Every method first evicts expired items from the oldest end.
//
// Items are only ever appended at the newest end, so the backing slice is
// ordered by insertion time and eviction stops at the first live item.
//
// Example:
//
//	window := yabuffer.NewTimeWindow[string](time.Minute)
//	window.Write([]string{"ping"})
//	// ... two minutes later
//	window.Len() // 0
type TimeWindow[T any] struct {
	maxAge time.Duration
	clock  clock.Clock
	items  []timedItem[T]
	// index of the oldest live item in items
	head int
}

var _ Buffer[int] = (*TimeWindow[int])(nil)

// TimeWindowOption customises a TimeWindow.
type TimeWindowOption func(*timeWindowOptions)

type timeWindowOptions struct {
	clock clock.Clock
}

// WithClock makes the window read time from c. Tests pass clock.NewMock().
func WithClock(c clock.Clock) TimeWindowOption {
	return func(o *timeWindowOptions) {
		o.clock = c
	}
}

// NewTimeWindow creates a window that keeps items for at most maxAge.
// Use Forever to never expire items.
func NewTimeWindow[T any](maxAge time.Duration, opts ...TimeWindowOption) *TimeWindow[T] {
	options := timeWindowOptions{clock: clock.New()}

	for _, opt := range opts {
		opt(&options)
	}

	return &TimeWindow[T]{
		maxAge: maxAge,
		clock:  options.clock,
	}
}

// MaxAge returns the configured retention.
func (w *TimeWindow[T]) MaxAge() time.Duration {
	return w.maxAge
}

func (w *TimeWindow[T]) Len() int {
	w.evict()

	return len(w.items) - w.head
}

// Size always reports Unbounded: the window is limited by age, not count.
func (w *TimeWindow[T]) Size() int {
	return Unbounded
}

// Write stamps every item with the current time and appends it.
func (w *TimeWindow[T]) Write(items []T) int {
	w.evict()

	now := w.clock.Now()

	for _, item := range items {
		w.items = append(w.items, timedItem[T]{item: item, inserted: now})
	}

	return len(items)
}

// Read copies up to len(dst) live items, oldest first, without removing them.
func (w *TimeWindow[T]) Read(dst []T) int {
	w.evict()

	return copyItems(dst, w.items[w.head:])
}

func (w *TimeWindow[T]) ForEach(fn func(T)) int {
	w.evict()

	live := w.items[w.head:]

	for _, entry := range live {
		fn(entry.item)
	}

	return len(live)
}

// Clear drops every item and releases the backing slice.
func (w *TimeWindow[T]) Clear() {
	w.items = nil
	w.head = 0
}

// evict drops items whose age exceeds maxAge, walking from the oldest one and
// stopping at the first item that is still inside the window.
func (w *TimeWindow[T]) evict() {
	if w.head == len(w.items) {
		w.Clear()

		return
	}

	now := w.clock.Now()

	for w.head < len(w.items) && now.Sub(w.items[w.head].inserted) > w.maxAge {
		w.items[w.head] = timedItem[T]{}
		w.head++
	}

	switch {
	case w.head == len(w.items):
		w.Clear()
	case w.head >= compactThreshold && w.head*2 >= len(w.items):
		live := copy(w.items, w.items[w.head:])
		clear(w.items[live:])

		w.items = w.items[:live]
		w.head = 0
	}
}

func copyItems[T any](dst []T, src []timedItem[T]) int {
	n := min(len(dst), len(src))

	for i := range n {
		dst[i] = src[i].item
	}

	return n
}
