// Package yabuffer holds outbound items that could not be delivered yet.
//
// Two strategies implement [Buffer]:
//
//   - [Ring] keeps at most N items and silently overwrites the oldest one once
//     full.
//   - [TimeWindow] keeps any number of items but forgets every item older than
//     a maximum age. Expired items are evicted lazily, on the next call that
//     touches the buffer.
//
// Both iterate oldest to newest. Read is a peek: it never consumes items, so
// callers drain a buffer with ForEach (or Read) followed by Clear.
//
// Buffers are *not* safe for concurrent use.
package yabuffer

import "math"

// Unbounded is the Size reported by buffers without a count limit.
const Unbounded = math.MaxInt

// Buffer is a holding area for items that are not sent yet.
type Buffer[T any] interface {
	// Len reports how many items are currently held.
	Len() int

	// Size reports the capacity, or Unbounded.
	Size() int

	// Read copies held items oldest to newest into dst and returns how many
	// were copied. At most len(dst) items are copied. Items stay in the buffer.
	Read(dst []T) int

	// Write appends items and returns how many were accepted.
	Write(items []T) int

	// ForEach calls fn for every held item, oldest first, and returns the
	// number of items visited.
	ForEach(fn func(T)) int

	// Clear drops every held item.
	Clear()
}
