package yabackoff

import "time"

// Linear grows the gap by a fixed increment on every call to Next.
//
// When a ceiling is set and the next step would exceed it, the generator
// stays on the last in-range value for good:
//
//	gap := yabackoff.NewLinear(100*time.Millisecond, 50*time.Millisecond, 200*time.Millisecond)
//	// 100 ms, 150 ms, 200 ms, 200 ms, ...
//
// Note that the ceiling freezes on the last value that fit, so with
// (100, 30, 200) the sequence settles at 190 ms, never reaching 200 ms.
type Linear struct {
	initial   time.Duration
	increment time.Duration
	ceiling   time.Duration
	current   time.Duration
}

var _ Backoff = (*Linear)(nil)

// NewLinear creates a linear generator. Pass NoCeiling (or any value <= 0)
// as ceiling to let the gap grow without bound.
func NewLinear(initial, increment, ceiling time.Duration) *Linear {
	return &Linear{
		initial:   initial,
		increment: increment,
		ceiling:   ceiling,
		current:   initial,
	}
}

// Next returns the current gap, then advances it by the increment unless
// that would cross the ceiling.
func (l *Linear) Next() time.Duration {
	gap := l.current
	next := l.current + l.increment

	if l.ceiling <= NoCeiling || next <= l.ceiling {
		l.current = next
	}

	return gap
}

func (l *Linear) Current() time.Duration {
	return l.current
}

// Reset restores the initial gap.
func (l *Linear) Reset() {
	l.current = l.initial
}
