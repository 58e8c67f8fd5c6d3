// Package yabackoff provides retry gap generators. A generator hands out the
// delay to wait before the next reconnect attempt and can be rewound once a
// connection succeeds.
//
// # Quick start
//
//	gap := yabackoff.NewLinear(100*time.Millisecond, 50*time.Millisecond, 200*time.Millisecond)
//	gap.Next() // 100 ms
//	gap.Next() // 150 ms
//	gap.Next() // 200 ms
//	gap.Next() // 200 ms (ceiling)
//	gap.Reset()
//	gap.Next() // 100 ms
//
// Every strategy returns its current gap from Next and only then advances.
package yabackoff

import (
	"time"
)

// Default* constants are applied when the caller provides zero
// values to NewExponential, or when an Exponential is declared
// as a zero value and used without initialisation.
const (
	// DefaultInitialInterval is used when initialInterval == 0.
	DefaultInitialInterval = 500 * time.Millisecond

	// DefaultMultiplier is applied when multiplier == 0.
	DefaultMultiplier = 1.5

	// DefaultMaxInterval is used when maxInterval == 0.
	DefaultMaxInterval = 60 * time.Second
)

// NoCeiling disables the upper bound of a Linear generator.
const NoCeiling time.Duration = 0

// Backoff is the behaviour shared by all gap strategies in this package.
// Implementations are *not* safe for concurrent use – surround them with your
// own synchronisation if you share one instance between goroutines.
type Backoff interface {
	// Next returns the gap for *this* attempt and advances the strategy.
	Next() time.Duration

	// Current returns the gap the next call to Next() will produce.
	// It never mutates internal state.
	Current() time.Duration

	// Reset puts the strategy back to its initial state so that the very next
	// call to Next() will return the initial gap again.
	Reset()
}
