package yabackoff

import "time"

// Exponential is a generator that multiplies the gap by a constant factor
// each time Next() is called, capping at maxInterval.
//
// Example:
//
//	backoff := yabackoff.NewExponential(100*time.Millisecond, 2, time.Second)
//	fmt.Println(backoff.Next()) // 100 ms
//	fmt.Println(backoff.Next()) // 200 ms
//	fmt.Println(backoff.Next()) // 400 ms
//	fmt.Println(backoff.Next()) // 800 ms
//	fmt.Println(backoff.Next()) // 1 s (capped)
//
// The zero value of Exponential is usable: on first use the package defaults
// are substituted.
type Exponential struct {
	initialInterval time.Duration
	multiplier      float64
	maxInterval     time.Duration
	currentInterval time.Duration
}

var _ Backoff = (*Exponential)(nil)

// NewExponential creates a new exponential generator. Any zero argument is
// replaced by the corresponding package default on first use.
func NewExponential(
	initialInterval time.Duration,
	multiplier float64,
	maxInterval time.Duration,
) *Exponential {
	return &Exponential{
		initialInterval: initialInterval,
		multiplier:      multiplier,
		maxInterval:     maxInterval,
		currentInterval: initialInterval,
	}
}

// Reset sets currentInterval back to the initial value.
func (e *Exponential) Reset() {
	e.safety()

	e.currentInterval = e.initialInterval
}

// Next returns the current gap and advances the internal state.
func (e *Exponential) Next() time.Duration {
	e.safety()

	gap := e.currentInterval

	e.incrementCurrentInterval()

	return gap
}

// Current reports the gap the next call to Next() returns.
func (e *Exponential) Current() time.Duration {
	e.safety()

	return e.currentInterval
}

// incrementCurrentInterval multiplies currentInterval by multiplier, clamping
// at maxInterval.
func (e *Exponential) incrementCurrentInterval() {
	if e.currentInterval >= e.maxInterval {
		e.currentInterval = e.maxInterval
	} else {
		e.currentInterval = min(time.Duration(float64(e.currentInterval)*e.multiplier), e.maxInterval)
	}
}

// safety lazily substitutes defaults the first time the struct is used, so a
// zero value Exponential is fully functional.
func (e *Exponential) safety() {
	if e.initialInterval == 0 {
		e.initialInterval = DefaultInitialInterval
		e.currentInterval = DefaultInitialInterval
	}

	if e.maxInterval == 0 {
		e.maxInterval = DefaultMaxInterval
	}

	if e.multiplier == 0 {
		e.multiplier = DefaultMultiplier
	}
}
