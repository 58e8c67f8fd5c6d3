package yabackoff

import "time"

// Constant always hands out the same gap.
type Constant struct {
	gap time.Duration
}

var _ Backoff = (*Constant)(nil)

// NewConstant creates a generator that returns gap forever.
func NewConstant(gap time.Duration) *Constant {
	return &Constant{gap: gap}
}

func (c *Constant) Next() time.Duration {
	return c.gap
}

func (c *Constant) Current() time.Duration {
	return c.gap
}

// Reset is a no-op: Constant has no state to rewind.
func (c *Constant) Reset() {}
