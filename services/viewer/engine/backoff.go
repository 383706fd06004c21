package engine

import "time"

// backoff is the retry delay of consecutive failures, doubling up to a cap
type backoff struct {
	minDelay time.Duration
	maxDelay time.Duration
	current  time.Duration
}

func newBackoff(minDelay time.Duration, maxDelay time.Duration) *backoff {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}

	return &backoff{
		minDelay: minDelay,
		maxDelay: maxDelay,
		current:  minDelay,
	}
}

// next returns the delay to wait now and doubles the following one
func (b *backoff) next() time.Duration {
	delay := b.current
	b.current *= 2
	if b.current > b.maxDelay || b.current <= 0 {
		b.current = b.maxDelay
	}

	return delay
}

func (b *backoff) reset() {
	b.current = b.minDelay
}
