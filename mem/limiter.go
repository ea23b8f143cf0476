package mem

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// GrowthLimiter bounds the total resident bytes that concurrently
// building MemBuilders may hold. A host embedding many simultaneous
// in-memory builds shares one limiter across them so no single build's
// unbounded growth can exhaust the process's memory.
type GrowthLimiter struct {
	sem *semaphore.Weighted
}

// NewGrowthLimiter returns a limiter admitting up to maxBytes of
// combined buffer growth at once.
func NewGrowthLimiter(maxBytes int64) *GrowthLimiter {
	return &GrowthLimiter{sem: semaphore.NewWeighted(maxBytes)}
}

// Acquire blocks until n more bytes are available in the shared budget,
// or ctx is done. A nil receiver always succeeds immediately, so
// MemBuilder works unmodified with no limiter configured.
func (g *GrowthLimiter) Acquire(ctx context.Context, n int64) error {
	if g == nil || n == 0 {
		return nil
	}
	return g.sem.Acquire(ctx, n)
}

// Release returns n bytes to the shared budget.
func (g *GrowthLimiter) Release(n int64) {
	if g == nil || n <= 0 {
		return
	}
	g.sem.Release(n)
}
