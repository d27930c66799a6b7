package detector

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/kozaktomas/petface/internal/features"
)

// Limited bounds the number of concurrent calls into a Detector.
type Limited struct {
	next Detector
	sem  *semaphore.Weighted
	size int
}

// NewLimited allows at most n concurrent Detect calls into next. n < 1 is
// treated as 1.
func NewLimited(next Detector, n int) *Limited {
	if n < 1 {
		n = 1
	}
	return &Limited{next: next, sem: semaphore.NewWeighted(int64(n)), size: n}
}

// Detect waits for a free slot, honoring ctx, then calls the wrapped detector.
func (l *Limited) Detect(ctx context.Context, image []byte) ([]features.Point, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer l.sem.Release(1)
	return l.next.Detect(ctx, image)
}

// Concurrency returns the number of slots.
func (l *Limited) Concurrency() int { return l.size }

// Close closes the wrapped detector when it holds a connection.
func (l *Limited) Close() error {
	if c, ok := l.next.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
