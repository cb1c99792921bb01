package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// callSpacer spaces model calls evenly so that at most perMinute calls start
// within any minute. Analysis runs are rare and large, so a burst allowance
// buys nothing.
type callSpacer struct {
	now      func() time.Time
	next     time.Time
	interval time.Duration
	mu       sync.Mutex
}

func newCallSpacer(perMinute int) *callSpacer {
	if perMinute <= 0 {
		perMinute = 60
	}
	return &callSpacer{
		now:      time.Now,
		interval: time.Minute / time.Duration(perMinute),
	}
}

// reserve claims the next free slot and returns how long the caller must wait
// for it.
func (s *callSpacer) reserve() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	slot := s.next
	if slot.Before(now) {
		slot = now
	}
	s.next = slot.Add(s.interval)
	return slot.Sub(now)
}

// wait blocks until the caller's slot opens or ctx is done. A canceled wait
// keeps its slot consumed.
func (s *callSpacer) wait(ctx context.Context) error {
	delay := s.reserve()
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("waiting for model slot: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
