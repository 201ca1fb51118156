package cd

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
)

// QuietWindow is how long the network must stay without in-flight requests to count as idle.
const QuietWindow = 500 * time.Millisecond

// IdleTracker counts in-flight requests from network events.
type IdleTracker struct {
	mu       sync.Mutex
	inflight map[network.RequestID]struct{}
	last     time.Time
	now      func() time.Time
}

// NewIdleTracker returns a tracker with nothing in flight. Register its Listen method on a browser context.
//
// - The quiet window starts at creation, so a fresh tracker is not idle until QuietWindow has passed.
func NewIdleTracker() *IdleTracker {
	return &IdleTracker{
		inflight: make(map[network.RequestID]struct{}),
		last:     time.Now(),
		now:      time.Now,
	}
}

// Listen is a chromedp target listener. It must not block.
func (t *IdleTracker) Listen(ev any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch e := ev.(type) {
	case *network.EventRequestWillBeSent:
		t.inflight[e.RequestID] = struct{}{}
	case *network.EventLoadingFinished:
		delete(t.inflight, e.RequestID)
	case *network.EventLoadingFailed:
		delete(t.inflight, e.RequestID)
	default:
		return
	}
	t.last = t.now()
}

// Idle reports whether no request is in flight and none has started or ended within QuietWindow.
func (t *IdleTracker) Idle() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inflight) == 0 && t.now().Sub(t.last) >= QuietWindow
}

// WaitNetworkIdle blocks until the tracker reports idle or timeout expires.
//
// - ctx is the Chromedp context which manages the underlying browser actions and states.
//
// - tracker must be listening on the same target as ctx.
func WaitNetworkIdle(ctx context.Context, tracker *IdleTracker, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for !tracker.Idle() {
		if time.Now().After(deadline) {
			return fmt.Errorf("%w waiting %s for network idle", ErrTimeout, timeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
