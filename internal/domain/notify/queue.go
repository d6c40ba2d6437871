// Package notify implements the toast notification queue. Entries are
// appended in arrival order and expire automatically after a short TTL,
// mirroring the transient toasts the desktop renders.
package notify

import (
	"sync"
	"time"

	"github.com/batcaveos/backend/internal/infrastructure/monitoring"
	"github.com/batcaveos/backend/internal/shared/id"
	"github.com/batcaveos/backend/internal/shared/types"
)

// DefaultTTL is how long a toast stays visible before auto-dismissal.
const DefaultTTL = 1500 * time.Millisecond

// AfterFunc schedules a callback, returning a cancel function. The
// production queue uses time.AfterFunc; tests substitute a manual
// scheduler.
type AfterFunc func(d time.Duration, fn func()) (cancel func())

// Queue holds the pending toasts.
type Queue struct {
	mu      sync.RWMutex
	entries []types.Notification
	cancels map[string]func()
	ttl     time.Duration
	after   AfterFunc
	metrics *monitoring.Metrics
}

// NewQueue creates a toast queue with the default TTL.
func NewQueue() *Queue {
	return &Queue{
		cancels: make(map[string]func()),
		ttl:     DefaultTTL,
		after: func(d time.Duration, fn func()) func() {
			t := time.AfterFunc(d, fn)
			return func() { t.Stop() }
		},
	}
}

// WithTTL overrides the auto-dismiss delay.
func (q *Queue) WithTTL(ttl time.Duration) *Queue {
	q.ttl = ttl
	return q
}

// WithAfterFunc overrides the expiry scheduler, useful for tests.
func (q *Queue) WithAfterFunc(after AfterFunc) *Queue {
	q.after = after
	return q
}

// WithMetrics adds metrics tracking to the queue.
func (q *Queue) WithMetrics(metrics *monitoring.Metrics) *Queue {
	q.metrics = metrics
	return q
}

// Show appends a toast and schedules its expiry. Returns the new entry.
func (q *Queue) Show(title, message, icon string) types.Notification {
	n := types.Notification{
		ID:        id.NewNotificationID().String(),
		Title:     title,
		Message:   message,
		Icon:      icon,
		CreatedAt: time.Now(),
	}

	q.mu.Lock()
	q.entries = append(q.entries, n)
	q.cancels[n.ID] = q.after(q.ttl, func() { q.Dismiss(n.ID) })
	pending := len(q.entries)
	q.mu.Unlock()

	if q.metrics != nil {
		q.metrics.RecordNotification()
		q.metrics.SetNotificationsPending(pending)
	}
	return n
}

// Dismiss removes a toast by ID. Unknown IDs are a no-op, so expiry and
// manual dismissal can race safely.
func (q *Queue) Dismiss(id string) bool {
	q.mu.Lock()

	found := -1
	for i, n := range q.entries {
		if n.ID == id {
			found = i
			break
		}
	}
	if found == -1 {
		q.mu.Unlock()
		return false
	}

	q.entries = append(q.entries[:found], q.entries[found+1:]...)
	if cancel, ok := q.cancels[id]; ok {
		cancel()
		delete(q.cancels, id)
	}
	pending := len(q.entries)
	q.mu.Unlock()

	if q.metrics != nil {
		q.metrics.SetNotificationsPending(pending)
	}
	return true
}

// List returns the pending toasts in arrival order.
func (q *Queue) List() []types.Notification {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return append([]types.Notification(nil), q.entries...)
}

// Len returns the number of pending toasts.
func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return len(q.entries)
}

// Clear dismisses everything, cancelling pending expiries.
func (q *Queue) Clear() {
	q.mu.Lock()
	for id, cancel := range q.cancels {
		cancel()
		delete(q.cancels, id)
	}
	q.entries = nil
	q.mu.Unlock()

	if q.metrics != nil {
		q.metrics.SetNotificationsPending(0)
	}
}
