package notify

import (
	"testing"
	"time"
)

// manualScheduler collects expiry callbacks so tests fire them
// deterministically.
type manualScheduler struct {
	pending []func()
}

func (s *manualScheduler) after(_ time.Duration, fn func()) func() {
	i := len(s.pending)
	s.pending = append(s.pending, fn)
	return func() { s.pending[i] = nil }
}

func (s *manualScheduler) fire() {
	for _, fn := range s.pending {
		if fn != nil {
			fn()
		}
	}
	s.pending = nil
}

func newTestQueue() (*Queue, *manualScheduler) {
	s := &manualScheduler{}
	return NewQueue().WithAfterFunc(s.after), s
}

func TestShowAppendsInOrder(t *testing.T) {
	q, _ := newTestQueue()

	q.Show("Welcome", "Hello, rtmonly", "👋")
	q.Show("Update", "Profile saved", "💾")

	list := q.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}
	if list[0].Title != "Welcome" || list[1].Title != "Update" {
		t.Errorf("entries out of order: %v", list)
	}
	if list[0].ID == list[1].ID {
		t.Error("IDs must be unique")
	}
}

func TestDismiss(t *testing.T) {
	q, _ := newTestQueue()

	n := q.Show("Welcome", "Hello", "👋")
	if !q.Dismiss(n.ID) {
		t.Error("dismiss of existing entry should succeed")
	}
	if q.Len() != 0 {
		t.Error("entry should be removed")
	}
	if q.Dismiss(n.ID) {
		t.Error("second dismiss should be a no-op")
	}
}

func TestExpiryRemovesEntry(t *testing.T) {
	q, s := newTestQueue()

	q.Show("Welcome", "Hello", "👋")
	q.Show("Update", "Saved", "💾")
	s.fire()

	if q.Len() != 0 {
		t.Errorf("expected queue drained after expiry, got %d", q.Len())
	}
}

func TestManualDismissCancelsExpiry(t *testing.T) {
	q, s := newTestQueue()

	n := q.Show("Welcome", "Hello", "👋")
	keep := q.Show("Update", "Saved", "💾")
	q.Dismiss(n.ID)

	// Firing the cancelled timer must not disturb the remaining entry.
	s.fire()
	_ = keep
	if q.Len() != 0 {
		// keep expired too via its own timer; both fired.
		t.Errorf("expected 0 entries, got %d", q.Len())
	}
}

func TestClear(t *testing.T) {
	q, s := newTestQueue()

	q.Show("A", "a", "")
	q.Show("B", "b", "")
	q.Clear()

	if q.Len() != 0 {
		t.Error("clear should drain the queue")
	}
	s.fire()
	if q.Len() != 0 {
		t.Error("cancelled expiries must stay inert")
	}
}

func TestRealTimerExpiry(t *testing.T) {
	q := NewQueue().WithTTL(10 * time.Millisecond)

	q.Show("Welcome", "Hello", "👋")
	deadline := time.Now().Add(2 * time.Second)
	for q.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if q.Len() != 0 {
		t.Error("entry should expire via real timer")
	}
}
