package ticker

import (
	"testing"
	"time"
)

func TestQueue_EmptyReturnsNothing(t *testing.T) {
	q := NewQueue()
	if got := q.Next(); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestQueue_PriorityOrder(t *testing.T) {
	q := NewQueue()
	q.Push("quote of the day", 20, time.Minute)
	q.Push("network offline", 1, time.Minute)
	q.Push("weather stale", 5, time.Minute)

	if got := q.Next(); got != "network offline" {
		t.Errorf("expected highest-priority item, got %q", got)
	}
}

func TestQueue_StableWithinPriority(t *testing.T) {
	q := NewQueue()
	q.Push("first", 10, time.Minute)
	q.Push("second", 10, time.Minute)

	if got := q.Next(); got != "first" {
		t.Errorf("expected insertion order within priority, got %q", got)
	}
}

func TestQueue_TTLExpiry(t *testing.T) {
	now := time.Now()
	q := NewQueue()
	q.now = func() time.Time { return now }

	q.Push("short lived", 1, 10*time.Second)
	q.Push("long lived", 5, time.Hour)

	if got := q.Next(); got != "short lived" {
		t.Fatalf("expected live item, got %q", got)
	}

	now = now.Add(30 * time.Second)
	if got := q.Next(); got != "long lived" {
		t.Errorf("expected expired item pruned, got %q", got)
	}
	if q.Len() != 1 {
		t.Errorf("expected 1 live item, got %d", q.Len())
	}
}

func TestQueue_Remove(t *testing.T) {
	q := NewQueue()
	id := q.Push("alert", 1, time.Hour)
	q.Push("tip", 20, time.Hour)

	q.Remove(id)
	if got := q.Next(); got != "tip" {
		t.Errorf("expected removed item gone, got %q", got)
	}

	// Removing twice is harmless.
	q.Remove(id)
	if q.Len() != 1 {
		t.Errorf("expected 1 item, got %d", q.Len())
	}
}
