// Package ticker holds the short status messages shown on the panel's
// ticker line. Items carry a priority and a TTL; the queue always serves
// the highest-priority live item and silently forgets expired ones.
package ticker

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Item is one ticker message.
type Item struct {
	ID       uuid.UUID
	Text     string
	Priority int // lower value serves first
	expireAt time.Time
}

// Queue is safe for concurrent producers and one consumer.
type Queue struct {
	mu    sync.Mutex
	items []Item

	// now is swapped in tests.
	now func() time.Time
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{now: time.Now}
}

// Push adds a message and returns its ID so producers can replace or
// remove it later.
func (q *Queue) Push(text string, priority int, ttl time.Duration) uuid.UUID {
	id := uuid.New()

	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = append(q.items, Item{
		ID:       id,
		Text:     text,
		Priority: priority,
		expireAt: q.now().Add(ttl),
	})
	sort.SliceStable(q.items, func(i, j int) bool {
		return q.items[i].Priority < q.items[j].Priority
	})
	return id
}

// Next prunes expired items and returns the highest-priority text, or ""
// when nothing is queued.
func (q *Queue) Next() string {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.prune()
	if len(q.items) == 0 {
		return ""
	}
	return q.items[0].Text
}

// Remove deletes the item with the given ID, if still present.
func (q *Queue) Remove(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, it := range q.items {
		if it.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}

// Len returns the number of live items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.prune()
	return len(q.items)
}

// prune drops expired items. Callers hold q.mu.
func (q *Queue) prune() {
	now := q.now()
	live := q.items[:0]
	for _, it := range q.items {
		if it.expireAt.After(now) {
			live = append(live, it)
		}
	}
	q.items = live
}
