package post

import "sync"

// Queue is an append-only sequence that can be drained atomically.
//
// Push and Drain may be called from any goroutine. The lock is held only for
// a single append or a single swap, never while the drained items are processed.
type Queue[T any] struct {
	lock  sync.Mutex
	items []T
}

// Push appends an item to the queue
func (q *Queue[T]) Push(item T) {
	q.lock.Lock()
	q.items = append(q.items, item)
	q.lock.Unlock()
}

// Drain swaps the pending items for an empty sequence and returns them
func (q *Queue[T]) Drain() []T {
	q.lock.Lock()
	items := q.items
	if len(items) > 0 {
		q.items = make([]T, 0, len(items))
	}
	q.lock.Unlock()
	return items
}

// Len returns the number of pending items
func (q *Queue[T]) Len() int {
	q.lock.Lock()
	n := len(q.items)
	q.lock.Unlock()
	return n
}
