package entity

import "github.com/colonyrt/compworld/engine/post"

// MutationQueue stages additions and removals submitted from any goroutine.
//
// The two queues have independent locks, each held only for a single append or a single drain.
type MutationQueue struct {
	additions post.Queue[Component]
	removals  post.Queue[Component]
}

// SubmitAddition stages the component to become live at the next drain
func (q *MutationQueue) SubmitAddition(c Component) {
	q.additions.Push(c)
}

// SubmitRemoval stages the component and its subtree to be removed at the next drain
func (q *MutationQueue) SubmitRemoval(c Component) {
	q.removals.Push(c)
}

// DrainAdditions swaps out and returns the pending additions
func (q *MutationQueue) DrainAdditions() []Component {
	return q.additions.Drain()
}

// DrainRemovals swaps out and returns the pending removals
func (q *MutationQueue) DrainRemovals() []Component {
	return q.removals.Drain()
}

// Pending returns the number of staged additions and removals
func (q *MutationQueue) Pending() (additions int, removals int) {
	return q.additions.Len(), q.removals.Len()
}
