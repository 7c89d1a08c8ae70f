package frontier

import (
	"sync"
	"time"

	"github.com/nao1215/wikicrawl/internal/model"
)

// Queue is a thread-safe frontier of pending crawl tasks with completion
// tracking. Producers submit tasks without blocking; consumers take tasks
// with a bounded wait; completion of each taken task must be reported via
// MarkDone so that Wait can detect the fully drained state.
//
// Tasks are handed out first-available: dequeue order follows submission
// order, but with concurrent takers no cross-worker ordering is guaranteed.
type Queue struct {
	// mu guards every field below.
	mu sync.Mutex

	// pending is the backlog of submitted, not yet taken tasks.
	pending []model.Task

	// inflight counts tasks taken but not yet marked done.
	inflight int

	// available is signaled once per submitted task.
	available *sync.Cond

	// drained is broadcast when pending and inflight both reach zero.
	drained *sync.Cond
}

// NewQueue creates an empty Queue. A fresh queue is already drained:
// Wait on it returns immediately.
func NewQueue() *Queue {
	q := &Queue{}
	q.available = sync.NewCond(&q.mu)
	q.drained = sync.NewCond(&q.mu)
	return q
}

// Submit appends a task to the backlog and wakes one waiting taker.
// It never blocks; the backlog is unbounded.
func (q *Queue) Submit(task model.Task) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending = append(q.pending, task)
	q.available.Signal()
}

// Take removes and returns the oldest pending task. If the backlog is
// empty, Take blocks until a task is submitted or timeout elapses; the
// second return value is false when the wait timed out with nothing to
// hand out. A task submitted before the deadline is never missed: waiting
// happens in a condition-variable loop under the queue mutex, so a racing
// Submit either lands before the taker sleeps or wakes it.
//
// The returned task counts as in-flight until MarkDone is called.
func (q *Queue) Take(timeout time.Duration) (model.Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	deadline := time.Now().Add(timeout)
	for len(q.pending) == 0 {
		if timeout <= 0 || !time.Now().Before(deadline) {
			return model.Task{}, false
		}
		// sync.Cond has no timed wait, so a timer broadcasts at the
		// deadline and the loop re-checks both conditions on wakeup.
		// The timer takes the mutex first: Wait registers the waiter
		// before releasing it, so the broadcast cannot slip in between
		// arming the timer and going to sleep.
		timer := time.AfterFunc(time.Until(deadline), func() {
			q.mu.Lock()
			defer q.mu.Unlock()
			q.available.Broadcast()
		})
		q.available.Wait()
		timer.Stop()
	}

	task := q.pending[0]
	q.pending = q.pending[1:]
	q.inflight++
	return task, true
}

// MarkDone records completion of one previously taken task: the worker has
// finished processing it and submitted all of its children. It must be
// called exactly once per successful Take, on the failure path as well as
// the success path. MarkDone panics if called more times than tasks were
// taken, like a sync.WaitGroup counter going negative.
func (q *Queue) MarkDone() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.inflight == 0 {
		panic("frontier: MarkDone called with no task in flight")
	}
	q.inflight--
	if q.inflight == 0 && len(q.pending) == 0 {
		q.drained.Broadcast()
	}
}

// Wait blocks until the queue is drained: zero pending tasks and zero
// in-flight tasks simultaneously. On a fresh queue it returns immediately.
func (q *Queue) Wait() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.pending) > 0 || q.inflight > 0 {
		q.drained.Wait()
	}
}

// Pending returns the current backlog size.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// InFlight returns the number of tasks taken but not yet marked done.
func (q *Queue) InFlight() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.inflight
}
