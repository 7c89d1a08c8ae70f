// Package frontier provides the shared work queue that coordinates the
// crawl: a multi-producer multi-consumer queue of pending tasks with
// in-flight accounting and a blocking drained-state wait.
//
// The queue is the single point of agreement between workers about whether
// work remains. A worker that merely observes an empty queue cannot
// conclude the crawl is over, because another worker may still be
// processing a task whose children have not been submitted yet. The queue
// therefore tracks two counters under one mutex: the pending backlog and
// the number of tasks taken but not yet marked done. The crawl is finished
// only when both are zero at the same instant, and Wait blocks until
// exactly that state.
package frontier
