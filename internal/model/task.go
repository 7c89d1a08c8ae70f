package model

// Task is a single unit of crawl work: one absolute URL together with the
// depth at which it was discovered. The seed task has depth 1, its direct
// children depth 2, and so on up to the configured maximum.
//
// Tasks are immutable values. Ownership transfers from the producer to the
// frontier queue and then to whichever worker dequeues the task; no two
// workers ever hold the same task.
type Task struct {
	// URL is the absolute URL to fetch.
	URL string

	// Depth is the distance from the seed, counted from 1.
	Depth int
}

// NewTask creates a Task for the given URL at the given depth.
func NewTask(url string, depth int) Task {
	return Task{URL: url, Depth: depth}
}
