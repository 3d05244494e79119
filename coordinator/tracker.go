package coordinator

import (
	"sync"
	"time"

	"github.com/arshadvani3/mapreduce-docker/chunk"
)

// taskState is the lifecycle of one scheduled chunk.
type taskState int

const (
	statePending  taskState = iota // waiting for (re)assignment
	stateInflight                  // dispatched, awaiting completion
	stateDone                      // result accepted and merged
	stateFatal                     // retry ceiling exceeded
)

// task is the tracker's record for one chunk. A task is mutated only
// through the tracker; workers never touch it.
type task struct {
	id       int
	chunk    chunk.Chunk
	state    taskState
	worker   string // address of the current assignee
	token    string // attempt token; identifies the call holding the slot
	deadline time.Time
	attempts int
}

// Expired describes one task whose deadline passed, returned by Expire for
// requeueing.
type Expired struct {
	Chunk    chunk.Chunk
	Worker   string
	Attempts int
}

// Tracker is the coordinator's authoritative task table. A single mutex
// guards it so completion handling and timer-driven expiry may run on
// different goroutines; every mutation is atomic per task id.
type Tracker struct {
	mu          sync.Mutex
	tasks       map[int]*task
	maxAttempts int
	done        int
}

// NewTracker returns a tracker that gives up on a chunk after maxAttempts
// dispatches.
func NewTracker(maxAttempts int) *Tracker {
	return &Tracker{tasks: make(map[int]*task), maxAttempts: maxAttempts}
}

// Register records a fresh chunk as pending and returns its task id, which
// is the chunk's sequence number.
func (t *Tracker) Register(c chunk.Chunk) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tasks[c.Seq] = &task{id: c.Seq, chunk: c, state: statePending}
	return c.Seq
}

// MarkInflight records a dispatch attempt: the task is now owned by worker
// under the given attempt token until deadline. Counts one attempt.
func (t *Tracker) MarkInflight(id int, worker, token string, deadline time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tk := t.tasks[id]
	tk.state = stateInflight
	tk.worker = worker
	tk.token = token
	tk.deadline = deadline
	tk.attempts++
}

// MarkDone accepts a completion if and only if the task is still in flight
// under the same attempt token. A false return means the result is stale
// (the task timed out and was reassigned, or already finished elsewhere)
// and must be discarded without merging.
func (t *Tracker) MarkDone(id int, token string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	tk, ok := t.tasks[id]
	if !ok || tk.state != stateInflight || tk.token != token {
		return false
	}
	tk.state = stateDone
	t.done++
	return true
}

// MarkFailed records a failed call. If the attempt is stale the failure is
// ignored (requeue=false). Otherwise the chunk goes back to pending for
// reassignment, or the task turns fatal once the ceiling is reached.
func (t *Tracker) MarkFailed(id int, token string) (c chunk.Chunk, requeue, fatal bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tk, ok := t.tasks[id]
	if !ok || tk.state != stateInflight || tk.token != token {
		return chunk.Chunk{}, false, false
	}
	if tk.attempts >= t.maxAttempts {
		tk.state = stateFatal
		return tk.chunk, false, true
	}
	tk.state = statePending
	return tk.chunk, true, false
}

// Expire scans in-flight tasks for passed deadlines. Timed-out tasks move
// back to pending and are returned for requeueing; a task that timed out
// on its final attempt turns fatal, reported via fatalID (-1 if none).
func (t *Tracker) Expire(now time.Time) (expired []Expired, fatalID int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fatalID = -1
	for _, tk := range t.tasks {
		if tk.state != stateInflight || now.Before(tk.deadline) {
			continue
		}
		if tk.attempts >= t.maxAttempts {
			tk.state = stateFatal
			fatalID = tk.id
			continue
		}
		tk.state = statePending
		// Invalidate the token so the straggler's eventual reply is
		// rejected by MarkDone.
		tk.token = ""
		expired = append(expired, Expired{Chunk: tk.chunk, Worker: tk.worker, Attempts: tk.attempts})
	}
	return expired, fatalID
}

// Attempts reports how many times a task has been dispatched.
func (t *Tracker) Attempts(id int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tk, ok := t.tasks[id]; ok {
		return tk.attempts
	}
	return 0
}

// Done reports whether every registered task completed successfully.
func (t *Tracker) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done == len(t.tasks)
}
