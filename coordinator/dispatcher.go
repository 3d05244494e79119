// Package coordinator drives the whole run: it streams chunks, assigns
// them round-robin to workers with a bounded in-flight window, tracks
// every task's lifecycle, and reassigns tasks that time out or fail.
package coordinator

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/rpc"
	"time"

	"github.com/google/uuid"

	"github.com/arshadvani3/mapreduce-docker/aggregate"
	"github.com/arshadvani3/mapreduce-docker/chunk"
	"github.com/arshadvani3/mapreduce-docker/config"
	"github.com/arshadvani3/mapreduce-docker/types"
)

// Remote is the async call surface the dispatcher needs from a worker
// connection. *rpc.Client satisfies it.
type Remote interface {
	Go(serviceMethod string, args any, reply any, done chan *rpc.Call) *rpc.Call
}

// Worker is one dialed worker: its stable address plus the connection.
type Worker struct {
	Addr   string
	Remote Remote
}

// completion is the tagged record a finished call is reduced to before it
// reaches the dispatch loop. Exactly one is delivered per dispatch.
type completion struct {
	taskID int
	token  string
	worker string
	counts map[string]int
	err    error
}

// Dispatcher owns the global frequency map and all dispatch state. Only
// its own goroutine (the one running Run) touches them; worker calls hand
// results over through the results channel.
type Dispatcher struct {
	workers     []Worker
	tracker     *Tracker
	maxInflight int
	timeout     time.Duration

	results  chan completion
	pending  []chunk.Chunk // chunks awaiting reassignment
	counts   map[string]int
	inflight int
	rr       int
	streamed int
}

// NewDispatcher builds a dispatcher over the given workers, tuned by cfg.
func NewDispatcher(workers []Worker, cfg config.Config) *Dispatcher {
	return &Dispatcher{
		workers:     workers,
		tracker:     NewTracker(cfg.MaxAttempts),
		maxInflight: cfg.MaxInflight,
		timeout:     cfg.TaskTimeout,
		results:     make(chan completion, cfg.MaxInflight),
		counts:      make(map[string]int),
	}
}

// Run consumes the streamer to exhaustion and returns the global frequency
// map once every chunk has been counted exactly once. It returns a
// *PermanentTaskError if any chunk exhausts its retry ceiling, or the
// streamer's error if the input itself cannot be read.
func (d *Dispatcher) Run(st *chunk.Streamer) (map[string]int, error) {
	if len(d.workers) == 0 {
		return nil, errors.New("no workers configured")
	}

	interval := d.timeout / 4
	if interval < 10*time.Millisecond {
		interval = 10 * time.Millisecond
	}
	reap := time.NewTicker(interval)
	defer reap.Stop()

	streaming := true
	for {
		// Fill the in-flight window: retries first, then fresh chunks.
		for d.inflight < d.maxInflight {
			c, ok, err := d.next(st, &streaming)
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			d.dispatch(c)
		}

		if !streaming && len(d.pending) == 0 && d.inflight == 0 {
			break
		}

		select {
		case res := <-d.results:
			if err := d.observe(res); err != nil {
				return nil, err
			}
		case <-reap.C:
			if err := d.expire(); err != nil {
				return nil, err
			}
		}
	}

	log.Printf("[COORD] mapped %d chunks; unique words=%d", d.streamed, len(d.counts))
	return d.counts, nil
}

// next yields the chunk to dispatch: a requeued one if any, otherwise the
// streamer's next (registering it). ok=false means nothing to dispatch now.
func (d *Dispatcher) next(st *chunk.Streamer, streaming *bool) (chunk.Chunk, bool, error) {
	if len(d.pending) > 0 {
		c := d.pending[0]
		d.pending = d.pending[1:]
		return c, true, nil
	}
	if !*streaming {
		return chunk.Chunk{}, false, nil
	}
	c, err := st.Next()
	if err == io.EOF {
		*streaming = false
		log.Printf("[COORD] input exhausted after %d chunks; draining", d.streamed)
		return chunk.Chunk{}, false, nil
	}
	if err != nil {
		return chunk.Chunk{}, false, fmt.Errorf("input stream: %w", err)
	}
	d.tracker.Register(c)
	d.streamed++
	return c, true, nil
}

// dispatch issues one non-blocking map call for c to the next worker in
// rotation. The spawned forwarder is the only goroutine besides Run's; it
// does nothing but funnel the finished call into the results channel.
func (d *Dispatcher) dispatch(c chunk.Chunk) {
	w := d.workers[d.rr%len(d.workers)]
	d.rr++

	token := uuid.NewString()
	d.tracker.MarkInflight(c.Seq, w.Addr, token, time.Now().Add(d.timeout))

	args := &types.MapArgs{TaskID: c.Seq, Chunk: c.Text}
	reply := new(types.MapReply)
	done := make(chan *rpc.Call, 1)
	w.Remote.Go(types.MapMethod, args, reply, done)
	d.inflight++

	go func() {
		call := <-done
		res := completion{taskID: c.Seq, token: token, worker: w.Addr}
		if call.Error != nil {
			res.err = call.Error
		} else {
			res.counts = reply.Counts
		}
		d.results <- res
	}()
}

// observe applies one completion. The in-flight slot is freed only when
// this completion is the one the tracker still considers current; a slot
// freed earlier by a timeout stays freed when the straggler finally lands.
func (d *Dispatcher) observe(res completion) error {
	if res.err != nil {
		c, requeue, fatal := d.tracker.MarkFailed(res.taskID, res.token)
		if fatal {
			return &PermanentTaskError{Seq: res.taskID, Attempts: d.tracker.Attempts(res.taskID)}
		}
		if requeue {
			d.inflight--
			log.Printf("[COORD] task %d failed on %s: %v; requeueing", res.taskID, res.worker, res.err)
			d.pending = append(d.pending, c)
		}
		return nil
	}

	if !d.tracker.MarkDone(res.taskID, res.token) {
		log.Printf("[COORD] discarding stale result for task %d from %s", res.taskID, res.worker)
		return nil
	}
	aggregate.Merge(d.counts, res.counts)
	d.inflight--
	return nil
}

// expire reassigns every in-flight task whose deadline passed. No cancel
// is sent to the worker; its eventual reply is rejected as stale.
func (d *Dispatcher) expire() error {
	expired, fatalID := d.tracker.Expire(time.Now())
	if fatalID >= 0 {
		return &PermanentTaskError{Seq: fatalID, Attempts: d.tracker.Attempts(fatalID)}
	}
	for _, e := range expired {
		d.inflight--
		log.Printf("[COORD] task %d timed out on %s (attempt %d); reassigning", e.Chunk.Seq, e.Worker, e.Attempts)
		d.pending = append(d.pending, e.Chunk)
	}
	return nil
}

// DialWorkers connects to every address, retrying each for up to wait so
// the coordinator can start before its workers finish booting.
func DialWorkers(addrs []string, wait time.Duration) ([]Worker, error) {
	deadline := time.Now().Add(wait)
	workers := make([]Worker, 0, len(addrs))
	for _, addr := range addrs {
		for {
			client, err := rpc.Dial("tcp", addr)
			if err == nil {
				workers = append(workers, Worker{Addr: addr, Remote: client})
				break
			}
			if time.Now().After(deadline) {
				return nil, fmt.Errorf("dial worker %s: %w", addr, err)
			}
			time.Sleep(500 * time.Millisecond)
		}
	}
	log.Printf("[COORD] connected to %d workers", len(workers))
	return workers, nil
}
