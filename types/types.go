// Package types holds the records that cross the coordinator/worker RPC
// boundary. Only plain structs, strings, ints and maps go over the wire.
package types

// Service and method names the worker registers under and the coordinator
// dials. Fixed so either side can be swapped out in tests.
const (
	ServiceName  = "WordCount"
	MapMethod    = ServiceName + ".Map"
	ReduceMethod = ServiceName + ".Reduce"
)

// DefaultPort is the TCP port workers listen on unless configured otherwise.
const DefaultPort = 18861

// MapArgs carries one chunk of input text to a worker.
type MapArgs struct {
	TaskID int
	Chunk  string
}

// MapReply is the worker's locally combined word-count for one chunk:
// word -> occurrences within the chunk, never raw (word, 1) pairs.
type MapReply struct {
	TaskID int
	Counts map[string]int
}

// ReduceArgs asks a worker to total the partial counts for a single key.
type ReduceArgs struct {
	Key    string
	Counts []int
}

// ReduceReply is the summed total for one key.
type ReduceReply struct {
	Key   string
	Total int
}
