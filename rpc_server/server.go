// Package server implements the worker side of the word-count job: a
// net/rpc service whose handlers are pure functions of their arguments,
// safe under any number of concurrent calls.
package server

import (
	"errors"
	"log"
	"net"
	"net/rpc"
	"regexp"
	"strings"

	"github.com/arshadvani3/mapreduce-docker/types"
)

var wordRE = regexp.MustCompile(`\b[a-z]+\b`)

// CountWords tokenizes text with a case-normalized alphabetic word pattern
// and returns the combined word -> count map for it. This local combine is
// what keeps the reply at O(distinct words) instead of O(tokens).
func CountWords(text string) map[string]int {
	counts := make(map[string]int)
	for _, w := range wordRE.FindAllString(strings.ToLower(text), -1) {
		counts[w]++
	}
	return counts
}

// WordCount exposes the map and reduce operations over RPC. It holds no
// state between calls.
type WordCount struct{}

// Map counts the words of one chunk and replies with the combined mapping.
func (s *WordCount) Map(args *types.MapArgs, reply *types.MapReply) error {
	if args == nil {
		return errors.New("arguments cannot be nil")
	}
	counts := CountWords(args.Chunk)
	reply.TaskID = args.TaskID
	reply.Counts = counts
	log.Printf("[WORKER] task %d: mapped %d bytes -> %d unique words",
		args.TaskID, len(args.Chunk), len(counts))
	return nil
}

// Reduce sums the partial counts for a single key.
func (s *WordCount) Reduce(args *types.ReduceArgs, reply *types.ReduceReply) error {
	if args == nil {
		return errors.New("arguments cannot be nil")
	}
	total := 0
	for _, c := range args.Counts {
		total += c
	}
	reply.Key = args.Key
	reply.Total = total
	return nil
}

// Register adds the service to the default RPC server under its fixed name.
func Register() error {
	return rpc.RegisterName(types.ServiceName, new(WordCount))
}

// Serve accepts connections forever, serving each on its own goroutine so
// in-flight calls from the coordinator never serialize behind one another.
func Serve(l net.Listener) {
	for {
		conn, err := l.Accept()
		if err != nil {
			log.Println("[WORKER]", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}
