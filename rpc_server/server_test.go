package server

import (
	"sync"
	"testing"

	"github.com/arshadvani3/mapreduce-docker/types"
)

func TestCountWordsScenario(t *testing.T) {
	counts := CountWords("the cat sat on the mat the cat ran")
	want := map[string]int{"the": 3, "cat": 2, "sat": 1, "on": 1, "mat": 1, "ran": 1}
	if len(counts) != len(want) {
		t.Fatalf("got %v, want %v", counts, want)
	}
	for w, c := range want {
		if counts[w] != c {
			t.Fatalf("count[%q] = %d, want %d", w, counts[w], c)
		}
	}
}

func TestCountWordsNormalizes(t *testing.T) {
	counts := CountWords("Hello, WORLD!! hello... 42 world-peace")
	want := map[string]int{"hello": 2, "world": 2, "peace": 1}
	for w, c := range want {
		if counts[w] != c {
			t.Fatalf("count[%q] = %d, want %d (full: %v)", w, counts[w], c, counts)
		}
	}
	if len(counts) != len(want) {
		t.Fatalf("got %v, want %v", counts, want)
	}
}

func TestCountWordsEmpty(t *testing.T) {
	if counts := CountWords("123 !!! \n\t"); len(counts) != 0 {
		t.Fatalf("got %v, want empty", counts)
	}
}

func TestMapHandler(t *testing.T) {
	svc := new(WordCount)
	args := &types.MapArgs{TaskID: 7, Chunk: "a b a"}
	reply := new(types.MapReply)
	if err := svc.Map(args, reply); err != nil {
		t.Fatal(err)
	}
	if reply.TaskID != 7 {
		t.Fatalf("reply.TaskID = %d, want 7", reply.TaskID)
	}
	if reply.Counts["a"] != 2 || reply.Counts["b"] != 1 {
		t.Fatalf("reply.Counts = %v", reply.Counts)
	}

	if err := svc.Map(nil, new(types.MapReply)); err == nil {
		t.Fatal("nil args should be rejected")
	}
}

func TestReduceHandler(t *testing.T) {
	svc := new(WordCount)
	args := &types.ReduceArgs{Key: "the", Counts: []int{3, 5, 1}}
	reply := new(types.ReduceReply)
	if err := svc.Reduce(args, reply); err != nil {
		t.Fatal(err)
	}
	if reply.Key != "the" || reply.Total != 9 {
		t.Fatalf("reply = %+v, want {the 9}", reply)
	}

	if err := svc.Reduce(nil, new(types.ReduceReply)); err == nil {
		t.Fatal("nil args should be rejected")
	}
}

// The handlers hold no state, so concurrent calls must not interfere.
func TestMapHandlerConcurrent(t *testing.T) {
	svc := new(WordCount)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				reply := new(types.MapReply)
				if err := svc.Map(&types.MapArgs{Chunk: "w w w"}, reply); err != nil {
					t.Error(err)
					return
				}
				if reply.Counts["w"] != 3 {
					t.Errorf("Counts = %v", reply.Counts)
					return
				}
			}
		}()
	}
	wg.Wait()
}
