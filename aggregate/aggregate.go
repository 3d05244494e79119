// Package aggregate merges per-chunk partial counts into the global
// frequency map and produces its deterministic ranked views.
package aggregate

import (
	"bufio"
	"fmt"
	"io"
	"sort"
)

// Entry is one ranked word with its total count.
type Entry struct {
	Word  string
	Count int
}

// Merge adds every count in partial to global. Addition commutes, so
// chunks may be merged in any completion order.
func Merge(global, partial map[string]int) {
	for w, c := range partial {
		global[w] += c
	}
}

// Rank orders the whole map by descending count, breaking ties by word so
// identical maps always rank identically.
func Rank(counts map[string]int) []Entry {
	ranked := make([]Entry, 0, len(counts))
	for w, c := range counts {
		ranked = append(ranked, Entry{Word: w, Count: c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Word < ranked[j].Word
	})
	return ranked
}

// TopK returns the k highest-count entries (all of them if k exceeds the
// map size), ordered as Rank orders them.
func TopK(counts map[string]int, k int) []Entry {
	ranked := Rank(counts)
	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}

// WriteTSV persists the full ranked table as tab-separated "word<TAB>count"
// lines, no header, in Rank order.
func WriteTSV(w io.Writer, counts map[string]int) error {
	bw := bufio.NewWriter(w)
	for _, e := range Rank(counts) {
		if _, err := fmt.Fprintf(bw, "%s\t%d\n", e.Word, e.Count); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// PrintTop writes a numbered, aligned listing of the given entries.
func PrintTop(w io.Writer, entries []Entry) {
	longest := 0
	for _, e := range entries {
		if len(e.Word) > longest {
			longest = len(e.Word)
		}
	}
	for i, e := range entries {
		fmt.Fprintf(w, "%2d. %-*s: %d\n", i+1, longest+1, e.Word, e.Count)
	}
}
