package coordinator

import "fmt"

// PermanentTaskError aborts a run: a chunk could not be completed within
// the retry ceiling. Emitting partial counts as if complete would silently
// undercount, so the run fails loudly instead, naming the chunk.
type PermanentTaskError struct {
	Seq      int
	Attempts int
}

func (e *PermanentTaskError) Error() string {
	return fmt.Sprintf("chunk %d failed permanently after %d attempts", e.Seq, e.Attempts)
}
