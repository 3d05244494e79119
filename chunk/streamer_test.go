package chunk

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func drain(t *testing.T, s *Streamer) []Chunk {
	t.Helper()
	var chunks []Chunk
	for {
		c, err := s.Next()
		if err == io.EOF {
			return chunks
		}
		if err != nil {
			t.Fatal(err)
		}
		chunks = append(chunks, c)
	}
}

func TestStreamerSingleChunk(t *testing.T) {
	input := "the cat sat on the mat\nthe cat ran\n"
	chunks := drain(t, NewStreamer(strings.NewReader(input), 1<<20))

	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].Seq != 0 || chunks[0].Text != input {
		t.Fatalf("chunk = %+v", chunks[0])
	}
}

func TestStreamerLineAligned(t *testing.T) {
	input := "alpha beta\ngamma\ndelta epsilon zeta\neta\n"
	chunks := drain(t, NewStreamer(strings.NewReader(input), 8))

	var rebuilt strings.Builder
	for i, c := range chunks {
		if c.Seq != i {
			t.Fatalf("chunk %d has seq %d", i, c.Seq)
		}
		if !strings.HasSuffix(c.Text, "\n") {
			t.Fatalf("chunk %d not line-aligned: %q", i, c.Text)
		}
		rebuilt.WriteString(c.Text)
	}
	if rebuilt.String() != input {
		t.Fatalf("chunks do not reassemble the input: %q", rebuilt.String())
	}
	if len(chunks) < 2 {
		t.Fatalf("threshold 8 should have split the input, got %d chunks", len(chunks))
	}
}

func TestStreamerOversizedLine(t *testing.T) {
	long := strings.Repeat("word ", 100) + "\n"
	chunks := drain(t, NewStreamer(strings.NewReader(long+"tail\n"), 16))

	// A line longer than the threshold is emitted whole, never split.
	if chunks[0].Text != long {
		t.Fatalf("oversized line was split: %d bytes", len(chunks[0].Text))
	}
	if chunks[1].Text != "tail\n" {
		t.Fatalf("second chunk = %q", chunks[1].Text)
	}
}

func TestStreamerEmptyInput(t *testing.T) {
	s := NewStreamer(strings.NewReader(""), 10)
	if _, err := s.Next(); err != io.EOF {
		t.Fatalf("err = %v, want io.EOF", err)
	}
	// Exhausted streamers stay exhausted.
	if _, err := s.Next(); err != io.EOF {
		t.Fatalf("second Next err = %v, want io.EOF", err)
	}
}

func TestStreamerNoTrailingNewline(t *testing.T) {
	chunks := drain(t, NewStreamer(strings.NewReader("one two"), 1<<20))
	if len(chunks) != 1 || chunks[0].Text != "one two" {
		t.Fatalf("chunks = %+v", chunks)
	}
}

func TestFileStreamerDoesNotFuseFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	// a ends without a newline; its last word must not fuse with b's first.
	if err := os.WriteFile(a, []byte("first second"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("third\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	chunks := drain(t, NewFileStreamer([]string{a, b}, 1<<20))
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if chunks[0].Text != "first second" || chunks[1].Text != "third\n" {
		t.Fatalf("chunks = %+v", chunks)
	}
}

func TestFileStreamerMissingFile(t *testing.T) {
	s := NewFileStreamer([]string{filepath.Join(t.TempDir(), "nope.txt")}, 10)
	if _, err := s.Next(); err == nil || err == io.EOF {
		t.Fatalf("err = %v, want an open error", err)
	}
	// A read failure is fatal: the streamer must not resume.
	if _, err := s.Next(); err != io.EOF {
		t.Fatalf("after failure Next err = %v, want io.EOF", err)
	}
}
