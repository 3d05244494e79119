// Package chunk slices input files into bounded, line-aligned chunks
// without ever holding a whole file in memory.
package chunk

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Chunk is a contiguous, line-aligned slice of the input. Seq increases
// strictly by production order and doubles as the task id downstream.
type Chunk struct {
	Seq  int
	Text string
}

// Streamer lazily yields chunks of at most maxBytes from a sequence of
// readers, opened one at a time. It is finite and not restartable.
type Streamer struct {
	maxBytes int
	paths    []string
	cur      *bufio.Reader
	curClose io.Closer
	seq      int
	done     bool
}

// NewStreamer streams from a single reader.
func NewStreamer(r io.Reader, maxBytes int) *Streamer {
	return &Streamer{maxBytes: maxBytes, cur: bufio.NewReader(r)}
}

// NewFileStreamer streams the given files in order, opening each lazily.
func NewFileStreamer(paths []string, maxBytes int) *Streamer {
	return &Streamer{maxBytes: maxBytes, paths: paths}
}

// Next returns the next chunk, or io.EOF once all input is consumed.
// Any other error is fatal to the run; the streamer stays exhausted.
func (s *Streamer) Next() (Chunk, error) {
	if s.done {
		return Chunk{}, io.EOF
	}

	var buf strings.Builder
	for {
		if s.cur == nil {
			if len(s.paths) == 0 {
				break
			}
			f, err := os.Open(s.paths[0])
			if err != nil {
				s.done = true
				return Chunk{}, fmt.Errorf("open input: %w", err)
			}
			s.paths = s.paths[1:]
			s.cur = bufio.NewReader(f)
			s.curClose = f
		}

		line, err := s.cur.ReadString('\n')
		buf.WriteString(line)
		if err == io.EOF {
			// End of this file. Emit what we have so the tail of one
			// file never fuses with the head of the next.
			s.closeCurrent()
			s.cur = nil
			if buf.Len() > 0 {
				break
			}
			continue
		}
		if err != nil {
			s.closeCurrent()
			s.done = true
			return Chunk{}, fmt.Errorf("read input: %w", err)
		}
		if buf.Len() >= s.maxBytes {
			break
		}
	}

	if buf.Len() == 0 {
		s.done = true
		return Chunk{}, io.EOF
	}
	c := Chunk{Seq: s.seq, Text: buf.String()}
	s.seq++
	return c, nil
}

func (s *Streamer) closeCurrent() {
	if s.curClose != nil {
		s.curClose.Close()
		s.curClose = nil
	}
}
