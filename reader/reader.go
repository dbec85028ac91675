// Package reader defines backtracking reader used by parsers.
package reader

import (
	"io"

	"github.com/ava12/combi"
	"github.com/ava12/combi/internal/queue"
	"github.com/ava12/combi/source"
)

// Error codes used by reader:
const (
	// UnbalancedUnnestError indicates Unnest call without matching Nest call.
	UnbalancedUnnestError = combi.ReaderErrors + iota
)

// Reader reads runes from a source and allows returning to marked positions.
//
// Runes read while at least one mark is active are kept in the backup buffer.
// The buffer always holds exactly the runes read since the oldest active mark,
// newer marks address suffixes of it. Reset pushes the runes read since the newest mark
// back in front of the source, so that the source itself is never re-read or seeked.
//
// Reader is not safe for concurrent use, each parse owns its reader.
type Reader struct {
	src     source.Source
	pending *queue.Queue[rune]
	backup  []rune
	marks   []source.Pos
	nests   []int
	pos     source.Pos
}

// New creates reader for src. Current position is the position of src.
func New(src source.Source) *Reader {
	return &Reader{
		src:     src,
		pending: queue.New[rune](),
		pos:     src.Pos(),
	}
}

// Source returns underlying source.
func (r *Reader) Source() source.Source {
	return r.src
}

// Pos returns current position.
func (r *Reader) Pos() source.Pos {
	return r.pos
}

// Peek returns current rune without advancing or source.EOF.
func (r *Reader) Peek() rune {
	if c, f := r.pending.Peek(); f {
		return c
	}

	return r.src.Peek()
}

// Eof reports whether there is nothing left to read.
func (r *Reader) Eof() bool {
	return r.pending.IsEmpty() && r.src.Eof()
}

// Read returns current rune and advances position or returns source.EOF.
func (r *Reader) Read() rune {
	c, f := r.pending.First()
	if !f {
		c = r.src.Read()
		if c == source.EOF {
			return c
		}
	}

	if len(r.marks) > 0 {
		r.backup = append(r.backup, c)
	}
	r.pos = r.pos.Advance(c, r.Peek())
	return c
}

// Mark saves current position. Marks form a stack, Reset and Unmark affect the newest one.
func (r *Reader) Mark() {
	r.marks = append(r.marks, r.pos)
}

// Marks returns the number of active marks.
func (r *Reader) Marks() int {
	return len(r.marks)
}

// Unmark drops the newest mark without changing current position.
// Does nothing if there are no marks.
func (r *Reader) Unmark() {
	l := len(r.marks)
	if l == 0 {
		return
	}

	r.marks = r.marks[:l-1]
	if l == 1 {
		r.backup = r.backup[:0]
	}
}

// Reset returns to the newest mark and drops it if unmark is set.
// Does nothing if there are no marks.
func (r *Reader) Reset(unmark bool) {
	l := len(r.marks)
	if l == 0 {
		return
	}

	mark := r.marks[l-1]
	delta := r.pos.Index - mark.Index
	if delta > 0 {
		tail := len(r.backup) - delta
		r.pending.PrependAll(r.backup[tail:])
		r.backup = r.backup[:tail]
	}
	r.pos = mark

	if unmark {
		r.Unmark()
	}
}

// Capture returns text read since the newest mark and drops the mark if unmark is set.
// Returns empty string if there are no marks.
func (r *Reader) Capture(unmark bool) string {
	l := len(r.marks)
	if l == 0 {
		return ""
	}

	delta := r.pos.Index - r.marks[l-1].Index
	result := string(r.backup[len(r.backup)-delta:])
	if unmark {
		r.Unmark()
	}
	return result
}

// Nest opens a new mark scope. The matching Unnest drops all marks set since this call.
func (r *Reader) Nest() {
	r.nests = append(r.nests, len(r.marks))
}

// Level returns current nesting level, 0 if no scope is open.
func (r *Reader) Level() int {
	return len(r.nests)
}

// Unnest closes the innermost mark scope dropping the marks set in this scope
// and not unmarked yet. Current position is not changed.
// Returns error if no scope is open.
func (r *Reader) Unnest() error {
	l := len(r.nests)
	if l == 0 {
		return combi.FormatErrorPos(r.errorPos(), UnbalancedUnnestError, "unnest without matching nest")
	}

	depth := r.nests[l-1]
	r.nests = r.nests[:l-1]
	for len(r.marks) > depth {
		r.Unmark()
	}
	return nil
}

// Err returns I/O error reported by underlying source, if any.
func (r *Reader) Err() error {
	if es, f := r.src.(interface{ Err() error }); f {
		return es.Err()
	}

	return nil
}

// Close releases underlying source if it is closable.
func (r *Reader) Close() error {
	if c, f := r.src.(io.Closer); f {
		return c.Close()
	}

	return nil
}

type errorPos struct {
	name      string
	line, col int
}

func (p errorPos) SourceName() string {
	return p.name
}

func (p errorPos) Line() int {
	return p.line
}

func (p errorPos) Col() int {
	return p.col
}

func (r *Reader) errorPos() combi.SourcePos {
	return errorPos{r.src.Name(), r.pos.Line, r.pos.Col}
}
