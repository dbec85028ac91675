// Package source defines positions and character sources read by reader.Reader.
package source

import (
	"bufio"
	"io"
	"os"
	"unicode/utf8"

	"github.com/ava12/combi"
)

// Error codes used by sources:
const (
	// OpenError indicates that source file cannot be opened.
	OpenError = combi.SourceErrors + iota

	// ReadError indicates an I/O error while reading a stream.
	ReadError
)

// Source is a forward-only rune sequence. Sources need not be seekable,
// backtracking is implemented by reader.Reader on top of them.
type Source interface {
	// Name returns source name (e.g. file name) or empty string.
	Name() string
	// Peek returns current rune without advancing or EOF.
	Peek() rune
	// Read returns current rune and advances current position or returns EOF.
	Read() rune
	// Pos returns current position.
	Pos() Pos
	// Eof reports whether all runes are read.
	Eof() bool
}

// Text is an in-memory source.
type Text struct {
	name    string
	content []byte
	offset  int
	pos     Pos
}

// New creates in-memory source. Content is not copied and must not be modified.
func New(name string, content []byte) *Text {
	return &Text{name: name, content: content, pos: StartPos()}
}

// FromString creates in-memory source containing s.
func FromString(name, s string) *Text {
	return New(name, []byte(s))
}

func (t *Text) Name() string {
	return t.name
}

// Content returns the whole source content.
func (t *Text) Content() []byte {
	return t.content
}

// Len returns content size in bytes.
func (t *Text) Len() int {
	return len(t.content)
}

func (t *Text) Pos() Pos {
	return t.pos
}

func (t *Text) Eof() bool {
	return t.offset >= len(t.content)
}

func (t *Text) decode(offset int) (rune, int) {
	if offset >= len(t.content) {
		return EOF, 0
	}

	return utf8.DecodeRune(t.content[offset:])
}

func (t *Text) Peek() rune {
	r, _ := t.decode(t.offset)
	return r
}

func (t *Text) Read() rune {
	r, size := t.decode(t.offset)
	if size == 0 {
		return EOF
	}

	t.offset += size
	next, _ := t.decode(t.offset)
	t.pos = t.pos.Advance(r, next)
	return r
}

// Stream is a source reading runes from io.Reader on demand.
// Read errors are treated as end of input and reported by Err.
type Stream struct {
	name   string
	input  *bufio.Reader
	closer io.Closer
	pos    Pos
	next   rune
	ready  bool
	err    error
}

// NewStream creates source reading from r.
// If r implements io.Closer it will be closed by Close.
func NewStream(name string, r io.Reader) *Stream {
	result := &Stream{name: name, input: bufio.NewReader(r), pos: StartPos()}
	if c, f := r.(io.Closer); f {
		result.closer = c
	}
	return result
}

// Open opens named file as a stream source. The caller must Close it.
func Open(filename string) (*Stream, error) {
	f, e := os.Open(filename)
	if e != nil {
		return nil, combi.FormatError(OpenError, "cannot open source: %s", e)
	}

	return NewStream(filename, f), nil
}

func (s *Stream) Name() string {
	return s.name
}

func (s *Stream) Pos() Pos {
	return s.pos
}

func (s *Stream) fill() {
	if s.ready {
		return
	}

	s.ready = true
	r, _, e := s.input.ReadRune()
	if e != nil {
		s.next = EOF
		if e != io.EOF && s.err == nil {
			s.err = combi.FormatError(ReadError, "cannot read %s: %s", s.name, e)
		}
		return
	}

	s.next = r
}

func (s *Stream) Peek() rune {
	s.fill()
	return s.next
}

func (s *Stream) Read() rune {
	r := s.Peek()
	if r == EOF {
		return EOF
	}

	s.ready = false
	s.pos = s.pos.Advance(r, s.Peek())
	return r
}

func (s *Stream) Eof() bool {
	return s.Peek() == EOF
}

// Err returns the first I/O error occurred or nil.
func (s *Stream) Err() error {
	return s.err
}

// Close releases underlying reader if it is closable. It is safe to call Close more than once.
func (s *Stream) Close() error {
	if s.closer == nil {
		return nil
	}

	c := s.closer
	s.closer = nil
	return c.Close()
}
