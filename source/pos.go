package source

import "fmt"

// EOF is returned by Peek and Read when there are no more runes.
const EOF rune = -1

// Pos is a position in a source: zero-based rune index and one-based line and column numbers.
type Pos struct {
	Index, Line, Col int
}

// StartPos returns the position of the first rune of a source.
func StartPos() Pos {
	return Pos{0, 1, 1}
}

// Advance returns the position following rune r; next is the rune after r (or EOF).
// "\n" and "\r" not followed by "\n" start a new line.
func (p Pos) Advance(r, next rune) Pos {
	p.Index++
	if r == '\n' || (r == '\r' && next != '\n') {
		p.Line++
		p.Col = 1
	} else {
		p.Col++
	}
	return p
}

// Before reports whether p is located before q.
func (p Pos) Before(q Pos) bool {
	return p.Index < q.Index
}

func (p Pos) String() string {
	return fmt.Sprintf("line %d col %d", p.Line, p.Col)
}
