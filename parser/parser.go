// Package parser contains parser values, combinators, and grammar entry points.
//
// A parser is an immutable node of a grammar graph. Parsing a source means calling
// Parse of the root node with a Context holding the backtracking reader.
// Each call returns either a value with the position after it or a Failure.
// Soft failures are backtrackable: alternations rewind the reader and try the next branch.
// Fatal failures appear after a crossed Cut and are propagated up to the nearest
// enclosing scope without trying sibling branches.
package parser

import (
	"github.com/ava12/combi/reader"
)

// Parser is a grammar node producing values of type T.
type Parser[T any] interface {
	// Parse matches input at current reader position.
	// Implementations must leave the reader marks balanced.
	Parse(c *Context) Result[T]

	// String returns short human-readable description used in failure messages.
	String() string
}

// Pair holds values of two sequenced parsers.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Triple holds values of three sequenced parsers.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Run applies p to r in a fresh top-level scope.
func Run[T any](p Parser[T], r *reader.Reader, opts ...Option) Result[T] {
	checkParser(p, "Run")
	return p.Parse(NewContext(r, opts...))
}
