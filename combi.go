/*
Package combi is a parser combinator library.

Consists of subpackages:
  - source: positions and character sources (strings, byte slices, streams, files);
  - reader: backtracking reader with nested marks layered over any source;
  - charclass: composable character classes (ranges, sets, Unicode categories, unions, complements);
  - parser: parser values, combinators, and grammar entry points;
  - cmd/combi: console utility running the example grammars.

Typical usage is:

1. Describe lexical pieces of the language with character classes and primitive parsers
(parser.Char, parser.Class, parser.Literal, parser.While, etc.).

2. Compose them with parser.Seq, parser.Alt, parser.Repeat, parser.Aggregate, and parser.Map.
Use parser.Lazy to refer to rules that are defined later (recursive grammars)
and parser.Cut to commit to a branch once a distinguishing token is seen.

3. Wrap the root parser with parser.NewGrammar, optionally configuring insignificant characters
(e.g. whitespace) that are skipped automatically before every token.

4. Feed sources to the grammar and inspect the returned parser.Outcome.
*/
package combi

import (
	"fmt"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	SourceErrors  = 1   // used by source
	ReaderErrors  = 101 // used by reader
	ClassErrors   = 201 // used by charclass
	ParseErrors   = 301 // used by parser for syntax errors
	GrammarErrors = 401 // used by parser for grammar construction errors
	AppErrors     = 501 // used by examples and console utility
)

// Error is the error type used by combi subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source file or 0.
	Line int

	// Col contains column number in source file or 0.
	Col int
}

// SourcePos is used to retrieve source name and position information when constructing an error.
type SourcePos interface {
	// SourceName returns source file name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// line and col will be added to error message if provided (non-zero), name is added if not empty.
func NewError(code int, msg, name string, line, col int) *Error {
	if line != 0 && col != 0 {
		if name == "" {
			msg += fmt.Sprintf(" at line %d col %d", line, col)
		} else {
			msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
		}
	}
	return &Error{code, msg, name, line, col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}
