package parser

import (
	"github.com/ava12/combi"
)

// Error codes used by parser for syntax errors, see Outcome.Err:
const (
	// SyntaxError indicates that input does not match grammar.
	SyntaxError = combi.ParseErrors + iota

	// FatalSyntaxError indicates that input does not match grammar after a cut.
	FatalSyntaxError
)

// Error codes used by parser for grammar construction errors.
// Constructors panic with *combi.Error having one of these codes.
const (
	// NilParserError indicates nil parser passed to a combinator.
	NilParserError = combi.GrammarErrors + iota

	// NilFunctionError indicates nil function passed to a combinator.
	NilFunctionError

	// BoundsError indicates wrong repetition bounds.
	BoundsError

	// SeedTypeError indicates aggregate having neither seed factory
	// nor the same element and accumulator types.
	SeedTypeError

	// EmptyLiteralError indicates empty literal passed to a literal parser.
	EmptyLiteralError

	// LazyResolveError indicates that lazy parser factory returned nil.
	LazyResolveError
)

func grammarPanic(code int, msg string, params ...any) {
	panic(combi.FormatError(code, msg, params...))
}

func checkParser[T any](p Parser[T], combinator string) {
	if p == nil {
		grammarPanic(NilParserError, "%s: nil parser", combinator)
	}
}

func checkFunc(f bool, combinator string) {
	if !f {
		grammarPanic(NilFunctionError, "%s: nil function", combinator)
	}
}

func must(e error) {
	if e != nil {
		panic(e)
	}
}
