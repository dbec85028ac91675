package parser

import (
	"testing"

	"github.com/ava12/combi/charclass"
	. "github.com/ava12/combi/internal/test"
	"github.com/ava12/combi/reader"
	"github.com/ava12/combi/source"
)

func newReader(text string) *reader.Reader {
	return reader.New(source.FromString("sample", text))
}

func run[T any](p Parser[T], text string, opts ...Option) (Result[T], *reader.Reader) {
	r := newReader(text)
	return Run(p, r, opts...), r
}

func expectOk[T any](t *testing.T, res Result[T]) T {
	t.Helper()
	Assert(t, res.Ok(), "unexpected failure: %v", res.Failure)
	return res.Value
}

func expectFailure[T any](t *testing.T, res Result[T], index int, fatal bool) *Failure {
	t.Helper()
	Assert(t, !res.Ok(), "expecting failure, got %v", res.Value)
	ExpectInt(t, index, res.Failure.Pos.Index)
	ExpectBool(t, fatal, res.Failure.Fatal)
	return res.Failure
}

func TestChar(t *testing.T) {
	res, r := run(Char('a'), "ab")
	Expect(t, expectOk(t, res) == 'a', 'a', res.Value)
	ExpectInt(t, 1, r.Pos().Index)

	res, r = run(Char('a'), "b")
	f := expectFailure(t, res, 0, false)
	ExpectString(t, "'b'", f.Found)
	ExpectEqual(t, []string{"'a'"}, f.Expected)
	ExpectInt(t, 0, r.Pos().Index)

	res, _ = run(Char('a'), "")
	f = expectFailure(t, res, 0, false)
	ExpectString(t, "unexpected end of input, expecting 'a' at line 1 col 1", f.Error())
}

func TestClass(t *testing.T) {
	res, _ := run(Class(charclass.Digit), "7")
	Expect(t, expectOk(t, res) == '7', '7', res.Value)

	res, _ = run(Class(charclass.Digit), "x")
	f := expectFailure(t, res, 0, false)
	ExpectEqual(t, []string{"digit"}, f.Expected)

	ExpectPanicCode(t, NilParserError, func() { Class(nil) })
}

func TestLiteralIsAtomic(t *testing.T) {
	res, r := run(Literal("abc"), "abcd")
	ExpectString(t, "abc", expectOk(t, res))
	ExpectInt(t, 3, r.Pos().Index)

	res, r = run(Literal("abc"), "abx")
	f := expectFailure(t, res, 0, false)
	ExpectEqual(t, []string{`"abc"`}, f.Expected)
	ExpectInt(t, 0, r.Pos().Index)
	ExpectInt(t, 0, r.Marks())
	ExpectString(t, "", f.Hint)

	ExpectPanicCode(t, EmptyLiteralError, func() { Literal("") })
}

func TestKeywordCut(t *testing.T) {
	res, r := run(Keyword("func", 1), "fx")
	f := expectFailure(t, res, 1, true)
	ExpectEqual(t, []string{`"func"`}, f.Expected)
	ExpectInt(t, 0, r.Marks())

	res, _ = run(Keyword("func", 1), "x")
	expectFailure(t, res, 0, false)

	res, _ = run(Keyword("func", NoCut), "fx")
	expectFailure(t, res, 0, false)

	res2, _ := run(Seq(Keyword("let", 3), Char('=')), "let x")
	f = expectFailure(t, res2, 3, true)
	ExpectEqual(t, []string{"'='"}, f.Expected)

	ExpectPanicCode(t, BoundsError, func() { Keyword("ab", 3) })
	ExpectPanicCode(t, BoundsError, func() { Keyword("ab", -2) })
	ExpectPanicCode(t, BoundsError, func() { Keyword("ab", 0) })
}

func TestKeywordCutKeepsAlternatives(t *testing.T) {
	p := Alt(Keyword("true", 1), Keyword("false", 1))
	res, r := run(p, "false")
	ExpectString(t, "false", expectOk(t, res))
	ExpectInt(t, 5, r.Pos().Index)

	res, _ = run(p, "fals")
	f := expectFailure(t, res, 4, true)
	ExpectEqual(t, []string{`"false"`}, f.Expected)

	res, _ = run(p, "x")
	f = expectFailure(t, res, 0, false)
	ExpectEqual(t, []string{`"true"`, `"false"`}, f.Expected)
}

func TestKeywordHint(t *testing.T) {
	res, _ := run(Keyword("true", NoCut), "trux")
	f := expectFailure(t, res, 0, false)
	ExpectString(t, `did you mean "true"?`, f.Hint)
	ExpectString(t, `unexpected 't', expecting "true" (did you mean "true"?) at line 1 col 1`, f.Error())

	res, _ = run(Keyword("true", NoCut), "banana")
	f = expectFailure(t, res, 0, false)
	ExpectString(t, "", f.Hint)
}

func TestOneOf(t *testing.T) {
	p := OneOf("<", "<=", "<<")
	res, r := run(p, "<=x")
	ExpectString(t, "<=", expectOk(t, res))
	ExpectInt(t, 2, r.Pos().Index)

	res, _ = run(p, "<x")
	ExpectString(t, "<", expectOk(t, res))

	res, r = run(p, "!")
	f := expectFailure(t, res, 0, false)
	ExpectString(t, `unexpected '!', expecting "<", "<=", or "<<" at line 1 col 1`, f.Error())
	ExpectInt(t, 0, r.Marks())

	res, r = run(OneOf("true", "false", "null"), "nul ")
	f = expectFailure(t, res, 0, false)
	ExpectString(t, `did you mean "null"?`, f.Hint)
	ExpectInt(t, 0, r.Pos().Index)

	res, _ = run(OneOf("+", "-", "=="), "* 2")
	f = expectFailure(t, res, 0, false)
	ExpectString(t, "", f.Hint)

	res, _ = run(OneOf("+", "-", "=="), "=!")
	f = expectFailure(t, res, 0, false)
	ExpectString(t, `did you mean "=="?`, f.Hint)

	ExpectPanicCode(t, EmptyLiteralError, func() { OneOf() })
	ExpectPanicCode(t, EmptyLiteralError, func() { OneOf("a", "") })
}

func TestWhile(t *testing.T) {
	res, r := run(While(charclass.Digit, 1), "123a")
	ExpectString(t, "123", expectOk(t, res))
	ExpectInt(t, 3, r.Pos().Index)
	ExpectInt(t, 0, r.Marks())

	res, r = run(While(charclass.Digit, 2), "1a")
	f := expectFailure(t, res, 1, false)
	ExpectEqual(t, []string{"digit"}, f.Expected)
	ExpectInt(t, 0, r.Pos().Index)

	res, _ = run(While(charclass.Digit, 0), "a")
	ExpectString(t, "", expectOk(t, res))

	ExpectPanicCode(t, BoundsError, func() { While(charclass.Digit, -1) })
}

func TestCapture(t *testing.T) {
	p := Capture(Seq(Char('a'), Char('b')))
	res, _ := run(p, "abc")
	ExpectString(t, "ab", expectOk(t, res))

	res, _ = run(p, "  a b", WithAutoSkip(true))
	ExpectString(t, "a b", expectOk(t, res))

	res, r := run(p, "ac")
	expectFailure(t, res, 1, false)
	ExpectInt(t, 0, r.Pos().Index)
}

func TestReturnAndEOF(t *testing.T) {
	res, r := run(Return(42), "abc")
	ExpectInt(t, 42, expectOk(t, res))
	ExpectInt(t, 0, r.Pos().Index)

	_, r = run(EOF(), "")
	Assert(t, r.Eof(), "expecting end of input")

	res2, _ := run(EOF(), "x")
	f := expectFailure(t, res2, 0, false)
	ExpectEqual(t, []string{"end of input"}, f.Expected)

	res2, _ = run(EOF(), "  ", WithAutoSkip(true))
	expectOk(t, res2)
}

func TestSkip(t *testing.T) {
	p := Seq(Char('a'), Char('b'))
	res, r := run(p, "  a \n b", WithAutoSkip(true))
	expectOk(t, res)
	ExpectInt(t, 7, r.Pos().Index)

	res, _ = run(p, " ab")
	expectFailure(t, res, 0, false)

	res, _ = run(p, "..a.b", WithAutoSkip(true), WithSkip(charclass.Char('.')))
	expectOk(t, res)

	res3, r := run(Skipped(), " \t x")
	ExpectString(t, " \t ", expectOk(t, res3))
	ExpectInt(t, 3, r.Pos().Index)
}

func TestNoSkip(t *testing.T) {
	p := NoSkip(Seq(Char('a'), Char('b')))
	res, _ := run(p, " a b", WithAutoSkip(true))
	expectFailure(t, res, 2, false)

	res2, _ := run(Seq(p, Char('c')), " ab c", WithAutoSkip(true))
	expectOk(t, res2)
}
