package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/ava12/combi"
	"github.com/ava12/combi/charclass"
	. "github.com/ava12/combi/internal/test"
	"github.com/ava12/combi/source"
)

func numberParser() Parser[string] {
	digits := Many1(Class(charclass.Digit))
	return Capture(Seq(digits, Optional(Seq(Char('.'), digits))))
}

func TestNumberGrammar(t *testing.T) {
	g := NewGrammar(numberParser())
	o := g.ParseString("sample", "123.45")
	Assert(t, o.Ok(), "unexpected error: %v", o.Err())
	ExpectString(t, "123.45", o.Value)
	ExpectInt(t, 6, o.End.Index)
	Assert(t, o.Err() == nil, "unexpected error: %v", o.Err())

	o = g.ParseString("sample", "12a")
	Assert(t, o.Ok(), "unexpected error: %v", o.Err())
	ExpectString(t, "12", o.Value)
	ExpectInt(t, 2, o.End.Index)

	o = g.ParseString("sample", "12.a")
	Assert(t, o.Ok(), "unexpected error: %v", o.Err())
	ExpectString(t, "12", o.Value)
}

func TestNumberGrammarWithEOF(t *testing.T) {
	g := NewGrammar(Left(numberParser(), EOF()))
	o := g.ParseString("sample", "123.45")
	Assert(t, o.Ok(), "unexpected error: %v", o.Err())
	ExpectString(t, "123.45", o.Value)

	o = g.ParseString("sample", "12a")
	Assert(t, !o.Ok(), "expecting failure")
	ExpectBool(t, false, o.Failure.Fatal)
	e := o.Err()
	ExpectErrorCode(t, SyntaxError, e)
	ExpectString(t, "unexpected 'a', expecting digit, '.', or end of input in sample at line 1 col 3", e.Error())

	var ce *combi.Error
	Assert(t, errors.As(e, &ce), "expecting *combi.Error")
	ExpectEqual(t, combi.Error{Code: SyntaxError, Message: e.Error(), SourceName: "sample", Line: 1, Col: 3}, *ce)
}

func TestFatalOutcome(t *testing.T) {
	g := NewGrammar(Seq(Cut(Char('a')), Char('b')))
	o := g.ParseString("src", "ac")
	ExpectErrorCode(t, FatalSyntaxError, o.Err())
	ExpectString(t, "unexpected 'c', expecting 'b' in src at line 1 col 2", o.Err().Error())
}

func TestOutcomeUsesFurthestFailure(t *testing.T) {
	g := NewGrammar(Alt(Right(Literal("ab"), Char('c')), Char('x')))
	o := g.ParseString("src", "q")
	ExpectErrorCode(t, SyntaxError, o.Err())
	ExpectInt(t, 0, o.Failure.Pos.Index)
	ExpectString(t, "unexpected 'q', expecting \"ab\" or 'x' in src at line 1 col 1", o.Err().Error())

	o = g.ParseString("src", "abd")
	ExpectInt(t, 2, o.Failure.Pos.Index)
	ExpectString(t, "unexpected 'd', expecting 'c' in src at line 1 col 3", o.Err().Error())

	g2 := NewGrammar(Seq(Optional(Right(Char('a'), Char('b'))), Char('x')))
	o2 := g2.ParseString("src", "ac")
	ExpectInt(t, 0, o2.Failure.Pos.Index)
	ExpectString(t, "unexpected 'c', expecting 'b' in src at line 1 col 2", o2.Err().Error())
}

func TestGrammarConfig(t *testing.T) {
	p := Seq(Char('a'), Char('b'))
	o := NewGrammar(p, WithConfig(Config{AutoSkip: true, Skip: " ."})).ParseString("s", ". a . b")
	Assert(t, o.Ok(), "unexpected error: %v", o.Err())

	o = NewGrammar(p, WithAutoSkip(true)).ParseString("s", " a\tb")
	Assert(t, o.Ok(), "unexpected error: %v", o.Err())

	o = NewGrammar(p).ParseString("s", " a b")
	Assert(t, !o.Ok(), "expecting failure")
}

func TestParseBytesAndReader(t *testing.T) {
	g := NewGrammar(numberParser())
	o := g.ParseBytes("bytes", []byte("42"))
	ExpectString(t, "42", o.Value)
	ExpectString(t, "bytes", o.SourceName)

	o, e := g.ParseReader("stream", strings.NewReader("3.14 "))
	Assert(t, e == nil, "unexpected error: %v", e)
	ExpectString(t, "3.14", o.Value)

	boom := errors.New("boom")
	_, e = g.ParseReader("broken", iotest.ErrReader(boom))
	ExpectErrorCode(t, source.ReadError, e)
}

func TestParseFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "number.txt")
	Assert(t, os.WriteFile(name, []byte("17.5\n"), 0o644) == nil, "cannot write %s", name)

	g := NewGrammar(numberParser())
	o, e := g.ParseFile(name)
	Assert(t, e == nil, "unexpected error: %v", e)
	ExpectString(t, "17.5", o.Value)
	ExpectString(t, name, o.SourceName)

	_, e = g.ParseFile(filepath.Join(t.TempDir(), "missing.txt"))
	ExpectErrorCode(t, source.OpenError, e)
}

func TestParseFileClosesOnPanic(t *testing.T) {
	name := filepath.Join(t.TempDir(), "input.txt")
	Assert(t, os.WriteFile(name, []byte("x"), 0o644) == nil, "cannot write %s", name)

	g := NewGrammar(Lazy(func() Parser[int] { return nil }))
	ExpectPanicCode(t, LazyResolveError, func() { g.ParseFile(name) })
	Assert(t, os.Remove(name) == nil, "cannot remove %s", name)
}

func TestConcurrentParsing(t *testing.T) {
	var list Parser[[]string]
	item := Alt(While(charclass.Word, 1), Map(Lazy(func() Parser[[]string] { return list }), func(items []string) string {
		return "(" + strings.Join(items, " ") + ")"
	}))
	list = Enclosed(Char('('), SepBy(item, Char(','), 0, Unbounded), Char(')'))
	g := NewGrammar(Left(list, EOF()), WithAutoSkip(true))

	const workers = 8
	results := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			o := g.ParseString("list", "(a, (b, c), ((d)), e_1)")
			if o.Ok() {
				results[i] = strings.Join(o.Value, " ")
			} else {
				results[i] = o.Err().Error()
			}
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		ExpectString(t, "a (b c) ((d)) e_1", r)
	}
}

func TestTracing(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.TraceLevel)

	g := NewGrammar(Alt(Right(Cut(Char('a')), Char('b')), Char('c')), WithLogger(logger))
	o := g.ParseString("s", "c")
	Assert(t, o.Ok(), "unexpected error: %v", o.Err())

	messages := map[string]bool{}
	for _, entry := range hook.AllEntries() {
		if combinator, f := entry.Data["combinator"].(string); f {
			messages[combinator+": "+entry.Message] = true
		}
	}
	Assert(t, messages["Alt: backtracking"], "expecting backtracking entry, got %v", messages)

	hook.Reset()
	o = g.ParseString("s", "ax")
	Assert(t, !o.Ok(), "expecting failure")
	found := false
	for _, entry := range hook.AllEntries() {
		found = found || entry.Message == "cut"
	}
	Assert(t, found, "expecting cut entry")
	ExpectString(t, "parse finished", hook.LastEntry().Message)
}

func TestGrammarWith(t *testing.T) {
	g := NewGrammar(Seq(Char('a'), Char('b')))
	skipping := g.With(WithAutoSkip(true))
	Assert(t, !g.ParseString("s", "a b").Ok(), "expecting failure")
	Assert(t, skipping.ParseString("s", "a b").Ok(), "expecting success")
	Assert(t, g.Root() == skipping.Root(), "expecting the same root")
}
