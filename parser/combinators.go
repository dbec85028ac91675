package parser

import (
	"sync"
)

type seqParser[A, B any] struct {
	a Parser[A]
	b Parser[B]
}

// Seq matches a followed by b.
func Seq[A, B any](a Parser[A], b Parser[B]) Parser[Pair[A, B]] {
	checkParser(a, "Seq")
	checkParser(b, "Seq")
	return seqParser[A, B]{a, b}
}

func (p seqParser[A, B]) Parse(c *Context) Result[Pair[A, B]] {
	ra := p.a.Parse(c)
	if !ra.Ok() {
		return Fail[Pair[A, B]](c.promote(ra.Failure))
	}

	rb := p.b.Parse(c)
	if !rb.Ok() {
		return Fail[Pair[A, B]](c.promote(rb.Failure))
	}

	return Success(Pair[A, B]{ra.Value, rb.Value}, rb.Pos)
}

func (p seqParser[A, B]) String() string {
	return p.a.String()
}

// Seq3 matches a, b, and c in order.
func Seq3[A, B, C any](a Parser[A], b Parser[B], c Parser[C]) Parser[Triple[A, B, C]] {
	checkParser(c, "Seq3")
	return Map(Seq(Seq(a, b), c), func(v Pair[Pair[A, B], C]) Triple[A, B, C] {
		return Triple[A, B, C]{v.First.First, v.First.Second, v.Second}
	})
}

// Left matches a followed by b and returns value of a.
func Left[A, B any](a Parser[A], b Parser[B]) Parser[A] {
	return Map(Seq(a, b), func(v Pair[A, B]) A {
		return v.First
	})
}

// Right matches a followed by b and returns value of b.
func Right[A, B any](a Parser[A], b Parser[B]) Parser[B] {
	return Map(Seq(a, b), func(v Pair[A, B]) B {
		return v.Second
	})
}

// Enclosed matches open, p, and close, returns value of p.
func Enclosed[O, T, C any](open Parser[O], p Parser[T], close Parser[C]) Parser[T] {
	return Left(Right(open, p), close)
}

type altParser[T any] struct {
	branches []Parser[T]
}

// Alt tries branches in order and returns the result of the first successful one.
// The reader is rewound after every softly failed branch.
// A fatal failure stops the alternation immediately.
// If all branches fail softly the failure reported at the furthest position wins,
// expectations of failures at the same position are merged.
func Alt[T any](a, b Parser[T], more ...Parser[T]) Parser[T] {
	branches := append([]Parser[T]{a, b}, more...)
	for _, branch := range branches {
		checkParser(branch, "Alt")
	}
	return altParser[T]{branches}
}

func (p altParser[T]) Parse(c *Context) Result[T] {
	var failure *Failure
	for _, branch := range p.branches {
		c.r.Mark()
		saved := c.enterBranch()
		res := branch.Parse(c)
		c.leaveBranch(saved)

		if res.Ok() {
			c.r.Unmark()
			return res
		}

		if res.Failure.Fatal {
			c.r.Unmark()
			c.trace("Alt", "fatal failure, skipping other branches", res.Failure)
			return res
		}

		c.r.Reset(true)
		c.trace("Alt", "backtracking", res.Failure)
		failure = merge(failure, res.Failure)
	}

	return Fail[T](c.promote(failure))
}

func (p altParser[T]) String() string {
	parts := make([]string, len(p.branches))
	for i, branch := range p.branches {
		parts[i] = branch.String()
	}
	return joinExpected(parts)
}

type cutParser[T any] struct {
	p Parser[T]
}

// Cut commits the enclosing branch after p succeeds:
// every subsequent failure in the branch becomes fatal.
func Cut[T any](p Parser[T]) Parser[T] {
	checkParser(p, "Cut")
	return cutParser[T]{p}
}

func (p cutParser[T]) Parse(c *Context) Result[T] {
	res := p.p.Parse(c)
	if res.Ok() && !c.committed {
		c.committed = true
		c.trace("Cut", "cut", nil)
	}
	return res
}

func (p cutParser[T]) String() string {
	return p.p.String()
}

type mapParser[T, U any] struct {
	p        Parser[T]
	f        func(T) (U, error)
	fallible bool
}

// Map converts value of p using f.
func Map[T, U any](p Parser[T], f func(T) U) Parser[U] {
	checkParser(p, "Map")
	checkFunc(f != nil, "Map")
	return mapParser[T, U]{p: p, f: func(v T) (U, error) {
		return f(v), nil
	}}
}

// MapErr converts value of p using f. An error returned by f turns into a failure
// reported at the starting position of p; the reader is rewound.
func MapErr[T, U any](p Parser[T], f func(T) (U, error)) Parser[U] {
	checkParser(p, "MapErr")
	checkFunc(f != nil, "MapErr")
	return mapParser[T, U]{p: p, f: f, fallible: true}
}

func (p mapParser[T, U]) Parse(c *Context) Result[U] {
	if !p.fallible {
		res := p.p.Parse(c)
		if !res.Ok() {
			return Fail[U](res.Failure)
		}
		v, _ := p.f(res.Value)
		return Success(v, res.Pos)
	}

	c.SkipInsignificant()
	start := c.Pos()
	c.r.Mark()
	res := p.p.Parse(c)
	if !res.Ok() {
		c.r.Unmark()
		return Fail[U](res.Failure)
	}

	v, e := p.f(res.Value)
	if e != nil {
		c.r.Reset(true)
		return Fail[U](c.Reject(start, e.Error()))
	}

	c.r.Unmark()
	return Success(v, res.Pos)
}

func (p mapParser[T, U]) String() string {
	return p.p.String()
}

type lazyParser[T any] struct {
	once    sync.Once
	factory func() Parser[T]
	p       Parser[T]
}

// Lazy creates parser resolved on first use with factory,
// allows grammar rules to refer to rules defined later.
// Panics with LazyResolveError if factory returns nil.
func Lazy[T any](factory func() Parser[T]) Parser[T] {
	checkFunc(factory != nil, "Lazy")
	return &lazyParser[T]{factory: factory}
}

func (p *lazyParser[T]) resolve() Parser[T] {
	p.once.Do(func() {
		p.p = p.factory()
	})
	if p.p == nil {
		grammarPanic(LazyResolveError, "Lazy: factory returned nil parser")
	}
	return p.p
}

func (p *lazyParser[T]) Parse(c *Context) Result[T] {
	return p.resolve().Parse(c)
}

// String does not resolve the parser, recursive rules would never terminate.
func (p *lazyParser[T]) String() string {
	return "lazy rule"
}

type labelParser[T any] struct {
	p    Parser[T]
	name string
}

// Label replaces expectations of p with name if p fails at its starting position.
// Expectations recorded by p at that position are replaced too.
func Label[T any](p Parser[T], name string) Parser[T] {
	checkParser(p, "Label")
	return labelParser[T]{p, name}
}

func (p labelParser[T]) Parse(c *Context) Result[T] {
	c.SkipInsignificant()
	start := c.Pos()
	before := c.furthest
	res := p.p.Parse(c)
	if res.Ok() || res.Failure.Pos.Index != start.Index || res.Failure.Message != "" {
		return res
	}

	f := *res.Failure
	f.Expected = []string{p.name}
	f.Hint = ""
	if c.furthest != nil && c.furthest.Pos.Index == start.Index {
		c.furthest = merge(before, &f)
	}
	return Fail[T](&f)
}

func (p labelParser[T]) String() string {
	return p.name
}

type noSkipParser[T any] struct {
	p Parser[T]
}

// NoSkip disables auto-skip mode inside p. Insignificant runes preceding p are still skipped.
func NoSkip[T any](p Parser[T]) Parser[T] {
	checkParser(p, "NoSkip")
	return noSkipParser[T]{p}
}

func (p noSkipParser[T]) Parse(c *Context) Result[T] {
	c.SkipInsignificant()
	saved := c.autoSkip
	c.autoSkip = false
	defer func() {
		c.autoSkip = saved
	}()
	return p.p.Parse(c)
}

func (p noSkipParser[T]) String() string {
	return p.p.String()
}

type lookaheadParser[T any] struct {
	p      Parser[T]
	negate bool
}

// Lookahead matches p without consuming input, insignificant runes included.
func Lookahead[T any](p Parser[T]) Parser[T] {
	checkParser(p, "Lookahead")
	return lookaheadParser[T]{p: p}
}

// Not succeeds without consuming input if p fails softly.
// Failures of p are not reported as the furthest ones in that case.
func Not[T any](p Parser[T]) Parser[struct{}] {
	checkParser(p, "Not")
	return Map[T, struct{}](lookaheadParser[T]{p: p, negate: true}, func(T) struct{} {
		return struct{}{}
	})
}

func (p lookaheadParser[T]) Parse(c *Context) Result[T] {
	start := c.Pos()
	before := c.furthest
	c.r.Nest()
	c.r.Mark()
	saved := c.enterBranch()
	res := p.p.Parse(c)
	c.leaveBranch(saved)
	c.r.Reset(false)
	must(c.r.Unnest())

	if !p.negate {
		if !res.Ok() {
			return Fail[T](c.promote(res.Failure))
		}
		return Success(res.Value, start)
	}

	if res.Ok() {
		return Fail[T](c.Reject(start, "unexpected "+p.p.String()))
	}
	if res.Failure.Fatal {
		return res
	}
	c.furthest = before
	var zero T
	return Success(zero, start)
}

func (p lookaheadParser[T]) String() string {
	if p.negate {
		return "not " + p.p.String()
	}
	return p.p.String()
}
