package parser

import (
	"fmt"
	"reflect"
)

// Unbounded means no upper repetition limit.
const Unbounded = -1

type aggregateParser[T, S, A any] struct {
	item     Parser[T]
	sep      Parser[S]
	min, max int
	seed     func() A
	combine  func(A, T) A
}

// Aggregate matches item from min to max times (max may be Unbounded) with optional separator sep
// between items (sep may be nil) and folds matched values into accumulator.
//
// Accumulator is created with seed and updated with combine for each matched item.
// If seed is nil then A must be the same type as T and the first matched item becomes
// the initial accumulator value.
//
// Every iteration attempt (separator and item) runs in its own branch scope.
// Once min items are matched, a softly failed attempt is rewound and ends the repetition.
// Fatal failures are always propagated. An iteration consuming no input ends the repetition
// if min items are matched.
//
// Panics with BoundsError on wrong bounds and with SeedTypeError if seed is nil and types differ.
func Aggregate[T, S, A any](item Parser[T], sep Parser[S], min, max int, seed func() A, combine func(A, T) A) Parser[A] {
	checkParser(item, "Aggregate")
	checkFunc(combine != nil, "Aggregate")
	if min < 0 || max == 0 || (max != Unbounded && max < min) {
		grammarPanic(BoundsError, "Aggregate: wrong bounds {%d,%d}", min, max)
	}
	if seed == nil && reflect.TypeFor[T]() != reflect.TypeFor[A]() {
		grammarPanic(SeedTypeError, "Aggregate: no seed for accumulator of type %s, item type is %s",
			reflect.TypeFor[A](), reflect.TypeFor[T]())
	}

	return aggregateParser[T, S, A]{item, sep, min, max, seed, combine}
}

func (p aggregateParser[T, S, A]) Parse(c *Context) Result[A] {
	var acc A
	if p.seed != nil {
		acc = p.seed()
	}

	count := 0
	for p.max == Unbounded || count < p.max {
		before := c.Pos()
		c.r.Mark()
		saved := c.enterBranch()
		res := p.attempt(c, count)
		c.leaveBranch(saved)

		if !res.Ok() {
			f := res.Failure
			if f.Fatal {
				c.r.Unmark()
				c.trace("Aggregate", "fatal failure", f)
				return Fail[A](f)
			}

			if count >= p.min {
				c.r.Reset(true)
				c.trace("Aggregate", "repetition stopped", f)
				break
			}

			c.r.Unmark()
			return Fail[A](c.promote(f))
		}

		c.r.Unmark()
		if count == 0 && p.seed == nil {
			acc, _ = any(res.Value).(A)
		} else {
			acc = p.combine(acc, res.Value)
		}
		count++

		if count >= p.min && res.Pos.Index == before.Index {
			break
		}
	}

	return Success(acc, c.Pos())
}

func (p aggregateParser[T, S, A]) attempt(c *Context, count int) Result[T] {
	if count > 0 && p.sep != nil {
		rs := p.sep.Parse(c)
		if !rs.Ok() {
			return Fail[T](rs.Failure)
		}
	}
	return p.item.Parse(c)
}

func (p aggregateParser[T, S, A]) String() string {
	switch {
	case p.min == 0 && p.max == Unbounded:
		return p.item.String() + "*"
	case p.min == 1 && p.max == Unbounded:
		return p.item.String() + "+"
	case p.min == 0 && p.max == 1:
		return p.item.String() + "?"
	case p.max == Unbounded:
		return fmt.Sprintf("%s{%d,}", p.item, p.min)
	default:
		return fmt.Sprintf("%s{%d,%d}", p.item, p.min, p.max)
	}
}

func appendItem[T any](items []T, item T) []T {
	return append(items, item)
}

func newSlice[T any]() []T {
	return make([]T, 0)
}

// Repeat matches p from min to max times and returns matched values.
func Repeat[T any](p Parser[T], min, max int) Parser[[]T] {
	return Aggregate[T, struct{}](p, nil, min, max, newSlice[T], appendItem[T])
}

// SepBy matches p from min to max times separated with sep and returns values of p.
func SepBy[T, S any](p Parser[T], sep Parser[S], min, max int) Parser[[]T] {
	checkParser(sep, "SepBy")
	return Aggregate(p, sep, min, max, newSlice[T], appendItem[T])
}

// Many matches p zero or more times.
func Many[T any](p Parser[T]) Parser[[]T] {
	return Repeat(p, 0, Unbounded)
}

// Many1 matches p one or more times.
func Many1[T any](p Parser[T]) Parser[[]T] {
	return Repeat(p, 1, Unbounded)
}

// Optional matches p zero or one time, the result contains at most one value.
func Optional[T any](p Parser[T]) Parser[[]T] {
	return Repeat(p, 0, 1)
}

// OptionalOr matches p zero or one time, returns def if p does not match.
func OptionalOr[T any](p Parser[T], def T) Parser[T] {
	return Aggregate[T, struct{}](p, nil, 0, 1, func() T {
		return def
	}, func(_ T, v T) T {
		return v
	})
}

// Count matches p exactly n times.
func Count[T any](p Parser[T], n int) Parser[[]T] {
	return Repeat(p, n, n)
}

// Fold matches p from min to max times combining values left to right,
// the first value is the initial accumulator.
func Fold[T any](p Parser[T], min, max int, combine func(T, T) T) Parser[T] {
	return Aggregate[T, struct{}, T](p, nil, min, max, nil, combine)
}
