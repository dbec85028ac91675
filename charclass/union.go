package charclass

import (
	"unicode"

	"github.com/ava12/combi/internal/ints"
)

// Union returns class containing runes of any of given classes. Nil classes are ignored.
func Union(classes ...*Class) *Class {
	var result *Class
	for _, c := range classes {
		result = result.Plus(c)
	}
	return result
}

// Plus returns class containing runes of both c and other.
// Char and set operands give a set, ranges and range sets give a range set,
// categories give a category set, other combinations and named classes give a union node.
func (c *Class) Plus(other *Class) *Class {
	switch {
	case c == nil:
		return other
	case other == nil:
		return c
	case c.name != "" || other.name != "":
		return newUnion(c, other)
	}

	switch c.kind {
	case CharKind:
		return c.plusChar(other)
	case RangeKind, RangeSetKind:
		return c.plusRanges(other)
	case SetKind:
		return c.plusSet(other)
	case CategoryKind:
		return c.plusCategory(other)
	default:
		return newUnion(c, other)
	}
}

func newUnion(left, right *Class) *Class {
	return &Class{kind: UnionKind, left: left, right: right}
}

func (c *Class) plusChar(other *Class) *Class {
	switch other.kind {
	case CharKind:
		return &Class{kind: SetKind, set: ints.FromRunes(c.ranges[0].Lo, other.ranges[0].Lo)}
	case SetKind:
		return &Class{kind: SetKind, set: other.set.Copy().Add(int(c.ranges[0].Lo))}
	case RangeKind, RangeSetKind:
		return mergedRanges(c.ranges, other.ranges)
	default:
		return newUnion(c, other)
	}
}

func (c *Class) plusRanges(other *Class) *Class {
	switch other.kind {
	case CharKind, RangeKind, RangeSetKind:
		return mergedRanges(c.ranges, other.ranges)
	case SetKind:
		return mergedRanges(c.ranges, coalesce(other.set.Runes()))
	default:
		return newUnion(c, other)
	}
}

func (c *Class) plusSet(other *Class) *Class {
	switch other.kind {
	case CharKind:
		return &Class{kind: SetKind, set: c.set.Copy().Add(int(other.ranges[0].Lo))}
	case SetKind:
		return &Class{kind: SetKind, set: ints.Union(c.set, other.set)}
	case RangeKind, RangeSetKind:
		return mergedRanges(coalesce(c.set.Runes()), other.ranges)
	default:
		return newUnion(c, other)
	}
}

func (c *Class) plusCategory(other *Class) *Class {
	if other.kind != CategoryKind {
		return newUnion(c, other)
	}

	tables := append(append([]*unicode.RangeTable(nil), c.tables...), other.tables...)
	names := append(append([]string(nil), c.categories...), other.categories...)
	return &Class{kind: CategoryKind, tables: tables, categories: names}
}

func mergedRanges(a, b []Range) *Class {
	rs := make([]Range, 0, len(a)+len(b))
	rs = append(rs, a...)
	rs = append(rs, b...)
	return Ranges(rs...)
}
