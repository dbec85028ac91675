// Package charclass defines immutable character classes: predicates over runes
// that can be combined with Union and Not.
//
// A class is one of a closed set of variants: single char, range, sorted range set,
// character set, Unicode category set, union, complement, or custom predicate.
// Union picks the cheapest representation for the result depending on the variants
// of its operands and falls back to a union node.
//
// Classes are safe for concurrent use. Containment checks of composite variants
// are memoized per class instance.
package charclass

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ava12/combi"
	"github.com/ava12/combi/internal/ints"
)

// Error codes used by charclass:
const (
	// UnknownCategoryError indicates a category name absent from unicode.Categories.
	UnknownCategoryError = combi.ClassErrors + iota
)

// memoSize limits the number of memoized answers per class.
const memoSize = 512

// Kind identifies class variant.
type Kind int

const (
	CharKind Kind = iota
	RangeKind
	RangeSetKind
	SetKind
	CategoryKind
	UnionKind
	ComplementKind
	FuncKind
)

// Range is an inclusive rune range, Lo <= Hi.
type Range struct {
	Lo, Hi rune
}

// Contains reports whether r is in range.
func (r Range) Contains(c rune) bool {
	return c >= r.Lo && c <= r.Hi
}

func (r Range) normalized() Range {
	if r.Lo > r.Hi {
		return Range{r.Hi, r.Lo}
	}
	return r
}

func (r Range) String() string {
	if r.Lo == r.Hi {
		return strconv.QuoteRune(r.Lo)
	}
	return strconv.QuoteRune(r.Lo) + ".." + strconv.QuoteRune(r.Hi)
}

// Class is a character class. Classes must be created by package functions.
type Class struct {
	kind        Kind
	ranges      []Range
	set         *ints.Set
	tables      []*unicode.RangeTable
	categories  []string
	left, right *Class
	pred        func(rune) bool
	name        string

	memoOnce sync.Once
	memo     *lru.Cache[rune, bool]
}

// Kind returns class variant.
func (c *Class) Kind() Kind {
	return c.kind
}

// Ranges returns sorted disjoint ranges of char, range, and range set classes, nil for other variants.
func (c *Class) Ranges() []Range {
	switch c.kind {
	case CharKind, RangeKind, RangeSetKind:
		return append([]Range(nil), c.ranges...)
	default:
		return nil
	}
}

// Char creates single char class.
func Char(r rune) *Class {
	return &Class{kind: CharKind, ranges: []Range{{r, r}}}
}

// Between creates class containing runes from a to b inclusive, a and b may go in any order.
func Between(a, b rune) *Class {
	return &Class{kind: RangeKind, ranges: []Range{Range{a, b}.normalized()}}
}

// Ranges creates range set class, overlapping and adjacent ranges are merged.
func Ranges(rs ...Range) *Class {
	return &Class{kind: RangeSetKind, ranges: TryMerge(rs)}
}

// Coalesce creates range set class containing given runes:
// runes are sorted and deduplicated, runs of consecutive runes become ranges.
func Coalesce(runes ...rune) *Class {
	return &Class{kind: RangeSetKind, ranges: coalesce(runes)}
}

// Set creates character set class containing given runes.
func Set(runes ...rune) *Class {
	return &Class{kind: SetKind, set: ints.FromRunes(runes...)}
}

// SetOf creates character set class containing runes of s.
func SetOf(s string) *Class {
	return Set([]rune(s)...)
}

// Category creates class of runes belonging to any of named Unicode categories
// (keys of unicode.Categories, e.g. "L", "Lu", "Nd").
func Category(names ...string) (*Class, error) {
	tables := make([]*unicode.RangeTable, len(names))
	for i, name := range names {
		table, f := unicode.Categories[name]
		if !f {
			return nil, combi.FormatError(UnknownCategoryError, "unknown Unicode category %q", name)
		}
		tables[i] = table
	}
	return &Class{kind: CategoryKind, tables: tables, categories: append([]string(nil), names...)}, nil
}

// MustCategory is like Category but panics on unknown category name.
func MustCategory(names ...string) *Class {
	c, e := Category(names...)
	if e != nil {
		panic(e)
	}
	return c
}

// Func creates class using custom predicate, desc is used as class description.
func Func(desc string, pred func(rune) bool) *Class {
	return &Class{kind: FuncKind, pred: pred, name: desc}
}

// Not creates complement class.
func Not(c *Class) *Class {
	return &Class{kind: ComplementKind, left: c}
}

// Not is a shortcut for package function Not.
func (c *Class) Not() *Class {
	return Not(c)
}

// Named returns a copy of class having desc as its description.
func Named(c *Class, desc string) *Class {
	return &Class{
		kind:       c.kind,
		ranges:     c.ranges,
		set:        c.set,
		tables:     c.tables,
		categories: c.categories,
		left:       c.left,
		right:      c.right,
		pred:       c.pred,
		name:       desc,
	}
}

// Contains reports whether r belongs to class. Always false for negative runes (e.g. source.EOF).
func (c *Class) Contains(r rune) bool {
	if r < 0 {
		return false
	}

	if !c.memoized() {
		return c.test(r)
	}

	c.memoOnce.Do(func() {
		c.memo, _ = lru.New[rune, bool](memoSize)
	})
	if result, f := c.memo.Get(r); f {
		return result
	}

	result := c.test(r)
	c.memo.Add(r, result)
	return result
}

func (c *Class) memoized() bool {
	switch c.kind {
	case CharKind, RangeKind, SetKind:
		return false
	default:
		return true
	}
}

func (c *Class) test(r rune) bool {
	switch c.kind {
	case CharKind, RangeKind:
		return c.ranges[0].Contains(r)
	case RangeSetKind:
		i := sort.Search(len(c.ranges), func(i int) bool {
			return c.ranges[i].Hi >= r
		})
		return i < len(c.ranges) && c.ranges[i].Lo <= r
	case SetKind:
		return c.set.Contains(int(r))
	case CategoryKind:
		return unicode.IsOneOf(c.tables, r)
	case UnionKind:
		return c.left.Contains(r) || c.right.Contains(r)
	case ComplementKind:
		return !c.left.Contains(r)
	case FuncKind:
		return c.pred(r)
	default:
		return false
	}
}

// String returns class description.
func (c *Class) String() string {
	if c.name != "" {
		return c.name
	}

	switch c.kind {
	case CharKind, RangeKind:
		return c.ranges[0].String()
	case RangeSetKind:
		parts := make([]string, len(c.ranges))
		for i, r := range c.ranges {
			parts[i] = r.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case SetKind:
		return "one of " + strconv.Quote(string(c.set.Runes()))
	case CategoryKind:
		return "\\p{" + strings.Join(c.categories, "|") + "}"
	case UnionKind:
		return c.left.String() + " or " + c.right.String()
	case ComplementKind:
		return "not " + c.left.String()
	default:
		return "custom class"
	}
}

// TryMerge sorts ranges and merges overlapping and adjacent ones.
// The result contains disjoint ranges separated by at least one rune. Source slice is not modified.
func TryMerge(rs []Range) []Range {
	if len(rs) == 0 {
		return nil
	}

	sorted := make([]Range, len(rs))
	for i, r := range rs {
		sorted[i] = r.normalized()
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Lo < sorted[j].Lo
	})

	result := sorted[:1]
	for _, r := range sorted[1:] {
		top := &result[len(result)-1]
		if r.Lo <= top.Hi+1 {
			top.Hi = max(top.Hi, r.Hi)
		} else {
			result = append(result, r)
		}
	}
	return result
}

func coalesce(runes []rune) []Range {
	if len(runes) == 0 {
		return nil
	}

	sorted := append([]rune(nil), runes...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	result := []Range{{sorted[0], sorted[0]}}
	for _, r := range sorted[1:] {
		top := &result[len(result)-1]
		switch {
		case r <= top.Hi:
		case r == top.Hi+1:
			top.Hi = r
		default:
			result = append(result, Range{r, r})
		}
	}
	return result
}
