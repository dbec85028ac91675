package parser

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/ava12/combi/charclass"
	"github.com/ava12/combi/source"
)

// NoCut disables the cut of Keyword.
const NoCut = -1

type charParser struct {
	r rune
}

// Char matches a single rune.
func Char(r rune) Parser[rune] {
	return charParser{r}
}

func (p charParser) Parse(c *Context) Result[rune] {
	c.SkipInsignificant()
	pos := c.Pos()
	if c.r.Peek() != p.r {
		return Fail[rune](c.Fail(pos, p.String()))
	}

	c.r.Read()
	return Success(p.r, c.Pos())
}

func (p charParser) String() string {
	return strconv.QuoteRune(p.r)
}

type classParser struct {
	cc *charclass.Class
}

// Class matches a single rune belonging to cc.
func Class(cc *charclass.Class) Parser[rune] {
	if cc == nil {
		grammarPanic(NilParserError, "Class: nil character class")
	}
	return classParser{cc}
}

func (p classParser) Parse(c *Context) Result[rune] {
	c.SkipInsignificant()
	pos := c.Pos()
	r := c.r.Peek()
	if !p.cc.Contains(r) {
		return Fail[rune](c.Fail(pos, p.String()))
	}

	c.r.Read()
	return Success(r, c.Pos())
}

func (p classParser) String() string {
	return p.cc.String()
}

type literalParser struct {
	text    []rune
	cutAt   int
	desc    string
	suggest bool
}

// Literal matches exact text. The match is atomic: on failure the reader is rewound
// and the failure is reported at the starting position.
func Literal(s string) Parser[string] {
	return newLiteral("Literal", s, NoCut)
}

// Keyword matches exact text committing the current branch after first cutAt runes matched,
// cutAt ranges from 1 to the length of s.
// A mismatch after the cut is a fatal failure reported at the mismatch position.
// Use NoCut to get plain Literal behaviour.
func Keyword(s string, cutAt int) Parser[string] {
	p := newLiteral("Keyword", s, cutAt)
	p.suggest = true
	return p
}

func newLiteral(combinator, s string, cutAt int) literalParser {
	text := []rune(s)
	if len(text) == 0 {
		grammarPanic(EmptyLiteralError, "%s: empty literal", combinator)
	}
	if cutAt != NoCut && (cutAt < 1 || cutAt > len(text)) {
		grammarPanic(BoundsError, "%s: cut offset %d is out of range for %q", combinator, cutAt, s)
	}
	return literalParser{text: text, cutAt: cutAt, desc: strconv.Quote(s)}
}

func (p literalParser) Parse(c *Context) Result[string] {
	c.SkipInsignificant()
	start := c.Pos()
	c.r.Mark()
	for i, r := range p.text {
		if i == p.cutAt && !c.committed {
			c.committed = true
			c.trace("Keyword", "cut", nil)
		}
		if c.r.Peek() != r {
			if p.cutAt != NoCut && i >= p.cutAt {
				f := c.Fail(c.Pos(), p.desc)
				c.r.Reset(true)
				return Fail[string](f)
			}

			c.r.Reset(true)
			f := c.Fail(start, p.desc)
			if p.suggest {
				f.Hint = suggest(c, []string{string(p.text)}, len(p.text))
			}
			return Fail[string](f)
		}
		c.r.Read()
	}

	if p.cutAt == len(p.text) && !c.committed {
		c.committed = true
		c.trace("Keyword", "cut", nil)
	}
	c.r.Unmark()
	return Success(string(p.text), c.Pos())
}

func (p literalParser) String() string {
	return p.desc
}

type oneOfParser struct {
	literals []literalParser
	expected []string
	words    []string
	maxLen   int
}

// OneOf matches any of given literals, longer literals are tried first.
// On failure the message suggests the literal closest to the text found.
func OneOf(literals ...string) Parser[string] {
	if len(literals) == 0 {
		grammarPanic(EmptyLiteralError, "OneOf: no literals")
	}

	p := &oneOfParser{words: append([]string(nil), literals...)}
	for _, l := range literals {
		lp := newLiteral("OneOf", l, NoCut)
		p.literals = append(p.literals, lp)
		p.expected = append(p.expected, lp.desc)
		p.maxLen = max(p.maxLen, len(lp.text))
	}
	slices.SortStableFunc(p.literals, func(a, b literalParser) int {
		return len(b.text) - len(a.text)
	})
	return p
}

func (p *oneOfParser) Parse(c *Context) Result[string] {
	c.SkipInsignificant()
	start := c.Pos()
	for _, l := range p.literals {
		if l.matchAt(c) {
			return Success(string(l.text), c.Pos())
		}
	}

	f := c.Fail(start, p.expected...)
	f.Hint = suggest(c, p.words, p.maxLen)
	return Fail[string](f)
}

func (p literalParser) matchAt(c *Context) bool {
	c.r.Mark()
	for _, r := range p.text {
		if c.r.Read() != r {
			c.r.Reset(true)
			return false
		}
	}
	c.r.Unmark()
	return true
}

func (p *oneOfParser) String() string {
	return joinExpected(p.expected)
}

// suggest reads a word at current position and returns a hint naming the closest candidate
// or empty string. The reader position is not changed.
func suggest(c *Context, candidates []string, maxLen int) string {
	c.r.Mark()
	var sb strings.Builder
	for i := 0; i <= maxLen; i++ {
		r := c.r.Peek()
		if r == source.EOF || charclass.Space.Contains(r) || (c.skip != nil && c.skip.Contains(r)) {
			break
		}
		sb.WriteRune(c.r.Read())
	}
	c.r.Reset(true)

	found := sb.String()
	foundLen := utf8.RuneCountInString(found)
	if foundLen == 0 {
		return ""
	}

	// a candidate is close if fewer than all runes of both texts differ
	best, bestDist := "", -1
	for _, cand := range candidates {
		candLen := utf8.RuneCountInString(cand)
		d := levenshtein.ComputeDistance(found, cand)
		if d > 0 && d <= max(1, candLen/3) && d < foundLen && d < candLen && (bestDist < 0 || d < bestDist) {
			best, bestDist = cand, d
		}
	}
	if bestDist < 0 {
		return ""
	}
	return fmt.Sprintf("did you mean %q?", best)
}

type whileParser struct {
	cc  *charclass.Class
	min int
}

// While matches at least min runes belonging to cc and returns matched text.
// A short match is reported at the first unmatched rune, the reader is rewound.
func While(cc *charclass.Class, min int) Parser[string] {
	if cc == nil {
		grammarPanic(NilParserError, "While: nil character class")
	}
	if min < 0 {
		grammarPanic(BoundsError, "While: negative minimum %d", min)
	}
	return whileParser{cc, min}
}

func (p whileParser) Parse(c *Context) Result[string] {
	c.SkipInsignificant()
	c.r.Mark()
	n := 0
	for p.cc.Contains(c.r.Peek()) {
		c.r.Read()
		n++
	}

	if n < p.min {
		f := c.Fail(c.Pos(), p.cc.String())
		c.r.Reset(true)
		return Fail[string](f)
	}

	return Success(c.r.Capture(true), c.Pos())
}

func (p whileParser) String() string {
	if p.min == 0 {
		return p.cc.String() + "*"
	}
	return fmt.Sprintf("%s{%d,}", p.cc, p.min)
}

type captureParser[T any] struct {
	p Parser[T]
}

// Capture returns text consumed by p instead of its value.
// Insignificant runes preceding the match are not captured.
func Capture[T any](p Parser[T]) Parser[string] {
	checkParser(p, "Capture")
	return captureParser[T]{p}
}

func (p captureParser[T]) Parse(c *Context) Result[string] {
	c.SkipInsignificant()
	c.r.Mark()
	res := p.p.Parse(c)
	if !res.Ok() {
		c.r.Reset(true)
		return Fail[string](res.Failure)
	}

	return Success(c.r.Capture(true), res.Pos)
}

func (p captureParser[T]) String() string {
	return p.p.String()
}

type returnParser[T any] struct {
	value T
}

// Return yields value without consuming input.
func Return[T any](value T) Parser[T] {
	return returnParser[T]{value}
}

func (p returnParser[T]) Parse(c *Context) Result[T] {
	return Success(p.value, c.Pos())
}

func (p returnParser[T]) String() string {
	return fmt.Sprintf("%v", p.value)
}

type eofParser struct{}

// EOF matches end of input.
func EOF() Parser[struct{}] {
	return eofParser{}
}

func (eofParser) Parse(c *Context) Result[struct{}] {
	c.SkipInsignificant()
	if !c.r.Eof() {
		return Fail[struct{}](c.Fail(c.Pos(), "end of input"))
	}
	return Success(struct{}{}, c.Pos())
}

func (eofParser) String() string {
	return "end of input"
}

type skippedParser struct{}

// Skipped consumes insignificant runes regardless of auto-skip mode and returns them.
// Matches empty string if grammar has no insignificant runes.
func Skipped() Parser[string] {
	return skippedParser{}
}

func (skippedParser) Parse(c *Context) Result[string] {
	c.r.Mark()
	c.skipAll()
	return Success(c.r.Capture(true), c.Pos())
}

func (skippedParser) String() string {
	return "insignificant text"
}
