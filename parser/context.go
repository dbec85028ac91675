package parser

import (
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/ava12/combi/charclass"
	"github.com/ava12/combi/reader"
	"github.com/ava12/combi/source"
)

// Context holds the state of a single parse.
// A context must not be shared between goroutines.
type Context struct {
	r         *reader.Reader
	skip      *charclass.Class
	autoSkip  bool
	committed bool
	furthest  *Failure
	log       logrus.Ext1FieldLogger
}

// NewContext creates parse context for r. Grammar.Parse creates contexts itself,
// NewContext is useful to run a parser on a reader directly.
func NewContext(r *reader.Reader, opts ...Option) *Context {
	return newContext(r, newSettings(opts))
}

func newContext(r *reader.Reader, s settings) *Context {
	return &Context{
		r:        r,
		skip:     s.skip,
		autoSkip: s.autoSkip,
		log:      s.log,
	}
}

// Reader returns the reader used by the parse.
func (c *Context) Reader() *reader.Reader {
	return c.r
}

// Pos returns current reader position.
func (c *Context) Pos() source.Pos {
	return c.r.Pos()
}

// Committed reports whether a cut was crossed in the current branch.
func (c *Context) Committed() bool {
	return c.committed
}

// Furthest returns the failure detected at the furthest position so far or nil.
func (c *Context) Furthest() *Failure {
	return c.furthest
}

// SkipInsignificant skips insignificant runes if auto-skip mode is enabled.
func (c *Context) SkipInsignificant() {
	if c.autoSkip {
		c.skipAll()
	}
}

func (c *Context) skipAll() {
	if c.skip == nil {
		return
	}

	for c.skip.Contains(c.r.Peek()) {
		c.r.Read()
	}
}

// Fail creates failure at pos describing current rune as found,
// the failure is fatal if the current branch is committed.
func (c *Context) Fail(pos source.Pos, expected ...string) *Failure {
	f := &Failure{
		Pos:      pos,
		Found:    quoteRune(c.r.Peek()),
		Expected: expected,
		Fatal:    c.committed,
	}
	c.record(f)
	return f
}

// Reject creates failure with custom message at pos.
func (c *Context) Reject(pos source.Pos, message string) *Failure {
	f := &Failure{Pos: pos, Message: message, Fatal: c.committed}
	c.record(f)
	return f
}

func quoteRune(r rune) string {
	if r == source.EOF {
		return ""
	}
	return strconv.QuoteRune(r)
}

func (c *Context) record(f *Failure) {
	c.furthest = merge(c.furthest, f)
}

// promote makes f fatal if the current branch is committed.
func (c *Context) promote(f *Failure) *Failure {
	if c.committed && !f.Fatal {
		f.Fatal = true
		c.trace("cut", "failure after cut", f)
	}
	return f
}

// enterBranch opens a new cut scope and returns the state to be restored by leaveBranch.
func (c *Context) enterBranch() bool {
	saved := c.committed
	c.committed = false
	return saved
}

func (c *Context) leaveBranch(saved bool) {
	c.committed = saved
}

func (c *Context) trace(combinator, message string, f *Failure) {
	if c.log == nil {
		return
	}

	pos := c.r.Pos()
	fields := logrus.Fields{
		"combinator": combinator,
		"line":       pos.Line,
		"col":        pos.Col,
	}
	if f != nil {
		fields["failure"] = f.Error()
		fields["fatal"] = f.Fatal
	}
	c.log.WithFields(fields).Trace(message)
}
