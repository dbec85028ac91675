package parser

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ava12/combi"
	"github.com/ava12/combi/charclass"
	"github.com/ava12/combi/reader"
	"github.com/ava12/combi/source"
)

type settings struct {
	skip     *charclass.Class
	autoSkip bool
	log      logrus.Ext1FieldLogger
}

// Option configures a grammar or a parse context.
type Option func(*settings)

// WithSkip sets the class of insignificant runes, charclass.Space is used by default.
func WithSkip(cc *charclass.Class) Option {
	return func(s *settings) {
		s.skip = cc
	}
}

// WithAutoSkip enables or disables skipping insignificant runes before every primitive match.
// Auto-skip is disabled by default.
func WithAutoSkip(enabled bool) Option {
	return func(s *settings) {
		s.autoSkip = enabled
	}
}

// WithLogger enables tracing of backtracking, cuts, and repetition stops at Trace level.
func WithLogger(l logrus.Ext1FieldLogger) Option {
	return func(s *settings) {
		s.log = l
	}
}

// Config holds grammar settings that can be loaded from configuration files.
type Config struct {
	// AutoSkip enables auto-skip mode.
	AutoSkip bool `mapstructure:"autoskip" yaml:"autoskip" json:"autoskip"`

	// Skip lists insignificant runes. Empty string means default class.
	Skip string `mapstructure:"skip" yaml:"skip" json:"skip"`
}

// WithConfig applies cfg.
func WithConfig(cfg Config) Option {
	return func(s *settings) {
		s.autoSkip = cfg.AutoSkip
		if cfg.Skip != "" {
			s.skip = charclass.Named(charclass.SetOf(cfg.Skip), "insignificant")
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{skip: charclass.Space}
	for _, o := range opts {
		o(&s)
	}
	return s
}

// Grammar is a root parser with settings, safe for concurrent use.
type Grammar[T any] struct {
	root     Parser[T]
	settings settings
}

// NewGrammar creates grammar with root parser.
func NewGrammar[T any](root Parser[T], opts ...Option) *Grammar[T] {
	checkParser(root, "NewGrammar")
	return &Grammar[T]{root: root, settings: newSettings(opts)}
}

// With returns a copy of grammar with opts applied on top of its settings.
func (g *Grammar[T]) With(opts ...Option) *Grammar[T] {
	s := g.settings
	for _, o := range opts {
		o(&s)
	}
	return &Grammar[T]{root: g.root, settings: s}
}

// Root returns root parser.
func (g *Grammar[T]) Root() Parser[T] {
	return g.root
}

// Outcome is the result of the top-level parse.
type Outcome[T any] struct {
	// Value contains produced value if parsing succeeded.
	Value T

	// Failure contains root parser failure or nil on success.
	Failure *Failure

	// Furthest contains the failure detected at the furthest position or nil.
	// It may be non-nil on success, e.g. for failed alternatives.
	Furthest *Failure

	// End contains the position after the produced value or the failure position.
	End source.Pos

	// SourceName contains the name of parsed source.
	SourceName string
}

// Ok reports whether parsing succeeded.
func (o Outcome[T]) Ok() bool {
	return o.Failure == nil
}

// Diagnosis returns the failure reported by Err or nil on success.
// Root failure without custom message is merged with the furthest failure at the same position,
// soft root failure is replaced with the furthest failure located after it.
func (o Outcome[T]) Diagnosis() *Failure {
	f := o.Failure
	switch {
	case f == nil || f.Message != "" || o.Furthest == nil:
	case f.Pos.Index == o.Furthest.Pos.Index:
		m := *merge(o.Furthest, f)
		m.Fatal = f.Fatal
		f = &m
	case !f.Fatal && f.Pos.Before(o.Furthest.Pos):
		f = o.Furthest
	}
	return f
}

// Err returns nil on success or *combi.Error with code SyntaxError or FatalSyntaxError.
func (o Outcome[T]) Err() error {
	f := o.Diagnosis()
	if f == nil {
		return nil
	}

	code := SyntaxError
	if f.Fatal {
		code = FatalSyntaxError
	}
	return combi.NewError(code, f.Describe(), o.SourceName, f.Pos.Line, f.Pos.Col)
}

// Parse parses src, the source is not closed.
func (g *Grammar[T]) Parse(src source.Source) Outcome[T] {
	return g.run(reader.New(src))
}

// ParseString parses s, name is used in error messages.
func (g *Grammar[T]) ParseString(name, s string) Outcome[T] {
	return g.Parse(source.FromString(name, s))
}

// ParseBytes parses content, name is used in error messages.
func (g *Grammar[T]) ParseBytes(name string, content []byte) Outcome[T] {
	return g.Parse(source.New(name, content))
}

// ParseReader parses text read from r. Returns an error if reading fails.
func (g *Grammar[T]) ParseReader(name string, r io.Reader) (Outcome[T], error) {
	src := source.NewStream(name, r)
	o := g.Parse(src)
	if e := src.Err(); e != nil {
		return o, fmt.Errorf("reading %s: %w", name, e)
	}
	return o, nil
}

// ParseFile parses the file. The file is closed on every exit path.
func (g *Grammar[T]) ParseFile(filename string) (o Outcome[T], e error) {
	src, e := source.Open(filename)
	if e != nil {
		return
	}

	defer func() {
		ce := src.Close()
		if e == nil && ce != nil {
			e = ce
		}
	}()

	o = g.Parse(src)
	if re := src.Err(); re != nil {
		e = fmt.Errorf("reading %s: %w", filename, re)
	}
	return
}

func (g *Grammar[T]) run(r *reader.Reader) Outcome[T] {
	c := newContext(r, g.settings)
	res := g.root.Parse(c)
	o := Outcome[T]{
		Value:      res.Value,
		Failure:    res.Failure,
		Furthest:   c.furthest,
		End:        res.Pos,
		SourceName: r.Source().Name(),
	}
	if c.log != nil {
		fields := logrus.Fields{"source": o.SourceName, "ok": o.Ok(), "line": o.End.Line, "col": o.End.Col}
		c.log.WithFields(fields).Debug("parse finished")
	}
	return o
}
