package combi_test

import (
	"fmt"

	"github.com/ava12/combi/charclass"
	"github.com/ava12/combi/parser"
)

type entry struct {
	section     bool
	name, value string
}

type config struct {
	prefix string
	values map[string]string
}

func Example() {
	input := `
foo = hello
bar = world
[sec]
baz =
[sec.subsec]
qux = !
`
	nl := parser.Char('\n')
	secName := parser.While(charclass.Union(charclass.Letter, charclass.Char('.')), 1)
	section := parser.Map(parser.Enclosed(parser.Char('['), secName, parser.Left(parser.Char(']'), nl)), func(name string) entry {
		return entry{section: true, name: name}
	})

	text := parser.OptionalOr(parser.While(charclass.Char('\n').Not(), 1), "")
	value := parser.Map(parser.Seq3(parser.While(charclass.Letter, 1), parser.Char('='), parser.Left(text, nl)), func(t parser.Triple[string, rune, string]) entry {
		return entry{name: t.First, value: t.Third}
	})
	empty := parser.Map(nl, func(rune) entry {
		return entry{}
	})

	lines := parser.Aggregate[entry, struct{}](parser.Alt(section, value, empty), nil, 0, parser.Unbounded, func() *config {
		return &config{values: make(map[string]string)}
	}, func(c *config, e entry) *config {
		switch {
		case e.section:
			c.prefix = e.name + "."
		case e.name != "":
			c.values[c.prefix+e.name] = e.value
		}
		return c
	})

	g := parser.NewGrammar(parser.Left(lines, parser.EOF()), parser.WithSkip(charclass.SetOf(" \t\r")), parser.WithAutoSkip(true))
	o := g.ParseString("input", input)
	if e := o.Err(); e == nil {
		fmt.Println(o.Value.values)
	} else {
		fmt.Println(e)
	}

	// Output:
	// map[bar:world foo:hello sec.baz: sec.subsec.qux:!]
}
