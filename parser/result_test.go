package parser

import (
	"testing"

	. "github.com/ava12/combi/internal/test"
	"github.com/ava12/combi/source"
)

func TestFailureMessage(t *testing.T) {
	pos := source.Pos{Index: 4, Line: 2, Col: 3}
	samples := []struct {
		f        Failure
		expected string
	}{
		{Failure{Pos: pos, Found: "'x'", Expected: []string{"'a'"}}, "unexpected 'x', expecting 'a' at line 2 col 3"},
		{Failure{Pos: pos, Expected: []string{"'a'", "'b'"}}, "unexpected end of input, expecting 'a' or 'b' at line 2 col 3"},
		{Failure{Pos: pos, Found: "'x'", Expected: []string{"a", "b", "c"}}, "unexpected 'x', expecting a, b, or c at line 2 col 3"},
		{Failure{Pos: pos, Found: "'x'"}, "unexpected 'x' at line 2 col 3"},
		{Failure{Pos: pos, Message: "number too large", Hint: "use fewer digits"}, "number too large (use fewer digits) at line 2 col 3"},
	}

	for _, s := range samples {
		ExpectString(t, s.expected, s.f.Error())
	}
}

func TestMerge(t *testing.T) {
	near := &Failure{Pos: source.Pos{Index: 1}, Expected: []string{"a"}}
	far := &Failure{Pos: source.Pos{Index: 2}, Expected: []string{"b"}}
	same := &Failure{Pos: source.Pos{Index: 2}, Expected: []string{"b", "c"}, Hint: "hint"}
	fatal := &Failure{Pos: source.Pos{Index: 2}, Expected: []string{"d"}, Fatal: true}

	Expect(t, merge(nil, near) == near, near, merge(nil, near))
	Expect(t, merge(near, nil) == near, near, merge(near, nil))
	Expect(t, merge(near, far) == far, far, merge(near, far))
	Expect(t, merge(far, near) == far, far, merge(far, near))

	m := merge(far, fatal)
	ExpectBool(t, true, m.Fatal)
	ExpectEqual(t, []string{"b", "d"}, m.Expected)

	msg := &Failure{Pos: source.Pos{Index: 2}, Message: "custom"}
	Expect(t, merge(far, msg) == msg, msg, merge(far, msg))
	Expect(t, merge(msg, fatal) == fatal, fatal, merge(msg, fatal))

	m = merge(far, same)
	ExpectEqual(t, []string{"b", "c"}, m.Expected)
	ExpectString(t, "hint", m.Hint)
	ExpectEqual(t, []string{"b"}, far.Expected)
}
