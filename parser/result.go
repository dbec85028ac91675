package parser

import (
	"slices"
	"strings"

	"github.com/ava12/combi/source"
)

// Failure describes a mismatch.
// Fatal failures occur after a crossed cut, alternations do not try other branches after them.
type Failure struct {
	// Pos is the position where the mismatch was detected.
	Pos source.Pos

	// Found is the quoted text found at Pos or empty string for end of input.
	Found string

	// Expected contains descriptions of what was expected at Pos.
	Expected []string

	// Message overrides generated message if not empty.
	Message string

	// Hint is appended to the message if not empty.
	Hint string

	Fatal bool
}

// Describe returns failure message without position.
func (f *Failure) Describe() string {
	var sb strings.Builder
	if f.Message != "" {
		sb.WriteString(f.Message)
	} else {
		if f.Found == "" {
			sb.WriteString("unexpected end of input")
		} else {
			sb.WriteString("unexpected ")
			sb.WriteString(f.Found)
		}
		if len(f.Expected) > 0 {
			sb.WriteString(", expecting ")
			sb.WriteString(joinExpected(f.Expected))
		}
	}
	if f.Hint != "" {
		sb.WriteString(" (")
		sb.WriteString(f.Hint)
		sb.WriteString(")")
	}
	return sb.String()
}

func (f *Failure) Error() string {
	return f.Describe() + " at " + f.Pos.String()
}

func joinExpected(items []string) string {
	switch len(items) {
	case 1:
		return items[0]
	case 2:
		return items[0] + " or " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", or " + items[len(items)-1]
	}
}

// merge returns the failure that went further. Expectations of failures at the same position
// are merged unless one of them has custom message. Nil failures are ignored.
func merge(a, b *Failure) *Failure {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.Pos.Index > b.Pos.Index:
		return a
	case b.Pos.Index > a.Pos.Index:
		return b
	case a.Message != "" || b.Message != "":
		if a.Fatal != b.Fatal {
			if b.Fatal {
				return b
			}
			return a
		}
		if a.Message == "" {
			return b
		}
		return a
	}

	result := *a
	result.Fatal = a.Fatal || b.Fatal
	result.Expected = append([]string(nil), a.Expected...)
	for _, e := range b.Expected {
		if !slices.Contains(result.Expected, e) {
			result.Expected = append(result.Expected, e)
		}
	}
	if result.Hint == "" {
		result.Hint = b.Hint
	}
	return &result
}

// Result is the outcome of a single parser invocation:
// either a value and the position after it or a failure.
type Result[T any] struct {
	Value   T
	Pos     source.Pos
	Failure *Failure
}

// Ok reports whether parser succeeded.
func (r Result[T]) Ok() bool {
	return r.Failure == nil
}

// Success creates successful result.
func Success[T any](value T, pos source.Pos) Result[T] {
	return Result[T]{Value: value, Pos: pos}
}

// Fail creates failed result.
func Fail[T any](f *Failure) Result[T] {
	return Result[T]{Pos: f.Pos, Failure: f}
}
