package charclass

import "unicode"

// Commonly used classes.
var (
	Any      = Func("any char", func(rune) bool { return true })
	Digit    = Named(Between('0', '9'), "digit")
	HexDigit = Named(Ranges(Range{'0', '9'}, Range{'a', 'f'}, Range{'A', 'F'}), "hex digit")
	Letter   = Named(MustCategory("L"), "letter")
	Space    = Func("space", unicode.IsSpace)
	Word     = Named(Union(MustCategory("L", "Nd"), Char('_')), "word char")
	Newline  = Named(Set('\n', '\r'), "newline")
)
