package source

import "unicode/utf8"

// keywords after which '<' opens a JSX element in .tsx modules.
var jsxKeywords = map[string]bool{
	"return": true, "yield": true, "await": true, "default": true,
	"case": true, "else": true, "do": true,
}

// jsxPunct are the punctuators after which '<' opens a JSX element.
var jsxPunct = map[string]bool{
	"(": true, "[": true, "{": true, "=": true, "=>": true, ",": true,
	"?": true, ":": true, "&&": true, "||": true, "??": true, "!": true,
	";": true, "}": true,
}

// jsxAllowed reports whether a '<' at lx.pos sits in expression position
// and is followed by a tag name or a fragment's '>'.
func (lx *lexer) jsxAllowed() bool {
	next := lx.peekByte(1)
	r, _ := utf8.DecodeRuneInString(lx.src[lx.pos+1:])
	if next != '>' && !isIdentStart(r) {
		return false
	}
	if len(lx.toks) == 0 {
		return true
	}
	prev := lx.toks[len(lx.toks)-1]
	switch prev.kind {
	case tokPunct:
		return jsxPunct[prev.text]
	case tokIdent:
		return jsxKeywords[prev.text]
	}
	return false
}

// skipJSXElement returns the offset just past the element or fragment
// starting at the '<' at start. Text children are opaque; {...} holes
// are skipped as balanced expressions. ok is false when src does not
// hold a complete element there, as with the generic arrow <T,>(x) => x.
func skipJSXElement(src string, start int) (end int, ok bool) {
	i := start + 1
	if i < len(src) && src[i] == '>' {
		return skipJSXChildren(src, i+1)
	}
	i = skipJSXName(src, i)
	if i == start+1 {
		return 0, false
	}
	for {
		i = skipSpace(src, i)
		if i >= len(src) {
			return 0, false
		}
		switch c := src[i]; {
		case c == '/':
			if i+1 < len(src) && src[i+1] == '>' {
				return i + 2, true
			}
			return 0, false
		case c == '>':
			return skipJSXChildren(src, i+1)
		case c == '{':
			if i, ok = skipJSXHole(src, i); !ok {
				return 0, false
			}
		case c == '"' || c == '\'':
			// attribute strings have no escapes and may span lines
			j := indexByteFrom(src, i+1, c)
			if j < 0 {
				return 0, false
			}
			i = j + 1
		case c == '=':
			i++
		default:
			n := skipJSXName(src, i)
			if n == i || src[i:n] == "extends" {
				// type parameters: <T,> or <T extends U>
				return 0, false
			}
			i = n
		}
	}
}

// skipJSXChildren skips children up to and including the closing tag.
func skipJSXChildren(src string, i int) (int, bool) {
	for i < len(src) {
		switch src[i] {
		case '<':
			if i+1 < len(src) && src[i+1] == '/' {
				j := indexByteFrom(src, i+2, '>')
				if j < 0 {
					return 0, false
				}
				return j + 1, true
			}
			end, ok := skipJSXElement(src, i)
			if !ok {
				return 0, false
			}
			i = end
		case '{':
			end, ok := skipJSXHole(src, i)
			if !ok {
				return 0, false
			}
			i = end
		default:
			i++
		}
	}
	return 0, false
}

// skipJSXHole skips the balanced {...} expression at i, honouring
// strings, templates, comments and nested elements.
func skipJSXHole(src string, i int) (int, bool) {
	depth := 0
	prev := byte('{')
	for i < len(src) {
		c := src[i]
		switch {
		case c == '{':
			depth++
			i++
		case c == '}':
			depth--
			i++
			if depth == 0 {
				return i, true
			}
		case c == '"' || c == '\'':
			j := skipQuoted(src, i)
			if j < 0 {
				return 0, false
			}
			i = j
		case c == '`':
			j, ok := skipJSXTemplate(src, i+1)
			if !ok {
				return 0, false
			}
			i = j
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			j := indexByteFrom(src, i, '\n')
			if j < 0 {
				return 0, false
			}
			i = j
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			j := indexFrom(src, i+2, "*/")
			if j < 0 {
				return 0, false
			}
			i = j + 2
		case c == '<' && isJSXLead(prev):
			if end, ok := skipJSXElement(src, i); ok {
				i = end
				prev = '>'
				continue
			}
			i++
		default:
			i++
		}
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			prev = c
		}
	}
	return 0, false
}

// isJSXLead reports whether an element may follow the character c
// inside an expression hole.
func isJSXLead(c byte) bool {
	switch c {
	case '(', '{', '[', '=', '>', ',', '?', ':', '&', '|', '!':
		return true
	}
	return false
}

// skipJSXTemplate skips a template literal body starting after its
// opening backtick.
func skipJSXTemplate(src string, i int) (int, bool) {
	for i < len(src) {
		switch {
		case src[i] == '\\':
			i += 2
		case src[i] == '`':
			return i + 1, true
		case src[i] == '$' && i+1 < len(src) && src[i+1] == '{':
			end, ok := skipJSXHole(src, i+1)
			if !ok {
				return 0, false
			}
			i = end
		default:
			i++
		}
	}
	return 0, false
}

// skipQuoted skips a quoted string with backslash escapes, returning -1
// when it is unterminated on its line.
func skipQuoted(src string, i int) int {
	quote := src[i]
	for i++; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		case '\n':
			return -1
		}
	}
	return -1
}

// skipJSXName skips a tag or attribute name, which may contain '-', '.'
// and ':' (data-x, Foo.Bar, xlink:href).
func skipJSXName(src string, i int) int {
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		if !isIdentPart(r) && r != '-' && r != '.' && r != ':' {
			break
		}
		i += size
	}
	return i
}

func skipSpace(src string, i int) int {
	for i < len(src) && (src[i] == ' ' || src[i] == '\t' || src[i] == '\n' || src[i] == '\r') {
		i++
	}
	return i
}

func indexByteFrom(s string, from int, c byte) int {
	for i := from; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

func indexFrom(s string, from int, sub string) int {
	for i := from; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
