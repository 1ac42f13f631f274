package source

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/matzehuels/visualizeme/pkg/errors"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokTemplate       // `...` without substitutions
	tokTemplateHead   // `...${
	tokTemplateMiddle // }...${
	tokTemplateTail   // }...`
	tokRegex
	tokPunct
	tokJSX // a whole JSX element or fragment, kept opaque
)

// token is one lexical element. text is the raw source slice; val holds
// the cooked contents of string and template tokens.
type token struct {
	kind  tokenKind
	text  string
	val   string
	start int
	end   int
	nl    bool // a line terminator precedes the token
}

func (t token) punct(s string) bool { return t.kind == tokPunct && t.text == s }
func (t token) ident(s string) bool { return t.kind == tokIdent && t.text == s }

// punctuators ordered longest first.
var punctuators = []string{
	">>>=",
	"...", "===", "!==", "**=", "<<=", ">>=", ">>>", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "**", "<<", ">>",
	"{", "}", "[", "]", "(", ")", ";", ",", "<", ">", "+", "-", "*", "/",
	"%", "&", "|", "^", "!", "~", "?", ":", "=", ".", "@", "#",
}

// keywords after which a slash starts a regular expression.
var regexKeywords = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true, "of": true,
	"new": true, "delete": true, "void": true, "throw": true, "case": true,
	"do": true, "else": true, "yield": true, "await": true,
}

type lexer struct {
	src   string
	jsx   bool
	pos   int
	toks  []token
	subst []int // brace depth inside each open template substitution
	nl    bool
}

// tokenize splits src into tokens. With jsx set, elements in expression
// position are read as single tokJSX tokens.
func tokenize(src string, jsx bool) ([]token, error) {
	lx := &lexer{src: src, jsx: jsx}
	if strings.HasPrefix(src, "#!") {
		for lx.pos < len(src) && src[lx.pos] != '\n' {
			lx.pos++
		}
	}
	for {
		if err := lx.skipTrivia(); err != nil {
			return nil, err
		}
		if lx.pos >= len(lx.src) {
			if len(lx.subst) > 0 {
				return nil, syntaxError(src, len(src), "unterminated template literal")
			}
			lx.emit(tokEOF, lx.pos, "")
			return lx.toks, nil
		}
		if err := lx.scan(); err != nil {
			return nil, err
		}
	}
}

func (lx *lexer) emit(kind tokenKind, start int, val string) {
	lx.toks = append(lx.toks, token{
		kind:  kind,
		text:  lx.src[start:lx.pos],
		val:   val,
		start: start,
		end:   lx.pos,
		nl:    lx.nl,
	})
	lx.nl = false
}

func (lx *lexer) skipTrivia() error {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '\n' || c == '\r':
			lx.nl = true
			lx.pos++
		case c == ' ' || c == '\t' || c == '\v' || c == '\f':
			lx.pos++
		case c == '/' && lx.peekByte(1) == '/':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' && lx.src[lx.pos] != '\r' {
				lx.pos++
			}
		case c == '/' && lx.peekByte(1) == '*':
			end := strings.Index(lx.src[lx.pos+2:], "*/")
			if end < 0 {
				return syntaxError(lx.src, lx.pos, "unterminated comment")
			}
			if strings.ContainsAny(lx.src[lx.pos:lx.pos+2+end], "\n\r") {
				lx.nl = true
			}
			lx.pos += end + 4
		case c >= utf8.RuneSelf:
			r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
			if r == '\u2028' || r == '\u2029' {
				lx.nl = true
			} else if !unicode.IsSpace(r) && r != '\ufeff' {
				return nil
			}
			lx.pos += size
		default:
			return nil
		}
	}
	return nil
}

func (lx *lexer) peekByte(off int) byte {
	if lx.pos+off < len(lx.src) {
		return lx.src[lx.pos+off]
	}
	return 0
}

func (lx *lexer) scan() error {
	c := lx.src[lx.pos]
	r, _ := utf8.DecodeRuneInString(lx.src[lx.pos:])
	switch {
	case isIdentStart(r):
		lx.scanIdent()
		return nil
	case isDigit(c) || (c == '.' && isDigit(lx.peekByte(1))):
		return lx.scanNumber()
	case c == '"' || c == '\'':
		return lx.scanString(c)
	case c == '`':
		lx.pos++
		return lx.scanTemplate(lx.pos-1, true)
	case c == '}' && len(lx.subst) > 0 && lx.subst[len(lx.subst)-1] == 0:
		lx.subst = lx.subst[:len(lx.subst)-1]
		lx.pos++
		return lx.scanTemplate(lx.pos-1, false)
	case c == '/' && lx.regexAllowed():
		return lx.scanRegex()
	case c == '<' && lx.jsx && lx.jsxAllowed():
		start := lx.pos
		if end, ok := skipJSXElement(lx.src, start); ok {
			lx.pos = end
			lx.emit(tokJSX, start, "")
			return nil
		}
	}

	for _, p := range punctuators {
		if strings.HasPrefix(lx.src[lx.pos:], p) {
			start := lx.pos
			lx.pos += len(p)
			if len(lx.subst) > 0 {
				switch p {
				case "{":
					lx.subst[len(lx.subst)-1]++
				case "}":
					lx.subst[len(lx.subst)-1]--
				}
			}
			lx.emit(tokPunct, start, "")
			return nil
		}
	}
	return syntaxError(lx.src, lx.pos, "unexpected character "+strconv.QuoteRune(r))
}

func (lx *lexer) regexAllowed() bool {
	if len(lx.toks) == 0 {
		return true
	}
	prev := lx.toks[len(lx.toks)-1]
	switch prev.kind {
	case tokPunct:
		return prev.text != ")" && prev.text != "]" && prev.text != "}"
	case tokIdent:
		return regexKeywords[prev.text]
	case tokTemplateHead, tokTemplateMiddle:
		return true
	}
	return false
}

func (lx *lexer) scanIdent() {
	start := lx.pos
	for lx.pos < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if !isIdentPart(r) {
			break
		}
		lx.pos += size
	}
	lx.emit(tokIdent, start, "")
}

func (lx *lexer) scanNumber() error {
	start := lx.pos
	s := lx.src
	if s[lx.pos] == '0' && strings.IndexByte("xXoObB", lx.peekByte(1)) >= 0 {
		lx.pos += 2
		for lx.pos < len(s) && (isHex(s[lx.pos]) || s[lx.pos] == '_') {
			lx.pos++
		}
	} else {
		lx.digits()
		if lx.pos < len(s) && s[lx.pos] == '.' {
			lx.pos++
			lx.digits()
		}
		if lx.pos < len(s) && (s[lx.pos] == 'e' || s[lx.pos] == 'E') {
			lx.pos++
			if lx.pos < len(s) && (s[lx.pos] == '+' || s[lx.pos] == '-') {
				lx.pos++
			}
			lx.digits()
		}
	}
	if lx.pos < len(s) && s[lx.pos] == 'n' {
		lx.pos++
	}
	if lx.pos < len(s) {
		if r, _ := utf8.DecodeRuneInString(s[lx.pos:]); isIdentPart(r) {
			return syntaxError(s, lx.pos, "identifier starts immediately after numeric literal")
		}
	}
	lx.emit(tokNumber, start, "")
	return nil
}

func (lx *lexer) digits() {
	for lx.pos < len(lx.src) && (isDigit(lx.src[lx.pos]) || lx.src[lx.pos] == '_') {
		lx.pos++
	}
}

func (lx *lexer) scanString(quote byte) error {
	start := lx.pos
	lx.pos++
	var b strings.Builder
	for {
		if lx.pos >= len(lx.src) {
			return syntaxError(lx.src, start, "unterminated string literal")
		}
		c := lx.src[lx.pos]
		switch {
		case c == quote:
			lx.pos++
			lx.emit(tokString, start, b.String())
			return nil
		case c == '\\':
			if err := lx.scanEscape(&b); err != nil {
				return err
			}
		case c == '\n' || c == '\r':
			return syntaxError(lx.src, start, "unterminated string literal")
		default:
			b.WriteByte(c)
			lx.pos++
		}
	}
}

// scanTemplate reads template characters after a backtick (head) or the
// closing brace of a substitution.
func (lx *lexer) scanTemplate(start int, head bool) error {
	var b strings.Builder
	for {
		if lx.pos >= len(lx.src) {
			return syntaxError(lx.src, start, "unterminated template literal")
		}
		c := lx.src[lx.pos]
		switch {
		case c == '`':
			lx.pos++
			kind := tokTemplateTail
			if head {
				kind = tokTemplate
			}
			lx.emit(kind, start, b.String())
			return nil
		case c == '$' && lx.peekByte(1) == '{':
			lx.pos += 2
			kind := tokTemplateMiddle
			if head {
				kind = tokTemplateHead
			}
			lx.subst = append(lx.subst, 0)
			lx.emit(kind, start, b.String())
			return nil
		case c == '\\':
			if err := lx.scanEscape(&b); err != nil {
				return err
			}
		case c == '\r':
			b.WriteByte('\n')
			lx.pos++
			if lx.peekByte(0) == '\n' {
				lx.pos++
			}
		default:
			b.WriteByte(c)
			lx.pos++
		}
	}
}

func (lx *lexer) scanRegex() error {
	start := lx.pos
	lx.pos++
	inClass := false
	for {
		if lx.pos >= len(lx.src) || lx.src[lx.pos] == '\n' || lx.src[lx.pos] == '\r' {
			return syntaxError(lx.src, start, "unterminated regular expression")
		}
		c := lx.src[lx.pos]
		lx.pos++
		switch {
		case c == '\\':
			lx.pos++
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			for lx.pos < len(lx.src) {
				r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
				if !isIdentPart(r) {
					break
				}
				lx.pos += size
			}
			lx.emit(tokRegex, start, "")
			return nil
		}
	}
}

// scanEscape decodes the escape sequence at lx.pos (a backslash) into b.
func (lx *lexer) scanEscape(b *strings.Builder) error {
	start := lx.pos
	lx.pos++
	if lx.pos >= len(lx.src) {
		return syntaxError(lx.src, start, "unterminated escape sequence")
	}
	c := lx.src[lx.pos]
	lx.pos++
	switch c {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case '0':
		if isDigit(lx.peekByte(0)) {
			return syntaxError(lx.src, start, "octal escape sequences are not allowed")
		}
		b.WriteByte(0)
	case 'x':
		r, err := lx.hexRune(start, 2)
		if err != nil {
			return err
		}
		b.WriteRune(r)
	case 'u':
		r, err := lx.unicodeEscape(start)
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) && lx.peekByte(0) == '\\' && lx.peekByte(1) == 'u' {
			save := lx.pos
			lx.pos += 2
			if lo, err := lx.unicodeEscape(start); err == nil {
				if pair := utf16.DecodeRune(r, lo); pair != utf8.RuneError {
					b.WriteRune(pair)
					return nil
				}
			}
			lx.pos = save
		}
		b.WriteRune(r)
	case '\r':
		if lx.peekByte(0) == '\n' {
			lx.pos++
		}
	case '\n':
	default:
		lx.pos--
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		lx.pos += size
		if r != '\u2028' && r != '\u2029' {
			b.WriteRune(r)
		}
	}
	return nil
}

func (lx *lexer) unicodeEscape(start int) (rune, error) {
	if lx.peekByte(0) != '{' {
		return lx.hexRune(start, 4)
	}
	end := strings.IndexByte(lx.src[lx.pos:], '}')
	if end < 2 {
		return 0, syntaxError(lx.src, start, "invalid unicode escape")
	}
	n, err := strconv.ParseUint(lx.src[lx.pos+1:lx.pos+end], 16, 32)
	if err != nil || n > unicode.MaxRune {
		return 0, syntaxError(lx.src, start, "invalid unicode escape")
	}
	lx.pos += end + 1
	return rune(n), nil
}

func (lx *lexer) hexRune(start, n int) (rune, error) {
	if lx.pos+n > len(lx.src) {
		return 0, syntaxError(lx.src, start, "invalid escape sequence")
	}
	v, err := strconv.ParseUint(lx.src[lx.pos:lx.pos+n], 16, 32)
	if err != nil {
		return 0, syntaxError(lx.src, start, "invalid escape sequence")
	}
	lx.pos += n
	return rune(v), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || (r < utf8.RuneSelf && ((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'))) ||
		(r >= utf8.RuneSelf && unicode.IsLetter(r))
}

func isIdentPart(r rune) bool {
	if isIdentStart(r) || (r >= '0' && r <= '9') || r == '\u200c' || r == '\u200d' {
		return true
	}
	return r >= utf8.RuneSelf && (unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc))
}

// position converts a byte offset into a 1-based line and column.
func position(src string, offset int) (line, col int) {
	if offset > len(src) {
		offset = len(src)
	}
	line = 1 + strings.Count(src[:offset], "\n")
	lineStart := strings.LastIndexByte(src[:offset], '\n') + 1
	col = 1 + utf8.RuneCountInString(src[lineStart:offset])
	return line, col
}

func syntaxError(src string, offset int, msg string) error {
	line, col := position(src, offset)
	return errors.New(errors.ErrCodeParse, "%d:%d: %s", line, col, msg)
}
