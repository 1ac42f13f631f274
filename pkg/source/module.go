package source

import (
	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/value"
)

// literalExport is one eligible export: a name bound to an object or
// array literal occupying src[start:end].
type literalExport struct {
	name  string
	start int
	end   int
	value *value.Value
}

// statementKeywords start a new top-level statement after a line break.
var statementKeywords = map[string]bool{
	"export": true, "import": true, "const": true, "let": true, "var": true,
	"function": true, "class": true, "interface": true, "type": true,
	"enum": true, "declare": true, "namespace": true, "module": true, "abstract": true,
}

type moduleScanner struct {
	src     string
	toks    []token
	names   map[string]bool
	exports []literalExport
}

// scanModule finds every top-level exported object or array literal.
// jsx enables JSX elements in expression position.
func scanModule(src string, jsx bool) ([]literalExport, error) {
	toks, err := tokenize(src, jsx)
	if err != nil {
		return nil, err
	}
	s := &moduleScanner{src: src, toks: toks, names: make(map[string]bool)}

	depth := 0
	for i := 0; toks[i].kind != tokEOF; {
		t := toks[i]
		if depth == 0 && t.ident("export") && (i == 0 || !toks[i-1].punct(".")) {
			next, err := s.exportStatement(i + 1)
			if err != nil {
				return nil, err
			}
			i = next
			continue
		}
		if t.kind == tokPunct {
			switch t.text {
			case "{", "[", "(":
				depth++
			case "}", "]", ")":
				depth--
			}
		}
		i++
	}
	return s.exports, nil
}

func (s *moduleScanner) declare(t token) error {
	if s.names[t.text] {
		line, col := position(s.src, t.start)
		return errors.New(errors.ErrCodeDuplicateExport, "duplicate export %q at %d:%d", t.text, line, col)
	}
	s.names[t.text] = true
	return nil
}

func (s *moduleScanner) exportStatement(i int) (int, error) {
	t := s.toks[i]
	switch {
	case t.ident("default"):
		if err := s.declare(t); err != nil {
			return 0, err
		}
		return s.initializer("default", i+1)
	case t.ident("const") || t.ident("let") || t.ident("var"):
		if s.toks[i+1].ident("enum") {
			return i + 1, nil
		}
		return s.declarators(i + 1)
	case t.punct("{"):
		return s.exportList(i + 1)
	}
	return i, nil
}

func (s *moduleScanner) declarators(i int) (int, error) {
	for {
		name := s.toks[i]
		if name.kind != tokIdent {
			// destructuring pattern; never eligible
			return i, nil
		}
		if err := s.declare(name); err != nil {
			return 0, err
		}
		i++
		if s.toks[i].punct("!") {
			i++
		}
		if s.toks[i].punct(":") {
			i = s.skipType(i + 1)
		}
		if s.toks[i].punct("=") {
			var err error
			if i, err = s.initializer(name.text, i+1); err != nil {
				return 0, err
			}
		}
		if !s.toks[i].punct(",") {
			return i, nil
		}
		i++
	}
}

// initializer evaluates the expression at i when it is a plain object or
// array literal and records it; any other expression is skipped.
func (s *moduleScanner) initializer(name string, i int) (int, error) {
	open := s.toks[i]
	if !open.punct("{") && !open.punct("[") {
		return s.skipExpression(i), nil
	}
	closeIdx, err := s.matching(i)
	if err != nil {
		return 0, err
	}
	after := skipAssertions(s.toks, closeIdx+1, true)
	if !s.endsStatement(after) {
		// the literal is only the start of a larger expression
		return s.skipExpression(i), nil
	}

	ev := &evaluator{src: s.src, toks: s.toks, pos: i, export: name}
	v, err := ev.value()
	if err != nil {
		return 0, err
	}
	s.exports = append(s.exports, literalExport{
		name:  name,
		start: open.start,
		end:   s.toks[closeIdx].end,
		value: v,
	})
	return after, nil
}

func (s *moduleScanner) endsStatement(i int) bool {
	t := s.toks[i]
	return t.kind == tokEOF || t.nl || t.punct(";") || t.punct(",")
}

// matching returns the index of the bracket closing the one at i.
func (s *moduleScanner) matching(i int) (int, error) {
	depth := 0
	for j := i; ; j++ {
		t := s.toks[j]
		if t.kind == tokEOF {
			return 0, syntaxError(s.src, s.toks[i].start, "unbalanced "+s.toks[i].text)
		}
		if t.kind != tokPunct {
			continue
		}
		switch t.text {
		case "{", "[", "(":
			depth++
		case "}", "]", ")":
			depth--
			if depth == 0 {
				return j, nil
			}
		}
	}
}

// skipExpression advances to the comma or semicolon ending the
// expression at i, or to the next statement after a line break.
func (s *moduleScanner) skipExpression(i int) int {
	depth := 0
	for first := true; ; first = false {
		t := s.toks[i]
		if t.kind == tokEOF {
			return i
		}
		if depth == 0 && !first {
			if t.punct(",") || t.punct(";") {
				return i
			}
			if t.nl && t.kind == tokIdent && statementKeywords[t.text] {
				return i
			}
		}
		if t.kind == tokPunct {
			switch t.text {
			case "{", "[", "(":
				depth++
			case "}", "]", ")":
				depth--
				if depth < 0 {
					return i
				}
			}
		}
		i++
	}
}

// skipType advances over a type annotation to the '=' , ',' or ';' that
// follows it.
func (s *moduleScanner) skipType(i int) int {
	depth := 0
	for {
		t := s.toks[i]
		if t.kind == tokEOF {
			return i
		}
		if depth == 0 && (t.punct("=") || t.punct(",") || t.punct(";")) {
			return i
		}
		if depth == 0 && t.nl && t.kind == tokIdent && statementKeywords[t.text] {
			return i
		}
		if t.kind == tokPunct {
			switch t.text {
			case "{", "[", "(", "<":
				depth++
			case "}", "]", ")", ">":
				depth--
			case ">>":
				depth -= 2
			case ">>>":
				depth -= 3
			}
		}
		i++
	}
}

// exportList records the exported names of `export { a, b as c }`.
func (s *moduleScanner) exportList(i int) (int, error) {
	for {
		t := s.toks[i]
		switch {
		case t.kind == tokEOF:
			return i, nil
		case t.punct("}"):
			return i + 1, nil
		case t.punct(","):
			i++
			continue
		}
		if t.ident("type") && s.toks[i+1].kind == tokIdent && !s.toks[i+1].ident("as") {
			// type-only specifier
			i = s.skipSpecifier(i + 1)
			continue
		}
		exported := t
		if s.toks[i+1].ident("as") {
			exported = s.toks[i+2]
			i += 2
		}
		if exported.kind == tokString {
			exported.text = exported.val
		}
		if err := s.declare(exported); err != nil {
			return 0, err
		}
		i++
	}
}

func (s *moduleScanner) skipSpecifier(i int) int {
	for !s.toks[i].punct(",") && !s.toks[i].punct("}") && s.toks[i].kind != tokEOF {
		i++
	}
	return i
}
