package source

import (
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/value"
)

var jsonNumber = regexp.MustCompile(`^(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// evaluator turns the tokens of one object or array literal into a Value.
type evaluator struct {
	src    string
	toks   []token
	pos    int
	export string
}

func (ev *evaluator) peek() token { return ev.toks[ev.pos] }

func (ev *evaluator) next() token {
	t := ev.toks[ev.pos]
	if t.kind != tokEOF {
		ev.pos++
	}
	return t
}

func (ev *evaluator) unsupported(t token, construct string) error {
	line, col := position(ev.src, t.start)
	return &errors.LiteralError{Construct: construct, Export: ev.export, Line: line, Column: col}
}

func (ev *evaluator) eof(t token) error {
	return syntaxError(ev.src, t.start, "unexpected end of input in literal")
}

func (ev *evaluator) value() (*value.Value, error) {
	t := ev.peek()
	switch t.kind {
	case tokEOF:
		return nil, ev.eof(t)
	case tokString, tokTemplate:
		ev.next()
		return value.NewString(t.val), nil
	case tokTemplateHead:
		return nil, ev.unsupported(t, "interpolated template")
	case tokJSX:
		return nil, ev.unsupported(t, "JSX element")
	case tokNumber:
		ev.next()
		return ev.number(t, false)
	case tokIdent:
		switch t.text {
		case "true", "false":
			ev.next()
			return value.NewBool(t.text == "true"), nil
		case "null":
			ev.next()
			return value.NewNull(), nil
		case "undefined":
			return nil, ev.unsupported(t, "undefined value")
		}
	case tokPunct:
		switch t.text {
		case "{":
			return ev.object()
		case "[":
			return ev.array()
		case "-", "+":
			ev.next()
			n := ev.peek()
			if n.kind != tokNumber {
				return nil, ev.unsupported(t, "unary expression")
			}
			ev.next()
			return ev.number(n, t.text == "-")
		case "...":
			return nil, ev.unsupported(t, "spread element")
		}
	}
	return nil, ev.unsupported(t, "non-literal expression")
}

// element reads a value followed by optional `as T` or `satisfies T`.
func (ev *evaluator) element() (*value.Value, error) {
	v, err := ev.value()
	if err != nil {
		return nil, err
	}
	ev.pos = skipAssertions(ev.toks, ev.pos, false)
	return v, nil
}

func (ev *evaluator) object() (*value.Value, error) {
	ev.next()
	obj := value.NewObject()
	for {
		t := ev.peek()
		if t.punct("}") {
			ev.next()
			return obj, nil
		}
		key, err := ev.propertyKey()
		if err != nil {
			return nil, err
		}
		sep := ev.peek()
		switch {
		case sep.punct(":"):
			ev.next()
			v, err := ev.element()
			if err != nil {
				return nil, err
			}
			obj.Set(key, v)
		case sep.punct("(") || sep.punct("<"):
			return nil, ev.unsupported(t, "method")
		case t.kind == tokIdent && (t.text == "get" || t.text == "set") && sep.kind != tokPunct:
			return nil, ev.unsupported(t, "accessor")
		case t.kind == tokIdent && t.text == "async" && sep.kind != tokPunct:
			return nil, ev.unsupported(t, "method")
		case t.kind == tokIdent && (sep.punct(",") || sep.punct("}") || sep.punct("=")):
			return nil, ev.unsupported(t, "shorthand property")
		case sep.kind == tokEOF:
			return nil, ev.eof(sep)
		default:
			return nil, syntaxError(ev.src, sep.start, "expected ':' after property name")
		}
		if err := ev.separator("}"); err != nil {
			return nil, err
		}
	}
}

func (ev *evaluator) propertyKey() (string, error) {
	t := ev.next()
	switch t.kind {
	case tokIdent:
		return t.text, nil
	case tokString:
		return t.val, nil
	case tokNumber:
		v, err := ev.number(t, false)
		if err != nil {
			return "", err
		}
		return value.FormatFloat(v.Float()), nil
	case tokPunct:
		switch t.text {
		case "[":
			return "", ev.unsupported(t, "computed key")
		case "...":
			return "", ev.unsupported(t, "spread element")
		case "*":
			return "", ev.unsupported(t, "method")
		}
	case tokEOF:
		return "", ev.eof(t)
	}
	return "", ev.unsupported(t, "non-literal property name")
}

func (ev *evaluator) array() (*value.Value, error) {
	ev.next()
	arr := value.NewArray()
	for {
		t := ev.peek()
		switch {
		case t.punct("]"):
			ev.next()
			return arr, nil
		case t.punct(","):
			return nil, ev.unsupported(t, "array hole")
		}
		v, err := ev.element()
		if err != nil {
			return nil, err
		}
		arr.Append(v)
		if err := ev.separator("]"); err != nil {
			return nil, err
		}
	}
}

// separator consumes a comma, or leaves the closer for the caller's loop.
// Any other token means the element continued as an expression.
func (ev *evaluator) separator(closer string) error {
	t := ev.peek()
	switch {
	case t.punct(","):
		ev.next()
		return nil
	case t.punct(closer):
		return nil
	case t.kind == tokEOF:
		return ev.eof(t)
	}
	return ev.unsupported(t, "non-literal expression")
}

// number converts a numeric literal token, applying a unary minus.
func (ev *evaluator) number(t token, negate bool) (*value.Value, error) {
	text := t.text
	if strings.HasSuffix(text, "n") {
		return nil, ev.unsupported(t, "bigint literal")
	}
	text = strings.ReplaceAll(text, "_", "")

	if jsonNumber.MatchString(text) {
		f, _ := strconv.ParseFloat(text, 64)
		if math.IsInf(f, 0) {
			return nil, ev.unsupported(t, "non-finite number")
		}
		if !negate {
			return value.NewNumber(text), nil
		}
		if f == 0 {
			return value.NewNumber("0"), nil
		}
		return value.NewNumber("-" + text), nil
	}

	f, ok := parseNumeric(text)
	if !ok {
		return nil, syntaxError(ev.src, t.start, "invalid numeric literal "+t.text)
	}
	if math.IsInf(f, 0) {
		return nil, ev.unsupported(t, "non-finite number")
	}
	if negate {
		f = -f
	}
	return value.NewFloat(f), nil
}

func parseNumeric(text string) (float64, bool) {
	if len(text) > 2 && text[0] == '0' {
		base := 0
		switch text[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, ok := new(big.Int).SetString(text[2:], base)
			if !ok {
				return 0, false
			}
			f, _ := new(big.Float).SetInt(n).Float64()
			return f, true
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// skipAssertions steps over trailing `as T` / `satisfies T` clauses
// starting at i. At top level a line break also ends the type.
func skipAssertions(toks []token, i int, topLevel bool) int {
	for toks[i].ident("as") || toks[i].ident("satisfies") {
		i++
		depth := 0
		for first := true; ; first = false {
			t := toks[i]
			if t.kind == tokEOF {
				return i
			}
			if depth == 0 && !first {
				if t.punct(",") || t.punct("}") || t.punct("]") || t.punct(")") || t.punct(";") {
					break
				}
				if topLevel && t.nl {
					break
				}
				if t.ident("as") || t.ident("satisfies") {
					break
				}
			}
			switch t.text {
			case "(", "[", "{", "<":
				if t.kind == tokPunct {
					depth++
				}
			case ")", "]", "}", ">":
				if t.kind == tokPunct {
					depth--
				}
			case ">>":
				depth -= 2
			case ">>>":
				depth -= 3
			}
			if depth < 0 {
				return i
			}
			i++
		}
	}
	return i
}
