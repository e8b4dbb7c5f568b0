package anyconv

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const csonIndent = "  "

// csonCodec reads and writes CoffeeScript Object Notation.
type csonCodec struct{}

func (csonCodec) Format() Format { return CSON }

// Decode parses a CSON document. Objects may be written as indented blocks
// or with braces; array and brace members are separated by commas or
// newlines.
func (csonCodec) Decode(data []byte) (any, error) {
	toks, err := lexCSON(string(data))
	if err != nil {
		return nil, err
	}
	p := &csonParser{toks: toks}
	return p.document()
}

// Encode writes the root object as a block of key: value lines, nested
// objects as indented blocks and arrays one element per line.
func (csonCodec) Encode(v any) ([]byte, error) {
	var b strings.Builder
	if obj, ok := v.(*Object); ok && obj.Len() > 0 {
		if err := writeCSONMembers(&b, obj, 0); err != nil {
			return nil, err
		}
		return []byte(strings.TrimSuffix(b.String(), "\n")), nil
	}
	if err := writeCSONValue(&b, v, 0); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func writeCSONMembers(b *strings.Builder, obj *Object, level int) error {
	var err error
	obj.Range(func(k string, v any) bool {
		b.WriteString(strings.Repeat(csonIndent, level))
		b.WriteString(json5Key(k))
		b.WriteByte(':')
		if nested, ok := v.(*Object); ok && nested.Len() > 0 {
			b.WriteByte('\n')
			err = writeCSONMembers(b, nested, level+1)
			return err == nil
		}
		b.WriteByte(' ')
		if err = writeCSONValue(b, v, level); err != nil {
			return false
		}
		b.WriteByte('\n')
		return true
	})
	return err
}

func writeCSONValue(b *strings.Builder, v any, level int) error {
	switch x := v.(type) {
	case *Object:
		if x.Len() == 0 {
			b.WriteString("{}")
			return nil
		}
		b.WriteString("{\n")
		if err := writeCSONMembers(b, x, level+1); err != nil {
			return err
		}
		b.WriteString(strings.Repeat(csonIndent, level))
		b.WriteByte('}')
	case []any:
		if len(x) == 0 {
			b.WriteString("[]")
			return nil
		}
		b.WriteString("[\n")
		for _, e := range x {
			b.WriteString(strings.Repeat(csonIndent, level+1))
			if err := writeCSONValue(b, e, level+1); err != nil {
				return err
			}
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat(csonIndent, level))
		b.WriteByte(']')
	default:
		s, err := marshalJSON(v)
		if err != nil {
			return err
		}
		b.Write(s)
	}
	return nil
}

type csonKind int

const (
	csonEOF csonKind = iota
	csonIdent
	csonString
	csonNumber
	csonColon
	csonComma
	csonLBrack
	csonRBrack
	csonLBrace
	csonRBrace
)

// csonToken is one lexeme. first marks the first token on its line, which is
// how the parser sees line breaks and indentation.
type csonToken struct {
	kind  csonKind
	text  string
	value any
	line  int
	col   int
	first bool
}

func (t csonToken) String() string {
	if t.kind == csonEOF {
		return "end of input"
	}
	return strconv.Quote(t.text)
}

var csonPunct = map[byte]csonKind{
	':': csonColon,
	',': csonComma,
	'[': csonLBrack,
	']': csonRBrack,
	'{': csonLBrace,
	'}': csonRBrace,
}

var csonEscapes = map[byte]string{
	'n': "\n", 't': "\t", 'r': "\r", 'b': "\b", 'f': "\f", 'v': "\v", '0': "\x00",
	'\\': `\`, '\'': "'", '"': `"`, '/': "/",
	'\n': "", // line continuation
}

type csonLexer struct {
	src   string
	pos   int
	line  int
	col   int
	first bool
	toks  []csonToken
}

func lexCSON(src string) ([]csonToken, error) {
	lx := &csonLexer{src: src, line: 1, first: true}
	if strings.HasPrefix(src, "\ufeff") {
		lx.pos = len("\ufeff")
	}
	for {
		if err := lx.skipSpace(); err != nil {
			return nil, err
		}
		if lx.pos >= len(lx.src) {
			lx.toks = append(lx.toks, csonToken{kind: csonEOF, line: lx.line, col: lx.col, first: true})
			return lx.toks, nil
		}
		if err := lx.next(); err != nil {
			return nil, err
		}
	}
}

func (lx *csonLexer) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d, column %d: %s", lx.line, lx.col+1, fmt.Sprintf(format, args...))
}

func (lx *csonLexer) advance(n int) {
	for i := 0; i < n && lx.pos < len(lx.src); i++ {
		if lx.src[lx.pos] == '\n' {
			lx.line++
			lx.col = 0
			lx.first = true
		} else {
			lx.col++
		}
		lx.pos++
	}
}

func (lx *csonLexer) skipSpace() error {
	for lx.pos < len(lx.src) {
		switch c := lx.src[lx.pos]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			lx.advance(1)
		case strings.HasPrefix(lx.src[lx.pos:], "###"):
			end := strings.Index(lx.src[lx.pos+3:], "###")
			if end < 0 {
				return lx.errorf("unterminated block comment")
			}
			lx.advance(end + 6)
		case c == '#':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.advance(1)
			}
		default:
			return nil
		}
	}
	return nil
}

func (lx *csonLexer) emit(kind csonKind, text string, value any, line, col int) {
	lx.toks = append(lx.toks, csonToken{kind: kind, text: text, value: value, line: line, col: col, first: lx.first})
	lx.first = false
}

func (lx *csonLexer) next() error {
	line, col := lx.line, lx.col
	c := lx.src[lx.pos]
	if kind, ok := csonPunct[c]; ok {
		lx.emit(kind, string(c), nil, line, col)
		lx.advance(1)
		return nil
	}
	switch {
	case c == '"' || c == '\'':
		s, err := lx.quoted(c)
		if err != nil {
			return err
		}
		lx.emit(csonString, s, s, line, col)
		return nil
	case isCSONDigit(c) || ((c == '-' || c == '+' || c == '.') && lx.pos+1 < len(lx.src) && (isCSONDigit(lx.src[lx.pos+1]) || lx.src[lx.pos+1] == '.')):
		start := lx.pos
		lx.advance(1)
		for lx.pos < len(lx.src) && isCSONNumberByte(lx.src[lx.pos], lx.src[lx.pos-1]) {
			lx.advance(1)
		}
		text := lx.src[start:lx.pos]
		v, err := csonNumberValue(text)
		if err != nil {
			return fmt.Errorf("line %d, column %d: invalid number %q", line, col+1, text)
		}
		lx.emit(csonNumber, text, v, line, col)
		return nil
	case isCSONIdentStart(c):
		start := lx.pos
		for lx.pos < len(lx.src) && isCSONIdentPart(lx.src[lx.pos]) {
			lx.advance(1)
		}
		text := lx.src[start:lx.pos]
		lx.emit(csonIdent, text, nil, line, col)
		return nil
	}
	r, _ := utf8.DecodeRuneInString(lx.src[lx.pos:])
	return lx.errorf("unexpected character %q", r)
}

func (lx *csonLexer) quoted(q byte) (string, error) {
	if strings.HasPrefix(lx.src[lx.pos:], strings.Repeat(string(q), 3)) {
		return "", lx.errorf("block strings are not supported")
	}
	first := lx.first
	lx.advance(1)
	var b strings.Builder
	for {
		if lx.pos >= len(lx.src) || lx.src[lx.pos] == '\n' {
			return "", lx.errorf("unterminated string")
		}
		c := lx.src[lx.pos]
		switch c {
		case q:
			lx.advance(1)
			lx.first = first
			return b.String(), nil
		case '\\':
			if lx.pos+1 >= len(lx.src) {
				return "", lx.errorf("unterminated string")
			}
			if err := lx.escape(&b); err != nil {
				return "", err
			}
		default:
			b.WriteByte(c)
			lx.advance(1)
		}
	}
}

func (lx *csonLexer) escape(b *strings.Builder) error {
	e := lx.src[lx.pos+1]
	if s, ok := csonEscapes[e]; ok {
		b.WriteString(s)
		lx.advance(2)
		return nil
	}
	width := 0
	switch e {
	case 'u':
		width = 4
	case 'x':
		width = 2
	default:
		b.WriteByte(e)
		lx.advance(2)
		return nil
	}
	start := lx.pos + 2
	if start+width > len(lx.src) {
		return lx.errorf("truncated \\%c escape", e)
	}
	n, err := strconv.ParseUint(lx.src[start:start+width], 16, 32)
	if err != nil {
		return lx.errorf("invalid \\%c escape %q", e, lx.src[start:start+width])
	}
	b.WriteRune(rune(n))
	lx.advance(2 + width)
	return nil
}

func isCSONDigit(c byte) bool { return c >= '0' && c <= '9' }

func isCSONNumberByte(c, prev byte) bool {
	switch {
	case isCSONDigit(c), c == '.', c == '_':
		return true
	case c >= 'a' && c <= 'f', c >= 'A' && c <= 'F', c == 'x', c == 'X', c == 'o', c == 'O':
		return true
	case (c == '+' || c == '-') && (prev == 'e' || prev == 'E'):
		return true
	}
	return false
}

func isCSONIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isCSONIdentPart(c byte) bool { return isCSONIdentStart(c) || isCSONDigit(c) }

// csonNumberValue accepts decimal, 0x, 0o and 0b literals. A leading zero on
// a decimal literal does not mean octal.
func csonNumberValue(text string) (any, error) {
	base := 10
	if u := strings.TrimLeft(text, "+-"); len(u) > 1 && u[0] == '0' && strings.ContainsRune("xXoObB", rune(u[1])) {
		base = 0
	}
	if i, err := strconv.ParseInt(text, base, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, err
	}
	return numberValue(f), nil
}

type csonParser struct {
	toks []csonToken
	pos  int
}

func (p *csonParser) peek() csonToken { return p.toks[p.pos] }

func (p *csonParser) take() csonToken {
	t := p.toks[p.pos]
	if t.kind != csonEOF {
		p.pos++
	}
	return t
}

func (p *csonParser) errorf(t csonToken, format string, args ...any) error {
	return fmt.Errorf("line %d, column %d: %s", t.line, t.col+1, fmt.Sprintf(format, args...))
}

// isKey reports whether the token at the cursor starts a key: value pair.
func (p *csonParser) isKey() bool {
	t := p.peek()
	switch t.kind {
	case csonIdent, csonString, csonNumber:
		return p.toks[p.pos+1].kind == csonColon
	}
	return false
}

func (p *csonParser) document() (any, error) {
	t := p.peek()
	if t.kind == csonEOF {
		return nil, nil
	}
	var v any
	var err error
	if p.isKey() {
		v, err = p.block(t.col)
	} else {
		v, err = p.value()
	}
	if err != nil {
		return nil, err
	}
	if end := p.peek(); end.kind != csonEOF {
		return nil, p.errorf(end, "unexpected %s", end)
	}
	return v, nil
}

// block parses an implicit object whose keys sit at column col. It ends at a
// line indented less than col or at anything that is not a key.
func (p *csonParser) block(col int) (*Object, error) {
	obj := NewObject()
	for {
		if err := p.member(obj); err != nil {
			return nil, err
		}
		t := p.peek()
		if t.kind == csonComma {
			p.take()
			if p.isKey() {
				continue
			}
			return obj, nil
		}
		if !t.first || t.kind == csonEOF {
			return obj, nil
		}
		switch {
		case t.col > col:
			return nil, p.errorf(t, "unexpected indentation")
		case t.col < col || !p.isKey():
			return obj, nil
		}
	}
}

// member parses key: value into obj.
func (p *csonParser) member(obj *Object) error {
	kt := p.take()
	key := kt.text
	if kt.kind == csonString {
		key = kt.value.(string)
	}
	p.take() // colon
	t := p.peek()
	if t.kind == csonEOF || t.first && t.col <= kt.col {
		return p.errorf(kt, "missing value for key %q", key)
	}
	var v any
	var err error
	if p.isKey() {
		v, err = p.block(t.col)
	} else {
		v, err = p.value()
	}
	if err != nil {
		return err
	}
	obj.Set(key, v)
	return nil
}

func (p *csonParser) value() (any, error) {
	t := p.take()
	switch t.kind {
	case csonString, csonNumber:
		return t.value, nil
	case csonIdent:
		switch t.text {
		case "true", "yes", "on":
			return true, nil
		case "false", "no", "off":
			return false, nil
		case "null", "undefined":
			return nil, nil
		}
		return nil, p.errorf(t, "unexpected identifier %s", t)
	case csonLBrack:
		return p.array()
	case csonLBrace:
		return p.braces()
	}
	return nil, p.errorf(t, "unexpected %s", t)
}

func (p *csonParser) array() ([]any, error) {
	items := []any{}
	for {
		t := p.peek()
		switch {
		case t.kind == csonComma:
			p.take()
			continue
		case t.kind == csonRBrack:
			p.take()
			return items, nil
		case t.kind == csonEOF:
			return nil, p.errorf(t, "unterminated array")
		}
		var v any
		var err error
		if p.isKey() {
			v, err = p.block(t.col)
		} else {
			v, err = p.value()
		}
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		if next := p.peek(); next.kind != csonComma && next.kind != csonRBrack && !next.first {
			return nil, p.errorf(next, "expected , or ] but found %s", next)
		}
	}
}

func (p *csonParser) braces() (*Object, error) {
	obj := NewObject()
	for {
		t := p.peek()
		switch {
		case t.kind == csonComma:
			p.take()
			continue
		case t.kind == csonRBrace:
			p.take()
			return obj, nil
		case t.kind == csonEOF:
			return nil, p.errorf(t, "unterminated object")
		case !p.isKey():
			return nil, p.errorf(t, "expected key but found %s", t)
		}
		if err := p.member(obj); err != nil {
			return nil, err
		}
		if next := p.peek(); next.kind != csonComma && next.kind != csonRBrace && !next.first {
			return nil, p.errorf(next, "expected , or } but found %s", next)
		}
	}
}
