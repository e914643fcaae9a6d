package types

import (
	"unicode"

	"github.com/teranos/tealdoc/errors"
)

// Parse reads a type expression in the form produced by String or Render.
//
// Both return styles are accepted: function(a):(b , c) and function(a):b.
// Whitespace between tokens is ignored.
func Parse(s string) (Type, error) {
	p := &parser{src: []rune(s)}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected %q after type", string(p.src[p.pos]))
	}
	return t, nil
}

// ParseSignature reads a function type and returns its signature.
func ParseSignature(s string) (FunctionSignature, error) {
	t, err := Parse(s)
	if err != nil {
		return FunctionSignature{}, err
	}
	fn, ok := t.(Function)
	if !ok {
		return FunctionSignature{}, errors.NewInvalidRequestError("%q is not a function type", s)
	}
	return fn.Signature, nil
}

// MustParse is Parse for literals known to be valid. It panics on error.
func MustParse(s string) Type {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

type parser struct {
	src []rune
	pos int
}

func (p *parser) errorf(format string, args ...interface{}) error {
	err := errors.NewInvalidRequestError(format, args...)
	return errors.Wrapf(err, "type expression %q at offset %d", string(p.src), p.pos)
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) skipSpace() {
	for !p.eof() && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

// peek returns the next non-space rune without consuming it.
func (p *parser) peek() (rune, bool) {
	p.skipSpace()
	if p.eof() {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *parser) accept(r rune) bool {
	if next, ok := p.peek(); ok && next == r {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(r rune) error {
	if !p.accept(r) {
		if p.eof() {
			return p.errorf("expected %q, got end of input", string(r))
		}
		return p.errorf("expected %q, got %q", string(r), string(p.src[p.pos]))
	}
	return nil
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (p *parser) ident() (string, error) {
	p.skipSpace()
	start := p.pos
	for !p.eof() && isIdentRune(p.src[p.pos]) {
		p.pos++
	}
	if start == p.pos {
		if p.eof() {
			return "", p.errorf("expected identifier, got end of input")
		}
		return "", p.errorf("expected identifier, got %q", string(p.src[p.pos]))
	}
	return string(p.src[start:p.pos]), nil
}

func (p *parser) parseType() (Type, error) {
	r, ok := p.peek()
	if !ok {
		return nil, p.errorf("expected type, got end of input")
	}

	if r == '{' {
		return p.parseTable()
	}

	first, err := p.ident()
	if err != nil {
		return nil, err
	}
	if first == "function" {
		if next, ok := p.peek(); ok && next == '(' {
			return p.parseFunction()
		}
	}

	name := QualifiedName{first}
	for p.accept('.') {
		seg, err := p.ident()
		if err != nil {
			return nil, err
		}
		name = append(name, seg)
	}

	single := Single{Name: name}
	if p.accept('<') {
		for {
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			single.Generics = append(single.Generics, arg)
			if p.accept('>') {
				break
			}
			if err := p.expect(','); err != nil {
				return nil, err
			}
		}
	}
	return single, nil
}

func (p *parser) parseTable() (Type, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	first, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.accept(':') {
		value, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect('}'); err != nil {
			return nil, err
		}
		return Map{Key: first, Value: value}, nil
	}
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	return Array{Element: first}, nil
}

// parseFunction runs after the "function" keyword.
func (p *parser) parseFunction() (Type, error) {
	params, err := p.parseList()
	if err != nil {
		return nil, err
	}
	if err := p.expect(':'); err != nil {
		return nil, err
	}

	var returns []Type
	if next, ok := p.peek(); ok && next == '(' {
		returns, err = p.parseList()
	} else {
		var ret Type
		ret, err = p.parseType()
		returns = []Type{ret}
	}
	if err != nil {
		return nil, err
	}
	return Function{Signature: FunctionSignature{Params: params, Returns: returns}}, nil
}

// parseList reads "(" [type {"," type}] ")".
func (p *parser) parseList() ([]Type, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	if p.accept(')') {
		return nil, nil
	}
	var list []Type
	for {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		list = append(list, t)
		if p.accept(')') {
			return list, nil
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
	}
}
