package scenario

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/callinfer/internal/config"
	"github.com/funvibe/callinfer/internal/typesystem"
)

type tokenType int

const (
	tokEOF tokenType = iota
	tokIllegal
	tokIdent
	tokLParen
	tokRParen
	tokLT
	tokGT
	tokComma
	tokDot
	tokArrow
)

type token struct {
	Type    tokenType
	Literal string
	Column  int
}

type lexer struct {
	input        string
	position     int
	readPosition int
	ch           rune
	column       int
}

func newLexer(input string) *lexer {
	l := &lexer{input: input}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *lexer) nextToken() token {
	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}

	tok := token{Literal: string(l.ch), Column: l.column}
	switch l.ch {
	case 0:
		return token{Type: tokEOF, Column: l.column}
	case '(':
		tok.Type = tokLParen
	case ')':
		tok.Type = tokRParen
	case '<':
		tok.Type = tokLT
	case '>':
		tok.Type = tokGT
	case ',':
		tok.Type = tokComma
	case '.':
		tok.Type = tokDot
	case '-':
		if l.peekChar() == '>' {
			l.readChar()
			tok.Type = tokArrow
			tok.Literal = "->"
		} else {
			tok.Type = tokIllegal
		}
	default:
		if isIdentStart(l.ch) {
			start := l.position
			for isIdentPart(l.ch) {
				l.readChar()
			}
			tok.Type = tokIdent
			tok.Literal = l.input[start:l.position]
			return tok
		}
		tok.Type = tokIllegal
	}
	l.readChar()
	return tok
}

func isIdentStart(ch rune) bool {
	return ch == '_' || ch == '$' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || unicode.IsDigit(ch)
}

// typeParser reads type expressions:
//
//	Int   List<T>   (A, B) -> R   A.() -> R   Function(A) -> R   KFunction(A) -> R
//
// Names accepted by isVariable become type variables, everything else a
// named type.
type typeParser struct {
	l          *lexer
	input      string
	curToken   token
	peekToken  token
	isVariable func(name string) bool
}

func newTypeParser(input string, isVariable func(string) bool) *typeParser {
	p := &typeParser{l: newLexer(input), input: input, isVariable: isVariable}
	p.nextToken()
	p.nextToken()
	return p
}

// ParseType parses a single type expression. isVariable may be nil.
func ParseType(input string, isVariable func(string) bool) (typesystem.Type, error) {
	if isVariable == nil {
		isVariable = func(string) bool { return false }
	}
	p := newTypeParser(input, isVariable)
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if !p.curTokenIs(tokEOF) {
		return nil, p.errorf("unexpected %q after type", p.curToken.Literal)
	}
	return t, nil
}

func (p *typeParser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.nextToken()
}

func (p *typeParser) curTokenIs(t tokenType) bool {
	return p.curToken.Type == t
}

func (p *typeParser) expect(t tokenType, what string) error {
	if !p.curTokenIs(t) {
		return p.errorf("expected %s, got %q", what, p.curToken.Literal)
	}
	p.nextToken()
	return nil
}

func (p *typeParser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("type %q, column %d: %s", p.input, p.curToken.Column, fmt.Sprintf(format, args...))
}

func (p *typeParser) parseType() (typesystem.Type, error) {
	switch p.curToken.Type {
	case tokLParen:
		return p.parseParenthesized()
	case tokIdent:
		if isFunctionTypeName(p.curToken.Literal) && p.peekToken.Type == tokLParen {
			reflect := p.curToken.Literal == config.ReflectFunctionTypeName
			p.nextToken()
			params, err := p.parseParameterList()
			if err != nil {
				return nil, err
			}
			return p.parseFunctionTail(nil, params, reflect)
		}
		t, err := p.parseNamedType()
		if err != nil {
			return nil, err
		}
		if p.curTokenIs(tokDot) {
			// extension function type: Receiver.(Params) -> R
			p.nextToken()
			params, err := p.parseParameterList()
			if err != nil {
				return nil, err
			}
			return p.parseFunctionTail(t, params, false)
		}
		return t, nil
	}
	return nil, p.errorf("expected a type, got %q", p.curToken.Literal)
}

// parseParenthesized handles both a parameter list followed by an arrow and
// a plain parenthesized type.
func (p *typeParser) parseParenthesized() (typesystem.Type, error) {
	params, err := p.parseParameterList()
	if err != nil {
		return nil, err
	}
	if !p.curTokenIs(tokArrow) {
		if len(params) != 1 {
			return nil, p.errorf("expected '->' after parameter list")
		}
		return params[0], nil
	}
	return p.parseFunctionTail(nil, params, false)
}

func (p *typeParser) parseParameterList() ([]typesystem.Type, error) {
	if err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}
	params := []typesystem.Type{}
	if p.curTokenIs(tokRParen) {
		p.nextToken()
		return params, nil
	}
	for {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, t)
		if p.curTokenIs(tokComma) {
			p.nextToken()
			continue
		}
		break
	}
	if err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *typeParser) parseFunctionTail(receiver typesystem.Type, params []typesystem.Type, reflect bool) (typesystem.Type, error) {
	if err := p.expect(tokArrow, "'->'"); err != nil {
		return nil, err
	}
	ret, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return typesystem.TFunc{Receiver: receiver, Params: params, ReturnType: ret, Reflect: reflect}, nil
}

func isFunctionTypeName(name string) bool {
	return name == config.FunctionTypeName || name == config.ReflectFunctionTypeName
}

func (p *typeParser) parseNamedType() (typesystem.Type, error) {
	name := p.curToken.Literal
	p.nextToken()
	if !p.curTokenIs(tokLT) {
		if p.isVariable(name) {
			return typesystem.TVar{Name: name}, nil
		}
		return typesystem.TCon{Name: name}, nil
	}
	if p.isVariable(name) {
		return nil, p.errorf("type variable %s cannot take arguments", name)
	}

	p.nextToken()
	var args []typesystem.Type
	for {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, t)
		if p.curTokenIs(tokComma) {
			p.nextToken()
			continue
		}
		break
	}
	if err := p.expect(tokGT, "'>'"); err != nil {
		return nil, err
	}
	return typesystem.TApp{Constructor: typesystem.TCon{Name: name}, Args: args}, nil
}
