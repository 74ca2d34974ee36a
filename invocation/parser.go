package invocation

import (
	"bytes"
	"errors"
	"go/ast"
	goparser "go/parser"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"
)

// item is one scanned token; off is its byte offset in the argument source.
type item struct {
	off int
	tok token.Token
	lit string
}

func (it item) text() string {
	if it.lit != "" {
		return it.lit
	}
	return it.tok.String()
}

// argParser holds the state for parsing one argument list.
type argParser struct {
	src     []byte
	base    token.Position
	printer Printer

	items []item
	cur   int
}

// Parse parses the argument source of one invocation. base is the position
// of src[0] in its file; the zero Position means line 1, column 1 of an
// unnamed file. A nil printer means CanonicalPrinter.
//
// On failure the error is a *SyntaxError and no Invocation is returned.
func Parse(base token.Position, src []byte, printer Printer) (*Invocation, error) {
	if printer == nil {
		printer = CanonicalPrinter
	}
	if base.Line <= 0 {
		base.Line, base.Column = 1, 1
	}
	if base.Column <= 0 {
		base.Column = 1
	}
	p := &argParser{src: src, base: base, printer: printer}
	if err := p.scan(); err != nil {
		return nil, err
	}
	return p.parseInvocation()
}

// ParseString parses src as an unnamed argument list with the canonical printer.
func ParseString(src string) (*Invocation, error) {
	return Parse(token.Position{}, []byte(src), nil)
}

// scan tokenizes the whole source up front, dropping the semicolons the Go
// scanner inserts at line ends.
func (p *argParser) scan() error {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(p.src))

	var first *SyntaxError
	var s scanner.Scanner
	s.Init(file, p.src, func(pos token.Position, msg string) {
		if first == nil {
			first = &SyntaxError{
				Pos:    p.position(pos.Offset),
				Detail: msg,
			}
		}
	}, 0)

	for {
		pos, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}
		p.items = append(p.items, item{off: file.Offset(pos), tok: tok, lit: lit})
	}
	if first != nil {
		first.Expected = p.expectedAt(first.Pos.Offset - p.base.Offset)
		if first.Detail == "string literal not terminated" || first.Detail == "raw string literal not terminated" {
			first.Expected = "string literal"
		}
		return first
	}
	return nil
}

// expectedAt names the construct being read at offset off: the message up
// to the first top-level comma, the clock after it.
func (p *argParser) expectedAt(off int) string {
	depth := 0
	for _, it := range p.items {
		if it.off >= off {
			break
		}
		switch it.tok {
		case token.LPAREN, token.LBRACK, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACK, token.RBRACE:
			depth--
		case token.COMMA:
			if depth == 0 {
				return "clock expression"
			}
		}
	}
	return "message expression"
}

func (p *argParser) parseInvocation() (*Invocation, error) {
	// The message is a literal only when the very next token is one.
	var msg Message
	if p.peek().tok == token.STRING {
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		msg = Literal(lit)
	} else {
		expr, _, err := p.parseExpr(p.commaBoundary(), "message expression")
		if err != nil {
			return nil, err
		}
		msg = Expression(expr, p.printer)
	}

	if err := p.expect(token.COMMA); err != nil {
		return nil, err
	}

	clock, clockSrc, err := p.parseExpr(len(p.items), "clock expression")
	if err != nil {
		return nil, err
	}

	return &Invocation{
		Message:     msg,
		Clock:       clock,
		ClockSource: clockSrc,
		Pos:         p.base,
	}, nil
}

func (p *argParser) peek() item {
	if p.cur < len(p.items) {
		return p.items[p.cur]
	}
	return item{off: len(p.src), tok: token.EOF}
}

func (p *argParser) expect(tok token.Token) error {
	it := p.peek()
	if it.tok != tok {
		return &SyntaxError{
			Pos:      p.position(it.off),
			Expected: "'" + tok.String() + "'",
			Found:    it.text(),
		}
	}
	p.cur++
	return nil
}

func (p *argParser) parseLiteral() (string, error) {
	it := p.peek()
	s, err := strconv.Unquote(it.lit)
	if err != nil {
		return "", &SyntaxError{
			Pos:      p.position(it.off),
			Expected: "string literal",
			Found:    it.lit,
			Detail:   err.Error(),
		}
	}
	p.cur++
	return s, nil
}

// commaBoundary returns the index of the first comma at bracket depth zero
// at or after the cursor, or len(p.items) if there is none.
func (p *argParser) commaBoundary() int {
	depth := 0
	for i := p.cur; i < len(p.items); i++ {
		switch p.items[i].tok {
		case token.LPAREN, token.LBRACK, token.LBRACE:
			depth++
		case token.RPAREN, token.RBRACK, token.RBRACE:
			depth--
		case token.COMMA:
			if depth == 0 {
				return i
			}
		}
	}
	return len(p.items)
}

// parseExpr parses items[cur:end] as one Go expression and moves the cursor
// to end. It returns the expression and its trimmed source.
func (p *argParser) parseExpr(end int, what string) (ast.Expr, string, error) {
	if end <= p.cur {
		it := p.peek()
		return nil, "", &SyntaxError{
			Pos:      p.position(it.off),
			Expected: what,
			Found:    it.text(),
		}
	}

	start := p.items[p.cur].off
	stop := len(p.src)
	if end < len(p.items) {
		stop = p.items[end].off
	}
	region := p.src[start:stop]

	expr, err := goparser.ParseExprFrom(token.NewFileSet(), "", region, 0)
	if err != nil {
		serr := &SyntaxError{Pos: p.position(start), Expected: what}
		var list scanner.ErrorList
		if errors.As(err, &list) && len(list) > 0 {
			serr.Pos = p.position(start + list[0].Pos.Offset)
			serr.Detail = list[0].Msg
		} else {
			serr.Detail = err.Error()
		}
		return nil, "", serr
	}

	p.cur = end
	return expr, string(bytes.TrimSpace(region)), nil
}

// position maps a byte offset in the argument source to file coordinates.
func (p *argParser) position(off int) token.Position {
	if off > len(p.src) {
		off = len(p.src)
	}
	pos := p.base
	pos.Offset += off
	head := p.src[:off]
	if nl := bytes.Count(head, []byte{'\n'}); nl > 0 {
		pos.Line += nl
		pos.Column = off - bytes.LastIndexByte(head, '\n')
	} else {
		pos.Column += off
	}
	return pos
}

// String renders the parsed invocation back as an argument list.
func (inv *Invocation) String() string {
	var b strings.Builder
	if inv.Message.IsLiteral() {
		b.WriteString(strconv.Quote(inv.Message.Text()))
	} else {
		b.WriteString(inv.Message.Source())
	}
	b.WriteString(", ")
	b.WriteString(inv.ClockSource)
	return b.String()
}
