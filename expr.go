package tad

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/signadot/tad/asn"
	"github.com/signadot/tad/debug"
)

type ExprOp int

const (
	OpConst ExprOp = iota
	OpArg
	OpNeg
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
)

var opSyms = map[ExprOp]byte{
	OpAdd: '+',
	OpSub: '-',
	OpMul: '*',
	OpDiv: '/',
	OpMod: '%',
}

// Expr is a node of an integer expression. Constants carry their width
// in octets: 4 for literals within the signed 32-bit range, 8 otherwise.
//
// A parsed Expr is immutable and may be evaluated concurrently with
// distinct argument arrays.
type Expr struct {
	Op    ExprOp
	Width int
	Val   int64
	Arg   int
	X, Y  *Expr
}

// ExprConstant returns a 64-bit constant expression.
func ExprConstant(n int64) *Expr {
	return &Expr{Op: OpConst, Width: 8, Val: n}
}

// ExprConstantBytes returns a 64-bit constant from up to 8 octets in
// network byte order.
func ExprConstantBytes(b []byte) (*Expr, error) {
	if len(b) > 8 {
		return nil, fmt.Errorf("%w: %d octets for an integer constant", asn.ErrInvalid, len(b))
	}
	var buf [8]byte
	copy(buf[8-len(b):], b)
	return ExprConstant(int64(binary.BigEndian.Uint64(buf[:]))), nil
}

// ParseExpr parses an expression:
//
//	expr := literal | '$' digits | '(' '-' expr ')' | '(' expr op expr ')'
//	op   := '+' | '-' | '*' | '/' | '%'
//
// Literals are decimal, 0-prefixed octal or 0x-prefixed hex. Every
// operation is parenthesized; there is no precedence. It returns the
// number of characters consumed, which on error is the offset of the
// error.
func ParseExpr(s string) (*Expr, int, error) {
	p := &exprParser{input: s}
	e, err := p.parse()
	if debug.Expr() {
		debug.Logf("parse expr %q: %d consumed, err %v\n", s, p.pos, err)
	}
	if err != nil {
		return nil, p.pos, err
	}
	return e, p.pos, nil
}

type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) errorf(format string, args ...any) error {
	return &ExprParseError{Input: p.input, Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *exprParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			p.pos++
		default:
			return
		}
	}
}

func (p *exprParser) parse() (*Expr, error) {
	p.skipSpace()
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		p.skipSpace()
		e := &Expr{}
		unary := p.peek() == '-'
		if unary {
			p.pos++
			p.skipSpace()
		}
		x, err := p.parse()
		if err != nil {
			return nil, err
		}
		e.X = x
		p.skipSpace()
		if unary {
			e.Op = OpNeg
		} else {
			switch p.peek() {
			case '+':
				e.Op = OpAdd
			case '-':
				e.Op = OpSub
			case '*':
				e.Op = OpMul
			case '/':
				e.Op = OpDiv
			case '%':
				e.Op = OpMod
			case 0:
				return nil, p.errorf("unexpected end, expected operator")
			default:
				return nil, p.errorf("unknown operator %q", p.peek())
			}
			p.pos++
			y, err := p.parse()
			if err != nil {
				return nil, err
			}
			e.Y = y
			p.skipSpace()
		}
		if p.peek() != ')' {
			return nil, p.errorf("expected ')'")
		}
		p.pos++
		return e, nil

	case isDigit(c):
		return p.literal()

	case c == '$':
		p.pos++
		start := p.pos
		for isDigit(p.peek()) {
			p.pos++
		}
		if start == p.pos {
			return nil, p.errorf("expected argument number after '$'")
		}
		n, err := strconv.Atoi(p.input[start:p.pos])
		if err != nil {
			return nil, p.errorf("argument number: %v", err)
		}
		return &Expr{Op: OpArg, Arg: n}, nil

	case c == 0:
		return nil, p.errorf("unexpected end of expression")
	}
	return nil, p.errorf("unexpected %q", c)
}

func (p *exprParser) literal() (*Expr, error) {
	base := 10
	start := p.pos
	if p.peek() == '0' {
		p.pos++
		switch {
		case isDigit(p.peek()):
			base = 8
		case p.peek() == 'x' || p.peek() == 'X':
			p.pos++
			base = 16
		default:
			return &Expr{Op: OpConst, Width: 4}, nil
		}
		start = p.pos
	}
	for p.pos < len(p.input) && isBaseDigit(p.input[p.pos], base) {
		p.pos++
	}
	if start == p.pos {
		return nil, p.errorf("expected base %d digits", base)
	}
	u, err := strconv.ParseUint(p.input[start:p.pos], base, 64)
	if err != nil || u > math.MaxInt64 {
		return nil, p.errorf("literal %q out of range", p.input[start:p.pos])
	}
	n := int64(u)
	e := &Expr{Op: OpConst, Val: n, Width: 4}
	if n > math.MaxInt32 {
		e.Width = 8
	}
	return e, nil
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isBaseDigit(c byte, base int) bool {
	switch base {
	case 8:
		return '0' <= c && c <= '7'
	case 16:
		return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
	}
	return isDigit(c)
}

// Eval evaluates the expression against the iteration arguments.
func (e *Expr) Eval(args []TmplArg) (int64, error) {
	if e == nil {
		return 0, ErrWrongPointer
	}
	switch e.Op {
	case OpConst:
		if e.Width == 4 {
			return int64(int32(e.Val)), nil
		}
		return e.Val, nil
	case OpArg:
		return argInt(args, e.Arg)
	}
	x, err := e.X.Eval(args)
	if err != nil {
		return 0, err
	}
	if e.Op == OpNeg {
		return -x, nil
	}
	y, err := e.Y.Eval(args)
	if err != nil {
		return 0, err
	}
	switch e.Op {
	case OpAdd:
		return x + y, nil
	case OpSub:
		return x - y, nil
	case OpMul:
		return x * y, nil
	case OpDiv, OpMod:
		if y == 0 {
			return 0, fmt.Errorf("%w: %s", ErrDivisionByZero, e)
		}
		if e.Op == OpDiv {
			return x / y, nil
		}
		return x % y, nil
	}
	return 0, fmt.Errorf("%w: expression op %d", asn.ErrInvalid, e.Op)
}

// String renders the canonical parenthesized form of the expression.
// Negative constants render as a negation.
func (e *Expr) String() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Op {
	case OpConst:
		if e.Val < 0 {
			return "(-" + strconv.FormatUint(uint64(-e.Val), 10) + ")"
		}
		return strconv.FormatInt(e.Val, 10)
	case OpArg:
		return "$" + strconv.Itoa(e.Arg)
	case OpNeg:
		return "(-" + e.X.String() + ")"
	}
	return "(" + e.X.String() + " " + string(opSyms[e.Op]) + " " + e.Y.String() + ")"
}
