package tad

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

type exprTest struct {
	in   string
	args []TmplArg
	res  int64
	str  string
	err  error
}

var exprTests = []exprTest{
	{in: "31", res: 31, str: "31"},
	{in: "0x1F", res: 31, str: "31"},
	{in: "0X1f", res: 31, str: "31"},
	{in: "037", res: 31, str: "31"},
	{in: "0", res: 0, str: "0"},
	{in: "(-5)", res: -5, str: "(-5)"},
	{in: "( - 5 )", res: -5, str: "(-5)"},
	{in: "($0 + $1)", args: IntArgs(3, 4), res: 7, str: "($0 + $1)"},
	{in: "($0 + $1)", args: IntArgs(3), err: ErrWrongStructure},
	{in: "$0", args: []TmplArg{StringArg("x")}, err: ErrWrongStructure},
	{in: "((2 * $0) - 1)", args: IntArgs(10), res: 19, str: "((2 * $0) - 1)"},
	{in: "(7 / 2)", res: 3},
	{in: "(7 % 2)", res: 1},
	{in: "(7 / 0)", err: ErrDivisionByZero},
	{in: "(7 % (1 - 1))", err: ErrDivisionByZero},
	{in: "(-(1 + 2))", res: -3, str: "(-(1 + 2))"},
	{in: "0x100000000", res: 1 << 32, str: "4294967296"},
	{in: "(0x7fffffff + 1)", res: 1 << 31},
}

func TestExpr(t *testing.T) {
	for _, tt := range exprTests {
		e, n, err := ParseExpr(tt.in)
		if err != nil {
			t.Errorf("%q: parse: %v", tt.in, err)
			continue
		}
		if n != len(tt.in) {
			t.Errorf("%q: consumed %d of %d", tt.in, n, len(tt.in))
		}
		res, err := e.Eval(tt.args)
		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Errorf("%q with %v: got %v, want %v", tt.in, tt.args, err, tt.err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: eval: %v", tt.in, err)
			continue
		}
		if res != tt.res {
			t.Errorf("%q: got %d, want %d", tt.in, res, tt.res)
		}
		if tt.str != "" && e.String() != tt.str {
			t.Errorf("%q: printed %q, want %q", tt.in, e.String(), tt.str)
		}
	}
}

func TestExprLiteralWidth(t *testing.T) {
	for in, w := range map[string]int{
		"1":          4,
		"2147483647": 4,
		"2147483648": 8,
		"0xffffffff": 8,
	} {
		e, _, err := ParseExpr(in)
		if err != nil {
			t.Fatal(err)
		}
		if e.Width != w {
			t.Errorf("%s: width %d, want %d", in, e.Width, w)
		}
	}
}

func TestExprParseErrors(t *testing.T) {
	tests := []struct {
		in     string
		offset int
	}{
		{"", 0},
		{"(1 +", 4},
		{"(1 ? 2)", 3},
		{"(1 + 2", 6},
		{"$", 1},
		{"0x", 2},
		{"08", 1},
		{"abc", 0},
		{"  (1 + x)", 7},
		{"99999999999999999999", 20},
	}
	for _, tt := range tests {
		e, n, err := ParseExpr(tt.in)
		if !errors.Is(err, ErrExprParse) {
			t.Errorf("%q: got %v, want parse error", tt.in, err)
			continue
		}
		if e != nil {
			t.Errorf("%q: partial expression returned", tt.in)
		}
		var pe *ExprParseError
		if !errors.As(err, &pe) {
			t.Fatalf("%q: %T is not an ExprParseError", tt.in, err)
		}
		if n != tt.offset || pe.Offset != tt.offset {
			t.Errorf("%q: offset %d (error %d), want %d", tt.in, n, pe.Offset, tt.offset)
		}
	}
}

func TestExprTrailingInput(t *testing.T) {
	e, n, err := ParseExpr("12 rest")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("consumed %d", n)
	}
	if res, _ := e.Eval(nil); res != 12 {
		t.Errorf("got %d", res)
	}
}

func TestExprConstantBytes(t *testing.T) {
	e, err := ExprConstantBytes([]byte{0x01, 0x02})
	if err != nil {
		t.Fatal(err)
	}
	if res, _ := e.Eval(nil); res != 0x0102 {
		t.Errorf("got %#x", res)
	}
	e, err = ExprConstantBytes([]byte{0xff, 0xff, 0xff, 0xff, 0xff})
	if err != nil {
		t.Fatal(err)
	}
	if res, _ := e.Eval(nil); res != 0xffffffffff {
		t.Errorf("got %#x", res)
	}
	if _, err := ExprConstantBytes(make([]byte, 9)); err == nil {
		t.Errorf("9 octets accepted")
	}
}

func TestExprConcurrentEval(t *testing.T) {
	defer goleak.VerifyNone(t)
	e, _, err := ParseExpr("($0 * $0)")
	if err != nil {
		t.Fatal(err)
	}
	res := make([]int64, 16)
	done := make(chan struct{})
	for i := range res {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			res[i], _ = e.Eval(IntArgs(int64(i)))
		}(i)
	}
	for range res {
		<-done
	}
	want := make([]int64, len(res))
	for i := range want {
		want[i] = int64(i * i)
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("results (-want +got):\n%s", diff)
	}
}

func TestParseArg(t *testing.T) {
	got := []TmplArg{
		ParseArg("42"),
		ParseArg("0x10"),
		ParseArg("'dead'H"),
		ParseArg("eth0"),
	}
	want := []TmplArg{
		IntArg(42),
		IntArg(16),
		OctetsArg([]byte{0xde, 0xad}),
		StringArg("eth0"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("args (-want +got):\n%s", diff)
	}
}
