package tad

import (
	"errors"
	"testing"
)

func TestRegisterFunction(t *testing.T) {
	err := RegisterFunction("test-double", func(args []TmplArg) (int64, error) {
		n, err := argInt(args, 0)
		return 2 * n, err
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := RegisterFunction("sum", nil); !errors.Is(err, ErrFunctionExists) {
		t.Errorf("duplicate: got %v", err)
	}
	if LookupFunction("test-double") == nil {
		t.Errorf("lookup failed")
	}
	if LookupFunction("no-such-function") != nil {
		t.Errorf("unknown function found")
	}
}

func TestFunctionCall(t *testing.T) {
	t.Setenv("TAD_TEST_FUNC", "eth0")
	tests := []struct {
		src  string
		args []TmplArg
		res  int64
		err  error
	}{
		{src: "sum", args: IntArgs(1, 2, 3), res: 6},
		{src: "sum", args: []TmplArg{IntArg(1), StringArg("x")}, err: ErrWrongStructure},
		{src: "first", args: IntArgs(9, 8), res: 9},
		{src: "first", err: ErrWrongStructure},
		{src: "args[0] + args[1]", args: IntArgs(40, 2), res: 42},
		{src: "argc", args: IntArgs(1, 1, 1), res: 3},
		{src: "args[0] > 10", args: IntArgs(11), res: 1},
		{src: "args[0] > 10", args: IntArgs(9), res: 0},
		{src: `len(strs[0])`, args: []TmplArg{StringArg("hello")}, res: 5},
		{src: `getenv("TAD_TEST_FUNC") == "eth0" ? 1 : 2`, res: 1},
		{src: "htons(0x0800)", res: 0x0008},
		{src: "args[3]", args: IntArgs(1), err: ErrWrongStructure},
		{src: `"text"`, err: ErrWrongStructure},
	}
	for _, tt := range tests {
		f, err := CompileFunction(tt.src)
		if err != nil {
			t.Errorf("%s: compile: %v", tt.src, err)
			continue
		}
		res, err := f.Call(tt.args)
		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Errorf("%s: got %v, want %v", tt.src, err, tt.err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %v", tt.src, err)
			continue
		}
		if res != tt.res {
			t.Errorf("%s: got %d, want %d", tt.src, res, tt.res)
		}
	}
}

func TestCompileFunctionErrors(t *testing.T) {
	for _, src := range []string{"args[0] +", "no_such_function(1)", "undefined_name"} {
		if _, err := CompileFunction(src); !errors.Is(err, ErrWrongStructure) {
			t.Errorf("%q: got %v", src, err)
		}
	}
}
