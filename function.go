package tad

import (
	"fmt"
	"os"
	"regexp"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// FuncImpl computes an integer field value from the iteration arguments.
type FuncImpl func(args []TmplArg) (int64, error)

var (
	funcMu sync.RWMutex
	funcs  = map[string]FuncImpl{}
)

// RegisterFunction makes fn available to function data units by name.
func RegisterFunction(name string, fn FuncImpl) error {
	funcMu.Lock()
	defer funcMu.Unlock()
	if _, present := funcs[name]; present {
		return fmt.Errorf("%s: %w", name, ErrFunctionExists)
	}
	funcs[name] = fn
	return nil
}

func LookupFunction(name string) FuncImpl {
	funcMu.RLock()
	defer funcMu.RUnlock()
	return funcs[name]
}

func init() {
	RegisterFunction("sum", func(args []TmplArg) (int64, error) {
		var res int64
		for i := range args {
			n, err := argInt(args, i)
			if err != nil {
				return 0, err
			}
			res += n
		}
		return res, nil
	})
	RegisterFunction("first", func(args []TmplArg) (int64, error) {
		return argInt(args, 0)
	})
}

// Function is the compiled body of a function data unit: either a
// registered Go function or an expr-lang program over the iteration
// arguments.
type Function struct {
	Src  string
	impl FuncImpl
	prg  *vm.Program
}

var identRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// CompileFunction resolves src as the name of a registered function, or
// else compiles it as an expr-lang program. Programs see the integer
// arguments as args, the string arguments as strs, and argc as the
// argument count.
func CompileFunction(src string) (*Function, error) {
	if identRE.MatchString(src) {
		if fn := LookupFunction(src); fn != nil {
			return &Function{Src: src, impl: fn}, nil
		}
	}
	prg, err := expr.Compile(src, funcOpts(funcEnv(nil))...)
	if err != nil {
		return nil, fmt.Errorf("%w: function %q: %w", ErrWrongStructure, src, err)
	}
	return &Function{Src: src, prg: prg}, nil
}

// Call computes the function value for one iteration.
func (f *Function) Call(args []TmplArg) (int64, error) {
	if f == nil {
		return 0, ErrWrongPointer
	}
	if f.impl != nil {
		return f.impl(args)
	}
	res, err := expr.Run(f.prg, funcEnv(args))
	if err != nil {
		return 0, fmt.Errorf("%w: function %q: %w", ErrWrongStructure, f.Src, err)
	}
	switch n := res.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%w: function %q returned %T", ErrWrongStructure, f.Src, res)
}

func (f *Function) String() string {
	if f == nil {
		return "<nil>"
	}
	return f.Src
}

func funcEnv(args []TmplArg) map[string]any {
	ints := make([]int, len(args))
	strs := make([]string, len(args))
	for i, a := range args {
		switch a.Kind {
		case ArgInt:
			ints[i] = int(a.Int)
		case ArgString:
			strs[i] = a.Str
		case ArgOctets:
			strs[i] = string(a.Octets)
		}
	}
	return map[string]any{
		"args": ints,
		"strs": strs,
		"argc": len(args),
	}
}

func funcOpts(env map[string]any) []expr.Option {
	return []expr.Option{
		expr.Env(env),
		expr.Function("getenv", func(params ...any) (any, error) {
			return os.Getenv(params[0].(string)), nil
		},
			new(func(string) string)),
		expr.Function("htons", func(params ...any) (any, error) {
			n := params[0].(int)
			return int(uint16(n)>>8 | uint16(n)<<8), nil
		},
			new(func(int) int)),
	}
}
