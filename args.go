package tad

import (
	"encoding/hex"
	"fmt"
	"strconv"
)

type ArgKind int

const (
	ArgInt ArgKind = iota
	ArgString
	ArgOctets
)

func (k ArgKind) String() string {
	switch k {
	case ArgInt:
		return "INT"
	case ArgString:
		return "STRING"
	case ArgOctets:
		return "OCTETS"
	}
	return "<unknown arg kind>"
}

// TmplArg is one iteration argument, referenced as $N by expressions.
type TmplArg struct {
	Kind   ArgKind
	Int    int64
	Str    string
	Octets []byte
}

func IntArg(n int64) TmplArg     { return TmplArg{Kind: ArgInt, Int: n} }
func StringArg(s string) TmplArg { return TmplArg{Kind: ArgString, Str: s} }
func OctetsArg(b []byte) TmplArg { return TmplArg{Kind: ArgOctets, Octets: b} }

// IntArgs builds an argument array of integers.
func IntArgs(ns ...int64) []TmplArg {
	res := make([]TmplArg, len(ns))
	for i, n := range ns {
		res[i] = IntArg(n)
	}
	return res
}

func (a TmplArg) String() string {
	switch a.Kind {
	case ArgInt:
		return strconv.FormatInt(a.Int, 10)
	case ArgString:
		return strconv.Quote(a.Str)
	case ArgOctets:
		return "'" + hex.EncodeToString(a.Octets) + "'H"
	}
	return fmt.Sprintf("<%s>", a.Kind)
}

// ParseArg parses the textual form of an argument: a decimal, 0-octal or
// 0x-hex integer, a 'hex'H octet string, or anything else as a string.
func ParseArg(s string) TmplArg {
	if n, err := strconv.ParseInt(s, 0, 64); err == nil {
		return IntArg(n)
	}
	if len(s) >= 3 && s[0] == '\'' && s[len(s)-2:] == "'H" {
		if b, err := hex.DecodeString(s[1 : len(s)-2]); err == nil {
			return OctetsArg(b)
		}
	}
	return StringArg(s)
}

func argInt(args []TmplArg, i int) (int64, error) {
	if i < 0 || i >= len(args) {
		return 0, fmt.Errorf("%w: argument $%d, have %d", ErrWrongStructure, i, len(args))
	}
	if args[i].Kind != ArgInt {
		return 0, fmt.Errorf("%w: argument $%d is %s, not INT", ErrWrongStructure, i, args[i].Kind)
	}
	return args[i].Int, nil
}
