package tad

import (
	"errors"
	"fmt"

	"github.com/signadot/tad/asn"
)

var (
	// ErrWrongStructure reports arguments or data that do not fit the
	// data unit being evaluated, such as a missing or non-integer $N.
	ErrWrongStructure = errors.New("wrong data structure")
	ErrExprParse      = errors.New("expression parse error")
	ErrDivisionByZero = errors.New("division by zero")
	// ErrLessData reports a data unit with nothing to project.
	ErrLessData       = errors.New("no data for data unit")
	ErrNotMatch       = errors.New("data does not match")
	ErrFunctionExists = errors.New("function exists")

	ErrNotSupported = asn.ErrNotSupported
	ErrWrongPointer = asn.ErrWrongPointer
)

// ExprParseError locates a syntax error in an expression. Offset is the
// number of input characters consumed before the error.
type ExprParseError struct {
	Input  string
	Offset int
	Msg    string
}

func (e *ExprParseError) Unwrap() error {
	return ErrExprParse
}

func (e *ExprParseError) Error() string {
	return fmt.Sprintf("%s at offset %d of %q: %s", ErrExprParse, e.Offset, e.Input, e.Msg)
}
