package asn

import (
	"errors"
	"fmt"
)

var (
	// ErrIncompleteValue reports a schema-legal slot that is not populated:
	// an unset field, or a CHOICE/TAGGED value with no alternative.
	ErrIncompleteValue  = errors.New("incomplete value")
	ErrNotFound         = errors.New("label not found")
	ErrWrongSyntax      = errors.New("wrong syntax for operation")
	ErrIndexOutOfBounds = errors.New("index out of bounds")
	ErrWrongPointer     = errors.New("wrong pointer")
	ErrNotSupported     = errors.New("not supported")
	ErrInvalid          = errors.New("invalid argument")
	ErrBadPath          = errors.New("bad path")
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrSmallBuffer      = errors.New("buffer too small")
	ErrOwned            = errors.New("value already has an owner")
)

// PathError records the step of a multi-level path at which resolution
// stopped.
type PathError struct {
	Path string
	Step string
	Err  error
}

func (e *PathError) Unwrap() error {
	return e.Err
}

func (e *PathError) Error() string {
	if e.Step == "" || e.Step == e.Path {
		return fmt.Sprintf("path %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("path %q at %q: %v", e.Path, e.Step, e.Err)
}

func pathErr(path string, step *Step, err error) error {
	var pe *PathError
	if errors.As(err, &pe) {
		return err
	}
	s := ""
	if step != nil {
		s = step.SegmentString()
	}
	return &PathError{Path: path, Step: s, Err: err}
}
