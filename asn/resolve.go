package asn

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/signadot/tad/debug"
)

type pathTok struct {
	label string
	step  *Step
}

func flatten(p *Step) []pathTok {
	var res []pathTok
	for s := p; s != nil; s = s.Next {
		for _, tok := range s.tokens() {
			res = append(res, pathTok{label: tok, step: s})
		}
	}
	return res
}

// Get resolves a multi-level path to a sub-value. The result is borrowed
// from the tree. The empty path resolves to v itself.
func (v *Value) Get(path string) (*Value, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	return v.walk(path, flatten(p), false)
}

// Put inserts child at path, materializing missing intermediate values.
// A nil child detaches and frees the value at path.
func (v *Value) Put(path string, child *Value) error {
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	toks := flatten(p)
	if len(toks) == 0 {
		return fmt.Errorf("%w: cannot put at the root", ErrBadPath)
	}
	last := toks[len(toks)-1]
	parent, err := v.walk(path, toks[:len(toks)-1], child != nil)
	if err != nil {
		return err
	}
	if child != nil && parent.throughTag(last.label) {
		if parent, err = parent.taggedInner(); err != nil {
			return pathErr(path, last.step, err)
		}
	}
	if err := parent.InsertSubvalue(last.label, child); err != nil {
		return pathErr(path, last.step, err)
	}
	return nil
}

// FreeSubvalue detaches and frees the sub-value at path. Freeing an
// unpopulated slot is a no-op.
func (v *Value) FreeSubvalue(path string) error {
	return v.Put(path, nil)
}

func (v *Value) walk(path string, toks []pathTok, create bool) (*Value, error) {
	if v == nil {
		return nil, ErrWrongPointer
	}
	cur := v
	for _, tok := range toks {
		if debug.Path() {
			debug.Logf("resolve %q: %s %q\n", path, cur.typ, tok.label)
		}
		next, err := cur.FindSubvalue(tok.label)
		if err != nil {
			if !create || !cur.creatable(tok.label, err) {
				return nil, pathErr(path, tok.step, err)
			}
			next, err = cur.createSub(tok.label)
			if err != nil {
				return nil, pathErr(path, tok.step, err)
			}
		}
		cur = next
	}
	return cur, nil
}

// creatable reports whether a failed lookup of label may be satisfied by
// creating an empty value in the slot.
func (v *Value) creatable(label string, err error) bool {
	switch {
	case errors.Is(err, ErrIncompleteValue):
		return !(v.syntax == Choice && label == "0")
	case errors.Is(err, ErrIndexOutOfBounds) && v.syntax.IsArray():
		i, aerr := strconv.Atoi(label)
		return aerr == nil && i == len(v.slots().slots)
	}
	return false
}

func (v *Value) createSub(label string) (*Value, error) {
	if v.throughTag(label) {
		inner, err := v.taggedInner()
		if err != nil {
			return nil, err
		}
		next, err := inner.FindSubvalue(label)
		if err == nil {
			return next, nil
		}
		if !inner.creatable(label, err) {
			return nil, err
		}
		return inner.createSub(label)
	}
	t, err := v.typ.FindSubtype(label)
	if err != nil {
		return nil, err
	}
	nv := NewValue(t)
	if err := v.InsertSubvalue(label, nv); err != nil {
		return nil, err
	}
	return nv, nil
}

// throughTag reports whether label names a field of the value a TAGGED
// value holds rather than the held value itself.
func (v *Value) throughTag(label string) bool {
	return v.syntax == Tagged && label != "0" && (label == "" || label[0] != '#')
}

// taggedInner returns the value held by the TAGGED value v, creating it
// if unset.
func (v *Value) taggedInner() (*Value, error) {
	if inner := v.slots().slots[0]; inner != nil {
		return inner, nil
	}
	inner := NewValue(v.typ.Subtype)
	if inner == nil {
		return nil, fmt.Errorf("%w: %s has no subtype", ErrInvalid, v.typ)
	}
	if err := v.InsertSubvalue("#", inner); err != nil {
		return nil, err
	}
	return inner, nil
}
