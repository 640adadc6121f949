package asn

import (
	"slices"
)

// payload is the data held by a value. Each syntax family has exactly one
// payload variant; a nil payload on a primitive value means it has not
// been written yet.
type payload interface {
	isPayload()
}

// intPayload holds BOOLEAN, INTEGER and ENUMERATED values.
type intPayload struct{ v int64 }

// bytesPayload holds OCTET STRING, CHAR STRING, BIT STRING and LONG_INT
// values as raw octets.
type bytesPayload struct{ b []byte }

type realPayload struct{ f float64 }

type oidPayload struct{ ids []uint32 }

type nullPayload struct{}

// slotsPayload holds the owned children of a constructed value. For named
// syntaxes there is one slot per entry (one single slot for CHOICE and
// TAGGED); a nil slot is unset.
type slotsPayload struct{ slots []*Value }

func (intPayload) isPayload()    {}
func (bytesPayload) isPayload()  {}
func (realPayload) isPayload()   {}
func (oidPayload) isPayload()    {}
func (nullPayload) isPayload()   {}
func (*slotsPayload) isPayload() {}

// Value is a mutable node of a value tree bound to a Type. Every value
// has at most one owner: inserting it into a container makes the
// container its parent, and a value with a parent cannot be inserted
// elsewhere until it is detached.
type Value struct {
	typ    *Type
	tag    Tag
	syntax Syntax
	name   string
	parent *Value
	data   payload

	// txtLen caches the length of String(): -1 unknown, 0 incomplete.
	txtLen int
}

// NewValue creates an empty value of type t.
func NewValue(t *Type) *Value {
	if t == nil {
		return nil
	}
	v := &Value{
		typ:    t,
		tag:    t.Tag,
		syntax: t.Syntax,
		txtLen: -1,
	}
	switch {
	case t.Syntax == Sequence, t.Syntax == Set:
		v.data = &slotsPayload{slots: make([]*Value, len(t.Entries))}
	case t.Syntax.IsSingle():
		v.data = &slotsPayload{slots: make([]*Value, 1)}
	case t.Syntax.IsArray():
		v.data = &slotsPayload{}
	case t.Syntax == Null:
		v.data = nullPayload{}
	}
	return v
}

func (v *Value) Type() *Type    { return v.typ }
func (v *Value) Tag() Tag       { return v.tag }
func (v *Value) Syntax() Syntax { return v.syntax }

// Name returns the field label of the value, or the empty string for a
// value that is not a named field.
func (v *Value) Name() string { return v.name }

// SetName sets the label of a value that is not owned by a container.
func (v *Value) SetName(name string) {
	v.name = name
	v.touch()
}

// Parent returns the container owning v, if any.
func (v *Value) Parent() *Value { return v.parent }

// Root returns the top of the tree containing v.
func (v *Value) Root() *Value {
	res := v
	for res.parent != nil {
		res = res.parent
	}
	return res
}

// Len returns the length of the value. For primitive values it is the
// bit width of INTEGER, the octet count of strings, LONG_INT and REAL,
// the sub-id count of OBJECT IDENTIFIER or the bit count of BIT STRING.
// For constructed values it is the number of populated slots.
func (v *Value) Len() int {
	switch d := v.data.(type) {
	case intPayload:
		if v.syntax == Bool {
			return 1
		}
		if v.typ.Len == 0 {
			return 32
		}
		return v.typ.Len
	case bytesPayload:
		if v.syntax == BitString {
			return len(d.b) * 8
		}
		return len(d.b)
	case realPayload:
		return 8
	case oidPayload:
		return len(d.ids)
	case *slotsPayload:
		n := 0
		for _, c := range d.slots {
			if c != nil {
				n++
			}
		}
		return n
	}
	return 0
}

// Children returns the populated children of a constructed value in slot
// order. The returned values are borrowed.
func (v *Value) Children() []*Value {
	d, ok := v.data.(*slotsPayload)
	if !ok {
		return nil
	}
	res := make([]*Value, 0, len(d.slots))
	for _, c := range d.slots {
		if c != nil {
			res = append(res, c)
		}
	}
	return res
}

// IsSet reports whether a primitive value has been written, or whether a
// constructed value has at least one populated slot.
func (v *Value) IsSet() bool {
	switch d := v.data.(type) {
	case nil:
		return false
	case *slotsPayload:
		return slices.ContainsFunc(d.slots, func(c *Value) bool { return c != nil })
	}
	return true
}

func (v *Value) slots() *slotsPayload {
	d, _ := v.data.(*slotsPayload)
	return d
}

// touch invalidates cached text lengths from v up to the root.
func (v *Value) touch() {
	for x := v; x != nil; x = x.parent {
		x.txtLen = -1
	}
}

// Free releases a value tree depth first. If v is owned it is first
// detached from its container.
func (v *Value) Free() {
	if v == nil {
		return
	}
	if p := v.parent; p != nil {
		p.detach(v)
	}
	v.release()
}

func (v *Value) release() {
	if d := v.slots(); d != nil {
		for i, c := range d.slots {
			if c != nil {
				c.parent = nil
				c.release()
			}
			d.slots[i] = nil
		}
		d.slots = d.slots[:0]
	}
	v.data = nil
	v.txtLen = -1
}

// detach removes child from its slot in v without releasing it.
func (v *Value) detach(child *Value) {
	d := v.slots()
	if d == nil {
		return
	}
	for i, c := range d.slots {
		if c != child {
			continue
		}
		if v.syntax.IsArray() {
			d.slots = slices.Delete(d.slots, i, i+1)
		} else {
			d.slots[i] = nil
		}
		break
	}
	child.parent = nil
	v.touch()
}

// Clone returns a deep copy of v with no owner.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	res := &Value{
		typ:    v.typ,
		tag:    v.tag,
		syntax: v.syntax,
		name:   v.name,
		txtLen: v.txtLen,
	}
	switch d := v.data.(type) {
	case bytesPayload:
		res.data = bytesPayload{b: slices.Clone(d.b)}
	case oidPayload:
		res.data = oidPayload{ids: slices.Clone(d.ids)}
	case *slotsPayload:
		cd := &slotsPayload{slots: make([]*Value, len(d.slots))}
		for i, c := range d.slots {
			if c == nil {
				continue
			}
			cc := c.Clone()
			cc.parent = res
			cd.slots[i] = cc
		}
		res.data = cd
	default:
		res.data = d
	}
	return res
}
