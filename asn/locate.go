package asn

import (
	"fmt"
	"strconv"
)

// FindSubvalue finds the one-level child of a constructed value by a
// single label: a field label for SEQUENCE, SET and CHOICE, a decimal
// index for *_OF values, or a '#'-prefixed alternative label (or index
// 0) selecting the single child of a CHOICE or TAGGED value.
//
// A schema-legal but unpopulated slot yields ErrIncompleteValue.
func (v *Value) FindSubvalue(label string) (*Value, error) {
	if v == nil {
		return nil, ErrWrongPointer
	}
	d := v.slots()
	if d == nil {
		return nil, fmt.Errorf("%w: %s value of %s is primitive", ErrWrongSyntax, v.syntax, v.typ)
	}
	switch {
	case v.syntax.IsArray():
		if !isIndex(label) {
			return nil, fmt.Errorf("%w: %q is not an index of %s", ErrNotFound, label, v.typ)
		}
		i, _ := strconv.Atoi(label)
		if i >= len(d.slots) {
			return nil, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfBounds, i, len(d.slots))
		}
		return d.slots[i], nil

	case v.syntax == Sequence, v.syntax == Set:
		if len(label) > 0 && label[0] == '#' {
			return nil, fmt.Errorf("%w: alternative %q in %s", ErrWrongSyntax, label, v.typ)
		}
		i, ok := v.typ.Entry(label)
		if !ok {
			return nil, fmt.Errorf("%w: %q in %s", ErrNotFound, label, v.typ)
		}
		if d.slots[i] == nil {
			return nil, fmt.Errorf("%w: %q in %s", ErrIncompleteValue, label, v.typ)
		}
		return d.slots[i], nil

	case v.syntax == Choice:
		child := d.slots[0]
		if isIndex(label) {
			if label != "0" {
				return nil, fmt.Errorf("%w: %s in %s", ErrIndexOutOfBounds, label, v.typ)
			}
			if child == nil {
				return nil, fmt.Errorf("%w: no alternative in %s", ErrIncompleteValue, v.typ)
			}
			return child, nil
		}
		alt := trimAlt(label)
		if _, ok := v.typ.Entry(alt); !ok {
			return nil, fmt.Errorf("%w: alternative %q in %s", ErrNotFound, alt, v.typ)
		}
		if child == nil || child.name != alt {
			return nil, fmt.Errorf("%w: alternative %q in %s", ErrIncompleteValue, alt, v.typ)
		}
		return child, nil

	case v.syntax == Tagged:
		child := d.slots[0]
		if isIndex(label) && label != "0" {
			return nil, fmt.Errorf("%w: %s in %s", ErrIndexOutOfBounds, label, v.typ)
		}
		if child == nil {
			return nil, fmt.Errorf("%w: nothing tagged in %s", ErrIncompleteValue, v.typ)
		}
		if label == "0" || (len(label) > 0 && label[0] == '#') {
			return child, nil
		}
		return child.FindSubvalue(label)
	}
	return nil, fmt.Errorf("%w: %s", ErrWrongSyntax, v.syntax)
}

// InsertSubvalue places nv into the slot of v named by a single label,
// destroying any previous occupant. A nil nv detaches and frees the
// occupant. For *_OF values an index equal to the current length
// appends.
func (v *Value) InsertSubvalue(label string, nv *Value) error {
	if v == nil {
		return ErrWrongPointer
	}
	if nv != nil && nv.parent != nil {
		return fmt.Errorf("%w: %s", ErrOwned, nv.typ)
	}
	if nv != nil && nv == v.Root() {
		return fmt.Errorf("%w: value cannot contain itself", ErrInvalid)
	}
	d := v.slots()
	if d == nil {
		return fmt.Errorf("%w: %s value of %s is primitive", ErrWrongSyntax, v.syntax, v.typ)
	}
	switch {
	case v.syntax.IsArray():
		if !isIndex(label) {
			return fmt.Errorf("%w: %q is not an index of %s", ErrNotFound, label, v.typ)
		}
		i, _ := strconv.Atoi(label)
		if i > len(d.slots) || (i == len(d.slots) && nv == nil) {
			return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfBounds, i, len(d.slots))
		}
		if nv != nil {
			if err := checkInstance(v.typ.Subtype, nv); err != nil {
				return err
			}
		}
		if i == len(d.slots) {
			d.slots = append(d.slots, nil)
		}
		if old := d.slots[i]; old != nil {
			old.parent = nil
			old.release()
		}
		if nv == nil {
			d.slots = append(d.slots[:i], d.slots[i+1:]...)
		} else {
			d.slots[i] = nv
			nv.parent = v
		}

	case v.syntax == Sequence, v.syntax == Set:
		i, ok := v.typ.Entry(label)
		if !ok {
			return fmt.Errorf("%w: %q in %s", ErrNotFound, label, v.typ)
		}
		if nv != nil {
			if err := checkInstance(v.typ.Entries[i].Type, nv); err != nil {
				return err
			}
		}
		v.place(d, i, i, nv)

	case v.syntax == Choice:
		var (
			i  int
			ok bool
		)
		switch {
		case isIndex(label) && label != "0":
			return fmt.Errorf("%w: %s in %s", ErrIndexOutOfBounds, label, v.typ)
		case label == "0" && nv == nil:
			v.place(d, 0, -1, nil)
			return nil
		case label == "0":
			i, ok = v.choiceEntryFor(nv)
		default:
			i, ok = v.typ.Entry(trimAlt(label))
		}
		if !ok {
			return fmt.Errorf("%w: alternative %q in %s", ErrNotFound, label, v.typ)
		}
		if nv == nil {
			if cur := d.slots[0]; cur != nil && cur.name == v.typ.Entries[i].Name {
				v.place(d, 0, -1, nil)
			}
			return nil
		}
		if err := checkInstance(v.typ.Entries[i].Type, nv); err != nil {
			return err
		}
		v.place(d, 0, i, nv)

	case v.syntax == Tagged:
		if isIndex(label) && label != "0" {
			return fmt.Errorf("%w: %s in %s", ErrIndexOutOfBounds, label, v.typ)
		}
		if label != "0" && (len(label) == 0 || label[0] != '#') {
			inner := d.slots[0]
			if inner == nil && nv == nil {
				return nil
			}
			if inner == nil {
				return fmt.Errorf("%w: nothing tagged in %s", ErrIncompleteValue, v.typ)
			}
			return inner.InsertSubvalue(label, nv)
		}
		if nv != nil {
			if err := checkInstance(v.typ.Subtype, nv); err != nil {
				return err
			}
		}
		v.place(d, 0, -1, nv)
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrWrongSyntax, v.syntax)
	}
	v.touch()
	return nil
}

// place stores nv in slot i, labelling it with named entry e if e >= 0.
func (v *Value) place(d *slotsPayload, i, e int, nv *Value) {
	if e >= 0 && nv != nil {
		entry := &v.typ.Entries[e]
		nv.name = entry.Name
		nv.tag = entry.Tag
	}
	if old := d.slots[i]; old != nil {
		old.parent = nil
		old.release()
	}
	d.slots[i] = nv
	if nv != nil {
		nv.parent = v
	}
	v.touch()
}

func (v *Value) choiceEntryFor(nv *Value) (int, bool) {
	if nv == nil {
		return -1, false
	}
	if nv.name != "" {
		return v.typ.Entry(nv.name)
	}
	for i := range v.typ.Entries {
		if v.typ.Entries[i].Type == nv.typ {
			return i, true
		}
	}
	return -1, false
}

func checkInstance(t *Type, nv *Value) error {
	if t == nil {
		return fmt.Errorf("%w: container has no subtype", ErrInvalid)
	}
	if t.Syntax != nv.syntax {
		return fmt.Errorf("%w: %s value for %s slot", ErrTypeMismatch, nv.syntax, t.Syntax)
	}
	return nil
}

func trimAlt(label string) string {
	if len(label) > 0 && label[0] == '#' {
		return label[1:]
	}
	return label
}

// Choice returns the label and value of the populated alternative of a
// CHOICE value.
func (v *Value) Choice() (string, *Value, error) {
	if v == nil {
		return "", nil, ErrWrongPointer
	}
	if v.syntax != Choice {
		return "", nil, fmt.Errorf("%w: %s is not a CHOICE", ErrWrongSyntax, v.typ)
	}
	child := v.slots().slots[0]
	if child == nil {
		return "", nil, fmt.Errorf("%w: no alternative in %s", ErrIncompleteValue, v.typ)
	}
	return child.name, child, nil
}

// ChildByTag finds the child of a named constructed value carrying tag.
func (v *Value) ChildByTag(tag Tag) (*Value, error) {
	if v == nil {
		return nil, ErrWrongPointer
	}
	if !v.syntax.IsNamed() {
		return nil, fmt.Errorf("%w: %s has no named fields", ErrWrongSyntax, v.typ)
	}
	label, err := v.typ.TagToLabel(tag)
	if err != nil {
		return nil, err
	}
	return v.FindSubvalue(label)
}
