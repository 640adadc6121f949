package asn

import (
	"fmt"
	"strconv"
)

// NamedEntry is a field of a SEQUENCE or SET, or an alternative of a
// CHOICE.
type NamedEntry struct {
	Name string
	Type *Type
	Tag  Tag
}

// EnumEntry is a named value of an ENUMERATED type.
type EnumEntry struct {
	Name  string
	Value int
}

// Type is an immutable schema node. Types are built once, referenced by
// values and never owned by them.
//
// Len depends on the syntax: the bit width for INTEGER and LONG_INT (zero
// meaning the native 32 bits for INTEGER and 64 for LONG_INT), the fixed
// octet count for OCTET and CHAR STRING, the fixed bit count for BIT
// STRING. Zero means unconstrained. For named syntaxes the field count is
// len(Entries), for ENUMERATED len(Enums).
type Type struct {
	Name    string
	Tag     Tag
	Syntax  Syntax
	Len     int
	Entries []NamedEntry
	Subtype *Type
	Enums   []EnumEntry
}

func (t *Type) String() string {
	if t == nil {
		return "<nil type>"
	}
	if t.Name != "" {
		return t.Name
	}
	return t.Syntax.String()
}

// FieldCount returns the overloaded length of the type: the number of
// named entries or enum entries, or Len for primitive types.
func (t *Type) FieldCount() int {
	switch {
	case t.Syntax.IsNamed():
		return len(t.Entries)
	case t.Syntax == Enumerated:
		return len(t.Enums)
	}
	return t.Len
}

// Width returns the octet width of an integer-like type's payload, or
// zero if the payload length is not fixed by the type.
func (t *Type) Width() int {
	switch t.Syntax {
	case Bool:
		return 1
	case Integer, Enumerated:
		if t.Len == 0 {
			return 4
		}
		return (t.Len + 7) / 8
	case LongInt:
		if t.Len == 0 {
			return 8
		}
		return (t.Len + 7) / 8
	case Real:
		return 8
	case OctString, CharString:
		return t.Len
	case BitString:
		return (t.Len + 7) / 8
	}
	return 0
}

// Entry returns the index of the named entry with the given label.
func (t *Type) Entry(label string) (int, bool) {
	for i := range t.Entries {
		if t.Entries[i].Name == label {
			return i, true
		}
	}
	return -1, false
}

// LabelToTag maps a field label of a named type to the tag of the field.
func (t *Type) LabelToTag(label string) (Tag, error) {
	if !t.Syntax.IsNamed() {
		return Tag{}, fmt.Errorf("%w: %s has no named fields", ErrWrongSyntax, t)
	}
	i, ok := t.Entry(label)
	if !ok {
		return Tag{}, fmt.Errorf("%w: %q in %s", ErrNotFound, label, t)
	}
	return t.Entries[i].Tag, nil
}

// TagToLabel maps a field tag of a named type to the field label.
func (t *Type) TagToLabel(tag Tag) (string, error) {
	if !t.Syntax.IsNamed() {
		return "", fmt.Errorf("%w: %s has no named fields", ErrWrongSyntax, t)
	}
	for i := range t.Entries {
		if t.Entries[i].Tag.Equal(tag) {
			return t.Entries[i].Name, nil
		}
	}
	return "", fmt.Errorf("%w: tag %s in %s", ErrNotFound, tag, t)
}

// EnumValue returns the numeric value of a named enum entry.
func (t *Type) EnumValue(name string) (int, bool) {
	for _, e := range t.Enums {
		if e.Name == name {
			return e.Value, true
		}
	}
	return 0, false
}

// EnumName returns the name of the entry with value v.
func (t *Type) EnumName(v int) (string, bool) {
	for _, e := range t.Enums {
		if e.Value == v {
			return e.Name, true
		}
	}
	return "", false
}

// FindSubtype finds the one-level subtype of a constructed type. For
// *_OF and TAGGED types the label is ignored.
func (t *Type) FindSubtype(label string) (*Type, error) {
	if t == nil {
		return nil, ErrWrongPointer
	}
	switch {
	case t.Syntax.IsArray(), t.Syntax == Tagged:
		if t.Subtype == nil {
			return nil, fmt.Errorf("%w: %s has no subtype", ErrInvalid, t)
		}
		return t.Subtype, nil
	case t.Syntax.IsNamed():
		if len(label) > 0 && label[0] == '#' {
			label = label[1:]
		}
		i, ok := t.Entry(label)
		if !ok {
			return nil, fmt.Errorf("%w: %q in %s", ErrNotFound, label, t)
		}
		return t.Entries[i].Type, nil
	}
	return nil, fmt.Errorf("%w: %s is primitive", ErrWrongSyntax, t)
}

// SubtypeAt resolves a multi-level path against the type tree.
func (t *Type) SubtypeAt(path string) (*Type, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	res := t
	for s := p; s != nil; s = s.Next {
		for _, tok := range s.tokens() {
			if res.Syntax == Tagged && tok[0] != '#' && !isIndex(tok) {
				res = res.Subtype
			}
			res, err = res.FindSubtype(tok)
			if err != nil {
				return nil, pathErr(path, s, err)
			}
		}
	}
	return res, nil
}

func isIndex(tok string) bool {
	if tok == "" {
		return false
	}
	_, err := strconv.Atoi(tok)
	return err == nil && tok[0] != '-' && tok[0] != '+'
}
