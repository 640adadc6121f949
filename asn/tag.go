package asn

import (
	"fmt"
	"strconv"
	"strings"
)

type Class uint8

const (
	Universal Class = iota
	Application
	ContextSpecific
	Private
)

func (c Class) String() string {
	s, ok := map[Class]string{
		Universal:       "UNIVERSAL",
		Application:     "APPLICATION",
		ContextSpecific: "CONTEXT",
		Private:         "PRIVATE",
	}[c]
	if ok {
		return s
	}
	return "<unknown class>"
}

func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Class) UnmarshalText(d []byte) error {
	cc, ok := map[string]Class{
		"UNIVERSAL":   Universal,
		"APPLICATION": Application,
		"CONTEXT":     ContextSpecific,
		"PRIVATE":     Private,
	}[strings.ToUpper(string(d))]
	if !ok {
		return fmt.Errorf("unrecognized tag class %q", d)
	}
	*c = cc
	return nil
}

// Tag is an ASN.1 tag: a class and a number within that class.
type Tag struct {
	Class Class
	Val   uint16
}

// Equal is a flat compare of class and number.
func (t Tag) Equal(o Tag) bool {
	return t.Class == o.Class && t.Val == o.Val
}

func (t Tag) String() string {
	return "[" + t.Class.String() + " " + strconv.Itoa(int(t.Val)) + "]"
}

func UniversalTag(v uint16) Tag   { return Tag{Class: Universal, Val: v} }
func ApplicationTag(v uint16) Tag { return Tag{Class: Application, Val: v} }
func ContextTag(v uint16) Tag     { return Tag{Class: ContextSpecific, Val: v} }
func PrivateTag(v uint16) Tag     { return Tag{Class: Private, Val: v} }

// ParseTag parses the textual form of a tag, "[PRIVATE 1]", with the
// brackets optional and the class case-insensitive.
func ParseTag(s string) (Tag, error) {
	f := strings.Fields(strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(s), "["), "]"))
	if len(f) != 2 {
		return Tag{}, fmt.Errorf("%w: tag %q", ErrInvalid, s)
	}
	var c Class
	if err := c.UnmarshalText([]byte(f[0])); err != nil {
		return Tag{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	n, err := strconv.ParseUint(f[1], 10, 16)
	if err != nil {
		return Tag{}, fmt.Errorf("%w: tag number %q", ErrInvalid, f[1])
	}
	return Tag{Class: c, Val: uint16(n)}, nil
}
