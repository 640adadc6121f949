package asn

import "fmt"

// Syntax is the kind of an ASN.1 type or value. Primitive syntaxes
// carry a payload, constructed ones carry child values.
type Syntax int

const (
	Bool Syntax = iota
	Integer
	LongInt
	BitString
	OctString
	Null
	Enumerated
	Real
	OID
	CharString

	Sequence
	Set
	SequenceOf
	SetOf
	Choice
	Tagged
)

var syntaxNames = map[Syntax]string{
	Bool:       "BOOLEAN",
	Integer:    "INTEGER",
	LongInt:    "LONG_INT",
	BitString:  "BIT STRING",
	OctString:  "OCTET STRING",
	Null:       "NULL",
	Enumerated: "ENUMERATED",
	Real:       "REAL",
	OID:        "OBJECT IDENTIFIER",
	CharString: "CHAR STRING",
	Sequence:   "SEQUENCE",
	Set:        "SET",
	SequenceOf: "SEQUENCE OF",
	SetOf:      "SET OF",
	Choice:     "CHOICE",
	Tagged:     "TAGGED",
}

func (s Syntax) String() string {
	if n, ok := syntaxNames[s]; ok {
		return n
	}
	return "<unknown syntax>"
}

func (s Syntax) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Syntax) UnmarshalText(d []byte) error {
	for k, v := range syntaxNames {
		if v == string(d) {
			*s = k
			return nil
		}
	}
	switch string(d) {
	case "BOOL":
		*s = Bool
	case "OCT_STRING":
		*s = OctString
	case "BIT_STRING":
		*s = BitString
	case "CHAR_STRING":
		*s = CharString
	case "SEQUENCE_OF":
		*s = SequenceOf
	case "SET_OF":
		*s = SetOf
	default:
		return fmt.Errorf("unrecognized syntax %q", d)
	}
	return nil
}

func Syntaxes() []Syntax {
	return []Syntax{
		Bool, Integer, LongInt, BitString, OctString, Null, Enumerated, Real, OID, CharString,
		Sequence, Set, SequenceOf, SetOf, Choice, Tagged,
	}
}

// IsConstructed reports whether values of this syntax hold child values.
func (s Syntax) IsConstructed() bool {
	return s >= Sequence
}

// IsNamed reports whether the syntax addresses children by field label.
func (s Syntax) IsNamed() bool {
	switch s {
	case Sequence, Set, Choice:
		return true
	}
	return false
}

// IsArray reports whether the syntax is a *_OF array.
func (s Syntax) IsArray() bool {
	return s == SequenceOf || s == SetOf
}

// IsSingle reports whether at most one child slot may be populated.
func (s Syntax) IsSingle() bool {
	return s == Choice || s == Tagged
}
