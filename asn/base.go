package asn

// Universal tag numbers.
const (
	TagBoolean    = 1
	TagInteger    = 2
	TagBitString  = 3
	TagOctString  = 4
	TagNull       = 5
	TagOID        = 6
	TagReal       = 9
	TagEnumerated = 10
	TagSequence   = 16
	TagSet        = 17
	TagCharString = 22
)

// Base types shared by all catalogs. They must not be modified.
var (
	BaseBoolean    = &Type{Name: "BOOLEAN", Tag: UniversalTag(TagBoolean), Syntax: Bool}
	BaseInteger    = &Type{Name: "INTEGER", Tag: UniversalTag(TagInteger), Syntax: Integer}
	BaseInt8       = &Type{Name: "INTEGER(0..255)", Tag: UniversalTag(TagInteger), Syntax: Integer, Len: 8}
	BaseInt16      = &Type{Name: "INTEGER(0..65535)", Tag: UniversalTag(TagInteger), Syntax: Integer, Len: 16}
	BaseInt32      = &Type{Name: "INTEGER(0..4294967295)", Tag: UniversalTag(TagInteger), Syntax: Integer, Len: 32}
	BaseLongInt    = &Type{Name: "LONG_INT", Tag: UniversalTag(TagInteger), Syntax: LongInt}
	BaseBitString  = &Type{Name: "BIT STRING", Tag: UniversalTag(TagBitString), Syntax: BitString}
	BaseOctString  = &Type{Name: "OCTET STRING", Tag: UniversalTag(TagOctString), Syntax: OctString}
	BaseNull       = &Type{Name: "NULL", Tag: UniversalTag(TagNull), Syntax: Null}
	BaseOID        = &Type{Name: "OBJECT IDENTIFIER", Tag: UniversalTag(TagOID), Syntax: OID}
	BaseReal       = &Type{Name: "REAL", Tag: UniversalTag(TagReal), Syntax: Real}
	BaseEnum       = &Type{Name: "ENUMERATED", Tag: UniversalTag(TagEnumerated), Syntax: Enumerated}
	BaseCharString = &Type{Name: "UniversalString", Tag: UniversalTag(TagCharString), Syntax: CharString}
)

// BaseTypes lists the base types by name.
var BaseTypes = map[string]*Type{}

func init() {
	for _, t := range []*Type{
		BaseBoolean, BaseInteger, BaseInt8, BaseInt16, BaseInt32, BaseLongInt,
		BaseBitString, BaseOctString, BaseNull, BaseOID, BaseReal, BaseEnum, BaseCharString,
	} {
		BaseTypes[t.Name] = t
	}
}

// FixedOctString returns an OCTET STRING type of exactly n octets.
func FixedOctString(name string, n int) *Type {
	return &Type{Name: name, Tag: UniversalTag(TagOctString), Syntax: OctString, Len: n}
}

// SequenceOfType returns a SEQUENCE OF elem type.
func SequenceOfType(name string, elem *Type) *Type {
	return &Type{Name: name, Tag: UniversalTag(TagSequence), Syntax: SequenceOf, Subtype: elem}
}
